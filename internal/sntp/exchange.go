package sntp

import (
	"errors"
	"fmt"
	"time"
)

const (
	// attemptTimeout bounds one wait for a reply; maxAttempts bounds
	// the resend loop. Worst case the exchange blocks about 6 seconds
	// before giving up.
	attemptTimeout = 2 * time.Second
	maxAttempts    = 3
)

// Transport is the I/O boundary the exchange engine drives: a connected
// datagram socket reduced to two calls. Recv reports an expired wait as
// ErrRecvTimeout; any other error from either call is fatal for the run.
type Transport interface {
	Send(p []byte) error
	Recv(timeout time.Duration) ([]byte, error)
}

// Exchange performs the network round trip with bounded retries: send
// the request, wait up to two seconds, resend on timeout, three attempts
// total. It returns at most one structurally decoded reply. Reply
// contents beyond the minimum length are not validated here.
func Exchange(t Transport, request []byte) (*Packet, error) {
	return exchange(t, request, attemptTimeout, maxAttempts)
}

func exchange(t Transport, request []byte, timeout time.Duration, attempts int) (*Packet, error) {
	for try := 0; try < attempts; try++ {
		// Resend the identical bytes on every attempt: a delayed reply
		// to an earlier attempt must still pass the originate echo
		// check, so the nonce cannot change between tries.
		if err := t.Send(request); err != nil {
			return nil, fmt.Errorf("%w: send: %v", ErrSocket, err)
		}

		data, err := t.Recv(timeout)
		if errors.Is(err, ErrRecvTimeout) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("%w: recv: %v", ErrSocket, err)
		}

		// Undersized datagrams are rejected here via the codec's
		// length check; they are terminal, not retried.
		return DecodeReply(data)
	}

	return nil, fmt.Errorf("%w after %d attempts", ErrNoResponse, attempts)
}
