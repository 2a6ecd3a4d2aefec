// Package sntp defines the sentinel errors for the whole run. Every one
// of these is terminal: the tool performs a single exchange and a single
// decision, so there is no recovery beyond the exchange engine's own
// bounded retry.
package sntp

import "errors"

var (
	// Resolution / transport errors
	ErrResolutionFailed = errors.New("sntp: no usable address for server")
	ErrSocket           = errors.New("sntp: socket error")
	ErrNoResponse       = errors.New("sntp: no response from server")

	// ErrRecvTimeout is how a Transport reports an expired receive
	// wait. It is consumed by the exchange retry loop and never
	// surfaces to callers; exhausted retries become ErrNoResponse.
	ErrRecvTimeout = errors.New("sntp: receive timed out")

	// Structural reply errors
	ErrShortPacket = errors.New("sntp: short reply packet")

	// Reply validation errors
	ErrUnexpectedMode = errors.New("sntp: unexpected reply mode")
	ErrKissOfDeath    = errors.New("sntp: kiss-of-death reply")
	ErrPoorQuality    = errors.New("sntp: reply quality out of bounds")
	ErrSpoofedReply   = errors.New("sntp: originate timestamp mismatch")

	// Clock policy errors
	ErrBackwardsStep  = errors.New("sntp: refusing to step clock backwards")
	ErrOffsetTooLarge = errors.New("sntp: clock offset exceeds threshold")

	// Clock write errors
	ErrClockWrite = errors.New("sntp: failed to set system clock")
)
