package netio

import (
	"errors"
	"fmt"
	"net"
	"time"

	"clockstep.dev/sntpc/internal/sntp"
)

// recvBufferSize comfortably holds any SNTP datagram; replies longer
// than the 68-byte layout are decoded with the tail ignored.
const recvBufferSize = 512

// Conn is a connected UDP socket to a single SNTP server. Connecting
// the socket lets the kernel filter datagrams from other sources and
// surface ICMP errors as recv failures.
type Conn struct {
	udp *net.UDPConn
}

var _ sntp.Transport = (*Conn)(nil)

// Dial opens a connected IPv4 UDP socket to ip:port.
func Dial(ip net.IP, port int) (*Conn, error) {
	raddr := &net.UDPAddr{IP: ip, Port: port}
	udp, err := net.DialUDP("udp4", nil, raddr)
	if err != nil {
		return nil, fmt.Errorf("%w: dial %s: %v", sntp.ErrSocket, raddr, err)
	}
	return &Conn{udp: udp}, nil
}

// RemoteAddr returns the server address the socket is connected to.
func (c *Conn) RemoteAddr() net.Addr {
	return c.udp.RemoteAddr()
}

// Send writes one datagram. Errors are returned raw; the exchange
// layer owns the sentinel mapping.
func (c *Conn) Send(p []byte) error {
	_, err := c.udp.Write(p)
	return err
}

// Recv waits up to timeout for one datagram. A deadline expiry comes
// back as sntp.ErrRecvTimeout so callers can tell silence apart from a
// broken socket.
func (c *Conn) Recv(timeout time.Duration) ([]byte, error) {
	if err := c.udp.SetReadDeadline(time.Now().Add(timeout)); err != nil {
		return nil, err
	}
	buf := make([]byte, recvBufferSize)
	n, err := c.udp.Read(buf)
	if err != nil {
		var nerr net.Error
		if errors.As(err, &nerr) && nerr.Timeout() {
			return nil, sntp.ErrRecvTimeout
		}
		return nil, err
	}
	return buf[:n], nil
}

// Close releases the socket.
func (c *Conn) Close() error {
	return c.udp.Close()
}
