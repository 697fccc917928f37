// Package socket provides the UDP socket abstraction the worker pool is
// built on: address reuse at bind time so the kernel can hash datagrams
// across a group of sockets, a receive timeout that turns into a soft
// continue signal instead of an error, and, on platforms that support
// it, a batched receive path backed by recvmmsg(2).
package socket

import (
	"context"
	"errors"
	"fmt"
	"net"
	"syscall"
	"time"
)

// Socket wraps one UDP file descriptor. It is not safe for concurrent
// use - each worker creates, binds, and drives its own Socket for the
// lifetime of its receive loop.
type Socket struct {
	conn    *net.UDPConn
	timeout time.Duration
}

// Bind creates a UDP socket with SO_REUSEADDR set and binds it to addr.
// Address reuse lets every worker in the pool bind the same address;
// the kernel then distributes incoming datagrams across the group.
func Bind(addr string) (*Socket, error) {
	lc := net.ListenConfig{
		Control: func(_, _ string, c syscall.RawConn) error {
			var sockErr error
			if err := c.Control(func(fd uintptr) {
				sockErr = setReuseAddr(fd)
			}); err != nil {
				return err
			}
			return sockErr
		},
	}

	pc, err := lc.ListenPacket(context.Background(), "udp", addr)
	if err != nil {
		return nil, fmt.Errorf("bind udp %s: %w", addr, err)
	}

	udpConn, ok := pc.(*net.UDPConn)
	if !ok {
		pc.Close()
		return nil, fmt.Errorf("bind udp %s: unexpected packet conn type %T", addr, pc)
	}

	return &Socket{conn: udpConn}, nil
}

// SetRecvBuffer sets the socket's receive buffer size in bytes.
func (s *Socket) SetRecvBuffer(n int) error {
	if err := s.conn.SetReadBuffer(n); err != nil {
		return fmt.Errorf("set recv buffer: %w", err)
	}
	return nil
}

// SetRecvTimeout sets the per-read timeout. A read that exceeds it
// returns an error for which IsSoftError reports true; callers must
// treat that as a continue signal, not a failure.
func (s *Socket) SetRecvTimeout(d time.Duration) {
	s.timeout = d
}

// Close closes the underlying file descriptor.
func (s *Socket) Close() error {
	return s.conn.Close()
}

// LocalAddr returns the address the socket is bound to.
func (s *Socket) LocalAddr() net.Addr {
	return s.conn.LocalAddr()
}

// PopOne reads a single datagram into buf, returning the number of
// bytes read and the sender's address.
func (s *Socket) PopOne(buf []byte) (int, *net.UDPAddr, error) {
	if err := s.armDeadline(); err != nil {
		return 0, nil, err
	}

	n, addr, err := s.conn.ReadFromUDP(buf)
	if err != nil {
		return 0, nil, err
	}
	return n, addr, nil
}

// VecRecv drains up to b.Capacity() datagrams in one batched receive
// call where the platform supports it (see recv_unix.go), filling
// b's arena in place. On platforms without batched receive it returns
// an error; callers should fall back to PopOne in that case.
func (s *Socket) VecRecv(b *Bucket) (int, error) {
	if err := s.armDeadline(); err != nil {
		return 0, err
	}

	raw, err := s.conn.SyscallConn()
	if err != nil {
		return 0, fmt.Errorf("vecrecv: %w", err)
	}
	return vecRecv(raw, b)
}

func (s *Socket) armDeadline() error {
	if s.timeout <= 0 {
		return nil
	}
	if err := s.conn.SetReadDeadline(time.Now().Add(s.timeout)); err != nil {
		return fmt.Errorf("set read deadline: %w", err)
	}
	return nil
}

// SendTo writes buf to addr and returns the number of bytes sent.
func (s *Socket) SendTo(buf []byte, addr *net.UDPAddr) (int, error) {
	n, err := s.conn.WriteToUDP(buf, addr)
	if err != nil {
		return 0, fmt.Errorf("send to %s: %w", addr, err)
	}
	return n, nil
}

// IsSoftError reports whether err is a transient timeout/would-block
// condition the receive loop should swallow rather than treat as a
// hard failure.
func IsSoftError(err error) bool {
	var ne net.Error
	if errors.As(err, &ne) {
		return ne.Timeout()
	}
	return false
}
