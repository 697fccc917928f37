package worker

import "github.com/nilsen/quicd/pkg/socket"

// popBufSize is the single-message receive buffer size. It matches the
// maximum datagram size the QUIC core expects (see pkg/quic).
const popBufSize = 2048

// popFlushEvery controls how often the local packet accumulator is
// folded into the shared counter in the single-message receive path.
const popFlushEvery = 100_000

// beginPopLoop is the portable receive loop: one recvfrom(2)-equivalent
// system call per datagram. Used on platforms without a batched receive
// primitive.
func (c *ThreadContext) beginPopLoop() {
	if c.handler == nil {
		panic("worker: no datagram handler set for ThreadContext")
	}

	buf := make([]byte, popBufSize)
	c.makeReady()

	for c.running.Load() {
		n, addr, err := c.socket.PopOne(buf)
		if err != nil {
			if socket.IsSoftError(err) {
				continue
			}
			c.logger.DebugMsg("%s: receive error: %s", c.name, err)
			return
		}

		c.handler(socket.AddrFromUDP(addr), buf[:n])

		c.c++
		if c.c%popFlushEvery == 0 {
			c.flush(c.c)
		}
	}
}
