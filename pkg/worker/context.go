package worker

import (
	"net"
	"runtime"
	"sync/atomic"

	"github.com/nilsen/quicd/pkg/log"
	"github.com/nilsen/quicd/pkg/socket"
)

// DatagramHandler processes one received UDP datagram. payload aliases
// a reused receive buffer and is only valid for the duration of the
// call.
type DatagramHandler func(addr socket.Addr, payload []byte)

// ThreadContext is the per-worker state driving one receive loop: an
// owned socket, a datagram handler installed by the pool's setup
// callback, a ready signal, and a local packet accumulator that is
// periodically flushed into the pool's shared counter.
type ThreadContext struct {
	id      int
	name    string
	running *atomic.Bool
	socket  *socket.Socket
	counter *atomic.Uint64
	handler DatagramHandler
	ready   chan struct{}
	logger  *log.Logger
	c       uint64
}

// ID returns the worker's index within the pool, 0..N-1.
func (c *ThreadContext) ID() int {
	return c.id
}

// Name returns a human-readable worker name, used in log output.
func (c *ThreadContext) Name() string {
	return c.name
}

// OnDatagram installs the handler invoked for every received datagram.
// It must be called before Run.
func (c *ThreadContext) OnDatagram(h DatagramHandler) {
	c.handler = h
}

// Send writes buf to addr over this worker's own socket.
func (c *ThreadContext) Send(buf []byte, addr *net.UDPAddr) (int, error) {
	return c.socket.SendTo(buf, addr)
}

// LocalAddr returns the address this worker's socket is bound to.
func (c *ThreadContext) LocalAddr() net.Addr {
	return c.socket.LocalAddr()
}

// Run selects the receive strategy and blocks until the pool stops:
// batched receive on platforms that support it, single-message receive
// elsewhere. See loop_unix.go / loop_other.go.
func (c *ThreadContext) Run() {
	runLoop(c)
}

// makeReady signals the pool that this worker's socket is bound and its
// receive loop is about to start, then spins until the pool flips the
// running flag to true.
func (c *ThreadContext) makeReady() {
	c.ready <- struct{}{}
	for !c.running.Load() {
		runtime.Gosched()
	}
}

// flush adds n to the shared counter and resets the local accumulator.
func (c *ThreadContext) flush(n uint64) {
	c.counter.Add(n)
	c.c = 0
}
