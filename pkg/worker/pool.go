// Package worker implements the UDP server's worker pool: N goroutines
// share one bind address via SO_REUSEADDR, each running its own receive
// loop (batched where the OS supports it, single-message otherwise) and
// feeding a shared datagram handler. A stats goroutine aggregates
// per-worker packet counters at roughly 4 Hz.
package worker

import (
	"fmt"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/nilsen/quicd/pkg/log"
	"github.com/nilsen/quicd/pkg/socket"
)

// statsInterval is how often the aggregator folds per-worker counters
// into the pool's total.
const statsInterval = 250 * time.Millisecond

// Pool owns a set of workers bound to the same UDP address.
type Pool struct {
	addr        string
	recvBufSize int
	recvTimeout time.Duration
	logger      *log.Logger

	setupFn func(*ThreadContext)

	running atomic.Bool
	total   atomic.Uint64

	mu        sync.Mutex
	contexts  []*ThreadContext
	wg        sync.WaitGroup
	statsStop chan struct{}
}

// New creates a Pool that will bind addr once per worker.
func New(addr string, recvBufSize int, recvTimeout time.Duration, logger *log.Logger) *Pool {
	if logger == nil {
		logger = log.NewLogger(false)
	}
	return &Pool{
		addr:        addr,
		recvBufSize: recvBufSize,
		recvTimeout: recvTimeout,
		logger:      logger,
	}
}

// Thread registers the setup callback run on every worker goroutine
// once its socket is bound. The callback must install a datagram
// handler via ThreadContext.OnDatagram and then call ThreadContext.Run.
func (p *Pool) Thread(setup func(*ThreadContext)) *Pool {
	p.setupFn = setup
	return p
}

// Start spawns numWorkers goroutines, each binding its own socket to
// the pool's address. It blocks until at least one worker reports
// ready, then flips the running flag and starts the stats aggregator.
func (p *Pool) Start(numWorkers int) error {
	if p.setupFn == nil {
		return fmt.Errorf("worker: no thread handler set, call Thread() before Start()")
	}
	if numWorkers < 1 {
		return fmt.Errorf("worker: numWorkers must be >= 1, got %d", numWorkers)
	}

	p.mu.Lock()
	ready := make(chan struct{}, numWorkers)
	for id := 0; id < numWorkers; id++ {
		ctx := &ThreadContext{
			id:      id,
			name:    fmt.Sprintf("worker-%d", id),
			running: &p.running,
			counter: &atomic.Uint64{},
			ready:   ready,
			logger:  p.logger,
		}
		p.contexts = append(p.contexts, ctx)

		p.wg.Add(1)
		go p.runWorker(ctx)
	}
	p.statsStop = make(chan struct{})
	p.mu.Unlock()

	<-ready
	p.running.Store(true)

	go p.statsLoop()

	return nil
}

// runWorker binds ctx's socket, applies the pool's receive-buffer and
// timeout settings, then hands control to the caller-supplied setup
// callback, which installs the datagram handler and enters the
// receive loop.
func (p *Pool) runWorker(ctx *ThreadContext) {
	defer p.wg.Done()

	sock, err := socket.Bind(p.addr)
	if err != nil {
		p.logger.ErrorMsg("%s: bind %s: %s", ctx.name, p.addr, err)
		ctx.ready <- struct{}{}
		return
	}
	defer sock.Close()

	if err := sock.SetRecvBuffer(p.recvBufSize); err != nil {
		p.logger.DebugMsg("%s: %s", ctx.name, err)
	}
	sock.SetRecvTimeout(p.recvTimeout)
	ctx.socket = sock

	p.setupFn(ctx)
}

// statsLoop folds every worker's local counter into the pool's total at
// statsInterval until Stop is called.
func (p *Pool) statsLoop() {
	ticker := time.NewTicker(statsInterval)
	defer ticker.Stop()

	p.mu.Lock()
	stop := p.statsStop
	p.mu.Unlock()

	for {
		select {
		case <-ticker.C:
			var sum uint64
			p.mu.Lock()
			for _, ctx := range p.contexts {
				sum += ctx.counter.Load()
			}
			p.mu.Unlock()
			p.total.Store(sum)
		case <-stop:
			return
		}
	}
}

// Stop flips the running flag to false and waits for every worker to
// exit its receive loop (bounded by the configured receive timeout)
// before returning.
func (p *Pool) Stop() {
	p.running.Store(false)

	p.mu.Lock()
	if p.statsStop != nil {
		select {
		case <-p.statsStop:
			// already stopped by an earlier call
		default:
			close(p.statsStop)
		}
	}
	p.mu.Unlock()

	p.wg.Wait()
}

// Wait blocks the caller while the pool is running, polling at
// interval (default 10ms if interval <= 0).
func (p *Pool) Wait(interval time.Duration) {
	if interval <= 0 {
		interval = 10 * time.Millisecond
	}
	for p.running.Load() {
		time.Sleep(interval)
	}
}

// IsRunning reports whether the pool has completed startup and is not
// yet stopped.
func (p *Pool) IsRunning() bool {
	return p.running.Load()
}

// TotalProcessed returns the most recent aggregated packet count across
// all workers.
func (p *Pool) TotalProcessed() uint64 {
	return p.total.Load()
}

// WorkerCount returns the number of workers spawned by Start.
func (p *Pool) WorkerCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.contexts)
}

// WorkerAddr returns the bound local address of worker 0. Since every
// worker binds the same address under SO_REUSEADDR, this is also the
// pool's externally-visible address. Valid only after Start has
// returned successfully with a single worker; with more than one
// worker, only the worker that first signaled ready is guaranteed to
// have bound its socket by the time Start returns, and that need not
// be worker 0.
func (p *Pool) WorkerAddr() net.Addr {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.contexts) == 0 {
		return nil
	}
	return p.contexts[0].LocalAddr()
}
