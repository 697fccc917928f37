package quic

import (
	"fmt"
	"time"

	"github.com/nilsen/quicd/pkg/config"
	"github.com/nilsen/quicd/pkg/log"
	"github.com/nilsen/quicd/pkg/semaphore"
	"github.com/nilsen/quicd/pkg/socket"
	"github.com/nilsen/quicd/pkg/worker"
)

// DispatchMode selects how a worker hands a fully-decoded payload to
// application code once the coalesced-packet loop has finished with
// it. Direct is the only mode this core implements; Async is reserved
// for a future per-worker task runtime (see the open question in
// DESIGN.md about the async on-message handler).
type DispatchMode int

const (
	DispatchDirect DispatchMode = iota
	DispatchAsync
)

// Server is a worker pool specialized to decode QUIC Initial packets.
// It owns a pkg/worker.Pool and gives each worker its own Processor
// (and therefore its own lock-free connection table), wiring the
// dispatcher's DispatchDatagram as the pool's datagram handler.
type Server struct {
	pool         *worker.Pool
	dispatchMode DispatchMode
	onConnection OnConnectionHandler
	connCap      *semaphore.ConnSemaphore
	logger       *log.Logger
}

// connSemaphoreTimeout is passed to semaphore.New but never exercised
// on the packet-processing path: Registry.updateOrInsert uses
// TryAcquire, which never blocks, so a full table is refused
// immediately rather than waited out. The constructor still requires a
// timeout value, so this is a nominal one for any caller that acquires
// the semaphore directly outside the hot path.
const connSemaphoreTimeout = 2 * time.Second

// NewServer builds a QUIC server bound to addr, configured from cfg.
func NewServer(addr string, cfg *config.Server) *Server {
	var cap *semaphore.ConnSemaphore
	if cfg.MaxConnections > 0 {
		cap = semaphore.New(cfg.MaxConnections, connSemaphoreTimeout)
	}
	return &Server{
		pool:    worker.New(addr, cfg.RecvBufSize, cfg.RecvTimeout, cfg.Logger),
		connCap: cap,
		logger:  cfg.Logger,
	}
}

// SetDatagramDispatchMode selects Direct or Async handling.
func (s *Server) SetDatagramDispatchMode(mode DispatchMode) *Server {
	s.dispatchMode = mode
	return s
}

// OnConnection installs the handler fired the first time a worker
// admits a new connection. It must be set before Start.
func (s *Server) OnConnection(h OnConnectionHandler) *Server {
	s.onConnection = h
	return s
}

// Start spawns numWorkers receive loops, each backed by its own
// Processor, and blocks until at least one worker is ready rather than
// waiting on all of them.
func (s *Server) Start(numWorkers int) error {
	if s.onConnection == nil {
		return fmt.Errorf("quic: on-connection handler must be set before starting the server")
	}

	s.pool.Thread(func(ctx *worker.ThreadContext) {
		processor := NewProcessor(ctx.ID(), s.connCap, s.onConnection, s.logger)
		ctx.OnDatagram(func(addr socket.Addr, payload []byte) {
			if s.dispatchMode == DispatchAsync {
				// No per-worker task runtime is implemented; Async
				// currently behaves like Direct (see DESIGN.md).
				processor.DispatchDatagram(payload, addr.UDPAddr())
				return
			}
			processor.DispatchDatagram(payload, addr.UDPAddr())
		})
		ctx.Run()
	})

	return s.pool.Start(numWorkers)
}

// Stop signals every worker to exit and waits for them to join.
func (s *Server) Stop() {
	s.pool.Stop()
}

// Wait polls until the pool is no longer running, checking every
// interval.
func (s *Server) Wait(interval time.Duration) {
	s.pool.Wait(interval)
}

// IsRunning reports whether the pool is currently accepting traffic.
func (s *Server) IsRunning() bool {
	return s.pool.IsRunning()
}

// TotalProcessed returns the pool-wide aggregated datagram counter.
func (s *Server) TotalProcessed() uint64 {
	return s.pool.TotalProcessed()
}
