// Package config defines configuration structures and validation logic
// for the quicd UDP worker pool and QUIC server.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/nilsen/quicd/pkg/log"
)

// Server holds the settings needed to bind a UDP worker pool and run the
// QUIC Initial-packet core on top of it.
type Server struct {
	Host string
	Port int

	Workers int

	RecvBufSize int
	RecvTimeout time.Duration

	// MaxConnections caps the number of tracked QUIC connections across
	// all workers together; 0 means unlimited.
	MaxConnections int

	Verbose bool
	Debug   bool

	Logger *log.Logger
}

// DefaultRecvBufSize is the socket receive-buffer size used by each
// worker's socket.
const DefaultRecvBufSize = 32768

// DefaultRecvTimeout is the soft receive timeout used by each worker's
// socket.
const DefaultRecvTimeout = 500 * time.Millisecond

// DefaultWorkers is used when a caller doesn't pick an explicit worker count.
const DefaultWorkers = 4

// NewServer returns a Server with sensible defaults for recv-buffer size
// and recv-timeout already applied.
func NewServer(host string, port int) *Server {
	return &Server{
		Host:        host,
		Port:        port,
		Workers:     DefaultWorkers,
		RecvBufSize: DefaultRecvBufSize,
		RecvTimeout: DefaultRecvTimeout,
		Logger:      log.NewLogger(false),
	}
}

// Addr returns the host:port (or [ipv6]:port) string to bind.
// IPv6 addresses are bracketed, e.g. "[::1]:4433".
func (c *Server) Addr() string {
	if strings.Contains(c.Host, ":") {
		return fmt.Sprintf("[%s]:%d", c.Host, c.Port)
	}
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Validate checks the Server configuration for errors.
func (c *Server) Validate() []error {
	var errors []error

	if err := validatePort(c.Port); err != nil {
		errors = append(errors, fmt.Errorf("'--port': %s", err))
	}

	if c.Workers <= 0 {
		errors = append(errors, fmt.Errorf("'--workers': must be positive, got %d", c.Workers))
	}

	if c.RecvBufSize <= 0 {
		errors = append(errors, fmt.Errorf("'--recv-buf': must be positive, got %d", c.RecvBufSize))
	}

	if c.RecvTimeout <= 0 {
		errors = append(errors, fmt.Errorf("'--recv-timeout': must be positive, got %s", c.RecvTimeout))
	}

	if c.MaxConnections < 0 {
		errors = append(errors, fmt.Errorf("'--max-connections': must be non-negative, got %d", c.MaxConnections))
	}

	return errors
}
