package quic

import (
	"errors"
	"net"

	"github.com/nilsen/quicd/pkg/semaphore"
)

// errRegistryFull is returned by updateOrInsert when the registry's
// connection cap is set and already exhausted. The packet-processing
// hot path cannot afford to block waiting for a slot to free up, so a
// full table is treated the same as any other admission failure: drop
// the packet.
var errRegistryFull = errors.New("quic: connection table full")

// Registry is a single worker's connection table: a mapping from
// ConnectionId to Connection, keyed by the SCID the peer advertised on
// its Initial packet. It has exactly one owner - the worker goroutine
// that drives it - so it never needs a mutex or a concurrent map.
//
// An optional semaphore bounds the total number of connections across
// every worker sharing it (see MaxConnections in pkg/config), since no
// single Registry can see the other workers' tables.
type Registry struct {
	conns map[ConnectionId]*Connection
	cap   *semaphore.ConnSemaphore
}

// NewRegistry creates an empty registry. cap may be nil, in which case
// the registry accepts an unbounded number of connections.
func NewRegistry(cap *semaphore.ConnSemaphore) *Registry {
	return &Registry{
		conns: make(map[ConnectionId]*Connection),
		cap:   cap,
	}
}

// Lookup returns the connection for id, if any.
func (r *Registry) Lookup(id ConnectionId) (*Connection, bool) {
	c, ok := r.conns[id]
	return c, ok
}

// Len returns the number of connections currently tracked.
func (r *Registry) Len() int {
	return len(r.conns)
}

// updateOrInsert implements the Initial-processor demultiplex step
// step: if scid is already known, refresh its address and
// packet number; otherwise insert a new server-role connection and
// report that it is new so the caller can fire the on-connection
// handler exactly once.
func (r *Registry) updateOrInsert(scid, dcid ConnectionId, packetNumber uint64, addr *net.UDPAddr) (conn *Connection, created bool, err error) {
	if existing, ok := r.conns[scid]; ok {
		existing.update(packetNumber, addr)
		return existing, false, nil
	}

	if r.cap != nil && !r.cap.TryAcquire() {
		return nil, false, errRegistryFull
	}

	conn = newConnection(scid, dcid, packetNumber, addr, RoleServer)
	r.conns[scid] = conn
	return conn, true, nil
}

// Remove drops a connection from the table and releases its semaphore
// slot, if any. Callers should invoke the connection's on-close handler
// before calling Remove.
func (r *Registry) Remove(id ConnectionId) {
	if _, ok := r.conns[id]; !ok {
		return
	}
	delete(r.conns, id)
	if r.cap != nil {
		r.cap.Release()
	}
}
