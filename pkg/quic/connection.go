package quic

import (
	"fmt"
	"net"
)

// Role identifies which side of a connection this process is.
type Role int

const (
	RoleServer Role = iota
	RoleClient
)

// Stream-id seeds per RFC 9000 §2.1: the low two bits of a stream id
// encode who opened it and whether it is bidirectional or
// unidirectional. A new stream of a given kind advances its seed by 4.
const (
	seedClientBidi = 0
	seedServerBidi = 1
	seedClientUni  = 2
	seedServerUni  = 3
)

// Connection tracks one QUIC peer as seen by a single worker. It is
// owned exclusively by that worker's goroutine; nothing about it is
// safe for concurrent access.
type Connection struct {
	id                ConnectionId // our identifier for this peer: the SCID it advertised
	dcid              ConnectionId // the peer's chosen destination id for us
	lastPacketNumber  uint64
	address           *net.UDPAddr
	role              Role
	nextBidiStreamID  uint64
	nextUniStreamID   uint64

	onStream   func(*Stream)
	onMessage  func(Message)
	onDatagram func(*Datagram)
	onClose    func(*Connection)
}

// newConnection constructs a Connection seen for the first time on an
// Initial packet. scid is the peer's advertised source connection id
// (which becomes this connection's key in the registry); dcid is the
// destination id the peer chose for us.
func newConnection(scid, dcid ConnectionId, packetNumber uint64, addr *net.UDPAddr, role Role) *Connection {
	c := &Connection{
		id:               scid,
		dcid:             dcid,
		lastPacketNumber: packetNumber,
		address:          addr,
		role:             role,
	}
	if role == RoleServer {
		c.nextBidiStreamID = seedServerBidi
		c.nextUniStreamID = seedServerUni
	} else {
		c.nextBidiStreamID = seedClientBidi
		c.nextUniStreamID = seedClientUni
	}
	return c
}

// ID returns the connection's identifier in this registry (the peer's
// SCID).
func (c *Connection) ID() ConnectionId {
	return c.id
}

// DCID returns the destination connection id the peer chose for us.
func (c *Connection) DCID() ConnectionId {
	return c.dcid
}

// Address returns the peer's most recently observed source address.
func (c *Connection) Address() *net.UDPAddr {
	return c.address
}

// LastPacketNumber returns the packet number of the most recent packet
// successfully decrypted from this peer.
func (c *Connection) LastPacketNumber() uint64 {
	return c.lastPacketNumber
}

// Role reports whether this process is acting as server or client on
// this connection.
func (c *Connection) Role() Role {
	return c.role
}

// OpenBidiStream allocates the next client- or server-initiated
// bidirectional stream id and advances the seed by 4.
func (c *Connection) OpenBidiStream() *Stream {
	id := c.nextBidiStreamID
	c.nextBidiStreamID += 4
	return newStream(id, c)
}

// OpenUniStream allocates the next unidirectional stream id and
// advances the seed by 4.
func (c *Connection) OpenUniStream() *Stream {
	id := c.nextUniStreamID
	c.nextUniStreamID += 4
	return newStream(id, c)
}

// OnStream installs the handler invoked when the peer opens a new
// stream.
func (c *Connection) OnStream(h func(*Stream)) {
	c.onStream = h
}

// OnMessage installs the handler invoked for application messages
// surfaced on this connection.
func (c *Connection) OnMessage(h func(Message)) {
	c.onMessage = h
}

// OnDatagram installs the handler invoked for unreliable QUIC datagrams
// on this connection.
func (c *Connection) OnDatagram(h func(*Datagram)) {
	c.onDatagram = h
}

// OnClose installs the handler invoked when the connection is torn
// down.
func (c *Connection) OnClose(h func(*Connection)) {
	c.onClose = h
}

// update refreshes the observed address and packet number after a
// successfully authenticated packet: a connection's address is always
// the last address a valid packet for it was decrypted from, and its
// packet number only advances on a successful authenticated decrypt.
func (c *Connection) update(packetNumber uint64, addr *net.UDPAddr) {
	c.lastPacketNumber = packetNumber
	c.address = addr
}

func (c *Connection) String() string {
	return fmt.Sprintf("Connection(id: %s, address: %s)", c.id, c.address)
}
