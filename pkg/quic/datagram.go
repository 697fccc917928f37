package quic

import (
	"fmt"
	"net"
)

// Datagram is an unreliable QUIC DATAGRAM frame payload tied to the
// connection it arrived on.
type Datagram struct {
	src  *Connection
	data []byte
}

func newDatagram(src *Connection, data []byte) *Datagram {
	return &Datagram{src: src, data: data}
}

// Source returns the sending peer's address.
func (d *Datagram) Source() *net.UDPAddr {
	return d.src.address
}

// Data returns the datagram's payload.
func (d *Datagram) Data() []byte {
	return d.data
}

func (d *Datagram) String() string {
	return fmt.Sprintf("Datagram(src: %s, len: %d)", d.src.address, len(d.data))
}
