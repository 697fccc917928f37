package quic

import (
	"fmt"
	"net"
	"weak"
)

// Message is an application-level message surfaced from CRYPTO/STREAM
// reassembly above this core's scope. Unlike Datagram and Stream, a
// Message may legitimately outlive the connection it came from (it can
// be queued for asynchronous handling after the connection closes), so
// it holds a weak reference rather than an owning pointer: Source
// returns false once the connection has been garbage collected.
type Message struct {
	src  weak.Pointer[Connection]
	data []byte
}

func newMessage(src *Connection, data []byte) Message {
	return Message{src: weak.Make(src), data: data}
}

// Source resolves the originating connection's address, returning false
// if the connection no longer exists.
func (m Message) Source() (*net.UDPAddr, bool) {
	conn := m.src.Value()
	if conn == nil {
		return nil, false
	}
	return conn.address, true
}

// Data returns the message payload.
func (m Message) Data() []byte {
	return m.data
}

func (m Message) String() string {
	if addr, ok := m.Source(); ok {
		return fmt.Sprintf("Message(src: %s, len: %d)", addr, len(m.data))
	}
	return fmt.Sprintf("Message(src: <dropped>, len: %d)", len(m.data))
}
