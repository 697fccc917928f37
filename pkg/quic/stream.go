package quic

import "fmt"

// Stream is one QUIC stream belonging to a Connection. Stream framing,
// flow control and reassembly are out of scope (see Non-goals); Stream
// exists to carry a stream id and its owning connection to application
// handlers.
type Stream struct {
	id  uint64
	src *Connection
}

func newStream(id uint64, src *Connection) *Stream {
	return &Stream{id: id, src: src}
}

// ID returns the stream's id.
func (s *Stream) ID() uint64 {
	return s.id
}

// Connection returns the stream's owning connection.
func (s *Stream) Connection() *Connection {
	return s.src
}

func (s *Stream) String() string {
	return fmt.Sprintf("Stream(id: %d, src: %s)", s.id, s.src.address)
}
