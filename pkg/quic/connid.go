package quic

import "encoding/hex"

// maxConnIDLen is the longest a QUIC connection id may be (RFC 9000
// §7.2): 20 bytes.
const maxConnIDLen = 20

// ConnectionId is a QUIC connection identifier: 0-20 bytes stored
// inline so it can be copied and used as a map key without allocating.
// Equality and hashing only ever consider the first Len bytes; the
// trailing bytes of id are never meaningful.
type ConnectionId struct {
	id [maxConnIDLen]byte
	n  int
}

// NewConnectionId builds a ConnectionId from b, truncating to
// maxConnIDLen bytes. A ConnectionId longer than 20 bytes is never
// constructed.
func NewConnectionId(b []byte) ConnectionId {
	var c ConnectionId
	n := len(b)
	if n > maxConnIDLen {
		n = maxConnIDLen
	}
	copy(c.id[:], b[:n])
	c.n = n
	return c
}

// Bytes returns the significant bytes of the id.
func (c ConnectionId) Bytes() []byte {
	return c.id[:c.n]
}

// Len returns the number of significant bytes.
func (c ConnectionId) Len() int {
	return c.n
}

// String formats the id as lowercase hex.
func (c ConnectionId) String() string {
	return hex.EncodeToString(c.id[:c.n])
}
