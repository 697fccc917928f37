package quic

import "testing"

func TestNewConnectionId_Truncates(t *testing.T) {
	t.Parallel()

	over := make([]byte, maxConnIDLen+10)
	for i := range over {
		over[i] = byte(i + 1)
	}

	c := NewConnectionId(over)
	if c.Len() != maxConnIDLen {
		t.Fatalf("Len() = %d, want %d", c.Len(), maxConnIDLen)
	}
	if len(c.Bytes()) != maxConnIDLen {
		t.Fatalf("Bytes() len = %d, want %d", len(c.Bytes()), maxConnIDLen)
	}
}

func TestConnectionId_EqualityIgnoresTrailingBytes(t *testing.T) {
	t.Parallel()

	a := NewConnectionId([]byte{1, 2, 3})
	b := NewConnectionId([]byte{1, 2, 3})
	if a != b {
		t.Error("two ConnectionIds built from identical short byte slices compared unequal")
	}

	m := map[ConnectionId]int{a: 1}
	if _, ok := m[b]; !ok {
		t.Error("ConnectionId with identical significant bytes did not match as a map key")
	}
}

func TestConnectionId_DifferentLengthsNotEqual(t *testing.T) {
	t.Parallel()

	a := NewConnectionId([]byte{1, 2, 3})
	b := NewConnectionId([]byte{1, 2, 3, 0})
	if a == b {
		t.Error("ConnectionIds of different declared lengths compared equal")
	}
}

func TestConnectionId_String(t *testing.T) {
	t.Parallel()

	c := NewConnectionId([]byte{0xde, 0xad, 0xbe, 0xef})
	if got, want := c.String(), "deadbeef"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
