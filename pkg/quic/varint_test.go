package quic

import "testing"

func TestVarint_RoundTrip(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		value   uint64
		wantLen int
	}{
		{"zero", 0, 1},
		{"max 1-byte", 63, 1},
		{"min 2-byte", 64, 2},
		{"max 2-byte", 16383, 2},
		{"min 4-byte", 16384, 4},
		{"max 4-byte", 1073741823, 4},
		{"min 8-byte", 1073741824, 8},
		{"max 8-byte", maxVarint, 8},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			encoded := encodeVarint(nil, tc.value)
			if len(encoded) != tc.wantLen {
				t.Fatalf("encodeVarint(%d) len = %d, want %d", tc.value, len(encoded), tc.wantLen)
			}

			got, n, ok := decodeVarint(encoded)
			if !ok {
				t.Fatalf("decodeVarint(%x) returned ok=false", encoded)
			}
			if got != tc.value {
				t.Errorf("decodeVarint(%x) = %d, want %d", encoded, got, tc.value)
			}
			if n != tc.wantLen {
				t.Errorf("decodeVarint(%x) consumed %d bytes, want %d", encoded, n, tc.wantLen)
			}
		})
	}
}

func TestDecodeVarint_TooShort(t *testing.T) {
	t.Parallel()

	// Length-class 2 (01) claims 2 bytes but only 1 is supplied.
	buf := []byte{0x40}
	if _, _, ok := decodeVarint(buf); ok {
		t.Error("decodeVarint() on truncated buffer returned ok=true")
	}
}

func TestDecodeVarint_EmptyBuffer(t *testing.T) {
	t.Parallel()

	if _, _, ok := decodeVarint(nil); ok {
		t.Error("decodeVarint(nil) returned ok=true")
	}
}

func TestEncodeVarint_AppendsToExisting(t *testing.T) {
	t.Parallel()

	out := []byte{0xAA}
	out = encodeVarint(out, 10)
	if len(out) != 2 || out[0] != 0xAA {
		t.Errorf("encodeVarint() did not append, got %x", out)
	}
}
