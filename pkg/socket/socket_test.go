package socket

import (
	"net"
	"testing"
	"time"
)

func TestBind(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		addr    string
		wantErr bool
	}{
		{"valid address with port 0", "127.0.0.1:0", false},
		{"wildcard address", ":0", false},
		{"invalid address", "not-a-valid-address", true},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			s, err := Bind(tc.addr)
			if (err != nil) != tc.wantErr {
				t.Fatalf("Bind(%q) error = %v, wantErr %v", tc.addr, err, tc.wantErr)
			}
			if !tc.wantErr && s == nil {
				t.Fatal("Bind() returned nil socket")
			}
			if s != nil {
				defer s.Close()
			}
		})
	}
}

func TestSocket_PopOneTimeout(t *testing.T) {
	t.Parallel()

	s, err := Bind("127.0.0.1:0")
	if err != nil {
		t.Fatalf("Bind() error = %v", err)
	}
	defer s.Close()

	s.SetRecvTimeout(50 * time.Millisecond)

	buf := make([]byte, 2048)
	_, _, err = s.PopOne(buf)
	if err == nil {
		t.Fatal("PopOne() on an idle socket should time out")
	}
	if !IsSoftError(err) {
		t.Errorf("PopOne() timeout error should be a soft error, got %v", err)
	}
}

func TestSocket_SendAndPopOne(t *testing.T) {
	t.Parallel()

	server, err := Bind("127.0.0.1:0")
	if err != nil {
		t.Fatalf("Bind() server error = %v", err)
	}
	defer server.Close()
	server.SetRecvTimeout(time.Second)

	client, err := Bind("127.0.0.1:0")
	if err != nil {
		t.Fatalf("Bind() client error = %v", err)
	}
	defer client.Close()

	serverAddr, err := net.ResolveUDPAddr("udp", server.LocalAddr().String())
	if err != nil {
		t.Fatalf("ResolveUDPAddr() error = %v", err)
	}

	n, err := client.SendTo([]byte("hello"), serverAddr)
	if err != nil {
		t.Fatalf("SendTo() error = %v", err)
	}
	if n != 5 {
		t.Errorf("SendTo() sent %d bytes, want 5", n)
	}

	buf := make([]byte, 2048)
	readN, from, err := server.PopOne(buf)
	if err != nil {
		t.Fatalf("PopOne() error = %v", err)
	}
	if string(buf[:readN]) != "hello" {
		t.Errorf("PopOne() payload = %q, want %q", buf[:readN], "hello")
	}
	if from == nil {
		t.Error("PopOne() returned nil sender address")
	}
}

func TestIsSoftError(t *testing.T) {
	t.Parallel()

	if IsSoftError(nil) {
		t.Error("IsSoftError(nil) = true, want false")
	}
}
