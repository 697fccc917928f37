package quic

import (
	"net"
	"testing"
	"time"

	"github.com/nilsen/quicd/pkg/config"
)

func TestServer_StartRequiresOnConnectionHandler(t *testing.T) {
	t.Parallel()

	cfg := config.NewServer("127.0.0.1", 0)
	s := NewServer("127.0.0.1:0", cfg)
	if err := s.Start(1); err == nil {
		t.Error("Start() without OnConnection succeeded, want error")
	}
}

func TestServer_EndToEndAdmitsConnectionFromClientDatagram(t *testing.T) {
	t.Parallel()

	cfg := config.NewServer("127.0.0.1", 0)
	cfg.RecvTimeout = 50 * time.Millisecond
	s := NewServer("127.0.0.1:0", cfg)

	admitted := make(chan *Connection, 1)
	s.OnConnection(func(c *Connection) {
		select {
		case admitted <- c:
		default:
		}
	})

	if err := s.Start(1); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer s.Stop()

	client := NewClient("", nil)
	datagram, err := client.BuildInitialDatagram([]byte("hello from client"))
	if err != nil {
		t.Fatalf("BuildInitialDatagram() error = %v", err)
	}

	conn, err := net.Dial("udp", s.pool.WorkerAddr().String())
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	defer conn.Close()

	if _, err := conn.Write(datagram); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	select {
	case c := <-admitted:
		if c.Role() != RoleServer {
			t.Errorf("Role() = %v, want RoleServer", c.Role())
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for the server to admit a connection")
	}
}
