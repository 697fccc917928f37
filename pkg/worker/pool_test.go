package worker

import (
	"net"
	"sync/atomic"
	"testing"
	"time"

	"github.com/nilsen/quicd/pkg/socket"
)

func TestPool_StartRequiresThreadHandler(t *testing.T) {
	t.Parallel()

	p := New("127.0.0.1:0", 32768, 100*time.Millisecond, nil)
	if err := p.Start(1); err == nil {
		t.Error("Start() without Thread() should fail")
	}
}

func TestPool_StartRequiresPositiveWorkerCount(t *testing.T) {
	t.Parallel()

	p := New("127.0.0.1:0", 32768, 100*time.Millisecond, nil)
	p.Thread(func(ctx *ThreadContext) {
		ctx.OnDatagram(func(socket.Addr, []byte) {})
		ctx.Run()
	})
	if err := p.Start(0); err == nil {
		t.Error("Start(0) should fail")
	}
}

func TestPool_StartStopAndWorkerCount(t *testing.T) {
	t.Parallel()

	var received atomic.Uint64

	p := New("127.0.0.1:0", 32768, 50*time.Millisecond, nil)
	p.Thread(func(ctx *ThreadContext) {
		ctx.OnDatagram(func(addr socket.Addr, payload []byte) {
			received.Add(1)
		})
		ctx.Run()
	})

	if err := p.Start(2); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer p.Stop()

	if !p.IsRunning() {
		t.Error("IsRunning() = false after Start()")
	}
	if p.WorkerCount() != 2 {
		t.Errorf("WorkerCount() = %d, want 2", p.WorkerCount())
	}

	// Workers bind a random local address (port 0 doesn't commute across
	// workers, so discover one worker's socket indirectly isn't possible
	// from outside the pool); exercise Stop()'s shutdown path instead.
	p.Stop()
	if p.IsRunning() {
		t.Error("IsRunning() = true after Stop()")
	}
}

func TestPool_WaitReturnsAfterStop(t *testing.T) {
	t.Parallel()

	p := New("127.0.0.1:0", 32768, 50*time.Millisecond, nil)
	p.Thread(func(ctx *ThreadContext) {
		ctx.OnDatagram(func(socket.Addr, []byte) {})
		ctx.Run()
	})
	if err := p.Start(1); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	done := make(chan struct{})
	go func() {
		p.Wait(10 * time.Millisecond)
		close(done)
	}()

	time.Sleep(20 * time.Millisecond)
	p.Stop()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Wait() did not return after Stop()")
	}
}

func TestPool_EndToEndDatagram(t *testing.T) {
	t.Parallel()

	received := make(chan string, 1)

	p := New("127.0.0.1:0", 32768, 50*time.Millisecond, nil)
	addrCh := make(chan net.Addr, 1)
	p.Thread(func(ctx *ThreadContext) {
		addrCh <- ctx.LocalAddr()
		ctx.OnDatagram(func(addr socket.Addr, payload []byte) {
			select {
			case received <- string(payload):
			default:
			}
		})
		ctx.Run()
	})

	if err := p.Start(1); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer p.Stop()

	var serverAddr net.Addr
	select {
	case serverAddr = <-addrCh:
	case <-time.After(time.Second):
		t.Fatal("worker never reported its local address")
	}

	client, err := net.Dial("udp", serverAddr.String())
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	defer client.Close()

	if _, err := client.Write([]byte("ping")); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	select {
	case msg := <-received:
		if msg != "ping" {
			t.Errorf("handler received %q, want %q", msg, "ping")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("datagram handler was never invoked")
	}

	if p.WorkerAddr().String() != serverAddr.String() {
		t.Errorf("WorkerAddr() = %s, want %s", p.WorkerAddr(), serverAddr)
	}
}

func TestPool_WorkerAddrNilBeforeStart(t *testing.T) {
	t.Parallel()

	p := New("127.0.0.1:0", 32768, 50*time.Millisecond, nil)
	if addr := p.WorkerAddr(); addr != nil {
		t.Errorf("WorkerAddr() before Start = %v, want nil", addr)
	}
}
