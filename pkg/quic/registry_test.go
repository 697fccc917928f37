package quic

import (
	"net"
	"testing"
	"time"

	"github.com/nilsen/quicd/pkg/semaphore"
)

func TestRegistry_UpdateOrInsert_InsertsNewConnection(t *testing.T) {
	t.Parallel()

	r := NewRegistry(nil)
	scid := NewConnectionId([]byte{1, 2, 3})
	dcid := NewConnectionId([]byte{4, 5, 6})
	addr := &net.UDPAddr{IP: net.ParseIP("127.0.0.1"), Port: 1}

	conn, created, err := r.updateOrInsert(scid, dcid, 0, addr)
	if err != nil {
		t.Fatalf("updateOrInsert() error = %v", err)
	}
	if !created {
		t.Error("created = false on first insert, want true")
	}
	if conn.Role() != RoleServer {
		t.Errorf("Role() = %v, want RoleServer", conn.Role())
	}
	if r.Len() != 1 {
		t.Errorf("Len() = %d, want 1", r.Len())
	}
}

func TestRegistry_UpdateOrInsert_UpdatesExisting(t *testing.T) {
	t.Parallel()

	r := NewRegistry(nil)
	scid := NewConnectionId([]byte{1, 2, 3})
	dcid := NewConnectionId([]byte{4, 5, 6})
	addr1 := &net.UDPAddr{IP: net.ParseIP("127.0.0.1"), Port: 1}
	addr2 := &net.UDPAddr{IP: net.ParseIP("127.0.0.1"), Port: 2}

	first, created, err := r.updateOrInsert(scid, dcid, 1, addr1)
	if err != nil || !created {
		t.Fatalf("first updateOrInsert() = (%v, %v, %v)", first, created, err)
	}

	second, created, err := r.updateOrInsert(scid, dcid, 2, addr2)
	if err != nil {
		t.Fatalf("second updateOrInsert() error = %v", err)
	}
	if created {
		t.Error("created = true on second call with same SCID, want false")
	}
	if second != first {
		t.Error("updateOrInsert() returned a different *Connection for the same SCID")
	}
	if second.LastPacketNumber() != 2 {
		t.Errorf("LastPacketNumber() = %d, want 2", second.LastPacketNumber())
	}
	if r.Len() != 1 {
		t.Errorf("Len() = %d, want 1 (no duplicate insert)", r.Len())
	}
}

func TestRegistry_CapacityRefusesBeyondLimit(t *testing.T) {
	t.Parallel()

	cap := semaphore.New(1, 50*time.Millisecond)
	r := NewRegistry(cap)
	addr := &net.UDPAddr{IP: net.ParseIP("127.0.0.1"), Port: 1}

	_, _, err := r.updateOrInsert(NewConnectionId([]byte{1}), NewConnectionId([]byte{9}), 0, addr)
	if err != nil {
		t.Fatalf("first updateOrInsert() error = %v", err)
	}

	start := time.Now()
	_, _, err = r.updateOrInsert(NewConnectionId([]byte{2}), NewConnectionId([]byte{9}), 0, addr)
	elapsed := time.Since(start)

	if err == nil {
		t.Error("second updateOrInsert() beyond capacity succeeded, want error")
	}
	if err != errRegistryFull {
		t.Errorf("error = %v, want errRegistryFull", err)
	}
	if elapsed > 10*time.Millisecond {
		t.Errorf("updateOrInsert() at capacity took %s, want an immediate non-blocking refusal", elapsed)
	}
}

func TestRegistry_RemoveReleasesSlot(t *testing.T) {
	t.Parallel()

	cap := semaphore.New(1, 50*time.Millisecond)
	r := NewRegistry(cap)
	addr := &net.UDPAddr{IP: net.ParseIP("127.0.0.1"), Port: 1}
	scid := NewConnectionId([]byte{1})

	if _, _, err := r.updateOrInsert(scid, NewConnectionId([]byte{9}), 0, addr); err != nil {
		t.Fatalf("updateOrInsert() error = %v", err)
	}

	r.Remove(scid)
	if r.Len() != 0 {
		t.Errorf("Len() = %d after Remove, want 0", r.Len())
	}

	if _, _, err := r.updateOrInsert(NewConnectionId([]byte{2}), NewConnectionId([]byte{9}), 0, addr); err != nil {
		t.Errorf("updateOrInsert() after Remove freed no slot: %v", err)
	}
}
