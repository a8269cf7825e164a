package command

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/uofuseismo/umps/internal/messaging/wire"
)

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	file := filepath.Join(t.TempDir(), "modules.sqlite3")
	r, err := Open(file, true)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { r.Close() })
	return r
}

func TestValidatePingIntervalRejectsNonPositive(t *testing.T) {
	if err := ValidatePingInterval(0); err == nil {
		t.Fatal("expected error for zero interval")
	}
	if err := ValidatePingInterval(-time.Second); err == nil {
		t.Fatal("expected error for negative interval")
	}
	if err := ValidatePingInterval(time.Second); err != nil {
		t.Fatalf("unexpected error for positive interval: %v", err)
	}
}

func TestRegistryRegisterRejectsBadPingInterval(t *testing.T) {
	r := newTestRegistry(t)
	err := r.Register(wire.ModuleDetails{Name: "packetCache", PingIntervalMS: 0})
	if err == nil {
		t.Fatal("expected error registering with non-positive ping interval")
	}
}

func TestRegistryRegisterListUnregister(t *testing.T) {
	r := newTestRegistry(t)
	if err := r.Register(wire.ModuleDetails{Name: "packetCache", PingIntervalMS: 1000, RoutingIdentifier: "pc-1"}); err != nil {
		t.Fatalf("Register: %v", err)
	}
	modules, err := r.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(modules) != 1 || modules[0].Name != "packetCache" {
		t.Fatalf("unexpected modules: %+v", modules)
	}
	if err := r.Heartbeat("packetCache"); err != nil {
		t.Fatalf("Heartbeat: %v", err)
	}
	if err := r.Unregister("packetCache"); err != nil {
		t.Fatalf("Unregister: %v", err)
	}
	modules, err = r.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(modules) != 0 {
		t.Fatalf("expected empty registry after unregister, got %+v", modules)
	}
}

func TestRegistryHeartbeatUnknownModule(t *testing.T) {
	r := newTestRegistry(t)
	if err := r.Heartbeat("neverRegistered"); err == nil {
		t.Fatal("expected error heartbeating an unregistered module")
	}
}

func TestRegistryEvictStale(t *testing.T) {
	r := newTestRegistry(t)
	if err := r.Register(wire.ModuleDetails{Name: "amplitude", PingIntervalMS: 1}); err != nil {
		t.Fatalf("Register: %v", err)
	}
	time.Sleep(20 * time.Millisecond)
	evicted, err := r.EvictStale(1.0)
	if err != nil {
		t.Fatalf("EvictStale: %v", err)
	}
	if len(evicted) != 1 || evicted[0] != "amplitude" {
		t.Fatalf("expected amplitude to be evicted, got %+v", evicted)
	}
	modules, err := r.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(modules) != 0 {
		t.Fatalf("expected empty registry after eviction, got %+v", modules)
	}
}

func TestRegistryEvictStaleSparesFreshHeartbeats(t *testing.T) {
	r := newTestRegistry(t)
	if err := r.Register(wire.ModuleDetails{Name: "origin", PingIntervalMS: 60000}); err != nil {
		t.Fatalf("Register: %v", err)
	}
	evicted, err := r.EvictStale(command0Multiplier)
	if err != nil {
		t.Fatalf("EvictStale: %v", err)
	}
	if len(evicted) != 0 {
		t.Fatalf("expected no eviction for a fresh heartbeat, got %+v", evicted)
	}
}

const command0Multiplier = DefaultEvictionMultiplier

func TestLivenessCheckerEvictsOnSchedule(t *testing.T) {
	r := newTestRegistry(t)
	if err := r.Register(wire.ModuleDetails{Name: "magnitude", PingIntervalMS: 1}); err != nil {
		t.Fatalf("Register: %v", err)
	}
	checker := NewLivenessChecker(r, 10*time.Millisecond, 1.0, nil)
	checker.Start()
	defer checker.Stop()

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		modules, err := r.List()
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		if len(modules) == 0 {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("expected liveness checker to evict the stale module within the deadline")
}
