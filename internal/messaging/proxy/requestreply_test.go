package proxy

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/uofuseismo/umps/internal/messaging"
	"github.com/uofuseismo/umps/internal/requestors"
	"github.com/uofuseismo/umps/internal/services/incrementer"
)

func TestRequestReplyProxyRelaysToWorker(t *testing.T) {
	ctx := messaging.NewContext(1)
	defer ctx.Close()

	frontendAddr := "inproc://requestreply-test-frontend"
	backendAddr := "inproc://requestreply-test-backend"

	relay := NewRequestReplyProxy(nil)
	if err := relay.Initialize(ctx, frontendAddr, backendAddr); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	if err := relay.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer relay.Stop()

	file := filepath.Join(t.TempDir(), "counters.sqlite3")
	counter, err := incrementer.Open(file, true)
	if err != nil {
		t.Fatalf("incrementer.Open: %v", err)
	}
	defer counter.Close()
	if err := counter.AddItem("Origin", 0, 1); err != nil {
		t.Fatalf("AddItem: %v", err)
	}

	svc := incrementer.NewService(counter, nil)
	if err := svc.Start(ctx, backendAddr, true); err != nil {
		t.Fatalf("Service.Start: %v", err)
	}
	defer svc.Stop()

	requestor := requestors.NewIncrementerRequestor()
	if err := requestor.Initialize(ctx, messaging.RequestOptions{Address: frontendAddr, TimeOut: 2 * time.Second}); err != nil {
		t.Fatalf("requestor.Initialize: %v", err)
	}
	defer requestor.Close()

	value, err := requestor.NextValue("Origin")
	if err != nil {
		t.Fatalf("NextValue: %v", err)
	}
	if value != 1 {
		t.Fatalf("expected first value 1, got %d", value)
	}
}

func TestRequestReplyProxyStateMachine(t *testing.T) {
	ctx := messaging.NewContext(1)
	defer ctx.Close()

	relay := NewRequestReplyProxy(nil)
	if err := relay.Initialize(ctx, "inproc://requestreply-sm-frontend", "inproc://requestreply-sm-backend"); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	if err := relay.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := relay.Start(); err == nil {
		t.Fatal("expected error on double Start")
	}
	if err := relay.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if err := relay.Stop(); err != nil {
		t.Fatalf("Stop should be idempotent: %v", err)
	}
}
