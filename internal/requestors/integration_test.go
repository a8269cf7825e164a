package requestors

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/uofuseismo/umps/internal/messaging"
	"github.com/uofuseismo/umps/internal/services/command"
	"github.com/uofuseismo/umps/internal/services/incrementer"
	"github.com/uofuseismo/umps/internal/uerrors"
)

func TestIncrementerRequestorEndToEnd(t *testing.T) {
	ctx := messaging.NewContext(1)
	defer ctx.Close()

	file := filepath.Join(t.TempDir(), "counters.sqlite3")
	counter, err := incrementer.Open(file, true)
	if err != nil {
		t.Fatalf("incrementer.Open: %v", err)
	}
	defer counter.Close()
	if err := counter.AddItem("Origin", 0, 1); err != nil {
		t.Fatalf("AddItem: %v", err)
	}

	address := "inproc://incrementer-requestor-test"
	svc := incrementer.NewService(counter, nil)
	if err := svc.Start(ctx, address, false); err != nil {
		t.Fatalf("Service.Start: %v", err)
	}
	defer svc.Stop()

	requestor := NewIncrementerRequestor()
	if err := requestor.Initialize(ctx, messaging.RequestOptions{Address: address, TimeOut: 2 * time.Second}); err != nil {
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

	items, err := requestor.Items()
	if err != nil {
		t.Fatalf("Items: %v", err)
	}
	if len(items) != 1 || items[0] != "Origin" {
		t.Fatalf("unexpected items: %v", items)
	}

	if _, err := requestor.NextValue("Unknown"); !uerrors.Is(err, uerrors.AlgorithmFailure) {
		t.Fatalf("expected AlgorithmFailure for an unregistered item, got %v", err)
	}
}

func TestCommandRequestorEndToEnd(t *testing.T) {
	ctx := messaging.NewContext(1)
	defer ctx.Close()

	address := "inproc://command-requestor-test"
	svc := command.NewLocalService(command.Callbacks{
		Help:    func() string { return "status, terminate" },
		Execute: func(cmd string) string { return "executed: " + cmd },
	}, nil)
	if err := svc.Start(ctx, address); err != nil {
		t.Fatalf("Service.Start: %v", err)
	}
	defer svc.Stop()

	requestor := NewCommandRequestor()
	if err := requestor.Initialize(ctx, messaging.RequestOptions{Address: address, TimeOut: 2 * time.Second}); err != nil {
		t.Fatalf("requestor.Initialize: %v", err)
	}
	defer requestor.Close()

	help, err := requestor.Commands()
	if err != nil {
		t.Fatalf("Commands: %v", err)
	}
	if help != "status, terminate" {
		t.Fatalf("unexpected help text: %q", help)
	}

	result, err := requestor.Execute("status")
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if result != "executed: status" {
		t.Fatalf("unexpected result: %q", result)
	}
}
