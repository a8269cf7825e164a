package connectioninfo

import (
	"testing"

	"github.com/uofuseismo/umps/internal/authentication"
	"github.com/uofuseismo/umps/internal/messaging"
	"github.com/uofuseismo/umps/internal/messaging/wire"
)

func TestRegistryAvailableConnections(t *testing.T) {
	r := NewRegistry()
	r.AddBroadcast("Origin", messaging.SocketDetails{Address: "tcp://127.0.0.1:6000", SocketType: messaging.XPublisherSocket, SecurityLevel: authentication.Grasslands, ConnectOrBind: messaging.Bind})
	r.AddService("Incrementer", messaging.SocketDetails{Address: "tcp://127.0.0.1:7000", SocketType: messaging.RouterSocket, SecurityLevel: authentication.Strawhouse, ConnectOrBind: messaging.Bind})

	resp := r.HandleAvailableConnections(&wire.AvailableConnectionsRequest{Identifier: 3})
	if resp.ReturnCode != wire.Success {
		t.Fatalf("unexpected return code: %v", resp.ReturnCode)
	}
	if len(resp.Broadcasts) != 1 || resp.Broadcasts[0] != "Origin" {
		t.Fatalf("unexpected broadcasts: %v", resp.Broadcasts)
	}
	if len(resp.Services) != 1 || resp.Services[0] != "Incrementer" {
		t.Fatalf("unexpected services: %v", resp.Services)
	}
	if resp.Identifier != 3 {
		t.Fatalf("identifier not correlated: %d", resp.Identifier)
	}
}

func TestRegistryConnectionDetailsNotFound(t *testing.T) {
	r := NewRegistry()
	resp := r.HandleConnectionDetails(&wire.ConnectionDetailsRequest{Name: "Missing", Identifier: 1})
	if resp.Found {
		t.Fatal("expected Found=false")
	}
	if resp.ReturnCode != wire.NoItem {
		t.Fatalf("expected NoItem, got %v", resp.ReturnCode)
	}
}

func TestNewBroadcastDetailsAndLookup(t *testing.T) {
	r := NewRegistry()
	details := NewBroadcastDetails("tcp://127.0.0.1:6001", authentication.Strawhouse)
	r.AddBroadcast("Heartbeat", details)

	resp := r.HandleConnectionDetails(&wire.ConnectionDetailsRequest{Name: "Heartbeat", Identifier: 9})
	if !resp.Found || resp.Details == nil {
		t.Fatal("expected to find Heartbeat")
	}
	if resp.Details.Address != "tcp://127.0.0.1:6001" {
		t.Fatalf("unexpected address: %s", resp.Details.Address)
	}
	if resp.Details.SocketType != messaging.XPublisherSocket.String() {
		t.Fatalf("unexpected socket type: %s", resp.Details.SocketType)
	}
	if resp.Details.ConnectOrBind != messaging.Bind.String() {
		t.Fatalf("unexpected connect/bind: %s", resp.Details.ConnectOrBind)
	}
}

func TestRegistryConnectionDetailsFound(t *testing.T) {
	r := NewRegistry()
	r.AddService("Incrementer", messaging.SocketDetails{Address: "tcp://127.0.0.1:7000", SocketType: messaging.RouterSocket, ConnectOrBind: messaging.Bind})
	resp := r.HandleConnectionDetails(&wire.ConnectionDetailsRequest{Name: "Incrementer", Identifier: 5})
	if !resp.Found || resp.Details == nil {
		t.Fatal("expected to find Incrementer")
	}
	if resp.Details.Address != "tcp://127.0.0.1:7000" {
		t.Fatalf("unexpected address: %s", resp.Details.Address)
	}
}
