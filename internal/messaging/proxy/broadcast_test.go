package proxy

import (
	"testing"
	"time"

	"github.com/uofuseismo/umps/internal/messaging"
	"github.com/uofuseismo/umps/internal/messaging/publisher"
	"github.com/uofuseismo/umps/internal/messaging/subscriber"
)

func TestBroadcastProxyRelays(t *testing.T) {
	ctx := messaging.NewContext(1)
	defer ctx.Close()

	frontendAddr := "inproc://broadcast-test-frontend"
	backendAddr := "inproc://broadcast-test-backend"

	relay := New(nil)
	if err := relay.Initialize(ctx, frontendAddr, backendAddr); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	if err := relay.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer relay.Stop()

	pub := publisher.New(nil)
	if err := pub.Initialize(ctx, messaging.PublisherOptions{Address: frontendAddr}); err != nil {
		t.Fatalf("publisher Initialize: %v", err)
	}
	defer pub.Close()

	sub := subscriber.New(nil)
	if err := sub.Initialize(ctx, messaging.SubscriberOptions{Address: backendAddr}); err != nil {
		t.Fatalf("subscriber Initialize: %v", err)
	}
	defer sub.Close()

	time.Sleep(50 * time.Millisecond)

	if err := pub.Send("Origin", []byte("payload")); err != nil {
		t.Fatalf("Send: %v", err)
	}

	done := make(chan subscriber.Message, 1)
	go func() {
		msg, err := sub.Receive()
		if err == nil {
			done <- msg
		}
	}()

	select {
	case msg := <-done:
		if msg.Topic != "Origin" || string(msg.Payload) != "payload" {
			t.Fatalf("unexpected message: %+v", msg)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for relayed publication")
	}
}

func TestBroadcastProxyStateMachine(t *testing.T) {
	ctx := messaging.NewContext(1)
	defer ctx.Close()

	relay := New(nil)
	if err := relay.Initialize(ctx, "inproc://broadcast-sm-frontend", "inproc://broadcast-sm-backend"); err != nil {
		t.Fatalf("Initialize: %v", err)
	}

	if err := relay.Pause(); err == nil {
		t.Fatal("expected error pausing before Start")
	}
	if err := relay.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := relay.Start(); err == nil {
		t.Fatal("expected error on double Start")
	}
	if err := relay.Pause(); err != nil {
		t.Fatalf("Pause: %v", err)
	}
	if err := relay.Resume(); err != nil {
		t.Fatalf("Resume: %v", err)
	}
	if err := relay.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}
}
