package reqrep

import (
	"testing"
	"time"

	"github.com/uofuseismo/umps/internal/messaging"
)

func TestRequestReplyRoundTrip(t *testing.T) {
	ctx := messaging.NewContext(1)
	defer ctx.Close()

	address := "inproc://reqrep-test"

	reply := NewReply()
	if err := reply.Initialize(ctx, messaging.ReplyOptions{Address: address}); err != nil {
		t.Fatalf("Reply.Initialize: %v", err)
	}
	defer reply.Close()

	done := make(chan struct{})
	go func() {
		_ = reply.Serve(done, func(request []byte) []byte {
			return append([]byte("echo:"), request...)
		})
	}()
	defer close(done)

	req := New()
	if err := req.Initialize(ctx, messaging.RequestOptions{Address: address, TimeOut: time.Second}); err != nil {
		t.Fatalf("Request.Initialize: %v", err)
	}
	defer req.Close()

	reply1, err := req.Request([]byte("hello"))
	if err != nil {
		t.Fatalf("Request: %v", err)
	}
	if string(reply1) != "echo:hello" {
		t.Fatalf("unexpected reply: %q", reply1)
	}
}

func TestReplyInitializeTwiceFails(t *testing.T) {
	ctx := messaging.NewContext(1)
	defer ctx.Close()

	reply := NewReply()
	if err := reply.Initialize(ctx, messaging.ReplyOptions{Address: "inproc://reqrep-double-bind"}); err != nil {
		t.Fatalf("Reply.Initialize: %v", err)
	}
	defer reply.Close()

	if err := reply.Initialize(ctx, messaging.ReplyOptions{Address: "inproc://reqrep-double-bind"}); err == nil {
		t.Fatal("expected error re-initializing an already-bound Reply")
	}
}

func TestReplyDialBackendSocketDetails(t *testing.T) {
	ctx := messaging.NewContext(1)
	defer ctx.Close()

	frontend := NewReply()
	if err := frontend.Initialize(ctx, messaging.ReplyOptions{Address: "inproc://reqrep-dial-backend"}); err != nil {
		t.Fatalf("Reply.Initialize (bind): %v", err)
	}
	defer frontend.Close()
	if frontend.SocketDetails().ConnectOrBind != messaging.Bind {
		t.Fatalf("expected Bind, got %v", frontend.SocketDetails().ConnectOrBind)
	}

	worker := NewReply()
	if err := worker.Initialize(ctx, messaging.ReplyOptions{Address: "inproc://reqrep-dial-backend", DialBackend: true}); err != nil {
		t.Fatalf("Reply.Initialize (dial): %v", err)
	}
	defer worker.Close()
	if worker.SocketDetails().ConnectOrBind != messaging.Connect {
		t.Fatalf("expected Connect, got %v", worker.SocketDetails().ConnectOrBind)
	}
}
