package command

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/uofuseismo/umps/internal/messaging/wire"
)

func TestLocalServiceDispatch(t *testing.T) {
	var executed string
	terminated := make(chan struct{}, 1)
	svc := NewLocalService(Callbacks{
		Help:    func() string { return "help text" },
		Execute: func(command string) string { executed = command; return "ok: " + command },
		Terminate: func() {
			terminated <- struct{}{}
		},
	}, nil)

	helpReq, _ := wire.Encode(&wire.CommandsRequest{Identifier: 1})
	helpRespRaw := svc.handle(helpReq)
	var helpEnv wire.Envelope
	if err := json.Unmarshal(helpRespRaw, &helpEnv); err != nil {
		t.Fatalf("unmarshal envelope: %v", err)
	}
	var helpResp wire.AvailableCommandsResponse
	if err := json.Unmarshal(helpEnv.Body, &helpResp); err != nil {
		t.Fatalf("unmarshal body: %v", err)
	}
	if helpResp.Commands != "help text" || helpResp.Identifier != 1 {
		t.Fatalf("unexpected help response: %+v", helpResp)
	}

	cmdReq, _ := wire.Encode(&wire.CommandRequest{Command: "status", Identifier: 2})
	cmdRespRaw := svc.handle(cmdReq)
	var cmdEnv wire.Envelope
	if err := json.Unmarshal(cmdRespRaw, &cmdEnv); err != nil {
		t.Fatalf("unmarshal envelope: %v", err)
	}
	var cmdResp wire.CommandResponse
	if err := json.Unmarshal(cmdEnv.Body, &cmdResp); err != nil {
		t.Fatalf("unmarshal body: %v", err)
	}
	if cmdResp.Result != "ok: status" || executed != "status" {
		t.Fatalf("unexpected command response: %+v", cmdResp)
	}

	termReq, _ := wire.Encode(&wire.TerminateRequest{Identifier: 3})
	termRespRaw := svc.handle(termReq)
	var termEnv wire.Envelope
	if err := json.Unmarshal(termRespRaw, &termEnv); err != nil {
		t.Fatalf("unmarshal envelope: %v", err)
	}
	var termResp wire.TerminateResponse
	if err := json.Unmarshal(termEnv.Body, &termResp); err != nil {
		t.Fatalf("unmarshal body: %v", err)
	}
	if termResp.ReturnCode != wire.Success {
		t.Fatalf("unexpected terminate response: %+v", termResp)
	}
	select {
	case <-terminated:
	case <-time.After(time.Second):
		t.Fatal("expected Terminate callback to run")
	}
}
