package zap

import (
	"testing"
	"time"

	"github.com/uofuseismo/umps/internal/authentication"
)

func TestServiceLifecycleAndDeny(t *testing.T) {
	auth := authentication.NewMemoryAuthenticator()
	svc := NewService(auth, authentication.Strawhouse, nil)

	if err := svc.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer svc.Stop(time.Second)

	if err := svc.Blacklist("10.0.0.5"); err != nil {
		t.Fatalf("Blacklist: %v", err)
	}

	resp := svc.HandleRequest(Request{
		Version:   "1.0",
		RequestID: "r1",
		Domain:    "global",
		Address:   "10.0.0.5",
		Mechanism: MechanismNull,
	})
	if resp.StatusCode != StatusBadRequest {
		t.Fatalf("status = %s, want %s", resp.StatusCode, StatusBadRequest)
	}
	if resp.RequestID != "r1" {
		t.Fatalf("request id not correlated: got %s", resp.RequestID)
	}
}

func TestServiceStonehouseCurveFlow(t *testing.T) {
	auth := authentication.NewMemoryAuthenticator()
	svc := NewService(auth, authentication.Stonehouse, nil)

	if err := svc.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer svc.Stop(time.Second)

	goodKey := make([]byte, 32)
	for i := range goodKey {
		goodKey[i] = byte(i)
	}
	badKey := make([]byte, 32)
	for i := range badKey {
		badKey[i] = byte(255 - i)
	}

	if err := svc.ConfigureCurve("global", map[string][]byte{"station01": goodKey}); err != nil {
		t.Fatalf("ConfigureCurve: %v", err)
	}
	if err := svc.Whitelist("10.0.0.9"); err != nil {
		t.Fatalf("Whitelist: %v", err)
	}

	granted := svc.HandleRequest(Request{
		Version:   "1.0",
		RequestID: "curve-ok",
		Domain:    "global",
		Address:   "10.0.0.9",
		Mechanism: MechanismCurve,
		PublicKey: goodKey,
	})
	if granted.StatusCode != StatusOK {
		t.Fatalf("status = %s, want %s (reason: %s)", granted.StatusCode, StatusOK, granted.StatusText)
	}

	denied := svc.HandleRequest(Request{
		Version:   "1.0",
		RequestID: "curve-bad",
		Domain:    "global",
		Address:   "10.0.0.9",
		Mechanism: MechanismCurve,
		PublicKey: badKey,
	})
	if denied.StatusCode != StatusBadRequest {
		t.Fatalf("status = %s, want %s", denied.StatusCode, StatusBadRequest)
	}

	noKey := svc.HandleRequest(Request{
		Version:   "1.0",
		RequestID: "curve-missing",
		Domain:    "global",
		Address:   "10.0.0.9",
		Mechanism: MechanismCurve,
	})
	if noKey.StatusCode != StatusBadRequest {
		t.Fatalf("status = %s, want %s for a request with no public key", noKey.StatusCode, StatusBadRequest)
	}
}

func TestServiceDoubleStart(t *testing.T) {
	auth := authentication.NewMemoryAuthenticator()
	svc := NewService(auth, authentication.Grasslands, nil)
	if err := svc.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer svc.Stop(time.Second)

	if err := svc.Start(); err == nil {
		t.Fatal("expected error on double Start")
	}
}

func TestServiceStopIsTerminal(t *testing.T) {
	auth := authentication.NewMemoryAuthenticator()
	svc := NewService(auth, authentication.Grasslands, nil)
	if err := svc.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := svc.Stop(time.Second); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if err := svc.Whitelist("1.2.3.4"); err == nil {
		t.Fatal("expected error calling Whitelist after Stop")
	}
}
