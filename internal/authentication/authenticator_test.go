package authentication

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestAccessListExclusivityMemory(t *testing.T) {
	a := NewMemoryAuthenticator()
	if err := a.AddToBlacklist("10.0.0.5"); err != nil {
		t.Fatalf("AddToBlacklist: %v", err)
	}
	if err := a.AddToWhitelist("10.0.0.5"); err == nil {
		t.Fatal("expected error adding blacklisted address to whitelist")
	}
}

func TestAccessListExclusivitySQLite(t *testing.T) {
	dir := t.TempDir()
	a, err := NewSQLiteAuthenticator(filepath.Join(dir, "auth.db"), false)
	if err != nil {
		t.Fatalf("NewSQLiteAuthenticator: %v", err)
	}
	defer a.Close()

	if err := a.AddToWhitelist("192.168.1.1"); err != nil {
		t.Fatalf("AddToWhitelist: %v", err)
	}
	if err := a.AddToBlacklist("192.168.1.1"); err == nil {
		t.Fatal("expected error adding whitelisted address to blacklist")
	}
}

// S5 (authentication deny): strawhouse, blacklist 10.0.0.5, attempt from
// 10.0.0.5 must be denied with a reason mentioning "blacklisted".
func TestStrawhouseDenyBlacklisted(t *testing.T) {
	a := NewMemoryAuthenticator()
	if err := a.AddToBlacklist("10.0.0.5"); err != nil {
		t.Fatalf("AddToBlacklist: %v", err)
	}

	v := Authenticate(a, Attempt{RemoteAddress: "10.0.0.5", SecurityLevel: Strawhouse})
	if v.Granted {
		t.Fatal("expected denial for blacklisted address")
	}
	if !strings.Contains(v.Reason, "blacklisted") {
		t.Fatalf("reason %q does not mention blacklisted", v.Reason)
	}
}

func TestSecurityMonotonicity(t *testing.T) {
	a := NewMemoryAuthenticator()
	if err := a.AddUser(User{Name: "alice"}, "hunter2"); err != nil {
		t.Fatalf("AddUser: %v", err)
	}
	if err := a.AddToWhitelist("1.2.3.4"); err != nil {
		t.Fatalf("AddToWhitelist: %v", err)
	}

	// grasslands always passes regardless of credentials.
	if v := Authenticate(a, Attempt{SecurityLevel: Grasslands}); !v.Granted {
		t.Fatal("grasslands should always grant")
	}

	// woodhouse without credentials must be denied even though grasslands
	// would have allowed the same attempt.
	if v := Authenticate(a, Attempt{RemoteAddress: "1.2.3.4", SecurityLevel: Woodhouse}); v.Granted {
		t.Fatal("woodhouse without credentials must be denied")
	}

	// woodhouse with correct credentials is granted.
	v := Authenticate(a, Attempt{
		RemoteAddress: "1.2.3.4",
		SecurityLevel: Woodhouse,
		Credentials:   &UsernameAndPasswordAttempt{UserName: "alice", Password: "hunter2"},
	})
	if !v.Granted {
		t.Fatalf("expected woodhouse grant, got deny: %s", v.Reason)
	}

	// woodhouse with wrong password is denied.
	v = Authenticate(a, Attempt{
		RemoteAddress: "1.2.3.4",
		SecurityLevel: Woodhouse,
		Credentials:   &UsernameAndPasswordAttempt{UserName: "alice", Password: "wrong"},
	})
	if v.Granted {
		t.Fatal("expected woodhouse deny for wrong password")
	}
}

func TestUserDoesPasswordMatchNoHash(t *testing.T) {
	u := User{Name: "bob"}
	if u.DoesPasswordMatch("anything") {
		t.Fatal("expected false when no hash stored")
	}
}
