// Package authentication implements the pluggable Authenticator (C2), its
// backends, and the policy matrix of spec §4.1.
package authentication

import "time"

// Privilege is a user's minimum-privilege level.
type Privilege int

const (
	// ReadOnly is the default privilege.
	ReadOnly Privilege = iota
	ReadWrite
	Admin
)

func (p Privilege) String() string {
	switch p {
	case ReadWrite:
		return "ReadWrite"
	case Admin:
		return "Admin"
	default:
		return "ReadOnly"
	}
}

// SecurityLevel is the ZAP-style tier a socket or connection is
// configured at (spec §4.1).
type SecurityLevel int

const (
	Grasslands SecurityLevel = iota
	Strawhouse
	Woodhouse
	Stonehouse
)

func (s SecurityLevel) String() string {
	switch s {
	case Strawhouse:
		return "strawhouse"
	case Woodhouse:
		return "woodhouse"
	case Stonehouse:
		return "stonehouse"
	default:
		return "grasslands"
	}
}

// User is the §3 backing-store record.
type User struct {
	ID              int64
	Name            string
	Email           string
	HashedPassword  string
	HashedPublicKey string
	Privilege       Privilege
}

// MaxHashLength is the upper bound on a stored hashed password's length
// (spec §3: "length ≤ MAX_HASH"). The authenticator backends do not check
// it when storing a user.
const MaxHashLength = 256

// DoesPasswordMatch performs a constant-time comparison of plain against
// the stored bcrypt hash; it returns false (never an error) when no hash
// is stored, per spec §3.
func (u *User) DoesPasswordMatch(plain string) bool {
	if u.HashedPassword == "" {
		return false
	}
	return bcryptCompare(u.HashedPassword, plain)
}

// Verdict is the outcome of a predicate check: whether access is granted
// and a human-readable diagnostic (spec §4.1: "return (status_code,
// reason)").
type Verdict struct {
	Granted bool
	Reason  string
}

func allow(reason string) Verdict { return Verdict{Granted: true, Reason: reason} }
func deny(reason string) Verdict  { return Verdict{Granted: false, Reason: reason} }

// Attempt describes a single connection attempt to be validated (spec
// §4.1 and the ZAP request tuple of §6).
type Attempt struct {
	RemoteAddress string
	SecurityLevel SecurityLevel
	Domain        string
	Credentials   *UsernameAndPasswordAttempt
	PublicKey     []byte
	Timestamp     time.Time
}

// UsernameAndPasswordAttempt carries a PLAIN-mechanism credential.
type UsernameAndPasswordAttempt struct {
	UserName string
	Password string
}
