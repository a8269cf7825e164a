package authentication

// Authenticator is the capability trait behind the ZAP service (C3).
// Every predicate is infallible in signature — it always returns a
// Verdict — per spec §4.1; only mutators and the store-backed
// constructors can fail.
type Authenticator interface {
	IsBlacklisted(remoteAddress string) Verdict
	IsWhitelisted(remoteAddress string) Verdict
	IsValidCredentials(attempt UsernameAndPasswordAttempt) Verdict
	IsValidPublicKey(publicKey []byte) Verdict

	AddToWhitelist(remoteAddress string) error
	RemoveFromWhitelist(remoteAddress string) error
	AddToBlacklist(remoteAddress string) error
	RemoveFromBlacklist(remoteAddress string) error

	AddUser(user User, password string) error
	UpdateUser(user User) error
	DeleteUser(name string) error
	HaveUser(name string) bool
	GetUsers() ([]User, error)
}

// Authenticate applies the §4.1 policy matrix for the given security
// level to an Attempt, short-circuiting at the first failing check.
func Authenticate(a Authenticator, attempt Attempt) Verdict {
	switch attempt.SecurityLevel {
	case Grasslands:
		return allow("grasslands: no checks performed")

	case Strawhouse:
		return checkIP(a, attempt.RemoteAddress)

	case Woodhouse:
		if v := checkIP(a, attempt.RemoteAddress); !v.Granted {
			return v
		}
		if attempt.Credentials == nil {
			return deny("woodhouse requires a username and password")
		}
		return a.IsValidCredentials(*attempt.Credentials)

	case Stonehouse:
		if v := checkIP(a, attempt.RemoteAddress); !v.Granted {
			return v
		}
		if len(attempt.PublicKey) == 0 {
			return deny("stonehouse requires a public key")
		}
		return a.IsValidPublicKey(attempt.PublicKey)

	default:
		return deny("unknown security level")
	}
}

// checkIP applies the blacklist before the whitelist: IsBlacklisted
// denies (Granted=false) when the address is listed, in which case that
// denial short-circuits; otherwise the whitelist verdict decides.
func checkIP(a Authenticator, remoteAddress string) Verdict {
	if v := a.IsBlacklisted(remoteAddress); !v.Granted {
		return v
	}
	return a.IsWhitelisted(remoteAddress)
}
