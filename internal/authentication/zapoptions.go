package authentication

import (
	"github.com/uofuseismo/umps/internal/authentication/certificate"
	"github.com/uofuseismo/umps/internal/uerrors"
)

// Role is which side of a connection a ZAPOptions value configures.
type Role int

const (
	Client Role = iota
	Server
)

// ZAPOptions is the tagged record of spec §3 consumed by C6 socket
// initialization and validated by C2/C3.
type ZAPOptions struct {
	SecurityLevel   SecurityLevel
	Role            Role
	Domain          string
	ServerPublicKey []byte
	ClientKeyPair   *certificate.KeyPair
	Credentials     *certificate.UsernameAndPassword
}

// DefaultZAPOptions returns grasslands options in the default domain.
func DefaultZAPOptions() ZAPOptions {
	return ZAPOptions{SecurityLevel: Grasslands, Domain: "global"}
}

// Validate enforces the §3 invariants: "a stonehouse client carries both
// a server public key and a valid client key pair; a stonehouse server
// carries a valid server key pair."
func (z ZAPOptions) Validate() error {
	if z.Domain == "" {
		return uerrors.New("ZAPOptions.Validate", uerrors.InvalidArgument, "domain is empty")
	}
	if z.SecurityLevel != Stonehouse {
		return nil
	}
	switch z.Role {
	case Client:
		if len(z.ServerPublicKey) != certificate.KeyLen {
			return uerrors.New("ZAPOptions.Validate", uerrors.InvalidArgument, "stonehouse client requires a server public key")
		}
		if z.ClientKeyPair == nil || !z.ClientKeyPair.HaveKeyPair() {
			return uerrors.New("ZAPOptions.Validate", uerrors.InvalidArgument, "stonehouse client requires a valid key pair")
		}
	case Server:
		if z.ClientKeyPair == nil || !z.ClientKeyPair.HaveKeyPair() {
			return uerrors.New("ZAPOptions.Validate", uerrors.InvalidArgument, "stonehouse server requires a valid key pair")
		}
	}
	return nil
}
