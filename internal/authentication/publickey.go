package authentication

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
)

// HashPublicKey derives the stored form of a presented public key (spec
// §3: User.HashedPublicKey). SHA-256 rather than bcrypt because Curve
// public keys are already uniformly random 32-byte values with no
// brute-force concern, unlike passwords.
func HashPublicKey(publicKey []byte) string {
	sum := sha256.Sum256(publicKey)
	return hex.EncodeToString(sum[:])
}

func hashPublicKey(publicKey []byte) string { return HashPublicKey(publicKey) }

func constantTimeEqual(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
