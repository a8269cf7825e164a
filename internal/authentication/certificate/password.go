package certificate

import (
	"golang.org/x/crypto/bcrypt"

	"github.com/uofuseismo/umps/internal/uerrors"
)

// UsernameAndPassword is a plain-text credential plus its derivable
// bcrypt-hashed form (spec §3).
type UsernameAndPassword struct {
	userName string
	password string
}

// NewUsernameAndPassword constructs a credential from cleartext values.
func NewUsernameAndPassword(userName, password string) (*UsernameAndPassword, error) {
	if userName == "" {
		return nil, uerrors.New("NewUsernameAndPassword", uerrors.InvalidArgument, "user name is empty")
	}
	return &UsernameAndPassword{userName: userName, password: password}, nil
}

func (u *UsernameAndPassword) UserName() string { return u.userName }
func (u *UsernameAndPassword) Password() string { return u.password }

// HashedPassword derives a strength-tagged bcrypt hash of the password on
// demand; it is never stored alongside the cleartext value.
func (u *UsernameAndPassword) HashedPassword() (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(u.password), bcrypt.DefaultCost)
	if err != nil {
		return "", uerrors.Wrap("HashedPassword", uerrors.AlgorithmFailure, "failed to hash password", err)
	}
	return string(hash), nil
}
