package authentication

import (
	"fmt"
	"sync"

	"github.com/uofuseismo/umps/internal/uerrors"
)

// MemoryAuthenticator is the in-memory Authenticator backend: whitelist
// and blacklist sets plus a user table, guarded by a single mutex per
// spec §5 ("writes serialized, reads permitted concurrently").
type MemoryAuthenticator struct {
	mu        sync.RWMutex
	whitelist map[string]struct{}
	blacklist map[string]struct{}
	users     map[string]*userRecord
}

type userRecord struct {
	user     User
	password string // cleartext password as given to AddUser; UpdateUser does not read it
}

// NewMemoryAuthenticator constructs an empty in-memory backend.
func NewMemoryAuthenticator() *MemoryAuthenticator {
	return &MemoryAuthenticator{
		whitelist: make(map[string]struct{}),
		blacklist: make(map[string]struct{}),
		users:     make(map[string]*userRecord),
	}
}

func (m *MemoryAuthenticator) IsBlacklisted(remoteAddress string) Verdict {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if _, ok := m.blacklist[remoteAddress]; ok {
		return deny(fmt.Sprintf("%s is blacklisted", remoteAddress))
	}
	return allow(fmt.Sprintf("%s is not blacklisted", remoteAddress))
}

func (m *MemoryAuthenticator) IsWhitelisted(remoteAddress string) Verdict {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if _, ok := m.whitelist[remoteAddress]; ok {
		return allow(fmt.Sprintf("%s is whitelisted", remoteAddress))
	}
	return deny(fmt.Sprintf("%s is not whitelisted", remoteAddress))
}

func (m *MemoryAuthenticator) IsValidCredentials(attempt UsernameAndPasswordAttempt) Verdict {
	m.mu.RLock()
	rec, ok := m.users[attempt.UserName]
	m.mu.RUnlock()
	if !ok {
		return deny("no such user")
	}
	if !rec.user.DoesPasswordMatch(attempt.Password) {
		return deny("password does not match")
	}
	return allow("credentials valid")
}

func (m *MemoryAuthenticator) IsValidPublicKey(publicKey []byte) Verdict {
	hashed := hashPublicKey(publicKey)
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, rec := range m.users {
		if constantTimeEqual(rec.user.HashedPublicKey, hashed) {
			return allow("public key valid")
		}
	}
	return deny("public key not recognized")
}

func (m *MemoryAuthenticator) AddToWhitelist(remoteAddress string) error {
	if remoteAddress == "" {
		return uerrors.New("AddToWhitelist", uerrors.InvalidArgument, "address is empty")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.blacklist[remoteAddress]; ok {
		return uerrors.New("AddToWhitelist", uerrors.InvalidArgument, "address is already blacklisted")
	}
	m.whitelist[remoteAddress] = struct{}{}
	return nil
}

func (m *MemoryAuthenticator) RemoveFromWhitelist(remoteAddress string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.whitelist, remoteAddress)
	return nil
}

func (m *MemoryAuthenticator) AddToBlacklist(remoteAddress string) error {
	if remoteAddress == "" {
		return uerrors.New("AddToBlacklist", uerrors.InvalidArgument, "address is empty")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.whitelist[remoteAddress]; ok {
		return uerrors.New("AddToBlacklist", uerrors.InvalidArgument, "address is already whitelisted")
	}
	m.blacklist[remoteAddress] = struct{}{}
	return nil
}

func (m *MemoryAuthenticator) RemoveFromBlacklist(remoteAddress string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.blacklist, remoteAddress)
	return nil
}

func (m *MemoryAuthenticator) AddUser(user User, password string) error {
	if user.Name == "" {
		return uerrors.New("AddUser", uerrors.InvalidArgument, "user name is required")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[user.Name]; ok {
		return uerrors.New("AddUser", uerrors.InvalidArgument, "user already exists")
	}
	if password != "" {
		hash, err := bcryptHash(password)
		if err != nil {
			return uerrors.Wrap("AddUser", uerrors.AlgorithmFailure, "failed to hash password", err)
		}
		user.HashedPassword = hash
	}
	m.users[user.Name] = &userRecord{user: user, password: password}
	return nil
}

func (m *MemoryAuthenticator) UpdateUser(user User) error {
	if user.Name == "" {
		return uerrors.New("UpdateUser", uerrors.InvalidArgument, "user name is required")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.users[user.Name]
	if !ok {
		return uerrors.New("UpdateUser", uerrors.NotFound, "no such user")
	}
	rec.user = user
	return nil
}

func (m *MemoryAuthenticator) DeleteUser(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[name]; !ok {
		return uerrors.New("DeleteUser", uerrors.NotFound, "no such user")
	}
	delete(m.users, name)
	return nil
}

func (m *MemoryAuthenticator) HaveUser(name string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.users[name]
	return ok
}

func (m *MemoryAuthenticator) GetUsers() ([]User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]User, 0, len(m.users))
	for _, rec := range m.users {
		out = append(out, rec.user)
	}
	return out, nil
}
