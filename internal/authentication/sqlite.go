package authentication

import (
	"database/sql"
	"fmt"
	"sync"

	"github.com/uofuseismo/umps/internal/store"
	"github.com/uofuseismo/umps/internal/uerrors"
)

// SQLiteAuthenticator is the relational on-disk Authenticator backend
// (spec §4.1, §6 persistent layouts): three tables — users, whitelist,
// blacklist — with the mutual-exclusion invariant enforced at the
// application level. The backend accepts concurrent reads; writes are
// serialized by mu, matching §5.
type SQLiteAuthenticator struct {
	mu sync.Mutex
	db *sql.DB
}

// NewSQLiteAuthenticator opens (or creates) the store at file and
// ensures its schema exists.
func NewSQLiteAuthenticator(file string, deleteIfExists bool) (*SQLiteAuthenticator, error) {
	db, err := store.Open(file, deleteIfExists)
	if err != nil {
		return nil, err
	}
	a := &SQLiteAuthenticator{db: db}
	if err := a.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return a, nil
}

func (a *SQLiteAuthenticator) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT UNIQUE NOT NULL,
			email TEXT NOT NULL,
			hashed_password TEXT,
			hashed_public_key TEXT,
			privilege INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS whitelist (address TEXT PRIMARY KEY)`,
		`CREATE TABLE IF NOT EXISTS blacklist (address TEXT PRIMARY KEY)`,
	}
	for _, stmt := range stmts {
		if err := store.Exec(a.db, "SQLiteAuthenticator.migrate", stmt); err != nil {
			return err
		}
	}
	return nil
}

// Close releases the underlying database handle.
func (a *SQLiteAuthenticator) Close() error { return a.db.Close() }

func (a *SQLiteAuthenticator) IsBlacklisted(remoteAddress string) Verdict {
	var found string
	err := a.db.QueryRow(`SELECT address FROM blacklist WHERE address = ?`, remoteAddress).Scan(&found)
	if err == sql.ErrNoRows {
		return allow(fmt.Sprintf("%s is not blacklisted", remoteAddress))
	}
	if err != nil {
		return deny(fmt.Sprintf("failed to query blacklist: %v", err))
	}
	return deny(fmt.Sprintf("%s is blacklisted", remoteAddress))
}

func (a *SQLiteAuthenticator) IsWhitelisted(remoteAddress string) Verdict {
	var found string
	err := a.db.QueryRow(`SELECT address FROM whitelist WHERE address = ?`, remoteAddress).Scan(&found)
	if err == sql.ErrNoRows {
		return deny(fmt.Sprintf("%s is not whitelisted", remoteAddress))
	}
	if err != nil {
		return deny(fmt.Sprintf("failed to query whitelist: %v", err))
	}
	return allow(fmt.Sprintf("%s is whitelisted", remoteAddress))
}

func (a *SQLiteAuthenticator) IsValidCredentials(attempt UsernameAndPasswordAttempt) Verdict {
	var hashed string
	err := a.db.QueryRow(`SELECT hashed_password FROM users WHERE name = ?`, attempt.UserName).Scan(&hashed)
	if err == sql.ErrNoRows {
		return deny("no such user")
	}
	if err != nil {
		return deny(fmt.Sprintf("failed to query user: %v", err))
	}
	if hashed == "" || !bcryptCompare(hashed, attempt.Password) {
		return deny("password does not match")
	}
	return allow("credentials valid")
}

func (a *SQLiteAuthenticator) IsValidPublicKey(publicKey []byte) Verdict {
	hashed := hashPublicKey(publicKey)
	rows, err := a.db.Query(`SELECT hashed_public_key FROM users WHERE hashed_public_key IS NOT NULL AND hashed_public_key != ''`)
	if err != nil {
		return deny(fmt.Sprintf("failed to query users: %v", err))
	}
	defer rows.Close()
	for rows.Next() {
		var stored string
		if err := rows.Scan(&stored); err != nil {
			continue
		}
		if constantTimeEqual(stored, hashed) {
			return allow("public key valid")
		}
	}
	return deny("public key not recognized")
}

func (a *SQLiteAuthenticator) AddToWhitelist(remoteAddress string) error {
	if remoteAddress == "" {
		return uerrors.New("AddToWhitelist", uerrors.InvalidArgument, "address is empty")
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	var exists string
	if err := a.db.QueryRow(`SELECT address FROM blacklist WHERE address = ?`, remoteAddress).Scan(&exists); err == nil {
		return uerrors.New("AddToWhitelist", uerrors.InvalidArgument, "address is already blacklisted")
	}
	_, err := a.db.Exec(`INSERT OR IGNORE INTO whitelist (address) VALUES (?)`, remoteAddress)
	if err != nil {
		return uerrors.Wrap("AddToWhitelist", uerrors.IoFailure, "failed to insert address", err)
	}
	return nil
}

func (a *SQLiteAuthenticator) RemoveFromWhitelist(remoteAddress string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, err := a.db.Exec(`DELETE FROM whitelist WHERE address = ?`, remoteAddress); err != nil {
		return uerrors.Wrap("RemoveFromWhitelist", uerrors.IoFailure, "failed to delete address", err)
	}
	return nil
}

func (a *SQLiteAuthenticator) AddToBlacklist(remoteAddress string) error {
	if remoteAddress == "" {
		return uerrors.New("AddToBlacklist", uerrors.InvalidArgument, "address is empty")
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	var exists string
	if err := a.db.QueryRow(`SELECT address FROM whitelist WHERE address = ?`, remoteAddress).Scan(&exists); err == nil {
		return uerrors.New("AddToBlacklist", uerrors.InvalidArgument, "address is already whitelisted")
	}
	_, err := a.db.Exec(`INSERT OR IGNORE INTO blacklist (address) VALUES (?)`, remoteAddress)
	if err != nil {
		return uerrors.Wrap("AddToBlacklist", uerrors.IoFailure, "failed to insert address", err)
	}
	return nil
}

func (a *SQLiteAuthenticator) RemoveFromBlacklist(remoteAddress string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, err := a.db.Exec(`DELETE FROM blacklist WHERE address = ?`, remoteAddress); err != nil {
		return uerrors.Wrap("RemoveFromBlacklist", uerrors.IoFailure, "failed to delete address", err)
	}
	return nil
}

func (a *SQLiteAuthenticator) AddUser(user User, password string) error {
	if user.Name == "" {
		return uerrors.New("AddUser", uerrors.InvalidArgument, "user name is required")
	}
	hashed := user.HashedPassword
	if password != "" {
		h, err := bcryptHash(password)
		if err != nil {
			return uerrors.Wrap("AddUser", uerrors.AlgorithmFailure, "failed to hash password", err)
		}
		hashed = h
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	_, err := a.db.Exec(
		`INSERT INTO users (name, email, hashed_password, hashed_public_key, privilege) VALUES (?, ?, ?, ?, ?)`,
		user.Name, user.Email, hashed, user.HashedPublicKey, int(user.Privilege))
	if err != nil {
		return uerrors.Wrap("AddUser", uerrors.IoFailure, "failed to insert user", err)
	}
	return nil
}

func (a *SQLiteAuthenticator) UpdateUser(user User) error {
	if user.Name == "" {
		return uerrors.New("UpdateUser", uerrors.InvalidArgument, "user name is required")
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	res, err := a.db.Exec(
		`UPDATE users SET email = ?, hashed_password = ?, hashed_public_key = ?, privilege = ? WHERE name = ?`,
		user.Email, user.HashedPassword, user.HashedPublicKey, int(user.Privilege), user.Name)
	if err != nil {
		return uerrors.Wrap("UpdateUser", uerrors.IoFailure, "failed to update user", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return uerrors.New("UpdateUser", uerrors.NotFound, "no such user")
	}
	return nil
}

func (a *SQLiteAuthenticator) DeleteUser(name string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	res, err := a.db.Exec(`DELETE FROM users WHERE name = ?`, name)
	if err != nil {
		return uerrors.Wrap("DeleteUser", uerrors.IoFailure, "failed to delete user", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return uerrors.New("DeleteUser", uerrors.NotFound, "no such user")
	}
	return nil
}

func (a *SQLiteAuthenticator) HaveUser(name string) bool {
	var found string
	err := a.db.QueryRow(`SELECT name FROM users WHERE name = ?`, name).Scan(&found)
	return err == nil
}

func (a *SQLiteAuthenticator) GetUsers() ([]User, error) {
	rows, err := a.db.Query(`SELECT id, name, email, hashed_password, hashed_public_key, privilege FROM users`)
	if err != nil {
		return nil, uerrors.Wrap("GetUsers", uerrors.IoFailure, "failed to query users", err)
	}
	defer rows.Close()

	var out []User
	for rows.Next() {
		var u User
		var priv int
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.HashedPassword, &u.HashedPublicKey, &priv); err != nil {
			return nil, uerrors.Wrap("GetUsers", uerrors.IoFailure, "failed to scan user", err)
		}
		u.Privilege = Privilege(priv)
		out = append(out, u)
	}
	return out, nil
}
