// Package command implements the C9 module command plane of spec §4.7: a
// local REP socket each module exposes for direct operator commands, and
// a remote ROUTER/DEALER registry modules heartbeat into.
package command

import (
	"sync"
	"time"

	"github.com/uofuseismo/umps/internal/messaging/wire"
	"github.com/uofuseismo/umps/internal/store"
	"github.com/uofuseismo/umps/internal/uerrors"
)

// Registry tracks every module that has registered with the remote
// command plane, keyed by name. It is sqlite-backed so a restarted
// operator recovers its view of the fleet instead of waiting for every
// module to re-register.
type Registry struct {
	mu sync.Mutex
	db interface {
		registerModule(name, routingIdentifier string, pingIntervalMS int64, lastSeen int64) error
		unregisterModule(name string) error
		touchModule(name string, lastSeen int64) error
		listModules() ([]wire.ModuleDetails, error)
		staleModules(nowUnixMS int64, multiplier float64) ([]string, error)
	}
	closeDB func() error
}

// ValidatePingInterval enforces spec §4.7's requirement that a module's
// heartbeat schedule be a positive duration; a non-positive interval
// would never re-register and would appear to the operator as silently
// dead.
func ValidatePingInterval(interval time.Duration) error {
	if interval <= 0 {
		return uerrors.New("ValidatePingInterval", uerrors.InvalidArgument, "ping interval must be positive")
	}
	return nil
}

// Open opens (or creates) the registry's sqlite-backed module table.
func Open(file string, deleteIfExists bool) (*Registry, error) {
	db, err := store.Open(file, deleteIfExists)
	if err != nil {
		return nil, err
	}
	backend := &sqliteModuleTable{db: db}
	if err := backend.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return &Registry{db: backend, closeDB: db.Close}, nil
}

// Close releases the underlying database handle.
func (r *Registry) Close() error {
	return r.closeDB()
}

// Register records details as present (spec §4.7 RegistrationAction
// Register), updating routing identity and ping interval if it was
// already known.
func (r *Registry) Register(details wire.ModuleDetails) error {
	if err := ValidatePingInterval(time.Duration(details.PingIntervalMS) * time.Millisecond); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.db.registerModule(details.Name, details.RoutingIdentifier, details.PingIntervalMS, time.Now().UnixMilli())
}

// Unregister removes a module (spec §4.7 RegistrationAction Unregister).
func (r *Registry) Unregister(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.db.unregisterModule(name)
}

// Heartbeat refreshes a module's last-seen timestamp (spec §4.7
// RegistrationAction Heartbeat) without altering its registration.
func (r *Registry) Heartbeat(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.db.touchModule(name, time.Now().UnixMilli())
}

// List returns every currently-registered module.
func (r *Registry) List() ([]wire.ModuleDetails, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.db.listModules()
}

// EvictStale removes every module whose last heartbeat is older than its
// own ping interval scaled by multiplier, returning the evicted names
// (spec §4.7: "removed ... after repeated ping failure").
func (r *Registry) EvictStale(multiplier float64) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stale, err := r.db.staleModules(time.Now().UnixMilli(), multiplier)
	if err != nil {
		return nil, err
	}
	for _, name := range stale {
		if err := r.db.unregisterModule(name); err != nil && !uerrors.Is(err, uerrors.NotFound) {
			return nil, err
		}
	}
	return stale, nil
}
