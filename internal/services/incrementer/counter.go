// Package incrementer implements the C10 persistent-counter service of
// spec §4.8: a sqlite-backed monotonic counter per named item, served
// over a request/reply socket.
package incrementer

import (
	"database/sql"
	"math"
	"sync"

	"github.com/uofuseismo/umps/internal/store"
	"github.com/uofuseismo/umps/internal/uerrors"
)

// DefaultItems are the counters the seismic-processing pipeline is known
// to need at boot (spec §5, scenario S3); operators can add more at
// runtime via AddItem.
var DefaultItems = []string{"Amplitude", "Event", "Magnitude", "Origin", "PhasePick", "PhaseArrival"}

// Counter is a sqlite-backed monotonic counter keyed by item name.
// Mutations are serialized by mu so GetNextValue is safe to call
// concurrently from multiple requestors.
type Counter struct {
	mu sync.Mutex
	db *sql.DB
}

// Open opens (or creates) the counter store at file.
func Open(file string, deleteIfExists bool) (*Counter, error) {
	db, err := store.Open(file, deleteIfExists)
	if err != nil {
		return nil, err
	}
	c := &Counter{db: db}
	if err := c.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return c, nil
}

func (c *Counter) migrate() error {
	return store.Exec(c.db, "Counter.migrate", `
CREATE TABLE IF NOT EXISTS counters (
    item TEXT PRIMARY KEY,
    value INTEGER NOT NULL,
    increment INTEGER NOT NULL,
    initial INTEGER NOT NULL
)`)
}

// Close releases the underlying database handle.
func (c *Counter) Close() error {
	return c.db.Close()
}

// AddItem registers item with initialValue and the given per-item
// increment. Fails with InvalidArgument if increment is not positive or
// item is already present (spec §4.8: "fails ... if increment ≤ 0 or
// name already present").
func (c *Counter) AddItem(item string, initialValue, increment int64) error {
	if increment <= 0 {
		return uerrors.New("Counter.AddItem", uerrors.InvalidArgument, "increment must be > 0")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	res, err := c.db.Exec(`INSERT OR IGNORE INTO counters (item, value, increment, initial) VALUES (?, ?, ?, ?)`,
		item, initialValue, increment, initialValue)
	if err != nil {
		return uerrors.Wrap("Counter.AddItem", uerrors.IoFailure, "insert failed", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return uerrors.Wrap("Counter.AddItem", uerrors.IoFailure, "failed to read rows affected", err)
	}
	if n == 0 {
		return uerrors.New("Counter.AddItem", uerrors.InvalidArgument, "item already exists: "+item)
	}
	return nil
}

// HaveItem reports whether item has been registered.
func (c *Counter) HaveItem(item string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	var dummy int64
	err := c.db.QueryRow(`SELECT value FROM counters WHERE item = ?`, item).Scan(&dummy)
	return err == nil
}

// GetNextValue atomically advances item by its own stored increment and
// returns the new value (spec §4.8: "value <- value + increment"). Fails
// with NotFound if item is unknown, or AlgorithmFailure if the result
// would overflow i64.
func (c *Counter) GetNextValue(item string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	tx, err := c.db.Begin()
	if err != nil {
		return 0, uerrors.Wrap("Counter.GetNextValue", uerrors.IoFailure, "begin transaction failed", err)
	}
	defer tx.Rollback()

	var current, increment int64
	if err := tx.QueryRow(`SELECT value, increment FROM counters WHERE item = ?`, item).Scan(&current, &increment); err != nil {
		return 0, uerrors.New("Counter.GetNextValue", uerrors.NotFound, "unrecognized item: "+item)
	}
	if current > math.MaxInt64-increment {
		return 0, uerrors.New("Counter.GetNextValue", uerrors.AlgorithmFailure, "value would overflow i64 for item: "+item)
	}
	next := current + increment
	if _, err := tx.Exec(`UPDATE counters SET value = ? WHERE item = ?`, next, item); err != nil {
		return 0, uerrors.Wrap("Counter.GetNextValue", uerrors.IoFailure, "update failed", err)
	}
	if err := tx.Commit(); err != nil {
		return 0, uerrors.Wrap("Counter.GetNextValue", uerrors.IoFailure, "commit failed", err)
	}
	return next, nil
}

// GetCurrentValue returns item's current value without incrementing it.
func (c *Counter) GetCurrentValue(item string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	var value int64
	if err := c.db.QueryRow(`SELECT value FROM counters WHERE item = ?`, item).Scan(&value); err != nil {
		return 0, uerrors.New("Counter.GetCurrentValue", uerrors.NotFound, "unrecognized item: "+item)
	}
	return value, nil
}

// Reset sets item's value back to its own stored initial value (spec
// §4.8: "reset(name): set row(s) back to initial").
func (c *Counter) Reset(item string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	res, err := c.db.Exec(`UPDATE counters SET value = initial WHERE item = ?`, item)
	if err != nil {
		return uerrors.Wrap("Counter.Reset", uerrors.IoFailure, "update failed", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return uerrors.New("Counter.Reset", uerrors.NotFound, "unrecognized item: "+item)
	}
	return nil
}

// ResetAll sets every item's value back to its own stored initial value
// (spec §4.8's no-argument "reset()" form). Explicitly documented as
// capable of producing duplicates; intended for tests and controlled
// rebuilds, never called from request handling.
func (c *Counter) ResetAll() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return store.Exec(c.db, "Counter.ResetAll", `UPDATE counters SET value = initial`)
}

// GetItems lists every registered item name.
func (c *Counter) GetItems() ([]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	rows, err := c.db.Query(`SELECT item FROM counters ORDER BY item`)
	if err != nil {
		return nil, uerrors.Wrap("Counter.GetItems", uerrors.IoFailure, "query failed", err)
	}
	defer rows.Close()
	var items []string
	for rows.Next() {
		var item string
		if err := rows.Scan(&item); err != nil {
			return nil, uerrors.Wrap("Counter.GetItems", uerrors.IoFailure, "scan failed", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
