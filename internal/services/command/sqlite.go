package command

import (
	"database/sql"

	"github.com/uofuseismo/umps/internal/messaging/wire"
	"github.com/uofuseismo/umps/internal/store"
	"github.com/uofuseismo/umps/internal/uerrors"
)

type sqliteModuleTable struct {
	db *sql.DB
}

func (t *sqliteModuleTable) migrate() error {
	return store.Exec(t.db, "sqliteModuleTable.migrate", `
CREATE TABLE IF NOT EXISTS local_modules (
    name TEXT PRIMARY KEY,
    routing_identifier TEXT NOT NULL DEFAULT '',
    ping_interval_ms INTEGER NOT NULL,
    last_seen_unix_ms INTEGER NOT NULL
)`)
}

func (t *sqliteModuleTable) registerModule(name, routingIdentifier string, pingIntervalMS int64, lastSeen int64) error {
	_, err := t.db.Exec(`
INSERT INTO local_modules (name, routing_identifier, ping_interval_ms, last_seen_unix_ms)
VALUES (?, ?, ?, ?)
ON CONFLICT(name) DO UPDATE SET
    routing_identifier = excluded.routing_identifier,
    ping_interval_ms = excluded.ping_interval_ms,
    last_seen_unix_ms = excluded.last_seen_unix_ms`,
		name, routingIdentifier, pingIntervalMS, lastSeen)
	if err != nil {
		return uerrors.Wrap("sqliteModuleTable.registerModule", uerrors.IoFailure, "insert failed", err)
	}
	return nil
}

func (t *sqliteModuleTable) unregisterModule(name string) error {
	res, err := t.db.Exec(`DELETE FROM local_modules WHERE name = ?`, name)
	if err != nil {
		return uerrors.Wrap("sqliteModuleTable.unregisterModule", uerrors.IoFailure, "delete failed", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return uerrors.New("sqliteModuleTable.unregisterModule", uerrors.NotFound, "unregistered module: "+name)
	}
	return nil
}

func (t *sqliteModuleTable) touchModule(name string, lastSeen int64) error {
	res, err := t.db.Exec(`UPDATE local_modules SET last_seen_unix_ms = ? WHERE name = ?`, lastSeen, name)
	if err != nil {
		return uerrors.Wrap("sqliteModuleTable.touchModule", uerrors.IoFailure, "update failed", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return uerrors.New("sqliteModuleTable.touchModule", uerrors.NotFound, "unregistered module: "+name)
	}
	return nil
}

func (t *sqliteModuleTable) listModules() ([]wire.ModuleDetails, error) {
	rows, err := t.db.Query(`SELECT name, routing_identifier, ping_interval_ms FROM local_modules ORDER BY name`)
	if err != nil {
		return nil, uerrors.Wrap("sqliteModuleTable.listModules", uerrors.IoFailure, "query failed", err)
	}
	defer rows.Close()
	var modules []wire.ModuleDetails
	for rows.Next() {
		var m wire.ModuleDetails
		if err := rows.Scan(&m.Name, &m.RoutingIdentifier, &m.PingIntervalMS); err != nil {
			return nil, uerrors.Wrap("sqliteModuleTable.listModules", uerrors.IoFailure, "scan failed", err)
		}
		modules = append(modules, m)
	}
	return modules, rows.Err()
}

// staleModules returns the names of modules whose last heartbeat is older
// than their own ping interval scaled by multiplier — spec §4.7's "if
// still no reply, evict from the table" collapsed onto a single threshold
// (the registry is heartbeated-into rather than itself issuing pings, so
// there is one grace window rather than the original's three-stage
// ping/resend/terminate vector).
func (t *sqliteModuleTable) staleModules(nowUnixMS int64, multiplier float64) ([]string, error) {
	rows, err := t.db.Query(`
SELECT name FROM local_modules
WHERE ping_interval_ms > 0
  AND (? - last_seen_unix_ms) > CAST(ping_interval_ms AS REAL) * ?
ORDER BY name`, nowUnixMS, multiplier)
	if err != nil {
		return nil, uerrors.Wrap("sqliteModuleTable.staleModules", uerrors.IoFailure, "query failed", err)
	}
	defer rows.Close()
	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, uerrors.Wrap("sqliteModuleTable.staleModules", uerrors.IoFailure, "scan failed", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}
