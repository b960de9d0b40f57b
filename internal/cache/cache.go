// Package cache stores PDU snapshots in SQLite or PostgreSQL.
package cache

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/OpenCHAMI/mpx/internal/collect"
	"github.com/OpenCHAMI/mpx/internal/util"
	"github.com/OpenCHAMI/mpx/pkg/mpx"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"

	CollectionsTable = "mpx_collections"
	ReceptaclesTable = "mpx_receptacles"
	EventsTable      = "mpx_events"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS ` + CollectionsTable + ` (
		id           TEXT PRIMARY KEY,
		host         TEXT NOT NULL,
		collected_at TIMESTAMP NOT NULL,
		error        TEXT NOT NULL DEFAULT '',
		pdu          TEXT
	)`,
	`CREATE INDEX IF NOT EXISTS mpx_collections_host ON ` + CollectionsTable + ` (host, collected_at)`,
	`CREATE TABLE IF NOT EXISTS ` + ReceptaclesTable + ` (
		collection_id TEXT NOT NULL,
		pdu           INTEGER NOT NULL,
		branch        INTEGER NOT NULL,
		receptacle    INTEGER NOT NULL,
		label         TEXT NOT NULL,
		enabled       BOOLEAN NOT NULL,
		locked        BOOLEAN NOT NULL,
		status        TEXT NOT NULL,
		PRIMARY KEY (collection_id, pdu, branch, receptacle)
	)`,
	`CREATE TABLE IF NOT EXISTS ` + EventsTable + ` (
		collection_id TEXT NOT NULL,
		seq           INTEGER NOT NULL,
		severity      TEXT NOT NULL,
		pdu           INTEGER NOT NULL,
		branch        INTEGER NOT NULL,
		receptacle    INTEGER NOT NULL,
		event_type    TEXT NOT NULL,
		PRIMARY KEY (collection_id, seq)
	)`,
}

type collectionRow struct {
	ID          string         `db:"id"`
	Host        string         `db:"host"`
	CollectedAt time.Time      `db:"collected_at"`
	Error       string         `db:"error"`
	PDU         sql.NullString `db:"pdu"`
}

type receptacleRow struct {
	CollectionID string `db:"collection_id"`
	mpx.Location
	Label   string `db:"label"`
	Enabled bool   `db:"enabled"`
	Locked  bool   `db:"locked"`
	Status  string `db:"status"`
}

type eventRow struct {
	CollectionID string `db:"collection_id"`
	Seq          int    `db:"seq"`
	Severity     string `db:"severity"`
	mpx.Location
	EventType string `db:"event_type"`
}

type Cache struct {
	db *sqlx.DB
}

// Open connects to the cache database and creates its tables if needed. For
// sqlite3 the dsn is a file path whose directory is created as well.
func Open(driver, dsn string) (*Cache, error) {
	switch driver {
	case DriverSQLite:
		if err := util.EnsureParentDir(dsn); err != nil {
			return nil, fmt.Errorf("failed to create cache directory: %w", err)
		}
	case DriverPostgres:
	default:
		return nil, fmt.Errorf("unsupported cache driver %q (use %s or %s)", driver, DriverSQLite, DriverPostgres)
	}
	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if driver == DriverSQLite {
		// one writer at a time avoids "database is locked"
		db.SetMaxOpenConns(1)
	}
	c := &Cache{db: db}
	if err := c.CreateTablesIfNotExists(); err != nil {
		db.Close()
		return nil, err
	}
	return c, nil
}

func (c *Cache) Close() error {
	return c.db.Close()
}

func (c *Cache) CreateTablesIfNotExists() error {
	for _, stmt := range schema {
		if _, err := c.db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to create cache tables: %w", err)
		}
	}
	return nil
}

// InsertSnapshots stores snapshots and their rows in one transaction.
func (c *Cache) InsertSnapshots(snaps ...collect.Snapshot) error {
	if len(snaps) == 0 {
		return nil
	}
	tx, err := c.db.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	for _, snap := range snaps {
		if err := insertSnapshot(tx, snap); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to insert snapshot of %s: %w", snap.Host, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func insertSnapshot(tx *sqlx.Tx, snap collect.Snapshot) error {
	row := collectionRow{
		ID:          snap.ID.String(),
		Host:        snap.Host,
		CollectedAt: snap.Timestamp.UTC(),
		Error:       snap.Error,
	}
	if snap.PDU != nil {
		b, err := json.Marshal(snap.PDU)
		if err != nil {
			return fmt.Errorf("failed to marshal PDU info: %w", err)
		}
		row.PDU = sql.NullString{String: string(b), Valid: true}
	}
	_, err := tx.NamedExec(`INSERT INTO `+CollectionsTable+` (id, host, collected_at, error, pdu)
		VALUES (:id, :host, :collected_at, :error, :pdu)`, &row)
	if err != nil {
		return err
	}

	for _, r := range snap.Receptacles {
		_, err := tx.NamedExec(`INSERT INTO `+ReceptaclesTable+`
			(collection_id, pdu, branch, receptacle, label, enabled, locked, status)
			VALUES (:collection_id, :pdu, :branch, :receptacle, :label, :enabled, :locked, :status)`,
			&receptacleRow{
				CollectionID: row.ID,
				Location:     r.Location,
				Label:        r.Label,
				Enabled:      r.Enabled,
				Locked:       r.Locked,
				Status:       r.Status.String(),
			})
		if err != nil {
			return err
		}
	}
	for i, e := range snap.Events {
		_, err := tx.NamedExec(`INSERT INTO `+EventsTable+`
			(collection_id, seq, severity, pdu, branch, receptacle, event_type)
			VALUES (:collection_id, :seq, :severity, :pdu, :branch, :receptacle, :event_type)`,
			&eventRow{
				CollectionID: row.ID,
				Seq:          i,
				Severity:     e.Severity.String(),
				Location:     e.Location,
				EventType:    e.Type.String(),
			})
		if err != nil {
			return err
		}
	}
	return nil
}

// GetSnapshots returns every stored snapshot of hosts, or of all hosts when
// none are given, oldest first.
func (c *Cache) GetSnapshots(hosts ...string) (collect.Snapshots, error) {
	query := `SELECT id, host, collected_at, error, pdu FROM ` + CollectionsTable
	return c.selectSnapshots(query, `ORDER BY collected_at ASC, host ASC`, hosts)
}

// LatestSnapshots returns the newest snapshot of each host.
func (c *Cache) LatestSnapshots(hosts ...string) (collect.Snapshots, error) {
	query := `SELECT c.id, c.host, c.collected_at, c.error, c.pdu FROM ` + CollectionsTable + ` c
		WHERE c.collected_at = (SELECT MAX(l.collected_at) FROM ` + CollectionsTable + ` l WHERE l.host = c.host)`
	return c.selectSnapshots(query, `ORDER BY host ASC`, hosts)
}

func (c *Cache) selectSnapshots(query, order string, hosts []string) (collect.Snapshots, error) {
	var args []any
	if len(hosts) > 0 {
		joiner := " WHERE "
		if strings.Contains(query, "WHERE") {
			joiner = " AND "
		}
		var err error
		query, args, err = sqlx.In(query+joiner+"host IN (?)", hosts)
		if err != nil {
			return nil, fmt.Errorf("failed to build query: %w", err)
		}
	}
	query = c.db.Rebind(query + " " + order)

	rows := []collectionRow{}
	if err := c.db.Select(&rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to retrieve snapshots: %w", err)
	}
	snaps := make(collect.Snapshots, 0, len(rows))
	for _, row := range rows {
		snap, err := c.load(row)
		if err != nil {
			return nil, err
		}
		snaps = append(snaps, snap)
	}
	return snaps, nil
}

func (c *Cache) load(row collectionRow) (collect.Snapshot, error) {
	id, err := uuid.Parse(row.ID)
	if err != nil {
		return collect.Snapshot{}, fmt.Errorf("bad snapshot id %q: %w", row.ID, err)
	}
	snap := collect.Snapshot{
		ID:          id,
		Host:        row.Host,
		Timestamp:   row.CollectedAt.UTC(),
		Error:       row.Error,
		Receptacles: mpx.ReceptacleList{},
		Events:      mpx.EventList{},
	}
	if row.PDU.Valid {
		var info mpx.PDUInfo
		if err := json.Unmarshal([]byte(row.PDU.String), &info); err != nil {
			return snap, fmt.Errorf("failed to unmarshal PDU info of %s: %w", row.ID, err)
		}
		snap.PDU = &info
	}

	receptacles := []receptacleRow{}
	err = c.db.Select(&receptacles, c.db.Rebind(`SELECT collection_id, pdu, branch, receptacle, label, enabled, locked, status
		FROM `+ReceptaclesTable+` WHERE collection_id = ? ORDER BY pdu, branch, receptacle`), row.ID)
	if err != nil {
		return snap, fmt.Errorf("failed to retrieve receptacles: %w", err)
	}
	for _, r := range receptacles {
		entry := mpx.ReceptacleListEntry{Location: r.Location, Label: r.Label, Enabled: r.Enabled, Locked: r.Locked}
		if err := entry.Status.UnmarshalText([]byte(r.Status)); err != nil {
			return snap, err
		}
		snap.Receptacles = append(snap.Receptacles, entry)
	}

	events := []eventRow{}
	err = c.db.Select(&events, c.db.Rebind(`SELECT collection_id, seq, severity, pdu, branch, receptacle, event_type
		FROM `+EventsTable+` WHERE collection_id = ? ORDER BY seq`), row.ID)
	if err != nil {
		return snap, fmt.Errorf("failed to retrieve events: %w", err)
	}
	for _, e := range events {
		event := mpx.Event{Location: e.Location}
		if err := errors.Join(
			event.Severity.UnmarshalText([]byte(e.Severity)),
			event.Type.UnmarshalText([]byte(e.EventType)),
		); err != nil {
			return snap, err
		}
		snap.Events = append(snap.Events, event)
	}
	return snap, nil
}

// DeleteSnapshots removes every snapshot of hosts, or everything when no
// host is given, and reports how many snapshots went.
func (c *Cache) DeleteSnapshots(hosts ...string) (int64, error) {
	where, args := "", []any{}
	if len(hosts) > 0 {
		var err error
		where, args, err = sqlx.In(" WHERE host IN (?)", hosts)
		if err != nil {
			return 0, fmt.Errorf("failed to build query: %w", err)
		}
	}
	return c.deleteWhere(where, args)
}

// DeleteSnapshotsBefore removes snapshots collected before t.
func (c *Cache) DeleteSnapshotsBefore(t time.Time) (int64, error) {
	return c.deleteWhere(" WHERE collected_at < ?", []any{t.UTC()})
}

func (c *Cache) deleteWhere(where string, args []any) (int64, error) {
	tx, err := c.db.Beginx()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	ids := `SELECT id FROM ` + CollectionsTable + where
	for _, table := range []string{ReceptaclesTable, EventsTable} {
		if _, err := tx.Exec(tx.Rebind(`DELETE FROM `+table+` WHERE collection_id IN (`+ids+`)`), args...); err != nil {
			tx.Rollback()
			return 0, fmt.Errorf("failed to delete from %s: %w", table, err)
		}
	}
	res, err := tx.Exec(tx.Rebind(`DELETE FROM `+CollectionsTable+where), args...)
	if err != nil {
		tx.Rollback()
		return 0, fmt.Errorf("failed to delete snapshots: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return res.RowsAffected()
}
