package sink

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/hex"
	"encoding/json"

	_ "github.com/mattn/go-sqlite3"

	"github.com/iov-one/pswap/errors"
	"github.com/iov-one/pswap/x/swap"
)

//go:embed schema.sql
var schemaSQL string

// SQLite keeps every event in a SQLite database.
type SQLite struct {
	db *sql.DB
}

var _ swap.EventSink = (*SQLite)(nil)

// OpenSQLite creates or opens the audit database at given path. Use
// ":memory:" for a database that lives as long as the process.
//
// The database runs in WAL mode with a single connection, as SQLite supports
// one writer at a time.
func OpenSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrDatabase, "open %s: %s", path, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, errors.Wrapf(errors.ErrDatabase, "connect %s: %s", path, err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, errors.Wrapf(errors.ErrDatabase, "%s: %s", p, err)
		}
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, errors.Wrapf(errors.ErrDatabase, "schema: %s", err)
	}
	return &SQLite{db: db}, nil
}

// Close releases the database.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// Emit stores the event. Storing the same event twice is an error.
func (s *SQLite) Emit(ctx context.Context, e swap.Event) error {
	payload, err := json.Marshal(e)
	if err != nil {
		return errors.Wrap(errors.ErrInvalidState, err.Error())
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO events (id, kind, commitment_key, caller, ticker, amount,
			premium_current, asset_current, time, payload)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID.String(),
		string(e.Kind),
		hex.EncodeToString(e.CommitmentKey),
		e.Caller.String(),
		e.Ticker,
		int64(e.Amount),
		int64(e.PremiumCurrent),
		int64(e.AssetCurrent),
		int64(e.Time),
		string(payload),
	)
	if err != nil {
		return errors.Wrapf(errors.ErrDatabase, "insert event %s: %s", e.ID, err)
	}
	return nil
}

// History returns all events of the swap with given commitment key, oldest
// first. Events of every swap that ever used the key are included.
func (s *SQLite) History(ctx context.Context, key []byte) ([]swap.Event, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT payload FROM events
		WHERE commitment_key = ?
		ORDER BY seq`,
		hex.EncodeToString(key))
	if err != nil {
		return nil, errors.Wrapf(errors.ErrDatabase, "query events: %s", err)
	}
	defer rows.Close()

	var events []swap.Event
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, errors.Wrapf(errors.ErrDatabase, "scan event: %s", err)
		}
		var e swap.Event
		if err := json.Unmarshal([]byte(payload), &e); err != nil {
			return nil, errors.Wrapf(errors.ErrInvalidState, "decode event: %s", err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrapf(errors.ErrDatabase, "read events: %s", err)
	}
	return events, nil
}

// Count returns the number of stored events of given kind. An empty kind
// counts all events.
func (s *SQLite) Count(ctx context.Context, kind swap.EventKind) (int, error) {
	var n int
	var err error
	if kind == "" {
		err = s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM events`).Scan(&n)
	} else {
		err = s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM events WHERE kind = ?`, string(kind)).Scan(&n)
	}
	if err != nil {
		return 0, errors.Wrapf(errors.ErrDatabase, "count events: %s", err)
	}
	return n, nil
}
