package memory

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS events (
	id       TEXT PRIMARY KEY,
	ts       INTEGER NOT NULL,
	input    TEXT NOT NULL,
	intent   TEXT NOT NULL,
	entities TEXT NOT NULL,
	success  INTEGER NOT NULL,
	message  TEXT NOT NULL,
	data     TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS events_ts ON events (ts DESC);
CREATE INDEX IF NOT EXISTS events_intent ON events (intent, ts DESC);
`

// SQLiteStore is a [Store] backed by a local SQLite file.
type SQLiteStore struct {
	db *sql.DB
}

var _ Store = (*SQLiteStore)(nil)

// DefaultPath returns the standard event log location:
// $XDG_DATA_HOME/clarion/memory.db, falling back to ~/.local/share.
func DefaultPath() (string, error) {
	base := os.Getenv("XDG_DATA_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("memory: resolve home dir: %w", err)
		}
		base = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(base, "clarion", "memory.db"), nil
}

// OpenSQLite opens (creating if necessary) the event log at path and applies
// the schema.
func OpenSQLite(path string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("memory: create data dir: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("memory: open %s: %w", path, err)
	}
	// SQLite allows one writer; funnel everything through a single conn.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("memory: apply schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Append records ev, assigning ID and Time when unset.
func (s *SQLiteStore) Append(ctx context.Context, ev *Event) error {
	if ev.ID == "" {
		ev.ID = uuid.NewString()
	}
	if ev.Time.IsZero() {
		ev.Time = time.Now()
	}
	entities, err := json.Marshal(orEmpty(ev.Entities))
	if err != nil {
		return fmt.Errorf("memory: encode entities: %w", err)
	}
	data, err := json.Marshal(orEmpty(ev.Data))
	if err != nil {
		return fmt.Errorf("memory: encode data: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO events (id, ts, input, intent, entities, success, message, data)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		ev.ID, ev.Time.UnixNano(), ev.Input, ev.Intent, string(entities),
		boolToInt(ev.Success), ev.Message, string(data))
	if err != nil {
		return fmt.Errorf("memory: append event: %w", err)
	}
	return nil
}

// Recent returns events newest first.
func (s *SQLiteStore) Recent(ctx context.Context, opts ...QueryOpt) ([]Event, error) {
	p := ApplyQueryOpts(opts)

	query := `SELECT id, ts, input, intent, entities, success, message, data FROM events`
	var args []any
	where := ""
	if p.Intent != "" {
		where = ` WHERE intent = ?`
		args = append(args, p.Intent)
	}
	if !p.After.IsZero() {
		if where == "" {
			where = ` WHERE ts > ?`
		} else {
			where += ` AND ts > ?`
		}
		args = append(args, p.After.UnixNano())
	}
	query += where + ` ORDER BY ts DESC LIMIT ?`
	args = append(args, p.Limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("memory: query events: %w", err)
	}
	defer rows.Close()

	var out []Event
	for rows.Next() {
		var ev Event
		var ts int64
		var entities, data string
		var success int
		if err := rows.Scan(&ev.ID, &ts, &ev.Input, &ev.Intent, &entities, &success, &ev.Message, &data); err != nil {
			return nil, fmt.Errorf("memory: scan event: %w", err)
		}
		ev.Time = time.Unix(0, ts)
		ev.Success = success != 0
		if err := json.Unmarshal([]byte(entities), &ev.Entities); err != nil {
			return nil, fmt.Errorf("memory: decode entities: %w", err)
		}
		if err := json.Unmarshal([]byte(data), &ev.Data); err != nil {
			return nil, fmt.Errorf("memory: decode data: %w", err)
		}
		out = append(out, ev)
	}
	return out, rows.Err()
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func orEmpty(m map[string]any) map[string]any {
	if m == nil {
		return map[string]any{}
	}
	return m
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
