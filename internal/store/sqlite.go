package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/2beens/syclar/internal/ledger"
	"github.com/2beens/syclar/internal/telemetry/tracing"
	"github.com/2beens/syclar/pkg"

	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS user_data (
    user_id    TEXT NOT NULL,
    state_key  TEXT NOT NULL,
    data       TEXT NOT NULL,
    updated_at TEXT NOT NULL,
    PRIMARY KEY (user_id, state_key)
);`

// SQLiteStore is the device-local snapshot of user states.
type SQLiteStore struct {
	db  *sql.DB
	key string
	now func() time.Time
}

// OpenSQLiteStore opens (or creates) the snapshot database at path.
// ":memory:" keeps it in memory.
func OpenSQLiteStore(path string) (*SQLiteStore, error) {
	if path != ":memory:" {
		if err := pkg.EnsureDir(filepath.Dir(path)); err != nil {
			return nil, fmt.Errorf("create sqlite dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// a single connection keeps :memory: databases alive and serializes writers
	db.SetMaxOpenConns(1)

	if path != ":memory:" {
		if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("set WAL mode: %w", err)
		}
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &SQLiteStore{
		db:  db,
		key: StateKey,
		now: time.Now,
	}, nil
}

func (s *SQLiteStore) Load(ctx context.Context, userID string) (_ *ledger.State, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "store.sqlite.load")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	var data string
	err = s.db.QueryRowContext(
		ctx,
		`SELECT data FROM user_data WHERE user_id = ? AND state_key = ?`,
		userID, s.key,
	).Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrStateNotFound
		}
		return nil, err
	}

	return decodeState([]byte(data))
}

func (s *SQLiteStore) Save(ctx context.Context, userID string, state *ledger.State) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "store.sqlite.save")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	data, err := encodeState(state)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(
		ctx,
		`INSERT INTO user_data (user_id, state_key, data, updated_at)
			VALUES (?, ?, ?, ?)
			ON CONFLICT (user_id, state_key)
			DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		userID, s.key, string(data), s.now().UTC().Format(time.RFC3339),
	)
	return err
}

// Delete removes the local snapshot of a user.
func (s *SQLiteStore) Delete(ctx context.Context, userID string) error {
	_, err := s.db.ExecContext(
		ctx,
		`DELETE FROM user_data WHERE user_id = ? AND state_key = ?`,
		userID, s.key,
	)
	return err
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
