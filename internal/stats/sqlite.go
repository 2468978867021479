// internal/stats/sqlite.go
//
// SQLite-backed statistics.
// Responsibilities:
//   - Store each record as key/value rows in player_stats.
//   - Record runs read-apply-write in one transaction; the connection opens
//     transactions IMMEDIATE, so concurrent finishes queue instead of failing.

package stats

import (
	"context"
	"database/sql"
	"fmt"
)

// SQLiteStore keeps records in the player_stats key-value table.
type SQLiteStore struct{ db *sql.DB }

// NewSQLiteStore wraps a migrated database handle.
func NewSQLiteStore(db *sql.DB) *SQLiteStore { return &SQLiteStore{db: db} }

type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func loadPrefs(ctx context.Context, q querier, playerID string) (map[string]int64, error) {
	rows, err := q.QueryContext(ctx, `SELECT key, value FROM player_stats WHERE player_id=?`, playerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	p := make(map[string]int64)
	for rows.Next() {
		var k string
		var v int64
		if err := rows.Scan(&k, &v); err != nil {
			return nil, err
		}
		p[k] = v
	}
	return p, rows.Err()
}

// Load returns the record for playerID.
func (s *SQLiteStore) Load(ctx context.Context, playerID string) (Stats, error) {
	p, err := loadPrefs(ctx, s.db, playerID)
	if err != nil {
		return Stats{}, fmt.Errorf("stats: load %s: %w", playerID, err)
	}
	return fromPrefs(p), nil
}

// Record reads, applies and writes the record inside one transaction.
func (s *SQLiteStore) Record(ctx context.Context, playerID string, r Result) (Stats, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Stats{}, fmt.Errorf("stats: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	p, err := loadPrefs(ctx, tx, playerID)
	if err != nil {
		return Stats{}, fmt.Errorf("stats: load %s: %w", playerID, err)
	}
	next := fromPrefs(p).Apply(r)

	for k, v := range next.toPrefs() {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO player_stats(player_id, key, value) VALUES (?,?,?)
			 ON CONFLICT(player_id, key) DO UPDATE SET value=excluded.value`,
			playerID, k, v,
		); err != nil {
			return Stats{}, fmt.Errorf("stats: write %s: %w", k, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return Stats{}, fmt.Errorf("stats: commit: %w", err)
	}
	return next, nil
}
