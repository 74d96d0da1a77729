package stats

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// PostgresStore persists counters in Postgres via the parser_users and
// parser_counters tables created by the migrations.
type PostgresStore struct {
	db *sqlx.DB
}

// NewPostgresStore wraps an already-connected database handle.
func NewPostgresStore(db *sqlx.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (p *PostgresStore) RecordUserSeen(ctx context.Context, userID int64) error {
	const q = `
		INSERT INTO parser_users (user_id, first_seen, last_active)
		VALUES ($1, now(), CURRENT_DATE)
		ON CONFLICT (user_id)
		DO UPDATE SET last_active = CURRENT_DATE`
	if _, err := p.db.ExecContext(ctx, q, userID); err != nil {
		return fmt.Errorf("stats: record user: %w", err)
	}
	return nil
}

func (p *PostgresStore) IncrementDownloads(ctx context.Context) error {
	const q = `
		INSERT INTO parser_counters (name, value)
		VALUES ('downloads', 1)
		ON CONFLICT (name)
		DO UPDATE SET value = parser_counters.value + 1`
	if _, err := p.db.ExecContext(ctx, q); err != nil {
		return fmt.Errorf("stats: increment downloads: %w", err)
	}
	return nil
}

func (p *PostgresStore) Snapshot(ctx context.Context) (Snapshot, error) {
	var snap Snapshot

	const q = `
		SELECT
			(SELECT count(*) FROM parser_users) AS total_users,
			(SELECT count(*) FROM parser_users WHERE last_active = CURRENT_DATE) AS active_today,
			(SELECT coalesce(max(value), 0) FROM parser_counters WHERE name = 'downloads') AS total_downloads`
	row := p.db.QueryRowxContext(ctx, q)
	if err := row.Scan(&snap.TotalUsers, &snap.ActiveToday, &snap.TotalDownloads); err != nil {
		return Snapshot{}, fmt.Errorf("stats: snapshot: %w", err)
	}
	return snap, nil
}

func (p *PostgresStore) Close() error {
	return p.db.Close()
}
