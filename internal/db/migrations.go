package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

// Schema holds the statements Migrate runs, in order. All of them are idempotent.
var Schema = []string{
	`CREATE TABLE IF NOT EXISTS profiles (
		id UUID PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		stripe_customer_id TEXT NOT NULL DEFAULT '',
		subscription_status TEXT NOT NULL DEFAULT 'none',
		subscription_id TEXT NOT NULL DEFAULT '',
		trial_ends_at TIMESTAMPTZ,
		current_period_end TIMESTAMPTZ,
		cancel_at_period_end BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE TABLE IF NOT EXISTS user_data (
		user_id TEXT NOT NULL,
		state_key TEXT NOT NULL,
		data JSONB NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		PRIMARY KEY (user_id, state_key)
	);`,
	`CREATE INDEX IF NOT EXISTS user_data_updated_at_idx ON user_data (updated_at);`,
}

func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	for i, stmt := range Schema {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	log.Debugf("db migrated, %d statements applied", len(Schema))
	return nil
}
