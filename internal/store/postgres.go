package store

import (
	"context"
	"errors"
	"time"

	"github.com/2beens/syclar/internal/ledger"
	"github.com/2beens/syclar/internal/telemetry/tracing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

// PostgresStore keeps one JSONB document per user in user_data.
type PostgresStore struct {
	db  *pgxpool.Pool
	key string
	now func() time.Time
}

func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{
		db:  db,
		key: StateKey,
		now: time.Now,
	}
}

func (s *PostgresStore) Load(ctx context.Context, userID string) (_ *ledger.State, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "store.postgres.load")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user.id", userID))

	var data []byte
	err = s.db.QueryRow(
		ctx,
		`SELECT data FROM user_data WHERE user_id = $1 AND state_key = $2;`,
		userID, s.key,
	).Scan(&data)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrStateNotFound
		}
		return nil, err
	}

	return decodeState(data)
}

func (s *PostgresStore) Save(ctx context.Context, userID string, state *ledger.State) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "store.postgres.save")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user.id", userID))

	data, err := encodeState(state)
	if err != nil {
		return err
	}

	_, err = s.db.Exec(
		ctx,
		`INSERT INTO user_data (user_id, state_key, data, updated_at)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (user_id, state_key)
			DO UPDATE SET data = EXCLUDED.data, updated_at = EXCLUDED.updated_at;`,
		userID, s.key, data, s.now().UTC(),
	)
	return err
}
