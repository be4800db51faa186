package account

import (
	"context"
	"errors"
	"time"

	"github.com/2beens/syclar/internal/telemetry/tracing"
	"github.com/2beens/syclar/pkg"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

var (
	ErrProfileNotFound = errors.New("profile not found")
	ErrEmailTaken      = errors.New("email already registered")
)

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

const profileColumns = `id, email, password_hash, stripe_customer_id, subscription_status,
	subscription_id, trial_ends_at, current_period_end, cancel_at_period_end, created_at`

func scanProfile(row pgx.Row) (*Profile, error) {
	var (
		p      Profile
		status string
	)
	err := row.Scan(
		&p.ID, &p.Email, &p.PasswordHash, &p.StripeCustomerID, &status,
		&p.SubscriptionID, &p.TrialEndsAt, &p.CurrentPeriodEnd, &p.CancelAtPeriodEnd, &p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	p.SubscriptionStatus = SubscriptionStatus(status)
	return &p, nil
}

func (r *Repo) Add(ctx context.Context, p *Profile) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.account.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	_, err = r.db.Exec(
		ctx,
		`INSERT INTO profiles (`+profileColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);`,
		p.ID, p.Email, p.PasswordHash, p.StripeCustomerID, string(p.SubscriptionStatus),
		p.SubscriptionID, p.TrialEndsAt, p.CurrentPeriodEnd, p.CancelAtPeriodEnd, p.CreatedAt,
	)
	if pkg.IsUniqueViolationError(err) {
		return ErrEmailTaken
	}
	return err
}

func (r *Repo) Get(ctx context.Context, id string) (_ *Profile, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.account.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user.id", id))

	return scanProfile(r.db.QueryRow(
		ctx,
		`SELECT `+profileColumns+` FROM profiles WHERE id = $1;`,
		id,
	))
}

func (r *Repo) GetByEmail(ctx context.Context, email string) (_ *Profile, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.account.getByEmail")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	return scanProfile(r.db.QueryRow(
		ctx,
		`SELECT `+profileColumns+` FROM profiles WHERE email = $1;`,
		email,
	))
}

// UpdateSubscription stores the billing side of a profile.
func (r *Repo) UpdateSubscription(
	ctx context.Context,
	id string,
	status SubscriptionStatus,
	subscriptionID string,
	currentPeriodEnd *time.Time,
	cancelAtPeriodEnd bool,
) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.account.updateSubscription")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("subscription.status", string(status)))

	tag, err := r.db.Exec(
		ctx,
		`UPDATE profiles
			SET subscription_status = $2, subscription_id = $3, current_period_end = $4, cancel_at_period_end = $5
			WHERE id = $1;`,
		id, string(status), subscriptionID, currentPeriodEnd, cancelAtPeriodEnd,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrProfileNotFound
	}
	return nil
}
