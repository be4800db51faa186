package account

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/2beens/syclar/pkg"

	"github.com/google/uuid"
)

const MinPasswordLength = 6

var (
	ErrInvalidEmail    = errors.New("invalid email")
	ErrPasswordTooWeak = errors.New("password too short")
	ErrWrongPassword   = errors.New("wrong password")
)

//go:generate mockgen -source=$GOFILE -destination=service_mocks_test.go -package=account_test

type profilesRepo interface {
	Add(ctx context.Context, p *Profile) error
	Get(ctx context.Context, id string) (*Profile, error)
	GetByEmail(ctx context.Context, email string) (*Profile, error)
	UpdateSubscription(ctx context.Context, id string, status SubscriptionStatus, subscriptionID string, currentPeriodEnd *time.Time, cancelAtPeriodEnd bool) error
}

type Service struct {
	repo profilesRepo
	now  func() time.Time
}

func NewService(repo profilesRepo) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

func normalizeEmail(email string) (string, error) {
	addr, err := mail.ParseAddress(strings.TrimSpace(email))
	if err != nil {
		return "", ErrInvalidEmail
	}
	return strings.ToLower(addr.Address), nil
}

// Signup creates a trialing profile.
func (s *Service) Signup(ctx context.Context, email, password string) (*Profile, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return nil, err
	}
	if len(password) < MinPasswordLength {
		return nil, ErrPasswordTooWeak
	}

	hash, err := pkg.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := s.now().UTC()
	trialEndsAt := now.Add(TrialLength)
	p := &Profile{
		ID:                 uuid.NewString(),
		Email:              email,
		PasswordHash:       hash,
		SubscriptionStatus: StatusTrialing,
		TrialEndsAt:        &trialEndsAt,
		CreatedAt:          now,
	}
	if err := s.repo.Add(ctx, p); err != nil {
		return nil, fmt.Errorf("add profile: %w", err)
	}

	return p, nil
}

func (s *Service) Authenticate(ctx context.Context, email, password string) (*Profile, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return nil, err
	}

	p, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if !pkg.CheckPasswordHash(password, p.PasswordHash) {
		return nil, ErrWrongPassword
	}
	return p, nil
}

func (s *Service) Profile(ctx context.Context, userID string) (*Profile, error) {
	return s.repo.Get(ctx, userID)
}

// Subscription returns the derived subscription info at the current time.
func (s *Service) Subscription(ctx context.Context, userID string) (*Profile, SubscriptionInfo, error) {
	p, err := s.repo.Get(ctx, userID)
	if err != nil {
		return nil, SubscriptionInfo{}, err
	}
	return p, p.Subscription(s.now()), nil
}

func (s *Service) UpdateSubscription(
	ctx context.Context,
	userID string,
	status SubscriptionStatus,
	subscriptionID string,
	currentPeriodEnd *time.Time,
	cancelAtPeriodEnd bool,
) error {
	if !status.Valid() {
		return fmt.Errorf("invalid subscription status: %s", status)
	}
	return s.repo.UpdateSubscription(ctx, userID, status, subscriptionID, currentPeriodEnd, cancelAtPeriodEnd)
}
