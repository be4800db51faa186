package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/2beens/syclar/internal/ledger"

	log "github.com/sirupsen/logrus"
	"go.uber.org/multierr"
)

//go:generate mockgen -source=$GOFILE -destination=entitlement_mocks_test.go -package=store_test

type Entitlement interface {
	HasActiveSubscription(ctx context.Context, userID string) (bool, error)
}

// SyncedStore always keeps a local snapshot and mirrors it to the cloud store
// for users with an active subscription.
type SyncedStore struct {
	local       Store
	cloud       Store
	entitlement Entitlement
}

func NewSyncedStore(local, cloud Store, entitlement Entitlement) *SyncedStore {
	return &SyncedStore{
		local:       local,
		cloud:       cloud,
		entitlement: entitlement,
	}
}

func (s *SyncedStore) Save(ctx context.Context, userID string, state *ledger.State) error {
	var errs error
	if err := s.local.Save(ctx, userID, state); err != nil {
		errs = multierr.Append(errs, fmt.Errorf("local save: %w", err))
	}

	subscribed, err := s.entitlement.HasActiveSubscription(ctx, userID)
	if err != nil {
		return multierr.Append(errs, fmt.Errorf("check subscription: %w", err))
	}
	if !subscribed {
		return errs
	}

	if err := s.cloud.Save(ctx, userID, state); err != nil {
		errs = multierr.Append(errs, fmt.Errorf("cloud save: %w", err))
	}
	return errs
}

// Load prefers the cloud copy for subscribed users. A local snapshot found
// for a subscribed user without a cloud copy is migrated to the cloud.
func (s *SyncedStore) Load(ctx context.Context, userID string) (*ledger.State, error) {
	subscribed, err := s.entitlement.HasActiveSubscription(ctx, userID)
	if err != nil {
		log.Warnf("synced store, check subscription [%s]: %s", userID, err)
		subscribed = false
	}

	cloudMiss := false
	if subscribed {
		state, err := s.cloud.Load(ctx, userID)
		switch {
		case err == nil:
			return state, nil
		case errors.Is(err, ErrStateNotFound):
			cloudMiss = true
		default:
			log.Errorf("synced store, cloud load [%s], falling back to local: %s", userID, err)
		}
	}

	state, err := s.local.Load(ctx, userID)
	if err != nil {
		return nil, err
	}

	if cloudMiss {
		if err := s.cloud.Save(ctx, userID, state); err != nil {
			log.Errorf("synced store, migrate local state to cloud [%s]: %s", userID, err)
		} else {
			log.Infof("synced store, local state migrated to cloud for [%s]", userID)
		}
	}

	return state, nil
}
