package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/2beens/syclar/internal/ledger"
)

// StateKey is the versioned key activity states are stored under.
const StateKey = "syclar_user_state_v12"

var (
	ErrStateNotFound = errors.New("state not found")
	ErrCorruptState  = errors.New("corrupt state")
)

//go:generate mockgen -source=$GOFILE -destination=store_mocks_test.go -package=store_test

type Store interface {
	Load(ctx context.Context, userID string) (*ledger.State, error)
	Save(ctx context.Context, userID string, state *ledger.State) error
}

func decodeState(data []byte) (*ledger.State, error) {
	var state ledger.State
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrCorruptState, err)
	}
	state.Normalize()
	return &state, nil
}

func encodeState(state *ledger.State) ([]byte, error) {
	if state == nil {
		return nil, errors.New("nil state")
	}
	data, err := json.Marshal(state)
	if err != nil {
		return nil, fmt.Errorf("encode state: %w", err)
	}
	return data, nil
}
