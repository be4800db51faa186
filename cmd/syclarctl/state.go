package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/2beens/syclar/internal/db"
	"github.com/2beens/syclar/internal/ledger"
	"github.com/2beens/syclar/internal/store"
	"github.com/2beens/syclar/internal/telemetry/metrics"
	"github.com/2beens/syclar/internal/tracker"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

type stateStore interface {
	Load(ctx context.Context, userID string) (*ledger.State, error)
	Save(ctx context.Context, userID string, state *ledger.State) error
}

// stateOptions pick the store a state command works on: a local sqlite
// snapshot when --sqlite is set, the configured postgres db otherwise.
type stateOptions struct {
	root       *rootOptions
	sqlitePath string
	timezone   string
}

func (o *stateOptions) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.sqlitePath, "sqlite", "", "work on a local sqlite snapshot instead of postgres")
	cmd.Flags().StringVar(&o.timezone, "tz", "", "timezone used for \"today\" (default: config timezone or local)")
}

func (o *stateOptions) openService(ctx context.Context) (*tracker.Service, func(), error) {
	var (
		states  stateStore
		closeFn func()
		loc     = time.Local
	)

	if o.sqlitePath != "" {
		sqlite, err := store.OpenSQLiteStore(o.sqlitePath)
		if err != nil {
			return nil, nil, err
		}
		states = sqlite
		closeFn = func() { _ = sqlite.Close() }
	} else {
		cfg, err := o.root.loadConfig()
		if err != nil {
			return nil, nil, err
		}
		if loc, err = cfg.Location(); err != nil {
			return nil, nil, err
		}
		pool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
			DBHost:     cfg.PostgresHost,
			DBPort:     cfg.PostgresPort,
			DBName:     cfg.PostgresDBName,
			DBUser:     cfg.PostgresUser,
			DBPassword: dbPasswordFromEnv(),
		})
		if err != nil {
			return nil, nil, err
		}
		states = store.NewPostgresStore(pool)
		closeFn = pool.Close
	}

	if o.timezone != "" {
		tz, err := time.LoadLocation(o.timezone)
		if err != nil {
			closeFn()
			return nil, nil, fmt.Errorf("invalid timezone [%s]: %w", o.timezone, err)
		}
		loc = tz
	}

	service := tracker.NewService(
		ledger.NewEngine(ledger.NewClock(loc)),
		states,
		ledger.DefaultCatalog(),
		tracker.NoopPublisher{},
		nil,
		metrics.NewManager("syclarctl", "state", prometheus.NewRegistry()),
	)
	return service, closeFn, nil
}

type stateSummary struct {
	UserID          string `json:"userId"`
	Today           string `json:"today"`
	Streak          int    `json:"streak"`
	DayCompleted    bool   `json:"dayCompleted"`
	ActiveDays      int    `json:"activeDays"`
	TotalApproaches int    `json:"totalApproaches"`
	TotalPassedBy   int    `json:"totalPassedBy"`
	Unlocked        int    `json:"unlockedAchievements"`
}

func summarize(userID, today string, s ledger.State) stateSummary {
	unlocked := 0
	for _, a := range s.Achievements {
		if a.Unlocked {
			unlocked++
		}
	}
	return stateSummary{
		UserID:          userID,
		Today:           today,
		Streak:          s.Streak,
		DayCompleted:    ledger.IsDayCompleted(s, today),
		ActiveDays:      len(s.ApproachDates),
		TotalApproaches: s.Stats.TotalApproaches,
		TotalPassedBy:   s.Stats.TotalPassedBy,
		Unlocked:        unlocked,
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newShowCmd(root *rootOptions) *cobra.Command {
	opts := &stateOptions{root: root}
	var full bool

	cmd := &cobra.Command{
		Use:   "show USER_ID",
		Short: "Print a user's activity state",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			service, closeFn, err := opts.openService(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			state, err := service.State(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if full {
				return writeJSON(cmd.OutOrStdout(), state)
			}
			return writeJSON(cmd.OutOrStdout(), summarize(args[0], service.Today(), state))
		},
	}
	opts.bind(cmd)
	cmd.Flags().BoolVar(&full, "full", false, "print the whole state document")
	return cmd
}

func newSimulateCmd(root *rootOptions) *cobra.Command {
	opts := &stateOptions{root: root}
	var days int

	cmd := &cobra.Command{
		Use:   "simulate USER_ID",
		Short: "Backfill random activity for the last N days",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			service, closeFn, err := opts.openService(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			state, err := service.SimulateHistory(cmd.Context(), args[0], days)
			if err != nil {
				return err
			}
			if err := service.Flush(cmd.Context()); err != nil {
				return fmt.Errorf("save state: %w", err)
			}
			return writeJSON(cmd.OutOrStdout(), summarize(args[0], service.Today(), state))
		},
	}
	opts.bind(cmd)
	cmd.Flags().IntVar(&days, "days", 30, "number of days to simulate, today included")
	return cmd
}

func newResetCmd(root *rootOptions) *cobra.Command {
	opts := &stateOptions{root: root}

	cmd := &cobra.Command{
		Use:   "reset USER_ID",
		Short: "Wipe a user's recorded activity and achievement progress",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			service, closeFn, err := opts.openService(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			state, err := service.ResetAll(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if err := service.Flush(cmd.Context()); err != nil {
				return fmt.Errorf("save state: %w", err)
			}
			return writeJSON(cmd.OutOrStdout(), summarize(args[0], service.Today(), state))
		},
	}
	opts.bind(cmd)
	return cmd
}

func newMigrateCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the postgres schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := root.loadConfig()
			if err != nil {
				return err
			}
			pool, err := db.NewDBPool(cmd.Context(), db.NewDBPoolParams{
				DBHost:     cfg.PostgresHost,
				DBPort:     cfg.PostgresPort,
				DBName:     cfg.PostgresDBName,
				DBUser:     cfg.PostgresUser,
				DBPassword: dbPasswordFromEnv(),
			})
			if err != nil {
				return err
			}
			defer pool.Close()

			if err := db.Migrate(cmd.Context(), pool); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "applied %d migration statements\n", len(db.Schema))
			return nil
		},
	}
}
