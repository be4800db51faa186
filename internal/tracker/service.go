package tracker

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"strconv"
	"sync"
	"time"

	"github.com/2beens/syclar/internal/ledger"
	"github.com/2beens/syclar/internal/store"
	"github.com/2beens/syclar/internal/telemetry/metrics"
	"github.com/2beens/syclar/internal/telemetry/tracing"
	"github.com/2beens/syclar/internal/verification"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/multierr"
)

//go:generate mockgen -source=$GOFILE -destination=service_mocks_test.go -package=tracker_test

const MaxSimulatedDays = 3650

var (
	ErrInvalidDate     = errors.New("invalid date")
	ErrFutureDate      = errors.New("date is in the future")
	ErrInvalidDays     = errors.New("days must be between 1 and 3650")
	ErrInvalidLocation = errors.New("invalid location")
	ErrInvalidYear     = errors.New("invalid year")
)

type stateStore interface {
	Load(ctx context.Context, userID string) (*ledger.State, error)
	Save(ctx context.Context, userID string, state *ledger.State) error
}

type approachVerifier interface {
	Verify(ctx context.Context, image []byte, mimeType string) (verification.Result, error)
}

// Service owns every per-user activity state mutation. Mutations for one user
// are serialized; different users never block each other.
type Service struct {
	engine         *ledger.Engine
	store          stateStore
	catalog        ledger.Catalog
	publisher      Publisher
	verifier       approachVerifier
	metricsManager *metrics.Manager

	locks *userLocks

	dirtyMutex sync.Mutex
	dirty      map[string]ledger.State

	NewRand func() *rand.Rand
}

func NewService(
	engine *ledger.Engine,
	states stateStore,
	catalog ledger.Catalog,
	publisher Publisher,
	verifier approachVerifier,
	metricsManager *metrics.Manager,
) *Service {
	if publisher == nil {
		publisher = NoopPublisher{}
	}
	return &Service{
		engine:         engine,
		store:          states,
		catalog:        catalog,
		publisher:      publisher,
		verifier:       verifier,
		metricsManager: metricsManager,
		locks:          newUserLocks(),
		dirty:          map[string]ledger.State{},
		NewRand: func() *rand.Rand {
			return rand.New(rand.NewSource(time.Now().UnixNano()))
		},
	}
}

func (s *Service) Today() string {
	return s.engine.Today()
}

func (s *Service) Catalog() []ledger.Achievement {
	return s.catalog.Definitions()
}

func (s *Service) State(ctx context.Context, userID string) (_ ledger.State, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "tracker.state")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user.id", userID))

	unlock := s.locks.lock(userID)
	defer unlock()

	return s.load(ctx, userID)
}

// load must be called with the user lock held.
func (s *Service) load(ctx context.Context, userID string) (ledger.State, error) {
	s.dirtyMutex.Lock()
	pending, isDirty := s.dirty[userID]
	s.dirtyMutex.Unlock()
	if isDirty {
		return s.engine.Refresh(pending), nil
	}

	loaded, err := s.store.Load(ctx, userID)
	switch {
	case err == nil:
	case errors.Is(err, store.ErrStateNotFound):
		loaded = nil
	case errors.Is(err, store.ErrCorruptState):
		log.Warnf("tracker: user %s has a corrupt state, starting from the template: %s", userID, err)
		loaded = nil
	default:
		return ledger.State{}, fmt.Errorf("load state: %w", err)
	}

	if loaded == nil {
		return ledger.DefaultState(s.catalog), nil
	}
	synced := ledger.SyncCatalog(*loaded, s.catalog, s.engine.Today())
	return s.engine.Refresh(synced), nil
}

// mutate runs one load -> change -> save cycle under the user lock. The save
// is best-effort: a failure leaves the state dirty for the flush loop.
func (s *Service) mutate(
	ctx context.Context,
	userID string,
	kind EventKind,
	change func(ledger.State) ledger.State,
) (_ ledger.State, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "tracker."+string(kind))
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user.id", userID))

	unlock := s.locks.lock(userID)
	defer unlock()

	current, err := s.load(ctx, userID)
	if err != nil {
		return ledger.State{}, err
	}

	next := change(current)
	s.persist(ctx, userID, next)
	s.publish(userID, kind, next)

	return next, nil
}

func (s *Service) persist(ctx context.Context, userID string, state ledger.State) {
	toSave := state
	if err := s.store.Save(ctx, userID, &toSave); err != nil {
		log.Errorf("tracker: save state for user %s: %s", userID, err)
		s.metricsManager.CounterStateSaveFailures.Inc()
		s.markDirty(userID, state)
		return
	}
	s.clearDirty(userID)
}

func (s *Service) publish(userID string, kind EventKind, state ledger.State) {
	event := Event{
		UserID:     userID,
		Kind:       kind,
		Date:       s.engine.Today(),
		Streak:     state.Streak,
		OccurredAt: s.engine.Clock().LocalNow(),
	}
	if err := s.publisher.Publish(event); err != nil {
		log.Warnf("tracker: publish %s event: %s", kind, err)
	}
}

func (s *Service) markDirty(userID string, state ledger.State) {
	s.dirtyMutex.Lock()
	defer s.dirtyMutex.Unlock()
	s.dirty[userID] = state
	s.metricsManager.GaugeDirtyStates.Set(float64(len(s.dirty)))
}

func (s *Service) clearDirty(userID string) {
	s.dirtyMutex.Lock()
	defer s.dirtyMutex.Unlock()
	delete(s.dirty, userID)
	s.metricsManager.GaugeDirtyStates.Set(float64(len(s.dirty)))
}

func (s *Service) DirtyCount() int {
	s.dirtyMutex.Lock()
	defer s.dirtyMutex.Unlock()
	return len(s.dirty)
}

func (s *Service) LogApproach(ctx context.Context, userID string, isRejection bool, onDate string) (ledger.State, error) {
	if onDate != "" {
		if !ledger.ValidDate(onDate) {
			return ledger.State{}, ErrInvalidDate
		}
		if onDate > s.engine.Today() {
			return ledger.State{}, ErrFutureDate
		}
	}

	next, err := s.mutate(ctx, userID, EventApproachLogged, func(st ledger.State) ledger.State {
		return s.engine.LogApproach(st, isRejection, onDate)
	})
	if err != nil {
		return next, err
	}

	kind := "success"
	if isRejection {
		kind = "rejection"
	}
	s.metricsManager.CounterApproaches.WithLabelValues(kind).Inc()
	return next, nil
}

func (s *Service) AdjustPassedBy(ctx context.Context, userID string, delta int) (ledger.State, error) {
	next, err := s.mutate(ctx, userID, EventPassedByAdjusted, func(st ledger.State) ledger.State {
		return s.engine.AdjustPassedBy(st, delta)
	})
	if err != nil {
		return next, err
	}
	if delta > 0 {
		s.metricsManager.CounterPassedBy.Add(float64(delta))
	}
	return next, nil
}

func (s *Service) SetExemption(ctx context.Context, userID string, active bool) (ledger.State, error) {
	next, err := s.mutate(ctx, userID, EventExemptionSet, func(st ledger.State) ledger.State {
		return s.engine.SetExemption(st, active)
	})
	if err != nil {
		return next, err
	}
	s.metricsManager.CounterExemptions.WithLabelValues(strconv.FormatBool(active)).Inc()
	return next, nil
}

func (s *Service) AdvanceThreshold(ctx context.Context, userID string) (ledger.State, error) {
	return s.mutate(ctx, userID, EventThresholdAdvance, func(st ledger.State) ledger.State {
		return s.engine.AdvanceThreshold(st)
	})
}

// SetHomeLocation stores the home anchor; nil clears it.
func (s *Service) SetHomeLocation(ctx context.Context, userID string, home *ledger.GeoPoint) (ledger.State, error) {
	if home != nil && !validGeoPoint(*home) {
		return ledger.State{}, ErrInvalidLocation
	}
	return s.mutate(ctx, userID, EventHomeLocationSet, func(st ledger.State) ledger.State {
		return s.engine.SetHomeLocation(st, home)
	})
}

func validGeoPoint(p ledger.GeoPoint) bool {
	if math.IsNaN(p.Lat) || math.IsNaN(p.Lng) {
		return false
	}
	return p.Lat >= -90 && p.Lat <= 90 && p.Lng >= -180 && p.Lng <= 180
}

func (s *Service) SimulateHistory(ctx context.Context, userID string, days int) (ledger.State, error) {
	if days < 1 || days > MaxSimulatedDays {
		return ledger.State{}, ErrInvalidDays
	}
	return s.mutate(ctx, userID, EventHistorySimulated, func(st ledger.State) ledger.State {
		return s.engine.SimulateHistory(st, days, s.NewRand())
	})
}

func (s *Service) ResetAll(ctx context.Context, userID string) (ledger.State, error) {
	return s.mutate(ctx, userID, EventStateReset, func(st ledger.State) ledger.State {
		return s.engine.ResetAll(st)
	})
}

// VerifyApproach checks a screenshot and logs an approach for today when it
// is accepted. The returned state is nil when nothing was logged.
func (s *Service) VerifyApproach(
	ctx context.Context,
	userID string,
	image []byte,
	mimeType string,
) (verification.Result, *ledger.State, error) {
	result := s.verify(ctx, image, mimeType)
	if !result.Verified {
		return result, nil, nil
	}

	next, err := s.LogApproach(ctx, userID, false, "")
	if err != nil {
		return result, nil, err
	}
	return result, &next, nil
}

func (s *Service) verify(ctx context.Context, image []byte, mimeType string) verification.Result {
	if s.verifier == nil {
		s.metricsManager.CounterVerifications.WithLabelValues("error").Inc()
		return verification.FailedResult()
	}

	start := time.Now()
	result, err := s.verifier.Verify(ctx, image, mimeType)
	s.metricsManager.HistVerifyDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		log.Errorf("tracker: verify screenshot: %s", err)
		s.metricsManager.CounterVerifications.WithLabelValues("error").Inc()
		return verification.FailedResult()
	}

	if result.Verified {
		s.metricsManager.CounterVerifications.WithLabelValues("verified").Inc()
	} else {
		s.metricsManager.CounterVerifications.WithLabelValues("rejected").Inc()
	}
	return result
}

type RangeHeatmap struct {
	Cells []ledger.HeatmapCell `json:"cells"`
	Label string               `json:"label"`
}

func (s *Service) RecentHeatmap(ctx context.Context, userID string, days int) (RangeHeatmap, error) {
	st, err := s.State(ctx, userID)
	if err != nil {
		return RangeHeatmap{}, err
	}
	cells := ledger.LastDays(st, s.engine.Today(), days)
	return RangeHeatmap{
		Cells: cells,
		Label: ledger.MonthRangeLabel(cells),
	}, nil
}

func (s *Service) HeatmapYears(ctx context.Context, userID string) ([]int, error) {
	st, err := s.State(ctx, userID)
	if err != nil {
		return nil, err
	}
	return ledger.YearsAvailable(st, s.engine.Today()), nil
}

func (s *Service) HeatmapYear(ctx context.Context, userID string, year int) (ledger.YearGrid, error) {
	if year < 1970 || year > 9999 {
		return ledger.YearGrid{}, ErrInvalidYear
	}
	st, err := s.State(ctx, userID)
	if err != nil {
		return ledger.YearGrid{}, err
	}
	return ledger.BuildYearGrid(st, year, s.engine.Today()), nil
}

// Flush retries saving every dirty state.
func (s *Service) Flush(ctx context.Context) error {
	s.dirtyMutex.Lock()
	userIDs := make([]string, 0, len(s.dirty))
	for userID := range s.dirty {
		userIDs = append(userIDs, userID)
	}
	s.dirtyMutex.Unlock()

	var flushErr error
	for _, userID := range userIDs {
		if err := s.flushUser(ctx, userID); err != nil {
			flushErr = multierr.Append(flushErr, fmt.Errorf("user %s: %w", userID, err))
		}
	}
	return flushErr
}

func (s *Service) flushUser(ctx context.Context, userID string) error {
	unlock := s.locks.lock(userID)
	defer unlock()

	s.dirtyMutex.Lock()
	pending, isDirty := s.dirty[userID]
	s.dirtyMutex.Unlock()
	if !isDirty {
		return nil
	}

	if err := s.store.Save(ctx, userID, &pending); err != nil {
		s.metricsManager.CounterStateSaveFailures.Inc()
		return err
	}
	s.clearDirty(userID)
	return nil
}

func (s *Service) RunFlushLoop(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if s.DirtyCount() == 0 {
				continue
			}
			if err := s.Flush(ctx); err != nil {
				log.Errorf("tracker: flush dirty states: %s", err)
			} else {
				log.Debugln("tracker: dirty states flushed")
			}
		}
	}
}

// userLocks is a keyed mutex; entries are dropped once nobody holds or waits
// for them.
type userLocks struct {
	mutex sync.Mutex
	locks map[string]*userLock
}

type userLock struct {
	sync.Mutex
	refs int
}

func newUserLocks() *userLocks {
	return &userLocks{locks: map[string]*userLock{}}
}

func (l *userLocks) lock(userID string) (unlock func()) {
	l.mutex.Lock()
	ul, ok := l.locks[userID]
	if !ok {
		ul = &userLock{}
		l.locks[userID] = ul
	}
	ul.refs++
	l.mutex.Unlock()

	ul.Lock()
	return func() {
		ul.Unlock()
		l.mutex.Lock()
		ul.refs--
		if ul.refs == 0 {
			delete(l.locks, userID)
		}
		l.mutex.Unlock()
	}
}
