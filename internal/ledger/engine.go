package ledger

import "math/rand"

const maxThreshold = 10

// Engine applies user events to an activity State. It holds no state of its
// own besides the clock, and every operation returns a new State.
type Engine struct {
	clock Clock
}

func NewEngine(clock Clock) *Engine {
	return &Engine{clock: clock}
}

func (e *Engine) Clock() Clock {
	return e.clock
}

func (e *Engine) Today() string {
	return e.clock.Today()
}

// Refresh recomputes the derived fields for the current day. A streak computed
// yesterday may have lapsed since.
func (e *Engine) Refresh(s State) State {
	next := s.Clone()
	next.Normalize()
	return recompute(next, e.Today())
}

// LogApproach records one success on onDate, or today when onDate is empty
// or not a valid day key.
func (e *Engine) LogApproach(s State, isRejection bool, onDate string) State {
	date := onDate
	if !ValidDate(date) {
		date = e.Today()
	}

	delta := Stats{TotalApproaches: 1}
	if isRejection {
		delta.RejectionResilience = 1
	}
	if e.clock.IsMorning() {
		delta.MorningInteractions = 1
	}

	next := Merge(s, Patch{
		Days: []DayRecord{{
			Date:       date,
			Approaches: intPtr(s.DailyApproaches[date] + 1),
			Focus:      boolPtr(false),
			Approached: true,
		}},
		Stats: delta,
	}, e.Today())
	next.CurrentPassedBy = 0
	next.IsOnBreak = false
	return next
}

// AdjustPassedBy moves today's passed-by counters by delta, never below zero.
// Positive deltas are ignored while on a break.
func (e *Engine) AdjustPassedBy(s State, delta int) State {
	if s.IsOnBreak && delta > 0 {
		return s
	}
	today := e.Today()

	next := s.Clone()
	next.Normalize()
	next.CurrentPassedBy = max(0, next.CurrentPassedBy+delta)

	switch {
	case delta > 0:
		next.DailyPasses[today] += delta
		next.Stats.TotalPassedBy += delta
	case delta < 0:
		if next.DailyPasses[today] > 0 {
			next.DailyPasses[today] = max(0, next.DailyPasses[today]+delta)
		}
		next.Stats.TotalPassedBy = max(0, next.Stats.TotalPassedBy+delta)
	}
	return next
}

// SetExemption marks or clears today as a focus day.
func (e *Engine) SetExemption(s State, active bool) State {
	today := e.Today()
	next := Merge(s, Patch{
		Days: []DayRecord{{Date: today, Focus: boolPtr(active)}},
	}, today)
	next.IsOnBreak = active
	return next
}

func (e *Engine) AdvanceThreshold(s State) State {
	next := s.Clone()
	if next.MinThreshold < 1 || next.MinThreshold >= maxThreshold {
		next.MinThreshold = 1
	} else {
		next.MinThreshold++
	}
	return next
}

// SetHomeLocation stores the anchor point; nil clears it.
func (e *Engine) SetHomeLocation(s State, home *GeoPoint) State {
	next := s.Clone()
	if home == nil {
		next.HomeLocation = nil
		return next
	}
	h := *home
	next.HomeLocation = &h
	return next
}

// SimulateHistory backfills random activity for the last days days, today
// included. It goes through Merge like any real event.
func (e *Engine) SimulateHistory(s State, days int, rng *rand.Rand) State {
	if days <= 0 {
		return s
	}
	return Merge(s, simulatedPatch(e.Today(), days, rng), e.Today())
}

// ResetAll wipes recorded activity and achievement progress, keeping the
// achievement definitions and user preferences.
func (e *Engine) ResetAll(s State) State {
	next := s.Clone()
	next.ApproachDates = NewDateSet()
	next.DailyPasses = map[string]int{}
	next.DailyApproaches = map[string]int{}
	next.DailyBusinessFocus = map[string]bool{}
	next.CurrentPassedBy = 0
	next.IsOnBreak = false
	next.Streak = 0
	next.Stats.TotalApproaches = 0
	next.Stats.TotalPassedBy = 0
	next.Stats.RejectionResilience = 0
	next.Stats.MorningInteractions = 0
	next.Achievements = resetAchievements(next.Achievements)
	return next
}

func (e *Engine) IsDayCompleted(s State) bool {
	return IsDayCompleted(s, e.Today())
}

func IsDayCompleted(s State, date string) bool {
	return s.DailyApproaches[date] > 0 || s.DailyBusinessFocus[date]
}
