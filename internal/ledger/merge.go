package ledger

// DayRecord is one day's contribution to a Patch. Nil fields keep the
// existing value, non-nil fields overwrite it.
type DayRecord struct {
	Date       string
	Passes     *int
	Approaches *int
	Focus      *bool
	// Approached adds Date to the approach dates; dates are never removed by a merge.
	Approached bool
}

// Patch is a batch of per-day overwrites plus a lifetime stats delta.
type Patch struct {
	Days  []DayRecord
	Stats Stats
}

// Merge applies patch to a copy of state and recomputes the derived fields
// (streak and achievement progress) against today.
func Merge(state State, patch Patch, today string) State {
	next := state.Clone()
	next.Normalize()

	for _, day := range patch.Days {
		if !ValidDate(day.Date) {
			continue
		}
		if day.Passes != nil {
			next.DailyPasses[day.Date] = max(0, *day.Passes)
		}
		if day.Approaches != nil {
			next.DailyApproaches[day.Date] = max(0, *day.Approaches)
		}
		if day.Focus != nil {
			next.DailyBusinessFocus[day.Date] = *day.Focus
		}
		if day.Approached {
			next.ApproachDates[day.Date] = struct{}{}
		}
	}
	next.Stats = next.Stats.plus(patch.Stats)

	return recompute(next, today)
}

func recompute(s State, today string) State {
	s.Streak = ComputeStreak(s.ApproachDates, s.DailyBusinessFocus, today)
	s.Achievements = RecomputeAchievements(s.Achievements, s.Streak, s.Stats)
	return s
}

func intPtr(v int) *int {
	return &v
}

func boolPtr(v bool) *bool {
	return &v
}
