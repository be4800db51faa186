package ledger

import "sort"

// ComputeStreak counts consecutive calendar days ending today or yesterday on
// which the user either logged an approach or had an active focus day.
func ComputeStreak(approachDates DateSet, focusDays map[string]bool, today string) int {
	active := approachDates.Clone()
	for d, on := range focusDays {
		if on {
			active[d] = struct{}{}
		}
	}
	if len(active) == 0 {
		return 0
	}

	dates := make([]string, 0, len(active))
	for d := range active {
		if ValidDate(d) {
			dates = append(dates, d)
		}
	}
	if len(dates) == 0 {
		return 0
	}
	sort.Sort(sort.Reverse(sort.StringSlice(dates)))

	latest := dates[0]
	if latest != today && latest != AddDays(today, -1) {
		return 0
	}

	streak := 1
	for i := 1; i < len(dates); i++ {
		diff, ok := daysBetween(dates[i], dates[i-1])
		if !ok || diff != 1 {
			break
		}
		streak++
	}
	return streak
}
