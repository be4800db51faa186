package ledger

import (
	"fmt"
	"strings"
)

// Metric names the aggregate an achievement tracks.
type Metric string

const (
	MetricNone                Metric = "none"
	MetricStreak              Metric = "streak"
	MetricTotalApproaches     Metric = "total_approaches"
	MetricMorningInteractions Metric = "morning_interactions"
	MetricRejectionResilience Metric = "rejection_resilience"
)

type Achievement struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Category    string `json:"category"`
	Metric      Metric `json:"metric"`
	Target      int    `json:"target"`
	Progress    int    `json:"progress"`
	Unlocked    bool   `json:"unlocked"`
}

// progressUpdate computes the new progress of an achievement from its prior value.
type progressUpdate func(prior, streak int, stats Stats) int

var progressUpdates = map[Metric]progressUpdate{
	MetricStreak: func(prior, streak int, _ Stats) int {
		return max(prior, streak)
	},
	MetricTotalApproaches: func(_, _ int, stats Stats) int {
		return stats.TotalApproaches
	},
	MetricMorningInteractions: func(_, _ int, stats Stats) int {
		return stats.MorningInteractions
	},
	MetricRejectionResilience: func(_, _ int, stats Stats) int {
		return stats.RejectionResilience
	},
}

func (m Metric) Valid() bool {
	if m == MetricNone {
		return true
	}
	_, ok := progressUpdates[m]
	return ok
}

func ParseMetric(s string) (Metric, error) {
	m := Metric(strings.ToLower(strings.TrimSpace(s)))
	if m == "" {
		return MetricNone, nil
	}
	if !m.Valid() {
		return "", fmt.Errorf("unknown achievement metric: %q", s)
	}
	return m, nil
}

var legacyIDPrefixes = []struct {
	prefix string
	metric Metric
}{
	{"streak-", MetricStreak},
	{"approaches-", MetricTotalApproaches},
	{"vol-", MetricTotalApproaches},
	{"morning-", MetricMorningInteractions},
	{"rejection-", MetricRejectionResilience},
}

// MetricForID derives the tracked metric of records persisted before achievements carried one.
func MetricForID(id string) Metric {
	for _, p := range legacyIDPrefixes {
		if strings.HasPrefix(id, p.prefix) {
			return p.metric
		}
	}
	return MetricNone
}

// RecomputeAchievements derives progress and unlocked flags from the current
// streak and lifetime stats. The input slice is left untouched.
func RecomputeAchievements(achievements []Achievement, streak int, stats Stats) []Achievement {
	if achievements == nil {
		return nil
	}
	out := make([]Achievement, len(achievements))
	for i, a := range achievements {
		if update, ok := progressUpdates[a.Metric]; ok {
			a.Progress = update(a.Progress, streak, stats)
		}
		a.Unlocked = a.Progress >= a.Target
		out[i] = a
	}
	return out
}

func resetAchievements(achievements []Achievement) []Achievement {
	out := make([]Achievement, len(achievements))
	for i, a := range achievements {
		a.Progress = 0
		a.Unlocked = false
		out[i] = a
	}
	return out
}
