package ledger

type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type HistoryPoint struct {
	Day   string `json:"day"`
	Level int    `json:"level"`
}

type Stats struct {
	TotalApproaches     int     `json:"totalApproaches"`
	TotalPassedBy       int     `json:"totalPassedBy"`
	RejectionResilience int     `json:"rejectionResilience"`
	MorningInteractions int     `json:"morningInteractions"`
	AvgDuration         float64 `json:"avgDuration"`
	UniqueLocations     int     `json:"uniqueLocations"`
}

// plus adds the counters of delta to s. AvgDuration is not additive and is kept.
func (s Stats) plus(delta Stats) Stats {
	s.TotalApproaches += delta.TotalApproaches
	s.TotalPassedBy += delta.TotalPassedBy
	s.RejectionResilience += delta.RejectionResilience
	s.MorningInteractions += delta.MorningInteractions
	s.UniqueLocations += delta.UniqueLocations
	return s
}

// State is the whole per-user activity aggregate, persisted as one JSON document.
type State struct {
	ApproachDates      DateSet         `json:"approachDates"`
	DailyPasses        map[string]int  `json:"dailyPasses"`
	DailyApproaches    map[string]int  `json:"dailyApproaches"`
	DailyBusinessFocus map[string]bool `json:"dailyBusinessFocus"`
	CurrentPassedBy    int             `json:"currentPassedBy"`
	IsOnBreak          bool            `json:"isOnBreak"`
	Streak             int             `json:"streak"`
	Stats              Stats           `json:"stats"`
	Achievements       []Achievement   `json:"achievements"`
	MinThreshold       int             `json:"minThreshold"`
	HomeLocation       *GeoPoint       `json:"homeLocation,omitempty"`
	ConfidenceLevel    int             `json:"confidenceLevel"`
	History            []HistoryPoint  `json:"history"`
}

// Clone returns a deep copy; engine operations never mutate their input.
func (s State) Clone() State {
	c := s
	c.ApproachDates = s.ApproachDates.Clone()
	c.DailyPasses = cloneMap(s.DailyPasses)
	c.DailyApproaches = cloneMap(s.DailyApproaches)
	c.DailyBusinessFocus = cloneMap(s.DailyBusinessFocus)
	c.Achievements = append([]Achievement(nil), s.Achievements...)
	c.History = append([]HistoryPoint(nil), s.History...)
	if s.HomeLocation != nil {
		home := *s.HomeLocation
		c.HomeLocation = &home
	}
	return c
}

// Normalize fills missing maps and derives metrics for legacy achievement records.
func (s *State) Normalize() {
	if s.ApproachDates == nil {
		s.ApproachDates = NewDateSet()
	}
	if s.DailyPasses == nil {
		s.DailyPasses = map[string]int{}
	}
	if s.DailyApproaches == nil {
		s.DailyApproaches = map[string]int{}
	}
	if s.DailyBusinessFocus == nil {
		s.DailyBusinessFocus = map[string]bool{}
	}
	if s.MinThreshold < 1 || s.MinThreshold > maxThreshold {
		s.MinThreshold = 1
	}
	if s.CurrentPassedBy < 0 {
		s.CurrentPassedBy = 0
	}
	for i := range s.Achievements {
		if s.Achievements[i].Metric == "" {
			s.Achievements[i].Metric = MetricForID(s.Achievements[i].ID)
		}
	}
}

// AchievementIDs lists definition ids in order.
func (s State) AchievementIDs() []string {
	ids := make([]string, 0, len(s.Achievements))
	for _, a := range s.Achievements {
		ids = append(ids, a.ID)
	}
	return ids
}

func cloneMap[K comparable, V any](m map[K]V) map[K]V {
	c := make(map[K]V, len(m))
	for k, v := range m {
		c[k] = v
	}
	return c
}
