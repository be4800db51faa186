package ledger

const defaultConfidenceLevel = 45

// DefaultState is the state a user starts with.
func DefaultState(catalog Catalog) State {
	return State{
		ApproachDates:      NewDateSet(),
		DailyPasses:        map[string]int{},
		DailyApproaches:    map[string]int{},
		DailyBusinessFocus: map[string]bool{},
		Achievements:       catalog.Definitions(),
		MinThreshold:       1,
		ConfidenceLevel:    defaultConfidenceLevel,
		History: []HistoryPoint{
			{Day: "Mon", Level: 25},
			{Day: "Tue", Level: 35},
			{Day: "Wed", Level: 42},
			{Day: "Thu", Level: 45},
		},
	}
}
