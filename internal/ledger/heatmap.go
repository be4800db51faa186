package ledger

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

type HeatmapCell struct {
	Date        string `json:"date"`
	Passes      int    `json:"passes"`
	Approaches  int    `json:"approaches"`
	IsFocus     bool   `json:"isFocus"`
	HasApproach bool   `json:"hasApproach"`
	IsToday     bool   `json:"isToday"`
	DayLabel    string `json:"dayLabel"`
}

type MonthGroup struct {
	Name  string        `json:"name"`
	Month int           `json:"month"`
	Days  []HeatmapCell `json:"days"`
}

type YearGrid struct {
	Year   int          `json:"year"`
	Months []MonthGroup `json:"months"`
}

func heatmapCell(s State, day time.Time, today string) HeatmapCell {
	date := day.Format(DateLayout)
	approaches := s.DailyApproaches[date]
	return HeatmapCell{
		Date:        date,
		Passes:      s.DailyPasses[date],
		Approaches:  approaches,
		IsFocus:     s.DailyBusinessFocus[date],
		HasApproach: approaches > 0,
		IsToday:     date == today,
		DayLabel:    day.Weekday().String()[:1],
	}
}

// LastDays returns the n days ending today, oldest first.
func LastDays(s State, today string, n int) []HeatmapCell {
	end, err := ParseDate(today)
	if err != nil || n <= 0 {
		return nil
	}
	cells := make([]HeatmapCell, 0, n)
	for i := n - 1; i >= 0; i-- {
		cells = append(cells, heatmapCell(s, end.AddDate(0, 0, -i), today))
	}
	return cells
}

// BuildYearGrid lays out every day of year grouped by month.
func BuildYearGrid(s State, year int, today string) YearGrid {
	grid := YearGrid{Year: year, Months: make([]MonthGroup, 0, 12)}
	for m := time.January; m <= time.December; m++ {
		group := MonthGroup{Name: m.String()[:3], Month: int(m)}
		for d := time.Date(year, m, 1, 0, 0, 0, 0, time.UTC); d.Month() == m; d = d.AddDate(0, 0, 1) {
			group.Days = append(group.Days, heatmapCell(s, d, today))
		}
		grid.Months = append(grid.Months, group)
	}
	return grid
}

// YearsAvailable lists, newest first, every year from the oldest recorded day up to today's year.
func YearsAvailable(s State, today string) []int {
	t, err := ParseDate(today)
	if err != nil {
		return nil
	}
	endYear := t.Year()
	startYear := endYear

	for _, keys := range [][]string{
		mapKeys(s.DailyPasses),
		mapKeys(s.DailyApproaches),
		mapKeys(s.DailyBusinessFocus),
	} {
		for _, k := range keys {
			if d, err := ParseDate(k); err == nil && d.Year() < startYear {
				startYear = d.Year()
			}
		}
	}

	years := make([]int, 0, endYear-startYear+1)
	for y := endYear; y >= startYear; y-- {
		years = append(years, y)
	}
	return years
}

// MonthRangeLabel renders "JUN 2024" or "MAY - JUN 2024" for a run of cells.
func MonthRangeLabel(cells []HeatmapCell) string {
	if len(cells) == 0 {
		return ""
	}
	start, err := ParseDate(cells[0].Date)
	if err != nil {
		return ""
	}
	end, err := ParseDate(cells[len(cells)-1].Date)
	if err != nil {
		return ""
	}
	startM := strings.ToUpper(start.Format("Jan"))
	endM := strings.ToUpper(end.Format("Jan"))
	if startM == endM {
		return fmt.Sprintf("%s %d", startM, end.Year())
	}
	return fmt.Sprintf("%s - %s %d", startM, endM, end.Year())
}

func mapKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
