package ledger

import (
	"encoding/json"
	"sort"
	"time"
)

// DateLayout is the calendar date format used for every per-day key.
const DateLayout = "2006-01-02"

// Clock is the single source of "now" and "today" for the engine.
type Clock struct {
	Now      func() time.Time
	Location *time.Location
}

func NewClock(loc *time.Location) Clock {
	if loc == nil {
		loc = time.Local
	}
	return Clock{
		Now:      time.Now,
		Location: loc,
	}
}

// FixedClock always reports t, in t's location.
func FixedClock(t time.Time) Clock {
	return Clock{
		Now:      func() time.Time { return t },
		Location: t.Location(),
	}
}

func (c Clock) LocalNow() time.Time {
	now := time.Now
	if c.Now != nil {
		now = c.Now
	}
	loc := c.Location
	if loc == nil {
		loc = time.Local
	}
	return now().In(loc)
}

func (c Clock) Today() string {
	return c.LocalNow().Format(DateLayout)
}

func (c Clock) IsMorning() bool {
	return c.LocalNow().Hour() < 10
}

func ParseDate(date string) (time.Time, error) {
	return time.Parse(DateLayout, date)
}

func ValidDate(date string) bool {
	_, err := ParseDate(date)
	return err == nil
}

// AddDays shifts a calendar date by n days. Invalid dates yield "".
func AddDays(date string, n int) string {
	t, err := ParseDate(date)
	if err != nil {
		return ""
	}
	return t.AddDate(0, 0, n).Format(DateLayout)
}

// daysBetween returns b - a in whole calendar days.
func daysBetween(a, b string) (int, bool) {
	ta, err := ParseDate(a)
	if err != nil {
		return 0, false
	}
	tb, err := ParseDate(b)
	if err != nil {
		return 0, false
	}
	return int(tb.Sub(ta).Hours() / 24), true
}

// DateSet is a set of calendar dates, serialized as a sorted JSON array.
type DateSet map[string]struct{}

func NewDateSet(dates ...string) DateSet {
	s := make(DateSet, len(dates))
	for _, d := range dates {
		s[d] = struct{}{}
	}
	return s
}

func (s DateSet) Has(date string) bool {
	_, ok := s[date]
	return ok
}

func (s DateSet) Sorted() []string {
	dates := make([]string, 0, len(s))
	for d := range s {
		dates = append(dates, d)
	}
	sort.Strings(dates)
	return dates
}

func (s DateSet) Clone() DateSet {
	c := make(DateSet, len(s))
	for d := range s {
		c[d] = struct{}{}
	}
	return c
}

func (s DateSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Sorted())
}

func (s *DateSet) UnmarshalJSON(data []byte) error {
	var dates []string
	if err := json.Unmarshal(data, &dates); err != nil {
		return err
	}
	*s = NewDateSet(dates...)
	return nil
}
