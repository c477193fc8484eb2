package domain

import (
	"strings"
	"time"
)

const DateLayout = "2006-01-02"

const day = 24 * time.Hour

// DateOf returns the calendar date of t (in t's own location) as midnight UTC.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, InvalidArgumentf("date is required")
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, InvalidArgumentf("invalid date %q, expected YYYY-MM-DD", s)
	}
	return t, nil
}

// DaysBetween returns the number of calendar days from a to b (negative when b is earlier).
func DaysBetween(a, b time.Time) int {
	return int(DateOf(b).Sub(DateOf(a)) / day)
}

// DateRange is an inclusive range of calendar dates.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// NewDateRange normalises both ends to dates and rejects a missing date or a start after the end.
func NewDateRange(start, end time.Time) (DateRange, error) {
	if start.IsZero() || end.IsZero() {
		return DateRange{}, InvalidArgumentf("pickup and return dates are required")
	}
	r := DateRange{Start: DateOf(start), End: DateOf(end)}
	if r.Start.After(r.End) {
		return DateRange{}, InvalidArgumentf("pickup date %s is after return date %s",
			r.Start.Format(DateLayout), r.End.Format(DateLayout))
	}
	return r, nil
}

// Overlaps reports whether two ranges share at least one day. Both ends are inclusive,
// so ranges touching on a single day overlap.
//
// This is the only conflict predicate in the system. The postgres store renders the same
// comparison in SQL (see repository/postgres booking queries).
func (r DateRange) Overlaps(other DateRange) bool {
	return !r.Start.After(other.End) && !r.End.Before(other.Start)
}

// Days counts the days in the range, both ends included.
func (r DateRange) Days() int {
	return DaysBetween(r.Start, r.End) + 1
}

func (r DateRange) String() string {
	return r.Start.Format(DateLayout) + ".." + r.End.Format(DateLayout)
}
