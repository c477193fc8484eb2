package utils

import "time"

// Clock yields the current time and the calendar date in the rental business timezone.
type Clock struct {
	now func() time.Time
	loc *time.Location
}

func NewClock(loc *time.Location) Clock {
	if loc == nil {
		loc = time.UTC
	}
	return Clock{now: time.Now, loc: loc}
}

// NewFixedClock always reports t. Used by jobs run for a given date and by tests.
func NewFixedClock(t time.Time, loc *time.Location) Clock {
	if loc == nil {
		loc = time.UTC
	}
	return Clock{now: func() time.Time { return t }, loc: loc}
}

// NewClockFunc reads the time from now, for callers that advance time themselves.
func NewClockFunc(now func() time.Time, loc *time.Location) Clock {
	if loc == nil {
		loc = time.UTC
	}
	return Clock{now: now, loc: loc}
}

func (c Clock) Now() time.Time {
	if c.now == nil {
		return time.Now()
	}
	return c.now()
}

func (c Clock) Location() *time.Location {
	if c.loc == nil {
		return time.UTC
	}
	return c.loc
}

// Today is the current calendar date in the clock's location, as midnight UTC.
func (c Clock) Today() time.Time {
	y, m, d := c.Now().In(c.Location()).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
