package domain

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustDate(s string) time.Time {
	t, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return t
}

func rangeOf(start, end string) DateRange {
	r, err := NewDateRange(mustDate(start), mustDate(end))
	if err != nil {
		panic(err)
	}
	return r
}

func TestNewDateRange(t *testing.T) {
	t.Run("Start after end", func(t *testing.T) {
		_, err := NewDateRange(mustDate("2024-05-08"), mustDate("2024-05-07"))
		assert.True(t, errors.Is(err, ErrInvalidArgument))
	})

	t.Run("Missing date", func(t *testing.T) {
		_, err := NewDateRange(time.Time{}, mustDate("2024-05-07"))
		assert.True(t, errors.Is(err, ErrInvalidArgument))
	})

	t.Run("Normalises time of day", func(t *testing.T) {
		r, err := NewDateRange(mustDate("2024-05-01").Add(15*time.Hour), mustDate("2024-05-01").Add(16*time.Hour))
		require.NoError(t, err)
		assert.Equal(t, mustDate("2024-05-01"), r.Start)
		assert.Equal(t, 1, r.Days())
	})
}

func TestDateRangeOverlaps(t *testing.T) {
	existing := rangeOf("2024-06-03", "2024-06-05")

	tests := []struct {
		name     string
		query    DateRange
		expected bool
	}{
		{"touching at the end day", rangeOf("2024-06-05", "2024-06-10"), true},
		{"touching at the start day", rangeOf("2024-06-01", "2024-06-03"), true},
		{"day after", rangeOf("2024-06-06", "2024-06-10"), false},
		{"days before", rangeOf("2024-06-01", "2024-06-02"), false},
		{"contained", rangeOf("2024-06-04", "2024-06-04"), true},
		{"containing", rangeOf("2024-06-01", "2024-06-30"), true},
		{"identical", rangeOf("2024-06-03", "2024-06-05"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, existing.Overlaps(tt.query))
			assert.Equal(t, tt.expected, tt.query.Overlaps(existing), "overlap must be symmetric")
		})
	}
}

func TestDaysBetween(t *testing.T) {
	assert.Equal(t, 0, DaysBetween(mustDate("2024-01-01"), mustDate("2024-01-01")))
	assert.Equal(t, 2, DaysBetween(mustDate("2024-02-28"), mustDate("2024-03-01")))
	assert.Equal(t, -1, DaysBetween(mustDate("2024-01-02"), mustDate("2024-01-01")))
}

func TestMoney(t *testing.T) {
	assert.Equal(t, "420.00", Units(420).String())
	assert.Equal(t, "0.05", Money(5).String())
	assert.Equal(t, "-1.50", Money(-150).String())
	assert.Equal(t, "-92233720368547758.08", Money(math.MinInt64).String())
	assert.Equal(t, "92233720368547758.07", Money(math.MaxInt64).String())
}

func TestMoneyAdd(t *testing.T) {
	sum, err := Units(100).Add(Units(50))
	require.NoError(t, err)
	assert.Equal(t, Units(150), sum)

	_, err = Units(1).Add(-1)
	assert.True(t, errors.Is(err, ErrInvalidArgument))

	half := Money(math.MaxInt64/2 + 1)
	_, err = half.Add(half)
	assert.True(t, errors.Is(err, ErrInvalidArgument))

	sum, err = Money(math.MaxInt64 - 1).Add(1)
	require.NoError(t, err)
	assert.Equal(t, Money(math.MaxInt64), sum)
}
