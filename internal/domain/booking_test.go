package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBooking(status BookingStatus, pickup, ret string) *Booking {
	return &Booking{
		Metadata:   Metadata{ID: 1},
		CustomerID: 10,
		VehicleID:  20,
		PickupDate: mustDate(pickup),
		ReturnDate: mustDate(ret),
		Status:     status,
	}
}

func TestBookingOverlaps(t *testing.T) {
	query := rangeOf("2024-06-05", "2024-06-10")

	t.Run("Only confirmed bookings block", func(t *testing.T) {
		for _, status := range []BookingStatus{BookingStatusRequested, BookingStatusCancelled, BookingStatusCompleted} {
			b := newBooking(status, "2024-06-03", "2024-06-05")
			assert.False(t, b.Overlaps(query), string(status))
		}
		assert.True(t, newBooking(BookingStatusConfirmed, "2024-06-03", "2024-06-05").Overlaps(query))
	})

	t.Run("Agrees with the range predicate", func(t *testing.T) {
		b := newBooking(BookingStatusConfirmed, "2024-06-03", "2024-06-05")
		for _, q := range []DateRange{rangeOf("2024-06-06", "2024-06-10"), rangeOf("2024-06-01", "2024-06-03")} {
			assert.Equal(t, b.Period().Overlaps(q), b.Overlaps(q))
		}
	})
}

func TestBookingTransitions(t *testing.T) {
	t.Run("Confirm requested", func(t *testing.T) {
		b := newBooking(BookingStatusRequested, "2024-06-03", "2024-06-05")
		require.NoError(t, b.Confirm())
		assert.Equal(t, BookingStatusConfirmed, b.Status)
	})

	t.Run("Confirm twice fails", func(t *testing.T) {
		b := newBooking(BookingStatusConfirmed, "2024-06-03", "2024-06-05")
		assert.True(t, errors.Is(b.Confirm(), ErrInvalidState))
	})

	t.Run("Confirm cancelled fails", func(t *testing.T) {
		b := newBooking(BookingStatusCancelled, "2024-06-03", "2024-06-05")
		assert.True(t, errors.Is(b.Confirm(), ErrInvalidState))
	})

	t.Run("Complete only from confirmed", func(t *testing.T) {
		b := newBooking(BookingStatusRequested, "2024-06-03", "2024-06-05")
		assert.True(t, errors.Is(b.Complete(), ErrInvalidState))

		b.Status = BookingStatusConfirmed
		require.NoError(t, b.Complete())
		assert.Equal(t, BookingStatusCompleted, b.Status)
	})
}

func TestBookingCancel(t *testing.T) {
	// Pickup on June 10th: the deadline is June 9th 00:00.
	pickup := "2024-06-10"

	t.Run("Well before the deadline", func(t *testing.T) {
		b := newBooking(BookingStatusConfirmed, pickup, "2024-06-12")
		now := time.Date(2024, 6, 8, 12, 0, 0, 0, time.UTC)
		require.NoError(t, b.Cancel(now, time.UTC))
		assert.Equal(t, BookingStatusCancelled, b.Status)
		require.NotNil(t, b.CancelledAt)
		assert.Equal(t, now, *b.CancelledAt)
	})

	t.Run("Exactly at the deadline", func(t *testing.T) {
		b := newBooking(BookingStatusRequested, pickup, "2024-06-12")
		require.NoError(t, b.Cancel(time.Date(2024, 6, 9, 0, 0, 0, 0, time.UTC), time.UTC))
	})

	t.Run("Within 24h of pickup", func(t *testing.T) {
		b := newBooking(BookingStatusConfirmed, pickup, "2024-06-12")
		err := b.Cancel(time.Date(2024, 6, 9, 0, 0, 1, 0, time.UTC), time.UTC)
		assert.True(t, errors.Is(err, ErrInvalidState))
		assert.Contains(t, err.Error(), "too late")
		assert.Equal(t, BookingStatusConfirmed, b.Status)
		assert.Nil(t, b.CancelledAt)
	})

	t.Run("Deadline follows the business timezone", func(t *testing.T) {
		cet := time.FixedZone("CET", 60*60)
		b := newBooking(BookingStatusConfirmed, pickup, "2024-06-12")
		// June 9th 00:00 CET is June 8th 23:00 UTC.
		err := b.Cancel(time.Date(2024, 6, 8, 23, 30, 0, 0, time.UTC), cet)
		assert.True(t, errors.Is(err, ErrInvalidState))
	})

	t.Run("Terminal bookings", func(t *testing.T) {
		for _, status := range []BookingStatus{BookingStatusCancelled, BookingStatusCompleted} {
			b := newBooking(status, pickup, "2024-06-12")
			err := b.Cancel(time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), time.UTC)
			assert.True(t, errors.Is(err, ErrInvalidState), string(status))
		}
	})
}
