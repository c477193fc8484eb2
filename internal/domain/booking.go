package domain

import "time"

type BookingStatus string

const (
	BookingStatusRequested BookingStatus = "REQUESTED"
	BookingStatusConfirmed BookingStatus = "CONFIRMED"
	BookingStatusCompleted BookingStatus = "COMPLETED"
	BookingStatusCancelled BookingStatus = "CANCELLED"
)

// BookingTransitions defines the booking state machine. COMPLETED and CANCELLED are terminal.
var BookingTransitions = map[BookingStatus][]BookingStatus{
	BookingStatusRequested: {BookingStatusConfirmed, BookingStatusCancelled},
	BookingStatusConfirmed: {BookingStatusCompleted, BookingStatusCancelled},
}

func CanTransitionBooking(from, to BookingStatus) bool {
	for _, s := range BookingTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// CancellationNotice is how long before the start of the pickup day a booking can still be cancelled.
const CancellationNotice = 24 * time.Hour

type Booking struct {
	Metadata
	CustomerID     int32         `json:"customer_id"`
	VehicleID      int32         `json:"vehicle_id"`
	PickupDate     time.Time     `json:"pickup_date"`
	ReturnDate     time.Time     `json:"return_date"`
	PickupLocation string        `json:"pickup_location"`
	ReturnLocation string        `json:"return_location"`
	TotalPrice     Money         `json:"total_price_cents"`
	Status         BookingStatus `json:"status"`
	CancelledAt    *time.Time    `json:"cancelled_at,omitempty"`
}

func (b *Booking) Period() DateRange {
	return DateRange{Start: DateOf(b.PickupDate), End: DateOf(b.ReturnDate)}
}

// Overlaps reports whether this booking blocks the given range. Only confirmed bookings block.
func (b *Booking) Overlaps(r DateRange) bool {
	return b.Status == BookingStatusConfirmed && b.Period().Overlaps(r)
}

func (b *Booking) IsTerminal() bool {
	return b.Status == BookingStatusCompleted || b.Status == BookingStatusCancelled
}

func (b *Booking) transition(to BookingStatus) error {
	if !CanTransitionBooking(b.Status, to) {
		return InvalidStatef("booking %d cannot move from %s to %s", b.ID, b.Status, to)
	}
	b.Status = to
	return nil
}

func (b *Booking) Confirm() error {
	return b.transition(BookingStatusConfirmed)
}

// CancellationDeadline is the start of the pickup day in loc minus the notice period.
func (b *Booking) CancellationDeadline(loc *time.Location) time.Time {
	y, m, d := b.PickupDate.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc).Add(-CancellationNotice)
}

// Cancel cancels the booking at now. It fails on terminal bookings and after the deadline.
func (b *Booking) Cancel(now time.Time, loc *time.Location) error {
	if b.IsTerminal() {
		return InvalidStatef("booking %d is already %s", b.ID, b.Status)
	}
	if now.After(b.CancellationDeadline(loc)) {
		return InvalidStatef("too late to cancel booking %d: cancellations close 24 hours before the pickup day", b.ID)
	}
	if err := b.transition(BookingStatusCancelled); err != nil {
		return err
	}
	b.CancelledAt = &now
	return nil
}

func (b *Booking) Complete() error {
	return b.transition(BookingStatusCompleted)
}
