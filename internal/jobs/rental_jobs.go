package jobs

import (
	"context"
	"fmt"

	"rentacar-backend/internal/domain"
	"rentacar-backend/internal/logger"
)

// ReportOverdueRentals audits every rental still out past its planned return date.
// Rentals are not modified; the late fee is charged at check-in.
func (jr *JobRunner) ReportOverdueRentals() {
	jr.runWithRecovery("ReportOverdueRentals", func(ctx context.Context) error {
		_, err := jr.reportOverdueRentals(ctx)
		return err
	})
}

func (jr *JobRunner) reportOverdueRentals(ctx context.Context) (int, error) {
	today := jr.clock.Today()
	rentals, err := jr.rentals.ListOverdue(ctx, today)
	if err != nil {
		return 0, fmt.Errorf("failed to list overdue rentals: %w", err)
	}

	for _, r := range rentals {
		daysLate := domain.DaysBetween(r.PlannedReturnDate, today)
		logger.Debug("Rental overdue",
			"rental_id", r.ID,
			"vehicle_id", r.VehicleID,
			"customer_id", r.CustomerID,
			"planned_return_date", r.PlannedReturnDate.Format(domain.DateLayout),
			"days_late", daysLate)
		jr.audit.Record(ctx, domain.SystemActor, domain.AuditRentalOverdue, domain.ResourceRental, r.ID,
			fmt.Sprintf("vehicle %d due %s, %d day(s) late, accrued late fee %s",
				r.VehicleID, r.PlannedReturnDate.Format(domain.DateLayout), daysLate, domain.LateFeePerDay.Times(daysLate)))
	}

	logger.Info("Reported overdue rentals", "count", len(rentals), "today", today.Format(domain.DateLayout))
	return len(rentals), nil
}

// ReportStaleBookingRequests logs requested bookings whose pickup day passed without confirmation.
func (jr *JobRunner) ReportStaleBookingRequests() {
	jr.runWithRecovery("ReportStaleBookingRequests", func(ctx context.Context) error {
		_, err := jr.reportStaleBookingRequests(ctx)
		return err
	})
}

func (jr *JobRunner) reportStaleBookingRequests(ctx context.Context) (int, error) {
	today := jr.clock.Today()
	bookings, err := jr.bookings.ListStaleRequests(ctx, today)
	if err != nil {
		return 0, fmt.Errorf("failed to list stale booking requests: %w", err)
	}

	for _, b := range bookings {
		logger.Warn("Booking request never confirmed",
			"booking_id", b.ID,
			"vehicle_id", b.VehicleID,
			"customer_id", b.CustomerID,
			"pickup_date", b.PickupDate.Format(domain.DateLayout))
	}

	logger.Info("Reported stale booking requests", "count", len(bookings), "today", today.Format(domain.DateLayout))
	return len(bookings), nil
}
