package service

import (
	"context"
	"time"

	"rentacar-backend/internal/domain"
	"rentacar-backend/internal/logger"
	"rentacar-backend/internal/repository"
)

type availabilityService struct {
	repos repository.Repos
}

func NewAvailabilityService(repos repository.Repos) AvailabilityService {
	return &availabilityService{repos: repos}
}

// IsAvailable reports whether no confirmed booking of the vehicle overlaps [start, end].
// It does not look at the vehicle's current status.
func (s *availabilityService) IsAvailable(ctx context.Context, vehicleID int32, start, end time.Time) (bool, error) {
	logger.EnterMethod("availabilityService.IsAvailable", "vehicleID", vehicleID)

	period, err := domain.NewDateRange(start, end)
	if err != nil {
		logger.ExitMethodWithError("availabilityService.IsAvailable", err, "vehicleID", vehicleID)
		return false, err
	}
	if _, err := s.repos.Vehicles.GetByID(ctx, vehicleID); err != nil {
		logger.ExitMethodWithError("availabilityService.IsAvailable", err, "vehicleID", vehicleID)
		return false, err
	}

	conflicts, err := conflictingBookings(ctx, s.repos.Bookings, vehicleID, period, 0)
	if err != nil {
		logger.ExitMethodWithError("availabilityService.IsAvailable", err, "vehicleID", vehicleID)
		return false, err
	}
	logger.ExitMethod("availabilityService.IsAvailable", "vehicleID", vehicleID, "period", period, "conflicts", len(conflicts))
	return len(conflicts) == 0, nil
}

// conflictingBookings returns the confirmed bookings of the vehicle overlapping period,
// ignoring the booking with id exclude. Candidates from the store are filtered again with
// Booking.Overlaps, which is the authoritative conflict check.
func conflictingBookings(ctx context.Context, bookings repository.BookingRepository, vehicleID int32, period domain.DateRange, exclude int32) ([]domain.Booking, error) {
	candidates, err := bookings.ListOverlapping(ctx, vehicleID, period)
	if err != nil {
		return nil, err
	}
	var conflicts []domain.Booking
	for _, b := range candidates {
		if b.ID != exclude && b.Overlaps(period) {
			conflicts = append(conflicts, b)
		}
	}
	return conflicts, nil
}
