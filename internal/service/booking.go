package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"rentacar-backend/internal/domain"
	"rentacar-backend/internal/logger"
	"rentacar-backend/internal/repository"
	"rentacar-backend/internal/utils"
)

type bookingService struct {
	tx       repository.Transactor
	repos    repository.Repos
	vehicles VehicleService
	audit    AuditService
	emailSvc EmailService
	clock    utils.Clock
}

func NewBookingService(
	tx repository.Transactor,
	repos repository.Repos,
	vehicles VehicleService,
	audit AuditService,
	emailSvc EmailService,
	clock utils.Clock,
) BookingService {
	return &bookingService{
		tx:       tx,
		repos:    repos,
		vehicles: vehicles,
		audit:    audit,
		emailSvc: emailSvc,
		clock:    clock,
	}
}

// requestPeriod validates a requested date range: both dates present, pickup not before
// today in the business timezone, pickup not after return.
func (s *bookingService) requestPeriod(start, end time.Time) (domain.DateRange, error) {
	period, err := domain.NewDateRange(start, end)
	if err != nil {
		return domain.DateRange{}, err
	}
	if today := s.clock.Today(); period.Start.Before(today) {
		return domain.DateRange{}, domain.InvalidArgumentf("pickup date %s is in the past (today is %s)",
			period.Start.Format(domain.DateLayout), today.Format(domain.DateLayout))
	}
	return period, nil
}

func (s *bookingService) SearchAvailableVehicles(ctx context.Context, category domain.VehicleCategory, location string, start, end time.Time) ([]domain.Vehicle, error) {
	period, err := s.requestPeriod(start, end)
	if err != nil {
		return nil, err
	}
	return s.vehicles.FindAvailable(ctx, category, location, period.Start, period.End)
}

func (s *bookingService) CreateBooking(ctx context.Context, actor domain.Actor, req CreateBookingRequest) (*domain.Booking, error) {
	logger.EnterMethod("bookingService.CreateBooking", "customerID", req.CustomerID, "vehicleID", req.VehicleID, "actor", actor.Username)

	if req.CustomerID == 0 && actor.CustomerID != nil {
		req.CustomerID = *actor.CustomerID
	}
	if !actor.CanActFor(req.CustomerID) {
		err := domain.Forbiddenf("%s may not book for customer %d", actor.Username, req.CustomerID)
		logger.ExitMethodWithError("bookingService.CreateBooking", err, "customerID", req.CustomerID)
		return nil, err
	}

	period, err := s.requestPeriod(req.PickupDate, req.ReturnDate)
	if err != nil {
		logger.ExitMethodWithError("bookingService.CreateBooking", err, "customerID", req.CustomerID)
		return nil, err
	}

	var booking *domain.Booking
	var vehicle *domain.Vehicle
	err = s.tx.WithinTx(ctx, func(ctx context.Context, repos repository.Repos) error {
		if _, err := repos.Customers.GetByID(ctx, req.CustomerID); err != nil {
			return err
		}
		// Locking the vehicle serialises bookings and confirmations of the same vehicle.
		v, err := repos.Vehicles.GetByIDForUpdate(ctx, req.VehicleID)
		if err != nil {
			return err
		}
		vehicle = v

		conflicts, err := conflictingBookings(ctx, repos.Bookings, v.ID, period, 0)
		if err != nil {
			return err
		}
		if len(conflicts) > 0 {
			return domain.Conflictf("vehicle %d is not available from %s to %s", v.ID,
				period.Start.Format(domain.DateLayout), period.End.Format(domain.DateLayout))
		}

		price, err := utils.CalculatePrice(v.Category, period.Start, period.End)
		if err != nil {
			return err
		}

		pickupLocation := strings.TrimSpace(req.PickupLocation)
		if pickupLocation == "" {
			pickupLocation = v.Location
		}
		returnLocation := strings.TrimSpace(req.ReturnLocation)
		if returnLocation == "" {
			returnLocation = pickupLocation
		}

		booking = &domain.Booking{
			CustomerID:     req.CustomerID,
			VehicleID:      v.ID,
			PickupDate:     period.Start,
			ReturnDate:     period.End,
			PickupLocation: pickupLocation,
			ReturnLocation: returnLocation,
			TotalPrice:     price,
			Status:         domain.BookingStatusRequested,
		}
		return repos.Bookings.Create(ctx, booking)
	})
	if err != nil {
		logger.ExitMethodWithError("bookingService.CreateBooking", err, "customerID", req.CustomerID, "vehicleID", req.VehicleID)
		return nil, err
	}

	s.audit.Record(ctx, actor, domain.AuditBookingCreated, domain.ResourceBooking, booking.ID,
		fmt.Sprintf("booking for vehicle %s from %s, total %s", vehicle.LicensePlate, booking.Period(), booking.TotalPrice))
	logger.ExitMethod("bookingService.CreateBooking", "bookingID", booking.ID, "totalPrice", booking.TotalPrice.String())
	return booking, nil
}

func (s *bookingService) ConfirmBooking(ctx context.Context, actor domain.Actor, bookingID int32) (*domain.Booking, error) {
	logger.EnterMethod("bookingService.ConfirmBooking", "bookingID", bookingID, "actor", actor.Username)

	var booking *domain.Booking
	var vehicle *domain.Vehicle
	err := s.tx.WithinTx(ctx, func(ctx context.Context, repos repository.Repos) error {
		b, err := repos.Bookings.GetByID(ctx, bookingID)
		if err != nil {
			return err
		}
		v, err := repos.Vehicles.GetByIDForUpdate(ctx, b.VehicleID)
		if err != nil {
			return err
		}
		// Re-read under the vehicle lock so a concurrent confirmation is visible.
		if b, err = repos.Bookings.GetByID(ctx, bookingID); err != nil {
			return err
		}
		if b.Status != domain.BookingStatusRequested {
			return domain.InvalidStatef("booking %d is %s and cannot be confirmed", b.ID, b.Status)
		}

		conflicts, err := conflictingBookings(ctx, repos.Bookings, v.ID, b.Period(), b.ID)
		if err != nil {
			return err
		}
		if len(conflicts) > 0 {
			return domain.Conflictf("vehicle %d is no longer available for %s: booking %d is confirmed",
				v.ID, b.Period(), conflicts[0].ID)
		}

		if err := b.Confirm(); err != nil {
			return err
		}
		if err := v.Reserve(); err != nil {
			return err
		}
		if err := repos.Bookings.Update(ctx, b); err != nil {
			return err
		}
		if err := repos.Vehicles.Update(ctx, v); err != nil {
			return err
		}
		booking, vehicle = b, v
		return nil
	})
	if err != nil {
		logger.ExitMethodWithError("bookingService.ConfirmBooking", err, "bookingID", bookingID)
		return nil, err
	}

	s.audit.Record(ctx, actor, domain.AuditBookingConfirmed, domain.ResourceBooking, booking.ID,
		fmt.Sprintf("vehicle %s reserved for %s", vehicle.LicensePlate, booking.Period()))
	notifyCustomer(ctx, s.repos.Customers, booking.CustomerID, func(ctx context.Context, c *domain.Customer) error {
		return s.emailSvc.SendBookingConfirmed(ctx, c, booking, vehicle)
	})
	logger.ExitMethod("bookingService.ConfirmBooking", "bookingID", booking.ID)
	return booking, nil
}

func (s *bookingService) CancelBooking(ctx context.Context, actor domain.Actor, bookingID int32) (*domain.Booking, error) {
	logger.EnterMethod("bookingService.CancelBooking", "bookingID", bookingID, "actor", actor.Username)

	var booking *domain.Booking
	var released bool
	err := s.tx.WithinTx(ctx, func(ctx context.Context, repos repository.Repos) error {
		b, err := repos.Bookings.GetByID(ctx, bookingID)
		if err != nil {
			return err
		}
		if !actor.CanActFor(b.CustomerID) {
			return domain.Forbiddenf("%s may not cancel booking %d", actor.Username, b.ID)
		}
		v, err := repos.Vehicles.GetByIDForUpdate(ctx, b.VehicleID)
		if err != nil {
			return err
		}
		if b, err = repos.Bookings.GetByID(ctx, bookingID); err != nil {
			return err
		}
		if rental, err := repos.Rentals.GetByBooking(ctx, b.ID); err == nil {
			return domain.InvalidStatef("booking %d was already checked out as rental %d", b.ID, rental.ID)
		} else if !errors.Is(err, domain.ErrNotFound) {
			return err
		}

		wasConfirmed := b.Status == domain.BookingStatusConfirmed
		if err := b.Cancel(s.clock.Now(), s.clock.Location()); err != nil {
			return err
		}
		if err := repos.Bookings.Update(ctx, b); err != nil {
			return err
		}
		if wasConfirmed && v.Status == domain.VehicleStatusRented {
			v.Release()
			if err := repos.Vehicles.Update(ctx, v); err != nil {
				return err
			}
			released = true
		}
		booking = b
		return nil
	})
	if err != nil {
		logger.ExitMethodWithError("bookingService.CancelBooking", err, "bookingID", bookingID)
		return nil, err
	}

	details := "booking cancelled"
	if released {
		details = fmt.Sprintf("booking cancelled, vehicle %d released", booking.VehicleID)
	}
	s.audit.Record(ctx, actor, domain.AuditBookingCancelled, domain.ResourceBooking, booking.ID, details)
	notifyCustomer(ctx, s.repos.Customers, booking.CustomerID, func(ctx context.Context, c *domain.Customer) error {
		return s.emailSvc.SendBookingCancelled(ctx, c, booking)
	})
	logger.ExitMethod("bookingService.CancelBooking", "bookingID", booking.ID, "vehicleReleased", released)
	return booking, nil
}

func (s *bookingService) GetBooking(ctx context.Context, actor domain.Actor, bookingID int32) (*domain.Booking, error) {
	b, err := s.repos.Bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !actor.CanActFor(b.CustomerID) {
		// Hide bookings of other customers.
		return nil, domain.NotFoundf("booking %d not found", bookingID)
	}
	return b, nil
}

func (s *bookingService) ListCustomerBookings(ctx context.Context, actor domain.Actor, customerID int32) ([]domain.Booking, error) {
	if !actor.CanActFor(customerID) {
		return nil, domain.Forbiddenf("%s may not read the bookings of customer %d", actor.Username, customerID)
	}
	if _, err := s.repos.Customers.GetByID(ctx, customerID); err != nil {
		return nil, err
	}
	return s.repos.Bookings.ListByCustomer(ctx, customerID)
}

func (s *bookingService) ListVehicleBookings(ctx context.Context, vehicleID int32) ([]domain.Booking, error) {
	if _, err := s.repos.Vehicles.GetByID(ctx, vehicleID); err != nil {
		return nil, err
	}
	return s.repos.Bookings.ListByVehicle(ctx, vehicleID)
}

// notifyCustomer runs after commit. Lookup and delivery failures are logged only.
func notifyCustomer(ctx context.Context, customers repository.CustomerRepository, customerID int32, send func(ctx context.Context, c *domain.Customer) error) {
	ctx = context.WithoutCancel(ctx)
	customer, err := customers.GetByID(ctx, customerID)
	if err != nil {
		logger.Warn("Skipping customer notification", "customerID", customerID, "error", err)
		return
	}
	if err := send(ctx, customer); err != nil {
		logger.Error("Failed to notify customer", "customerID", customerID, "error", err)
	}
}
