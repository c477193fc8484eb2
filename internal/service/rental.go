package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"rentacar-backend/internal/domain"
	"rentacar-backend/internal/logger"
	"rentacar-backend/internal/repository"
	"rentacar-backend/internal/utils"
)

type rentalService struct {
	tx       repository.Transactor
	repos    repository.Repos
	audit    AuditService
	emailSvc EmailService
	clock    utils.Clock
}

func NewRentalService(
	tx repository.Transactor,
	repos repository.Repos,
	audit AuditService,
	emailSvc EmailService,
	clock utils.Clock,
) RentalService {
	return &rentalService{
		tx:       tx,
		repos:    repos,
		audit:    audit,
		emailSvc: emailSvc,
		clock:    clock,
	}
}

func (s *rentalService) Checkout(ctx context.Context, actor domain.Actor, bookingID int32, mileage int, condition string) (*domain.Rental, error) {
	logger.EnterMethod("rentalService.Checkout", "bookingID", bookingID, "mileage", mileage, "actor", actor.Username)

	var rental *domain.Rental
	err := s.tx.WithinTx(ctx, func(ctx context.Context, repos repository.Repos) error {
		b, err := repos.Bookings.GetByID(ctx, bookingID)
		if err != nil {
			return err
		}
		v, err := repos.Vehicles.GetByIDForUpdate(ctx, b.VehicleID)
		if err != nil {
			return err
		}
		if b, err = repos.Bookings.GetByID(ctx, bookingID); err != nil {
			return err
		}

		if existing, err := repos.Rentals.GetByBooking(ctx, b.ID); err == nil {
			return domain.InvalidStatef("booking %d was already checked out as rental %d", b.ID, existing.ID)
		} else if !errors.Is(err, domain.ErrNotFound) {
			return err
		}

		r, err := domain.NewRental(b, mileage, condition, s.clock.Now())
		if err != nil {
			return err
		}
		if err := v.HandOver(mileage); err != nil {
			return err
		}
		if err := repos.Rentals.Create(ctx, r); err != nil {
			return err
		}
		if err := repos.Vehicles.Update(ctx, v); err != nil {
			return err
		}
		rental = r
		return nil
	})
	if err != nil {
		logger.ExitMethodWithError("rentalService.Checkout", err, "bookingID", bookingID)
		return nil, err
	}

	s.audit.Record(ctx, actor, domain.AuditRentalCheckout, domain.ResourceRental, rental.ID,
		fmt.Sprintf("booking %d handed over at %d km", bookingID, rental.PickupMileage))
	logger.ExitMethod("rentalService.Checkout", "rentalID", rental.ID, "bookingID", bookingID)
	return rental, nil
}

func (s *rentalService) Checkin(ctx context.Context, actor domain.Actor, rentalID int32, mileage int, condition string) (*domain.Rental, error) {
	logger.EnterMethod("rentalService.Checkin", "rentalID", rentalID, "mileage", mileage, "actor", actor.Username)

	var rental *domain.Rental
	var lateFee domain.Money
	err := s.tx.WithinTx(ctx, func(ctx context.Context, repos repository.Repos) error {
		r, err := repos.Rentals.GetByID(ctx, rentalID)
		if err != nil {
			return err
		}
		v, err := repos.Vehicles.GetByIDForUpdate(ctx, r.VehicleID)
		if err != nil {
			return err
		}
		if r, err = repos.Rentals.GetByID(ctx, rentalID); err != nil {
			return err
		}
		b, err := repos.Bookings.GetByID(ctx, r.BookingID)
		if err != nil {
			return err
		}

		if lateFee, err = r.CheckIn(mileage, condition, s.clock.Now(), s.clock.Location()); err != nil {
			return err
		}
		if err := v.TakeBack(mileage); err != nil {
			return err
		}
		if err := b.Complete(); err != nil {
			return err
		}

		if err := repos.Rentals.Update(ctx, r); err != nil {
			return err
		}
		if err := repos.Vehicles.Update(ctx, v); err != nil {
			return err
		}
		if err := repos.Bookings.Update(ctx, b); err != nil {
			return err
		}
		rental = r
		return nil
	})
	if err != nil {
		logger.ExitMethodWithError("rentalService.Checkin", err, "rentalID", rentalID)
		return nil, err
	}

	s.audit.Record(ctx, actor, domain.AuditRentalCheckin, domain.ResourceRental, rental.ID,
		fmt.Sprintf("returned at %d km, %d km driven, late fee %s, additional costs %s",
			mileage, rental.DistanceDriven(), lateFee, rental.AdditionalCosts))
	notifyCustomer(ctx, s.repos.Customers, rental.CustomerID, func(ctx context.Context, c *domain.Customer) error {
		return s.emailSvc.SendCheckinReceipt(ctx, c, rental)
	})
	logger.ExitMethod("rentalService.Checkin", "rentalID", rental.ID, "lateFee", lateFee.String())
	return rental, nil
}

func (s *rentalService) CreateDamageReport(ctx context.Context, actor domain.Actor, rentalID int32, req DamageReportRequest) (*domain.DamageReport, *domain.Rental, error) {
	logger.EnterMethod("rentalService.CreateDamageReport", "rentalID", rentalID, "repairCost", req.RepairCost.String(), "actor", actor.Username)

	description := strings.TrimSpace(req.Description)
	if description == "" {
		err := domain.InvalidArgumentf("damage description is required")
		logger.ExitMethodWithError("rentalService.CreateDamageReport", err, "rentalID", rentalID)
		return nil, nil, err
	}

	var report *domain.DamageReport
	var rental *domain.Rental
	err := s.tx.WithinTx(ctx, func(ctx context.Context, repos repository.Repos) error {
		r, err := repos.Rentals.GetByID(ctx, rentalID)
		if err != nil {
			return err
		}
		if err := r.RegisterDamage(description, req.RepairCost); err != nil {
			return err
		}
		dr := &domain.DamageReport{
			RentalID:    r.ID,
			VehicleID:   r.VehicleID,
			Description: description,
			RepairCost:  req.RepairCost,
			Notes:       strings.TrimSpace(req.Notes),
			ReportedBy:  actor.Username,
		}
		if err := repos.DamageReports.Create(ctx, dr); err != nil {
			return err
		}
		if err := repos.Rentals.Update(ctx, r); err != nil {
			return err
		}
		report, rental = dr, r
		return nil
	})
	if err != nil {
		logger.ExitMethodWithError("rentalService.CreateDamageReport", err, "rentalID", rentalID)
		return nil, nil, err
	}

	s.audit.Record(ctx, actor, domain.AuditDamageReportCreated, domain.ResourceDamageReport, report.ID,
		fmt.Sprintf("rental %d: %s (cost: %s)", rentalID, description, req.RepairCost))
	logger.ExitMethod("rentalService.CreateDamageReport", "damageReportID", report.ID, "additionalCosts", rental.AdditionalCosts.String())
	return report, rental, nil
}

func (s *rentalService) GetRental(ctx context.Context, rentalID int32) (*domain.Rental, error) {
	return s.repos.Rentals.GetByID(ctx, rentalID)
}

func (s *rentalService) GetRentalByBooking(ctx context.Context, bookingID int32) (*domain.Rental, error) {
	return s.repos.Rentals.GetByBooking(ctx, bookingID)
}

func (s *rentalService) ListDamageReports(ctx context.Context, rentalID int32) ([]domain.DamageReport, error) {
	if _, err := s.repos.Rentals.GetByID(ctx, rentalID); err != nil {
		return nil, err
	}
	return s.repos.DamageReports.ListByRental(ctx, rentalID)
}
