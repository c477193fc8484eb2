package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"rentacar-backend/internal/domain"
	"rentacar-backend/internal/logger"
	"rentacar-backend/internal/repository"
)

const rentalColumns = `id, booking_id, vehicle_id, customer_id, planned_pickup_date, planned_return_date, actual_pickup_time, actual_return_time,
	pickup_mileage, return_mileage, pickup_condition, return_condition, status, additional_costs_cents, additional_costs_note, created_on, updated_on`

type rentalRepository struct {
	db DBTX
}

func NewRentalRepository(db DBTX) repository.RentalRepository {
	return &rentalRepository{db: db}
}

func scanRental(s scanner) (*domain.Rental, error) {
	rt := &domain.Rental{}
	var returnTime sql.NullTime
	var returnMileage sql.NullInt64
	err := s.Scan(&rt.ID, &rt.BookingID, &rt.VehicleID, &rt.CustomerID, &rt.PlannedPickupDate, &rt.PlannedReturnDate,
		&rt.ActualPickupTime, &returnTime, &rt.PickupMileage, &returnMileage, &rt.PickupCondition, &rt.ReturnCondition,
		&rt.Status, &rt.AdditionalCosts, &rt.AdditionalCostsNote, &rt.CreatedOn, &rt.UpdatedOn)
	if err != nil {
		return nil, err
	}
	if returnTime.Valid {
		rt.ActualReturnTime = &returnTime.Time
	}
	if returnMileage.Valid {
		m := int(returnMileage.Int64)
		rt.ReturnMileage = &m
	}
	return rt, nil
}

func (r *rentalRepository) Create(ctx context.Context, rt *domain.Rental) error {
	query := `INSERT INTO rentals (booking_id, vehicle_id, customer_id, planned_pickup_date, planned_return_date, actual_pickup_time,
	          pickup_mileage, pickup_condition, status, additional_costs_cents, additional_costs_note, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13) RETURNING id`
	rt.Touch(time.Now())
	logger.DatabaseCall("INSERT", "rentals", "bookingID", rt.BookingID)
	err := r.db.QueryRowContext(ctx, query, rt.BookingID, rt.VehicleID, rt.CustomerID, rt.PlannedPickupDate, rt.PlannedReturnDate,
		rt.ActualPickupTime, rt.PickupMileage, rt.PickupCondition, rt.Status, rt.AdditionalCosts, rt.AdditionalCostsNote,
		rt.CreatedOn, rt.UpdatedOn).Scan(&rt.ID)
	logger.DatabaseResult("INSERT", 1, err, "rentalID", rt.ID)
	return translateError(err, "rental for booking", rt.BookingID)
}

func (r *rentalRepository) GetByID(ctx context.Context, id int32) (*domain.Rental, error) {
	query := `SELECT ` + rentalColumns + ` FROM rentals WHERE id = $1`
	rt, err := scanRental(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, translateError(err, "rental", id)
	}
	return rt, nil
}

func (r *rentalRepository) GetByBooking(ctx context.Context, bookingID int32) (*domain.Rental, error) {
	query := `SELECT ` + rentalColumns + ` FROM rentals WHERE booking_id = $1`
	rt, err := scanRental(r.db.QueryRowContext(ctx, query, bookingID))
	if err != nil {
		return nil, translateError(err, "rental for booking", bookingID)
	}
	return rt, nil
}

func (r *rentalRepository) Update(ctx context.Context, rt *domain.Rental) error {
	query := `UPDATE rentals SET actual_return_time=$1, return_mileage=$2, return_condition=$3, status=$4,
	          additional_costs_cents=$5, additional_costs_note=$6, updated_on=$7 WHERE id=$8`
	rt.Touch(time.Now())
	logger.DatabaseCall("UPDATE", "rentals", "rentalID", rt.ID, "status", rt.Status)
	res, err := r.db.ExecContext(ctx, query, rt.ActualReturnTime, rt.ReturnMileage, rt.ReturnCondition, rt.Status,
		rt.AdditionalCosts, rt.AdditionalCostsNote, rt.UpdatedOn, rt.ID)
	if err != nil {
		logger.DatabaseResult("UPDATE", 0, err, "rentalID", rt.ID)
		return translateError(err, "rental", rt.ID)
	}
	n, err := res.RowsAffected()
	logger.DatabaseResult("UPDATE", n, err, "rentalID", rt.ID)
	if err != nil {
		return translateError(err, "rental", rt.ID)
	}
	if n == 0 {
		return domain.NotFoundf("rental %d not found", rt.ID)
	}
	return nil
}

func (r *rentalRepository) ListOverdue(ctx context.Context, today time.Time) ([]domain.Rental, error) {
	query := `SELECT ` + rentalColumns + ` FROM rentals
	          WHERE actual_return_time IS NULL AND planned_return_date < $1
	          ORDER BY planned_return_date, id`
	logger.DatabaseCall("SELECT", "rentals overdue", "today", today.Format(domain.DateLayout))
	rows, err := r.db.QueryContext(ctx, query, today)
	if err != nil {
		logger.DatabaseResult("SELECT", 0, err)
		return nil, fmt.Errorf("failed to list overdue rentals: %w", err)
	}
	defer rows.Close()

	var rentals []domain.Rental
	for rows.Next() {
		rt, err := scanRental(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan rental: %w", err)
		}
		rentals = append(rentals, *rt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list overdue rentals: %w", err)
	}
	logger.DatabaseResult("SELECT", int64(len(rentals)), nil)
	return rentals, nil
}
