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

const bookingColumns = `id, customer_id, vehicle_id, pickup_date, return_date, pickup_location, return_location, total_price_cents, status, cancelled_at, created_on, updated_on`

type bookingRepository struct {
	db DBTX
}

func NewBookingRepository(db DBTX) repository.BookingRepository {
	return &bookingRepository{db: db}
}

func scanBooking(s scanner) (*domain.Booking, error) {
	b := &domain.Booking{}
	var cancelledAt sql.NullTime
	err := s.Scan(&b.ID, &b.CustomerID, &b.VehicleID, &b.PickupDate, &b.ReturnDate, &b.PickupLocation,
		&b.ReturnLocation, &b.TotalPrice, &b.Status, &cancelledAt, &b.CreatedOn, &b.UpdatedOn)
	if err != nil {
		return nil, err
	}
	if cancelledAt.Valid {
		b.CancelledAt = &cancelledAt.Time
	}
	return b, nil
}

func (r *bookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	query := `INSERT INTO bookings (customer_id, vehicle_id, pickup_date, return_date, pickup_location, return_location, total_price_cents, status, cancelled_at, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11) RETURNING id`
	b.Touch(time.Now())
	logger.DatabaseCall("INSERT", "bookings", "customerID", b.CustomerID, "vehicleID", b.VehicleID)
	err := r.db.QueryRowContext(ctx, query, b.CustomerID, b.VehicleID, b.PickupDate, b.ReturnDate, b.PickupLocation,
		b.ReturnLocation, b.TotalPrice, b.Status, b.CancelledAt, b.CreatedOn, b.UpdatedOn).Scan(&b.ID)
	logger.DatabaseResult("INSERT", 1, err, "bookingID", b.ID)
	return translateError(err, "booking", b.ID)
}

func (r *bookingRepository) GetByID(ctx context.Context, id int32) (*domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`
	b, err := scanBooking(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, translateError(err, "booking", id)
	}
	return b, nil
}

func (r *bookingRepository) Update(ctx context.Context, b *domain.Booking) error {
	query := `UPDATE bookings SET status=$1, cancelled_at=$2, updated_on=$3 WHERE id=$4`
	b.Touch(time.Now())
	logger.DatabaseCall("UPDATE", "bookings", "bookingID", b.ID, "status", b.Status)
	res, err := r.db.ExecContext(ctx, query, b.Status, b.CancelledAt, b.UpdatedOn, b.ID)
	if err != nil {
		logger.DatabaseResult("UPDATE", 0, err, "bookingID", b.ID)
		return translateError(err, "booking", b.ID)
	}
	n, err := res.RowsAffected()
	logger.DatabaseResult("UPDATE", n, err, "bookingID", b.ID)
	if err != nil {
		return translateError(err, "booking", b.ID)
	}
	if n == 0 {
		return domain.NotFoundf("booking %d not found", b.ID)
	}
	return nil
}

func (r *bookingRepository) ListByCustomer(ctx context.Context, customerID int32) ([]domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE customer_id = $1 ORDER BY created_on DESC, id DESC`
	return r.query(ctx, query, customerID)
}

func (r *bookingRepository) ListByVehicle(ctx context.Context, vehicleID int32) ([]domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE vehicle_id = $1 ORDER BY pickup_date, id`
	return r.query(ctx, query, vehicleID)
}

func (r *bookingRepository) ListOverlapping(ctx context.Context, vehicleID int32, period domain.DateRange) ([]domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings b WHERE b.vehicle_id = $1 AND ` + confirmedOverlap("b", 2, 3) + ` ORDER BY b.pickup_date`
	return r.query(ctx, query, vehicleID, period.Start, period.End)
}

func (r *bookingRepository) ListStaleRequests(ctx context.Context, before time.Time) ([]domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE status = 'REQUESTED' AND pickup_date < $1 ORDER BY pickup_date`
	return r.query(ctx, query, before)
}

func (r *bookingRepository) query(ctx context.Context, query string, args ...any) ([]domain.Booking, error) {
	logger.DatabaseCall("SELECT", "bookings")
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		logger.DatabaseResult("SELECT", 0, err)
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	defer rows.Close()

	var bookings []domain.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan booking: %w", err)
		}
		bookings = append(bookings, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	logger.DatabaseResult("SELECT", int64(len(bookings)), nil)
	return bookings, nil
}
