package postgres

import (
	"context"
	"fmt"
	"time"

	"rentacar-backend/internal/domain"
	"rentacar-backend/internal/logger"
	"rentacar-backend/internal/repository"
)

const vehicleColumns = `id, license_plate, brand, model, year, category, mileage, location, status, daily_rate_cents, created_on, updated_on`

type vehicleRepository struct {
	db DBTX
}

func NewVehicleRepository(db DBTX) repository.VehicleRepository {
	return &vehicleRepository{db: db}
}

func scanVehicle(s scanner) (*domain.Vehicle, error) {
	v := &domain.Vehicle{}
	err := s.Scan(&v.ID, &v.LicensePlate, &v.Brand, &v.Model, &v.Year, &v.Category, &v.Mileage,
		&v.Location, &v.Status, &v.DailyRate, &v.CreatedOn, &v.UpdatedOn)
	if err != nil {
		return nil, err
	}
	return v, nil
}

func (r *vehicleRepository) Create(ctx context.Context, v *domain.Vehicle) error {
	query := `INSERT INTO vehicles (license_plate, brand, model, year, category, mileage, location, status, daily_rate_cents, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11) RETURNING id`
	v.Touch(time.Now())
	logger.DatabaseCall("INSERT", "vehicles", "plate", v.LicensePlate)
	err := r.db.QueryRowContext(ctx, query, v.LicensePlate, v.Brand, v.Model, v.Year, v.Category, v.Mileage,
		v.Location, v.Status, v.DailyRate, v.CreatedOn, v.UpdatedOn).Scan(&v.ID)
	logger.DatabaseResult("INSERT", 1, err, "vehicleID", v.ID)
	return translateError(err, "vehicle", v.LicensePlate)
}

func (r *vehicleRepository) GetByID(ctx context.Context, id int32) (*domain.Vehicle, error) {
	query := `SELECT ` + vehicleColumns + ` FROM vehicles WHERE id = $1`
	v, err := scanVehicle(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, translateError(err, "vehicle", id)
	}
	return v, nil
}

func (r *vehicleRepository) GetByIDForUpdate(ctx context.Context, id int32) (*domain.Vehicle, error) {
	query := `SELECT ` + vehicleColumns + ` FROM vehicles WHERE id = $1 FOR UPDATE`
	logger.DatabaseCall("SELECT FOR UPDATE", "vehicles", "vehicleID", id)
	v, err := scanVehicle(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		logger.DatabaseResult("SELECT FOR UPDATE", 0, err, "vehicleID", id)
		return nil, translateError(err, "vehicle", id)
	}
	return v, nil
}

func (r *vehicleRepository) GetByPlate(ctx context.Context, plate string) (*domain.Vehicle, error) {
	query := `SELECT ` + vehicleColumns + ` FROM vehicles WHERE license_plate = $1`
	v, err := scanVehicle(r.db.QueryRowContext(ctx, query, domain.NormalizePlate(plate)))
	if err != nil {
		return nil, translateError(err, "vehicle", plate)
	}
	return v, nil
}

func (r *vehicleRepository) Update(ctx context.Context, v *domain.Vehicle) error {
	query := `UPDATE vehicles SET brand=$1, model=$2, year=$3, mileage=$4, location=$5, status=$6, daily_rate_cents=$7, updated_on=$8 WHERE id=$9`
	v.Touch(time.Now())
	logger.DatabaseCall("UPDATE", "vehicles", "vehicleID", v.ID, "status", v.Status)
	res, err := r.db.ExecContext(ctx, query, v.Brand, v.Model, v.Year, v.Mileage, v.Location, v.Status, v.DailyRate, v.UpdatedOn, v.ID)
	if err != nil {
		logger.DatabaseResult("UPDATE", 0, err, "vehicleID", v.ID)
		return translateError(err, "vehicle", v.ID)
	}
	n, err := res.RowsAffected()
	logger.DatabaseResult("UPDATE", n, err, "vehicleID", v.ID)
	if err != nil {
		return translateError(err, "vehicle", v.ID)
	}
	if n == 0 {
		return domain.NotFoundf("vehicle %d not found", v.ID)
	}
	return nil
}

func (r *vehicleRepository) List(ctx context.Context, filter repository.VehicleFilter) ([]domain.Vehicle, error) {
	query := `SELECT ` + vehicleColumns + ` FROM vehicles WHERE 1=1`
	var args []any
	argIdx := 1
	if filter.Category != "" {
		query += fmt.Sprintf(" AND category = $%d", argIdx)
		args = append(args, filter.Category)
		argIdx++
	}
	if filter.Location != "" {
		query += fmt.Sprintf(" AND LOWER(location) = LOWER($%d)", argIdx)
		args = append(args, filter.Location)
		argIdx++
	}
	if filter.Status != "" {
		query += fmt.Sprintf(" AND status = $%d", argIdx)
		args = append(args, filter.Status)
	}
	query += " ORDER BY id"
	return r.query(ctx, query, args...)
}

func (r *vehicleRepository) ListAvailable(ctx context.Context, category domain.VehicleCategory, location string, period domain.DateRange) ([]domain.Vehicle, error) {
	query := `SELECT ` + vehicleColumns + ` FROM vehicles v
	          WHERE v.status = 'AVAILABLE'
	            AND v.category = $1
	            AND ($2 = '' OR LOWER(v.location) = LOWER($2))
	            AND NOT EXISTS (SELECT 1 FROM bookings b WHERE b.vehicle_id = v.id AND ` + confirmedOverlap("b", 3, 4) + `)
	          ORDER BY v.id`
	return r.query(ctx, query, category, location, period.Start, period.End)
}

func (r *vehicleRepository) query(ctx context.Context, query string, args ...any) ([]domain.Vehicle, error) {
	logger.DatabaseCall("SELECT", "vehicles")
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		logger.DatabaseResult("SELECT", 0, err)
		return nil, fmt.Errorf("failed to list vehicles: %w", err)
	}
	defer rows.Close()

	var vehicles []domain.Vehicle
	for rows.Next() {
		v, err := scanVehicle(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan vehicle: %w", err)
		}
		vehicles = append(vehicles, *v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list vehicles: %w", err)
	}
	logger.DatabaseResult("SELECT", int64(len(vehicles)), nil)
	return vehicles, nil
}
