package postgres

import (
	"context"
	"fmt"
	"time"

	"rentacar-backend/internal/domain"
	"rentacar-backend/internal/logger"
	"rentacar-backend/internal/repository"
)

type damageReportRepository struct {
	db DBTX
}

func NewDamageReportRepository(db DBTX) repository.DamageReportRepository {
	return &damageReportRepository{db: db}
}

func (r *damageReportRepository) Create(ctx context.Context, d *domain.DamageReport) error {
	query := `INSERT INTO damage_reports (rental_id, vehicle_id, description, repair_cost_cents, notes, reported_by, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`
	d.Touch(time.Now())
	logger.DatabaseCall("INSERT", "damage_reports", "rentalID", d.RentalID)
	err := r.db.QueryRowContext(ctx, query, d.RentalID, d.VehicleID, d.Description, d.RepairCost, d.Notes, d.ReportedBy,
		d.CreatedOn, d.UpdatedOn).Scan(&d.ID)
	logger.DatabaseResult("INSERT", 1, err, "damageReportID", d.ID)
	return translateError(err, "damage report for rental", d.RentalID)
}

func (r *damageReportRepository) ListByRental(ctx context.Context, rentalID int32) ([]domain.DamageReport, error) {
	query := `SELECT id, rental_id, vehicle_id, description, repair_cost_cents, notes, reported_by, created_on, updated_on
	          FROM damage_reports WHERE rental_id = $1 ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query, rentalID)
	if err != nil {
		return nil, fmt.Errorf("failed to list damage reports: %w", err)
	}
	defer rows.Close()

	var reports []domain.DamageReport
	for rows.Next() {
		var d domain.DamageReport
		if err := rows.Scan(&d.ID, &d.RentalID, &d.VehicleID, &d.Description, &d.RepairCost, &d.Notes, &d.ReportedBy,
			&d.CreatedOn, &d.UpdatedOn); err != nil {
			return nil, fmt.Errorf("failed to scan damage report: %w", err)
		}
		reports = append(reports, d)
	}
	return reports, rows.Err()
}
