package postgres

import (
	"context"
	"fmt"

	"rentacar-backend/internal/domain"
	"rentacar-backend/internal/repository"
)

type auditRepository struct {
	db DBTX
}

func NewAuditRepository(db DBTX) repository.AuditRepository {
	return &auditRepository{db: db}
}

func (r *auditRepository) Create(ctx context.Context, e *domain.AuditLog) error {
	query := `INSERT INTO audit_logs (event_id, occurred_at, username, action, resource_type, resource_id, details, origin)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.db.ExecContext(ctx, query, e.EventID, e.Timestamp, e.Username, e.Action, e.ResourceType, e.ResourceID, e.Details, e.Origin)
	if err != nil {
		return fmt.Errorf("failed to insert audit log: %w", err)
	}
	return nil
}

func (r *auditRepository) List(ctx context.Context, limit int) ([]domain.AuditLog, error) {
	query := `SELECT event_id, occurred_at, username, action, resource_type, resource_id, details, origin
	          FROM audit_logs ORDER BY occurred_at DESC LIMIT $1`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit logs: %w", err)
	}
	defer rows.Close()

	var entries []domain.AuditLog
	for rows.Next() {
		var e domain.AuditLog
		if err := rows.Scan(&e.EventID, &e.Timestamp, &e.Username, &e.Action, &e.ResourceType, &e.ResourceID, &e.Details, &e.Origin); err != nil {
			return nil, fmt.Errorf("failed to scan audit log: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
