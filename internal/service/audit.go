package service

import (
	"context"
	"strconv"

	"github.com/google/uuid"

	"rentacar-backend/internal/domain"
	"rentacar-backend/internal/logger"
	"rentacar-backend/internal/repository"
	"rentacar-backend/internal/utils"
)

const maxAuditPage = 500

type auditService struct {
	auditRepo repository.AuditRepository
	clock     utils.Clock
}

func NewAuditService(auditRepo repository.AuditRepository, clock utils.Clock) AuditService {
	return &auditService{auditRepo: auditRepo, clock: clock}
}

func (s *auditService) Record(ctx context.Context, actor domain.Actor, action domain.AuditAction, resourceType string, resourceID int32, details string) {
	entry := &domain.AuditLog{
		EventID:      uuid.NewString(),
		Timestamp:    s.clock.Now().UTC(),
		Username:     actor.Username,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   strconv.Itoa(int(resourceID)),
		Details:      details,
		Origin:       actor.Origin,
	}
	if entry.Username == "" {
		entry.Username = "anonymous"
	}

	// The business operation has already committed; a cancelled request must not drop its trail.
	if err := s.auditRepo.Create(context.WithoutCancel(ctx), entry); err != nil {
		logger.Error("Failed to record audit event",
			"eventID", entry.EventID,
			"action", action,
			"resourceType", resourceType,
			"resourceID", resourceID,
			"error", err)
	}
}

func (s *auditService) List(ctx context.Context, limit int) ([]domain.AuditLog, error) {
	if limit <= 0 || limit > maxAuditPage {
		limit = maxAuditPage
	}
	return s.auditRepo.List(ctx, limit)
}
