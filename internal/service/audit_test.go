package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"rentacar-backend/internal/domain"
	"rentacar-backend/internal/service"
	"rentacar-backend/internal/utils"
)

func TestAuditService_Record(t *testing.T) {
	repo := new(MockAuditRepo)
	now := time.Date(2030, 3, 1, 10, 0, 0, 0, time.UTC)
	svc := service.NewAuditService(repo, utils.NewFixedClock(now, time.UTC))

	repo.On("Create", mock.Anything, mock.MatchedBy(func(e *domain.AuditLog) bool {
		return e.EventID != "" &&
			e.Timestamp.Equal(now) &&
			e.Username == "clerk" &&
			e.Action == domain.AuditBookingConfirmed &&
			e.ResourceType == domain.ResourceBooking &&
			e.ResourceID == "42" &&
			e.Origin == "127.0.0.1"
	})).Return(nil).Once()

	// A cancelled request context still records the entry.
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	svc.Record(ctx, staff, domain.AuditBookingConfirmed, domain.ResourceBooking, 42, "confirmed")
	repo.AssertExpectations(t)
}

func TestAuditService_List(t *testing.T) {
	repo := new(MockAuditRepo)
	svc := service.NewAuditService(repo, utils.NewClock(time.UTC))
	ctx := context.Background()

	repo.On("List", ctx, 500).Return([]domain.AuditLog{{EventID: "a"}}, nil).Twice()
	repo.On("List", ctx, 10).Return([]domain.AuditLog{}, nil).Once()

	entries, err := svc.List(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
	_, err = svc.List(ctx, 10_000)
	require.NoError(t, err)
	_, err = svc.List(ctx, 10)
	require.NoError(t, err)
	repo.AssertExpectations(t)
}
