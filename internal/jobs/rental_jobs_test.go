package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"rentacar-backend/internal/config"
	"rentacar-backend/internal/domain"
	"rentacar-backend/internal/repository"
	"rentacar-backend/internal/utils"
)

type MockRentalRepo struct {
	mock.Mock
	repository.RentalRepository
}

func (m *MockRentalRepo) ListOverdue(ctx context.Context, today time.Time) ([]domain.Rental, error) {
	args := m.Called(ctx, today)
	return args.Get(0).([]domain.Rental), args.Error(1)
}

type MockBookingRepo struct {
	mock.Mock
	repository.BookingRepository
}

func (m *MockBookingRepo) ListStaleRequests(ctx context.Context, before time.Time) ([]domain.Booking, error) {
	args := m.Called(ctx, before)
	return args.Get(0).([]domain.Booking), args.Error(1)
}

type MockAuditService struct{ mock.Mock }

func (m *MockAuditService) Record(ctx context.Context, actor domain.Actor, action domain.AuditAction, resourceType string, resourceID int32, details string) {
	m.Called(ctx, actor, action, resourceType, resourceID, details)
}

func (m *MockAuditService) List(ctx context.Context, limit int) ([]domain.AuditLog, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]domain.AuditLog), args.Error(1)
}

func setup(now time.Time, loc *time.Location) (*JobRunner, *MockRentalRepo, *MockBookingRepo, *MockAuditService) {
	rentals := new(MockRentalRepo)
	bookings := new(MockBookingRepo)
	audit := new(MockAuditService)
	jr := NewJobRunner(repository.Repos{Rentals: rentals, Bookings: bookings}, audit, utils.NewFixedClock(now, loc), &config.Config{})
	return jr, rentals, bookings, audit
}

func TestReportOverdueRentals(t *testing.T) {
	today := time.Date(2030, 3, 10, 0, 0, 0, 0, time.UTC)
	jr, rentals, _, audit := setup(today.Add(3*time.Hour), time.UTC)

	rentals.On("ListOverdue", mock.Anything, today).Return([]domain.Rental{
		{Metadata: domain.Metadata{ID: 4}, VehicleID: 2, PlannedReturnDate: time.Date(2030, 3, 8, 0, 0, 0, 0, time.UTC)},
		{Metadata: domain.Metadata{ID: 5}, VehicleID: 3, PlannedReturnDate: time.Date(2030, 3, 9, 0, 0, 0, 0, time.UTC)},
	}, nil)
	audit.On("Record", mock.Anything, domain.SystemActor, domain.AuditRentalOverdue, domain.ResourceRental, int32(4),
		"vehicle 2 due 2030-03-08, 2 day(s) late, accrued late fee 100.00").Once()
	audit.On("Record", mock.Anything, domain.SystemActor, domain.AuditRentalOverdue, domain.ResourceRental, int32(5),
		"vehicle 3 due 2030-03-09, 1 day(s) late, accrued late fee 50.00").Once()

	n, err := jr.reportOverdueRentals(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	rentals.AssertExpectations(t)
	audit.AssertExpectations(t)
}

func TestReportOverdueRentalsUsesBusinessDate(t *testing.T) {
	// 23:30 UTC on March 9th is already March 10th in Berlin.
	berlin := time.FixedZone("CET", 3600)
	jr, rentals, _, _ := setup(time.Date(2030, 3, 9, 23, 30, 0, 0, time.UTC), berlin)
	rentals.On("ListOverdue", mock.Anything, time.Date(2030, 3, 10, 0, 0, 0, 0, time.UTC)).Return([]domain.Rental{}, nil)

	n, err := jr.reportOverdueRentals(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
	rentals.AssertExpectations(t)
}

func TestReportOverdueRentalsStoreError(t *testing.T) {
	jr, rentals, _, audit := setup(time.Date(2030, 3, 10, 0, 0, 0, 0, time.UTC), time.UTC)
	rentals.On("ListOverdue", mock.Anything, mock.Anything).Return([]domain.Rental(nil), errors.New("db down"))

	_, err := jr.reportOverdueRentals(context.Background())
	assert.ErrorContains(t, err, "db down")
	audit.AssertNotCalled(t, "Record", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)

	// the cron entry point swallows the error
	assert.NotPanics(t, jr.ReportOverdueRentals)
}

func TestReportStaleBookingRequests(t *testing.T) {
	today := time.Date(2030, 3, 10, 0, 0, 0, 0, time.UTC)
	jr, _, bookings, audit := setup(today, time.UTC)
	bookings.On("ListStaleRequests", mock.Anything, today).Return([]domain.Booking{
		{Metadata: domain.Metadata{ID: 8}, PickupDate: time.Date(2030, 3, 9, 0, 0, 0, 0, time.UTC), Status: domain.BookingStatusRequested},
	}, nil)

	n, err := jr.reportStaleBookingRequests(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	audit.AssertNotCalled(t, "Record", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestRunWithRecoverySurvivesPanic(t *testing.T) {
	jr, _, _, _ := setup(time.Now(), time.UTC)
	assert.NotPanics(t, func() {
		jr.runWithRecovery("Boom", func(context.Context) error { panic("boom") })
	})
}

func TestRunJob(t *testing.T) {
	today := time.Date(2030, 3, 10, 0, 0, 0, 0, time.UTC)
	jr, rentals, bookings, _ := setup(today, time.UTC)
	rentals.On("ListOverdue", mock.Anything, today).Return([]domain.Rental{}, nil).Once()
	bookings.On("ListStaleRequests", mock.Anything, today).Return([]domain.Booking{}, nil).Once()

	assert.True(t, jr.RunJob("all-nightly"))
	assert.False(t, jr.RunJob("mark-overdue-rentals"))
	rentals.AssertExpectations(t)
	bookings.AssertExpectations(t)
}
