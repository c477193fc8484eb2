package service_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"rentacar-backend/internal/domain"
)

// MockEmailService
type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) SendBookingConfirmed(ctx context.Context, customer *domain.Customer, booking *domain.Booking, vehicle *domain.Vehicle) error {
	args := m.Called(ctx, customer, booking, vehicle)
	return args.Error(0)
}

func (m *MockEmailService) SendBookingCancelled(ctx context.Context, customer *domain.Customer, booking *domain.Booking) error {
	args := m.Called(ctx, customer, booking)
	return args.Error(0)
}

func (m *MockEmailService) SendCheckinReceipt(ctx context.Context, customer *domain.Customer, rental *domain.Rental) error {
	args := m.Called(ctx, customer, rental)
	return args.Error(0)
}

// MockAuditRepo
type MockAuditRepo struct {
	mock.Mock
}

func (m *MockAuditRepo) Create(ctx context.Context, entry *domain.AuditLog) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockAuditRepo) List(ctx context.Context, limit int) ([]domain.AuditLog, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AuditLog), args.Error(1)
}
