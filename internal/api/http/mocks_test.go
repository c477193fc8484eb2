package http

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"rentacar-backend/internal/domain"
	"rentacar-backend/internal/repository"
	"rentacar-backend/internal/service"
)

type MockVehicleService struct{ mock.Mock }

func (m *MockVehicleService) AddVehicle(ctx context.Context, actor domain.Actor, v *domain.Vehicle) (*domain.Vehicle, error) {
	args := m.Called(ctx, actor, v)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Vehicle), args.Error(1)
}

func (m *MockVehicleService) UpdateVehicle(ctx context.Context, actor domain.Actor, id int32, patch service.VehiclePatch) (*domain.Vehicle, error) {
	args := m.Called(ctx, actor, id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Vehicle), args.Error(1)
}

func (m *MockVehicleService) SetVehicleStatus(ctx context.Context, actor domain.Actor, id int32, status domain.VehicleStatus) (*domain.Vehicle, error) {
	args := m.Called(ctx, actor, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Vehicle), args.Error(1)
}

func (m *MockVehicleService) GetVehicle(ctx context.Context, id int32) (*domain.Vehicle, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Vehicle), args.Error(1)
}

func (m *MockVehicleService) GetVehicleByPlate(ctx context.Context, plate string) (*domain.Vehicle, error) {
	args := m.Called(ctx, plate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Vehicle), args.Error(1)
}

func (m *MockVehicleService) ListVehicles(ctx context.Context, filter repository.VehicleFilter) ([]domain.Vehicle, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.Vehicle), args.Error(1)
}

func (m *MockVehicleService) FindAvailable(ctx context.Context, category domain.VehicleCategory, location string, start, end time.Time) ([]domain.Vehicle, error) {
	args := m.Called(ctx, category, location, start, end)
	return args.Get(0).([]domain.Vehicle), args.Error(1)
}

type MockAvailabilityService struct{ mock.Mock }

func (m *MockAvailabilityService) IsAvailable(ctx context.Context, vehicleID int32, start, end time.Time) (bool, error) {
	args := m.Called(ctx, vehicleID, start, end)
	return args.Bool(0), args.Error(1)
}

type MockBookingService struct{ mock.Mock }

func (m *MockBookingService) CreateBooking(ctx context.Context, actor domain.Actor, req service.CreateBookingRequest) (*domain.Booking, error) {
	args := m.Called(ctx, actor, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingService) ConfirmBooking(ctx context.Context, actor domain.Actor, id int32) (*domain.Booking, error) {
	args := m.Called(ctx, actor, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingService) CancelBooking(ctx context.Context, actor domain.Actor, id int32) (*domain.Booking, error) {
	args := m.Called(ctx, actor, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingService) GetBooking(ctx context.Context, actor domain.Actor, id int32) (*domain.Booking, error) {
	args := m.Called(ctx, actor, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingService) ListCustomerBookings(ctx context.Context, actor domain.Actor, customerID int32) ([]domain.Booking, error) {
	args := m.Called(ctx, actor, customerID)
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *MockBookingService) ListVehicleBookings(ctx context.Context, vehicleID int32) ([]domain.Booking, error) {
	args := m.Called(ctx, vehicleID)
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *MockBookingService) SearchAvailableVehicles(ctx context.Context, category domain.VehicleCategory, location string, start, end time.Time) ([]domain.Vehicle, error) {
	args := m.Called(ctx, category, location, start, end)
	return args.Get(0).([]domain.Vehicle), args.Error(1)
}

type MockRentalService struct{ mock.Mock }

func (m *MockRentalService) Checkout(ctx context.Context, actor domain.Actor, bookingID int32, mileage int, condition string) (*domain.Rental, error) {
	args := m.Called(ctx, actor, bookingID, mileage, condition)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Rental), args.Error(1)
}

func (m *MockRentalService) Checkin(ctx context.Context, actor domain.Actor, rentalID int32, mileage int, condition string) (*domain.Rental, error) {
	args := m.Called(ctx, actor, rentalID, mileage, condition)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Rental), args.Error(1)
}

func (m *MockRentalService) CreateDamageReport(ctx context.Context, actor domain.Actor, rentalID int32, req service.DamageReportRequest) (*domain.DamageReport, *domain.Rental, error) {
	args := m.Called(ctx, actor, rentalID, req)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*domain.DamageReport), args.Get(1).(*domain.Rental), args.Error(2)
}

func (m *MockRentalService) GetRental(ctx context.Context, id int32) (*domain.Rental, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Rental), args.Error(1)
}

func (m *MockRentalService) GetRentalByBooking(ctx context.Context, bookingID int32) (*domain.Rental, error) {
	args := m.Called(ctx, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Rental), args.Error(1)
}

func (m *MockRentalService) ListDamageReports(ctx context.Context, rentalID int32) ([]domain.DamageReport, error) {
	args := m.Called(ctx, rentalID)
	return args.Get(0).([]domain.DamageReport), args.Error(1)
}

type MockCustomerService struct{ mock.Mock }

func (m *MockCustomerService) Register(ctx context.Context, origin string, req service.RegisterCustomerRequest) (*domain.Customer, error) {
	args := m.Called(ctx, origin, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Customer), args.Error(1)
}

func (m *MockCustomerService) GetCustomer(ctx context.Context, actor domain.Actor, id int32) (*domain.Customer, error) {
	args := m.Called(ctx, actor, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Customer), args.Error(1)
}

type MockAuthService struct{ mock.Mock }

func (m *MockAuthService) Login(ctx context.Context, username, password, origin string) (*service.LoginResult, error) {
	args := m.Called(ctx, username, password, origin)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.LoginResult), args.Error(1)
}

func (m *MockAuthService) CreateUser(ctx context.Context, actor domain.Actor, username, password string, role domain.Role) (*domain.User, error) {
	args := m.Called(ctx, actor, username, password, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockAuthService) EnsureAdmin(ctx context.Context, username, password string) error {
	return m.Called(ctx, username, password).Error(0)
}

type MockAuditService struct{ mock.Mock }

func (m *MockAuditService) Record(ctx context.Context, actor domain.Actor, action domain.AuditAction, resourceType string, resourceID int32, details string) {
	m.Called(ctx, actor, action, resourceType, resourceID, details)
}

func (m *MockAuditService) List(ctx context.Context, limit int) ([]domain.AuditLog, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]domain.AuditLog), args.Error(1)
}

type failingPinger struct{ err error }

func (p failingPinger) PingContext(context.Context) error { return p.err }
