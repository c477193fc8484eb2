package repository

import (
	"context"
	"time"

	"rentacar-backend/internal/domain"
)

type VehicleFilter struct {
	Category domain.VehicleCategory
	Location string
	Status   domain.VehicleStatus
}

type VehicleRepository interface {
	Create(ctx context.Context, vehicle *domain.Vehicle) error
	GetByID(ctx context.Context, id int32) (*domain.Vehicle, error)
	// GetByIDForUpdate loads the vehicle and locks it until the surrounding transaction ends.
	GetByIDForUpdate(ctx context.Context, id int32) (*domain.Vehicle, error)
	GetByPlate(ctx context.Context, plate string) (*domain.Vehicle, error)
	Update(ctx context.Context, vehicle *domain.Vehicle) error
	List(ctx context.Context, filter VehicleFilter) ([]domain.Vehicle, error)
	// ListAvailable returns AVAILABLE vehicles of the category at the location without a
	// confirmed booking overlapping period.
	ListAvailable(ctx context.Context, category domain.VehicleCategory, location string, period domain.DateRange) ([]domain.Vehicle, error)
}

type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) error
	GetByID(ctx context.Context, id int32) (*domain.Booking, error)
	Update(ctx context.Context, booking *domain.Booking) error
	ListByCustomer(ctx context.Context, customerID int32) ([]domain.Booking, error)
	ListByVehicle(ctx context.Context, vehicleID int32) ([]domain.Booking, error)
	// ListOverlapping returns the confirmed bookings of the vehicle that overlap period.
	ListOverlapping(ctx context.Context, vehicleID int32, period domain.DateRange) ([]domain.Booking, error)
	// ListStaleRequests returns REQUESTED bookings whose pickup date is before the given date.
	ListStaleRequests(ctx context.Context, before time.Time) ([]domain.Booking, error)
}

type RentalRepository interface {
	Create(ctx context.Context, rental *domain.Rental) error
	GetByID(ctx context.Context, id int32) (*domain.Rental, error)
	GetByBooking(ctx context.Context, bookingID int32) (*domain.Rental, error)
	Update(ctx context.Context, rental *domain.Rental) error
	// ListOverdue returns rentals not yet returned whose planned return date is before today.
	ListOverdue(ctx context.Context, today time.Time) ([]domain.Rental, error)
}

type DamageReportRepository interface {
	Create(ctx context.Context, report *domain.DamageReport) error
	ListByRental(ctx context.Context, rentalID int32) ([]domain.DamageReport, error)
}

type CustomerRepository interface {
	Create(ctx context.Context, customer *domain.Customer) error
	GetByID(ctx context.Context, id int32) (*domain.Customer, error)
}

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	Count(ctx context.Context) (int, error)
}

type AuditRepository interface {
	Create(ctx context.Context, entry *domain.AuditLog) error
	List(ctx context.Context, limit int) ([]domain.AuditLog, error)
}

// Repos groups the repositories that take part in a unit of work.
type Repos struct {
	Vehicles      VehicleRepository
	Bookings      BookingRepository
	Rentals       RentalRepository
	DamageReports DamageReportRepository
	Customers     CustomerRepository
	Users         UserRepository
}

// Transactor runs fn in one transaction. The transaction commits when fn returns nil and
// rolls back otherwise; repos passed to fn are bound to it.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, repos Repos) error) error
}
