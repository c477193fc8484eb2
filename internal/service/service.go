package service

import (
	"context"
	"time"

	"rentacar-backend/internal/domain"
	"rentacar-backend/internal/repository"
)

type VehicleService interface {
	AddVehicle(ctx context.Context, actor domain.Actor, vehicle *domain.Vehicle) (*domain.Vehicle, error)
	UpdateVehicle(ctx context.Context, actor domain.Actor, id int32, patch VehiclePatch) (*domain.Vehicle, error)
	SetVehicleStatus(ctx context.Context, actor domain.Actor, id int32, status domain.VehicleStatus) (*domain.Vehicle, error)
	GetVehicle(ctx context.Context, id int32) (*domain.Vehicle, error)
	GetVehicleByPlate(ctx context.Context, plate string) (*domain.Vehicle, error)
	ListVehicles(ctx context.Context, filter repository.VehicleFilter) ([]domain.Vehicle, error)
	FindAvailable(ctx context.Context, category domain.VehicleCategory, location string, start, end time.Time) ([]domain.Vehicle, error)
}

type AvailabilityService interface {
	IsAvailable(ctx context.Context, vehicleID int32, start, end time.Time) (bool, error)
}

type BookingService interface {
	CreateBooking(ctx context.Context, actor domain.Actor, req CreateBookingRequest) (*domain.Booking, error)
	ConfirmBooking(ctx context.Context, actor domain.Actor, bookingID int32) (*domain.Booking, error)
	CancelBooking(ctx context.Context, actor domain.Actor, bookingID int32) (*domain.Booking, error)
	GetBooking(ctx context.Context, actor domain.Actor, bookingID int32) (*domain.Booking, error)
	ListCustomerBookings(ctx context.Context, actor domain.Actor, customerID int32) ([]domain.Booking, error)
	ListVehicleBookings(ctx context.Context, vehicleID int32) ([]domain.Booking, error)
	SearchAvailableVehicles(ctx context.Context, category domain.VehicleCategory, location string, start, end time.Time) ([]domain.Vehicle, error)
}

type RentalService interface {
	Checkout(ctx context.Context, actor domain.Actor, bookingID int32, mileage int, condition string) (*domain.Rental, error)
	Checkin(ctx context.Context, actor domain.Actor, rentalID int32, mileage int, condition string) (*domain.Rental, error)
	CreateDamageReport(ctx context.Context, actor domain.Actor, rentalID int32, req DamageReportRequest) (*domain.DamageReport, *domain.Rental, error)
	GetRental(ctx context.Context, rentalID int32) (*domain.Rental, error)
	GetRentalByBooking(ctx context.Context, bookingID int32) (*domain.Rental, error)
	ListDamageReports(ctx context.Context, rentalID int32) ([]domain.DamageReport, error)
}

type CustomerService interface {
	Register(ctx context.Context, origin string, req RegisterCustomerRequest) (*domain.Customer, error)
	GetCustomer(ctx context.Context, actor domain.Actor, customerID int32) (*domain.Customer, error)
}

type AuthService interface {
	Login(ctx context.Context, username, password, origin string) (*LoginResult, error)
	CreateUser(ctx context.Context, actor domain.Actor, username, password string, role domain.Role) (*domain.User, error)
	// EnsureAdmin creates the first administrator when no user exists yet.
	EnsureAdmin(ctx context.Context, username, password string) error
}

type AuditService interface {
	// Record persists an audit entry. Failures are logged, never returned.
	Record(ctx context.Context, actor domain.Actor, action domain.AuditAction, resourceType string, resourceID int32, details string)
	List(ctx context.Context, limit int) ([]domain.AuditLog, error)
}

type EmailService interface {
	SendBookingConfirmed(ctx context.Context, customer *domain.Customer, booking *domain.Booking, vehicle *domain.Vehicle) error
	SendBookingCancelled(ctx context.Context, customer *domain.Customer, booking *domain.Booking) error
	SendCheckinReceipt(ctx context.Context, customer *domain.Customer, rental *domain.Rental) error
}

type VehiclePatch struct {
	Brand     *string
	Model     *string
	Location  *string
	Mileage   *int
	// DailyRate changes the listed rate only; quotes and bookings keep using the category rate.
	DailyRate *domain.Money
}

type CreateBookingRequest struct {
	CustomerID     int32
	VehicleID      int32
	PickupDate     time.Time
	ReturnDate     time.Time
	PickupLocation string
	ReturnLocation string
}

type DamageReportRequest struct {
	Description string
	RepairCost  domain.Money
	Notes       string
}

type RegisterCustomerRequest struct {
	Username            string
	Password            string
	FirstName           string
	LastName            string
	Email               string
	PhoneNumber         string
	DriverLicenseNumber string
}

type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      *domain.User
}
