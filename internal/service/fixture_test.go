package service_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"rentacar-backend/internal/domain"
	"rentacar-backend/internal/repository"
	"rentacar-backend/internal/repository/memory"
	"rentacar-backend/internal/service"
	"rentacar-backend/internal/utils"
)

var (
	staff = domain.Actor{Username: "clerk", Role: domain.RoleEmployee, Origin: "127.0.0.1"}
	admin = domain.Actor{Username: "admin", Role: domain.RoleAdmin, Origin: "127.0.0.1"}
)

func customerActor(id int32) domain.Actor {
	return domain.Actor{Username: "customer", Role: domain.RoleCustomer, CustomerID: &id, Origin: "127.0.0.1"}
}

// testClock is a settable wall clock shared by all services of a fixture.
type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

type fixture struct {
	ctx   context.Context
	store *memory.Store
	clock *testClock
	email *MockEmailService

	audit     service.AuditService
	vehicles  service.VehicleService
	avail     service.AvailabilityService
	bookings  service.BookingService
	rentals   service.RentalService
	customers service.CustomerService
}

// day returns the date n days after the fixture's start date 2030-03-01.
func day(n int) time.Time {
	return time.Date(2030, 3, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, n)
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return newFixtureWithAudit(t, nil)
}

func newFixtureWithAudit(t *testing.T, auditRepo repository.AuditRepository) *fixture {
	t.Helper()
	store := memory.NewStore()
	if auditRepo == nil {
		auditRepo = store.AuditRepository
	}
	clk := &testClock{now: day(0).Add(10 * time.Hour)}
	clock := utils.NewClockFunc(clk.Now, time.UTC)

	email := new(MockEmailService)
	email.On("SendBookingConfirmed", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()
	email.On("SendBookingCancelled", mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()
	email.On("SendCheckinReceipt", mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()

	repos := store.Repos()
	audit := service.NewAuditService(auditRepo, clock)
	vehicles := service.NewVehicleService(store, repos, audit, clock)
	return &fixture{
		ctx:       context.Background(),
		store:     store,
		clock:     clk,
		email:     email,
		audit:     audit,
		vehicles:  vehicles,
		avail:     service.NewAvailabilityService(repos),
		bookings:  service.NewBookingService(store, repos, vehicles, audit, email, clock),
		rentals:   service.NewRentalService(store, repos, audit, email, clock),
		customers: service.NewCustomerService(store, repos, audit),
	}
}

func (f *fixture) addVehicle(t *testing.T, plate string, category domain.VehicleCategory, location string, mileage int) *domain.Vehicle {
	t.Helper()
	v, err := f.vehicles.AddVehicle(f.ctx, staff, &domain.Vehicle{
		LicensePlate: plate,
		Brand:        "VW",
		Model:        "Passat",
		Year:         2024,
		Category:     category,
		Mileage:      mileage,
		Location:     location,
	})
	require.NoError(t, err)
	return v
}

func (f *fixture) addCustomer(t *testing.T, username string) *domain.Customer {
	t.Helper()
	c, err := f.customers.Register(f.ctx, "127.0.0.1", service.RegisterCustomerRequest{
		Username:            username,
		Password:            "s3cret-password",
		FirstName:           "Max",
		LastName:            "Mustermann",
		Email:               username + "@example.com",
		PhoneNumber:         "+49 30 123456",
		DriverLicenseNumber: "B072RRE2I55",
	})
	require.NoError(t, err)
	return c
}

func (f *fixture) book(t *testing.T, customerID, vehicleID int32, from, to int) *domain.Booking {
	t.Helper()
	b, err := f.bookings.CreateBooking(f.ctx, staff, service.CreateBookingRequest{
		CustomerID:     customerID,
		VehicleID:      vehicleID,
		PickupDate:     day(from),
		ReturnDate:     day(to),
		PickupLocation: "Berlin",
		ReturnLocation: "Berlin",
	})
	require.NoError(t, err)
	return b
}

func (f *fixture) confirmed(t *testing.T, customerID, vehicleID int32, from, to int) *domain.Booking {
	t.Helper()
	b := f.book(t, customerID, vehicleID, from, to)
	b, err := f.bookings.ConfirmBooking(f.ctx, staff, b.ID)
	require.NoError(t, err)
	return b
}

func (f *fixture) auditActions(t *testing.T) []domain.AuditAction {
	t.Helper()
	entries, err := f.audit.List(f.ctx, 100)
	require.NoError(t, err)
	actions := make([]domain.AuditAction, 0, len(entries))
	for i := len(entries) - 1; i >= 0; i-- {
		actions = append(actions, entries[i].Action)
	}
	return actions
}

func clockAt(t time.Time, loc *time.Location) utils.Clock {
	return utils.NewFixedClock(t, loc)
}
