package service_test

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"rentacar-backend/internal/domain"
	"rentacar-backend/internal/service"
)

func TestBookingService_CreateBooking(t *testing.T) {
	f := newFixture(t)
	v := f.addVehicle(t, "b-rc 101", domain.VehicleCategoryMidSize, "Berlin", 49000)
	c := f.addCustomer(t, "maxm")

	t.Run("Success", func(t *testing.T) {
		b := f.book(t, c.ID, v.ID, 1, 7)
		assert.Equal(t, domain.BookingStatusRequested, b.Status)
		assert.Equal(t, "420.00", b.TotalPrice.String())
		assert.Equal(t, day(1), b.PickupDate)
		assert.Equal(t, day(7), b.ReturnDate)
		assert.Contains(t, f.auditActions(t), domain.AuditBookingCreated)
	})

	t.Run("Defaults Locations To Vehicle", func(t *testing.T) {
		b, err := f.bookings.CreateBooking(f.ctx, staff, service.CreateBookingRequest{
			CustomerID: c.ID, VehicleID: v.ID, PickupDate: day(20), ReturnDate: day(20),
		})
		require.NoError(t, err)
		assert.Equal(t, "Berlin", b.PickupLocation)
		assert.Equal(t, "Berlin", b.ReturnLocation)
		assert.Equal(t, "60.00", b.TotalPrice.String())
	})

	tests := []struct {
		name    string
		req     service.CreateBookingRequest
		wantErr error
	}{
		{"Pickup In Past", service.CreateBookingRequest{CustomerID: c.ID, VehicleID: v.ID, PickupDate: day(-1), ReturnDate: day(2)}, domain.ErrInvalidArgument},
		{"Pickup After Return", service.CreateBookingRequest{CustomerID: c.ID, VehicleID: v.ID, PickupDate: day(5), ReturnDate: day(4)}, domain.ErrInvalidArgument},
		{"Missing Date", service.CreateBookingRequest{CustomerID: c.ID, VehicleID: v.ID, PickupDate: day(5)}, domain.ErrInvalidArgument},
		{"Unknown Customer", service.CreateBookingRequest{CustomerID: 999, VehicleID: v.ID, PickupDate: day(5), ReturnDate: day(6)}, domain.ErrNotFound},
		{"Unknown Vehicle", service.CreateBookingRequest{CustomerID: c.ID, VehicleID: 999, PickupDate: day(5), ReturnDate: day(6)}, domain.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := f.bookings.CreateBooking(f.ctx, staff, tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, res)
		})
	}

	t.Run("Pickup Today Is Allowed", func(t *testing.T) {
		_, err := f.bookings.CreateBooking(f.ctx, staff, service.CreateBookingRequest{
			CustomerID: c.ID, VehicleID: v.ID, PickupDate: day(0), ReturnDate: day(0),
		})
		assert.NoError(t, err)
	})
}

func TestBookingService_CreateBooking_Ownership(t *testing.T) {
	f := newFixture(t)
	v := f.addVehicle(t, "B-RC 102", domain.VehicleCategoryEconomy, "Berlin", 0)
	alice := f.addCustomer(t, "alice")
	bob := f.addCustomer(t, "bob")

	t.Run("Customer Books For Self By Default", func(t *testing.T) {
		b, err := f.bookings.CreateBooking(f.ctx, customerActor(alice.ID), service.CreateBookingRequest{
			VehicleID: v.ID, PickupDate: day(1), ReturnDate: day(2),
		})
		require.NoError(t, err)
		assert.Equal(t, alice.ID, b.CustomerID)
	})

	t.Run("Customer Cannot Book For Others", func(t *testing.T) {
		_, err := f.bookings.CreateBooking(f.ctx, customerActor(alice.ID), service.CreateBookingRequest{
			CustomerID: bob.ID, VehicleID: v.ID, PickupDate: day(1), ReturnDate: day(2),
		})
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("Foreign Booking Is Hidden", func(t *testing.T) {
		b := f.book(t, bob.ID, v.ID, 10, 11)
		_, err := f.bookings.GetBooking(f.ctx, customerActor(alice.ID), b.ID)
		assert.ErrorIs(t, err, domain.ErrNotFound)

		got, err := f.bookings.GetBooking(f.ctx, customerActor(bob.ID), b.ID)
		require.NoError(t, err)
		assert.Equal(t, b.ID, got.ID)

		_, err = f.bookings.CancelBooking(f.ctx, customerActor(alice.ID), b.ID)
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("History", func(t *testing.T) {
		_, err := f.bookings.ListCustomerBookings(f.ctx, customerActor(alice.ID), bob.ID)
		assert.ErrorIs(t, err, domain.ErrForbidden)

		history, err := f.bookings.ListCustomerBookings(f.ctx, staff, bob.ID)
		require.NoError(t, err)
		assert.Len(t, history, 1)
	})
}

func TestBookingService_AvailabilityBoundaries(t *testing.T) {
	f := newFixture(t)
	v := f.addVehicle(t, "B-RC 103", domain.VehicleCategoryCompact, "Berlin", 0)
	c := f.addCustomer(t, "carla")
	f.confirmed(t, c.ID, v.ID, 3, 5)

	tests := []struct {
		name      string
		from, to  int
		available bool
	}{
		{"Touching At End", 5, 10, false},
		{"Touching At Start", 1, 3, false},
		{"Inside", 4, 4, false},
		{"Enclosing", 1, 10, false},
		{"After", 6, 10, true},
		{"Before", 1, 2, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, err := f.avail.IsAvailable(f.ctx, v.ID, day(tt.from), day(tt.to))
			require.NoError(t, err)
			assert.Equal(t, tt.available, ok)

			// Read paths are idempotent.
			again, err := f.avail.IsAvailable(f.ctx, v.ID, day(tt.from), day(tt.to))
			require.NoError(t, err)
			assert.Equal(t, ok, again)

			_, err = f.bookings.CreateBooking(f.ctx, staff, service.CreateBookingRequest{
				CustomerID: c.ID, VehicleID: v.ID, PickupDate: day(tt.from), ReturnDate: day(tt.to),
			})
			if tt.available {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, domain.ErrConflict)
			}
		})
	}

	t.Run("Invalid Range", func(t *testing.T) {
		_, err := f.avail.IsAvailable(f.ctx, v.ID, day(5), day(4))
		assert.ErrorIs(t, err, domain.ErrInvalidArgument)
	})

	t.Run("Unknown Vehicle", func(t *testing.T) {
		_, err := f.avail.IsAvailable(f.ctx, 404, day(5), day(6))
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestBookingService_RequestsDoNotBlock(t *testing.T) {
	f := newFixture(t)
	v := f.addVehicle(t, "B-RC 104", domain.VehicleCategorySUV, "Berlin", 0)
	a := f.addCustomer(t, "anna")
	b := f.addCustomer(t, "bert")

	first := f.book(t, a.ID, v.ID, 2, 6)
	second := f.book(t, b.ID, v.ID, 4, 8)

	ok, err := f.avail.IsAvailable(f.ctx, v.ID, day(2), day(8))
	require.NoError(t, err)
	assert.True(t, ok, "requested bookings never block")

	_, err = f.bookings.ConfirmBooking(f.ctx, staff, first.ID)
	require.NoError(t, err)

	_, err = f.bookings.ConfirmBooking(f.ctx, staff, second.ID)
	assert.ErrorIs(t, err, domain.ErrConflict)

	got, err := f.bookings.GetBooking(f.ctx, staff, second.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingStatusRequested, got.Status)
}

func TestBookingService_ConfirmBooking(t *testing.T) {
	f := newFixture(t)
	v := f.addVehicle(t, "B-RC 105", domain.VehicleCategoryLuxury, "Munich", 0)
	c := f.addCustomer(t, "dora")

	b := f.book(t, c.ID, v.ID, 2, 4)
	confirmed, err := f.bookings.ConfirmBooking(f.ctx, staff, b.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingStatusConfirmed, confirmed.Status)

	vehicle, err := f.vehicles.GetVehicle(f.ctx, v.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.VehicleStatusRented, vehicle.Status, "vehicle is reserved at confirmation")

	f.email.AssertCalled(t, "SendBookingConfirmed", mock.Anything, mock.MatchedBy(func(c *domain.Customer) bool {
		return c.Username == "dora"
	}), mock.Anything, mock.Anything)

	t.Run("Twice", func(t *testing.T) {
		_, err := f.bookings.ConfirmBooking(f.ctx, staff, b.ID)
		assert.ErrorIs(t, err, domain.ErrInvalidState)
	})

	t.Run("Cancelled", func(t *testing.T) {
		other := f.book(t, c.ID, v.ID, 10, 11)
		_, err := f.bookings.CancelBooking(f.ctx, staff, other.ID)
		require.NoError(t, err)
		_, err = f.bookings.ConfirmBooking(f.ctx, staff, other.ID)
		assert.ErrorIs(t, err, domain.ErrInvalidState)
	})

	t.Run("Not Found", func(t *testing.T) {
		_, err := f.bookings.ConfirmBooking(f.ctx, staff, 999)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestBookingService_ConfirmRequiresAvailableVehicle(t *testing.T) {
	f := newFixture(t)
	v := f.addVehicle(t, "B-RC 106", domain.VehicleCategoryVan, "Berlin", 0)
	c := f.addCustomer(t, "emil")
	b := f.book(t, c.ID, v.ID, 2, 4)

	_, err := f.vehicles.SetVehicleStatus(f.ctx, staff, v.ID, domain.VehicleStatusMaintenance)
	require.NoError(t, err)

	_, err = f.bookings.ConfirmBooking(f.ctx, staff, b.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	got, err := f.bookings.GetBooking(f.ctx, staff, b.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingStatusRequested, got.Status, "failed confirmation leaves no partial state")
}

func TestBookingService_CancelBooking(t *testing.T) {
	t.Run("Confirmed Booking Releases Vehicle", func(t *testing.T) {
		f := newFixture(t)
		v := f.addVehicle(t, "B-RC 107", domain.VehicleCategoryEconomy, "Berlin", 0)
		c := f.addCustomer(t, "fritz")
		b := f.confirmed(t, c.ID, v.ID, 3, 5)

		cancelled, err := f.bookings.CancelBooking(f.ctx, customerActor(c.ID), b.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.BookingStatusCancelled, cancelled.Status)
		require.NotNil(t, cancelled.CancelledAt)
		assert.Equal(t, f.clock.Now(), *cancelled.CancelledAt)

		vehicle, err := f.vehicles.GetVehicle(f.ctx, v.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.VehicleStatusAvailable, vehicle.Status)

		ok, err := f.avail.IsAvailable(f.ctx, v.ID, day(3), day(5))
		require.NoError(t, err)
		assert.True(t, ok)
		f.email.AssertCalled(t, "SendBookingCancelled", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Requested Booking Leaves Vehicle Alone", func(t *testing.T) {
		f := newFixture(t)
		v := f.addVehicle(t, "B-RC 108", domain.VehicleCategoryEconomy, "Berlin", 0)
		c := f.addCustomer(t, "gina")
		other := f.confirmed(t, c.ID, v.ID, 10, 12)
		b := f.book(t, c.ID, v.ID, 3, 5)

		_, err := f.bookings.CancelBooking(f.ctx, staff, b.ID)
		require.NoError(t, err)

		vehicle, err := f.vehicles.GetVehicle(f.ctx, v.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.VehicleStatusRented, vehicle.Status, "still reserved by booking %d", other.ID)
	})

	t.Run("Deadline", func(t *testing.T) {
		f := newFixture(t)
		v := f.addVehicle(t, "B-RC 109", domain.VehicleCategoryEconomy, "Berlin", 0)
		c := f.addCustomer(t, "hans")
		onTime := f.book(t, c.ID, v.ID, 3, 4)
		late := f.book(t, c.ID, v.ID, 3, 4)

		// Pickup on day 3: cancellations close at day 2, 00:00.
		f.clock.Set(day(2))
		_, err := f.bookings.CancelBooking(f.ctx, staff, onTime.ID)
		assert.NoError(t, err, "exactly at the deadline")

		f.clock.Set(day(2).Add(time.Second))
		_, err = f.bookings.CancelBooking(f.ctx, staff, late.ID)
		assert.ErrorIs(t, err, domain.ErrInvalidState)
		assert.Contains(t, err.Error(), "too late to cancel")
	})

	t.Run("Terminal", func(t *testing.T) {
		f := newFixture(t)
		v := f.addVehicle(t, "B-RC 110", domain.VehicleCategoryEconomy, "Berlin", 0)
		c := f.addCustomer(t, "ida")
		b := f.book(t, c.ID, v.ID, 3, 4)

		_, err := f.bookings.CancelBooking(f.ctx, staff, b.ID)
		require.NoError(t, err)
		_, err = f.bookings.CancelBooking(f.ctx, staff, b.ID)
		assert.ErrorIs(t, err, domain.ErrInvalidState)
	})

	t.Run("Checked Out Booking", func(t *testing.T) {
		f := newFixture(t)
		v := f.addVehicle(t, "B-RC 111", domain.VehicleCategoryEconomy, "Berlin", 0)
		c := f.addCustomer(t, "jan")
		b := f.confirmed(t, c.ID, v.ID, 3, 4)
		_, err := f.rentals.Checkout(f.ctx, staff, b.ID, 100, "clean")
		require.NoError(t, err)

		_, err = f.bookings.CancelBooking(f.ctx, staff, b.ID)
		assert.ErrorIs(t, err, domain.ErrInvalidState)
	})
}

func TestBookingService_ConcurrentConfirm(t *testing.T) {
	f := newFixture(t)
	v := f.addVehicle(t, "B-RC 112", domain.VehicleCategorySports, "Berlin", 0)

	const n = 8
	ids := make([]int32, n)
	for i := range ids {
		c := f.addCustomer(t, "racer"+string(rune('a'+i)))
		ids[i] = f.book(t, c.ID, v.ID, 5+i%3, 9).ID
	}

	var wg sync.WaitGroup
	errCh := make(chan error, n)
	for _, id := range ids {
		wg.Add(1)
		go func(id int32) {
			defer wg.Done()
			_, err := f.bookings.ConfirmBooking(f.ctx, staff, id)
			errCh <- err
		}(id)
	}
	wg.Wait()
	close(errCh)

	success := 0
	for err := range errCh {
		if err == nil {
			success++
			continue
		}
		assert.ErrorIs(t, err, domain.ErrConflict)
	}
	assert.Equal(t, 1, success, "exactly one overlapping confirmation wins")

	bookings, err := f.bookings.ListVehicleBookings(f.ctx, v.ID)
	require.NoError(t, err)
	confirmed := 0
	for _, b := range bookings {
		if b.Status == domain.BookingStatusConfirmed {
			confirmed++
		}
	}
	assert.Equal(t, 1, confirmed)
}

func TestBookingService_AuditFailureDoesNotFailOperation(t *testing.T) {
	auditRepo := new(MockAuditRepo)
	auditRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.AuditLog")).Return(errors.New("audit store unavailable"))

	f := newFixtureWithAudit(t, auditRepo)
	v := f.addVehicle(t, "B-RC 113", domain.VehicleCategoryMidSize, "Berlin", 0)
	c := f.addCustomer(t, "kurt")

	b := f.book(t, c.ID, v.ID, 1, 7)
	confirmed, err := f.bookings.ConfirmBooking(f.ctx, staff, b.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingStatusConfirmed, confirmed.Status)

	auditRepo.AssertCalled(t, "Create", mock.Anything, mock.MatchedBy(func(e *domain.AuditLog) bool {
		return e.Action == domain.AuditBookingConfirmed && e.Username == "clerk"
	}))
}

func TestBookingService_EmailFailureDoesNotFailOperation(t *testing.T) {
	f := newFixture(t)
	f.email.ExpectedCalls = nil
	f.email.On("SendBookingConfirmed", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(errors.New("smtp down"))

	v := f.addVehicle(t, "B-RC 114", domain.VehicleCategoryMidSize, "Berlin", 0)
	c := f.addCustomer(t, "lena")
	b := f.book(t, c.ID, v.ID, 1, 2)

	_, err := f.bookings.ConfirmBooking(f.ctx, staff, b.ID)
	assert.NoError(t, err)
	f.email.AssertExpectations(t)
}

func TestBookingService_SearchAvailableVehicles(t *testing.T) {
	f := newFixture(t)
	booked := f.addVehicle(t, "B-RC 115", domain.VehicleCategoryMidSize, "Berlin", 0)
	free := f.addVehicle(t, "B-RC 116", domain.VehicleCategoryMidSize, "Berlin", 0)
	f.addVehicle(t, "M-RC 117", domain.VehicleCategoryMidSize, "Munich", 0)
	f.addVehicle(t, "B-RC 118", domain.VehicleCategoryEconomy, "Berlin", 0)
	c := f.addCustomer(t, "mara")
	f.confirmed(t, c.ID, booked.ID, 3, 5)

	results, err := f.bookings.SearchAvailableVehicles(f.ctx, domain.VehicleCategoryMidSize, "berlin", day(4), day(6))
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, free.ID, results[0].ID)

	_, err = f.bookings.SearchAvailableVehicles(f.ctx, domain.VehicleCategoryMidSize, "Berlin", day(-2), day(1))
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
}
