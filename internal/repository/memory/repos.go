package memory

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"rentacar-backend/internal/domain"
	"rentacar-backend/internal/repository"
)

type vehicleRepository struct{ v *view }

func (r *vehicleRepository) Create(ctx context.Context, vehicle *domain.Vehicle) error {
	return r.v.do(func(st *state) error {
		for _, existing := range st.vehicles {
			if existing.LicensePlate == vehicle.LicensePlate {
				return domain.Conflictf("vehicle %s already exists", vehicle.LicensePlate)
			}
		}
		vehicle.ID = st.nextID("vehicles")
		vehicle.Touch(time.Now())
		st.vehicles[vehicle.ID] = *vehicle
		return nil
	})
}

func (r *vehicleRepository) GetByID(ctx context.Context, id int32) (*domain.Vehicle, error) {
	var out domain.Vehicle
	err := r.v.do(func(st *state) error {
		v, ok := st.vehicles[id]
		if !ok {
			return domain.NotFoundf("vehicle %d not found", id)
		}
		out = v
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// GetByIDForUpdate needs no extra locking: transactions already run one at a time.
func (r *vehicleRepository) GetByIDForUpdate(ctx context.Context, id int32) (*domain.Vehicle, error) {
	return r.GetByID(ctx, id)
}

func (r *vehicleRepository) GetByPlate(ctx context.Context, plate string) (*domain.Vehicle, error) {
	plate = domain.NormalizePlate(plate)
	var out *domain.Vehicle
	err := r.v.do(func(st *state) error {
		for _, v := range st.vehicles {
			if v.LicensePlate == plate {
				found := v
				out = &found
				return nil
			}
		}
		return domain.NotFoundf("vehicle %s not found", plate)
	})
	return out, err
}

func (r *vehicleRepository) Update(ctx context.Context, vehicle *domain.Vehicle) error {
	return r.v.do(func(st *state) error {
		if _, ok := st.vehicles[vehicle.ID]; !ok {
			return domain.NotFoundf("vehicle %d not found", vehicle.ID)
		}
		vehicle.Touch(time.Now())
		st.vehicles[vehicle.ID] = *vehicle
		return nil
	})
}

func (r *vehicleRepository) List(ctx context.Context, filter repository.VehicleFilter) ([]domain.Vehicle, error) {
	var out []domain.Vehicle
	err := r.v.do(func(st *state) error {
		for _, v := range st.vehicles {
			if filter.Category != "" && v.Category != filter.Category {
				continue
			}
			if filter.Location != "" && !strings.EqualFold(v.Location, filter.Location) {
				continue
			}
			if filter.Status != "" && v.Status != filter.Status {
				continue
			}
			out = append(out, v)
		}
		return nil
	})
	sortByID(out, func(v domain.Vehicle) int32 { return v.ID })
	return out, err
}

func (r *vehicleRepository) ListAvailable(ctx context.Context, category domain.VehicleCategory, location string, period domain.DateRange) ([]domain.Vehicle, error) {
	var out []domain.Vehicle
	err := r.v.do(func(st *state) error {
		for _, v := range st.vehicles {
			if v.Status != domain.VehicleStatusAvailable || v.Category != category {
				continue
			}
			if location != "" && !strings.EqualFold(v.Location, location) {
				continue
			}
			if len(overlapping(st, v.ID, period)) > 0 {
				continue
			}
			out = append(out, v)
		}
		return nil
	})
	sortByID(out, func(v domain.Vehicle) int32 { return v.ID })
	return out, err
}

// overlapping applies the domain conflict predicate to every booking of the vehicle.
func overlapping(st *state, vehicleID int32, period domain.DateRange) []domain.Booking {
	var out []domain.Booking
	for _, b := range st.bookings {
		if b.VehicleID == vehicleID && b.Overlaps(period) {
			out = append(out, b)
		}
	}
	return out
}

type bookingRepository struct{ v *view }

func (r *bookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	return r.v.do(func(st *state) error {
		booking.ID = st.nextID("bookings")
		booking.Touch(time.Now())
		st.bookings[booking.ID] = *booking
		return nil
	})
}

func (r *bookingRepository) GetByID(ctx context.Context, id int32) (*domain.Booking, error) {
	var out domain.Booking
	err := r.v.do(func(st *state) error {
		b, ok := st.bookings[id]
		if !ok {
			return domain.NotFoundf("booking %d not found", id)
		}
		out = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *bookingRepository) Update(ctx context.Context, booking *domain.Booking) error {
	return r.v.do(func(st *state) error {
		if _, ok := st.bookings[booking.ID]; !ok {
			return domain.NotFoundf("booking %d not found", booking.ID)
		}
		booking.Touch(time.Now())
		st.bookings[booking.ID] = *booking
		return nil
	})
}

func (r *bookingRepository) ListByCustomer(ctx context.Context, customerID int32) ([]domain.Booking, error) {
	out, err := r.filter(func(b domain.Booking) bool { return b.CustomerID == customerID })
	// newest first
	slices.Reverse(out)
	return out, err
}

func (r *bookingRepository) ListByVehicle(ctx context.Context, vehicleID int32) ([]domain.Booking, error) {
	out, err := r.filter(func(b domain.Booking) bool { return b.VehicleID == vehicleID })
	slices.SortStableFunc(out, func(a, b domain.Booking) int { return a.PickupDate.Compare(b.PickupDate) })
	return out, err
}

func (r *bookingRepository) ListOverlapping(ctx context.Context, vehicleID int32, period domain.DateRange) ([]domain.Booking, error) {
	var out []domain.Booking
	err := r.v.do(func(st *state) error {
		out = overlapping(st, vehicleID, period)
		return nil
	})
	sortByID(out, func(b domain.Booking) int32 { return b.ID })
	return out, err
}

func (r *bookingRepository) ListStaleRequests(ctx context.Context, before time.Time) ([]domain.Booking, error) {
	cutoff := domain.DateOf(before)
	return r.filter(func(b domain.Booking) bool {
		return b.Status == domain.BookingStatusRequested && domain.DateOf(b.PickupDate).Before(cutoff)
	})
}

func (r *bookingRepository) filter(keep func(domain.Booking) bool) ([]domain.Booking, error) {
	var out []domain.Booking
	err := r.v.do(func(st *state) error {
		for _, b := range st.bookings {
			if keep(b) {
				out = append(out, b)
			}
		}
		return nil
	})
	sortByID(out, func(b domain.Booking) int32 { return b.ID })
	return out, err
}

type rentalRepository struct{ v *view }

func (r *rentalRepository) Create(ctx context.Context, rental *domain.Rental) error {
	return r.v.do(func(st *state) error {
		for _, existing := range st.rentals {
			if existing.BookingID == rental.BookingID {
				return domain.Conflictf("rental for booking %d already exists", rental.BookingID)
			}
		}
		rental.ID = st.nextID("rentals")
		rental.Touch(time.Now())
		st.rentals[rental.ID] = *rental
		return nil
	})
}

func (r *rentalRepository) GetByID(ctx context.Context, id int32) (*domain.Rental, error) {
	var out domain.Rental
	err := r.v.do(func(st *state) error {
		rt, ok := st.rentals[id]
		if !ok {
			return domain.NotFoundf("rental %d not found", id)
		}
		out = rt
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *rentalRepository) GetByBooking(ctx context.Context, bookingID int32) (*domain.Rental, error) {
	var out *domain.Rental
	err := r.v.do(func(st *state) error {
		for _, rt := range st.rentals {
			if rt.BookingID == bookingID {
				found := rt
				out = &found
				return nil
			}
		}
		return domain.NotFoundf("rental for booking %d not found", bookingID)
	})
	return out, err
}

func (r *rentalRepository) Update(ctx context.Context, rental *domain.Rental) error {
	return r.v.do(func(st *state) error {
		if _, ok := st.rentals[rental.ID]; !ok {
			return domain.NotFoundf("rental %d not found", rental.ID)
		}
		rental.Touch(time.Now())
		st.rentals[rental.ID] = *rental
		return nil
	})
}

func (r *rentalRepository) ListOverdue(ctx context.Context, today time.Time) ([]domain.Rental, error) {
	cutoff := domain.DateOf(today)
	var out []domain.Rental
	err := r.v.do(func(st *state) error {
		for _, rt := range st.rentals {
			if !rt.IsReturned() && rt.PlannedReturnDate.Before(cutoff) {
				out = append(out, rt)
			}
		}
		return nil
	})
	sortByID(out, func(rt domain.Rental) int32 { return rt.ID })
	return out, err
}

type damageReportRepository struct{ v *view }

func (r *damageReportRepository) Create(ctx context.Context, report *domain.DamageReport) error {
	return r.v.do(func(st *state) error {
		report.ID = st.nextID("damage_reports")
		report.Touch(time.Now())
		st.damageReports[report.ID] = *report
		return nil
	})
}

func (r *damageReportRepository) ListByRental(ctx context.Context, rentalID int32) ([]domain.DamageReport, error) {
	var out []domain.DamageReport
	err := r.v.do(func(st *state) error {
		for _, d := range st.damageReports {
			if d.RentalID == rentalID {
				out = append(out, d)
			}
		}
		return nil
	})
	sortByID(out, func(d domain.DamageReport) int32 { return d.ID })
	return out, err
}

type customerRepository struct{ v *view }

func (r *customerRepository) Create(ctx context.Context, customer *domain.Customer) error {
	return r.v.do(func(st *state) error {
		for _, existing := range st.customers {
			if strings.EqualFold(existing.Username, customer.Username) {
				return domain.Conflictf("customer %s already exists", customer.Username)
			}
		}
		customer.ID = st.nextID("customers")
		customer.Touch(time.Now())
		st.customers[customer.ID] = *customer
		return nil
	})
}

func (r *customerRepository) GetByID(ctx context.Context, id int32) (*domain.Customer, error) {
	var out domain.Customer
	err := r.v.do(func(st *state) error {
		c, ok := st.customers[id]
		if !ok {
			return domain.NotFoundf("customer %d not found", id)
		}
		out = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

type userRepository struct{ v *view }

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	return r.v.do(func(st *state) error {
		for _, existing := range st.users {
			if strings.EqualFold(existing.Username, user.Username) {
				return domain.Conflictf("user %s already exists", user.Username)
			}
		}
		user.ID = st.nextID("users")
		user.Touch(time.Now())
		st.users[user.ID] = *user
		return nil
	})
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	username = strings.TrimSpace(username)
	var out *domain.User
	err := r.v.do(func(st *state) error {
		for _, u := range st.users {
			if strings.EqualFold(u.Username, username) {
				found := u
				out = &found
				return nil
			}
		}
		return domain.NotFoundf("user %s not found", username)
	})
	return out, err
}

func (r *userRepository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.v.do(func(st *state) error {
		n = len(st.users)
		return nil
	})
	return n, err
}

// auditRepository keeps its own lock: audit entries are written outside business transactions.
type auditRepository struct {
	mu      sync.Mutex
	entries []domain.AuditLog
}

func (r *auditRepository) Create(ctx context.Context, entry *domain.AuditLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, *entry)
	return nil
}

func (r *auditRepository) List(ctx context.Context, limit int) ([]domain.AuditLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.AuditLog, 0, min(limit, len(r.entries)))
	for i := len(r.entries) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, r.entries[i])
	}
	return out, nil
}

func sortByID[T any](items []T, id func(T) int32) {
	slices.SortFunc(items, func(a, b T) int { return int(id(a) - id(b)) })
}
