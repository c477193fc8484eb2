// Package memory is a process-local store. It backs the "memory" store type and the service tests.
package memory

import (
	"context"
	"maps"
	"sync"

	"rentacar-backend/internal/domain"
	"rentacar-backend/internal/repository"
)

type state struct {
	vehicles      map[int32]domain.Vehicle
	bookings      map[int32]domain.Booking
	rentals       map[int32]domain.Rental
	damageReports map[int32]domain.DamageReport
	customers     map[int32]domain.Customer
	users         map[int32]domain.User
	seq           map[string]int32
}

func newState() *state {
	return &state{
		vehicles:      map[int32]domain.Vehicle{},
		bookings:      map[int32]domain.Booking{},
		rentals:       map[int32]domain.Rental{},
		damageReports: map[int32]domain.DamageReport{},
		customers:     map[int32]domain.Customer{},
		users:         map[int32]domain.User{},
		seq:           map[string]int32{},
	}
}

// clone copies the maps. Entities are stored by value and their pointer fields are replaced,
// never mutated, so a shallow copy is independent of the original.
func (s *state) clone() *state {
	return &state{
		vehicles:      maps.Clone(s.vehicles),
		bookings:      maps.Clone(s.bookings),
		rentals:       maps.Clone(s.rentals),
		damageReports: maps.Clone(s.damageReports),
		customers:     maps.Clone(s.customers),
		users:         maps.Clone(s.users),
		seq:           maps.Clone(s.seq),
	}
}

func (s *state) nextID(table string) int32 {
	s.seq[table]++
	return s.seq[table]
}

// Store serialises every transaction behind one mutex. A transaction works on a copy of the
// state that replaces the live state only when it commits.
type Store struct {
	mu    sync.Mutex
	state *state

	repository.VehicleRepository
	repository.BookingRepository
	repository.RentalRepository
	repository.DamageReportRepository
	repository.CustomerRepository
	repository.UserRepository
	repository.AuditRepository
}

func NewStore() *Store {
	s := &Store{state: newState()}
	repos := newRepos(&view{store: s})
	s.VehicleRepository = repos.Vehicles
	s.BookingRepository = repos.Bookings
	s.RentalRepository = repos.Rentals
	s.DamageReportRepository = repos.DamageReports
	s.CustomerRepository = repos.Customers
	s.UserRepository = repos.Users
	s.AuditRepository = &auditRepository{}
	return s
}

func newRepos(v *view) repository.Repos {
	return repository.Repos{
		Vehicles:      &vehicleRepository{v},
		Bookings:      &bookingRepository{v},
		Rentals:       &rentalRepository{v},
		DamageReports: &damageReportRepository{v},
		Customers:     &customerRepository{v},
		Users:         &userRepository{v},
	}
}

// Repos returns repositories that read and write the live state.
func (s *Store) Repos() repository.Repos {
	return newRepos(&view{store: s})
}

func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context, repos repository.Repos) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	work := s.state.clone()
	if err := fn(ctx, newRepos(&view{store: s, tx: work})); err != nil {
		return err
	}
	s.state = work
	return nil
}

// view resolves which state a repository operates on: the transaction's copy, or the live
// state under the store mutex.
type view struct {
	store *Store
	tx    *state
}

func (v *view) do(fn func(st *state) error) error {
	if v.tx != nil {
		return fn(v.tx)
	}
	v.store.mu.Lock()
	defer v.store.mu.Unlock()
	return fn(v.store.state)
}
