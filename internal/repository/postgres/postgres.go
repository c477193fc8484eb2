package postgres

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"rentacar-backend/internal/domain"
	"rentacar-backend/internal/logger"
	"rentacar-backend/internal/repository"
)

//go:embed schema.sql
var schema string

// DBTX is satisfied by both *sql.DB and *sql.Tx so repositories work inside and outside a transaction.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type scanner interface {
	Scan(dest ...any) error
}

type Store struct {
	db *sql.DB
	repository.VehicleRepository
	repository.BookingRepository
	repository.RentalRepository
	repository.DamageReportRepository
	repository.CustomerRepository
	repository.UserRepository
	repository.AuditRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:                     db,
		VehicleRepository:      NewVehicleRepository(db),
		BookingRepository:      NewBookingRepository(db),
		RentalRepository:       NewRentalRepository(db),
		DamageReportRepository: NewDamageReportRepository(db),
		CustomerRepository:     NewCustomerRepository(db),
		UserRepository:         NewUserRepository(db),
		AuditRepository:        NewAuditRepository(db),
	}
}

func newRepos(db DBTX) repository.Repos {
	return repository.Repos{
		Vehicles:      NewVehicleRepository(db),
		Bookings:      NewBookingRepository(db),
		Rentals:       NewRentalRepository(db),
		DamageReports: NewDamageReportRepository(db),
		Customers:     NewCustomerRepository(db),
		Users:         NewUserRepository(db),
	}
}

// PingContext checks that the database is reachable.
func (s *Store) PingContext(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Repos returns repositories bound to the connection pool, outside any transaction.
func (s *Store) Repos() repository.Repos {
	return newRepos(s.db)
}

// WithinTx runs fn in a READ COMMITTED transaction. Row locks taken through
// GetByIDForUpdate are held until commit or rollback.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context, repos repository.Repos) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(ctx, newRepos(tx)); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Migrate creates the tables and indexes if they do not exist yet.
func Migrate(ctx context.Context, db *sql.DB) error {
	logger.DatabaseCall("MIGRATE", "schema")
	_, err := db.ExecContext(ctx, schema)
	logger.DatabaseResult("MIGRATE", 0, err)
	if err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

const uniqueViolation = "23505"

// translateError maps driver errors onto the domain error kinds.
func translateError(err error, resource string, key any) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return domain.NotFoundf("%s %v not found", resource, key)
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return domain.Conflictf("%s %v already exists", resource, key)
	}
	return fmt.Errorf("%s %v: %w", resource, key, err)
}

// confirmedOverlap renders domain.Booking.Overlaps as a SQL condition on the bookings alias,
// with the queried range start and end bound to the given placeholders.
func confirmedOverlap(alias string, startArg, endArg int) string {
	return fmt.Sprintf("%[1]s.status = 'CONFIRMED' AND %[1]s.pickup_date <= $%[3]d AND %[1]s.return_date >= $%[2]d",
		alias, startArg, endArg)
}
