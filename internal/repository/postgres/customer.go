package postgres

import (
	"context"
	"time"

	"rentacar-backend/internal/domain"
	"rentacar-backend/internal/logger"
	"rentacar-backend/internal/repository"
)

type customerRepository struct {
	db DBTX
}

func NewCustomerRepository(db DBTX) repository.CustomerRepository {
	return &customerRepository{db: db}
}

func (r *customerRepository) Create(ctx context.Context, c *domain.Customer) error {
	query := `INSERT INTO customers (username, first_name, last_name, email, phone_number, driver_license_number, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`
	c.Touch(time.Now())
	logger.DatabaseCall("INSERT", "customers", "username", c.Username)
	err := r.db.QueryRowContext(ctx, query, c.Username, c.FirstName, c.LastName, c.Email, c.PhoneNumber,
		c.DriverLicenseNumber, c.CreatedOn, c.UpdatedOn).Scan(&c.ID)
	logger.DatabaseResult("INSERT", 1, err, "customerID", c.ID)
	return translateError(err, "customer", c.Username)
}

func (r *customerRepository) GetByID(ctx context.Context, id int32) (*domain.Customer, error) {
	c := &domain.Customer{}
	query := `SELECT id, username, first_name, last_name, email, phone_number, driver_license_number, created_on, updated_on
	          FROM customers WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(&c.ID, &c.Username, &c.FirstName, &c.LastName, &c.Email,
		&c.PhoneNumber, &c.DriverLicenseNumber, &c.CreatedOn, &c.UpdatedOn)
	if err != nil {
		return nil, translateError(err, "customer", id)
	}
	return c, nil
}
