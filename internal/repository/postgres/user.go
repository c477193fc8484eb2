package postgres

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"rentacar-backend/internal/domain"
	"rentacar-backend/internal/logger"
	"rentacar-backend/internal/repository"
)

type userRepository struct {
	db DBTX
}

func NewUserRepository(db DBTX) repository.UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, u *domain.User) error {
	query := `INSERT INTO users (username, password_hash, role, customer_id, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	u.Touch(time.Now())
	logger.DatabaseCall("INSERT", "users", "username", u.Username, "role", u.Role)
	err := r.db.QueryRowContext(ctx, query, u.Username, u.PasswordHash, u.Role, u.CustomerID, u.CreatedOn, u.UpdatedOn).Scan(&u.ID)
	logger.DatabaseResult("INSERT", 1, err, "userID", u.ID)
	return translateError(err, "user", u.Username)
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	u := &domain.User{}
	var customerID sql.NullInt32
	query := `SELECT id, username, password_hash, role, customer_id, created_on, updated_on FROM users WHERE LOWER(username) = LOWER($1)`
	err := r.db.QueryRowContext(ctx, query, strings.TrimSpace(username)).Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Role,
		&customerID, &u.CreatedOn, &u.UpdatedOn)
	if err != nil {
		return nil, translateError(err, "user", username)
	}
	if customerID.Valid {
		u.CustomerID = &customerID.Int32
	}
	return u, nil
}

func (r *userRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&n); err != nil {
		return 0, translateError(err, "users", "count")
	}
	return n, nil
}
