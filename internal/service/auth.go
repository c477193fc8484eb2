package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"rentacar-backend/internal/domain"
	"rentacar-backend/internal/logger"
	"rentacar-backend/internal/repository"
	"rentacar-backend/internal/security"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
)

const minPasswordLength = 8

type authService struct {
	tx           repository.Transactor
	userRepo     repository.UserRepository
	tokenManager security.TokenManager
	audit        AuditService
}

func NewAuthService(tx repository.Transactor, userRepo repository.UserRepository, tm security.TokenManager, audit AuditService) AuthService {
	return &authService{
		tx:           tx,
		userRepo:     userRepo,
		tokenManager: tm,
		audit:        audit,
	}
}

func (s *authService) Login(ctx context.Context, username, password, origin string) (*LoginResult, error) {
	username = strings.TrimSpace(username)
	logger.EnterMethod("authService.Login", "username", username)

	actor := domain.Actor{Username: username, Origin: origin}
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			logger.ExitMethodWithError("authService.Login", err, "username", username)
			return nil, err
		}
		s.audit.Record(ctx, actor, domain.AuditLoginFailed, domain.ResourceUser, 0, "unknown username")
		logger.ExitMethodWithError("authService.Login", ErrInvalidCredentials, "username", username)
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.audit.Record(ctx, actor, domain.AuditLoginFailed, domain.ResourceUser, user.ID, "wrong password")
		logger.ExitMethodWithError("authService.Login", ErrInvalidCredentials, "username", username)
		return nil, ErrInvalidCredentials
	}

	token, expiresAt, err := s.tokenManager.GenerateAccessToken(user)
	if err != nil {
		logger.ExitMethodWithError("authService.Login", err, "username", username)
		return nil, fmt.Errorf("failed to issue access token: %w", err)
	}

	actor.Role = user.Role
	s.audit.Record(ctx, actor, domain.AuditLoginSucceeded, domain.ResourceUser, user.ID, "")
	logger.ExitMethod("authService.Login", "userID", user.ID, "role", user.Role)
	return &LoginResult{Token: token, ExpiresAt: expiresAt, User: user}, nil
}

func (s *authService) CreateUser(ctx context.Context, actor domain.Actor, username, password string, role domain.Role) (*domain.User, error) {
	logger.EnterMethod("authService.CreateUser", "username", username, "role", role, "actor", actor.Username)

	if !role.IsStaff() {
		err := domain.InvalidArgumentf("role must be EMPLOYEE or ADMIN; customers register themselves")
		logger.ExitMethodWithError("authService.CreateUser", err, "username", username)
		return nil, err
	}

	user, err := newUser(username, password, role)
	if err != nil {
		logger.ExitMethodWithError("authService.CreateUser", err, "username", username)
		return nil, err
	}

	err = s.tx.WithinTx(ctx, func(ctx context.Context, repos repository.Repos) error {
		return createUniqueUser(ctx, repos.Users, user)
	})
	if err != nil {
		logger.ExitMethodWithError("authService.CreateUser", err, "username", username)
		return nil, err
	}

	s.audit.Record(ctx, actor, domain.AuditUserCreated, domain.ResourceUser, user.ID, string(role))
	logger.ExitMethod("authService.CreateUser", "userID", user.ID)
	return user, nil
}

func (s *authService) EnsureAdmin(ctx context.Context, username, password string) error {
	if username == "" {
		return nil
	}
	user, err := newUser(username, password, domain.RoleAdmin)
	if err != nil {
		return err
	}

	created := false
	err = s.tx.WithinTx(ctx, func(ctx context.Context, repos repository.Repos) error {
		count, err := repos.Users.Count(ctx)
		if err != nil {
			return err
		}
		if count > 0 {
			return nil
		}
		created = true
		return repos.Users.Create(ctx, user)
	})
	if err != nil {
		return fmt.Errorf("failed to bootstrap admin user: %w", err)
	}
	if created {
		logger.Info("Bootstrap administrator created", "username", user.Username)
		s.audit.Record(ctx, domain.SystemActor, domain.AuditUserCreated, domain.ResourceUser, user.ID, "bootstrap administrator")
	}
	return nil
}

func newUser(username, password string, role domain.Role) (*domain.User, error) {
	username = strings.TrimSpace(username)
	if len(username) < 3 || len(username) > 50 {
		return nil, domain.InvalidArgumentf("username must be between 3 and 50 characters")
	}
	if len(password) < minPasswordLength {
		return nil, domain.InvalidArgumentf("password must be at least %d characters", minPasswordLength)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	return &domain.User{Username: username, PasswordHash: string(hash), Role: role}, nil
}

func createUniqueUser(ctx context.Context, users repository.UserRepository, user *domain.User) error {
	_, err := users.GetByUsername(ctx, user.Username)
	if err == nil {
		return domain.Conflictf("username %s is already taken", user.Username)
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return err
	}
	return users.Create(ctx, user)
}
