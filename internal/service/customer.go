package service

import (
	"context"
	"fmt"
	"net/mail"
	"strings"

	"rentacar-backend/internal/domain"
	"rentacar-backend/internal/logger"
	"rentacar-backend/internal/repository"
)

type customerService struct {
	tx    repository.Transactor
	repos repository.Repos
	audit AuditService
}

func NewCustomerService(tx repository.Transactor, repos repository.Repos, audit AuditService) CustomerService {
	return &customerService{tx: tx, repos: repos, audit: audit}
}

func (s *customerService) Register(ctx context.Context, origin string, req RegisterCustomerRequest) (*domain.Customer, error) {
	logger.EnterMethod("customerService.Register", "username", req.Username)

	customer, err := newCustomer(req)
	if err != nil {
		logger.ExitMethodWithError("customerService.Register", err, "username", req.Username)
		return nil, err
	}
	user, err := newUser(req.Username, req.Password, domain.RoleCustomer)
	if err != nil {
		logger.ExitMethodWithError("customerService.Register", err, "username", req.Username)
		return nil, err
	}

	err = s.tx.WithinTx(ctx, func(ctx context.Context, repos repository.Repos) error {
		if err := repos.Customers.Create(ctx, customer); err != nil {
			return err
		}
		customerID := customer.ID
		user.CustomerID = &customerID
		return createUniqueUser(ctx, repos.Users, user)
	})
	if err != nil {
		logger.ExitMethodWithError("customerService.Register", err, "username", req.Username)
		return nil, err
	}

	actor := domain.Actor{Username: user.Username, Role: user.Role, CustomerID: user.CustomerID, Origin: origin}
	s.audit.Record(ctx, actor, domain.AuditCustomerRegistered, domain.ResourceCustomer, customer.ID,
		fmt.Sprintf("customer %s registered", customer.FullName()))
	logger.ExitMethod("customerService.Register", "customerID", customer.ID)
	return customer, nil
}

func newCustomer(req RegisterCustomerRequest) (*domain.Customer, error) {
	c := &domain.Customer{
		Username:            strings.TrimSpace(req.Username),
		FirstName:           strings.TrimSpace(req.FirstName),
		LastName:            strings.TrimSpace(req.LastName),
		Email:               strings.TrimSpace(req.Email),
		PhoneNumber:         strings.TrimSpace(req.PhoneNumber),
		DriverLicenseNumber: strings.ToUpper(strings.TrimSpace(req.DriverLicenseNumber)),
	}
	switch {
	case c.FirstName == "" || c.LastName == "":
		return nil, domain.InvalidArgumentf("first and last name are required")
	case c.DriverLicenseNumber == "":
		return nil, domain.InvalidArgumentf("driver license number is required")
	}
	if _, err := mail.ParseAddress(c.Email); err != nil {
		return nil, domain.InvalidArgumentf("invalid email address %q", c.Email)
	}
	return c, nil
}

func (s *customerService) GetCustomer(ctx context.Context, actor domain.Actor, customerID int32) (*domain.Customer, error) {
	if !actor.CanActFor(customerID) {
		return nil, domain.Forbiddenf("%s may not read customer %d", actor.Username, customerID)
	}
	return s.repos.Customers.GetByID(ctx, customerID)
}
