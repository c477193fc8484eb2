package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"rentacar-backend/internal/domain"
	"rentacar-backend/internal/logger"
	"rentacar-backend/internal/repository"
	"rentacar-backend/internal/utils"
)

type vehicleService struct {
	tx    repository.Transactor
	repos repository.Repos
	audit AuditService
	clock utils.Clock
}

func NewVehicleService(tx repository.Transactor, repos repository.Repos, audit AuditService, clock utils.Clock) VehicleService {
	return &vehicleService{tx: tx, repos: repos, audit: audit, clock: clock}
}

func (s *vehicleService) AddVehicle(ctx context.Context, actor domain.Actor, vehicle *domain.Vehicle) (*domain.Vehicle, error) {
	logger.EnterMethod("vehicleService.AddVehicle", "plate", vehicle.LicensePlate, "actor", actor.Username)

	if err := s.validateNewVehicle(vehicle); err != nil {
		logger.ExitMethodWithError("vehicleService.AddVehicle", err, "plate", vehicle.LicensePlate)
		return nil, err
	}

	err := s.tx.WithinTx(ctx, func(ctx context.Context, repos repository.Repos) error {
		existing, err := repos.Vehicles.GetByPlate(ctx, vehicle.LicensePlate)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return err
		}
		if existing != nil {
			return domain.Conflictf("vehicle with license plate %s already exists", vehicle.LicensePlate)
		}
		return repos.Vehicles.Create(ctx, vehicle)
	})
	if err != nil {
		logger.ExitMethodWithError("vehicleService.AddVehicle", err, "plate", vehicle.LicensePlate)
		return nil, err
	}

	s.audit.Record(ctx, actor, domain.AuditVehicleCreated, domain.ResourceVehicle, vehicle.ID,
		fmt.Sprintf("%s %s %s (%s) at %s", vehicle.LicensePlate, vehicle.Brand, vehicle.Model, vehicle.Category, vehicle.Location))
	logger.ExitMethod("vehicleService.AddVehicle", "vehicleID", vehicle.ID)
	return vehicle, nil
}

func (s *vehicleService) validateNewVehicle(v *domain.Vehicle) error {
	v.LicensePlate = domain.NormalizePlate(v.LicensePlate)
	v.Brand = strings.TrimSpace(v.Brand)
	v.Model = strings.TrimSpace(v.Model)
	v.Location = strings.TrimSpace(v.Location)

	switch {
	case v.LicensePlate == "":
		return domain.InvalidArgumentf("license plate is required")
	case v.Brand == "":
		return domain.InvalidArgumentf("brand is required")
	case v.Model == "":
		return domain.InvalidArgumentf("model is required")
	case v.Location == "":
		return domain.InvalidArgumentf("location is required")
	case v.Mileage < 0:
		return domain.InvalidArgumentf("mileage must not be negative")
	case !v.Category.Valid():
		return domain.InvalidArgumentf("unknown vehicle category %q", v.Category)
	}
	if maxYear := s.clock.Now().Year() + 1; v.Year < 1900 || v.Year > maxYear {
		return domain.InvalidArgumentf("year must be between 1900 and %d", maxYear)
	}
	if v.DailyRate < 0 {
		return domain.InvalidArgumentf("daily rate must not be negative")
	}
	if v.DailyRate == 0 {
		v.DailyRate, _ = utils.DailyRateFor(v.Category)
	}
	v.Status = domain.VehicleStatusAvailable
	return nil
}

func (s *vehicleService) UpdateVehicle(ctx context.Context, actor domain.Actor, id int32, patch VehiclePatch) (*domain.Vehicle, error) {
	logger.EnterMethod("vehicleService.UpdateVehicle", "vehicleID", id, "actor", actor.Username)

	var vehicle *domain.Vehicle
	var changes []string
	err := s.tx.WithinTx(ctx, func(ctx context.Context, repos repository.Repos) error {
		v, err := repos.Vehicles.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		changes, err = applyVehiclePatch(v, patch)
		if err != nil {
			return err
		}
		vehicle = v
		if len(changes) == 0 {
			return nil
		}
		return repos.Vehicles.Update(ctx, v)
	})
	if err != nil {
		logger.ExitMethodWithError("vehicleService.UpdateVehicle", err, "vehicleID", id)
		return nil, err
	}

	if len(changes) > 0 {
		s.audit.Record(ctx, actor, domain.AuditVehicleUpdated, domain.ResourceVehicle, id, strings.Join(changes, ", "))
	}
	logger.ExitMethod("vehicleService.UpdateVehicle", "vehicleID", id, "changes", len(changes))
	return vehicle, nil
}

func applyVehiclePatch(v *domain.Vehicle, patch VehiclePatch) ([]string, error) {
	var changes []string
	setText := func(field string, dst *string, val *string) error {
		if val == nil {
			return nil
		}
		trimmed := strings.TrimSpace(*val)
		if trimmed == "" {
			return domain.InvalidArgumentf("%s must not be empty", field)
		}
		if trimmed != *dst {
			changes = append(changes, fmt.Sprintf("%s: %s -> %s", field, *dst, trimmed))
			*dst = trimmed
		}
		return nil
	}

	if err := setText("brand", &v.Brand, patch.Brand); err != nil {
		return nil, err
	}
	if err := setText("model", &v.Model, patch.Model); err != nil {
		return nil, err
	}
	if err := setText("location", &v.Location, patch.Location); err != nil {
		return nil, err
	}
	if patch.Mileage != nil && *patch.Mileage != v.Mileage {
		before := v.Mileage
		if err := v.UpdateMileage(*patch.Mileage); err != nil {
			return nil, err
		}
		changes = append(changes, fmt.Sprintf("mileage: %d -> %d", before, v.Mileage))
	}
	if patch.DailyRate != nil && *patch.DailyRate != v.DailyRate {
		if *patch.DailyRate <= 0 {
			return nil, domain.InvalidArgumentf("daily rate must be positive")
		}
		changes = append(changes, fmt.Sprintf("daily rate: %s -> %s", v.DailyRate, *patch.DailyRate))
		v.DailyRate = *patch.DailyRate
	}
	return changes, nil
}

func (s *vehicleService) SetVehicleStatus(ctx context.Context, actor domain.Actor, id int32, status domain.VehicleStatus) (*domain.Vehicle, error) {
	logger.EnterMethod("vehicleService.SetVehicleStatus", "vehicleID", id, "status", status, "actor", actor.Username)

	// RENTED is only reached through booking confirmation and checkout.
	if status == domain.VehicleStatusRented {
		err := domain.InvalidArgumentf("vehicles are marked RENTED by confirming a booking")
		logger.ExitMethodWithError("vehicleService.SetVehicleStatus", err, "vehicleID", id)
		return nil, err
	}

	var vehicle *domain.Vehicle
	var previous domain.VehicleStatus
	err := s.tx.WithinTx(ctx, func(ctx context.Context, repos repository.Repos) error {
		v, err := repos.Vehicles.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		previous = v.Status
		if v.Status == domain.VehicleStatusRented {
			return domain.InvalidStatef("vehicle %d is rented and is released only by cancellation or check-in", id)
		}
		if err := v.ChangeStatus(status); err != nil {
			return err
		}
		vehicle = v
		if previous == status {
			return nil
		}
		return repos.Vehicles.Update(ctx, v)
	})
	if err != nil {
		logger.ExitMethodWithError("vehicleService.SetVehicleStatus", err, "vehicleID", id)
		return nil, err
	}

	if previous != status {
		s.audit.Record(ctx, actor, domain.AuditVehicleStatusChanged, domain.ResourceVehicle, id,
			fmt.Sprintf("%s -> %s", previous, status))
	}
	logger.ExitMethod("vehicleService.SetVehicleStatus", "vehicleID", id, "status", status)
	return vehicle, nil
}

func (s *vehicleService) GetVehicle(ctx context.Context, id int32) (*domain.Vehicle, error) {
	return s.repos.Vehicles.GetByID(ctx, id)
}

func (s *vehicleService) GetVehicleByPlate(ctx context.Context, plate string) (*domain.Vehicle, error) {
	plate = domain.NormalizePlate(plate)
	if plate == "" {
		return nil, domain.InvalidArgumentf("license plate is required")
	}
	return s.repos.Vehicles.GetByPlate(ctx, plate)
}

func (s *vehicleService) ListVehicles(ctx context.Context, filter repository.VehicleFilter) ([]domain.Vehicle, error) {
	if filter.Category != "" && !filter.Category.Valid() {
		return nil, domain.InvalidArgumentf("unknown vehicle category %q", filter.Category)
	}
	return s.repos.Vehicles.List(ctx, filter)
}

func (s *vehicleService) FindAvailable(ctx context.Context, category domain.VehicleCategory, location string, start, end time.Time) ([]domain.Vehicle, error) {
	logger.EnterMethod("vehicleService.FindAvailable", "category", category, "location", location)

	period, err := domain.NewDateRange(start, end)
	if err != nil {
		logger.ExitMethodWithError("vehicleService.FindAvailable", err)
		return nil, err
	}
	if !category.Valid() {
		err := domain.InvalidArgumentf("unknown vehicle category %q", category)
		logger.ExitMethodWithError("vehicleService.FindAvailable", err)
		return nil, err
	}

	vehicles, err := s.repos.Vehicles.ListAvailable(ctx, category, strings.TrimSpace(location), period)
	if err != nil {
		logger.ExitMethodWithError("vehicleService.FindAvailable", err)
		return nil, err
	}
	logger.ExitMethod("vehicleService.FindAvailable", "count", len(vehicles))
	return vehicles, nil
}
