package domain

import (
	"strings"
)

type VehicleCategory string

const (
	VehicleCategoryEconomy VehicleCategory = "ECONOMY"
	VehicleCategoryCompact VehicleCategory = "COMPACT"
	VehicleCategoryMidSize VehicleCategory = "MID_SIZE"
	VehicleCategoryLuxury  VehicleCategory = "LUXURY"
	VehicleCategorySUV     VehicleCategory = "SUV"
	VehicleCategoryVan     VehicleCategory = "VAN"
	VehicleCategorySports  VehicleCategory = "SPORTS"
)

var VehicleCategories = []VehicleCategory{
	VehicleCategoryEconomy,
	VehicleCategoryCompact,
	VehicleCategoryMidSize,
	VehicleCategoryLuxury,
	VehicleCategorySUV,
	VehicleCategoryVan,
	VehicleCategorySports,
}

func (c VehicleCategory) Valid() bool {
	for _, known := range VehicleCategories {
		if c == known {
			return true
		}
	}
	return false
}

// ParseVehicleCategory accepts any casing and "-" in place of "_" ("mid-size" -> MID_SIZE).
func ParseVehicleCategory(s string) (VehicleCategory, error) {
	c := VehicleCategory(strings.ReplaceAll(strings.ToUpper(strings.TrimSpace(s)), "-", "_"))
	if !c.Valid() {
		return "", InvalidArgumentf("unknown vehicle category %q", s)
	}
	return c, nil
}

type VehicleStatus string

const (
	VehicleStatusAvailable    VehicleStatus = "AVAILABLE"
	VehicleStatusRented       VehicleStatus = "RENTED"
	VehicleStatusMaintenance  VehicleStatus = "MAINTENANCE"
	VehicleStatusOutOfService VehicleStatus = "OUT_OF_SERVICE"
)

// vehicleTransitions lists the legal status changes. RENTED is only left through release or return.
var vehicleTransitions = map[VehicleStatus][]VehicleStatus{
	VehicleStatusAvailable:    {VehicleStatusRented, VehicleStatusMaintenance, VehicleStatusOutOfService},
	VehicleStatusRented:       {VehicleStatusAvailable},
	VehicleStatusMaintenance:  {VehicleStatusAvailable, VehicleStatusOutOfService},
	VehicleStatusOutOfService: {VehicleStatusAvailable, VehicleStatusMaintenance},
}

func ParseVehicleStatus(s string) (VehicleStatus, error) {
	st := VehicleStatus(strings.ToUpper(strings.TrimSpace(s)))
	if _, ok := vehicleTransitions[st]; !ok {
		return "", InvalidArgumentf("unknown vehicle status %q", s)
	}
	return st, nil
}

type Vehicle struct {
	Metadata
	LicensePlate string          `json:"license_plate"`
	Brand        string          `json:"brand"`
	Model        string          `json:"model"`
	Year         int             `json:"year"`
	Category     VehicleCategory `json:"category"`
	Mileage      int             `json:"mileage"`
	Location     string          `json:"location"`
	Status       VehicleStatus   `json:"status"`
	// DailyRate is the listed rate shown to customers. Booking prices come from the
	// category rate table, not from this field.
	DailyRate    Money           `json:"daily_rate_cents"`
}

// NormalizePlate trims and upper-cases a license plate.
func NormalizePlate(plate string) string {
	return strings.ToUpper(strings.TrimSpace(plate))
}

func (v *Vehicle) IsAvailable() bool {
	return v.Status == VehicleStatusAvailable
}

// ChangeStatus moves the vehicle to a new status if the transition is legal.
func (v *Vehicle) ChangeStatus(to VehicleStatus) error {
	if v.Status == to {
		return nil
	}
	for _, allowed := range vehicleTransitions[v.Status] {
		if allowed == to {
			v.Status = to
			return nil
		}
	}
	return InvalidStatef("vehicle %d cannot change from %s to %s", v.ID, v.Status, to)
}

// Reserve marks the vehicle as rented ahead of pickup. It must be available.
func (v *Vehicle) Reserve() error {
	if v.Status != VehicleStatusAvailable {
		return InvalidStatef("vehicle %d is not available (status %s)", v.ID, v.Status)
	}
	v.Status = VehicleStatusRented
	return nil
}

// HandOver records the vehicle leaving the lot. A vehicle reserved at confirmation is already RENTED.
func (v *Vehicle) HandOver(mileage int) error {
	if v.Status != VehicleStatusRented && v.Status != VehicleStatusAvailable {
		return InvalidStatef("vehicle %d cannot be handed over (status %s)", v.ID, v.Status)
	}
	if err := v.UpdateMileage(mileage); err != nil {
		return err
	}
	v.Status = VehicleStatusRented
	return nil
}

// Release frees a reservation. Vehicles in any other status are left untouched.
func (v *Vehicle) Release() {
	if v.Status == VehicleStatusRented {
		v.Status = VehicleStatusAvailable
	}
}

// TakeBack records the vehicle's return with its new odometer reading.
func (v *Vehicle) TakeBack(mileage int) error {
	if err := v.UpdateMileage(mileage); err != nil {
		return err
	}
	v.Release()
	return nil
}

// UpdateMileage moves the odometer forward. It never goes back.
func (v *Vehicle) UpdateMileage(mileage int) error {
	if mileage < v.Mileage {
		return InvalidArgumentf("mileage %d is below the current odometer reading %d of vehicle %d", mileage, v.Mileage, v.ID)
	}
	v.Mileage = mileage
	return nil
}
