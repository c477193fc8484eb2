package domain

import (
	"fmt"
	"strings"
	"time"
)

type RentalStatus string

const (
	RentalStatusCheckedOut RentalStatus = "CHECKED_OUT"
	RentalStatusReturned   RentalStatus = "RETURNED"
	RentalStatusDamaged    RentalStatus = "DAMAGED"
)

// LateFeePerDay is charged for every day the vehicle comes back after the planned return date.
const LateFeePerDay = Money(5000)

type Rental struct {
	Metadata
	BookingID         int32        `json:"booking_id"`
	VehicleID         int32        `json:"vehicle_id"`
	CustomerID        int32        `json:"customer_id"`
	PlannedPickupDate time.Time    `json:"planned_pickup_date"`
	PlannedReturnDate time.Time    `json:"planned_return_date"`
	ActualPickupTime  time.Time    `json:"actual_pickup_time"`
	ActualReturnTime  *time.Time   `json:"actual_return_time,omitempty"`
	PickupMileage     int          `json:"pickup_mileage"`
	ReturnMileage     *int         `json:"return_mileage,omitempty"`
	PickupCondition   string       `json:"pickup_condition"`
	ReturnCondition   string       `json:"return_condition"`
	Status            RentalStatus `json:"status"`
	// AdditionalCosts only ever grows; AdditionalCostsNote keeps one entry per charge.
	AdditionalCosts     Money  `json:"additional_costs_cents"`
	AdditionalCostsNote string `json:"additional_costs_note"`
}

// NewRental starts a rental for a confirmed booking at the moment of checkout.
func NewRental(b *Booking, mileage int, condition string, now time.Time) (*Rental, error) {
	if b.Status != BookingStatusConfirmed {
		return nil, InvalidStatef("booking %d must be CONFIRMED for checkout, is %s", b.ID, b.Status)
	}
	if mileage < 0 {
		return nil, InvalidArgumentf("mileage must not be negative")
	}
	condition = strings.TrimSpace(condition)
	if condition == "" {
		return nil, InvalidArgumentf("pickup condition is required")
	}
	return &Rental{
		BookingID:         b.ID,
		VehicleID:         b.VehicleID,
		CustomerID:        b.CustomerID,
		PlannedPickupDate: DateOf(b.PickupDate),
		PlannedReturnDate: DateOf(b.ReturnDate),
		ActualPickupTime:  now,
		PickupMileage:     mileage,
		PickupCondition:   condition,
		Status:            RentalStatusCheckedOut,
	}, nil
}

func (r *Rental) IsReturned() bool {
	return r.ActualReturnTime != nil
}

// CheckIn records the return of the vehicle at now and accrues a late fee when the return
// date in loc is after the planned return date. It returns the late fee charged.
func (r *Rental) CheckIn(mileage int, condition string, now time.Time, loc *time.Location) (Money, error) {
	if r.IsReturned() {
		return 0, InvalidStatef("rental %d has already been checked in", r.ID)
	}
	if r.Status != RentalStatusCheckedOut && r.Status != RentalStatusDamaged {
		return 0, InvalidStatef("rental %d cannot be checked in from %s", r.ID, r.Status)
	}
	if mileage < r.PickupMileage {
		return 0, InvalidArgumentf("return mileage %d is below pickup mileage %d", mileage, r.PickupMileage)
	}
	condition = strings.TrimSpace(condition)
	if condition == "" {
		return 0, InvalidArgumentf("return condition is required")
	}

	var fee Money
	if daysLate := DaysBetween(r.PlannedReturnDate, now.In(loc)); daysLate > 0 {
		fee = LateFeePerDay.Times(daysLate)
		if err := r.accrue(fee, fmt.Sprintf("Late return: %d day(s) x %s = %s", daysLate, LateFeePerDay, fee)); err != nil {
			return 0, err
		}
	}

	r.ActualReturnTime = &now
	r.ReturnMileage = &mileage
	r.ReturnCondition = condition
	// Damage registered during the rental stays visible after return.
	if r.Status == RentalStatusCheckedOut {
		r.Status = RentalStatusReturned
	}
	return fee, nil
}

// RegisterDamage flags the rental as damaged and accrues the repair cost.
func (r *Rental) RegisterDamage(description string, repairCost Money) error {
	if repairCost < 0 {
		return InvalidArgumentf("repair cost must not be negative")
	}
	if err := r.accrue(repairCost, fmt.Sprintf("Damage: %s (cost: %s)", strings.TrimSpace(description), repairCost)); err != nil {
		return err
	}
	r.Status = RentalStatusDamaged
	return nil
}

// DistanceDriven is zero until the rental is checked in.
func (r *Rental) DistanceDriven() int {
	if r.ReturnMileage == nil {
		return 0
	}
	return *r.ReturnMileage - r.PickupMileage
}

// accrue leaves the rental untouched when the new total would overflow.
func (r *Rental) accrue(amount Money, note string) error {
	total, err := r.AdditionalCosts.Add(amount)
	if err != nil {
		return InvalidArgumentf("rental %d: additional costs cannot grow by %s", r.ID, amount)
	}
	r.AdditionalCosts = total
	if r.AdditionalCostsNote == "" {
		r.AdditionalCostsNote = note
	} else {
		r.AdditionalCostsNote += "; " + note
	}
	return nil
}
