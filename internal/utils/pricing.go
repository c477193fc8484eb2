package utils

import (
	"time"

	"rentacar-backend/internal/domain"
)

// CategoryDailyRates is the fixed daily rate per vehicle category.
var CategoryDailyRates = map[domain.VehicleCategory]domain.Money{
	domain.VehicleCategoryEconomy: domain.Units(30),
	domain.VehicleCategoryCompact: domain.Units(40),
	domain.VehicleCategoryMidSize: domain.Units(60),
	domain.VehicleCategoryLuxury:  domain.Units(100),
	domain.VehicleCategorySUV:     domain.Units(80),
	domain.VehicleCategoryVan:     domain.Units(70),
	domain.VehicleCategorySports:  domain.Units(150),
}

// PriceBreakdown provides the components of a computed price
type PriceBreakdown struct {
	Category  domain.VehicleCategory
	Days      int
	DailyRate domain.Money
	Total     domain.Money
}

// DailyRateFor returns the daily rate of a category
func DailyRateFor(category domain.VehicleCategory) (domain.Money, error) {
	rate, ok := CategoryDailyRates[category]
	if !ok {
		return 0, domain.InvalidArgumentf("unknown vehicle category %q", category)
	}
	return rate, nil
}

// CountRentalDays returns the number of charged days, both pickup and return day included
func CountRentalDays(pickup, ret time.Time) (int, error) {
	period, err := domain.NewDateRange(pickup, ret)
	if err != nil {
		return 0, err
	}
	return period.Days(), nil
}

// CalculatePrice computes the rental price of a category for an inclusive date range
func CalculatePrice(category domain.VehicleCategory, pickup, ret time.Time) (domain.Money, error) {
	b, err := CalculatePriceWithBreakdown(category, pickup, ret)
	if err != nil {
		return 0, err
	}
	return b.Total, nil
}

// CalculatePriceWithBreakdown provides detailed breakdown of the rental price
func CalculatePriceWithBreakdown(category domain.VehicleCategory, pickup, ret time.Time) (PriceBreakdown, error) {
	rate, err := DailyRateFor(category)
	if err != nil {
		return PriceBreakdown{}, err
	}
	days, err := CountRentalDays(pickup, ret)
	if err != nil {
		return PriceBreakdown{}, err
	}
	// a same-day rental is charged as one full day
	if days < 1 {
		days = 1
	}
	return PriceBreakdown{
		Category:  category,
		Days:      days,
		DailyRate: rate,
		Total:     rate.Times(days),
	}, nil
}
