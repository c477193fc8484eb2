package domain

import (
	"fmt"
	"math"
)

// Money is an exact amount in cents.
type Money int64

// Units builds an amount from whole currency units.
func Units(n int64) Money {
	return Money(n * 100)
}

func (m Money) Cents() int64 {
	return int64(m)
}

func (m Money) Times(n int) Money {
	return m * Money(n)
}

// String renders the amount with two decimals, e.g. "420.00".
func (m Money) String() string {
	sign := ""
	v := uint64(m)
	if m < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}

// Add returns m+other for non-negative amounts, rejecting a sum that does not fit in cents.
func (m Money) Add(other Money) (Money, error) {
	if other < 0 {
		return m, InvalidArgumentf("amount %s must not be negative", other)
	}
	if other > math.MaxInt64-m {
		return m, InvalidArgumentf("amount %s is too large", other)
	}
	return m + other, nil
}
