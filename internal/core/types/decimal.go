// Package types provides common type aliases and decimal utilities.
//
// All monetary amounts, tax components and stock quantities use
// shopspring/decimal. GST filings require exact decimal arithmetic;
// binary floating point drifts at filing grade.
package types

import (
	"github.com/shopspring/decimal"
)

// Money represents a monetary value with full precision.
type Money = decimal.Decimal

// Quantity represents a stock quantity. Fractional values are legal:
// pharmacies sell loose tablets and partial strips.
type Quantity = decimal.Decimal

// Percent represents a percentage value (e.g. GST rate 12, discount 5).
type Percent = decimal.Decimal

// NewMoneyFromString creates a Money value from a string.
// This is the preferred constructor for monetary values.
func NewMoneyFromString(s string) (Money, error) {
	return decimal.NewFromString(s)
}

// MustMoney creates a Money value from a string, panics on error.
// Use only for constants and tests.
func MustMoney(s string) Money {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// Zero returns the zero decimal value.
func Zero() decimal.Decimal {
	return decimal.Zero
}

var (
	hundred = decimal.NewFromInt(100)
	two     = decimal.NewFromInt(2)
)

// PercentOf returns amount * pct / 100 without intermediate rounding.
func PercentOf(amount Money, pct Percent) Money {
	return amount.Mul(pct).Div(hundred)
}

// Half returns v / 2 without rounding.
func Half(v Money) Money {
	return v.Div(two)
}

// RoundPaise rounds a monetary value to 2 decimal places (paise).
func RoundPaise(v Money) Money {
	return v.Round(2)
}
