package model

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// ErrTooPrecise is returned when a value has more decimals than the currency allows.
var ErrTooPrecise = errors.New("amount has more precision than the currency minor unit")

// ErrAmountOutOfRange is returned when a value does not fit in an Amount.
var ErrAmountOutOfRange = errors.New("amount out of range")

var (
	minAmount = decimal.NewFromInt(math.MinInt64)
	maxAmount = decimal.NewFromInt(math.MaxInt64)
)

// Amount is a signed count of minor currency units (cents for USD).
type Amount int64

// Fraction returns the number of minor-unit digits for a currency code.
// Unknown currencies default to 2.
func Fraction(currency string) int32 {
	if c := money.GetCurrency(strings.ToUpper(currency)); c != nil {
		return int32(c.Fraction)
	}
	return 2
}

// ParseAmount parses a major-unit decimal string ("1000.50") into minor units.
// An empty string parses as zero.
func ParseAmount(s, currency string) (Amount, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("parsing amount %q: %w", s, err)
	}
	return FromDecimal(d, currency)
}

// FromDecimal converts a major-unit decimal into minor units.
func FromDecimal(d decimal.Decimal, currency string) (Amount, error) {
	minor := d.Shift(Fraction(currency))
	if !minor.IsInteger() {
		return 0, fmt.Errorf("%s %s: %w", d.String(), currency, ErrTooPrecise)
	}
	if minor.LessThan(minAmount) || minor.GreaterThan(maxAmount) {
		return 0, fmt.Errorf("%s %s: %w", d.String(), currency, ErrAmountOutOfRange)
	}
	return Amount(minor.IntPart()), nil
}

// Add returns a+b, or ErrAmountOutOfRange if the sum overflows.
func (a Amount) Add(b Amount) (Amount, error) {
	sum := a + b
	if (b > 0 && sum < a) || (b < 0 && sum > a) {
		return 0, ErrAmountOutOfRange
	}
	return sum, nil
}

// Decimal returns the amount in major units.
func (a Amount) Decimal(currency string) decimal.Decimal {
	return decimal.New(int64(a), -Fraction(currency))
}

// StringFixed formats the amount as a plain fixed-point number ("1000.50"),
// suitable for files.
func (a Amount) StringFixed(currency string) string {
	return a.Decimal(currency).StringFixed(Fraction(currency))
}

// Display formats the amount with the currency's symbol and separators ("$1,000.50").
func (a Amount) Display(currency string) string {
	return money.New(int64(a), strings.ToUpper(currency)).Display()
}

// Abs returns the absolute value.
func (a Amount) Abs() Amount {
	if a < 0 {
		return -a
	}
	return a
}

// IsZero reports whether the amount is zero.
func (a Amount) IsZero() bool { return a == 0 }
