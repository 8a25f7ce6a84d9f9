// Package money implements fixed-point currency amounts.
//
// An Amount is an integer count of minor units (two decimal places), so
// sums and comparisons are exact. Conversion to and from text goes through
// shopspring/decimal.
package money

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Scale is the number of decimal places in a major unit.
const Scale = 2

var (
	ErrTooPrecise = errors.New("amount has more than 2 decimal places")
	ErrOverflow   = errors.New("amount out of range")
)

var hundred = decimal.NewFromInt(100)

// Amount is a currency value in minor units (e.g. paise, cents).
type Amount int64

// Zero is the zero amount.
const Zero Amount = 0

// MaxAmount bounds every amount in either direction (10 trillion major
// units), so sums of many amounts stay far from int64 overflow.
const MaxAmount Amount = 1_000_000_000_000_000

// FromMinor returns the amount for n minor units.
func FromMinor(n int64) Amount {
	return Amount(n)
}

// FromDecimal converts a decimal value in major units. Values with more
// precision than Scale are rejected rather than rounded.
func FromDecimal(d decimal.Decimal) (Amount, error) {
	scaled := d.Shift(Scale)
	if !scaled.IsInteger() {
		return 0, fmt.Errorf("%w: %s", ErrTooPrecise, d.String())
	}
	if scaled.Abs().GreaterThan(decimal.NewFromInt(int64(MaxAmount))) {
		return 0, fmt.Errorf("%w: %s", ErrOverflow, d.String())
	}
	return Amount(scaled.IntPart()), nil
}

// Parse reads an amount in major units, e.g. "33.34" or "900".
func Parse(s string) (Amount, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return FromDecimal(d)
}

// MustParse is like Parse but panics on error. Intended for constants and tests.
func MustParse(s string) Amount {
	a, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return a
}

// Minor returns the raw minor-unit count.
func (a Amount) Minor() int64 {
	return int64(a)
}

// Decimal returns the amount in major units.
func (a Amount) Decimal() decimal.Decimal {
	return decimal.New(int64(a), -Scale)
}

// String formats the amount with exactly two decimals.
func (a Amount) String() string {
	return a.Decimal().StringFixed(Scale)
}

// Abs returns the absolute value.
func (a Amount) Abs() Amount {
	if a < 0 {
		return -a
	}
	return a
}

// PercentFloor returns floor(a * pct / 100) in minor units.
func (a Amount) PercentFloor(pct decimal.Decimal) Amount {
	return Amount(decimal.NewFromInt(int64(a)).Mul(pct).Div(hundred).Floor().IntPart())
}

// InRange reports whether a lies within [-MaxAmount, MaxAmount].
func (a Amount) InRange() bool {
	return a >= -MaxAmount && a <= MaxAmount
}

// Add returns a+b. The second result is false if the sum overflows int64 or
// leaves [-MaxAmount, MaxAmount].
func Add(a, b Amount) (Amount, bool) {
	s := a + b
	if (a > 0 && b > 0 && s < 0) || (a < 0 && b < 0 && s >= 0) {
		return 0, false
	}
	return s, s.InRange()
}

// Min returns the smaller of a and b.
func Min(a, b Amount) Amount {
	if a < b {
		return a
	}
	return b
}

// Sum adds up amounts.
func Sum(amounts ...Amount) Amount {
	var total Amount
	for _, a := range amounts {
		total += a
	}
	return total
}

// MarshalJSON encodes the amount as a fixed two-decimal string.
func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(`"` + a.String() + `"`), nil
}

// UnmarshalJSON accepts either a JSON number or a quoted decimal string.
func (a *Amount) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	var d decimal.Decimal
	if err := d.UnmarshalJSON(data); err != nil {
		return fmt.Errorf("invalid amount %s: %w", data, err)
	}
	v, err := FromDecimal(d)
	if err != nil {
		return err
	}
	*a = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (a Amount) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler, used by YAML decoding.
func (a *Amount) UnmarshalText(text []byte) error {
	v, err := Parse(string(text))
	if err != nil {
		return err
	}
	*a = v
	return nil
}
