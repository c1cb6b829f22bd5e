package money

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/shopspring/decimal"
)

// Scale is the number of fractional digits every stored amount carries.
const Scale = 2

var currencyCodeRe = regexp.MustCompile(`^[A-Z]{3}$`)

// ErrSubCentPrecision is returned when an amount has more fractional digits than Scale.
var ErrSubCentPrecision = errors.New("amount has more than 2 decimal places")

// Currency is an ISO 4217 currency code.
type Currency struct {
	code string
}

// NewCurrency creates a Currency after validating the code is exactly 3 uppercase letters.
func NewCurrency(code string) (Currency, error) {
	if !currencyCodeRe.MatchString(code) {
		return Currency{}, fmt.Errorf("invalid currency code %q: must be exactly 3 uppercase letters", code)
	}
	return Currency{code: code}, nil
}

// MustCurrency creates a Currency and panics on error. Intended for package-level variable
// initialization only.
func MustCurrency(code string) Currency {
	c, err := NewCurrency(code)
	if err != nil {
		panic(err)
	}
	return c
}

// Code returns the ISO 4217 currency code.
func (c Currency) Code() string { return c.code }

// String returns the currency code.
func (c Currency) String() string { return c.code }

// IsZero reports whether the currency was never set.
func (c Currency) IsZero() bool { return c.code == "" }

// Common currencies.
var (
	BRL = MustCurrency("BRL")
	USD = MustCurrency("USD")
	EUR = MustCurrency("EUR")
)

// ---------------------------------------------------------------------------
// Cent arithmetic on bare decimals
// ---------------------------------------------------------------------------

// Round quantises d to cents, rounding half away from zero.
func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(Scale)
}

// HasCentPrecision reports whether d is representable in whole cents.
func HasCentPrecision(d decimal.Decimal) bool {
	return d.Equal(d.Truncate(Scale))
}

// ParseAmount parses a decimal string and rejects sub-cent precision.
func ParseAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	if !HasCentPrecision(d) {
		return decimal.Zero, fmt.Errorf("invalid amount %q: %w", s, ErrSubCentPrecision)
	}
	return d, nil
}

// Max0 clamps negative values to zero.
func Max0(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// Sum adds all values.
func Sum(values ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(v)
	}
	return total
}

// ---------------------------------------------------------------------------
// Money
// ---------------------------------------------------------------------------

// Money represents an immutable monetary amount with currency.
// Fields are unexported to enforce immutability.
type Money struct {
	amount   decimal.Decimal
	currency Currency
}

// New creates a Money value from a decimal amount and currency.
func New(amount decimal.Decimal, currency Currency) Money {
	return Money{amount: amount, currency: currency}
}

// Amount returns the decimal amount.
func (m Money) Amount() decimal.Decimal { return m.amount }

// Currency returns the currency.
func (m Money) Currency() Currency { return m.currency }

// String formats the Money value as "<amount> <currency>" with cent precision, for example "100.00 BRL".
func (m Money) String() string {
	return fmt.Sprintf("%s %s", m.amount.StringFixed(Scale), m.currency.Code())
}
