package domain

import (
	"fmt"

	customError "github.com/segyhp/clinic-finance-engine/pkg/errors"

	"github.com/shopspring/decimal"
)

// Money is an amount in minor currency units (centavos).
type Money int64

// MaxMoney is the largest accepted amount, 10 trillion in major units. With
// percentages capped at MaxFeePercent and multipliers at MaxAnticipationMultiplier
// every product the calculators form stays well inside int64.
const MaxMoney Money = 1_000_000_000_000_000

var centsPerUnit = decimal.NewFromInt(100)

// NewMoneyFromCents creates Money from integer cents (smallest unit)
func NewMoneyFromCents(cents int64) Money {
	return Money(cents)
}

// NewMoneyFromDecimal converts a major-unit decimal (e.g. 1000.50) to Money.
// Amounts with more than two decimal places are rejected instead of rounded,
// amounts beyond MaxMoney with an AMOUNT_OUT_OF_RANGE InvalidInput error.
func NewMoneyFromDecimal(amount decimal.Decimal) (Money, error) {
	if amount.Abs().GreaterThan(MaxMoney.Decimal()) {
		return 0, customError.WrapAmountOutOfRange(amount.String(), MaxMoney.String())
	}
	if !amount.Equal(amount.Round(2)) {
		return 0, fmt.Errorf("amount %s has more than 2 decimal places", amount.String())
	}
	return Money(amount.Mul(centsPerUnit).IntPart()), nil
}

// ParseMoney parses a major-unit string such as "1000.00".
func ParseMoney(s string) (Money, error) {
	dec, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("invalid amount: %w", err)
	}
	return NewMoneyFromDecimal(dec)
}

// MustParseMoney parses Money and panics on error (for constants/tests)
func MustParseMoney(s string) Money {
	m, err := ParseMoney(s)
	if err != nil {
		panic(err)
	}
	return m
}

// Cents returns the amount in minor units
func (m Money) Cents() int64 {
	return int64(m)
}

// Decimal returns the amount in major units
func (m Money) Decimal() decimal.Decimal {
	return decimal.New(int64(m), -2)
}

// String returns the amount with exactly two decimal places (e.g. "965.10")
func (m Money) String() string {
	return m.Decimal().StringFixed(2)
}

// InRange reports whether m lies within [-MaxMoney, MaxMoney]
func (m Money) InRange() bool {
	return m >= -MaxMoney && m <= MaxMoney
}

func (m Money) IsZero() bool {
	return m == 0
}

func (m Money) IsNegative() bool {
	return m < 0
}

func (m Money) IsPositive() bool {
	return m > 0
}

func (m Money) Add(other Money) Money {
	return m + other
}

func (m Money) Sub(other Money) Money {
	return m - other
}

// MarshalJSON renders Money as a quoted decimal string, matching decimal.Decimal.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(`"` + m.String() + `"`), nil
}

// UnmarshalJSON accepts both quoted strings and bare JSON numbers.
func (m *Money) UnmarshalJSON(data []byte) error {
	var dec decimal.Decimal
	if err := dec.UnmarshalJSON(data); err != nil {
		return fmt.Errorf("invalid amount: %w", err)
	}
	parsed, err := NewMoneyFromDecimal(dec)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// SumMoney adds up amounts
func SumMoney(amounts []Money) Money {
	var total Money
	for _, amount := range amounts {
		total += amount
	}
	return total
}
