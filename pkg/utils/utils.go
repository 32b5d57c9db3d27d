package utils

import (
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// SplitInstallments divides amount (minor units) into count installments.
// Every installment but the last equals amount/count rounded half-up; the last
// one absorbs the rounding remainder so the parts always sum to amount.
// When rounding up would leave a negative final installment the base falls back
// to the floored quotient.
func SplitInstallments(amount int64, count int) []int64 {
	if count < 1 {
		return nil
	}
	if count == 1 {
		return []int64{amount}
	}

	n := int64(count)
	base := decimal.NewFromInt(amount).Div(decimal.NewFromInt(n)).Round(0).IntPart()
	if base*(n-1) > amount {
		base = amount / n
	}

	parts := make([]int64, count)
	for i := 0; i < count-1; i++ {
		parts[i] = base
	}
	parts[count-1] = amount - base*(n-1)

	return parts
}

// PercentOf returns pct percent of amount (minor units), rounded half-up.
func PercentOf(amount int64, pct decimal.Decimal) int64 {
	return decimal.NewFromInt(amount).Mul(pct).Div(hundred).Round(0).IntPart()
}

// Scale multiplies amount (minor units) by factor, rounded half-up.
func Scale(amount int64, factor decimal.Decimal) int64 {
	return decimal.NewFromInt(amount).Mul(factor).Round(0).IntPart()
}

// RatioPercent expresses part as a percentage of whole with two decimal places.
// A zero whole yields zero.
func RatioPercent(part, whole int64) decimal.Decimal {
	if whole == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(part).Mul(hundred).Div(decimal.NewFromInt(whole)).Round(2)
}

// DueInDays returns the settlement offset in days of the given installment,
// counting from the sale date. Installment 1 settles one cycle after the sale.
func DueInDays(installmentNumber, cycleDays int) int {
	if installmentNumber < 1 {
		return 0
	}
	return installmentNumber * cycleDays
}

// MustDecimal converts a literal to decimal.Decimal and panics on malformed input.
func MustDecimal(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
