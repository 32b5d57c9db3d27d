package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	customError "github.com/segyhp/clinic-finance-engine/pkg/errors"

	"github.com/shopspring/decimal"
)

// Upper bounds on fee terms, in either sign
var (
	MaxFeePercent             = decimal.NewFromInt(100)
	MaxAnticipationMultiplier = decimal.NewFromInt(100)
)

// FeeBand charges FeePercent for installment counts up to MaxInstallments,
// starting right after the previous band's upper bound.
type FeeBand struct {
	MaxInstallments int             `json:"max_installments"`
	FeePercent      decimal.Decimal `json:"fee_percent"`
}

// FeeSchedule is an ordered, gap-free list of bands. Counts beyond the last
// band are charged at the last band's rate.
type FeeSchedule []FeeBand

// Validate checks bands are strictly ascending, start at 1 or more and carry
// rates between 0 and MaxFeePercent.
func (s FeeSchedule) Validate() error {
	if err := s.checkOrder(); err != nil {
		return err
	}
	for i, band := range s {
		if band.FeePercent.IsNegative() {
			return fmt.Errorf("%w: band %d has negative rate %s",
				customError.ErrInvalidFeeSchedule, i, band.FeePercent.String())
		}
		if err := checkRate("band rate", band.FeePercent); err != nil {
			return err
		}
	}
	return nil
}

func (s FeeSchedule) checkOrder() error {
	previous := 0
	for i, band := range s {
		if band.MaxInstallments <= previous {
			return fmt.Errorf("%w: band %d upper bound %d must be greater than %d",
				customError.ErrInvalidFeeSchedule, i, band.MaxInstallments, previous)
		}
		previous = band.MaxInstallments
	}
	return nil
}

// RateFor returns the percentage applicable to count installments; ok is false
// for an empty schedule.
func (s FeeSchedule) RateFor(count int) (rate decimal.Decimal, ok bool) {
	if len(s) == 0 {
		return decimal.Zero, false
	}
	for _, band := range s {
		if count <= band.MaxInstallments {
			return band.FeePercent, true
		}
	}
	return s[len(s)-1].FeePercent, true
}

// Value stores the schedule as JSON (jsonb column)
func (s FeeSchedule) Value() (driver.Value, error) {
	if s == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(s)
}

// Scan reads the schedule back from a jsonb column
func (s *FeeSchedule) Scan(src interface{}) error {
	return scanJSON(src, s)
}

// AnticipationTerms describes what the processor charges to settle all future
// installments at once. A non-empty Schedule wins over Multiplier.
type AnticipationTerms struct {
	Multiplier decimal.Decimal `json:"multiplier"`
	Schedule   FeeSchedule     `json:"schedule,omitempty"`
}

func (a AnticipationTerms) Value() (driver.Value, error) {
	return json.Marshal(a)
}

func (a *AnticipationTerms) Scan(src interface{}) error {
	return scanJSON(src, a)
}

// PercentFor returns the anticipation percentage for count installments given
// the base fee percentage already applied to the plan.
func (a AnticipationTerms) PercentFor(count int, basePercent decimal.Decimal) decimal.Decimal {
	if rate, ok := a.Schedule.RateFor(count); ok {
		return rate
	}
	return basePercent.Mul(a.Multiplier)
}

// FeeProfile holds a payment method's processing terms, either the built-in
// defaults or a clinic's negotiated terms.
type FeeProfile struct {
	ClinicID            string            `json:"clinic_id,omitempty" db:"clinic_id"`
	Method              PaymentMethod     `json:"method" db:"method"`
	FeeType             FeeType           `json:"fee_type" db:"fee_type"`
	FeePercent          decimal.Decimal   `json:"fee_percent" db:"fee_percent"`
	FeeFixedAmount      Money             `json:"fee_fixed_amount" db:"fee_fixed_amount"`
	InstallmentsAllowed bool              `json:"installments_allowed" db:"installments_allowed"`
	MaxInstallments     int               `json:"max_installments" db:"max_installments"`
	MinInstallmentValue Money             `json:"min_installment_value" db:"min_installment_value"`
	TieredSchedule      FeeSchedule       `json:"tiered_schedule,omitempty" db:"tiered_schedule"`
	Anticipation        AnticipationTerms `json:"anticipation" db:"anticipation"`
	UpdatedAt           time.Time         `json:"updated_at,omitempty" db:"updated_at"`
}

// Validate rejects profiles that could not produce a sensible quote. Negative
// rates are not rejected here; the resolver clamps them.
func (p *FeeProfile) Validate() error {
	if !p.Method.IsValid() {
		return fmt.Errorf("%w: unknown method %q", customError.ErrInvalidFeeSchedule, p.Method)
	}
	if !p.FeeType.IsValid() {
		return fmt.Errorf("%w: unknown fee type %q", customError.ErrInvalidFeeSchedule, p.FeeType)
	}
	if p.MaxInstallments < 0 {
		return fmt.Errorf("%w: max installments %d is negative", customError.ErrInvalidFeeSchedule, p.MaxInstallments)
	}
	if p.FeeFixedAmount.IsNegative() || p.MinInstallmentValue.IsNegative() {
		return fmt.Errorf("%w: negative amounts in profile", customError.ErrInvalidFeeSchedule)
	}
	if p.FeeFixedAmount > MaxMoney || p.MinInstallmentValue > MaxMoney {
		return fmt.Errorf("%w: amounts in profile exceed %s", customError.ErrInvalidFeeSchedule, MaxMoney)
	}
	if p.Anticipation.Multiplier.Abs().GreaterThan(MaxAnticipationMultiplier) {
		return fmt.Errorf("%w: anticipation multiplier %s exceeds %s",
			customError.ErrInvalidFeeSchedule, p.Anticipation.Multiplier, MaxAnticipationMultiplier)
	}
	if err := checkRate("fee percent", p.FeePercent); err != nil {
		return err
	}
	for _, schedule := range []FeeSchedule{p.TieredSchedule, p.Anticipation.Schedule} {
		if err := schedule.checkOrder(); err != nil {
			return err
		}
		for _, band := range schedule {
			if err := checkRate("band rate", band.FeePercent); err != nil {
				return err
			}
		}
	}
	return nil
}

func checkRate(name string, rate decimal.Decimal) error {
	if rate.Abs().GreaterThan(MaxFeePercent) {
		return fmt.Errorf("%w: %s %s exceeds %s%%", customError.ErrInvalidFeeSchedule, name, rate, MaxFeePercent)
	}
	return nil
}

// FeePercentFor returns the processing percentage for count installments.
func (p FeeProfile) FeePercentFor(count int) decimal.Decimal {
	if rate, ok := p.TieredSchedule.RateFor(count); ok {
		return rate
	}
	return p.FeePercent
}

// CheckInstallments verifies the profile accepts count installments.
func (p FeeProfile) CheckInstallments(count int) error {
	if count < 1 {
		return customError.WrapInstallmentCountBelowOne(count)
	}
	if count > 1 && !p.InstallmentsAllowed {
		return customError.WrapInstallmentsNotAllowed(p.Method.String(), count)
	}
	if p.MaxInstallments > 0 && count > p.MaxInstallments {
		return customError.WrapMaxInstallmentsExceeded(p.Method.String(), count, p.MaxInstallments)
	}
	return nil
}

func scanJSON(src interface{}, dest interface{}) error {
	switch v := src.(type) {
	case nil:
		return nil
	case []byte:
		return json.Unmarshal(v, dest)
	case string:
		return json.Unmarshal([]byte(v), dest)
	default:
		return fmt.Errorf("cannot scan %T into %T", src, dest)
	}
}
