package domain

import "github.com/shopspring/decimal"

// Confidence tells where the fee terms behind a result came from
type Confidence string

const (
	// ConfidenceClinic means the clinic's own terms (stored or injected) were used
	ConfidenceClinic Confidence = "clinic"
	// ConfidenceDefault means no clinic was given and the built-in schedule applied
	ConfidenceDefault Confidence = "default"
	// ConfidenceOffline means the clinic lookup failed and built-in defaults were used instead
	ConfidenceOffline Confidence = "offline"
)

// Flags raised when the engine had to repair inconsistent fee data
const (
	FlagNegativeFeeClamped              = "NEGATIVE_FEE_CLAMPED"
	FlagNegativeAnticipationLossClamped = "NEGATIVE_ANTICIPATION_LOSS_CLAMPED"
)

// InstallmentPlanInput describes one way of paying a treatment budget
type InstallmentPlanInput struct {
	ClinicID         string        `json:"clinic_id,omitempty"`
	TotalValue       Money         `json:"total_value" validate:"gte=0"`
	DownPayment      Money         `json:"down_payment" validate:"gte=0,ltefield=TotalValue"`
	InstallmentCount int           `json:"installment_count" validate:"required,gte=1"`
	PaymentMethod    PaymentMethod `json:"payment_method" validate:"required,payment_method"`
	Anticipate       bool          `json:"anticipate"`

	// FeeOverride carries clinic terms supplied by the caller; when set it is
	// used as-is and no lookup happens.
	FeeOverride *FeeProfile `json:"fee_override,omitempty" validate:"-"`
}

// Installment is one scheduled receivable of a plan
type Installment struct {
	Number    int   `json:"number"`
	Amount    Money `json:"amount"`
	DueInDays int   `json:"due_in_days"`
}

// InstallmentPlanResult is the breakdown of a single plan
type InstallmentPlanResult struct {
	TotalValue        Money           `json:"total_value"`
	DownPayment       Money           `json:"down_payment"`
	InstallmentCount  int             `json:"installment_count"`
	PaymentMethod     PaymentMethod   `json:"payment_method"`
	FinancedAmount    Money           `json:"financed_amount"`
	InstallmentValue  Money           `json:"installment_value"`
	Installments      []Installment   `json:"installments"`
	FeeType           FeeType         `json:"fee_type"`
	FeePercentApplied decimal.Decimal `json:"fee_percent_applied"`
	FeeTotal          Money           `json:"fee_total"`
	TotalToReceive    Money           `json:"total_to_receive"`
	NetLossFromFees   Money           `json:"net_loss_from_fees"`
	Confidence        Confidence      `json:"confidence"`
	Flags             []string        `json:"flags,omitempty"`
}

// InstallmentSum adds up every scheduled installment
func (r InstallmentPlanResult) InstallmentSum() Money {
	var total Money
	for _, installment := range r.Installments {
		total += installment.Amount
	}
	return total
}

// IsOffline reports whether the result was computed with fallback defaults
func (r InstallmentPlanResult) IsOffline() bool {
	return r.Confidence == ConfidenceOffline
}
