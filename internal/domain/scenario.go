package domain

import "iter"

// MaxScenarioInstallments is the largest installment count a comparison lists
const MaxScenarioInstallments = 12

// ScenarioRequest asks for every installment count of one payment method
type ScenarioRequest struct {
	ClinicID      string        `json:"clinic_id,omitempty"`
	TotalValue    Money         `json:"total_value" validate:"gte=0"`
	DownPayment   Money         `json:"down_payment" validate:"gte=0,ltefield=TotalValue"`
	PaymentMethod PaymentMethod `json:"payment_method,omitempty" validate:"omitempty,payment_method"`
	FeeOverride   *FeeProfile   `json:"fee_override,omitempty" validate:"-"`
}

// Scenario pairs an installment count with its plan
type Scenario struct {
	InstallmentCount int                   `json:"installment_count"`
	Plan             InstallmentPlanResult `json:"plan"`
}

// ScenarioComparison holds plans in strictly ascending installment order.
// Counts whose calculation failed are listed in Omitted.
type ScenarioComparison struct {
	TotalValue    Money         `json:"total_value"`
	DownPayment   Money         `json:"down_payment"`
	PaymentMethod PaymentMethod `json:"payment_method"`
	Scenarios     []Scenario    `json:"scenarios"`
	Omitted       []int         `json:"omitted,omitempty"`
}

// All iterates the scenarios in ascending installment order. The sequence can
// be ranged over any number of times.
func (c ScenarioComparison) All() iter.Seq2[int, InstallmentPlanResult] {
	return func(yield func(int, InstallmentPlanResult) bool) {
		for _, scenario := range c.Scenarios {
			if !yield(scenario.InstallmentCount, scenario.Plan) {
				return
			}
		}
	}
}

// Len returns the number of computed scenarios
func (c ScenarioComparison) Len() int {
	return len(c.Scenarios)
}
