package domain

import "github.com/shopspring/decimal"

// Recommendation is the anticipation verdict for a plan
type Recommendation string

const (
	RecommendationAnticipate    Recommendation = "anticipation recommended"
	RecommendationCostly        Recommendation = "anticipation costly — evaluate cash-flow need"
	RecommendationNotApplicable Recommendation = "not applicable for this payment method"
)

const offlineSuffix = " (offline calculation)"

// Label renders the recommendation, marking results computed from offline defaults.
func (r Recommendation) Label(confidence Confidence) string {
	if confidence == ConfidenceOffline {
		return string(r) + offlineSuffix
	}
	return string(r)
}

// AnticipationResult compares waiting for every installment against
// anticipating them all right away.
type AnticipationResult struct {
	InstallmentPlanResult

	Anticipated               bool            `json:"anticipated"`
	BaseFeePercent            decimal.Decimal `json:"base_fee_percent"`
	BaseFeeValue              Money           `json:"base_fee_value"`
	AnticipationFeePercent    decimal.Decimal `json:"anticipation_fee_percent"`
	AnticipationFeeValue      Money           `json:"anticipation_fee_value"`
	TotalFeesPercent          decimal.Decimal `json:"total_fees_percent"`
	TotalFeesValue            Money           `json:"total_fees_value"`
	TotalToReceiveNormal      Money           `json:"total_to_receive_normal"`
	TotalToReceiveAnticipated Money           `json:"total_to_receive_anticipated"`
	CashLossFromAnticipation  Money           `json:"cash_loss_from_anticipation"`
	MaterialityThreshold      Money           `json:"materiality_threshold"`
	DaysToReceiveNormal       int             `json:"days_to_receive_normal"`
	DaysToReceiveAnticipated  int             `json:"days_to_receive_anticipated"`
	DaysToReceiveAll          int             `json:"days_to_receive_all"`
	Recommendation            Recommendation  `json:"recommendation"`
	RecommendationLabel       string          `json:"recommendation_label"`
}
