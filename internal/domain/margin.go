package domain

import "github.com/shopspring/decimal"

// MarginInput is a plan plus the cost basis and tax used for profitability
type MarginInput struct {
	InstallmentPlanInput

	// TotalCost is the estimated treatment cost; nil means unknown.
	TotalCost  *Money           `json:"total_cost,omitempty" validate:"omitempty,gte=0"`
	TaxPercent *decimal.Decimal `json:"tax_percent,omitempty" validate:"omitempty,gte=0,lte=100"`
}

// BudgetMargin is the profitability of a budget under a given plan
type BudgetMargin struct {
	TotalValue       Money           `json:"total_value"`
	TotalCost        Money           `json:"total_cost"`
	CostEstimated    bool            `json:"cost_estimated"`
	CardFeeValue     Money           `json:"card_fee_value"`
	TaxPercent       decimal.Decimal `json:"tax_percent"`
	TaxValue         Money           `json:"tax_value"`
	TotalToReceive   Money           `json:"total_to_receive"`
	NetMarginValue   Money           `json:"net_margin_value"`
	NetMarginPercent decimal.Decimal `json:"net_margin_percent"`
	IsProfitable     bool            `json:"is_profitable"`
	Confidence       Confidence      `json:"confidence"`
}
