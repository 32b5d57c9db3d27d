package service

import (
	"context"

	"github.com/segyhp/clinic-finance-engine/internal/domain"
	customError "github.com/segyhp/clinic-finance-engine/pkg/errors"
	"github.com/segyhp/clinic-finance-engine/pkg/utils"
)

// MarginCalculator folds treatment cost and tax into a plan's receivable
type MarginCalculator struct {
	analyzer *AnticipationAnalyzer
	settings Settings
}

func NewMarginCalculator(analyzer *AnticipationAnalyzer, settings Settings) *MarginCalculator {
	return &MarginCalculator{analyzer: analyzer, settings: settings}
}

// Compute returns the net margin of a budget under the given plan
func (m *MarginCalculator) Compute(ctx context.Context, input domain.MarginInput) (*domain.BudgetMargin, error) {
	if input.TotalCost != nil && input.TotalCost.IsNegative() {
		return nil, customError.WrapInvalidInput(customError.ReasonNegativeCost,
			"total cost "+input.TotalCost.String()+" must not be negative")
	}
	if input.TotalCost != nil && !input.TotalCost.InRange() {
		return nil, customError.WrapAmountOutOfRange(input.TotalCost.String(), domain.MaxMoney.String())
	}
	if input.TaxPercent != nil && input.TaxPercent.IsNegative() {
		return nil, customError.WrapInvalidInput(customError.ReasonNegativeTax,
			"tax percent "+input.TaxPercent.String()+" must not be negative")
	}
	if input.TaxPercent != nil && input.TaxPercent.GreaterThan(domain.MaxFeePercent) {
		return nil, customError.WrapAmountOutOfRange("tax percent "+input.TaxPercent.String(), domain.MaxFeePercent.String()+"%")
	}

	// 1. Receivable under the selected settlement mode
	analysis, err := m.analyzer.Analyze(ctx, input.InstallmentPlanInput)
	if err != nil {
		return nil, err
	}

	totalToReceive := analysis.TotalToReceiveNormal
	cardFee := analysis.BaseFeeValue
	if analysis.Anticipated {
		totalToReceive = analysis.TotalToReceiveAnticipated
		cardFee = analysis.TotalFeesValue
	}

	// 2. Cost basis
	total := input.TotalValue
	margin := &domain.BudgetMargin{
		TotalValue:     total,
		CardFeeValue:   cardFee,
		TotalToReceive: totalToReceive,
		Confidence:     analysis.Confidence,
	}
	if input.TotalCost != nil {
		margin.TotalCost = *input.TotalCost
	} else {
		margin.TotalCost = domain.Money(utils.PercentOf(total.Cents(), m.settings.DefaultCostPercent))
		margin.CostEstimated = true
	}

	// 3. Tax on the gross budget
	margin.TaxPercent = m.settings.DefaultTaxPercent
	if input.TaxPercent != nil {
		margin.TaxPercent = *input.TaxPercent
	}
	margin.TaxValue = domain.Money(utils.PercentOf(total.Cents(), margin.TaxPercent))

	// 4. Net margin
	margin.NetMarginValue = totalToReceive.Sub(margin.TotalCost).Sub(margin.TaxValue)
	margin.NetMarginPercent = utils.RatioPercent(margin.NetMarginValue.Cents(), total.Cents())
	margin.IsProfitable = margin.NetMarginValue.IsPositive()

	return margin, nil
}
