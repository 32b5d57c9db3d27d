package service

import (
	"context"

	"github.com/segyhp/clinic-finance-engine/internal/domain"
	"github.com/segyhp/clinic-finance-engine/internal/metrics"
	customError "github.com/segyhp/clinic-finance-engine/pkg/errors"
	"github.com/segyhp/clinic-finance-engine/pkg/utils"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// AnticipationAnalyzer compares waiting for installments to settle against
// anticipating them all at once.
type AnticipationAnalyzer struct {
	planner  *InstallmentPlanner
	settings Settings
	logger   *zap.Logger
}

func NewAnticipationAnalyzer(planner *InstallmentPlanner, settings Settings, logger *zap.Logger) *AnticipationAnalyzer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AnticipationAnalyzer{planner: planner, settings: settings, logger: logger}
}

// Analyze computes the plan of input and the economics of anticipating it
func (a *AnticipationAnalyzer) Analyze(ctx context.Context, input domain.InstallmentPlanInput) (*domain.AnticipationResult, error) {
	plan, quote, err := a.planner.plan(ctx, input)
	if err != nil {
		return nil, err
	}

	result := &domain.AnticipationResult{
		InstallmentPlanResult: *plan,
		Anticipated:           input.Anticipate,
		BaseFeePercent:        plan.FeePercentApplied,
		BaseFeeValue:          plan.FeeTotal,
		TotalToReceiveNormal:  plan.TotalToReceive,
		MaterialityThreshold:  domain.Money(utils.PercentOf(plan.TotalValue.Cents(), a.settings.AnticipationMaterialityPercent)),
	}

	if !input.PaymentMethod.IsDeferredSettlement() {
		result.Anticipated = false
		result.AnticipationFeePercent = decimal.Zero
		result.TotalFeesPercent = result.BaseFeePercent
		result.TotalFeesValue = result.BaseFeeValue
		result.TotalToReceiveAnticipated = plan.TotalToReceive
		result.Recommendation = domain.RecommendationNotApplicable
		result.RecommendationLabel = result.Recommendation.Label(plan.Confidence)
		return result, nil
	}

	// 1. Anticipation fee on the financed portion
	financed := plan.FinancedAmount
	anticipationFee := quote.AnticipationFee(financed)
	anticipationPercent := quote.AnticipationPercent
	if quote.FeeType == domain.FeeTypeFixed && len(quote.Profile.Anticipation.Schedule) == 0 {
		anticipationPercent = utils.RatioPercent(anticipationFee.Cents(), financed.Cents())
	}

	// 2. Normal vs anticipated receivable
	anticipated := financed.Sub(plan.FeeTotal).Sub(anticipationFee).Add(plan.DownPayment)
	loss := plan.TotalToReceive.Sub(anticipated)
	if loss.IsNegative() {
		a.logger.Warn("negative anticipation loss clamped to zero",
			zap.String("method", input.PaymentMethod.String()),
			zap.String("loss", loss.String()),
		)
		metrics.DataInconsistencyTotal.WithLabelValues(customError.ReasonNegativeAnticipationLoss).Inc()
		result.Flags = append(result.Flags, domain.FlagNegativeAnticipationLossClamped)
		loss = 0
	}

	result.AnticipationFeePercent = anticipationPercent
	result.AnticipationFeeValue = anticipationFee
	result.TotalToReceiveAnticipated = anticipated
	result.CashLossFromAnticipation = loss

	// 3. Fees actually charged in the selected mode
	result.TotalFeesPercent = result.BaseFeePercent
	result.TotalFeesValue = result.BaseFeeValue
	if input.Anticipate {
		result.TotalFeesPercent = result.TotalFeesPercent.Add(anticipationPercent)
		result.TotalFeesValue = result.TotalFeesValue.Add(anticipationFee)
	}

	// 4. Settlement timing
	result.DaysToReceiveNormal = plan.InstallmentCount * a.settings.SettlementCycleDays
	result.DaysToReceiveAnticipated = a.settings.AnticipationSettlementDays
	result.DaysToReceiveAll = result.DaysToReceiveNormal
	if input.Anticipate {
		result.DaysToReceiveAll = result.DaysToReceiveAnticipated
	}

	// 5. Recommendation
	result.Recommendation = domain.RecommendationAnticipate
	if loss > result.MaterialityThreshold {
		result.Recommendation = domain.RecommendationCostly
	}
	result.RecommendationLabel = result.Recommendation.Label(plan.Confidence)

	return result, nil
}
