package service

import (
	"context"
	"sort"

	"github.com/segyhp/clinic-finance-engine/internal/domain"

	"github.com/sourcegraph/conc/iter"
	"go.uber.org/zap"
)

// ScenarioComparator plans every installment count of a method side by side
type ScenarioComparator struct {
	planner  *InstallmentPlanner
	settings Settings
	logger   *zap.Logger
}

func NewScenarioComparator(planner *InstallmentPlanner, settings Settings, logger *zap.Logger) *ScenarioComparator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScenarioComparator{planner: planner, settings: settings, logger: logger}
}

type scenarioOutcome struct {
	count int
	plan  *domain.InstallmentPlanResult
	err   error
}

// Compare plans counts 1..MaxScenarioInstallments concurrently. Counts that
// fail are left out and listed in Omitted; only invalid amounts fail the call.
func (c *ScenarioComparator) Compare(ctx context.Context, request domain.ScenarioRequest) (*domain.ScenarioComparison, error) {
	if err := validateAmounts(request.TotalValue, request.DownPayment); err != nil {
		return nil, err
	}

	method := request.PaymentMethod
	if method == "" {
		method = domain.PaymentMethodCreditCard
	}

	maxCount := c.settings.MaxScenarioInstallments
	if maxCount < 1 {
		maxCount = 1
	}
	if maxCount > domain.MaxScenarioInstallments {
		maxCount = domain.MaxScenarioInstallments
	}
	counts := make([]int, maxCount)
	for i := range counts {
		counts[i] = i + 1
	}

	mapper := iter.Mapper[int, scenarioOutcome]{MaxGoroutines: c.settings.ScenarioConcurrency}
	outcomes := mapper.Map(counts, func(count *int) scenarioOutcome {
		plan, err := c.planner.Plan(ctx, domain.InstallmentPlanInput{
			ClinicID:         request.ClinicID,
			TotalValue:       request.TotalValue,
			DownPayment:      request.DownPayment,
			InstallmentCount: *count,
			PaymentMethod:    method,
			FeeOverride:      request.FeeOverride,
		})
		return scenarioOutcome{count: *count, plan: plan, err: err}
	})

	sort.Slice(outcomes, func(i, j int) bool { return outcomes[i].count < outcomes[j].count })

	comparison := &domain.ScenarioComparison{
		TotalValue:    request.TotalValue,
		DownPayment:   request.DownPayment,
		PaymentMethod: method,
		Scenarios:     make([]domain.Scenario, 0, len(outcomes)),
	}
	for _, outcome := range outcomes {
		if outcome.err != nil {
			c.logger.Debug("scenario omitted",
				zap.Int("installment_count", outcome.count),
				zap.String("method", method.String()),
				zap.Error(outcome.err),
			)
			comparison.Omitted = append(comparison.Omitted, outcome.count)
			continue
		}
		comparison.Scenarios = append(comparison.Scenarios, domain.Scenario{
			InstallmentCount: outcome.count,
			Plan:             *outcome.plan,
		})
	}

	return comparison, nil
}
