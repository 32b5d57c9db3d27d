package service

import (
	"context"
	"errors"
	"time"

	"github.com/segyhp/clinic-finance-engine/internal/domain"
	"github.com/segyhp/clinic-finance-engine/internal/metrics"
	"github.com/segyhp/clinic-finance-engine/internal/repository"
	customError "github.com/segyhp/clinic-finance-engine/pkg/errors"

	"go.uber.org/zap"
)

// Operation names used in logs and metrics
const (
	OperationPlan         = "plan_installments"
	OperationAnticipation = "analyze_anticipation"
	OperationMargin       = "compute_margin"
	OperationScenarios    = "compare_scenarios"
)

// CalculationService is the entry point for every calculation
type CalculationService struct {
	planner    *InstallmentPlanner
	analyzer   *AnticipationAnalyzer
	margin     *MarginCalculator
	comparator *ScenarioComparator
	settings   Settings
	logger     *zap.Logger
}

// NewCalculationService wires the calculators. provider may be nil, in which
// case only injected overrides and the built-in schedule are used.
func NewCalculationService(provider repository.FeeScheduleProvider, settings Settings, logger *zap.Logger) *CalculationService {
	if logger == nil {
		logger = zap.NewNop()
	}

	resolver := NewFeeScheduleResolver(provider, settings, logger)
	planner := NewInstallmentPlanner(resolver, settings)
	analyzer := NewAnticipationAnalyzer(planner, settings, logger)

	return &CalculationService{
		planner:    planner,
		analyzer:   analyzer,
		margin:     NewMarginCalculator(analyzer, settings),
		comparator: NewScenarioComparator(planner, settings, logger),
		settings:   settings,
		logger:     logger,
	}
}

// PlanInstallments computes a single installment plan
func (s *CalculationService) PlanInstallments(ctx context.Context, input domain.InstallmentPlanInput) (*domain.InstallmentPlanResult, error) {
	start := time.Now()
	result, err := s.planner.Plan(ctx, input)
	s.observe(OperationPlan, start, err, planFields(input)...)
	return result, err
}

// AnalyzeAnticipation computes a plan together with its anticipation economics
func (s *CalculationService) AnalyzeAnticipation(ctx context.Context, input domain.InstallmentPlanInput) (*domain.AnticipationResult, error) {
	start := time.Now()
	result, err := s.analyzer.Analyze(ctx, input)
	s.observe(OperationAnticipation, start, err, planFields(input)...)
	return result, err
}

// ComputeMargin computes the net margin of a budget
func (s *CalculationService) ComputeMargin(ctx context.Context, input domain.MarginInput) (*domain.BudgetMargin, error) {
	start := time.Now()
	result, err := s.margin.Compute(ctx, input)
	s.observe(OperationMargin, start, err, planFields(input.InstallmentPlanInput)...)
	return result, err
}

// CompareScenarios plans every installment count of a method
func (s *CalculationService) CompareScenarios(ctx context.Context, request domain.ScenarioRequest) (*domain.ScenarioComparison, error) {
	start := time.Now()
	result, err := s.comparator.Compare(ctx, request)
	fields := []zap.Field{
		zap.String("clinic_id", request.ClinicID),
		zap.String("method", request.PaymentMethod.String()),
	}
	if result != nil {
		fields = append(fields, zap.Ints("omitted", result.Omitted))
	}
	s.observe(OperationScenarios, start, err, fields...)
	return result, err
}

// DefaultFeeProfiles lists the built-in terms in display order
func (s *CalculationService) DefaultFeeProfiles() []domain.FeeProfile {
	defaults := DefaultFeeProfiles(s.settings)
	profiles := make([]domain.FeeProfile, 0, len(defaults))
	for _, method := range domain.PaymentMethods {
		profiles = append(profiles, defaults[method])
	}
	return profiles
}

func (s *CalculationService) observe(operation string, start time.Time, err error, fields ...zap.Field) {
	fields = append(fields, zap.String("operation", operation), zap.Duration("elapsed", time.Since(start)))

	var businessErr *customError.BusinessError
	switch {
	case err == nil:
		metrics.CalculationsTotal.WithLabelValues(operation, metrics.ResultOK).Inc()
		s.logger.Debug("calculation completed", fields...)
	case errors.As(err, &businessErr):
		metrics.CalculationsTotal.WithLabelValues(operation, metrics.ResultRejected).Inc()
		s.logger.Info("calculation rejected", append(fields,
			zap.String("code", businessErr.Code),
			zap.String("reason", businessErr.Reason),
		)...)
	default:
		metrics.CalculationsTotal.WithLabelValues(operation, metrics.ResultError).Inc()
		s.logger.Error("calculation failed", append(fields, zap.Error(err))...)
	}
}

func planFields(input domain.InstallmentPlanInput) []zap.Field {
	return []zap.Field{
		zap.String("clinic_id", input.ClinicID),
		zap.String("method", input.PaymentMethod.String()),
		zap.Int("installment_count", input.InstallmentCount),
		zap.Bool("override", input.FeeOverride != nil),
	}
}
