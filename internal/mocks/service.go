package mocks

import (
	"context"

	"github.com/segyhp/clinic-finance-engine/internal/domain"

	"github.com/stretchr/testify/mock"
)

type MockCalculationService struct {
	mock.Mock
}

func (m *MockCalculationService) PlanInstallments(ctx context.Context, input domain.InstallmentPlanInput) (*domain.InstallmentPlanResult, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.InstallmentPlanResult), args.Error(1)
}

func (m *MockCalculationService) AnalyzeAnticipation(ctx context.Context, input domain.InstallmentPlanInput) (*domain.AnticipationResult, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AnticipationResult), args.Error(1)
}

func (m *MockCalculationService) ComputeMargin(ctx context.Context, input domain.MarginInput) (*domain.BudgetMargin, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BudgetMargin), args.Error(1)
}

func (m *MockCalculationService) CompareScenarios(ctx context.Context, request domain.ScenarioRequest) (*domain.ScenarioComparison, error) {
	args := m.Called(ctx, request)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ScenarioComparison), args.Error(1)
}

func (m *MockCalculationService) DefaultFeeProfiles() []domain.FeeProfile {
	args := m.Called()
	return args.Get(0).([]domain.FeeProfile)
}

// NewMockCalculationService creates a new mock calculation service instance
func NewMockCalculationService() *MockCalculationService {
	return &MockCalculationService{}
}
