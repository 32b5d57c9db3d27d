package service

import (
	"context"
	"testing"

	"github.com/segyhp/clinic-finance-engine/internal/domain"
	"github.com/segyhp/clinic-finance-engine/internal/metrics"
	"github.com/segyhp/clinic-finance-engine/internal/mocks"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestCalculationService_PlanInstallments(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	svc := NewCalculationService(nil, DefaultSettings(), zap.New(core))

	ok := metrics.CalculationsTotal.WithLabelValues(OperationPlan, metrics.ResultOK)
	before := testutil.ToFloat64(ok)

	result, err := svc.PlanInstallments(context.Background(), creditCardThreeTimes(false))
	require.NoError(t, err)

	assert.Equal(t, money("965.10"), result.TotalToReceive)
	assert.Equal(t, before+1, testutil.ToFloat64(ok))
	assert.Equal(t, 1, logs.FilterMessage("calculation completed").Len())
}

func TestCalculationService_RejectionIsLoggedWithReason(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	svc := NewCalculationService(nil, DefaultSettings(), zap.New(core))

	rejected := metrics.CalculationsTotal.WithLabelValues(OperationPlan, metrics.ResultRejected)
	before := testutil.ToFloat64(rejected)

	_, err := svc.PlanInstallments(context.Background(), domain.InstallmentPlanInput{
		TotalValue:       money("100.00"),
		InstallmentCount: 2,
		PaymentMethod:    domain.PaymentMethodCash,
	})
	require.Error(t, err)

	entries := logs.FilterMessage("calculation rejected").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "INSTALLMENTS_NOT_ALLOWED", entries[0].ContextMap()["code"])
	assert.Equal(t, before+1, testutil.ToFloat64(rejected))
}

func TestCalculationService_ProviderFailureStillAnswers(t *testing.T) {
	provider := &mocks.MockFeeScheduleProvider{}
	provider.On("FeeTerms", mock.Anything, "clinic-1", mock.Anything, mock.Anything).
		Return(nil, context.DeadlineExceeded)

	svc := NewCalculationService(provider, DefaultSettings(), zap.NewNop())

	input := creditCardThreeTimes(false)
	input.ClinicID = "clinic-1"

	plan, err := svc.PlanInstallments(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, domain.ConfidenceOffline, plan.Confidence)
	assert.Equal(t, money("34.90"), plan.FeeTotal)

	comparison, err := svc.CompareScenarios(context.Background(), domain.ScenarioRequest{
		ClinicID:   "clinic-1",
		TotalValue: money("1000.00"),
	})
	require.NoError(t, err)
	assert.Equal(t, 12, comparison.Len())

	margin, err := svc.ComputeMargin(context.Background(), domain.MarginInput{InstallmentPlanInput: input})
	require.NoError(t, err)
	assert.Equal(t, domain.ConfidenceOffline, margin.Confidence)

	analysis, err := svc.AnalyzeAnticipation(context.Background(), input)
	require.NoError(t, err)
	assert.Contains(t, analysis.RecommendationLabel, "(offline calculation)")
}

func TestCalculationService_DefaultFeeProfiles(t *testing.T) {
	svc := NewCalculationService(nil, DefaultSettings(), nil)

	profiles := svc.DefaultFeeProfiles()

	require.Len(t, profiles, len(domain.PaymentMethods))
	for i, method := range domain.PaymentMethods {
		assert.Equal(t, method, profiles[i].Method)
	}
}
