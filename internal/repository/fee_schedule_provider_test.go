package repository_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/segyhp/clinic-finance-engine/internal/domain"
	"github.com/segyhp/clinic-finance-engine/internal/mocks"
	"github.com/segyhp/clinic-finance-engine/internal/repository"
	customError "github.com/segyhp/clinic-finance-engine/pkg/errors"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func clinicProfile() *domain.FeeProfile {
	return &domain.FeeProfile{
		ClinicID:            "clinic-1",
		Method:              domain.PaymentMethodBoleto,
		FeeType:             domain.FeeTypePercentage,
		FeePercent:          decimal.RequireFromString("12"),
		InstallmentsAllowed: true,
		MaxInstallments:     6,
	}
}

func TestClinicFeeScheduleProvider_CacheHit(t *testing.T) {
	repo := &mocks.MockFeeProfileRepository{}
	cache := &mocks.MockFeeProfileCache{}
	cache.On("Get", mock.Anything, "clinic-1", domain.PaymentMethodBoleto).Return(clinicProfile(), nil)

	provider := repository.NewClinicFeeScheduleProvider(repo, cache, time.Second, zaptest.NewLogger(t))
	profile, err := provider.FeeTerms(context.Background(), "clinic-1", domain.PaymentMethodBoleto, 3)

	require.NoError(t, err)
	assert.True(t, profile.FeePercent.Equal(decimal.NewFromInt(12)))
	repo.AssertNotCalled(t, "GetByClinicAndMethod", mock.Anything, mock.Anything, mock.Anything)
}

func TestClinicFeeScheduleProvider_CacheMissFillsCache(t *testing.T) {
	repo := &mocks.MockFeeProfileRepository{}
	cache := &mocks.MockFeeProfileCache{}
	profile := clinicProfile()
	cache.On("Get", mock.Anything, "clinic-1", domain.PaymentMethodBoleto).Return(nil, customError.ErrFeeProfileNotFound)
	repo.On("GetByClinicAndMethod", mock.Anything, "clinic-1", domain.PaymentMethodBoleto).Return(profile, nil)
	cache.On("Set", mock.Anything, profile).Return(nil)

	provider := repository.NewClinicFeeScheduleProvider(repo, cache, time.Second, zaptest.NewLogger(t))
	got, err := provider.FeeTerms(context.Background(), "clinic-1", domain.PaymentMethodBoleto, 3)

	require.NoError(t, err)
	assert.Same(t, profile, got)
	repo.AssertExpectations(t)
	cache.AssertExpectations(t)
}

func TestClinicFeeScheduleProvider_CacheFailureStillReadsDatabase(t *testing.T) {
	repo := &mocks.MockFeeProfileRepository{}
	cache := &mocks.MockFeeProfileCache{}
	profile := clinicProfile()
	cache.On("Get", mock.Anything, "clinic-1", domain.PaymentMethodBoleto).
		Return(nil, customError.WrapCacheError(errors.New("redis down")))
	repo.On("GetByClinicAndMethod", mock.Anything, "clinic-1", domain.PaymentMethodBoleto).Return(profile, nil)
	cache.On("Set", mock.Anything, profile).Return(customError.WrapCacheError(errors.New("redis down")))

	provider := repository.NewClinicFeeScheduleProvider(repo, cache, time.Second, zaptest.NewLogger(t))
	got, err := provider.FeeTerms(context.Background(), "clinic-1", domain.PaymentMethodBoleto, 2)

	require.NoError(t, err)
	assert.Same(t, profile, got)
}

func TestClinicFeeScheduleProvider_NotFound(t *testing.T) {
	repo := &mocks.MockFeeProfileRepository{}
	repo.On("GetByClinicAndMethod", mock.Anything, "clinic-1", domain.PaymentMethodPix).
		Return(nil, customError.ErrFeeProfileNotFound)

	provider := repository.NewClinicFeeScheduleProvider(repo, nil, time.Second, zaptest.NewLogger(t))
	_, err := provider.FeeTerms(context.Background(), "clinic-1", domain.PaymentMethodPix, 1)

	assert.ErrorIs(t, err, customError.ErrFeeProfileNotFound)
	assert.NotErrorIs(t, err, customError.ErrUpstreamUnavailable)
}

func TestClinicFeeScheduleProvider_DatabaseFailure(t *testing.T) {
	repo := &mocks.MockFeeProfileRepository{}
	repo.On("GetByClinicAndMethod", mock.Anything, "clinic-1", domain.PaymentMethodPix).
		Return(nil, errors.New("connection reset"))

	provider := repository.NewClinicFeeScheduleProvider(repo, nil, time.Second, zaptest.NewLogger(t))
	_, err := provider.FeeTerms(context.Background(), "clinic-1", domain.PaymentMethodPix, 1)

	assert.ErrorIs(t, err, customError.ErrUpstreamUnavailable)
}

func TestClinicFeeScheduleProvider_Timeout(t *testing.T) {
	repo := &mocks.MockFeeProfileRepository{}
	repo.On("GetByClinicAndMethod", mock.Anything, "clinic-1", domain.PaymentMethodCreditCard).
		Run(func(args mock.Arguments) {
			ctx := args.Get(0).(context.Context)
			<-ctx.Done()
		}).
		Return(nil, context.DeadlineExceeded)

	provider := repository.NewClinicFeeScheduleProvider(repo, nil, 20*time.Millisecond, zaptest.NewLogger(t))

	start := time.Now()
	_, err := provider.FeeTerms(context.Background(), "clinic-1", domain.PaymentMethodCreditCard, 3)

	assert.ErrorIs(t, err, customError.ErrUpstreamUnavailable)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), time.Second)
}
