package repository

import (
	"context"
	"testing"
	"time"

	"github.com/segyhp/clinic-finance-engine/internal/domain"
	customError "github.com/segyhp/clinic-finance-engine/pkg/errors"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (FeeProfileCache, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return NewFeeProfileCache(client, 10*time.Minute), mr
}

func testProfile() *domain.FeeProfile {
	return &domain.FeeProfile{
		ClinicID:            "clinic-1",
		Method:              domain.PaymentMethodCreditCard,
		FeeType:             domain.FeeTypePercentage,
		FeePercent:          decimal.RequireFromString("2.99"),
		InstallmentsAllowed: true,
		MaxInstallments:     10,
		MinInstallmentValue: domain.MustParseMoney("50.00"),
		TieredSchedule: domain.FeeSchedule{
			{MaxInstallments: 1, FeePercent: decimal.RequireFromString("1.99")},
			{MaxInstallments: 10, FeePercent: decimal.RequireFromString("2.99")},
		},
		Anticipation: domain.AnticipationTerms{Multiplier: decimal.RequireFromString("1.2")},
	}
}

func TestFeeProfileCache_SetAndGet(t *testing.T) {
	cache, mr := setupTestRedis(t)
	ctx := context.Background()
	profile := testProfile()

	require.NoError(t, cache.Set(ctx, profile))

	assert.True(t, mr.Exists("fee_profile:clinic-1:CREDIT_CARD"))
	assert.Equal(t, 10*time.Minute, mr.TTL("fee_profile:clinic-1:CREDIT_CARD"))

	got, err := cache.Get(ctx, "clinic-1", domain.PaymentMethodCreditCard)
	require.NoError(t, err)
	assert.Equal(t, profile.MinInstallmentValue, got.MinInstallmentValue)
	assert.True(t, got.FeePercentFor(5).Equal(decimal.RequireFromString("2.99")))
	assert.True(t, got.Anticipation.Multiplier.Equal(decimal.RequireFromString("1.2")))
}

func TestFeeProfileCache_Miss(t *testing.T) {
	cache, _ := setupTestRedis(t)

	_, err := cache.Get(context.Background(), "clinic-1", domain.PaymentMethodPix)

	assert.ErrorIs(t, err, customError.ErrFeeProfileNotFound)
}

func TestFeeProfileCache_Expiry(t *testing.T) {
	cache, mr := setupTestRedis(t)
	ctx := context.Background()
	require.NoError(t, cache.Set(ctx, testProfile()))

	mr.FastForward(11 * time.Minute)

	_, err := cache.Get(ctx, "clinic-1", domain.PaymentMethodCreditCard)
	assert.ErrorIs(t, err, customError.ErrFeeProfileNotFound)
}

func TestFeeProfileCache_Delete(t *testing.T) {
	cache, _ := setupTestRedis(t)
	ctx := context.Background()
	require.NoError(t, cache.Set(ctx, testProfile()))

	require.NoError(t, cache.Delete(ctx, "clinic-1", domain.PaymentMethodCreditCard))

	_, err := cache.Get(ctx, "clinic-1", domain.PaymentMethodCreditCard)
	assert.ErrorIs(t, err, customError.ErrFeeProfileNotFound)
}

func TestFeeProfileCache_CorruptEntry(t *testing.T) {
	cache, mr := setupTestRedis(t)
	require.NoError(t, mr.Set("fee_profile:clinic-1:PIX", "{not json"))

	_, err := cache.Get(context.Background(), "clinic-1", domain.PaymentMethodPix)

	var businessErr *customError.BusinessError
	require.ErrorAs(t, err, &businessErr)
	assert.Equal(t, customError.ErrCodeCacheError, businessErr.Code)
}

func TestFeeProfileCache_ServerDown(t *testing.T) {
	cache, mr := setupTestRedis(t)
	mr.Close()

	_, err := cache.Get(context.Background(), "clinic-1", domain.PaymentMethodPix)

	assert.Error(t, err)
	assert.NotErrorIs(t, err, customError.ErrFeeProfileNotFound)
	assert.Error(t, cache.Ping(context.Background()))
}
