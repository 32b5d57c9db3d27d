package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/segyhp/clinic-finance-engine/internal/domain"
	customError "github.com/segyhp/clinic-finance-engine/pkg/errors"

	"github.com/redis/go-redis/v9"
)

type feeProfileCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewFeeProfileCache(client *redis.Client, ttl time.Duration) FeeProfileCache {
	return &feeProfileCache{client: client, ttl: ttl}
}

// FeeProfileCacheKey returns the Redis key holding a clinic's terms for method
func FeeProfileCacheKey(clinicID string, method domain.PaymentMethod) string {
	return fmt.Sprintf("fee_profile:%s:%s", clinicID, method)
}

func (c *feeProfileCache) Get(ctx context.Context, clinicID string, method domain.PaymentMethod) (*domain.FeeProfile, error) {
	data, err := c.client.Get(ctx, FeeProfileCacheKey(clinicID, method)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, customError.ErrFeeProfileNotFound
	}
	if err != nil {
		return nil, customError.WrapCacheError(err)
	}

	var profile domain.FeeProfile
	if err := json.Unmarshal(data, &profile); err != nil {
		return nil, customError.WrapCacheError(err)
	}

	return &profile, nil
}

func (c *feeProfileCache) Set(ctx context.Context, profile *domain.FeeProfile) error {
	data, err := json.Marshal(profile)
	if err != nil {
		return err
	}

	if err := c.client.Set(ctx, FeeProfileCacheKey(profile.ClinicID, profile.Method), data, c.ttl).Err(); err != nil {
		return customError.WrapCacheError(err)
	}
	return nil
}

func (c *feeProfileCache) Delete(ctx context.Context, clinicID string, method domain.PaymentMethod) error {
	if err := c.client.Del(ctx, FeeProfileCacheKey(clinicID, method)).Err(); err != nil {
		return customError.WrapCacheError(err)
	}
	return nil
}

func (c *feeProfileCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}
