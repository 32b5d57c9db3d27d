package repository

import (
	"context"
	"errors"
	"time"

	"github.com/segyhp/clinic-finance-engine/internal/domain"
	customError "github.com/segyhp/clinic-finance-engine/pkg/errors"

	"go.uber.org/zap"
)

// ClinicFeeScheduleProvider reads clinic terms through the cache, falling back
// to the database and refilling the cache on a miss. Each lookup is bounded
// by timeout.
type ClinicFeeScheduleProvider struct {
	repo    FeeProfileRepository
	cache   FeeProfileCache
	timeout time.Duration
	logger  *zap.Logger
}

// NewClinicFeeScheduleProvider creates a provider. cache may be nil.
func NewClinicFeeScheduleProvider(repo FeeProfileRepository, cache FeeProfileCache, timeout time.Duration, logger *zap.Logger) *ClinicFeeScheduleProvider {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ClinicFeeScheduleProvider{
		repo:    repo,
		cache:   cache,
		timeout: timeout,
		logger:  logger,
	}
}

// FeeTerms returns the clinic's profile for method. A clinic with no stored
// terms for the method yields customError.ErrFeeProfileNotFound; every other
// failure is wrapped as upstream unavailable.
func (p *ClinicFeeScheduleProvider) FeeTerms(ctx context.Context, clinicID string, method domain.PaymentMethod, installmentCount int) (*domain.FeeProfile, error) {
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	// 1. Cache
	if p.cache != nil {
		profile, err := p.cache.Get(ctx, clinicID, method)
		if err == nil {
			return profile, nil
		}
		if !errors.Is(err, customError.ErrFeeProfileNotFound) {
			p.logger.Warn("fee profile cache read failed",
				zap.String("clinic_id", clinicID),
				zap.String("method", method.String()),
				zap.Error(err),
			)
		}
	}

	// 2. Database
	profile, err := p.repo.GetByClinicAndMethod(ctx, clinicID, method)
	if errors.Is(err, customError.ErrFeeProfileNotFound) {
		return nil, err
	}
	if err != nil {
		return nil, customError.WrapUpstreamUnavailable(clinicID, err)
	}

	// 3. Refill
	if p.cache != nil {
		if err := p.cache.Set(ctx, profile); err != nil {
			p.logger.Warn("fee profile cache write failed",
				zap.String("clinic_id", clinicID),
				zap.String("method", method.String()),
				zap.Error(err),
			)
		}
	}

	p.logger.Debug("fee profile loaded from database",
		zap.String("clinic_id", clinicID),
		zap.String("method", method.String()),
		zap.Int("installment_count", installmentCount),
	)

	return profile, nil
}
