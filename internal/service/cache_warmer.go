package service

import (
	"context"
	"fmt"

	"github.com/segyhp/clinic-finance-engine/internal/metrics"
	"github.com/segyhp/clinic-finance-engine/internal/repository"
	customError "github.com/segyhp/clinic-finance-engine/pkg/errors"

	"go.uber.org/zap"
)

// FeeCacheWarmer preloads stored clinic terms into the cache
type FeeCacheWarmer struct {
	repo   repository.FeeProfileRepository
	cache  repository.FeeProfileCache
	logger *zap.Logger
}

func NewFeeCacheWarmer(repo repository.FeeProfileRepository, cache repository.FeeProfileCache, logger *zap.Logger) *FeeCacheWarmer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FeeCacheWarmer{repo: repo, cache: cache, logger: logger}
}

// Warm copies every valid profile into the cache and returns how many were
// written. Invalid profiles are skipped; a cache write failure aborts the run.
func (w *FeeCacheWarmer) Warm(ctx context.Context) (int, error) {
	profiles, err := w.repo.ListAll(ctx)
	if err != nil {
		return 0, customError.WrapDatabaseError(err)
	}

	warmed := 0
	for _, profile := range profiles {
		if err := profile.Validate(); err != nil {
			w.logger.Warn("skipping invalid fee profile",
				zap.String("clinic_id", profile.ClinicID),
				zap.String("method", profile.Method.String()),
				zap.Error(err),
			)
			continue
		}
		if err := w.cache.Set(ctx, profile); err != nil {
			return warmed, fmt.Errorf("failed to cache profile %s/%s: %w", profile.ClinicID, profile.Method, err)
		}
		warmed++
	}

	metrics.CacheWarmedProfiles.Set(float64(warmed))
	w.logger.Info("fee profile cache warmed",
		zap.Int("profiles", warmed),
		zap.Int("skipped", len(profiles)-warmed),
	)

	return warmed, nil
}
