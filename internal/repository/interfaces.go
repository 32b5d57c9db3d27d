package repository

import (
	"context"

	"github.com/segyhp/clinic-finance-engine/internal/domain"
)

// FeeProfileRepository defines the interface for clinic fee profile storage
type FeeProfileRepository interface {
	// GetByClinicAndMethod retrieves a clinic's terms for one payment method
	GetByClinicAndMethod(ctx context.Context, clinicID string, method domain.PaymentMethod) (*domain.FeeProfile, error)

	// ListByClinic retrieves every stored method for a clinic
	ListByClinic(ctx context.Context, clinicID string) ([]*domain.FeeProfile, error)

	// ListAll retrieves every stored profile
	ListAll(ctx context.Context) ([]*domain.FeeProfile, error)

	// Upsert creates or replaces a clinic's terms for a method
	Upsert(ctx context.Context, profile *domain.FeeProfile) error

	// Ping checks the database connection
	Ping(ctx context.Context) error
}

// FeeProfileCache defines the interface for the fee profile cache
type FeeProfileCache interface {
	// Get returns customError.ErrFeeProfileNotFound on a cache miss
	Get(ctx context.Context, clinicID string, method domain.PaymentMethod) (*domain.FeeProfile, error)

	Set(ctx context.Context, profile *domain.FeeProfile) error

	Delete(ctx context.Context, clinicID string, method domain.PaymentMethod) error

	Ping(ctx context.Context) error
}

// FeeScheduleProvider supplies clinic-specific fee terms
type FeeScheduleProvider interface {
	FeeTerms(ctx context.Context, clinicID string, method domain.PaymentMethod, installmentCount int) (*domain.FeeProfile, error)
}
