package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/segyhp/clinic-finance-engine/internal/domain"
	customError "github.com/segyhp/clinic-finance-engine/pkg/errors"

	"github.com/jmoiron/sqlx"
)

const feeProfileColumns = `clinic_id, method, fee_type, fee_percent, fee_fixed_amount, installments_allowed,
		max_installments, min_installment_value, tiered_schedule, anticipation, updated_at`

type feeProfileRepository struct {
	db *sqlx.DB
}

func NewFeeProfileRepository(db *sqlx.DB) FeeProfileRepository {
	return &feeProfileRepository{db: db}
}

func (r *feeProfileRepository) GetByClinicAndMethod(ctx context.Context, clinicID string, method domain.PaymentMethod) (*domain.FeeProfile, error) {
	query := `
		SELECT ` + feeProfileColumns + `
		FROM fee_profiles
		WHERE clinic_id = $1 AND method = $2
	`

	var profile domain.FeeProfile
	err := r.db.GetContext(ctx, &profile, query, clinicID, method)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, customError.ErrFeeProfileNotFound
	}
	if err != nil {
		return nil, err
	}

	return &profile, nil
}

func (r *feeProfileRepository) ListByClinic(ctx context.Context, clinicID string) ([]*domain.FeeProfile, error) {
	query := `
		SELECT ` + feeProfileColumns + `
		FROM fee_profiles
		WHERE clinic_id = $1
		ORDER BY method
	`

	var profiles []*domain.FeeProfile
	if err := r.db.SelectContext(ctx, &profiles, query, clinicID); err != nil {
		return nil, err
	}

	return profiles, nil
}

func (r *feeProfileRepository) ListAll(ctx context.Context) ([]*domain.FeeProfile, error) {
	query := `
		SELECT ` + feeProfileColumns + `
		FROM fee_profiles
		ORDER BY clinic_id, method
	`

	var profiles []*domain.FeeProfile
	if err := r.db.SelectContext(ctx, &profiles, query); err != nil {
		return nil, err
	}

	return profiles, nil
}

func (r *feeProfileRepository) Upsert(ctx context.Context, profile *domain.FeeProfile) error {
	query := `
		INSERT INTO fee_profiles (` + feeProfileColumns + `)
		VALUES (:clinic_id, :method, :fee_type, :fee_percent, :fee_fixed_amount, :installments_allowed,
			:max_installments, :min_installment_value, :tiered_schedule, :anticipation, NOW())
		ON CONFLICT (clinic_id, method) DO UPDATE SET
			fee_type = EXCLUDED.fee_type,
			fee_percent = EXCLUDED.fee_percent,
			fee_fixed_amount = EXCLUDED.fee_fixed_amount,
			installments_allowed = EXCLUDED.installments_allowed,
			max_installments = EXCLUDED.max_installments,
			min_installment_value = EXCLUDED.min_installment_value,
			tiered_schedule = EXCLUDED.tiered_schedule,
			anticipation = EXCLUDED.anticipation,
			updated_at = NOW()
	`

	_, err := r.db.NamedExecContext(ctx, query, profile)
	return err
}

func (r *feeProfileRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}
