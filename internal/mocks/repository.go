package mocks

import (
	"context"

	"github.com/segyhp/clinic-finance-engine/internal/domain"

	"github.com/stretchr/testify/mock"
)

type MockFeeProfileRepository struct {
	mock.Mock
}

func (m *MockFeeProfileRepository) GetByClinicAndMethod(ctx context.Context, clinicID string, method domain.PaymentMethod) (*domain.FeeProfile, error) {
	args := m.Called(ctx, clinicID, method)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FeeProfile), args.Error(1)
}

func (m *MockFeeProfileRepository) ListByClinic(ctx context.Context, clinicID string) ([]*domain.FeeProfile, error) {
	args := m.Called(ctx, clinicID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.FeeProfile), args.Error(1)
}

func (m *MockFeeProfileRepository) ListAll(ctx context.Context) ([]*domain.FeeProfile, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.FeeProfile), args.Error(1)
}

func (m *MockFeeProfileRepository) Upsert(ctx context.Context, profile *domain.FeeProfile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}

func (m *MockFeeProfileRepository) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type MockFeeProfileCache struct {
	mock.Mock
}

func (m *MockFeeProfileCache) Get(ctx context.Context, clinicID string, method domain.PaymentMethod) (*domain.FeeProfile, error) {
	args := m.Called(ctx, clinicID, method)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FeeProfile), args.Error(1)
}

func (m *MockFeeProfileCache) Set(ctx context.Context, profile *domain.FeeProfile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}

func (m *MockFeeProfileCache) Delete(ctx context.Context, clinicID string, method domain.PaymentMethod) error {
	args := m.Called(ctx, clinicID, method)
	return args.Error(0)
}

func (m *MockFeeProfileCache) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type MockFeeScheduleProvider struct {
	mock.Mock
}

func (m *MockFeeScheduleProvider) FeeTerms(ctx context.Context, clinicID string, method domain.PaymentMethod, installmentCount int) (*domain.FeeProfile, error) {
	args := m.Called(ctx, clinicID, method, installmentCount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FeeProfile), args.Error(1)
}
