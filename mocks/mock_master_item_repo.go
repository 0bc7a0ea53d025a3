package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"goodsin/internal/domain"
)

// MockMasterItemRepo is a mock implementation of port.MasterItemRepository.
type MockMasterItemRepo struct {
	mock.Mock
}

func (m *MockMasterItemRepo) Create(ctx context.Context, item *domain.MasterItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockMasterItemRepo) GetByID(ctx context.Context, scope domain.Scope, id uuid.UUID) (*domain.MasterItem, error) {
	args := m.Called(ctx, scope, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MasterItem), args.Error(1)
}

func (m *MockMasterItemRepo) GetByNormalizedName(ctx context.Context, scope domain.Scope, key string) (*domain.MasterItem, error) {
	args := m.Called(ctx, scope, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MasterItem), args.Error(1)
}

func (m *MockMasterItemRepo) ListByScope(ctx context.Context, scope domain.Scope) ([]domain.MasterItem, error) {
	args := m.Called(ctx, scope)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.MasterItem), args.Error(1)
}

func (m *MockMasterItemRepo) Update(ctx context.Context, item *domain.MasterItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}
