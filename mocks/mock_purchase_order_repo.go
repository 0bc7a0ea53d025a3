package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"goodsin/internal/domain"
)

// MockPurchaseOrderRepo is a mock implementation of port.PurchaseOrderRepository.
type MockPurchaseOrderRepo struct {
	mock.Mock
}

func (m *MockPurchaseOrderRepo) GetByID(ctx context.Context, scope domain.Scope, id uuid.UUID) (*domain.PurchaseOrder, error) {
	args := m.Called(ctx, scope, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PurchaseOrder), args.Error(1)
}

func (m *MockPurchaseOrderRepo) ListByScope(ctx context.Context, scope domain.Scope, offset, limit int) ([]domain.PurchaseOrder, int, error) {
	args := m.Called(ctx, scope, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.PurchaseOrder), args.Int(1), args.Error(2)
}

func (m *MockPurchaseOrderRepo) ListItems(ctx context.Context, scope domain.Scope, orderID uuid.UUID) ([]domain.PurchaseOrderItem, error) {
	args := m.Called(ctx, scope, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PurchaseOrderItem), args.Error(1)
}

func (m *MockPurchaseOrderRepo) ListAllItems(ctx context.Context, scope domain.Scope) ([]domain.PurchaseOrderItem, error) {
	args := m.Called(ctx, scope)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PurchaseOrderItem), args.Error(1)
}
