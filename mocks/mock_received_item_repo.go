package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"goodsin/internal/domain"
)

// MockReceivedItemRepo is a mock implementation of port.ReceivedItemRepository.
type MockReceivedItemRepo struct {
	mock.Mock
}

func (m *MockReceivedItemRepo) Create(ctx context.Context, item *domain.ReceivedItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockReceivedItemRepo) ListByScope(ctx context.Context, scope domain.Scope) ([]domain.ReceivedItem, error) {
	args := m.Called(ctx, scope)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ReceivedItem), args.Error(1)
}
