package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"goodsin/internal/domain"
)

// MockCatalogService is a mock implementation of service.CatalogService.
type MockCatalogService struct {
	mock.Mock
}

func (m *MockCatalogService) List(ctx context.Context, scope domain.Scope) ([]domain.MasterItem, error) {
	args := m.Called(ctx, scope)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.MasterItem), args.Error(1)
}

func (m *MockCatalogService) Upsert(ctx context.Context, scope domain.Scope, candidate domain.CatalogCandidate) (*domain.MasterItem, error) {
	args := m.Called(ctx, scope, candidate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MasterItem), args.Error(1)
}

func (m *MockCatalogService) ReconcileFromSources(ctx context.Context, scope domain.Scope) (*domain.SyncReport, error) {
	args := m.Called(ctx, scope)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SyncReport), args.Error(1)
}

func (m *MockCatalogService) ImportItems(ctx context.Context, scope domain.Scope, rawItems []domain.ParsedLine) (int, error) {
	args := m.Called(ctx, scope, rawItems)
	return args.Int(0), args.Error(1)
}
