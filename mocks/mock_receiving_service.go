package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"goodsin/internal/domain"
	"goodsin/internal/service"
)

// MockReceivingService is a mock implementation of service.ReceivingService.
type MockReceivingService struct {
	mock.Mock
}

func (m *MockReceivingService) CreateSession(ctx context.Context, scope domain.Scope, doc *domain.ParsedDocument, purchaseOrderID *uuid.UUID, objectKey string) (*service.SessionView, error) {
	args := m.Called(ctx, scope, doc, purchaseOrderID, objectKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.SessionView), args.Error(1)
}

func (m *MockReceivingService) GetSession(ctx context.Context, scope domain.Scope, id uuid.UUID, typeFilter domain.DocumentType) (*service.SessionView, error) {
	args := m.Called(ctx, scope, id, typeFilter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.SessionView), args.Error(1)
}

func (m *MockReceivingService) PatchLine(ctx context.Context, scope domain.Scope, id uuid.UUID, index int, patch service.LinePatch) (*service.SessionView, error) {
	args := m.Called(ctx, scope, id, index, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.SessionView), args.Error(1)
}

func (m *MockReceivingService) SetAllReceived(ctx context.Context, scope domain.Scope, id uuid.UUID, received bool) (*service.SessionView, error) {
	args := m.Called(ctx, scope, id, received)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.SessionView), args.Error(1)
}

func (m *MockReceivingService) Confirm(ctx context.Context, scope domain.Scope, id uuid.UUID, receivedDate time.Time) (*service.ConfirmResult, error) {
	args := m.Called(ctx, scope, id, receivedDate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ConfirmResult), args.Error(1)
}

func (m *MockReceivingService) Cancel(ctx context.Context, scope domain.Scope, id uuid.UUID) error {
	args := m.Called(ctx, scope, id)
	return args.Error(0)
}

func (m *MockReceivingService) Report(ctx context.Context, scope domain.Scope, id uuid.UUID) (*service.ReceivingReport, error) {
	args := m.Called(ctx, scope, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ReceivingReport), args.Error(1)
}

func (m *MockReceivingService) StartSweeper(ctx context.Context) {
	m.Called(ctx)
}
