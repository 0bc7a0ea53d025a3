package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"goodsin/internal/domain"
)

// MockIngestService is a mock implementation of service.IngestService.
type MockIngestService struct {
	mock.Mock
}

func (m *MockIngestService) Ingest(ctx context.Context, scope domain.Scope, fileName string, data []byte) (*domain.ParsedDocument, string, error) {
	args := m.Called(ctx, scope, fileName, data)
	if args.Get(0) == nil {
		return nil, args.String(1), args.Error(2)
	}
	return args.Get(0).(*domain.ParsedDocument), args.String(1), args.Error(2)
}

func (m *MockIngestService) DocumentURL(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *MockIngestService) Discard(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}
