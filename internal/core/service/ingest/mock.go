package ingest

import (
	"context"
	"media-vault/internal/core/domain"
	"media-vault/internal/core/port"

	"github.com/stretchr/testify/mock"
)

// MockIngestService is a mock implementation of IngestService
type MockIngestService struct {
	mock.Mock
}

// NewMockIngestService creates a new MockIngestService
func NewMockIngestService() *MockIngestService {
	return &MockIngestService{}
}

func (m *MockIngestService) SubmitUpload(ctx context.Context, req port.SubmitUploadRequest) (*domain.VideoRecord, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(*domain.VideoRecord), args.Error(1)
}
