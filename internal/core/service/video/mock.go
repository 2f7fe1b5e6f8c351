package video

import (
	"context"
	"media-vault/internal/core/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockVideoReadService is a mock implementation of VideoReadService
type MockVideoReadService struct {
	mock.Mock
}

// NewMockVideoReadService creates a new MockVideoReadService
func NewMockVideoReadService() *MockVideoReadService {
	return &MockVideoReadService{}
}

func (m *MockVideoReadService) GetVideo(ctx context.Context, id uuid.UUID) (*domain.VideoRecord, *string, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(*domain.VideoRecord), args.Get(1).(*string), args.Error(2)
}
