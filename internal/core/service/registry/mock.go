package registry

import (
	"context"
	"media-vault/internal/core/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockRegistryService is a mock implementation of RegistryService
type MockRegistryService struct {
	mock.Mock
}

// NewMockRegistryService creates a new MockRegistryService
func NewMockRegistryService() *MockRegistryService {
	return &MockRegistryService{}
}

func (m *MockRegistryService) FindOrCreateByExternalAssetID(ctx context.Context, externalAssetID string, candidate domain.VideoRecord) (*domain.VideoRecord, error) {
	args := m.Called(ctx, externalAssetID, candidate)
	return args.Get(0).(*domain.VideoRecord), args.Error(1)
}

func (m *MockRegistryService) CreatePending(ctx context.Context, candidate domain.VideoRecord) (*domain.VideoRecord, error) {
	args := m.Called(ctx, candidate)
	return args.Get(0).(*domain.VideoRecord), args.Error(1)
}

func (m *MockRegistryService) BindExternalAsset(ctx context.Context, videoID uuid.UUID, externalAssetID string) (*domain.VideoRecord, error) {
	args := m.Called(ctx, videoID, externalAssetID)
	return args.Get(0).(*domain.VideoRecord), args.Error(1)
}

func (m *MockRegistryService) ResolveEventTarget(ctx context.Context, externalAssetID string, correlationToken uuid.UUID) (*domain.VideoRecord, error) {
	args := m.Called(ctx, externalAssetID, correlationToken)
	return args.Get(0).(*domain.VideoRecord), args.Error(1)
}

func (m *MockRegistryService) MergeDuplicates(ctx context.Context, primaryID, duplicateID uuid.UUID) (*domain.VideoRecord, error) {
	args := m.Called(ctx, primaryID, duplicateID)
	return args.Get(0).(*domain.VideoRecord), args.Error(1)
}
