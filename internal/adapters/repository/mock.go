package repository

import (
	"context"
	"media-vault/internal/core/domain"
	"media-vault/internal/core/port"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockVideoRepository struct {
	mock.Mock
}

func NewMockVideoRepository() *MockVideoRepository {
	return &MockVideoRepository{}
}

func (m *MockVideoRepository) Create(ctx context.Context, record domain.VideoRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockVideoRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.VideoRecord, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(*domain.VideoRecord), args.Error(1)
}

func (m *MockVideoRepository) FindByExternalAssetID(ctx context.Context, externalAssetID string) (*domain.VideoRecord, error) {
	args := m.Called(ctx, externalAssetID)
	return args.Get(0).(*domain.VideoRecord), args.Error(1)
}

func (m *MockVideoRepository) FindByCorrelationToken(ctx context.Context, token uuid.UUID) (*domain.VideoRecord, error) {
	args := m.Called(ctx, token)
	return args.Get(0).(*domain.VideoRecord), args.Error(1)
}

func (m *MockVideoRepository) AttachExternalAssetID(ctx context.Context, id uuid.UUID, externalAssetID string) error {
	args := m.Called(ctx, id, externalAssetID)
	return args.Error(0)
}

func (m *MockVideoRepository) AdvanceState(ctx context.Context, id uuid.UUID, from []domain.VideoStatus, update domain.VideoUpdate) error {
	args := m.Called(ctx, id, from, update)
	return args.Error(0)
}

func (m *MockVideoRepository) UpdateThumbnail(ctx context.Context, id uuid.UUID, thumbnail domain.ThumbnailArtifact) error {
	args := m.Called(ctx, id, thumbnail)
	return args.Error(0)
}

func (m *MockVideoRepository) FindStuckPreparing(ctx context.Context, olderThan time.Time, limit int) ([]domain.VideoRecord, error) {
	args := m.Called(ctx, olderThan, limit)
	return args.Get(0).([]domain.VideoRecord), args.Error(1)
}

func (m *MockVideoRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockEventLogRepository struct {
	mock.Mock
}

func NewMockEventLogRepository() *MockEventLogRepository {
	return &MockEventLogRepository{}
}

func (m *MockEventLogRepository) Insert(ctx context.Context, event domain.VideoEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockEventLogRepository) FindByVideoID(ctx context.Context, videoID uuid.UUID) ([]domain.VideoEvent, error) {
	args := m.Called(ctx, videoID)
	return args.Get(0).([]domain.VideoEvent), args.Error(1)
}

// MockUnitOfWork hands out the repository mocks; Execute runs the callback
// against itself so transactional code paths are exercised.
type MockUnitOfWork struct {
	mock.Mock
	videoRepo    *MockVideoRepository
	eventLogRepo *MockEventLogRepository
}

func NewMockUnitOfWork() *MockUnitOfWork {
	return &MockUnitOfWork{
		videoRepo:    &MockVideoRepository{},
		eventLogRepo: &MockEventLogRepository{},
	}
}

func (m *MockUnitOfWork) VideoRepo() port.VideoRepository {
	return m.videoRepo
}

func (m *MockUnitOfWork) EventLogRepo() port.EventLogRepository {
	return m.eventLogRepo
}

func (m *MockUnitOfWork) GetVideoRepoMock() *MockVideoRepository {
	return m.videoRepo
}

func (m *MockUnitOfWork) GetEventLogRepoMock() *MockEventLogRepository {
	return m.eventLogRepo
}

func (m *MockUnitOfWork) Execute(ctx context.Context, fn func(uow port.UnitOfWork) error) error {
	args := m.Called(ctx, fn)
	if args.Error(0) != nil {
		return args.Error(0)
	}
	return fn(m)
}
