package video_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"media-vault/internal/adapters/repository"
	"media-vault/internal/adapters/storage"
	"media-vault/internal/core/domain"
	"media-vault/internal/core/service/video"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestGetVideo_ReadyGetsSourceURL(t *testing.T) {
	// Arrange
	ctx := context.Background()
	uow := repository.NewMockUnitOfWork()
	mockStorage := storage.NewMockStorage()
	service := video.NewVideoService(uow, mockStorage, discardLogger())

	id := uuid.New()
	record := &domain.VideoRecord{
		ID:             id,
		Status:         domain.VideoStatusReady,
		SourceLocation: "videos/" + id.String() + "/clip.mp4",
	}
	expiry := time.Now().Add(time.Hour)
	uow.GetVideoRepoMock().On("FindByID", ctx, id).Return(record, nil)
	mockStorage.On("StreamURL", ctx, record.SourceLocation).
		Return("https://storage/presigned", &expiry, nil)

	// Act
	got, sourceURL, err := service.GetVideo(ctx, id)

	// Assert
	assert.NoError(t, err)
	assert.Equal(t, record, got)
	assert.Equal(t, "https://storage/presigned", *sourceURL)
}

func TestGetVideo_NotReadySkipsPresign(t *testing.T) {
	// Arrange
	ctx := context.Background()
	uow := repository.NewMockUnitOfWork()
	mockStorage := storage.NewMockStorage()
	service := video.NewVideoService(uow, mockStorage, discardLogger())

	id := uuid.New()
	record := &domain.VideoRecord{ID: id, Status: domain.VideoStatusPreparing}
	uow.GetVideoRepoMock().On("FindByID", ctx, id).Return(record, nil)

	// Act
	got, sourceURL, err := service.GetVideo(ctx, id)

	// Assert
	assert.NoError(t, err)
	assert.Equal(t, record, got)
	assert.Nil(t, sourceURL)
	mockStorage.AssertNotCalled(t, "StreamURL", mock.Anything, mock.Anything)
}

func TestGetVideo_PresignFailureTolerated(t *testing.T) {
	// Arrange
	ctx := context.Background()
	uow := repository.NewMockUnitOfWork()
	mockStorage := storage.NewMockStorage()
	service := video.NewVideoService(uow, mockStorage, discardLogger())

	id := uuid.New()
	record := &domain.VideoRecord{ID: id, Status: domain.VideoStatusReady, SourceLocation: "videos/x/clip.mp4"}
	uow.GetVideoRepoMock().On("FindByID", ctx, id).Return(record, nil)
	mockStorage.On("StreamURL", ctx, record.SourceLocation).
		Return("", (*time.Time)(nil), errors.New("storage unreachable"))

	// Act
	got, sourceURL, err := service.GetVideo(ctx, id)

	// Assert: the record is still served, just without a stream URL
	assert.NoError(t, err)
	assert.Equal(t, record, got)
	assert.Nil(t, sourceURL)
}

func TestGetVideo_NotFound(t *testing.T) {
	// Arrange
	ctx := context.Background()
	uow := repository.NewMockUnitOfWork()
	service := video.NewVideoService(uow, storage.NewMockStorage(), discardLogger())

	uow.GetVideoRepoMock().On("FindByID", ctx, mock.Anything).
		Return((*domain.VideoRecord)(nil), domain.ErrVideoNotFound)

	// Act
	got, sourceURL, err := service.GetVideo(ctx, uuid.New())

	// Assert
	assert.ErrorIs(t, err, domain.ErrVideoNotFound)
	assert.Nil(t, got)
	assert.Nil(t, sourceURL)
}
