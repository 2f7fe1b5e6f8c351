package registry_test

import (
	"context"
	"testing"
	"time"

	"media-vault/internal/core/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestMergeDuplicates_MostRecentSurvives(t *testing.T) {
	// Arrange
	ctx := context.Background()
	uow, service := newRegistryFixture()
	videoRepo := uow.GetVideoRepoMock()

	older := &domain.VideoRecord{
		ID:        uuid.New(),
		Status:    domain.VideoStatusPreparing,
		Filename:  "clip.mp4",
		CreatedAt: time.Now().Add(-time.Hour),
	}
	newer := &domain.VideoRecord{
		ID:              uuid.New(),
		ExternalAssetID: "asset-merge",
		Status:          domain.VideoStatusReady,
		Thumbnail:       domain.ThumbnailArtifact{Method: domain.ThumbnailMethodProvider, Location: "https://cdn/t.jpg"},
		CreatedAt:       time.Now(),
	}

	uow.On("Execute", ctx, mock.Anything).Return(nil)
	videoRepo.On("FindByID", ctx, older.ID).Return(older, nil)
	videoRepo.On("FindByID", ctx, newer.ID).Return(newer, nil).Once()
	videoRepo.On("Delete", ctx, older.ID).Return(nil)
	videoRepo.On("AdvanceState", ctx, newer.ID, []domain.VideoStatus(nil),
		mock.MatchedBy(func(update domain.VideoUpdate) bool {
			return update.Status == domain.VideoStatusReady &&
				update.Thumbnail.Method == domain.ThumbnailMethodProvider
		})).Return(nil)
	videoRepo.On("FindByID", ctx, newer.ID).Return(newer, nil)

	// Act
	merged, err := service.MergeDuplicates(ctx, older.ID, newer.ID)

	// Assert
	assert.NoError(t, err)
	assert.Equal(t, newer.ID, merged.ID)
	videoRepo.AssertCalled(t, "Delete", ctx, older.ID)
	videoRepo.AssertNotCalled(t, "Delete", ctx, newer.ID)
}

func TestMergeDuplicates_AssetIDMovesToSurvivor(t *testing.T) {
	// Arrange
	ctx := context.Background()
	uow, service := newRegistryFixture()
	videoRepo := uow.GetVideoRepoMock()

	// The loser carries the asset id; the survivor does not yet.
	loser := &domain.VideoRecord{
		ID:              uuid.New(),
		ExternalAssetID: "asset-mv",
		Status:          domain.VideoStatusPreparing,
		CreatedAt:       time.Now().Add(-time.Hour),
	}
	survivor := &domain.VideoRecord{
		ID:        uuid.New(),
		Status:    domain.VideoStatusPending,
		CreatedAt: time.Now(),
	}

	uow.On("Execute", ctx, mock.Anything).Return(nil)
	videoRepo.On("FindByID", ctx, loser.ID).Return(loser, nil)
	videoRepo.On("FindByID", ctx, survivor.ID).Return(survivor, nil)
	videoRepo.On("Delete", ctx, loser.ID).Return(nil)
	videoRepo.On("AttachExternalAssetID", ctx, survivor.ID, "asset-mv").Return(nil)
	videoRepo.On("AdvanceState", ctx, survivor.ID, []domain.VideoStatus(nil), mock.Anything).Return(nil)

	// Act
	_, err := service.MergeDuplicates(ctx, loser.ID, survivor.ID)

	// Assert: delete precedes the attach so the unique value can move
	assert.NoError(t, err)
	videoRepo.AssertExpectations(t)
}

func TestMergeDuplicates_SelfMergeRejected(t *testing.T) {
	// Arrange
	ctx := context.Background()
	_, service := newRegistryFixture()
	id := uuid.New()

	// Act
	merged, err := service.MergeDuplicates(ctx, id, id)

	// Assert
	assert.Error(t, err)
	assert.Nil(t, merged)
}

func TestFoldPrefersReadyOverErrored(t *testing.T) {
	// Arrange
	ctx := context.Background()
	uow, service := newRegistryFixture()
	videoRepo := uow.GetVideoRepoMock()

	errored := &domain.VideoRecord{
		ID:          uuid.New(),
		Status:      domain.VideoStatusErrored,
		ErrorDetail: "transcode failed",
		CreatedAt:   time.Now(),
	}
	ready := &domain.VideoRecord{
		ID:               uuid.New(),
		ExternalAssetID:  "asset-rdy",
		Status:           domain.VideoStatusReady,
		PlaybackLocation: "https://cdn/p.m3u8",
		CreatedAt:        time.Now().Add(-time.Hour),
	}

	uow.On("Execute", ctx, mock.Anything).Return(nil)
	videoRepo.On("FindByID", ctx, errored.ID).Return(errored, nil)
	videoRepo.On("FindByID", ctx, ready.ID).Return(ready, nil)
	videoRepo.On("Delete", ctx, ready.ID).Return(nil)
	videoRepo.On("AttachExternalAssetID", ctx, errored.ID, "asset-rdy").Return(nil)
	var persisted domain.VideoUpdate
	videoRepo.On("AdvanceState", ctx, errored.ID, []domain.VideoStatus(nil),
		mock.MatchedBy(func(update domain.VideoUpdate) bool {
			persisted = update
			return update.Status == domain.VideoStatusReady
		})).Return(nil)

	// Act
	_, err := service.MergeDuplicates(ctx, errored.ID, ready.ID)

	// Assert: a proven-playable asset wins over a failure report, and the
	// stale error text is written out as empty rather than left behind
	assert.NoError(t, err)
	assert.Equal(t, "https://cdn/p.m3u8", *persisted.PlaybackLocation)
	if assert.NotNil(t, persisted.ErrorDetail) {
		assert.Empty(t, *persisted.ErrorDetail)
	}
	videoRepo.AssertExpectations(t)
}

func TestMergeDuplicates_ErroredLoserDoesNotTaintReadySurvivor(t *testing.T) {
	// Arrange: the survivor already plays; the older errored row must not
	// smuggle its error text onto the merged record.
	ctx := context.Background()
	uow, service := newRegistryFixture()
	videoRepo := uow.GetVideoRepoMock()

	errored := &domain.VideoRecord{
		ID:          uuid.New(),
		Status:      domain.VideoStatusErrored,
		ErrorDetail: "provider timeout",
		CreatedAt:   time.Now().Add(-time.Hour),
	}
	ready := &domain.VideoRecord{
		ID:               uuid.New(),
		ExternalAssetID:  "asset-ok",
		Status:           domain.VideoStatusReady,
		PlaybackLocation: "https://cdn/ok.m3u8",
		CreatedAt:        time.Now(),
	}

	uow.On("Execute", ctx, mock.Anything).Return(nil)
	videoRepo.On("FindByID", ctx, errored.ID).Return(errored, nil)
	videoRepo.On("FindByID", ctx, ready.ID).Return(ready, nil)
	videoRepo.On("Delete", ctx, errored.ID).Return(nil)

	var persisted domain.VideoUpdate
	videoRepo.On("AdvanceState", ctx, ready.ID, []domain.VideoStatus(nil),
		mock.MatchedBy(func(update domain.VideoUpdate) bool {
			persisted = update
			return update.Status == domain.VideoStatusReady
		})).Return(nil)

	// Act
	_, err := service.MergeDuplicates(ctx, errored.ID, ready.ID)

	// Assert
	assert.NoError(t, err)
	if assert.NotNil(t, persisted.ErrorDetail) {
		assert.Empty(t, *persisted.ErrorDetail)
	}
	videoRepo.AssertExpectations(t)
}
