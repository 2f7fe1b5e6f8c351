package reconcile_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"media-vault/internal/adapters/repository"
	"media-vault/internal/core/domain"
	"media-vault/internal/core/port"
	"media-vault/internal/core/service/reconcile"
	"media-vault/internal/core/service/registry"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type reconcileFixture struct {
	registry *registry.MockRegistryService
	uow      *repository.MockUnitOfWork
	service  port.ReconcileService
}

func newReconcileFixture() *reconcileFixture {
	f := &reconcileFixture{
		registry: registry.NewMockRegistryService(),
		uow:      repository.NewMockUnitOfWork(),
	}
	f.service = reconcile.NewReconcileService(f.registry, f.uow, discardLogger())
	return f
}

func readyEvent(assetID string, token uuid.UUID) domain.ProviderEvent {
	return domain.ProviderEvent{
		Kind:             domain.ProviderEventAssetReady,
		RawType:          string(domain.ProviderEventAssetReady),
		ExternalAssetID:  assetID,
		CorrelationToken: token,
		PlaybackLocation: "https://cdn/play.m3u8",
		ThumbnailURL:     "https://cdn/thumb.jpg",
		DurationSeconds:  60,
	}
}

func TestHandleEvent_ReadyApplied(t *testing.T) {
	// Arrange
	ctx := context.Background()
	f := newReconcileFixture()
	record := &domain.VideoRecord{
		ID:        uuid.New(),
		Status:    domain.VideoStatusPreparing,
		Thumbnail: domain.ThumbnailArtifact{Method: domain.ThumbnailMethodNone},
	}
	event := readyEvent("asset-1", record.ID)

	f.registry.On("ResolveEventTarget", ctx, "asset-1", record.ID).Return(record, nil)
	f.uow.On("Execute", ctx, mock.Anything).Return(nil)

	videoRepo := f.uow.GetVideoRepoMock()
	videoRepo.On("AdvanceState", ctx, record.ID,
		[]domain.VideoStatus{domain.VideoStatusPending, domain.VideoStatusPreparing},
		mock.MatchedBy(func(update domain.VideoUpdate) bool {
			return update.Status == domain.VideoStatusReady &&
				update.Thumbnail != nil &&
				update.Thumbnail.Method == domain.ThumbnailMethodProvider &&
				*update.DurationSeconds == 60
		})).Return(nil)

	eventLog := f.uow.GetEventLogRepoMock()
	eventLog.On("Insert", ctx, mock.MatchedBy(func(row domain.VideoEvent) bool {
		return row.Outcome == domain.EventOutcomeApplied && *row.VideoID == record.ID
	})).Return(nil)

	// Act
	applied, err := f.service.HandleEvent(ctx, event)

	// Assert
	assert.NoError(t, err)
	assert.True(t, applied)
	videoRepo.AssertExpectations(t)
	eventLog.AssertExpectations(t)
}

func TestHandleEvent_ReadyRedelivery_Duplicate(t *testing.T) {
	// Arrange
	ctx := context.Background()
	f := newReconcileFixture()
	record := &domain.VideoRecord{
		ID:        uuid.New(),
		Status:    domain.VideoStatusReady,
		Thumbnail: domain.ThumbnailArtifact{Method: domain.ThumbnailMethodProvider, Location: "https://cdn/thumb.jpg"},
	}
	event := readyEvent("asset-2", record.ID)

	f.registry.On("ResolveEventTarget", ctx, "asset-2", record.ID).Return(record, nil)
	f.uow.On("Execute", ctx, mock.Anything).Return(nil)

	videoRepo := f.uow.GetVideoRepoMock()
	videoRepo.On("AdvanceState", ctx, record.ID, mock.Anything, mock.Anything).
		Return(domain.ErrStaleEvent)

	eventLog := f.uow.GetEventLogRepoMock()
	eventLog.On("Insert", ctx, mock.MatchedBy(func(row domain.VideoEvent) bool {
		return row.Outcome == domain.EventOutcomeDuplicate
	})).Return(nil)

	// Act
	applied, err := f.service.HandleEvent(ctx, event)

	// Assert: acknowledged, audited, no state change
	assert.NoError(t, err)
	assert.False(t, applied)
	eventLog.AssertExpectations(t)
}

func TestHandleEvent_StaleCreatedAfterReady(t *testing.T) {
	// Arrange
	ctx := context.Background()
	f := newReconcileFixture()
	record := &domain.VideoRecord{ID: uuid.New(), Status: domain.VideoStatusReady}
	event := domain.ProviderEvent{
		Kind:             domain.ProviderEventAssetCreated,
		RawType:          string(domain.ProviderEventAssetCreated),
		ExternalAssetID:  "asset-3",
		CorrelationToken: record.ID,
	}

	f.registry.On("ResolveEventTarget", ctx, "asset-3", record.ID).Return(record, nil)

	eventLog := f.uow.GetEventLogRepoMock()
	eventLog.On("Insert", ctx, mock.MatchedBy(func(row domain.VideoEvent) bool {
		return row.Outcome == domain.EventOutcomeDiscardedStale
	})).Return(nil)

	// Act
	applied, err := f.service.HandleEvent(ctx, event)

	// Assert: no transition attempted, audit row written
	assert.NoError(t, err)
	assert.False(t, applied)
	f.uow.GetVideoRepoMock().AssertNotCalled(t, "AdvanceState",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	eventLog.AssertExpectations(t)
}

func TestHandleEvent_ErroredNeverOverwritesReady(t *testing.T) {
	// Arrange
	ctx := context.Background()
	f := newReconcileFixture()
	record := &domain.VideoRecord{ID: uuid.New(), Status: domain.VideoStatusReady}
	event := domain.ProviderEvent{
		Kind:            domain.ProviderEventAssetErrored,
		RawType:         string(domain.ProviderEventAssetErrored),
		ExternalAssetID: "asset-4",
		ErrorDetail:     "late failure",
	}

	f.registry.On("ResolveEventTarget", ctx, "asset-4", uuid.Nil).Return(record, nil)

	eventLog := f.uow.GetEventLogRepoMock()
	eventLog.On("Insert", ctx, mock.MatchedBy(func(row domain.VideoEvent) bool {
		return row.Outcome == domain.EventOutcomeDiscardedStale
	})).Return(nil)

	// Act
	applied, err := f.service.HandleEvent(ctx, event)

	// Assert
	assert.NoError(t, err)
	assert.False(t, applied)
	f.uow.GetVideoRepoMock().AssertNotCalled(t, "AdvanceState",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestHandleEvent_Unrecognized_AckedAndAudited(t *testing.T) {
	// Arrange
	ctx := context.Background()
	f := newReconcileFixture()
	event := domain.ProviderEvent{
		Kind:    domain.ProviderEventUnrecognized,
		RawType: "video.asset.renamed",
	}

	eventLog := f.uow.GetEventLogRepoMock()
	eventLog.On("Insert", ctx, mock.MatchedBy(func(row domain.VideoEvent) bool {
		return row.Outcome == domain.EventOutcomeUnrecognized && row.VideoID == nil
	})).Return(nil)

	// Act
	applied, err := f.service.HandleEvent(ctx, event)

	// Assert
	assert.NoError(t, err)
	assert.False(t, applied)
	f.registry.AssertNotCalled(t, "ResolveEventTarget", mock.Anything, mock.Anything, mock.Anything)
	eventLog.AssertExpectations(t)
}

func TestHandleEvent_UnknownAsset_FindOrCreate(t *testing.T) {
	// Arrange: a ready delivery races ahead of the submit path entirely
	ctx := context.Background()
	f := newReconcileFixture()
	token := uuid.New()
	created := &domain.VideoRecord{
		ID:               uuid.New(),
		ExternalAssetID:  "asset-5",
		CorrelationToken: token,
		Status:           domain.VideoStatusPreparing,
	}
	event := readyEvent("asset-5", token)

	f.registry.On("ResolveEventTarget", ctx, "asset-5", token).
		Return((*domain.VideoRecord)(nil), domain.ErrUnresolvedEvent)
	f.registry.On("FindOrCreateByExternalAssetID", ctx, "asset-5", mock.Anything).
		Return(created, nil)
	f.uow.On("Execute", ctx, mock.Anything).Return(nil)

	videoRepo := f.uow.GetVideoRepoMock()
	videoRepo.On("AdvanceState", ctx, created.ID, mock.Anything, mock.Anything).Return(nil)

	eventLog := f.uow.GetEventLogRepoMock()
	eventLog.On("Insert", ctx, mock.Anything).Return(nil)

	// Act
	applied, err := f.service.HandleEvent(ctx, event)

	// Assert
	assert.NoError(t, err)
	assert.True(t, applied)
	f.registry.AssertExpectations(t)
}

func TestHandleEvent_NoTokenNoAsset_AckedWithoutInsert(t *testing.T) {
	// Arrange
	ctx := context.Background()
	f := newReconcileFixture()
	event := domain.ProviderEvent{
		Kind:    domain.ProviderEventAssetReady,
		RawType: string(domain.ProviderEventAssetReady),
	}

	f.registry.On("ResolveEventTarget", ctx, "", uuid.Nil).
		Return((*domain.VideoRecord)(nil), domain.ErrUnresolvedEvent)

	eventLog := f.uow.GetEventLogRepoMock()
	eventLog.On("Insert", ctx, mock.MatchedBy(func(row domain.VideoEvent) bool {
		return row.Outcome == domain.EventOutcomeError
	})).Return(nil)

	// Act
	applied, err := f.service.HandleEvent(ctx, event)

	// Assert: nothing to attach the event to, but still acknowledged
	assert.NoError(t, err)
	assert.False(t, applied)
	f.registry.AssertNotCalled(t, "FindOrCreateByExternalAssetID",
		mock.Anything, mock.Anything, mock.Anything)
}
