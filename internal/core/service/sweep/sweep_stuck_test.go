package sweep_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"media-vault/internal/adapters/provider"
	"media-vault/internal/adapters/repository"
	"media-vault/internal/config"
	"media-vault/internal/core/domain"
	"media-vault/internal/core/port"
	"media-vault/internal/core/service/reconcile"
	"media-vault/internal/core/service/sweep"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func sweepConfig() config.SweepConfig {
	return config.SweepConfig{Every: time.Minute, StuckAge: 30 * time.Minute, BatchSize: 50}
}

func TestSweepStuck_NothingToDo(t *testing.T) {
	// Arrange
	ctx := context.Background()
	uow := repository.NewMockUnitOfWork()
	mockProvider := provider.NewMockProvider()
	mockReconcile := reconcile.NewMockReconcileService()
	service := sweep.NewSweepService(uow, mockProvider, mockReconcile, sweepConfig(), discardLogger())

	uow.GetVideoRepoMock().On("FindStuckPreparing", ctx, mock.Anything, 50).
		Return([]domain.VideoRecord{}, nil)

	// Act
	err := service.SweepStuck(ctx)

	// Assert
	assert.NoError(t, err)
	mockProvider.AssertNotCalled(t, "GetStatus", mock.Anything, mock.Anything)
}

func TestSweepStuck_ReadyOnProvider_Reconciled(t *testing.T) {
	// Arrange: the webhook was lost, the provider says ready
	ctx := context.Background()
	uow := repository.NewMockUnitOfWork()
	mockProvider := provider.NewMockProvider()
	mockReconcile := reconcile.NewMockReconcileService()
	service := sweep.NewSweepService(uow, mockProvider, mockReconcile, sweepConfig(), discardLogger())

	record := domain.VideoRecord{
		ID:               uuid.New(),
		ExternalAssetID:  "asset-stuck",
		CorrelationToken: uuid.New(),
		Status:           domain.VideoStatusPreparing,
	}
	uow.GetVideoRepoMock().On("FindStuckPreparing", ctx, mock.Anything, 50).
		Return([]domain.VideoRecord{record}, nil)
	mockProvider.On("GetStatus", ctx, "asset-stuck").Return(&port.AssetStatus{
		Lifecycle:        port.AssetLifecycleReady,
		PlaybackLocation: "https://cdn/play.m3u8",
		DurationSeconds:  12,
	}, nil)
	mockReconcile.On("HandleEvent", ctx, mock.MatchedBy(func(event domain.ProviderEvent) bool {
		return event.Kind == domain.ProviderEventAssetReady &&
			event.ExternalAssetID == "asset-stuck" &&
			event.CorrelationToken == record.CorrelationToken
	})).Return(true, nil)

	// Act
	err := service.SweepStuck(ctx)

	// Assert
	assert.NoError(t, err)
	mockReconcile.AssertExpectations(t)
}

func TestSweepStuck_StillPreparing_LeftAlone(t *testing.T) {
	// Arrange
	ctx := context.Background()
	uow := repository.NewMockUnitOfWork()
	mockProvider := provider.NewMockProvider()
	mockReconcile := reconcile.NewMockReconcileService()
	service := sweep.NewSweepService(uow, mockProvider, mockReconcile, sweepConfig(), discardLogger())

	record := domain.VideoRecord{
		ID:              uuid.New(),
		ExternalAssetID: "asset-slow",
		Status:          domain.VideoStatusPreparing,
	}
	uow.GetVideoRepoMock().On("FindStuckPreparing", ctx, mock.Anything, 50).
		Return([]domain.VideoRecord{record}, nil)
	mockProvider.On("GetStatus", ctx, "asset-slow").Return(&port.AssetStatus{
		Lifecycle: port.AssetLifecyclePreparing,
	}, nil)

	// Act
	err := service.SweepStuck(ctx)

	// Assert
	assert.NoError(t, err)
	mockReconcile.AssertNotCalled(t, "HandleEvent", mock.Anything, mock.Anything)
}

func TestSweepStuck_NoAssetID_MarkedErrored(t *testing.T) {
	// Arrange: stuck with no provider asset, no webhook can ever arrive
	ctx := context.Background()
	uow := repository.NewMockUnitOfWork()
	mockProvider := provider.NewMockProvider()
	mockReconcile := reconcile.NewMockReconcileService()
	service := sweep.NewSweepService(uow, mockProvider, mockReconcile, sweepConfig(), discardLogger())

	record := domain.VideoRecord{ID: uuid.New(), Status: domain.VideoStatusPreparing}
	videoRepo := uow.GetVideoRepoMock()
	videoRepo.On("FindStuckPreparing", ctx, mock.Anything, 50).
		Return([]domain.VideoRecord{record}, nil)
	videoRepo.On("AdvanceState", ctx, record.ID,
		[]domain.VideoStatus{domain.VideoStatusPreparing},
		mock.MatchedBy(func(update domain.VideoUpdate) bool {
			return update.Status == domain.VideoStatusErrored && update.ErrorDetail != nil
		})).Return(nil)

	// Act
	err := service.SweepStuck(ctx)

	// Assert
	assert.NoError(t, err)
	videoRepo.AssertExpectations(t)
	mockProvider.AssertNotCalled(t, "GetStatus", mock.Anything, mock.Anything)
}

func TestSweepStuck_ProviderErrorDoesNotAbortBatch(t *testing.T) {
	// Arrange: first poll fails, second record still gets swept
	ctx := context.Background()
	uow := repository.NewMockUnitOfWork()
	mockProvider := provider.NewMockProvider()
	mockReconcile := reconcile.NewMockReconcileService()
	service := sweep.NewSweepService(uow, mockProvider, mockReconcile, sweepConfig(), discardLogger())

	failing := domain.VideoRecord{ID: uuid.New(), ExternalAssetID: "asset-a", Status: domain.VideoStatusPreparing}
	fine := domain.VideoRecord{ID: uuid.New(), ExternalAssetID: "asset-b", Status: domain.VideoStatusPreparing}

	uow.GetVideoRepoMock().On("FindStuckPreparing", ctx, mock.Anything, 50).
		Return([]domain.VideoRecord{failing, fine}, nil)
	mockProvider.On("GetStatus", ctx, "asset-a").
		Return((*port.AssetStatus)(nil), domain.ErrProviderUnavailable)
	mockProvider.On("GetStatus", ctx, "asset-b").Return(&port.AssetStatus{
		Lifecycle:   port.AssetLifecycleErrored,
		ErrorDetail: "bad input",
	}, nil)
	mockReconcile.On("HandleEvent", ctx, mock.MatchedBy(func(event domain.ProviderEvent) bool {
		return event.Kind == domain.ProviderEventAssetErrored && event.ExternalAssetID == "asset-b"
	})).Return(true, nil)

	// Act
	err := service.SweepStuck(ctx)

	// Assert
	assert.NoError(t, err)
	mockReconcile.AssertExpectations(t)
}
