package ingest

import (
	"context"
	"errors"
	"fmt"
	"media-vault/internal/core/domain"
	"media-vault/internal/core/port"

	"github.com/dustin/go-humanize"
)

// SubmitUpload is invoked at upload completion. It selects a processing
// mode, registers the canonical record, hands the source to the processing
// provider and either finishes inline (sync) or leaves completion to the
// webhook reconciler (async).
func (s *ingestService) SubmitUpload(ctx context.Context, req port.SubmitUploadRequest) (*domain.VideoRecord, error) {
	mimeType, ok := isSupportedVideo(req.MimeType)
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidFileType, req.MimeType)
	}

	decision := SelectMode(s.cfg, req.SizeBytes, mimeType)
	s.logger.Info("upload submitted",
		"video_id", req.InternalID,
		"size", humanize.Bytes(uint64(req.SizeBytes)),
		"mime_type", mimeType,
		"mode", decision.Mode,
		"estimated", decision.Estimated,
	)

	record, err := s.registry.CreatePending(ctx, domain.VideoRecord{
		ID:             req.InternalID,
		SourceLocation: req.SourceLocation,
		Filename:       req.Filename,
		SizeBytes:      req.SizeBytes,
		MimeType:       mimeType,
	})
	if err != nil {
		return nil, fmt.Errorf("registering video record: %w", err)
	}

	// Upload events are delivered at least once. CreatePending hands back
	// the existing row on a retried submission; once that row moved past
	// pending or holds a provider asset, submitting again would create a
	// second asset for the same video.
	if record.Status != domain.VideoStatusPending || record.ExternalAssetID != "" {
		s.logger.Info("record already submitted, skipping",
			"video_id", record.ID,
			"status", record.Status,
			"external_asset_id", record.ExternalAssetID,
		)
		return record, nil
	}

	sourceURL, _, err := s.storage.StreamURL(ctx, record.SourceLocation)
	if err != nil {
		return nil, fmt.Errorf("resolving source url: %w", err)
	}

	asset, err := s.provider.CreateAsset(ctx, sourceURL, port.AssetOptions{
		CorrelationToken:  record.CorrelationToken,
		GenerateThumbnail: true,
	})
	switch {
	case errors.Is(err, domain.ErrProviderRejected):
		detail := err.Error()
		if stateErr := s.advance(ctx, record, domain.VideoUpdate{
			Status:      domain.VideoStatusErrored,
			ErrorDetail: &detail,
		}); stateErr != nil {
			s.logger.Error("failed to record provider rejection", "video_id", record.ID, "error", stateErr)
		}
		return nil, err
	case errors.Is(err, domain.ErrProviderUnavailable), errors.Is(err, context.DeadlineExceeded):
		// Transient: keep the upload, mark preparing and let the sweep or a
		// late webhook finish the job. Not a failure for the caller.
		s.logger.Warn("provider unavailable at asset creation, deferring", "video_id", record.ID, "error", err)
		if stateErr := s.advance(ctx, record, domain.VideoUpdate{Status: domain.VideoStatusPreparing}); stateErr != nil {
			return nil, stateErr
		}
		return s.reload(ctx, record)
	case err != nil:
		return nil, fmt.Errorf("creating provider asset: %w", err)
	}

	record, err = s.registry.BindExternalAsset(ctx, record.ID, asset.Handle)
	if err != nil {
		return nil, fmt.Errorf("binding external asset id: %w", err)
	}

	if record.Status == domain.VideoStatusPending {
		if err := s.advance(ctx, record, domain.VideoUpdate{Status: domain.VideoStatusPreparing}); err != nil {
			return nil, err
		}
	}

	if decision.Mode == domain.ProcessingModeAsync {
		return s.reload(ctx, record)
	}

	return s.finishSync(ctx, record, asset.Handle)
}

// finishSync waits for the provider within the sync budget. Timeouts and
// provider outages degrade to the async path instead of failing the upload;
// the thumbnail chain runs as an immediate safety net so the caller still
// gets a preview artifact.
func (s *ingestService) finishSync(ctx context.Context, record *domain.VideoRecord, handle string) (*domain.VideoRecord, error) {
	status, err := s.provider.AwaitReady(ctx, handle, s.cfg.SyncMaxWait)
	switch {
	case errors.Is(err, domain.ErrAwaitTimeout), errors.Is(err, domain.ErrProviderUnavailable):
		s.logger.Warn("sync wait exceeded, falling back to async", "video_id", record.ID, "error", err)
		s.safetyNetThumbnail(ctx, record, "")
		return s.reload(ctx, record)
	case err != nil:
		return nil, fmt.Errorf("awaiting provider: %w", err)
	}

	if status.Lifecycle == port.AssetLifecycleErrored {
		detail := status.ErrorDetail
		if err := s.advance(ctx, record, domain.VideoUpdate{
			Status:      domain.VideoStatusErrored,
			ErrorDetail: &detail,
		}); err != nil && !errors.Is(err, domain.ErrStaleEvent) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %s", domain.ErrProviderRejected, status.ErrorDetail)
	}

	thumb := s.chain.Produce(ctx, s.thumbnailSource(ctx, record, status.ThumbnailURL))

	update := domain.VideoUpdate{
		Status:           domain.VideoStatusReady,
		Thumbnail:        &domain.ThumbnailArtifact{Method: thumb.Method, Location: thumb.Location},
		PlaybackLocation: &status.PlaybackLocation,
		DurationSeconds:  &status.DurationSeconds,
	}
	if err := s.advance(ctx, record, update); err != nil {
		// The webhook may have finished the record first; that is fine.
		if errors.Is(err, domain.ErrStaleEvent) {
			s.logger.Info("record already finalized by webhook", "video_id", record.ID)
			return s.reload(ctx, record)
		}
		return nil, err
	}

	return s.reload(ctx, record)
}

// safetyNetThumbnail attaches a chain-produced thumbnail without touching
// the record's status. Chain failure is absorbed: the chain always returns
// a result, the method tag marks degraded ones.
func (s *ingestService) safetyNetThumbnail(ctx context.Context, record *domain.VideoRecord, providerThumbURL string) {
	result := s.chain.Produce(ctx, s.thumbnailSource(ctx, record, providerThumbURL))
	if err := s.uow.VideoRepo().UpdateThumbnail(ctx, record.ID, domain.ThumbnailArtifact{
		Method:   result.Method,
		Location: result.Location,
	}); err != nil {
		s.logger.Error("failed to persist safety-net thumbnail", "video_id", record.ID, "error", err)
	}
}

// thumbnailSource assembles the chain input; a failed presign leaves
// SourceURL empty, which downgrades the remote strategies to misses.
func (s *ingestService) thumbnailSource(ctx context.Context, record *domain.VideoRecord, providerThumbURL string) port.ThumbnailSource {
	sourceURL, _, err := s.storage.StreamURL(ctx, record.SourceLocation)
	if err != nil {
		s.logger.Warn("failed to presign source for thumbnailing", "video_id", record.ID, "error", err)
		sourceURL = ""
	}
	return port.ThumbnailSource{
		VideoID:              record.ID,
		SourceLocation:       record.SourceLocation,
		SourceURL:            sourceURL,
		SizeBytes:            record.SizeBytes,
		ProviderThumbnailURL: providerThumbURL,
	}
}

func (s *ingestService) advance(ctx context.Context, record *domain.VideoRecord, update domain.VideoUpdate) error {
	from := predecessorsOf(update.Status)
	return s.uow.VideoRepo().AdvanceState(ctx, record.ID, from, update)
}

func (s *ingestService) reload(ctx context.Context, record *domain.VideoRecord) (*domain.VideoRecord, error) {
	return s.uow.VideoRepo().FindByID(ctx, record.ID)
}

// predecessorsOf lists the statuses a record may hold immediately before
// moving to next.
func predecessorsOf(next domain.VideoStatus) []domain.VideoStatus {
	switch next {
	case domain.VideoStatusPreparing:
		return []domain.VideoStatus{domain.VideoStatusPending}
	case domain.VideoStatusReady, domain.VideoStatusErrored:
		return []domain.VideoStatus{domain.VideoStatusPending, domain.VideoStatusPreparing}
	default:
		return nil
	}
}
