package sweep

import (
	"context"
	"fmt"
	"media-vault/internal/core/domain"
	"media-vault/internal/core/port"
	"time"
)

// SweepStuck finds preparing records older than the configured age and
// reconciles them from a direct provider status poll. Records without an
// external asset id cannot be polled and are surfaced as errored once
// stuck: no asset means no webhook will ever arrive.
func (s *Service) SweepStuck(ctx context.Context) error {
	cutoff := time.Now().Add(-s.cfg.StuckAge)
	records, err := s.uow.VideoRepo().FindStuckPreparing(ctx, cutoff, s.cfg.BatchSize)
	if err != nil {
		return fmt.Errorf("finding stuck records: %w", err)
	}
	if len(records) == 0 {
		return nil
	}

	s.logger.Info("sweeping stuck records", "count", len(records), "cutoff", cutoff)

	for _, record := range records {
		if err := s.sweepOne(ctx, record); err != nil {
			s.logger.Error("failed to sweep record", "video_id", record.ID, "error", err)
		}
	}
	return nil
}

func (s *Service) sweepOne(ctx context.Context, record domain.VideoRecord) error {
	if record.ExternalAssetID == "" {
		detail := "no provider asset after stuck deadline"
		return s.uow.VideoRepo().AdvanceState(ctx, record.ID,
			[]domain.VideoStatus{domain.VideoStatusPreparing},
			domain.VideoUpdate{Status: domain.VideoStatusErrored, ErrorDetail: &detail},
		)
	}

	status, err := s.provider.GetStatus(ctx, record.ExternalAssetID)
	if err != nil {
		return fmt.Errorf("polling provider: %w", err)
	}

	event := domain.ProviderEvent{
		ExternalAssetID:  record.ExternalAssetID,
		CorrelationToken: record.CorrelationToken,
		PlaybackLocation: status.PlaybackLocation,
		ThumbnailURL:     status.ThumbnailURL,
		DurationSeconds:  status.DurationSeconds,
		ErrorDetail:      status.ErrorDetail,
	}
	switch status.Lifecycle {
	case port.AssetLifecycleReady:
		event.Kind = domain.ProviderEventAssetReady
		event.RawType = "sweep.asset.ready"
	case port.AssetLifecycleErrored:
		event.Kind = domain.ProviderEventAssetErrored
		event.RawType = "sweep.asset.errored"
	default:
		// Still preparing on the provider side; leave it alone.
		return nil
	}

	_, err = s.reconcile.HandleEvent(ctx, event)
	return err
}
