package reconcile

import (
	"context"
	"errors"
	"fmt"
	"media-vault/internal/core/domain"
	"media-vault/internal/core/port"

	"github.com/google/uuid"
)

// HandleEvent idempotently applies one provider lifecycle event. Events
// that would regress the state machine are logged to the audit trail and
// discarded; the caller still acknowledges the delivery so the provider
// does not redeliver. The returned bool reports whether state changed.
func (s *reconcileService) HandleEvent(ctx context.Context, event domain.ProviderEvent) (bool, error) {
	if event.Kind == domain.ProviderEventUnrecognized {
		s.logger.Warn("unrecognized provider event", "type", event.RawType)
		s.audit(ctx, nil, event, domain.EventOutcomeUnrecognized, "unknown event type")
		return false, nil
	}

	record, err := s.resolveTarget(ctx, event)
	if err != nil {
		if errors.Is(err, domain.ErrUnresolvedEvent) {
			s.logger.Warn("event matches no record",
				"type", event.RawType,
				"external_asset_id", event.ExternalAssetID,
				"correlation_token", event.CorrelationToken,
			)
			s.audit(ctx, nil, event, domain.EventOutcomeError, "no matching record")
			return false, nil
		}
		return false, err
	}

	update, applicable := buildUpdate(record, event)
	if !applicable {
		s.audit(ctx, &record.ID, event, domain.EventOutcomeDiscardedStale,
			fmt.Sprintf("record already %s", record.Status))
		return false, nil
	}

	applied := false
	err = s.uow.Execute(ctx, func(uow port.UnitOfWork) error {
		stateErr := uow.VideoRepo().AdvanceState(ctx, record.ID, predecessorsOf(update.Status), update)
		outcome := domain.EventOutcomeApplied
		detail := ""
		switch {
		case errors.Is(stateErr, domain.ErrStaleEvent):
			// Lost the race or redelivered: classify, keep the audit row,
			// commit anyway.
			if record.Status == update.Status {
				outcome = domain.EventOutcomeDuplicate
				detail = "redelivery of already-applied state"
			} else {
				outcome = domain.EventOutcomeDiscardedStale
				detail = fmt.Sprintf("would regress from %s to %s", record.Status, update.Status)
			}
		case stateErr != nil:
			return stateErr
		default:
			applied = true
		}

		return uow.EventLogRepo().Insert(ctx, domain.VideoEvent{
			ID:               uuid.New(),
			VideoID:          &record.ID,
			EventType:        event.RawType,
			ExternalAssetID:  event.ExternalAssetID,
			CorrelationToken: event.CorrelationToken.String(),
			Outcome:          outcome,
			Detail:           detail,
		})
	})
	if err != nil {
		return false, fmt.Errorf("applying %s: %w", event.RawType, err)
	}

	s.logger.Info("provider event handled",
		"type", event.RawType,
		"video_id", record.ID,
		"applied", applied,
	)
	return applied, nil
}

// resolveTarget finds the record for an event, falling back to a
// find-or-create when neither the asset id nor correlation token match an
// existing row but the asset id is known (a delivery racing ahead of the
// submit path).
func (s *reconcileService) resolveTarget(ctx context.Context, event domain.ProviderEvent) (*domain.VideoRecord, error) {
	record, err := s.registry.ResolveEventTarget(ctx, event.ExternalAssetID, event.CorrelationToken)
	if err == nil {
		return record, nil
	}
	if !errors.Is(err, domain.ErrUnresolvedEvent) || event.ExternalAssetID == "" {
		return nil, err
	}
	return s.registry.FindOrCreateByExternalAssetID(ctx, event.ExternalAssetID, domain.VideoRecord{
		CorrelationToken: event.CorrelationToken,
		Status:           domain.VideoStatusPreparing,
	})
}

// buildUpdate maps an event to the state transition it requests, or reports
// it as not applicable when the record's current state already supersedes
// it.
func buildUpdate(record *domain.VideoRecord, event domain.ProviderEvent) (domain.VideoUpdate, bool) {
	switch event.Kind {
	case domain.ProviderEventAssetCreated:
		// Terminal records never regress to preparing; a preparing record
		// treats this as a redelivery, classified by the CAS below.
		applicable := record.Status.Rank() <= domain.VideoStatusPreparing.Rank()
		return domain.VideoUpdate{Status: domain.VideoStatusPreparing}, applicable

	case domain.ProviderEventAssetReady:
		update := domain.VideoUpdate{
			Status:           domain.VideoStatusReady,
			PlaybackLocation: &event.PlaybackLocation,
			DurationSeconds:  &event.DurationSeconds,
		}
		// A provider thumbnail only displaces a missing or degraded one;
		// a real artifact already on the record stays.
		if event.ThumbnailURL != "" && !record.Thumbnail.Method.IsReal() {
			update.Thumbnail = &domain.ThumbnailArtifact{
				Method:   domain.ThumbnailMethodProvider,
				Location: event.ThumbnailURL,
			}
		}
		return update, record.Status != domain.VideoStatusErrored

	case domain.ProviderEventAssetErrored:
		detail := event.ErrorDetail
		update := domain.VideoUpdate{
			Status:      domain.VideoStatusErrored,
			ErrorDetail: &detail,
		}
		// errored never overwrites a record that already reached ready.
		return update, record.Status != domain.VideoStatusReady
	}
	return domain.VideoUpdate{}, false
}

func predecessorsOf(next domain.VideoStatus) []domain.VideoStatus {
	switch next {
	case domain.VideoStatusPreparing:
		return []domain.VideoStatus{domain.VideoStatusPending}
	case domain.VideoStatusReady:
		return []domain.VideoStatus{domain.VideoStatusPending, domain.VideoStatusPreparing}
	case domain.VideoStatusErrored:
		return []domain.VideoStatus{domain.VideoStatusPending, domain.VideoStatusPreparing}
	default:
		return nil
	}
}

// audit writes a best-effort log row for deliveries that never reach the
// transactional path.
func (s *reconcileService) audit(ctx context.Context, videoID *uuid.UUID, event domain.ProviderEvent, outcome domain.EventOutcome, detail string) {
	token := ""
	if event.CorrelationToken != uuid.Nil {
		token = event.CorrelationToken.String()
	}
	err := s.uow.EventLogRepo().Insert(ctx, domain.VideoEvent{
		ID:               uuid.New(),
		VideoID:          videoID,
		EventType:        event.RawType,
		ExternalAssetID:  event.ExternalAssetID,
		CorrelationToken: token,
		Outcome:          outcome,
		Detail:           detail,
	})
	if err != nil {
		s.logger.Error("failed to write event audit row", "type", event.RawType, "error", err)
	}
}
