package registry

import (
	"context"
	"errors"
	"fmt"
	"media-vault/internal/core/domain"

	"github.com/google/uuid"
)

// CreatePending persists a new record in state pending, before any external
// asset id exists. The correlation token defaults to the internal id; the
// provider echoes it back in every lifecycle event so later deliveries can
// find this exact row.
func (r *registryService) CreatePending(ctx context.Context, candidate domain.VideoRecord) (*domain.VideoRecord, error) {
	if candidate.ID == uuid.Nil {
		candidate.ID = uuid.New()
	}
	if candidate.CorrelationToken == uuid.Nil {
		candidate.CorrelationToken = candidate.ID
	}
	candidate.Status = domain.VideoStatusPending
	candidate.Thumbnail = domain.ThumbnailArtifact{Method: domain.ThumbnailMethodNone}

	if err := r.uow.VideoRepo().Create(ctx, candidate); err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			// Retried submission for the same internal id; idempotent.
			return r.uow.VideoRepo().FindByID(ctx, candidate.ID)
		}
		return nil, err
	}
	return r.uow.VideoRepo().FindByID(ctx, candidate.ID)
}

// FindOrCreateByExternalAssetID returns the single record bound to the
// given asset id, creating it if none exists. A concurrent insert losing
// the unique-constraint race is recovered by re-reading the winner.
func (r *registryService) FindOrCreateByExternalAssetID(ctx context.Context, externalAssetID string, candidate domain.VideoRecord) (*domain.VideoRecord, error) {
	if externalAssetID == "" {
		return nil, fmt.Errorf("external asset id is required")
	}

	existing, err := r.uow.VideoRepo().FindByExternalAssetID(ctx, externalAssetID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, domain.ErrVideoNotFound) {
		return nil, err
	}

	if candidate.ID == uuid.Nil {
		candidate.ID = uuid.New()
	}
	if candidate.CorrelationToken == uuid.Nil {
		candidate.CorrelationToken = candidate.ID
	}
	candidate.ExternalAssetID = externalAssetID
	if candidate.Status == "" {
		candidate.Status = domain.VideoStatusPreparing
	}

	err = r.uow.VideoRepo().Create(ctx, candidate)
	if errors.Is(err, domain.ErrAlreadyExists) {
		// A concurrent caller won the insert race. The constraint did its
		// job; return the surviving row.
		r.logger.Info("duplicate insert recovered", "external_asset_id", externalAssetID)
		return r.uow.VideoRepo().FindByExternalAssetID(ctx, externalAssetID)
	}
	if err != nil {
		return nil, err
	}
	return r.uow.VideoRepo().FindByID(ctx, candidate.ID)
}

// BindExternalAsset attaches a provider asset id to an already-registered
// record. If another record owns the id (the two-write-paths race), the two
// rows are merged instead of erroring.
func (r *registryService) BindExternalAsset(ctx context.Context, videoID uuid.UUID, externalAssetID string) (*domain.VideoRecord, error) {
	if externalAssetID == "" {
		return nil, fmt.Errorf("external asset id is required")
	}

	err := r.uow.VideoRepo().AttachExternalAssetID(ctx, videoID, externalAssetID)
	if err == nil {
		return r.uow.VideoRepo().FindByID(ctx, videoID)
	}
	if !errors.Is(err, domain.ErrAlreadyExists) {
		return nil, err
	}

	owner, findErr := r.uow.VideoRepo().FindByExternalAssetID(ctx, externalAssetID)
	if findErr != nil {
		return nil, fmt.Errorf("resolving asset id owner: %w", findErr)
	}
	if owner.ID == videoID {
		return owner, nil
	}

	r.logger.Warn("external asset id already bound, merging records",
		"external_asset_id", externalAssetID,
		"owner", owner.ID,
		"duplicate", videoID,
	)
	return r.MergeDuplicates(ctx, owner.ID, videoID)
}

// ResolveEventTarget locates the record a webhook event belongs to. The
// asset id is authoritative; when no record carries it yet, the correlation
// token finds the original pending row and the asset id is bound to it,
// never blindly inserted.
func (r *registryService) ResolveEventTarget(ctx context.Context, externalAssetID string, correlationToken uuid.UUID) (*domain.VideoRecord, error) {
	if externalAssetID != "" {
		record, err := r.uow.VideoRepo().FindByExternalAssetID(ctx, externalAssetID)
		if err == nil {
			return record, nil
		}
		if !errors.Is(err, domain.ErrVideoNotFound) {
			return nil, err
		}
	}

	if correlationToken != uuid.Nil {
		record, err := r.uow.VideoRepo().FindByCorrelationToken(ctx, correlationToken)
		if err == nil {
			if externalAssetID != "" && record.ExternalAssetID == "" {
				return r.BindExternalAsset(ctx, record.ID, externalAssetID)
			}
			return record, nil
		}
		if !errors.Is(err, domain.ErrVideoNotFound) {
			return nil, err
		}
	}

	return nil, domain.ErrUnresolvedEvent
}
