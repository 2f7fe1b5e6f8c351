package registry

import (
	"context"
	"fmt"
	"media-vault/internal/core/domain"
	"media-vault/internal/core/port"

	"github.com/google/uuid"
)

// MergeDuplicates folds two rows for the same asset into one. The most
// recently created row survives; scalar fields prefer the non-empty/longer
// value, a real thumbnail beats a placeholder regardless of recency, and
// the more advanced status wins. The losing row is deleted in the same
// transaction, after the merged write.
func (r *registryService) MergeDuplicates(ctx context.Context, primaryID, duplicateID uuid.UUID) (*domain.VideoRecord, error) {
	if primaryID == duplicateID {
		return nil, fmt.Errorf("cannot merge a record into itself")
	}

	var merged *domain.VideoRecord
	err := r.uow.Execute(ctx, func(uow port.UnitOfWork) error {
		a, err := uow.VideoRepo().FindByID(ctx, primaryID)
		if err != nil {
			return fmt.Errorf("loading primary: %w", err)
		}
		b, err := uow.VideoRepo().FindByID(ctx, duplicateID)
		if err != nil {
			return fmt.Errorf("loading duplicate: %w", err)
		}

		survivor, loser := a, b
		if b.CreatedAt.After(a.CreatedAt) {
			survivor, loser = b, a
		}

		folded := foldRecords(*survivor, *loser)

		// Delete first so a unique value held by the loser can move to the
		// survivor inside the same transaction.
		if err := uow.VideoRepo().Delete(ctx, loser.ID); err != nil {
			return fmt.Errorf("deleting duplicate: %w", err)
		}

		if folded.ExternalAssetID != "" && survivor.ExternalAssetID == "" {
			if err := uow.VideoRepo().AttachExternalAssetID(ctx, survivor.ID, folded.ExternalAssetID); err != nil {
				return fmt.Errorf("moving asset id to survivor: %w", err)
			}
		}

		// ErrorDetail is carried even when empty so a stale error text on
		// the survivor is overwritten, not kept.
		update := domain.VideoUpdate{
			Status:           folded.Status,
			Thumbnail:        &folded.Thumbnail,
			PlaybackLocation: &folded.PlaybackLocation,
			DurationSeconds:  &folded.DurationSeconds,
			ErrorDetail:      &folded.ErrorDetail,
		}
		if err := uow.VideoRepo().AdvanceState(ctx, survivor.ID, nil, update); err != nil {
			return fmt.Errorf("writing merged record: %w", err)
		}

		merged, err = uow.VideoRepo().FindByID(ctx, survivor.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	r.logger.Info("merged duplicate records",
		"survivor", merged.ID,
		"external_asset_id", merged.ExternalAssetID,
	)
	return merged, nil
}

func foldRecords(survivor, loser domain.VideoRecord) domain.VideoRecord {
	out := survivor

	out.ExternalAssetID = preferScalar(survivor.ExternalAssetID, loser.ExternalAssetID)
	out.SourceLocation = preferScalar(survivor.SourceLocation, loser.SourceLocation)
	out.PlaybackLocation = preferScalar(survivor.PlaybackLocation, loser.PlaybackLocation)
	out.Filename = preferScalar(survivor.Filename, loser.Filename)
	out.MimeType = preferScalar(survivor.MimeType, loser.MimeType)
	out.ErrorDetail = preferScalar(survivor.ErrorDetail, loser.ErrorDetail)
	if loser.SizeBytes > out.SizeBytes {
		out.SizeBytes = loser.SizeBytes
	}
	if loser.DurationSeconds > out.DurationSeconds {
		out.DurationSeconds = loser.DurationSeconds
	}

	if betterThumbnail(loser.Thumbnail, survivor.Thumbnail) {
		out.Thumbnail = loser.Thumbnail
	}

	if loser.Status.Rank() > survivor.Status.Rank() {
		out.Status = loser.Status
	} else if loser.Status == domain.VideoStatusReady && survivor.Status == domain.VideoStatusErrored {
		// Same rank, but a ready row proves the asset is usable.
		out.Status = domain.VideoStatusReady
	}
	if out.Status == domain.VideoStatusReady {
		out.ErrorDetail = ""
	}

	return out
}

// preferScalar keeps the non-empty value, or the longer one when both are set
func preferScalar(primary, secondary string) string {
	if primary == "" {
		return secondary
	}
	if secondary == "" {
		return primary
	}
	if len(secondary) > len(primary) {
		return secondary
	}
	return primary
}

// betterThumbnail reports whether candidate should replace current. A real
// extraction always beats a placeholder, whatever their relative age.
func betterThumbnail(candidate, current domain.ThumbnailArtifact) bool {
	if candidate.Location == "" {
		return false
	}
	if current.Location == "" {
		return true
	}
	return candidate.Method.IsReal() && !current.Method.IsReal()
}
