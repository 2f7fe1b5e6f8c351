package port

import (
	"context"
	"media-vault/internal/core/domain"

	"github.com/google/uuid"
)

// SubmitUploadRequest is the input of the ingestion orchestrator, produced
// by upload-completion glue
type SubmitUploadRequest struct {
	InternalID     uuid.UUID
	SourceLocation string
	Filename       string
	SizeBytes      int64
	MimeType       string
}

// IngestService is an interface to define the ingestion orchestrator
type IngestService interface {
	SubmitUpload(ctx context.Context, req SubmitUploadRequest) (*domain.VideoRecord, error)
}

// ReconcileService is an interface to define webhook event reconciliation
type ReconcileService interface {
	// HandleEvent applies one provider lifecycle event idempotently. The
	// returned bool reports whether the event was applied (as opposed to
	// discarded or deduplicated); internal bookkeeping outcomes are not
	// errors.
	HandleEvent(ctx context.Context, event domain.ProviderEvent) (bool, error)
}

// RegistryService is an interface to define the deduplication engine. It is
// the single entry point for creating video rows.
type RegistryService interface {
	FindOrCreateByExternalAssetID(ctx context.Context, externalAssetID string, candidate domain.VideoRecord) (*domain.VideoRecord, error)
	CreatePending(ctx context.Context, candidate domain.VideoRecord) (*domain.VideoRecord, error)
	// BindExternalAsset attaches a provider-issued asset id to an existing
	// record, merging into the prior owner if the id is already bound
	// elsewhere.
	BindExternalAsset(ctx context.Context, videoID uuid.UUID, externalAssetID string) (*domain.VideoRecord, error)
	// ResolveEventTarget finds the record for a webhook event, attaching the
	// external asset id via the correlation token when it is not yet bound.
	ResolveEventTarget(ctx context.Context, externalAssetID string, correlationToken uuid.UUID) (*domain.VideoRecord, error)
	MergeDuplicates(ctx context.Context, primaryID, duplicateID uuid.UUID) (*domain.VideoRecord, error)
}

// VideoReadService is an interface to define the read surface
type VideoReadService interface {
	GetVideo(ctx context.Context, id uuid.UUID) (*domain.VideoRecord, *string, error)
}
