package port

import (
	"context"
	"media-vault/internal/core/domain"
	"time"

	"github.com/google/uuid"
)

// VideoRepository is an interface to define video record persistence.
// Raw inserts are reserved for the registry service; no other component
// may create rows.
type VideoRepository interface {
	Create(ctx context.Context, record domain.VideoRecord) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.VideoRecord, error)
	FindByExternalAssetID(ctx context.Context, externalAssetID string) (*domain.VideoRecord, error)
	FindByCorrelationToken(ctx context.Context, token uuid.UUID) (*domain.VideoRecord, error)
	// AttachExternalAssetID sets the external asset id on a record that does
	// not have one yet. Returns domain.ErrAlreadyExists when the unique
	// constraint rejects the write.
	AttachExternalAssetID(ctx context.Context, id uuid.UUID, externalAssetID string) error
	// AdvanceState applies update atomically, only if the record's current
	// status is one of the listed predecessors. Returns domain.ErrStaleEvent
	// when no row matched.
	AdvanceState(ctx context.Context, id uuid.UUID, from []domain.VideoStatus, update domain.VideoUpdate) error
	UpdateThumbnail(ctx context.Context, id uuid.UUID, thumbnail domain.ThumbnailArtifact) error
	FindStuckPreparing(ctx context.Context, olderThan time.Time, limit int) ([]domain.VideoRecord, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// EventLogRepository is an interface to define the durable webhook audit log
type EventLogRepository interface {
	Insert(ctx context.Context, event domain.VideoEvent) error
	FindByVideoID(ctx context.Context, videoID uuid.UUID) ([]domain.VideoEvent, error)
}
