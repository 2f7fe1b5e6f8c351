package video

import (
	"context"
	"log/slog"
	"media-vault/internal/core/domain"
	"media-vault/internal/core/port"

	"github.com/google/uuid"
)

type videoService struct {
	uow     port.UnitOfWork
	storage port.ObjectStorage
	logger  *slog.Logger
}

// NewVideoService creates the read-side service
func NewVideoService(uow port.UnitOfWork, storage port.ObjectStorage, logger *slog.Logger) port.VideoReadService {
	return &videoService{uow: uow, storage: storage, logger: logger}
}

// GetVideo returns the record and, for ready records, a presigned URL for
// the source bytes.
func (s *videoService) GetVideo(ctx context.Context, id uuid.UUID) (*domain.VideoRecord, *string, error) {
	record, err := s.uow.VideoRepo().FindByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	if record.Status != domain.VideoStatusReady {
		return record, nil, nil
	}

	sourceURL, _, err := s.storage.StreamURL(ctx, record.SourceLocation)
	if err != nil {
		s.logger.Warn("failed to presign source", "video_id", record.ID, "error", err)
		return record, nil, nil
	}
	return record, &sourceURL, nil
}
