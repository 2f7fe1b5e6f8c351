package uploadevent

import (
	"log/slog"
	"media-vault/internal/core/port"
)

// uploadEventService turns object-storage bucket notifications into
// ingestion submissions. It is the upload-completion glue: the uploader
// talks only to object storage, the notification tells us the bytes are
// durable.
type uploadEventService struct {
	storage port.ObjectStorage
	ingest  port.IngestService
	logger  *slog.Logger
}

// NewUploadEventService creates the storage notification handler
func NewUploadEventService(storage port.ObjectStorage, ingest port.IngestService, logger *slog.Logger) port.MessageService {
	return &uploadEventService{
		storage: storage,
		ingest:  ingest,
		logger:  logger,
	}
}
