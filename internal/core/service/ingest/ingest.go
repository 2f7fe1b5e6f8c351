package ingest

import (
	"log/slog"
	"media-vault/internal/config"
	"media-vault/internal/core/port"
	"mime"
	"strings"
)

type ingestService struct {
	registry port.RegistryService
	provider port.ProcessingProvider
	storage  port.ObjectStorage
	chain    port.ThumbnailChain
	uow      port.UnitOfWork
	cfg      config.ProcessingConfig
	logger   *slog.Logger
}

// NewIngestService creates the ingestion orchestrator
func NewIngestService(
	registry port.RegistryService,
	provider port.ProcessingProvider,
	storage port.ObjectStorage,
	chain port.ThumbnailChain,
	uow port.UnitOfWork,
	cfg config.ProcessingConfig,
	logger *slog.Logger,
) port.IngestService {
	return &ingestService{
		registry: registry,
		provider: provider,
		storage:  storage,
		chain:    chain,
		uow:      uow,
		cfg:      cfg,
		logger:   logger,
	}
}

// SupportedVideoMimeTypes is a whitelist of video containers accepted for
// ingestion. Deterministic, does not rely on OS mime databases.
var SupportedVideoMimeTypes = map[string]struct{}{
	"video/mp4":        {},
	"video/webm":       {},
	"video/quicktime":  {},
	"video/x-msvideo":  {},
	"video/x-matroska": {},
	"video/ogg":        {},
	"video/3gpp":       {},
}

func isSupportedVideo(contentType string) (string, bool) {
	mimeType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return "", false
	}
	if !strings.HasPrefix(mimeType, "video/") {
		return mimeType, false
	}
	_, ok := SupportedVideoMimeTypes[mimeType]
	return mimeType, ok
}
