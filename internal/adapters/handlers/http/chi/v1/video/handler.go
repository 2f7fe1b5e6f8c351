package video

import (
	"log/slog"
	"media-vault/internal/core/port"

	"github.com/go-chi/chi/v5"
)

// HandlerV1 is the handler for v1 video routes
type HandlerV1 struct {
	ingest    port.IngestService
	reconcile port.ReconcileService
	reader    port.VideoReadService
	logger    *slog.Logger
}

// NewVideoHandlerV1 creates HandlerV1
func NewVideoHandlerV1(ingest port.IngestService, reconcile port.ReconcileService, reader port.VideoReadService, logger *slog.Logger) *HandlerV1 {
	return &HandlerV1{
		ingest:    ingest,
		reconcile: reconcile,
		reader:    reader,
		logger:    logger,
	}
}

// Routes exposes handler routes
func (h *HandlerV1) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/submit", h.SubmitUploadV1)
	router.Post("/webhook", h.WebhookV1)
	router.Get("/{videoID}", h.GetVideoV1)

	return router
}
