package video

import (
	"encoding/json"
	"errors"
	"net/http"

	"media-vault/internal/core/domain"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

func (h *HandlerV1) GetVideoV1(w http.ResponseWriter, r *http.Request) {
	videoID, err := uuid.Parse(chi.URLParam(r, "videoID"))
	if err != nil {
		http.Error(w, "invalid video id", http.StatusBadRequest)
		return
	}

	record, sourceURL, err := h.reader.GetVideo(r.Context(), videoID)
	switch {
	case errors.Is(err, domain.ErrVideoNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	case err != nil:
		h.logger.Error("error fetching video", "video_id", videoID, "error", err)
		http.Error(w, "internal server error", http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(toVideoResponse(record, sourceURL)); err != nil {
		h.logger.Error("error encoding response", "error", err)
	}
}
