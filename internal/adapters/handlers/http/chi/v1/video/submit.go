package video

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"media-vault/internal/core/domain"
	"media-vault/internal/core/port"

	"github.com/google/uuid"
)

// V1SubmitRequest is the upload-completion notification from glue code
type V1SubmitRequest struct {
	VideoID        uuid.UUID `json:"video_id"`
	SourceLocation string    `json:"source_location"`
	Filename       string    `json:"filename"`
	SizeBytes      int64     `json:"size_bytes"`
	MimeType       string    `json:"mime_type"`
}

// V1VideoResponse is the wire shape of a video record
type V1VideoResponse struct {
	VideoID         uuid.UUID `json:"video_id"`
	ExternalAssetID string    `json:"external_asset_id,omitempty"`
	Status          string    `json:"status"`
	ThumbnailMethod string    `json:"thumbnail_method"`
	ThumbnailURL    string    `json:"thumbnail_url,omitempty"`
	PlaybackURL     string    `json:"playback_url,omitempty"`
	SourceURL       string    `json:"source_url,omitempty"`
	Filename        string    `json:"filename"`
	SizeBytes       int64     `json:"size_bytes"`
	MimeType        string    `json:"mime_type"`
	DurationSeconds float64   `json:"duration_seconds,omitempty"`
	ErrorDetail     string    `json:"error_detail,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func toVideoResponse(record *domain.VideoRecord, sourceURL *string) V1VideoResponse {
	resp := V1VideoResponse{
		VideoID:         record.ID,
		ExternalAssetID: record.ExternalAssetID,
		Status:          string(record.Status),
		ThumbnailMethod: string(record.Thumbnail.Method),
		ThumbnailURL:    record.Thumbnail.Location,
		PlaybackURL:     record.PlaybackLocation,
		Filename:        record.Filename,
		SizeBytes:       record.SizeBytes,
		MimeType:        record.MimeType,
		DurationSeconds: record.DurationSeconds,
		ErrorDetail:     record.ErrorDetail,
		CreatedAt:       record.CreatedAt,
		UpdatedAt:       record.UpdatedAt,
	}
	if sourceURL != nil {
		resp.SourceURL = *sourceURL
	}
	return resp
}

func (h *HandlerV1) SubmitUploadV1(w http.ResponseWriter, r *http.Request) {
	var req V1SubmitRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("error decoding submit request", "error", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if req.VideoID == uuid.Nil || req.SourceLocation == "" || req.Filename == "" || req.SizeBytes == 0 {
		http.Error(w, "missing param", http.StatusBadRequest)
		return
	}

	record, err := h.ingest.SubmitUpload(r.Context(), port.SubmitUploadRequest{
		InternalID:     req.VideoID,
		SourceLocation: req.SourceLocation,
		Filename:       req.Filename,
		SizeBytes:      req.SizeBytes,
		MimeType:       req.MimeType,
	})
	switch {
	case errors.Is(err, domain.ErrInvalidFileType):
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	case errors.Is(err, domain.ErrProviderRejected):
		h.logger.Error("provider rejected upload", "video_id", req.VideoID, "error", err)
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	case err != nil:
		h.logger.Error("error submitting upload", "video_id", req.VideoID, "error", err)
		http.Error(w, "internal server error", http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(toVideoResponse(record, nil)); err != nil {
		h.logger.Error("error encoding response", "error", err)
	}
}
