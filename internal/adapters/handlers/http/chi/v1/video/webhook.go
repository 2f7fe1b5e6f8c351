package video

import (
	"encoding/json"
	"io"
	"net/http"

	"media-vault/internal/core/service/reconcile"
)

// V1WebhookResponse acknowledges a provider delivery. accepted reports
// whether the event mutated state; duplicates and stale deliveries still
// acknowledge with 200 so the provider stops redelivering.
type V1WebhookResponse struct {
	Accepted bool `json:"accepted"`
}

func (h *HandlerV1) WebhookV1(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		h.logger.Error("error reading webhook body", "error", err)
		http.Error(w, "unreadable body", http.StatusBadRequest)
		return
	}

	event, err := reconcile.ParseWebhookEvent(body)
	if err != nil {
		h.logger.Error("malformed webhook payload", "error", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	applied, err := h.reconcile.HandleEvent(r.Context(), event)
	if err != nil {
		// A transient failure here must surface as non-2xx so the provider
		// redelivers; HandleEvent is idempotent.
		h.logger.Error("error handling provider event",
			"type", event.RawType,
			"external_asset_id", event.ExternalAssetID,
			"error", err)
		http.Error(w, "internal server error", http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(V1WebhookResponse{Accepted: applied}); err != nil {
		h.logger.Error("error encoding response", "error", err)
	}
}
