package reconcile

import (
	"encoding/json"
	"fmt"
	"media-vault/internal/core/domain"
	"time"

	"github.com/google/uuid"
)

// webhookEnvelope is the provider's wire format. Payloads are parsed into
// the closed domain.ProviderEvent variants at this boundary; nothing
// downstream touches raw JSON.
type webhookEnvelope struct {
	Type             string `json:"type"`
	ObjectID         string `json:"objectId"`
	CorrelationToken string `json:"correlationToken"`
	CreatedAt        string `json:"createdAt"`
	Data             struct {
		Lifecycle         string  `json:"lifecycle"`
		Duration          float64 `json:"duration"`
		ErrorDetail       string  `json:"errorDetail"`
		PlaybackArtifacts *struct {
			PlaybackURL  string `json:"playbackUrl"`
			ThumbnailURL string `json:"thumbnailUrl"`
		} `json:"playbackArtifacts"`
	} `json:"data"`
}

var knownEventKinds = map[string]domain.ProviderEventKind{
	string(domain.ProviderEventAssetCreated): domain.ProviderEventAssetCreated,
	string(domain.ProviderEventAssetReady):   domain.ProviderEventAssetReady,
	string(domain.ProviderEventAssetErrored): domain.ProviderEventAssetErrored,
}

// ParseWebhookEvent decodes a raw provider delivery. Unknown event types
// yield the Unrecognized variant rather than an error; only malformed JSON
// fails.
func ParseWebhookEvent(raw []byte) (domain.ProviderEvent, error) {
	var envelope webhookEnvelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return domain.ProviderEvent{}, fmt.Errorf("decoding webhook payload: %w", err)
	}

	event := domain.ProviderEvent{
		RawType:         envelope.Type,
		ExternalAssetID: envelope.ObjectID,
		DurationSeconds: envelope.Data.Duration,
		ErrorDetail:     envelope.Data.ErrorDetail,
	}

	kind, ok := knownEventKinds[envelope.Type]
	if !ok {
		event.Kind = domain.ProviderEventUnrecognized
		return event, nil
	}
	event.Kind = kind

	if token, err := uuid.Parse(envelope.CorrelationToken); err == nil {
		event.CorrelationToken = token
	}
	if ts, err := time.Parse(time.RFC3339, envelope.CreatedAt); err == nil {
		event.OccurredAt = ts
	}
	if artifacts := envelope.Data.PlaybackArtifacts; artifacts != nil {
		event.PlaybackLocation = artifacts.PlaybackURL
		event.ThumbnailURL = artifacts.ThumbnailURL
	}

	return event, nil
}
