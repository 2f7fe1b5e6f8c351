package reconcile_test

import (
	"testing"

	"media-vault/internal/core/domain"
	"media-vault/internal/core/service/reconcile"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseWebhookEvent_Ready(t *testing.T) {
	// Arrange
	token := uuid.New()
	payload := `{
		"type": "video.asset.ready",
		"objectId": "asset-99",
		"correlationToken": "` + token.String() + `",
		"createdAt": "2026-03-01T12:00:00Z",
		"data": {
			"duration": 93.4,
			"playbackArtifacts": {
				"playbackUrl": "https://cdn/play.m3u8",
				"thumbnailUrl": "https://cdn/thumb.jpg"
			}
		}
	}`

	// Act
	event, err := reconcile.ParseWebhookEvent([]byte(payload))

	// Assert
	require.NoError(t, err)
	assert.Equal(t, domain.ProviderEventAssetReady, event.Kind)
	assert.Equal(t, "asset-99", event.ExternalAssetID)
	assert.Equal(t, token, event.CorrelationToken)
	assert.Equal(t, 93.4, event.DurationSeconds)
	assert.Equal(t, "https://cdn/play.m3u8", event.PlaybackLocation)
	assert.Equal(t, "https://cdn/thumb.jpg", event.ThumbnailURL)
	assert.False(t, event.OccurredAt.IsZero())
}

func TestParseWebhookEvent_Errored(t *testing.T) {
	// Arrange
	payload := `{
		"type": "video.asset.errored",
		"objectId": "asset-13",
		"data": {"errorDetail": "unsupported codec"}
	}`

	// Act
	event, err := reconcile.ParseWebhookEvent([]byte(payload))

	// Assert
	require.NoError(t, err)
	assert.Equal(t, domain.ProviderEventAssetErrored, event.Kind)
	assert.Equal(t, "unsupported codec", event.ErrorDetail)
}

func TestParseWebhookEvent_UnknownTypeIsNotAnError(t *testing.T) {
	// Arrange
	payload := `{"type": "video.asset.renamed", "objectId": "asset-13"}`

	// Act
	event, err := reconcile.ParseWebhookEvent([]byte(payload))

	// Assert: unknown variants must flow through, never crash the handler
	require.NoError(t, err)
	assert.Equal(t, domain.ProviderEventUnrecognized, event.Kind)
	assert.Equal(t, "video.asset.renamed", event.RawType)
	assert.Equal(t, "asset-13", event.ExternalAssetID)
}

func TestParseWebhookEvent_MalformedJSON(t *testing.T) {
	// Act
	_, err := reconcile.ParseWebhookEvent([]byte(`{"type": `))

	// Assert
	assert.Error(t, err)
}

func TestParseWebhookEvent_BadTokenIgnored(t *testing.T) {
	// Arrange
	payload := `{"type": "video.asset.created", "objectId": "asset-5", "correlationToken": "not-a-uuid"}`

	// Act
	event, err := reconcile.ParseWebhookEvent([]byte(payload))

	// Assert
	require.NoError(t, err)
	assert.Equal(t, uuid.Nil, event.CorrelationToken)
}
