package port

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// AssetOptions is the artifact policy sent with asset creation. The
// correlation token is echoed back by the provider in every lifecycle
// event (passthrough).
type AssetOptions struct {
	CorrelationToken  uuid.UUID
	GenerateThumbnail bool
	GenerateCaptions  bool
	MaxResolution     string
}

// Asset is the provider's handle for an accepted source
type Asset struct {
	Handle     string
	AcceptedAt time.Time
}

// AssetLifecycle mirrors the provider's lifecycle values
type AssetLifecycle string

const (
	AssetLifecyclePreparing AssetLifecycle = "preparing"
	AssetLifecycleReady     AssetLifecycle = "ready"
	AssetLifecycleErrored   AssetLifecycle = "errored"
)

// AssetStatus is a point-in-time view of an asset, safe to poll
type AssetStatus struct {
	Lifecycle        AssetLifecycle
	PlaybackLocation string
	ThumbnailURL     string
	DurationSeconds  float64
	ErrorDetail      string
}

// ProcessingProvider is an interface over the external transcoding service.
// Implementations retry transport errors internally and classify failures
// into domain.ErrProviderRejected / domain.ErrProviderUnavailable.
type ProcessingProvider interface {
	CreateAsset(ctx context.Context, sourceURL string, opts AssetOptions) (*Asset, error)
	GetStatus(ctx context.Context, handle string) (*AssetStatus, error)
	// AwaitReady polls until the asset leaves preparing or maxWait elapses,
	// returning domain.ErrAwaitTimeout in the latter case.
	AwaitReady(ctx context.Context, handle string, maxWait time.Duration) (*AssetStatus, error)
}
