package domain

import (
	"time"

	"github.com/google/uuid"
)

// ProviderEventKind is the closed set of provider webhook event kinds
type ProviderEventKind string

const (
	ProviderEventAssetCreated ProviderEventKind = "video.asset.created"
	ProviderEventAssetReady   ProviderEventKind = "video.asset.ready"
	ProviderEventAssetErrored ProviderEventKind = "video.asset.errored"
	ProviderEventUnrecognized ProviderEventKind = "unrecognized"
)

// ProviderEvent is one lifecycle event from the external processing
// provider, parsed at the boundary. Delivery is at-least-once and
// unordered; the reconciler must tolerate duplicates and regressions.
type ProviderEvent struct {
	Kind             ProviderEventKind
	RawType          string
	ExternalAssetID  string
	CorrelationToken uuid.UUID
	PlaybackLocation string
	ThumbnailURL     string
	DurationSeconds  float64
	ErrorDetail      string
	OccurredAt       time.Time
}

// EventOutcome records what the reconciler did with one delivery
type EventOutcome string

const (
	EventOutcomeApplied        EventOutcome = "applied"
	EventOutcomeDuplicate      EventOutcome = "duplicate"
	EventOutcomeDiscardedStale EventOutcome = "discarded_stale"
	EventOutcomeUnrecognized   EventOutcome = "unrecognized"
	EventOutcomeError          EventOutcome = "error"
)

// VideoEvent is one row of the durable event audit log
type VideoEvent struct {
	ID               uuid.UUID
	VideoID          *uuid.UUID
	EventType        string
	ExternalAssetID  string
	CorrelationToken string
	Outcome          EventOutcome
	Detail           string
	CreatedAt        time.Time
}

// StorageEvent represents an object-storage bucket notification as
// delivered over the event broker
type StorageEvent struct {
	EventName string `json:"EventName"`
	Key       string `json:"Key"`
	Records   []struct {
		EventName string `json:"eventName"`
		S3        struct {
			Bucket struct {
				Name string `json:"name"`
			} `json:"bucket"`
			Object struct {
				Key         string `json:"key"`
				Size        int64  `json:"size"`
				ETag        string `json:"eTag"`
				ContentType string `json:"contentType"`
			} `json:"object"`
		} `json:"s3"`
		EventTime string `json:"eventTime"`
	} `json:"Records"`
}
