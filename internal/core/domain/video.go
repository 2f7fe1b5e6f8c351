package domain

import (
	"time"

	"github.com/google/uuid"
)

// VideoStatus represents the processing state of a video record
type VideoStatus string

const (
	VideoStatusPending   VideoStatus = "pending"
	VideoStatusPreparing VideoStatus = "preparing"
	VideoStatusReady     VideoStatus = "ready"
	VideoStatusErrored   VideoStatus = "errored"
)

// statusRank orders statuses for monotonic transitions. ready and errored
// share the terminal rank; neither may overwrite the other.
var statusRank = map[VideoStatus]int{
	VideoStatusPending:   0,
	VideoStatusPreparing: 1,
	VideoStatusReady:     2,
	VideoStatusErrored:   2,
}

// Rank returns the position of s in the state ordering. Unknown statuses
// rank below pending so they never win a transition.
func (s VideoStatus) Rank() int {
	rank, ok := statusRank[s]
	if !ok {
		return -1
	}
	return rank
}

// CanAdvanceTo reports whether a transition from s to next is allowed.
// ready and errored are terminal with respect to each other.
func (s VideoStatus) CanAdvanceTo(next VideoStatus) bool {
	if s == next {
		return false
	}
	if s == VideoStatusReady || s == VideoStatusErrored {
		return false
	}
	return next.Rank() > s.Rank()
}

// ProcessingMode is the decision of the mode selector
type ProcessingMode string

const (
	ProcessingModeSync  ProcessingMode = "sync"
	ProcessingModeAsync ProcessingMode = "async"
)

// ThumbnailMethod identifies which strategy produced a thumbnail. Callers
// must inspect it: a synthetic placeholder is not a real artifact.
type ThumbnailMethod string

const (
	ThumbnailMethodNone        ThumbnailMethod = "none"
	ThumbnailMethodProvider    ThumbnailMethod = "provider"
	ThumbnailMethodSecondary   ThumbnailMethod = "secondary_provider"
	ThumbnailMethodLocal       ThumbnailMethod = "local_extraction"
	ThumbnailMethodPlaceholder ThumbnailMethod = "synthetic_placeholder"
)

// IsReal reports whether the thumbnail came from actual frame data rather
// than a generated placeholder.
func (m ThumbnailMethod) IsReal() bool {
	return m == ThumbnailMethodProvider || m == ThumbnailMethodSecondary || m == ThumbnailMethodLocal
}

// ThumbnailArtifact is the thumbnail reference attached to a video record
type ThumbnailArtifact struct {
	Method   ThumbnailMethod
	Location string
}

// VideoRecord is the canonical row for one uploaded video. Exactly one
// record exists per non-empty ExternalAssetID.
type VideoRecord struct {
	ID               uuid.UUID
	ExternalAssetID  string
	CorrelationToken uuid.UUID
	Status           VideoStatus
	Thumbnail        ThumbnailArtifact
	SourceLocation   string
	PlaybackLocation string
	Filename         string
	SizeBytes        int64
	MimeType         string
	DurationSeconds  float64
	ErrorDetail      string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// VideoUpdate carries the fields written atomically with a state transition.
// Nil pointers leave the column untouched.
type VideoUpdate struct {
	Status           VideoStatus
	Thumbnail        *ThumbnailArtifact
	PlaybackLocation *string
	DurationSeconds  *float64
	ErrorDetail      *string
}
