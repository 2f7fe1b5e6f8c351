package port

import (
	"context"
	"media-vault/internal/core/domain"

	"github.com/google/uuid"
)

// ThumbnailResult is the outcome of one strategy attempt
type ThumbnailResult struct {
	Success  bool
	Method   domain.ThumbnailMethod
	Location string
	Reason   string
}

// ThumbnailSource carries what a strategy needs to work with
type ThumbnailSource struct {
	VideoID        uuid.UUID
	SourceLocation string
	// SourceURL is a presigned, independently addressable URL for the
	// source bytes, for strategies that fetch remotely.
	SourceURL string
	SizeBytes int64
	// ProviderThumbnailURL is set when the provider already produced a
	// thumbnail; the provider-native strategy uses it directly.
	ProviderThumbnailURL string
}

// ThumbnailStrategy is one independently callable thumbnail producer
type ThumbnailStrategy interface {
	Name() string
	Attempt(ctx context.Context, source ThumbnailSource) ThumbnailResult
}

// ThumbnailChain drives the ordered strategy list. It always terminates
// with a result; the final strategy cannot fail.
type ThumbnailChain interface {
	Produce(ctx context.Context, source ThumbnailSource) ThumbnailResult
}

// FrameExtractor extracts a single frame from a video stream into storage.
// Implemented by the ffmpeg adapter.
type FrameExtractor interface {
	ExtractFrame(ctx context.Context, sourceURL string, videoID uuid.UUID) (string, error)
}

// SecondaryExtractor asks the secondary transcoding service for a thumbnail
type SecondaryExtractor interface {
	ExtractThumbnail(ctx context.Context, sourceURL string, videoID uuid.UUID) (string, error)
}
