package thumbnail

import (
	"bytes"
	"context"
	"fmt"
	"media-vault/internal/core/domain"
	"media-vault/internal/core/port"
)

// providerStrategy reuses the thumbnail the processing provider already
// generated; no extra work when the provider did its job.
type providerStrategy struct{}

func (s *providerStrategy) Name() string { return "provider" }

func (s *providerStrategy) Attempt(ctx context.Context, source port.ThumbnailSource) port.ThumbnailResult {
	if source.ProviderThumbnailURL == "" {
		return failure(domain.ThumbnailMethodProvider, "provider returned no thumbnail")
	}
	return port.ThumbnailResult{
		Success:  true,
		Method:   domain.ThumbnailMethodProvider,
		Location: source.ProviderThumbnailURL,
	}
}

// secondaryStrategy asks the secondary transcoding service for a frame
type secondaryStrategy struct {
	client port.SecondaryExtractor
}

func (s *secondaryStrategy) Name() string { return "secondary_provider" }

func (s *secondaryStrategy) Attempt(ctx context.Context, source port.ThumbnailSource) port.ThumbnailResult {
	location, err := s.client.ExtractThumbnail(ctx, source.SourceURL, source.VideoID)
	if err != nil {
		return failure(domain.ThumbnailMethodSecondary, err.Error())
	}
	return port.ThumbnailResult{
		Success:  true,
		Method:   domain.ThumbnailMethodSecondary,
		Location: location,
	}
}

// localStrategy extracts a frame with the local ffmpeg adapter
type localStrategy struct {
	extractor port.FrameExtractor
}

func (s *localStrategy) Name() string { return "local_extraction" }

func (s *localStrategy) Attempt(ctx context.Context, source port.ThumbnailSource) port.ThumbnailResult {
	location, err := s.extractor.ExtractFrame(ctx, source.SourceURL, source.VideoID)
	if err != nil {
		return failure(domain.ThumbnailMethodLocal, err.Error())
	}
	return port.ThumbnailResult{
		Success:  true,
		Method:   domain.ThumbnailMethodLocal,
		Location: location,
	}
}

// placeholderStrategy generates a synthetic SVG in-process and stores it.
// It is the chain's floor and never fails: if storage is unreachable the
// result carries an inline data reference instead. Its method tag keeps it
// distinguishable from real artifacts so degraded thumbnails cannot mask
// provider failures.
type placeholderStrategy struct {
	storage port.ObjectStorage
}

func (s *placeholderStrategy) Name() string { return "synthetic_placeholder" }

const placeholderSVG = `<svg xmlns="http://www.w3.org/2000/svg" width="640" height="360" viewBox="0 0 640 360"><rect width="640" height="360" fill="#1f2937"/><polygon points="270,120 270,240 390,180" fill="#9ca3af"/></svg>`

func (s *placeholderStrategy) Attempt(ctx context.Context, source port.ThumbnailSource) port.ThumbnailResult {
	body := []byte(placeholderSVG)
	key := fmt.Sprintf("thumbnails/%s/placeholder.svg", source.VideoID)

	location, err := s.storage.Put(ctx, key, bytes.NewReader(body), int64(len(body)), "image/svg+xml")
	if err != nil {
		// Still succeed: the placeholder is the guaranteed terminal result.
		return port.ThumbnailResult{
			Success:  true,
			Method:   domain.ThumbnailMethodPlaceholder,
			Location: "data:image/svg+xml;utf8," + placeholderSVG,
		}
	}
	return port.ThumbnailResult{
		Success:  true,
		Method:   domain.ThumbnailMethodPlaceholder,
		Location: location,
	}
}
