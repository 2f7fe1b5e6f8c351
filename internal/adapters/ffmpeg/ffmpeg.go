package ffmpeg

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"media-vault/internal/config"
	"media-vault/internal/core/port"

	"github.com/google/uuid"
)

// Extractor pulls a single frame out of a video stream with a local ffmpeg
// binary and stores it as a JPEG. Implements port.FrameExtractor.
type Extractor struct {
	storage port.ObjectStorage
	cfg     config.ThumbnailConfig
}

// NewExtractor creates the local frame extractor
func NewExtractor(storage port.ObjectStorage, cfg config.ThumbnailConfig) *Extractor {
	return &Extractor{storage: storage, cfg: cfg}
}

// ExtractFrame captures one frame at the configured offset. ffmpeg reads
// the presigned source URL directly; the frame lands in a temp file and is
// uploaded under the video's thumbnail prefix.
func (e *Extractor) ExtractFrame(ctx context.Context, sourceURL string, videoID uuid.UUID) (string, error) {
	if sourceURL == "" {
		return "", fmt.Errorf("source url is required")
	}

	tmpDir, err := os.MkdirTemp("", "frame-extract-")
	if err != nil {
		return "", fmt.Errorf("creating temp dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	outPath := filepath.Join(tmpDir, "frame.jpg")
	offset := fmt.Sprintf("%.3f", e.cfg.FrameOffset.Seconds())
	scale := fmt.Sprintf("scale='min(%d,iw)':-2", e.cfg.MaxWidth)

	args := []string{
		"-hide_banner", "-loglevel", "error",
		"-ss", offset,
		"-i", sourceURL,
		"-frames:v", "1",
		"-vf", scale,
		"-q:v", "4",
		"-y", outPath,
	}

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, e.cfg.FFmpegPath, args...)
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		logs := strings.TrimSpace(stderr.String())
		if logs != "" {
			return "", fmt.Errorf("ffmpeg frame extraction: %w: %s", err, logs)
		}
		return "", fmt.Errorf("ffmpeg frame extraction: %w", err)
	}

	frame, err := os.Open(outPath)
	if err != nil {
		return "", fmt.Errorf("opening extracted frame: %w", err)
	}
	defer frame.Close()

	stat, err := frame.Stat()
	if err != nil {
		return "", fmt.Errorf("stat extracted frame: %w", err)
	}
	if stat.Size() == 0 {
		return "", fmt.Errorf("ffmpeg produced an empty frame")
	}

	key := fmt.Sprintf("thumbnails/%s/frame.jpg", videoID)
	location, err := e.storage.Put(ctx, key, frame, stat.Size(), "image/jpeg")
	if err != nil {
		return "", fmt.Errorf("storing extracted frame: %w", err)
	}
	return location, nil
}
