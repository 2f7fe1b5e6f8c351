package uploadevent

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"path"
	"strings"

	"media-vault/internal/core/domain"
	"media-vault/internal/core/port"

	"github.com/google/uuid"
)

// HandleMessage processes one bucket notification. The object key carries
// the internal video id as its second path segment
// (videos/<uuid>/<filename>), so redeliveries resubmit the same id and the
// registry keeps the operation idempotent.
func (s *uploadEventService) HandleMessage(ctx context.Context, data []byte) error {
	var event domain.StorageEvent
	if err := json.Unmarshal(data, &event); err != nil {
		return fmt.Errorf("could not unmarshal storage event: %w", err)
	}
	if len(event.Records) == 0 {
		return fmt.Errorf("no records in storage event")
	}

	notification := event.Records[0]
	switch notification.EventName {
	case "s3:ObjectCreated:Put", "s3:ObjectCreated:CompleteMultipartUpload":
	default:
		s.logger.Info("ignoring storage event", "event", notification.EventName)
		return nil
	}

	key, err := url.QueryUnescape(notification.S3.Object.Key)
	if err != nil {
		return fmt.Errorf("decoding object key: %w", err)
	}

	videoID, filename, err := parseObjectKey(key)
	if err != nil {
		return err
	}

	s.logger.Info("upload completed",
		"event", notification.EventName,
		"key", key,
		"video_id", videoID,
	)

	info, err := s.storage.GetObjectInfo(ctx, key)
	if err != nil {
		return fmt.Errorf("stat uploaded object: %w", err)
	}

	mimeType := info.ContentType
	header, err := s.storage.GetHeaderBytes(ctx, key, 512)
	if err == nil {
		if detected := http.DetectContentType(header); strings.HasPrefix(detected, "video/") {
			mimeType = detected
		}
	}

	_, err = s.ingest.SubmitUpload(ctx, port.SubmitUploadRequest{
		InternalID:     videoID,
		SourceLocation: key,
		Filename:       filename,
		SizeBytes:      info.Size,
		MimeType:       mimeType,
	})
	return err
}

func parseObjectKey(key string) (uuid.UUID, string, error) {
	parts := strings.Split(strings.Trim(key, "/"), "/")
	if len(parts) < 2 || parts[0] != "videos" {
		return uuid.Nil, "", fmt.Errorf("unexpected object key layout: %s", key)
	}
	videoID, err := uuid.Parse(parts[1])
	if err != nil {
		return uuid.Nil, "", fmt.Errorf("object key carries no video id: %w", err)
	}
	filename := path.Base(key)
	if len(parts) == 2 {
		filename = parts[1]
	}
	return videoID, filename, nil
}
