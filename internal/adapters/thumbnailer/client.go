package thumbnailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Client asks the secondary transcoding service to extract a thumbnail
// from a source URL. Implements port.SecondaryExtractor.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates the secondary extraction client. An empty baseURL
// returns nil so the chain simply skips the strategy.
func NewClient(baseURL string, timeout time.Duration) *Client {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

type extractRequest struct {
	SourceURL string `json:"sourceUrl"`
	VideoID   string `json:"videoId"`
}

type extractResponse struct {
	ThumbnailURL string `json:"thumbnailUrl"`
}

func (c *Client) ExtractThumbnail(ctx context.Context, sourceURL string, videoID uuid.UUID) (string, error) {
	if sourceURL == "" {
		return "", fmt.Errorf("source url is required")
	}

	payload, err := json.Marshal(extractRequest{SourceURL: sourceURL, VideoID: videoID.String()})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/thumbnails", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("secondary extraction request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("secondary extraction failed: status %d", resp.StatusCode)
	}

	var extracted extractResponse
	if err := json.NewDecoder(resp.Body).Decode(&extracted); err != nil {
		return "", fmt.Errorf("decoding extraction response: %w", err)
	}
	if extracted.ThumbnailURL == "" {
		return "", fmt.Errorf("secondary extraction returned no artifact")
	}
	return extracted.ThumbnailURL, nil
}
