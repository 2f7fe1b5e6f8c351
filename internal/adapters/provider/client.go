package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"media-vault/internal/config"
	"media-vault/internal/core/domain"
	"media-vault/internal/core/port"

	"github.com/sethvargo/go-retry"
)

// Client is a thin HTTP adapter over the external video-processing
// provider, implementing port.ProcessingProvider. Transport errors are
// retried with backoff before being classified ErrProviderUnavailable;
// 4xx responses on asset creation are ErrProviderRejected.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
	cfg     config.ProviderConfig
	logger  *slog.Logger
}

// NewClient creates the provider client
func NewClient(cfg config.ProviderConfig, logger *slog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		token:   cfg.Token,
		http: &http.Client{
			Timeout: cfg.RequestTimeout,
		},
		cfg:    cfg,
		logger: logger,
	}
}

type createAssetRequest struct {
	SourceURL     string `json:"sourceUrl"`
	Passthrough   string `json:"passthrough"`
	Thumbnails    bool   `json:"thumbnails"`
	Captions      bool   `json:"captions"`
	MaxResolution string `json:"maxResolution,omitempty"`
}

type createAssetResponse struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
}

type assetStatusResponse struct {
	Lifecycle   string  `json:"lifecycle"`
	Duration    float64 `json:"duration"`
	ErrorDetail string  `json:"errorDetail"`
	Playback    *struct {
		PlaybackURL  string `json:"playbackUrl"`
		ThumbnailURL string `json:"thumbnailUrl"`
	} `json:"playback"`
}

// CreateAsset submits a source URL for processing. The correlation token
// rides along as the passthrough field and comes back in every webhook.
func (c *Client) CreateAsset(ctx context.Context, sourceURL string, opts port.AssetOptions) (*port.Asset, error) {
	payload, err := json.Marshal(createAssetRequest{
		SourceURL:     sourceURL,
		Passthrough:   opts.CorrelationToken.String(),
		Thumbnails:    opts.GenerateThumbnail,
		Captions:      opts.GenerateCaptions,
		MaxResolution: opts.MaxResolution,
	})
	if err != nil {
		return nil, err
	}

	var created createAssetResponse
	err = c.doWithRetry(ctx, http.MethodPost, c.baseURL+"/v1/assets", payload, &created)
	if err != nil {
		return nil, err
	}

	acceptedAt := created.CreatedAt
	if acceptedAt.IsZero() {
		acceptedAt = time.Now()
	}
	return &port.Asset{Handle: created.ID, AcceptedAt: acceptedAt}, nil
}

// GetStatus reads the current lifecycle of an asset; safe to poll
func (c *Client) GetStatus(ctx context.Context, handle string) (*port.AssetStatus, error) {
	var status assetStatusResponse
	err := c.doWithRetry(ctx, http.MethodGet, c.baseURL+"/v1/assets/"+handle, nil, &status)
	if err != nil {
		return nil, err
	}
	return toAssetStatus(status), nil
}

// AwaitReady polls until the asset leaves preparing or maxWait elapses.
// The deadline is what lets the synchronous ingest path degrade to async
// instead of holding a request worker hostage.
func (c *Client) AwaitReady(ctx context.Context, handle string, maxWait time.Duration) (*port.AssetStatus, error) {
	deadline := time.Now().Add(maxWait)
	waitCtx, cancel := context.WithDeadline(ctx, deadline)
	defer cancel()

	ticker := time.NewTicker(c.cfg.PollInterval)
	defer ticker.Stop()

	for {
		status, err := c.GetStatus(waitCtx, handle)
		if err != nil {
			if waitCtx.Err() != nil {
				return nil, fmt.Errorf("%w: after %s", domain.ErrAwaitTimeout, maxWait)
			}
			return nil, err
		}
		if status.Lifecycle != port.AssetLifecyclePreparing {
			return status, nil
		}

		select {
		case <-waitCtx.Done():
			return nil, fmt.Errorf("%w: after %s", domain.ErrAwaitTimeout, maxWait)
		case <-ticker.C:
		}
	}
}

// doWithRetry runs one JSON round trip, retrying transport and 5xx
// failures a small fixed number of times with backoff.
func (c *Client) doWithRetry(ctx context.Context, method, url string, payload []byte, out interface{}) error {
	backoff := retry.WithMaxRetries(c.cfg.MaxRetries, retry.NewExponential(c.cfg.RetryBackoff))

	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		reqErr := c.do(ctx, method, url, payload, out)
		if errors.Is(reqErr, domain.ErrProviderUnavailable) {
			return retry.RetryableError(reqErr)
		}
		return reqErr
	})
	if err != nil {
		c.logger.Warn("provider request failed", "method", method, "url", url, "error", err)
	}
	return err
}

func (c *Client) do(ctx context.Context, method, url string, payload []byte, out interface{}) error {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		if out == nil {
			return nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decoding provider response: %w", err)
		}
		return nil
	case resp.StatusCode >= 500:
		return fmt.Errorf("%w: status %d", domain.ErrProviderUnavailable, resp.StatusCode)
	default:
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("%w: status %d: %s", domain.ErrProviderRejected, resp.StatusCode, strings.TrimSpace(string(detail)))
	}
}

func toAssetStatus(status assetStatusResponse) *port.AssetStatus {
	out := &port.AssetStatus{
		Lifecycle:       port.AssetLifecycle(status.Lifecycle),
		DurationSeconds: status.Duration,
		ErrorDetail:     status.ErrorDetail,
	}
	if status.Playback != nil {
		out.PlaybackLocation = status.Playback.PlaybackURL
		out.ThumbnailURL = status.Playback.ThumbnailURL
	}
	return out
}
