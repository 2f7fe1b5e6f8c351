package thumbnail

import (
	"context"
	"log/slog"
	"media-vault/internal/config"
	"media-vault/internal/core/domain"
	"media-vault/internal/core/port"
)

// chain drives the priority-ordered strategy list. Strategies run
// sequentially, each under its own timeout, and the final strategy (the
// synthetic placeholder) cannot fail, so Produce always returns a result.
type chain struct {
	strategies []port.ThumbnailStrategy
	timeout    config.ThumbnailConfig
	logger     *slog.Logger
}

// NewChain builds the default strategy order: provider-native, secondary
// extraction service, local frame extraction, synthetic placeholder.
func NewChain(cfg config.ThumbnailConfig, secondary port.SecondaryExtractor, extractor port.FrameExtractor, storage port.ObjectStorage, logger *slog.Logger) port.ThumbnailChain {
	strategies := []port.ThumbnailStrategy{
		&providerStrategy{},
	}
	if secondary != nil {
		strategies = append(strategies, &secondaryStrategy{client: secondary})
	}
	if extractor != nil {
		strategies = append(strategies, &localStrategy{extractor: extractor})
	}
	strategies = append(strategies, &placeholderStrategy{storage: storage})

	return &chain{strategies: strategies, timeout: cfg, logger: logger}
}

// NewChainWithStrategies builds a chain from an explicit ordered list
func NewChainWithStrategies(cfg config.ThumbnailConfig, logger *slog.Logger, strategies ...port.ThumbnailStrategy) port.ThumbnailChain {
	return &chain{strategies: strategies, timeout: cfg, logger: logger}
}

func (c *chain) Produce(ctx context.Context, source port.ThumbnailSource) port.ThumbnailResult {
	// Nothing to extract frames from; go straight to the placeholder so no
	// remote calls are wasted.
	if source.SourceLocation == "" || source.SizeBytes == 0 {
		c.logger.Warn("empty source, short-circuiting to placeholder", "video_id", source.VideoID)
		return c.attempt(ctx, c.strategies[len(c.strategies)-1], source)
	}

	var last port.ThumbnailResult
	for _, strategy := range c.strategies {
		last = c.attempt(ctx, strategy, source)
		if last.Success {
			return last
		}
	}
	return last
}

// attempt runs one strategy under the per-strategy timeout and records the
// outcome for observability.
func (c *chain) attempt(ctx context.Context, strategy port.ThumbnailStrategy, source port.ThumbnailSource) port.ThumbnailResult {
	attemptCtx, cancel := context.WithTimeout(ctx, c.timeout.StrategyTimeout)
	defer cancel()

	result := strategy.Attempt(attemptCtx, source)
	if result.Success {
		c.logger.Info("thumbnail strategy succeeded",
			"video_id", source.VideoID,
			"strategy", strategy.Name(),
			"method", result.Method,
		)
	} else {
		c.logger.Warn("thumbnail strategy failed",
			"video_id", source.VideoID,
			"strategy", strategy.Name(),
			"reason", result.Reason,
		)
	}
	return result
}

// failure is a helper for strategies reporting a miss
func failure(method domain.ThumbnailMethod, reason string) port.ThumbnailResult {
	return port.ThumbnailResult{Success: false, Method: method, Reason: reason}
}
