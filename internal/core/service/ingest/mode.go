package ingest

import (
	"media-vault/internal/config"
	"media-vault/internal/core/domain"
	"time"
)

// ModeDecision is the output of the processing mode selector
type ModeDecision struct {
	Mode      domain.ProcessingMode
	Estimated time.Duration
}

// formatMultipliers scales the duration estimate by container. Formats
// known to transcode quickly sit below 1.0, known-slow ones above.
var formatMultipliers = map[string]float64{
	"video/mp4":        0.8,
	"video/webm":       0.9,
	"video/quicktime":  1.2,
	"video/x-matroska": 1.3,
	"video/x-msvideo":  1.4,
	"video/ogg":        1.1,
	"video/3gpp":       1.2,
}

// fastContainer is the common container that qualifies for the larger sync
// size window.
const fastContainer = "video/mp4"

// SelectMode decides whether an upload is processed synchronously or
// asynchronously. Pure: no I/O, no clock, deterministic for identical
// inputs.
func SelectMode(cfg config.ProcessingConfig, sizeBytes int64, mimeType string) ModeDecision {
	estimate := cfg.BaseEstimate

	if sizeBytes > cfg.SizeThresholdBytes {
		excessMB := (sizeBytes - cfg.SizeThresholdBytes) / (1 << 20)
		estimate += time.Duration(excessMB) * cfg.PerMBOverThreshold
	}

	multiplier, ok := formatMultipliers[mimeType]
	if !ok {
		multiplier = 1.0
	}
	estimate = time.Duration(float64(estimate) * multiplier)

	if estimate > cfg.MaxEstimate {
		estimate = cfg.MaxEstimate
	}

	sizeQualifies := sizeBytes < cfg.SmallFileBytes ||
		(mimeType == fastContainer && sizeBytes < cfg.FastFormatMaxBytes)

	if sizeQualifies && estimate < cfg.SyncBudget {
		return ModeDecision{Mode: domain.ProcessingModeSync, Estimated: estimate}
	}
	return ModeDecision{Mode: domain.ProcessingModeAsync, Estimated: estimate}
}
