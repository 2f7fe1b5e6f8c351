package sweep

import (
	"context"
	"log/slog"
	"media-vault/internal/config"
	"media-vault/internal/core/port"
	"time"
)

// Service re-polls records stuck in preparing. Webhooks get lost; the sweep
// asks the provider directly and applies the same monotonic transitions the
// reconciler would.
type Service struct {
	uow       port.UnitOfWork
	provider  port.ProcessingProvider
	reconcile port.ReconcileService
	cfg       config.SweepConfig
	logger    *slog.Logger
}

// NewSweepService creates the stuck-record sweeper
func NewSweepService(uow port.UnitOfWork, provider port.ProcessingProvider, reconcile port.ReconcileService, cfg config.SweepConfig, logger *slog.Logger) *Service {
	return &Service{
		uow:       uow,
		provider:  provider,
		reconcile: reconcile,
		cfg:       cfg,
		logger:    logger,
	}
}

// Run executes the sweep on a ticker until ctx is cancelled
func (s *Service) Run(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.Every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("sweep stopped")
			return
		case <-ticker.C:
			if err := s.SweepStuck(ctx); err != nil {
				s.logger.Error("sweep pass failed", "error", err)
			}
		}
	}
}
