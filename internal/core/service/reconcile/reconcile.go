package reconcile

import (
	"log/slog"
	"media-vault/internal/core/port"
)

// reconcileService applies provider lifecycle events to video records.
// Stateless per invocation; all coordination happens through the record
// store, so it is safe under at-least-once, out-of-order and duplicate
// delivery.
type reconcileService struct {
	registry port.RegistryService
	uow      port.UnitOfWork
	logger   *slog.Logger
}

// NewReconcileService creates the webhook reconciliation handler
func NewReconcileService(registry port.RegistryService, uow port.UnitOfWork, logger *slog.Logger) port.ReconcileService {
	return &reconcileService{
		registry: registry,
		uow:      uow,
		logger:   logger,
	}
}
