package registry

import (
	"log/slog"
	"media-vault/internal/core/port"
)

// registryService is the deduplication engine. Every video row in the
// system is created through it; the combination of the storage-level unique
// constraint on external_asset_id and the re-read on conflict guarantees at
// most one record per external asset.
type registryService struct {
	uow    port.UnitOfWork
	logger *slog.Logger
}

// NewRegistryService creates the deduplication engine
func NewRegistryService(uow port.UnitOfWork, logger *slog.Logger) port.RegistryService {
	return &registryService{uow: uow, logger: logger}
}
