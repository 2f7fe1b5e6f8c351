package reconcile

import (
	"context"
	"media-vault/internal/core/domain"

	"github.com/stretchr/testify/mock"
)

// MockReconcileService is a mock implementation of ReconcileService
type MockReconcileService struct {
	mock.Mock
}

// NewMockReconcileService creates a new MockReconcileService
func NewMockReconcileService() *MockReconcileService {
	return &MockReconcileService{}
}

func (m *MockReconcileService) HandleEvent(ctx context.Context, event domain.ProviderEvent) (bool, error) {
	args := m.Called(ctx, event)
	return args.Bool(0), args.Error(1)
}
