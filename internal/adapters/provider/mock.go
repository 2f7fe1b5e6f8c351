package provider

import (
	"context"
	"media-vault/internal/core/port"
	"time"

	"github.com/stretchr/testify/mock"
)

type MockProvider struct {
	mock.Mock
}

func NewMockProvider() *MockProvider {
	return &MockProvider{}
}

func (m *MockProvider) CreateAsset(ctx context.Context, sourceURL string, opts port.AssetOptions) (*port.Asset, error) {
	args := m.Called(ctx, sourceURL, opts)
	return args.Get(0).(*port.Asset), args.Error(1)
}

func (m *MockProvider) GetStatus(ctx context.Context, handle string) (*port.AssetStatus, error) {
	args := m.Called(ctx, handle)
	return args.Get(0).(*port.AssetStatus), args.Error(1)
}

func (m *MockProvider) AwaitReady(ctx context.Context, handle string, maxWait time.Duration) (*port.AssetStatus, error) {
	args := m.Called(ctx, handle, maxWait)
	return args.Get(0).(*port.AssetStatus), args.Error(1)
}
