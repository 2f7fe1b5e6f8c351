package thumbnail

import (
	"context"
	"media-vault/internal/core/port"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockStrategy is a mock implementation of ThumbnailStrategy
type MockStrategy struct {
	mock.Mock
	name string
}

// NewMockStrategy creates a new MockStrategy
func NewMockStrategy(name string) *MockStrategy {
	return &MockStrategy{name: name}
}

func (m *MockStrategy) Name() string {
	return m.name
}

func (m *MockStrategy) Attempt(ctx context.Context, source port.ThumbnailSource) port.ThumbnailResult {
	args := m.Called(ctx, source)
	return args.Get(0).(port.ThumbnailResult)
}

// MockChain is a mock implementation of ThumbnailChain
type MockChain struct {
	mock.Mock
}

// NewMockChain creates a new MockChain
func NewMockChain() *MockChain {
	return &MockChain{}
}

func (m *MockChain) Produce(ctx context.Context, source port.ThumbnailSource) port.ThumbnailResult {
	args := m.Called(ctx, source)
	return args.Get(0).(port.ThumbnailResult)
}

// MockFrameExtractor is a mock implementation of FrameExtractor
type MockFrameExtractor struct {
	mock.Mock
}

// NewMockFrameExtractor creates a new MockFrameExtractor
func NewMockFrameExtractor() *MockFrameExtractor {
	return &MockFrameExtractor{}
}

func (m *MockFrameExtractor) ExtractFrame(ctx context.Context, sourceURL string, videoID uuid.UUID) (string, error) {
	args := m.Called(ctx, sourceURL, videoID)
	return args.String(0), args.Error(1)
}

// MockSecondaryExtractor is a mock implementation of SecondaryExtractor
type MockSecondaryExtractor struct {
	mock.Mock
}

// NewMockSecondaryExtractor creates a new MockSecondaryExtractor
func NewMockSecondaryExtractor() *MockSecondaryExtractor {
	return &MockSecondaryExtractor{}
}

func (m *MockSecondaryExtractor) ExtractThumbnail(ctx context.Context, sourceURL string, videoID uuid.UUID) (string, error) {
	args := m.Called(ctx, sourceURL, videoID)
	return args.String(0), args.Error(1)
}
