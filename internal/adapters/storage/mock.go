package storage

import (
	"context"
	"io"
	"media-vault/internal/core/port"
	"time"

	"github.com/stretchr/testify/mock"
)

type MockStorage struct {
	mock.Mock
}

func NewMockStorage() *MockStorage {
	return &MockStorage{}
}

func (m *MockStorage) Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) (string, error) {
	args := m.Called(ctx, key, body, size, contentType)
	return args.String(0), args.Error(1)
}

func (m *MockStorage) GetObjectInfo(ctx context.Context, key string) (*port.ObjectInfo, error) {
	args := m.Called(ctx, key)
	return args.Get(0).(*port.ObjectInfo), args.Error(1)
}

func (m *MockStorage) GetHeaderBytes(ctx context.Context, key string, n int64) ([]byte, error) {
	args := m.Called(ctx, key, n)
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockStorage) StreamURL(ctx context.Context, key string) (string, *time.Time, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Get(1).(*time.Time), args.Error(2)
}

func (m *MockStorage) DeleteObject(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}
