package backend

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockBackend is a mock implementation of Backend using testify/mock.
type MockBackend struct {
	mock.Mock
}

func (m *MockBackend) Name() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockBackend) ModelName() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockBackend) Dimension() int {
	args := m.Called()
	return args.Int(0)
}

func (m *MockBackend) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	args := m.Called(ctx, texts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([][]float32), args.Error(1)
}

func (m *MockBackend) Close() error {
	args := m.Called()
	return args.Error(0)
}
