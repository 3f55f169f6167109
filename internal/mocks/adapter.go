package mocks

import (
	"context"

	"github.com/brettbedarf/editorfs"
	"github.com/stretchr/testify/mock"
)

// MockContentSource implements editorfs.ContentSource for testing across packages
type MockContentSource struct {
	mock.Mock
}

func (m *MockContentSource) Fetch(ctx context.Context) (string, error) {
	args := m.Called(ctx)

	// Handle function return types (for complex tests)
	if fn, ok := args.Get(0).(func(context.Context) string); ok {
		return fn(ctx), args.Error(1)
	}
	return args.String(0), args.Error(1)
}

var _ editorfs.ContentSource = (*MockContentSource)(nil)

// MockSourceProvider implements editorfs.SourceProvider for testing across packages
type MockSourceProvider struct {
	mock.Mock
}

func (m *MockSourceProvider) Source(raw []byte) (editorfs.ContentSource, error) {
	args := m.Called(raw)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(editorfs.ContentSource), args.Error(1)
}

var _ editorfs.SourceProvider = (*MockSourceProvider)(nil)
