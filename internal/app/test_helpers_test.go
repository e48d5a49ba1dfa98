package app

import (
	"context"
	"io"
	"log/slog"

	"github.com/stretchr/testify/mock"

	"github.com/andyballingall/cppdev/internal/bootstrap"
	"github.com/andyballingall/cppdev/internal/config"
)

type MockManager struct {
	mock.Mock
	cfg *config.Config
}

func (m *MockManager) Config() *config.Config {
	if m.cfg == nil {
		return config.Default()
	}
	return m.cfg
}

func (m *MockManager) Format(ctx context.Context, path string, watch bool) error {
	args := m.Called(ctx, path, watch)
	return args.Error(0)
}

func (m *MockManager) Bootstrap(ctx context.Context, opts bootstrap.Options) error {
	args := m.Called(ctx, opts)
	return args.Error(0)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func boolPtr(b bool) *bool { return &b }
