package app

import (
	"context"
	"errors"
	"log/slog"

	"github.com/andyballingall/cppdev/internal/bootstrap"
	"github.com/andyballingall/cppdev/internal/config"
	"github.com/andyballingall/cppdev/internal/formatter"
)

// Manager defines the operations behind the cppdev commands.
type Manager interface {
	Config() *config.Config
	Format(ctx context.Context, path string, watch bool) error
	Bootstrap(ctx context.Context, opts bootstrap.Options) error
}

// Ensure the interface is satisfied.
var _ Manager = (*LazyManager)(nil)

// LazyManager acts as a placeholder for a real Manager implementation, allowing
// for deferred initialization of dependencies.
type LazyManager struct {
	inner Manager
}

func (l *LazyManager) SetInner(m Manager) {
	l.inner = m
}

// HasInner returns true if the inner manager has been set.
// This is used by PersistentPreRunE to skip initialization if already configured (e.g., in tests).
func (l *LazyManager) HasInner() bool {
	return l.inner != nil
}

func (l *LazyManager) check() Manager {
	if l.inner == nil {
		panic("LazyManager accessed before initialization; check command wiring.")
	}
	return l.inner
}

func (l *LazyManager) Config() *config.Config {
	return l.check().Config()
}

func (l *LazyManager) Format(ctx context.Context, path string, watch bool) error {
	return l.check().Format(ctx, path, watch)
}

func (l *LazyManager) Bootstrap(ctx context.Context, opts bootstrap.Options) error {
	return l.check().Bootstrap(ctx, opts)
}

// Ensure the interface is satisfied.
var _ Manager = (*CLIManager)(nil)

// CLIManager is the concrete implementation of the Manager interface.
type CLIManager struct {
	logger       *slog.Logger
	cfg          *config.Config
	formatter    *formatter.Formatter
	bootstrapper *bootstrap.Bootstrapper
}

func NewCLIManager(
	l *slog.Logger,
	cfg *config.Config,
	f *formatter.Formatter,
	b *bootstrap.Bootstrapper,
) *CLIManager {
	return &CLIManager{
		logger:       l,
		cfg:          cfg,
		formatter:    f,
		bootstrapper: b,
	}
}

func (m *CLIManager) Config() *config.Config {
	return m.cfg
}

// Format formats the tree at path. With watch set it keeps running after the
// first pass and formats files as they change, until ctx is cancelled.
func (m *CLIManager) Format(ctx context.Context, path string, watch bool) error {
	m.logger.Debug("formatting", "path", path, "formatter", m.cfg.Formatter.Command, "style", m.cfg.Formatter.StyleFile)
	if _, err := m.formatter.Format(ctx, path); err != nil {
		return err
	}
	if !watch {
		return nil
	}

	w := formatter.NewWatcher(m.formatter, m.logger)
	if err := w.Watch(ctx, path); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func (m *CLIManager) Bootstrap(ctx context.Context, opts bootstrap.Options) error {
	m.logger.Debug("bootstrapping", "tool", m.cfg.Build.Command, "toolchain", opts.Toolchain, "mode", opts.Mode)
	return m.bootstrapper.Bootstrap(ctx, opts)
}
