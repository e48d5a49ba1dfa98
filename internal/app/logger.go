package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/andyballingall/cppdev/internal/fs"
)

// LogEnvVar names a file that receives a JSON debug log of every run.
const LogEnvVar = "CPPDEV_LOG_FILE"

// setupLogger configures a logger that writes clean, human-readable logs to
// the console and, when LogEnvVar is set, structured logs to that file.
func setupLogger(stderr io.Writer, logLevel *slog.LevelVar, env fs.EnvProvider) (*slog.Logger, io.Closer, error) {
	consoleHandler := &consoleHandler{
		w:     stderr,
		level: logLevel,
	}

	logPath := env.Get(LogEnvVar)
	if logPath == "" {
		return slog.New(consoleHandler), nil, nil
	}

	f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return slog.New(consoleHandler), nil, err
	}

	fileHandler := slog.NewJSONHandler(f, &slog.HandlerOptions{
		Level: slog.LevelDebug, // File always gets full debug info
	})

	multi := &multiHandler{
		handlers: []slog.Handler{fileHandler, consoleHandler},
	}

	return slog.New(multi), f, nil
}

type multiHandler struct {
	handlers []slog.Handler
}

func (m *multiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range m.handlers {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

//nolint:gocritic // slog.Record is passed by value in the interface
func (m *multiHandler) Handle(ctx context.Context, record slog.Record) error {
	for _, h := range m.handlers {
		if h.Enabled(ctx, record.Level) {
			if err := h.Handle(ctx, record); err != nil {
				return err
			}
		}
	}
	return nil
}

func (m *multiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	newHandlers := make([]slog.Handler, len(m.handlers))
	for i, h := range m.handlers {
		newHandlers[i] = h.WithAttrs(attrs)
	}
	return &multiHandler{handlers: newHandlers}
}

func (m *multiHandler) WithGroup(name string) slog.Handler {
	newHandlers := make([]slog.Handler, len(m.handlers))
	for i, h := range m.handlers {
		newHandlers[i] = h.WithGroup(name)
	}
	return &multiHandler{handlers: newHandlers}
}

// consoleHandler renders records as plain lines for a terminal. Attributes
// from the components are shortened: the component becomes a debug prefix,
// commands are shown as a shell line and exit statuses read as prose.
type consoleHandler struct {
	w     io.Writer
	level *slog.LevelVar
	attrs []slog.Attr
}

func (c *consoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= c.level.Level()
}

func (c *consoleHandler) debug() bool {
	return c.level.Level() <= slog.LevelDebug
}

//nolint:gocritic // slog.Record is passed by value in the interface
func (c *consoleHandler) Handle(_ context.Context, record slog.Record) error {
	var b strings.Builder

	switch {
	case record.Level >= slog.LevelError:
		b.WriteString("Error: ")
	case record.Level >= slog.LevelWarn:
		b.WriteString("Warning: ")
	}

	attrs := append([]slog.Attr(nil), c.attrs...)
	record.Attrs(func(a slog.Attr) bool {
		attrs = append(attrs, a)
		return true
	})

	if c.debug() {
		for _, a := range attrs {
			if a.Key == "component" {
				fmt.Fprintf(&b, "[%v] ", a.Value)
			}
		}
	}
	b.WriteString(record.Message)

	for _, a := range attrs {
		c.formatAttr(&b, a)
	}

	b.WriteByte('\n')
	_, err := io.WriteString(c.w, b.String())
	return err
}

// formatAttr prints errors, paths and exit statuses at every level; other
// attributes only show up in debug mode.
func (c *consoleHandler) formatAttr(b *strings.Builder, a slog.Attr) {
	switch {
	case a.Key == "error" || a.Key == "err":
		fmt.Fprintf(b, ": %v", a.Value)
	case a.Key == "status":
		fmt.Fprintf(b, " (exit status %v)", a.Value)
	case a.Key == "component":
		// rendered as a prefix
	case !c.debug() && a.Key != "path":
		// hidden outside debug mode
	case a.Key == "cmd":
		fmt.Fprintf(b, ": $ %v", a.Value)
	default:
		fmt.Fprintf(b, " %s=%v", a.Key, a.Value)
	}
}

func (c *consoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &consoleHandler{
		w:     c.w,
		level: c.level,
		attrs: append(append([]slog.Attr(nil), c.attrs...), attrs...),
	}
}

// WithGroup is a no-op: console output is flat.
func (c *consoleHandler) WithGroup(_ string) slog.Handler {
	return c
}
