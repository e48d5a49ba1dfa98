// Package formatter runs clang-format over C++ source trees.
package formatter

import (
	"context"
	"errors"
	"fmt"
	"io"
	iofs "io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/andyballingall/cppdev/internal/fs"
	"github.com/andyballingall/cppdev/internal/runner"
)

// Extensions lists the file extensions that are formatted. Matching is exact
// and case-sensitive.
var Extensions = []string{".hpp", ".cpp", ".cppm"}

// Matches reports whether a file name carries one of the formatted extensions.
// Only the last extension counts, and the leading dot of a dotfile such as
// ".cpp" is part of its name, not an extension.
func Matches(name string) bool {
	i := strings.LastIndexByte(name, '.')
	if i <= 0 || i == len(name)-1 {
		return false
	}
	return slices.Contains(Extensions, name[i:])
}

// Options configures the external formatter.
type Options struct {
	Command   string
	StyleFile string
}

// Stats counts what a Format run did.
type Stats struct {
	Directories int
	Files       int
	Formatted   int
	Failed      int
}

// Formatter walks a tree and formats every matching file in place.
type Formatter struct {
	runner   runner.Runner
	resolver fs.PathResolver
	opts     Options
	stdout   io.Writer
	stderr   io.Writer
	logger   *slog.Logger
}

// New creates a Formatter. Progress lines go to stdout and the completion line to stderr.
func New(r runner.Runner, opts Options, stdout, stderr io.Writer, logger *slog.Logger) *Formatter {
	return &Formatter{
		runner:   r,
		resolver: fs.NewPathResolver(),
		opts:     opts,
		stdout:   stdout,
		stderr:   stderr,
		logger:   logger.With("component", "formatter"),
	}
}

// Command builds the formatter invocation for a single file.
func (f *Formatter) Command(path string) runner.Command {
	return runner.NewCommand(f.opts.Command, "-style=file:"+f.opts.StyleFile, "-i", path)
}

// Format formats every matching file reachable from root. Directories are
// visited with an explicit stack and each directory is entered once, even when
// symlinks make it reachable more than once. The formatter's exit status never
// stops the walk; filesystem errors and launch failures do.
func (f *Formatter) Format(ctx context.Context, root string) (Stats, error) {
	var stats Stats

	// Symlinks in the root are resolved so progress lines name the real files.
	abs, err := f.resolver.CanonicalPath(root)
	if err != nil {
		return stats, err
	}

	visited := make(map[string]struct{})
	stack := []string{abs}

	for len(stack) > 0 {
		if err = ctx.Err(); err != nil {
			return stats, err
		}

		path := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		info, sErr := os.Stat(path)
		if sErr != nil {
			if path != abs && errors.Is(sErr, iofs.ErrNotExist) {
				f.logger.Debug("skipping dangling link", "path", path)
				continue
			}
			return stats, sErr
		}

		switch {
		case info.IsDir():
			canonical, cErr := f.resolver.CanonicalPath(path)
			if cErr != nil {
				return stats, cErr
			}
			if _, seen := visited[canonical]; seen {
				f.logger.Debug("skipping directory already visited", "path", path, "target", canonical)
				continue
			}
			visited[canonical] = struct{}{}
			stats.Directories++

			entries, rErr := os.ReadDir(path)
			if rErr != nil {
				return stats, rErr
			}
			// Push in reverse so entries pop in listing order.
			for i := len(entries) - 1; i >= 0; i-- {
				stack = append(stack, filepath.Join(path, entries[i].Name()))
			}

		case info.Mode().IsRegular():
			stats.Files++
			if !Matches(filepath.Base(path)) {
				continue
			}
			res, fErr := f.FormatFile(ctx, path)
			if fErr != nil {
				return stats, fErr
			}
			stats.Formatted++
			if !res.Success() {
				stats.Failed++
			}
		}
	}

	fmt.Fprintln(f.stderr, "format done")
	f.logger.Debug("format finished", "root", abs, "directories", stats.Directories,
		"files", stats.Files, "formatted", stats.Formatted, "failed", stats.Failed)

	return stats, nil
}

// FormatFile announces path on stdout and runs the formatter on it.
func (f *Formatter) FormatFile(ctx context.Context, path string) (runner.Result, error) {
	fmt.Fprintf(f.stdout, "formatting %s\n", path)
	return f.runner.Run(ctx, f.Command(path))
}
