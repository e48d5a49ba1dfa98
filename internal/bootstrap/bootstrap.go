// Package bootstrap resets an xmake project and configures it again.
package bootstrap

import (
	"context"
	"log/slog"
	"path/filepath"

	"github.com/andyballingall/cppdev/internal/fs"
	"github.com/andyballingall/cppdev/internal/runner"
)

const (
	// CacheDir holds editor and tool caches (clangd and friends).
	CacheDir = ".cache"
	// StateDir is xmake's internal state directory.
	StateDir = ".xmake"
	// BuildDir receives build output and the exported compilation database.
	BuildDir = "build"
)

// ResetPaths are removed, in order, before every configuration.
var ResetPaths = []string{CacheDir, StateDir, BuildDir}

// Options selects what the build is configured for. Toolchain and Mode are
// passed to the build tool verbatim, an empty Mode included.
type Options struct {
	Toolchain string
	Mode      string
	// OmitMode leaves out the mode argument for build tools without mode selection.
	OmitMode bool
}

// Bootstrapper clears cached build state and re-runs build configuration.
type Bootstrapper struct {
	runner  runner.Runner
	command string
	workDir string
	logger  *slog.Logger
}

// New creates a Bootstrapper for the given build tool. Paths are relative to
// workDir; an empty workDir means the current directory.
func New(r runner.Runner, buildCommand, workDir string, logger *slog.Logger) *Bootstrapper {
	return &Bootstrapper{
		runner:  r,
		command: buildCommand,
		workDir: workDir,
		logger:  logger.With("component", "bootstrap"),
	}
}

func (b *Bootstrapper) path(rel string) string {
	if b.workDir == "" {
		return rel
	}
	return filepath.Join(b.workDir, rel)
}

// Reset removes every path in ResetPaths. Missing paths are skipped.
func (b *Bootstrapper) Reset() error {
	for _, rel := range ResetPaths {
		removed, err := fs.RemovePath(b.path(rel))
		if err != nil {
			return err
		}
		if removed {
			b.logger.Debug("removed", "path", rel)
		}
	}
	return nil
}

// ConfigureCommand builds: <tool> f -v --toolchain=<toolchain> [-m <mode>].
func (b *Bootstrapper) ConfigureCommand(opts Options) runner.Command {
	cmd := runner.NewCommand(b.command, "f", "-v", "--toolchain="+opts.Toolchain)
	if !opts.OmitMode {
		cmd = cmd.WithArgs("-m", opts.Mode)
	}
	return cmd.InDir(b.workDir)
}

// ExportCommand builds: <tool> project -k compile_commands --outputdir=build.
// Its stdout is captured.
func (b *Bootstrapper) ExportCommand() runner.Command {
	return runner.NewCommand(b.command, "project", "-k", "compile_commands", "--outputdir="+BuildDir).
		InDir(b.workDir).
		Captured()
}

// Configure runs the build configuration step.
func (b *Bootstrapper) Configure(ctx context.Context, opts Options) (runner.Result, error) {
	return b.runner.Run(ctx, b.ConfigureCommand(opts))
}

// Export writes the compilation database into BuildDir.
func (b *Bootstrapper) Export(ctx context.Context) (runner.Result, error) {
	return b.runner.Run(ctx, b.ExportCommand())
}

// Bootstrap runs Reset, Configure and Export in that order. Exit statuses of
// the build tool are logged and otherwise ignored, so every step runs even
// when an earlier one failed. Only removal and launch errors stop it.
func (b *Bootstrapper) Bootstrap(ctx context.Context, opts Options) error {
	if err := b.Reset(); err != nil {
		return err
	}

	res, err := b.Configure(ctx, opts)
	if err != nil {
		return err
	}
	if !res.Success() {
		b.logger.Debug("configure exited with non-zero status", "status", res.ExitCode)
	}

	res, err = b.Export(ctx)
	if err != nil {
		return err
	}
	if !res.Success() {
		b.logger.Debug("export exited with non-zero status", "status", res.ExitCode)
	}

	b.reportDatabase()
	return nil
}

func (b *Bootstrapper) reportDatabase() {
	path := b.path(filepath.Join(BuildDir, CompileCommandsFile))
	summary, err := Summarize(path)
	if err != nil {
		if IsMissing(err) {
			b.logger.Debug("no compilation database written", "path", path)
			return
		}
		b.logger.Warn("could not read compilation database", "error", err)
		return
	}
	b.logger.Info(summary.String(), "path", path)
}
