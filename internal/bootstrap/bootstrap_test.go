package bootstrap

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andyballingall/cppdev/internal/runner"
	"github.com/andyballingall/cppdev/internal/runner/runnertest"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func assertResetPathsGone(t *testing.T, dir string) {
	t.Helper()
	for _, rel := range ResetPaths {
		_, err := os.Lstat(filepath.Join(dir, rel))
		assert.True(t, os.IsNotExist(err), "%s should not exist", rel)
	}
}

func TestBootstrapper_Reset(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		setup func(t *testing.T, dir string)
	}{
		{
			name:  "first run with nothing to remove",
			setup: func(t *testing.T, _ string) { t.Helper() },
		},
		{
			name: "all paths are directories",
			setup: func(t *testing.T, dir string) {
				t.Helper()
				require.NoError(t, os.MkdirAll(filepath.Join(dir, CacheDir, "clangd", "index"), 0o755))
				require.NoError(t, os.MkdirAll(filepath.Join(dir, StateDir, "cache"), 0o755))
				require.NoError(t, os.MkdirAll(filepath.Join(dir, BuildDir, "linux", "x86_64"), 0o755))
				require.NoError(t, os.WriteFile(filepath.Join(dir, BuildDir, "compile_commands.json"), []byte("[]"), 0o600))
			},
		},
		{
			name: "all paths are files",
			setup: func(t *testing.T, dir string) {
				t.Helper()
				for _, rel := range ResetPaths {
					require.NoError(t, os.WriteFile(filepath.Join(dir, rel), []byte("x"), 0o600))
				}
			},
		},
		{
			name: "mixed",
			setup: func(t *testing.T, dir string) {
				t.Helper()
				require.NoError(t, os.WriteFile(filepath.Join(dir, CacheDir), []byte("x"), 0o600))
				require.NoError(t, os.Mkdir(filepath.Join(dir, BuildDir), 0o755))
			},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			dir := t.TempDir()
			tt.setup(t, dir)
			require.NoError(t, os.WriteFile(filepath.Join(dir, "xmake.lua"), []byte("target('app')"), 0o600))

			b := New(&runnertest.Recorder{}, "xmake", dir, discardLogger())
			require.NoError(t, b.Reset())

			assertResetPathsGone(t, dir)
			assert.FileExists(t, filepath.Join(dir, "xmake.lua"), "project files must survive a reset")
		})
	}

	t.Run("idempotent when nothing exists", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		b := New(&runnertest.Recorder{}, "xmake", dir, discardLogger())

		require.NoError(t, b.Reset())
		require.NoError(t, b.Reset())
		assertResetPathsGone(t, dir)
	})
}

func TestBootstrapper_Commands(t *testing.T) {
	t.Parallel()

	b := New(&runnertest.Recorder{}, "xmake", "/work", discardLogger())

	tests := []struct {
		name string
		opts Options
		want []string
	}{
		{
			name: "with mode",
			opts: Options{Toolchain: "llvm", Mode: "release"},
			want: []string{"f", "-v", "--toolchain=llvm", "-m", "release"},
		},
		{
			name: "without mode",
			opts: Options{Toolchain: "gcc", OmitMode: true},
			want: []string{"f", "-v", "--toolchain=gcc"},
		},
		{
			name: "empty mode is still passed",
			opts: Options{Toolchain: "llvm", Mode: ""},
			want: []string{"f", "-v", "--toolchain=llvm", "-m", ""},
		},
		{
			name: "toolchain passed verbatim",
			opts: Options{Toolchain: "weird-toolchain", Mode: "Debug Mode"},
			want: []string{"f", "-v", "--toolchain=weird-toolchain", "-m", "Debug Mode"},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cmd := b.ConfigureCommand(tt.opts)
			assert.Equal(t, "xmake", cmd.Name)
			assert.Equal(t, tt.want, cmd.Args)
			assert.Equal(t, "/work", cmd.Dir)
			assert.False(t, cmd.CaptureOutput)
		})
	}

	t.Run("export", func(t *testing.T) {
		t.Parallel()
		cmd := b.ExportCommand()
		assert.Equal(t, "xmake", cmd.Name)
		assert.Equal(t, []string{"project", "-k", "compile_commands", "--outputdir=build"}, cmd.Args)
		assert.True(t, cmd.CaptureOutput)
	})
}

func TestBootstrapper_Bootstrap(t *testing.T) {
	t.Parallel()

	t.Run("runs reset, configure and export in order", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		require.NoError(t, os.MkdirAll(filepath.Join(dir, StateDir), 0o755))

		rec := &runnertest.Recorder{RunFunc: func(cmd runner.Command) (runner.Result, error) {
			// Configuration happens after the reset.
			if cmd.Args[0] == "f" {
				_, err := os.Stat(filepath.Join(dir, StateDir))
				assert.True(t, os.IsNotExist(err))
			}
			return runner.Result{}, nil
		}}
		b := New(rec, "xmake", dir, discardLogger())

		require.NoError(t, b.Bootstrap(context.Background(), Options{Toolchain: "llvm", Mode: "debug"}))

		cmds := rec.Commands()
		require.Len(t, cmds, 2)
		assert.Equal(t, []string{"f", "-v", "--toolchain=llvm", "-m", "debug"}, cmds[0].Args)
		assert.Equal(t, "project", cmds[1].Args[0])
	})

	t.Run("non-zero exits do not stop later steps", func(t *testing.T) {
		t.Parallel()
		rec := &runnertest.Recorder{RunFunc: runnertest.Failing(255)}
		b := New(rec, "xmake", t.TempDir(), discardLogger())

		require.NoError(t, b.Bootstrap(context.Background(), Options{Toolchain: "msvc"}))
		assert.Len(t, rec.Commands(), 2)
	})

	t.Run("launch failure is returned", func(t *testing.T) {
		t.Parallel()
		rec := &runnertest.Recorder{RunFunc: func(cmd runner.Command) (runner.Result, error) {
			return runner.Result{ExitCode: -1}, &runner.LaunchError{Command: cmd, Wrapped: exec.ErrNotFound}
		}}
		b := New(rec, "xmake", t.TempDir(), discardLogger())

		err := b.Bootstrap(context.Background(), Options{Toolchain: "llvm"})
		require.Error(t, err)
		assert.True(t, errors.Is(err, exec.ErrNotFound))
		assert.Len(t, rec.Commands(), 1)
	})

	t.Run("reports the exported database", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		rec := &runnertest.Recorder{RunFunc: func(cmd runner.Command) (runner.Result, error) {
			if cmd.Args[0] == "project" {
				require.NoError(t, os.MkdirAll(filepath.Join(dir, BuildDir), 0o755))
				db := `[{"directory":"/p","file":"/p/a.cpp","arguments":["clang++"]},
					{"directory":"/p","file":"/p/b.cppm","arguments":["clang++"]}]`
				require.NoError(t, os.WriteFile(filepath.Join(dir, BuildDir, CompileCommandsFile), []byte(db), 0o600))
			}
			return runner.Result{Output: []byte("create ok!\n")}, nil
		}}

		var logs bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&logs, nil))
		b := New(rec, "xmake", dir, logger)

		require.NoError(t, b.Bootstrap(context.Background(), Options{Toolchain: "llvm"}))
		assert.Contains(t, logs.String(), "compilation database has 2 entries for 2 files")
	})
}
