package app

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestFmtCmd(t *testing.T) {
	t.Parallel()

	setup := func(t *testing.T) (*MockManager, *cobra.Command) {
		t.Helper()
		mgr := &MockManager{}
		cmd := NewFmtCmd(mgr)
		cmd.SetOut(io.Discard)
		cmd.SetErr(io.Discard)
		return mgr, cmd
	}

	t.Run("formats the given path", func(t *testing.T) {
		t.Parallel()
		mgr, cmd := setup(t)
		mgr.On("Format", mock.Anything, "src", false).Return(nil).Once()

		cmd.SetArgs([]string{"src"})
		require.NoError(t, cmd.ExecuteContext(context.Background()))
		mgr.AssertExpectations(t)
	})

	t.Run("watch flag", func(t *testing.T) {
		t.Parallel()
		mgr, cmd := setup(t)
		mgr.On("Format", mock.Anything, ".", true).Return(nil).Once()

		cmd.SetArgs([]string{"-w", "."})
		require.NoError(t, cmd.ExecuteContext(context.Background()))
		mgr.AssertExpectations(t)
	})

	t.Run("missing path is a usage error", func(t *testing.T) {
		t.Parallel()
		mgr, cmd := setup(t)
		cmd.SetArgs([]string{})
		require.Error(t, cmd.ExecuteContext(context.Background()))
		mgr.AssertNotCalled(t, "Format", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("too many args errors", func(t *testing.T) {
		t.Parallel()
		_, cmd := setup(t)
		cmd.SetArgs([]string{"src", "include"})
		require.Error(t, cmd.ExecuteContext(context.Background()))
	})

	t.Run("manager error propagates", func(t *testing.T) {
		t.Parallel()
		mgr, cmd := setup(t)
		mgr.On("Format", mock.Anything, "missing", false).Return(errors.New("stat missing: no such file or directory")).Once()

		cmd.SetArgs([]string{"missing"})
		err := cmd.ExecuteContext(context.Background())
		require.Error(t, err)
		assert.Equal(t, "stat missing: no such file or directory", err.Error())
		mgr.AssertExpectations(t)
	})
}
