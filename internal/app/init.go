package app

import (
	"github.com/spf13/cobra"

	"github.com/andyballingall/cppdev/internal/bootstrap"
)

const InitCmdName = "init"

// NewInitCmd creates the init command.
func NewInitCmd(m Manager) *cobra.Command {
	cmd := &cobra.Command{
		Use:   InitCmdName + " <toolchain> [mode]",
		Short: "Reset build state and configure the project with xmake",
		Long: `
Delete .cache, .xmake and build in the current directory, then run:

  xmake f -v --toolchain=<toolchain> -m <mode>
  xmake project -k compile_commands --outputdir=build

<toolchain> and [mode] are passed to xmake unchanged. [mode] defaults to
build.defaultMode ("debug"). When build.modeFlag is false in .cppdev.yml,
no mode is passed and giving one is an error.

xmake failures are shown by xmake itself and do not stop the later steps.`,
		Example: `
cppdev init llvm
cppdev init llvm release
cppdev init gcc
`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := bootstrapOptions(m, args)
			if err != nil {
				return err
			}
			return m.Bootstrap(cmd.Context(), opts)
		},
	}

	return cmd
}

// bootstrapOptions maps the positional arguments onto bootstrap.Options.
func bootstrapOptions(m Manager, args []string) (bootstrap.Options, error) {
	opts := bootstrap.Options{Toolchain: args[0]}
	build := m.Config().Build

	if !build.SupportsMode() {
		if len(args) > 1 {
			return opts, &ModeNotSupportedError{Mode: args[1]}
		}
		opts.OmitMode = true
		return opts, nil
	}

	opts.Mode = build.DefaultMode
	if len(args) > 1 {
		opts.Mode = args[1]
	}
	return opts, nil
}
