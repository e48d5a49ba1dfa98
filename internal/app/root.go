package app

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/andyballingall/cppdev/internal/bootstrap"
	"github.com/andyballingall/cppdev/internal/config"
	"github.com/andyballingall/cppdev/internal/formatter"
	"github.com/andyballingall/cppdev/internal/fs"
	"github.com/andyballingall/cppdev/internal/runner"
	"github.com/andyballingall/cppdev/internal/validator"
)

// Version is the current version of cppdev, set at build time.
var Version = "dev"

var LongDescription = `
cppdev keeps a C++ modules project tidy: it formats sources with clang-format
and resets and re-configures the xmake build with a chosen toolchain.

Settings are read from .cppdev.yml in the current directory when present
(see cppdev create-config).
`

// NewRootCmd creates the root command and wires up dependencies.
func NewRootCmd(lazy *LazyManager, ll *slog.LevelVar, stdout, stderr io.Writer, envProvider fs.EnvProvider) *cobra.Command {
	var debug bool
	var configPath pathValue

	rootCmd := &cobra.Command{
		Use:           "cppdev",
		Short:         "Formatting and build bootstrapping for C++ projects",
		Version:       Version,
		SilenceErrors: true,
		SilenceUsage:  true,
		Long:          LongDescription,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if debug {
				ll.Set(slog.LevelDebug)
			}

			// Skip initialization for help, completion and create-config commands
			if cmd.Name() == "help" || isCompletionCommand(cmd) || cmd.Name() == CreateConfigCmdName {
				return nil
			}
			// Skip if already initialised (e.g., in tests)
			if lazy.HasInner() {
				return nil
			}

			// 1. Setup Logging
			logger, _, err := setupLogger(stderr, ll, envProvider)
			if err != nil {
				logger.Warn("logging to file disabled", "error", err)
			}

			// 2. Load configuration
			workDir, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("unable to determine working directory: %w", err)
			}
			explicit := configPath.String()
			if explicit == "" {
				explicit = envProvider.Get(config.ConfigEnvVar)
			}
			cfg, err := config.Load(workDir, explicit, validator.NewSanthoshCompiler())
			if err != nil {
				return err
			}
			if cfg.Path != "" {
				logger.Debug("loaded configuration", "path", cfg.Path)
			}

			// 3. Build Dependencies
			r := runner.NewExecRunner(stdout, stderr, logger)
			f := formatter.New(r, formatter.Options{
				Command:   cfg.Formatter.Command,
				StyleFile: cfg.Formatter.StyleFile,
			}, stdout, stderr, logger)
			b := bootstrap.New(r, cfg.Build.Command, "", logger)

			// 4. Hydrate the Lazy Wrapper
			lazy.SetInner(NewCLIManager(logger, cfg, f, b))

			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "Enable debug logging")
	rootCmd.PersistentFlags().Var(&configPath, "config",
		"path to configuration file (default "+config.ConfigFile+", or $"+config.ConfigEnvVar+")")

	rootCmd.AddCommand(NewFmtCmd(lazy))
	rootCmd.AddCommand(NewInitCmd(lazy))
	rootCmd.AddCommand(NewCreateConfigCmd())

	return rootCmd
}

// isCompletionCommand returns true if the command or any of its parents is the "completion" command.
func isCompletionCommand(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Name() == "completion" {
			return true
		}
	}
	return false
}
