package app

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/andyballingall/cppdev/internal/config"
)

const CreateConfigCmdName = "create-config"

// NewCreateConfigCmd returns a command that writes a default .cppdev.yml.
func NewCreateConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   CreateConfigCmdName + " [dirpath]",
		Short: "Write a default " + config.ConfigFile,
		Long:  `Write a commented ` + config.ConfigFile + ` with the default settings into [dirpath] (default: current directory).`,
		Args:  cobra.MaximumNArgs(1),
		Example: `
cppdev create-config
cppdev create-config ./engine
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			dirpath := "."
			if len(args) == 1 {
				dirpath = args[0]
			}

			if err := os.MkdirAll(dirpath, 0o750); err != nil {
				return fmt.Errorf("failed to create directory: %w", err)
			}

			configPath := filepath.Join(dirpath, config.ConfigFile)
			if _, err := os.Stat(configPath); err == nil {
				return fmt.Errorf("configuration already exists: %s", configPath)
			}

			if err := os.WriteFile(configPath, []byte(config.DefaultConfigContent), 0o600); err != nil {
				return fmt.Errorf("failed to write configuration file: %w", err)
			}

			cmd.Printf("Created %s\n", configPath)
			return nil
		},
	}

	return cmd
}
