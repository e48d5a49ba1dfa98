package app

import (
	"github.com/spf13/cobra"
)

const FmtCmdName = "fmt"

// NewFmtCmd creates the fmt command.
func NewFmtCmd(m Manager) *cobra.Command {
	var watch bool

	cmd := &cobra.Command{
		Use:   FmtCmdName + " <path>",
		Short: "Format C++ sources with clang-format",
		Long: `
Format every .hpp, .cpp and .cppm file under <path> in place with clang-format.

<path> may be a directory, which is searched recursively, or a single file.
clang-format is run as:

  clang-format -style=file:.clang-format -i <file>

so the style file is looked up in the current directory. A file that
clang-format fails on does not stop the run.

With --watch (-w), cppdev keeps running after the first pass and formats
matching files whenever they are created or saved. Stop it with Ctrl+C.`,
		Example: `
cppdev fmt src
cppdev fmt include/vector.hpp
cppdev fmt -w .
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return m.Format(cmd.Context(), args[0], watch)
		},
	}

	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Keep formatting files as they change")

	return cmd
}
