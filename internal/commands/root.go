// Package commands implements the portfel CLI.
package commands

import (
	"github.com/spf13/cobra"

	"github.com/portfel-dev/portfel/internal/common"
)

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	var configPath string

	rootCmd := &cobra.Command{
		Use:     "portfel",
		Short:   "Normalize broker statement exports into a PLN-denominated portfolio",
		Version: common.GetFullVersion(),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to portfel.toml")

	rootCmd.AddCommand(newParseCommand(&configPath))
	rootCmd.AddCommand(newRateCommand(&configPath))

	return rootCmd
}
