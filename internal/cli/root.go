// Package cli provides the Cobra command structure for gosch.
package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/yaklabco/gosch/internal/logging"
	"github.com/yaklabco/gosch/pkg/config"
)

// BuildInfo holds build-time version information.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// NewRootCommand creates the root gosch command with all subcommands.
func NewRootCommand(info BuildInfo) *cobra.Command {
	var debug bool
	var logLevel string
	var configPath string
	var color string

	rootCmd := &cobra.Command{
		Use:   "gosch",
		Short: "Decode Altium SchDoc schematic documents",
		Long: `gosch decodes Altium Designer schematic documents (.SchDoc).

It opens the compound-file container, splits the record stream, parses each
record's |KEY=VALUE| attributes into typed schematic objects and links them
into an ownership tree. Results can be printed as text, tables, JSON, an
object tree, a bill of materials, or Markdown and HTML reports.

Malformed input never crashes the decoder: structural damage fails the file
with a located error, and recoverable oddities are reported as warnings.`,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			switch {
			case debug:
				logging.SetLevel("debug")
			case cmd.Flags().Changed("log-level"):
				logging.SetLevel(logLevel)
			}
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags.
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config file")
	rootCmd.PersistentFlags().StringVar(&color, "color", string(config.ColorAuto),
		"colorize output: auto, always, never")

	// Add subcommands.
	rootCmd.AddCommand(newParseCommand())
	rootCmd.AddCommand(newStreamsCommand())
	rootCmd.AddCommand(newRecordsCommand())
	rootCmd.AddCommand(newKindsCommand())
	rootCmd.AddCommand(newCodesCommand())
	rootCmd.AddCommand(newConfigCommand())
	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newVersionCommand(info))

	// Apply styled help formatting.
	helpFormatter := NewHelpFormatter(config.ColorMode(color), os.Stdout)
	helpFormatter.ApplyToCommand(rootCmd)

	return rootCmd
}
