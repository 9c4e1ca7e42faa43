package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/yaklabco/gosch/internal/logging"
	"github.com/yaklabco/gosch/pkg/config"
	"github.com/yaklabco/gosch/pkg/fsutil"
)

// initFlags holds the flags for the init command.
type initFlags struct {
	force  bool
	full   bool
	format string
	output string
}

func newInitCommand() *cobra.Command {
	flags := &initFlags{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a new gosch configuration file",
		Long: `Create a new .gosch.yml configuration file in the current directory
with sensible defaults. The file can be customized to change the record
stream, the missing-attribute policy, ignored paths and output settings.

Examples:
  gosch init                     Create minimal .gosch.yml
  gosch init --full              Write every setting and document warning codes
  gosch init --format toml       Create .gosch.toml instead
  gosch init --output ci.yml     Write to a custom file path`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInit(cmd, flags)
		},
	}

	cmd.Flags().BoolVarP(&flags.force, "force", "f", false, "Overwrite an existing file, keeping a .bak copy")
	cmd.Flags().BoolVar(&flags.full, "full", false, "Generate a full template with every setting documented")
	cmd.Flags().StringVar(&flags.format, "format", config.TemplateYAML, "Output format: yaml or toml")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "Output file path (default: .gosch.yml or .gosch.toml)")

	return cmd
}

func runInit(cmd *cobra.Command, flags *initFlags) error {
	logger := logging.NewWithWriter(cmd.ErrOrStderr(), "info")
	logger.SetPrefix("gosch")

	if flags.format != config.TemplateYAML && flags.format != config.TemplateTOML {
		return fmt.Errorf("%w: invalid format %q: must be yaml or toml", ErrUsage, flags.format)
	}

	outputPath := flags.output
	if outputPath == "" {
		outputPath = ".gosch.yml"
		if flags.format == config.TemplateTOML {
			outputPath = ".gosch.toml"
		}
	}

	absPath, err := filepath.Abs(outputPath)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	if _, err := os.Stat(absPath); err == nil {
		if !flags.force {
			return fmt.Errorf("%w: file %q already exists; use --force to overwrite", ErrUsage, outputPath)
		}
		if _, err := fsutil.CreateBackup(cmd.Context(), absPath); err != nil {
			return fmt.Errorf("back up existing file: %w", err)
		}
		logger.Warn("overwriting existing file",
			logging.FieldPath, outputPath,
			"backup", fsutil.BackupPath(outputPath),
		)
	}

	content, err := config.GenerateTemplate(config.TemplateOptions{
		Full:   flags.full,
		Format: flags.format,
	})
	if err != nil {
		return fmt.Errorf("generate template: %w", err)
	}

	if err := fsutil.WriteAtomic(cmd.Context(), absPath, content, fsutil.DefaultFileMode); err != nil {
		return fmt.Errorf("write file: %w", err)
	}

	logger.Info("created configuration file", logging.FieldPath, outputPath)
	if flags.full {
		logger.Info("full template lists every setting and warning code")
	}
	logger.Info("run 'gosch config show' to see the effective configuration")

	return nil
}
