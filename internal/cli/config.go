package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yaklabco/gosch/internal/configloader"
	"github.com/yaklabco/gosch/internal/logging"
	"github.com/yaklabco/gosch/pkg/config"
)

// loadedConfig is the resolved configuration of one command invocation.
type loadedConfig struct {
	Config     *config.Config
	WorkingDir string
	Result     *configloader.LoadResult
}

// loadConfig resolves configuration for cmd, folding in the global --config,
// --color and --log-level flags. cliCfg may be nil.
func loadConfig(ctx context.Context, cmd *cobra.Command, cliCfg *config.Config) (*loadedConfig, error) {
	if cliCfg == nil {
		cliCfg = &config.Config{}
	}

	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, fmt.Errorf("get config flag: %w", err)
	}
	if cmd.Flags().Changed("color") {
		color, _ := cmd.Flags().GetString("color") //nolint:errcheck // Registered on the root command.
		cliCfg.Output.Color = config.ColorMode(color)
	}
	if cmd.Flags().Changed("log-level") {
		level, _ := cmd.Flags().GetString("log-level") //nolint:errcheck // Registered on the root command.
		cliCfg.LogLevel = level
	}

	workDir, err := workingDir()
	if err != nil {
		return nil, err
	}

	loadResult, err := configloader.Load(ctx, configloader.LoadOptions{
		WorkingDir:   workDir,
		ExplicitPath: configPath,
		CLIConfig:    cliCfg,
	})
	if err != nil {
		return nil, errors.Join(ErrConfig, err)
	}

	logger := logging.Default()
	if debug, _ := cmd.Flags().GetBool("debug"); !debug { //nolint:errcheck // Registered on the root command.
		logging.SetLevel(loadResult.Config.LogLevel)
	}

	for _, warning := range loadResult.Warnings {
		logger.Warn(warning)
	}
	if len(loadResult.LoadedFrom) > 0 {
		logger.Debug("loaded configuration from", logging.FieldFiles, loadResult.LoadedFrom)
	}

	return &loadedConfig{Config: loadResult.Config, WorkingDir: workDir, Result: loadResult}, nil
}

type configFlags struct {
	format string
}

func newConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect the resolved configuration",
		Long: `Inspect how gosch resolves its configuration.

Settings are merged from defaults, the system and user config directories,
the nearest project file (.gosch.yml, .gosch.yaml or .gosch.toml), an
explicit --config file, GOSCH_* environment variables and command-line flags,
in that order of increasing precedence.`,
	}

	cmd.AddCommand(newConfigShowCommand())
	cmd.AddCommand(newConfigPathsCommand())
	cmd.AddCommand(newConfigValidateCommand())
	cmd.AddCommand(newConfigEnvCommand())

	return cmd
}

func newConfigShowCommand() *cobra.Command {
	flags := &configFlags{}

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			loaded, err := loadConfig(cmd.Context(), cmd, nil)
			if err != nil {
				return err
			}

			var out []byte
			switch flags.format {
			case config.TemplateTOML:
				out, err = loaded.Config.ToTOML()
			case config.TemplateYAML:
				out, err = loaded.Config.ToYAML()
			default:
				return fmt.Errorf("%w: invalid format %q: must be yaml or toml", ErrUsage, flags.format)
			}
			if err != nil {
				return fmt.Errorf("encode configuration: %w", err)
			}

			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}

	cmd.Flags().StringVar(&flags.format, "format", config.TemplateYAML, "output format: yaml or toml")

	return cmd
}

func newConfigPathsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "paths",
		Short: "List discovered configuration files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			loaded, err := loadConfig(cmd.Context(), cmd, nil)
			if err != nil {
				return err
			}

			paths := loaded.Result.Paths
			out := cmd.OutOrStdout()
			for _, layer := range []struct{ name, path string }{
				{"system", paths.System},
				{"user", paths.User},
				{"project", paths.Project},
				{"explicit", paths.Explicit},
			} {
				path := layer.path
				if path == "" {
					path = "-"
				}
				fmt.Fprintf(out, "%-9s %s\n", layer.name, path)
			}
			return nil
		},
	}
}

func newConfigValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file>",
		Short: "Validate a configuration file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("read config: %w", err)
			}

			var (
				cfg     *config.Config
				unknown []string
			)
			if configloader.IsTOMLConfig(path) {
				cfg, unknown, err = config.DecodeTOML(data)
			} else {
				cfg, err = config.FromYAML(data)
			}
			if err != nil {
				return errors.Join(ErrConfig, fmt.Errorf("parse %s: %w", path, err))
			}

			result := configloader.ValidateWithFile(cfg, path)
			out := cmd.OutOrStdout()
			for _, key := range unknown {
				fmt.Fprintf(out, "warning: %s: unknown key %q\n", path, key)
			}
			for _, msg := range result.AllMessages() {
				fmt.Fprintln(out, msg)
			}
			if !result.Valid() {
				return fmt.Errorf("%w: %s has %d error(s)", ErrConfig, path, len(result.Errors))
			}

			fmt.Fprintf(out, "%s is valid\n", path)
			return nil
		},
	}
}

func newConfigEnvCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "env",
		Short: "List supported environment variables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			for _, v := range configloader.ListEnvVars() {
				fmt.Fprintf(out, "%-26s %s\n", v.Name, v.Description)
			}
			return nil
		},
	}
}
