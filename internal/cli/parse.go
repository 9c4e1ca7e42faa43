package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yaklabco/gosch/internal/logging"
	"github.com/yaklabco/gosch/pkg/config"
	"github.com/yaklabco/gosch/pkg/fsutil"
	"github.com/yaklabco/gosch/pkg/reporter"
	"github.com/yaklabco/gosch/pkg/runner"
)

type parseFlags struct {
	format     string
	policy     string
	stream     string
	ignore     []string
	suppress   []string
	extensions []string
	strict     bool
	compact    bool
	perFile    bool
	title      string
	output     string
}

func newParseCommand() *cobra.Command {
	var cfg config.Config
	flags := &parseFlags{}

	cmd := &cobra.Command{
		Use:     "parse [paths...]",
		Aliases: []string{"check"},
		Short:   "Parse schematic documents and report the result",
		Long:    parseLongDescription,
		Args:    cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParse(cmd, args, &cfg, flags)
		},
	}

	addParseFlags(cmd, &cfg, flags)

	return cmd
}

const parseLongDescription = `Parse schematic documents and report objects and warnings.

By default, parses all .SchDoc files in the current directory and its
subdirectories. Specify paths to parse specific files or directories.

Examples:
  gosch parse                         # Parse current directory
  gosch parse boards/                 # Parse a directory
  gosch parse main.SchDoc             # Parse a single file
  gosch parse --format tree a.SchDoc  # Print the ownership tree
  gosch parse --format bom a.SchDoc   # Print a bill of materials
  gosch parse --format json           # Output as JSON for tooling
  gosch parse --strict                # Fail on any decoding warning`

func runParse(cmd *cobra.Command, args []string, cliCfg *config.Config, flags *parseFlags) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	// Only set values that were explicitly provided via CLI flags.
	if cmd.Flags().Changed("format") {
		format, err := reporter.ParseFormat(flags.format)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrUsage, err)
		}
		cliCfg.Output.Format = format
	}
	if cmd.Flags().Changed("policy") {
		cliCfg.MissingAttributes = flags.policy
	}
	if cmd.Flags().Changed("stream") {
		cliCfg.Stream = flags.stream
	}
	cliCfg.Ignore = flags.ignore
	cliCfg.SuppressWarnings = flags.suppress
	cliCfg.Extensions = flags.extensions
	cliCfg.Strict = flags.strict
	cliCfg.Output.Compact = flags.compact

	loaded, err := loadConfig(ctx, cmd, cliCfg)
	if err != nil {
		return err
	}
	finalCfg := loaded.Config
	workDir := loaded.WorkingDir
	logger := logging.FromContext(ctx)
	ctx = logging.WithLogger(ctx, logger)

	logger.Debug("configuration loaded",
		logging.FieldFormat, finalCfg.Output.Format,
		logging.FieldPolicy, finalCfg.MissingAttributes,
		logging.FieldStream, finalCfg.Stream,
		logging.FieldJobs, finalCfg.Jobs,
	)

	format, err := reporter.ParseFormat(string(finalCfg.Output.Format))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUsage, err)
	}

	runOpts := runner.OptionsFromConfig(finalCfg, args)
	runOpts.WorkingDir = workDir

	logger.Debug("starting parse run",
		logging.FieldPaths, runOpts.Paths,
		logging.FieldWorkingDir, runOpts.WorkingDir,
		logging.FieldJobs, runOpts.Jobs,
	)

	result, err := runner.New(nil).Run(ctx, runOpts)
	if err != nil {
		return fmt.Errorf("parse run failed: %w", err)
	}

	logger.Debug("parse run finished",
		logging.FieldFilesDiscovered, result.Stats.FilesDiscovered,
		logging.FieldFilesParsed, result.Stats.FilesParsed,
		logging.FieldFilesFailed, result.Stats.FilesFailed,
		logging.FieldWarnings, result.Stats.Warnings,
	)

	// The BOM carries no diagnostics, so they go to the log instead.
	if format == reporter.FormatBOM {
		for _, file := range result.Files {
			logging.Warnings(logger, file.Path, file.Warnings)
		}
	}

	out := cmd.OutOrStdout()
	var report bytes.Buffer
	if flags.output != "" {
		out = &report
	}

	rep, err := reporter.New(reporter.Options{
		Writer:      out,
		ErrorWriter: cmd.ErrOrStderr(),
		Format:      format,
		Color:       finalCfg.Output.Color,
		ShowSummary: true,
		GroupByFile: true,
		Compact:     finalCfg.Output.Compact,
		PerFile:     flags.perFile,
		WorkingDir:  workDir,
		Title:       flags.title,
	})
	if err != nil {
		return fmt.Errorf("create reporter: %w", err)
	}

	if _, err := rep.Report(ctx, result); err != nil {
		logger.Error("report failed", logging.FieldError, err)
		return fmt.Errorf("report results: %w", err)
	}

	if flags.output != "" {
		written, err := fsutil.WriteAtomicIfChanged(ctx, flags.output, report.Bytes(), 0)
		if err != nil {
			return fmt.Errorf("write report: %w", err)
		}
		if written {
			logger.Info("report written", logging.FieldPath, flags.output, logging.FieldFormat, format)
		} else {
			logger.Info("report unchanged", logging.FieldPath, flags.output)
		}
	}

	return errorForExitCode(ExitCodeFromResult(result, finalCfg.Strict))
}

func addParseFlags(cmd *cobra.Command, cfg *config.Config, flags *parseFlags) {
	cmd.Flags().StringVar(&flags.format, "format", string(config.FormatText),
		"output format: "+config.FormatNames())
	cmd.Flags().IntVarP(&cfg.Jobs, "jobs", "j", 0, "number of parallel workers (0 = auto)")
	cmd.Flags().StringVar(&flags.policy, "policy", config.PolicySkip,
		"objects missing required attributes: skip, abort, generic")
	cmd.Flags().StringVar(&flags.stream, "stream", config.DefaultStream,
		"record stream inside each container; '/' separates storages")
	cmd.Flags().StringSliceVar(&flags.ignore, "ignore", nil, "glob patterns to ignore")
	cmd.Flags().StringSliceVar(&flags.suppress, "suppress", nil, "warning codes to drop from results")
	cmd.Flags().StringSliceVar(&flags.extensions, "ext", nil, "file extensions to discover (default .SchDoc)")
	cmd.Flags().BoolVar(&flags.strict, "strict", false, "exit non-zero when any warning is reported")
	cmd.Flags().BoolVar(&flags.compact, "compact", false, "omit attribute detail from json and tree output")
	cmd.Flags().BoolVar(&flags.perFile, "per-file", false, "output separate report for each file (table format)")
	cmd.Flags().StringVar(&flags.title, "title", "", "report title (markdown and html formats)")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "write the report to a file instead of stdout")
}

// workingDir returns the process working directory.
func workingDir() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("get working directory: %w", err)
	}
	return dir, nil
}
