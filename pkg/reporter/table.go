package reporter

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"golang.org/x/term"

	"github.com/yaklabco/gosch/internal/ui/pretty"
	"github.com/yaklabco/gosch/pkg/runner"
)

// defaultTermWidth is used when terminal width cannot be determined.
const defaultTermWidth = 100

// TableReporter formats results as a styled table with color-coded rows.
type TableReporter struct {
	opts      Options
	styles    *pretty.Styles
	formatter *pretty.TableFormatter
	bw        *bufio.Writer
}

// NewTableReporter creates a new table reporter.
func NewTableReporter(opts Options) *TableReporter {
	colorEnabled := pretty.IsColorEnabled(opts.Color, opts.Writer)
	styles := pretty.NewStyles(colorEnabled)

	return &TableReporter{
		opts:      opts,
		styles:    styles,
		formatter: pretty.NewTableFormatter(styles, colorEnabled, getTerminalWidth(opts.Writer)),
		bw:        bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *TableReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	if result == nil || len(result.Files) == 0 {
		if r.opts.ShowSummary {
			fmt.Fprintln(r.bw, r.styles.Success.Render("No files to parse."))
		}
		return 0, nil
	}

	display := r.relativeResult(result)

	if !display.HasWarnings() && !display.HasFailures() {
		if r.opts.ShowSummary {
			fmt.Fprintln(r.bw, r.styles.Success.Render("All files parsed cleanly!"))
			fmt.Fprintln(r.bw, r.styles.Dim.Render(
				fmt.Sprintf("%d files parsed, %d objects", result.Stats.FilesParsed, result.Stats.Objects),
			))
		}
		return 0, nil
	}

	if r.opts.PerFile {
		r.reportPerFile(display)
	} else {
		fmt.Fprint(r.bw, r.formatter.FormatTable(display))
		if r.opts.ShowSummary {
			fmt.Fprintln(r.bw, r.formatter.FormatTableSummary(display.Stats, ""))
		}
	}

	return display.Stats.Warnings, nil
}

// reportPerFile outputs a separate table for each file with warnings or a failure.
func (r *TableReporter) reportPerFile(result *runner.Result) {
	for _, file := range result.Files {
		table := r.formatter.FormatFileTable(file)
		if table == "" {
			continue
		}
		fmt.Fprintln(r.bw)
		fmt.Fprintln(r.bw, r.styles.Bold.Render(file.Path))
		fmt.Fprint(r.bw, table)
	}

	if r.opts.ShowSummary {
		fmt.Fprintln(r.bw)
		fmt.Fprintln(r.bw, r.styles.TableSeparator.Render(strings.Repeat("═", defaultTermWidth-20)))
		fmt.Fprintln(r.bw, r.styles.Bold.Render("Overall Summary"))
		fmt.Fprintln(r.bw, r.formatter.FormatTableSummary(result.Stats, ""))
	}
}

// relativeResult copies result with display paths.
func (r *TableReporter) relativeResult(result *runner.Result) *runner.Result {
	display := *result
	display.Files = make([]runner.FileOutcome, len(result.Files))
	for i, file := range result.Files {
		file.Path = r.opts.displayPath(file.Path)
		display.Files[i] = file
	}
	return &display
}

// getTerminalWidth attempts to get the terminal width from the writer.
func getTerminalWidth(writer io.Writer) int {
	if f, ok := writer.(interface{ Fd() uintptr }); ok {
		width, _, err := term.GetSize(int(f.Fd())) //nolint:gosec // File descriptors fit in int.
		if err == nil && width > 0 {
			return width
		}
	}
	return defaultTermWidth
}
