package reporter

import (
	"bufio"
	"context"
	"fmt"

	"github.com/yaklabco/gosch/internal/ui/pretty"
	"github.com/yaklabco/gosch/pkg/runner"
)

// TextReporter formats results as styled terminal output.
type TextReporter struct {
	opts   Options
	styles *pretty.Styles
	bw     *bufio.Writer
}

// NewTextReporter creates a new text reporter.
func NewTextReporter(opts Options) *TextReporter {
	colorEnabled := pretty.IsColorEnabled(opts.Color, opts.Writer)
	return &TextReporter{
		opts:   opts,
		styles: pretty.NewStyles(colorEnabled),
		bw:     bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *TextReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
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

	var total int
	for _, file := range result.Files {
		path := r.opts.displayPath(file.Path)

		if file.Error != nil {
			fmt.Fprint(r.bw, r.styles.FormatFailure(path, file.Error))
			continue
		}
		if len(file.Warnings) == 0 {
			continue
		}

		if r.opts.GroupByFile {
			fmt.Fprintln(r.bw, r.styles.FormatFileHeader(path, len(file.Warnings)))
		}
		for _, w := range file.Warnings {
			fmt.Fprint(r.bw, r.styles.FormatWarning(path, w))
			total++
		}
		if r.opts.GroupByFile {
			fmt.Fprintln(r.bw)
		}
	}

	if r.opts.ShowSummary {
		fmt.Fprint(r.bw, r.styles.FormatSummaryOneLine(result.Stats))
	}

	return total, nil
}
