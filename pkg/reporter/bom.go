package reporter

import (
	"bufio"
	"context"
	"fmt"

	"github.com/yaklabco/gosch/pkg/bom"
	"github.com/yaklabco/gosch/pkg/runner"
)

// BOMReporter writes a bill of materials per parsed document.
// With more than one document each block is preceded by a "# path" line.
// Failures go to the error writer so the BOM stays machine-readable.
type BOMReporter struct {
	opts Options
	bw   *bufio.Writer
}

// NewBOMReporter creates a new BOM reporter.
func NewBOMReporter(opts Options) *BOMReporter {
	return &BOMReporter{
		opts: opts,
		bw:   bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter. The returned count is the number of BOM lines.
func (r *BOMReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	if result == nil {
		return 0, nil
	}

	var parsed int
	for _, file := range result.Files {
		if file.Document != nil {
			parsed++
		}
	}

	var total, written int
	for _, file := range result.Files {
		path := r.opts.displayPath(file.Path)

		if file.Error != nil {
			if r.opts.ErrorWriter != nil {
				fmt.Fprintf(r.opts.ErrorWriter, "%s: %v\n", path, file.Error)
			}
			continue
		}
		if file.Document == nil {
			continue
		}

		if parsed > 1 {
			if written > 0 {
				fmt.Fprintln(r.bw)
			}
			fmt.Fprintf(r.bw, "# %s\n", path)
		}
		written++

		lines := bom.Derive(file.Document)
		if err := bom.WriteText(r.bw, lines); err != nil {
			return total, err
		}
		total += len(lines)
	}

	return total, nil
}
