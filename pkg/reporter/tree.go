package reporter

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"github.com/yaklabco/gosch/internal/ui/pretty"
	"github.com/yaklabco/gosch/pkg/runner"
	"github.com/yaklabco/gosch/pkg/schdoc"
	"github.com/yaklabco/gosch/pkg/schematic"
)

// labelKeys are tried in order to find a short label for an object.
//
//nolint:gochecknoglobals // Read-only lookup table.
var labelKeys = []string{"text", "name", "designitemid", "libreference", "filename"}

// TreeReporter prints each document's ownership forest.
type TreeReporter struct {
	opts   Options
	styles *pretty.Styles
	bw     *bufio.Writer
}

// NewTreeReporter creates a new tree reporter.
func NewTreeReporter(opts Options) *TreeReporter {
	return &TreeReporter{
		opts:   opts,
		styles: pretty.NewStyles(pretty.IsColorEnabled(opts.Color, opts.Writer)),
		bw:     bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *TreeReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	if result == nil {
		return 0, nil
	}

	var total int
	for i, file := range result.Files {
		if i > 0 {
			fmt.Fprintln(r.bw)
		}
		path := r.opts.displayPath(file.Path)

		if file.Error != nil {
			fmt.Fprint(r.bw, r.styles.FormatFailure(path, file.Error))
			continue
		}
		if file.Document == nil {
			continue
		}

		fmt.Fprintln(r.bw, r.styles.FormatFileHeader(path, len(file.Warnings)))
		if err := r.writeTree(file.Document); err != nil {
			return total, err
		}
		total += len(file.Warnings)
	}

	return total, nil
}

func (r *TreeReporter) writeTree(doc *schdoc.Document) error {
	return doc.Walk(func(o *schematic.Object, depth int) error {
		line := r.styles.TreeBranch.Render(strings.Repeat("│ ", depth)+"├─ ") +
			r.styles.Kind.Render(o.Kind.String()) +
			r.styles.Dim.Render(fmt.Sprintf(" #%d", o.RecordIndex))
		if o.Unknown {
			line += r.styles.Dim.Render(fmt.Sprintf(" (type %d)", o.TypeID))
		}
		label := ObjectLabel(o)
		if o.Kind == schematic.KindDesignator {
			label = doc.FullDesignator(o)
		}
		if label != "" && !r.opts.Compact {
			line += " " + r.styles.Attribute.Render(label)
		}
		_, err := fmt.Fprintln(r.bw, line)
		return err
	})
}

// ObjectLabel returns a short human label for an object, such as a
// designator's text or a component's design item id.
func ObjectLabel(o *schematic.Object) string {
	for _, key := range labelKeys {
		if v := o.Attributes.Get(key); v != "" {
			return v
		}
	}
	return ""
}
