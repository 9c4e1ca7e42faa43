package reporter

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/yaklabco/gosch/pkg/analysis"
)

// MarkdownRenderer renders a report as GitHub-flavored Markdown tables.
type MarkdownRenderer struct {
	opts Options
	out  io.Writer
}

// NewMarkdownRenderer creates a new Markdown renderer.
func NewMarkdownRenderer(opts Options) *MarkdownRenderer {
	return &MarkdownRenderer{opts: opts, out: opts.Writer}
}

// Render implements Renderer.
func (r *MarkdownRenderer) Render(_ context.Context, report *analysis.Report) error {
	_, err := io.WriteString(r.out, BuildMarkdown(report, r.opts.Title))
	if err != nil {
		return fmt.Errorf("write markdown: %w", err)
	}
	return nil
}

// BuildMarkdown returns the Markdown document for a report.
func BuildMarkdown(report *analysis.Report, title string) string {
	var b strings.Builder
	totals := report.Totals

	fmt.Fprintf(&b, "# %s\n\n", escapeCell(title))

	writeTable(&b, []string{"Metric", "Value"}, [][]string{
		{"Files parsed", strconv.Itoa(totals.FilesParsed)},
		{"Files failed", strconv.Itoa(totals.FilesFailed)},
		{"Records", strconv.Itoa(totals.Records)},
		{"Objects", strconv.Itoa(totals.Objects)},
		{"Unknown objects", strconv.Itoa(totals.UnknownObjects)},
		{"Warnings", strconv.Itoa(totals.Warnings)},
	})

	if len(report.ByFile) > 0 {
		rows := make([][]string, 0, len(report.ByFile))
		for _, f := range report.ByFile {
			rows = append(rows, []string{
				code(f.Path), f.Stream,
				strconv.Itoa(f.Records), strconv.Itoa(f.Objects), strconv.Itoa(f.Warnings),
			})
		}
		b.WriteString("## Files\n\n")
		writeTable(&b, []string{"File", "Stream", "Records", "Objects", "Warnings"}, rows)
	}

	if len(report.Failures) > 0 {
		rows := make([][]string, 0, len(report.Failures))
		for _, f := range report.Failures {
			rows = append(rows, []string{code(f.FilePath), f.Error})
		}
		b.WriteString("## Failures\n\n")
		writeTable(&b, []string{"File", "Error"}, rows)
	}

	if len(report.ByKind) > 0 {
		rows := make([][]string, 0, len(report.ByKind))
		for _, k := range report.ByKind {
			rows = append(rows, []string{k.Kind, strconv.Itoa(k.Count)})
		}
		b.WriteString("## Objects\n\n")
		writeTable(&b, []string{"Kind", "Count"}, rows)
	}

	if len(report.ByCode) > 0 {
		rows := make([][]string, 0, len(report.ByCode))
		for _, c := range report.ByCode {
			rows = append(rows, []string{code(c.Code), strconv.Itoa(c.Count), c.Description})
		}
		b.WriteString("## Warnings by code\n\n")
		writeTable(&b, []string{"Code", "Count", "Description"}, rows)
	}

	if len(report.Warnings) > 0 {
		rows := make([][]string, 0, len(report.Warnings))
		for _, w := range report.Warnings {
			rows = append(rows, []string{code(w.FilePath), entryLocation(w), code(w.Code), w.Message})
		}
		b.WriteString("## Warnings\n\n")
		writeTable(&b, []string{"File", "Location", "Code", "Message"}, rows)
	}

	return b.String()
}

func entryLocation(w analysis.WarningEntry) string {
	var parts []string
	if w.Record != nil {
		parts = append(parts, fmt.Sprintf("record %d", *w.Record))
	}
	if w.Offset != nil {
		parts = append(parts, fmt.Sprintf("@0x%x", *w.Offset))
	}
	if len(parts) == 0 {
		return "-"
	}
	return strings.Join(parts, " ")
}

func writeTable(b *strings.Builder, header []string, rows [][]string) {
	writeRow(b, header)
	sep := make([]string, len(header))
	for i := range sep {
		sep[i] = "---"
	}
	writeRow(b, sep)
	for _, row := range rows {
		cells := make([]string, len(row))
		for i, cell := range row {
			cells[i] = escapeCell(cell)
		}
		writeRow(b, cells)
	}
	b.WriteString("\n")
}

func writeRow(b *strings.Builder, cells []string) {
	b.WriteString("| " + strings.Join(cells, " | ") + " |\n")
}

func code(s string) string {
	return "`" + strings.ReplaceAll(s, "`", "'") + "`"
}

// escapeCell keeps a value on one table line and escapes column separators.
func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "\r", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.ReplaceAll(s, "|", `\|`)
}
