package reporter

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/yaklabco/gosch/internal/ui/pretty"
	"github.com/yaklabco/gosch/pkg/analysis"
)

// Table layout constants for summary output.
const (
	tableWidth        = 90
	nameColWidth      = 30
	fileColWidth      = 48
	numColWidth       = 9
	maxNameLength     = 28
	maxFilePathLength = 46
)

// padRight pads a string to the given width with spaces on the right.
// This must be called BEFORE applying ANSI styles.
func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

// padLeft pads a string to the given width with spaces on the left.
// This must be called BEFORE applying ANSI styles.
func padLeft(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return strings.Repeat(" ", width-len(s)) + s
}

// SummaryRenderer formats results as aggregated summary tables.
type SummaryRenderer struct {
	opts   Options
	styles *pretty.Styles
	out    io.Writer
}

// NewSummaryRenderer creates a new summary renderer.
func NewSummaryRenderer(opts Options) *SummaryRenderer {
	colorEnabled := pretty.IsColorEnabled(opts.Color, opts.Writer)
	return &SummaryRenderer{
		opts:   opts,
		styles: pretty.NewStyles(colorEnabled),
		out:    opts.Writer,
	}
}

// Render implements Renderer.
func (r *SummaryRenderer) Render(_ context.Context, report *analysis.Report) error {
	if report.Totals.Files == 0 {
		fmt.Fprintln(r.out, r.styles.Success.Render("No files to parse."))
		return nil
	}

	r.renderFileTable(report.ByFile, report.Failures)
	if len(report.ByKind) > 0 {
		fmt.Fprintln(r.out)
		r.renderKindTable(report.ByKind)
	}
	if len(report.ByCode) > 0 {
		fmt.Fprintln(r.out)
		r.renderCodeTable(report.ByCode)
	}

	fmt.Fprintln(r.out)
	r.renderTotals(report.Totals)

	return nil
}

func (r *SummaryRenderer) separator() {
	fmt.Fprintln(r.out, r.styles.TableSeparator.Render(strings.Repeat("─", tableWidth)))
}

func (r *SummaryRenderer) renderFileTable(files []analysis.FileAnalysis, failures []analysis.FailureEntry) {
	if len(files) == 0 && len(failures) == 0 {
		return
	}

	fmt.Fprintln(r.out, r.styles.Bold.Render("Files Summary"))
	r.separator()
	fmt.Fprintf(r.out, "%s %s %s %s\n",
		r.styles.TableHeader.Render(padRight("File", fileColWidth)),
		r.styles.TableHeader.Render(padLeft("Records", numColWidth)),
		r.styles.TableHeader.Render(padLeft("Objects", numColWidth)),
		r.styles.TableHeader.Render(padLeft("Warnings", numColWidth)),
	)
	r.separator()

	for _, file := range files {
		padded := padRight(shortenPath(file.Path), fileColWidth)
		if file.Warnings > 0 {
			padded = r.styles.TableWarnRow.Render(padded)
		}
		fmt.Fprintf(r.out, "%s %s %s %s\n",
			padded,
			padLeft(strconv.Itoa(file.Records), numColWidth),
			padLeft(strconv.Itoa(file.Objects), numColWidth),
			padLeft(strconv.Itoa(file.Warnings), numColWidth),
		)
	}
	for _, failure := range failures {
		fmt.Fprintf(r.out, "%s %s\n",
			r.styles.TableErrorRow.Render(padRight(shortenPath(failure.FilePath), fileColWidth)),
			r.styles.Error.Render(failure.Error),
		)
	}
}

func (r *SummaryRenderer) renderKindTable(kinds []analysis.KindAnalysis) {
	fmt.Fprintln(r.out, r.styles.Bold.Render("Objects Summary"))
	r.separator()
	fmt.Fprintf(r.out, "%s %s\n",
		r.styles.TableHeader.Render(padRight("Kind", nameColWidth)),
		r.styles.TableHeader.Render(padLeft("Count", numColWidth)),
	)
	r.separator()
	for _, kind := range kinds {
		fmt.Fprintf(r.out, "%s %s\n",
			r.styles.Kind.Render(padRight(shortenName(kind.Kind), nameColWidth)),
			padLeft(strconv.Itoa(kind.Count), numColWidth),
		)
	}
}

func (r *SummaryRenderer) renderCodeTable(codes []analysis.CodeAnalysis) {
	fmt.Fprintln(r.out, r.styles.Bold.Render("Warnings Summary"))
	r.separator()
	fmt.Fprintf(r.out, "%s %s %s  %s\n",
		r.styles.TableHeader.Render(padRight("Code", nameColWidth)),
		r.styles.TableHeader.Render(padLeft("Count", numColWidth)),
		r.styles.TableHeader.Render(padLeft("Files", numColWidth)),
		r.styles.TableHeader.Render("Description"),
	)
	r.separator()
	for _, code := range codes {
		fmt.Fprintf(r.out, "%s %s %s  %s\n",
			r.styles.TableWarnRow.Render(padRight(shortenName(code.Code), nameColWidth)),
			padLeft(strconv.Itoa(code.Count), numColWidth),
			padLeft(strconv.Itoa(len(code.Files)), numColWidth),
			r.styles.Dim.Render(code.Description),
		)
	}
}

func (r *SummaryRenderer) renderTotals(totals analysis.Totals) {
	parts := []string{
		fmt.Sprintf("%d %s", totals.Warnings, pluralize(totals.Warnings, "warning", "warnings")),
		fmt.Sprintf("in %d %s", totals.FilesWithWarnings, pluralize(totals.FilesWithWarnings, "file", "files")),
	}
	if totals.Warnings > 0 {
		parts[0] = r.styles.Warning.Render(parts[0])
	}

	details := fmt.Sprintf("(%d parsed, %d objects", totals.FilesParsed, totals.Objects)
	if totals.UnknownObjects > 0 {
		details += fmt.Sprintf(", %d unknown", totals.UnknownObjects)
	}
	details += ")"
	parts = append(parts, r.styles.Dim.Render(details))

	if totals.FilesFailed > 0 {
		parts = append(parts, r.styles.Error.Render(fmt.Sprintf("%d failed", totals.FilesFailed)))
	}

	fmt.Fprintln(r.out, r.styles.Bold.Render("Total: ")+strings.Join(parts, " "))
}

func shortenName(name string) string {
	if len(name) > maxNameLength {
		return name[:maxNameLength] + "…"
	}
	return name
}

func shortenPath(path string) string {
	if len(path) > maxFilePathLength {
		return "…" + path[len(path)-(maxFilePathLength-1):]
	}
	return path
}

func pluralize(n int, singular, plural string) string {
	if n == 1 {
		return singular
	}
	return plural
}
