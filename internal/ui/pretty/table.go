package pretty

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/yaklabco/gosch/pkg/diag"
	"github.com/yaklabco/gosch/pkg/runner"
)

// Table formatting constants.
const (
	tablePadding        = 2
	tableColumnCount    = 4 // FILE, LOCATION, MESSAGE, CODE
	perFileColumnCount  = 3 // LOCATION, MESSAGE, CODE
	minFileWidth        = 20
	minLocWidth         = 10
	minMessageWidth     = 35
	minCodeWidth        = 8
	heavySeparator      = "="
	lightSeparator      = "-"
	defaultTermWidth    = 100
	failureCode         = "parse-error"
	failureLocationText = "-"
)

// TableRow represents a single row in the warning table.
type TableRow struct {
	File     string
	Location string
	Message  string
	Code     string

	// Failed marks a file that could not be parsed.
	Failed bool
}

// WarningToTableRow converts a decoding warning to a table row.
func WarningToTableRow(path string, w diag.Warning) TableRow {
	return TableRow{
		File:     path,
		Location: Location(w),
		Message:  w.Message,
		Code:     string(w.Code),
	}
}

// OutcomeRows returns the rows for one file: its failure, or its warnings.
func OutcomeRows(file runner.FileOutcome) []TableRow {
	if file.Error != nil {
		return []TableRow{{
			File:     file.Path,
			Location: failureLocationText,
			Message:  file.Error.Error(),
			Code:     failureCode,
			Failed:   true,
		}}
	}
	rows := make([]TableRow, 0, len(file.Warnings))
	for _, w := range file.Warnings {
		rows = append(rows, WarningToTableRow(file.Path, w))
	}
	return rows
}

// TableFormatter formats warnings and failures as a styled table.
type TableFormatter struct {
	styles       *Styles
	colorEnabled bool
	termWidth    int
}

// NewTableFormatter creates a new table formatter.
func NewTableFormatter(styles *Styles, colorEnabled bool, termWidth int) *TableFormatter {
	if termWidth <= 0 {
		termWidth = defaultTermWidth
	}
	return &TableFormatter{
		styles:       styles,
		colorEnabled: colorEnabled,
		termWidth:    termWidth,
	}
}

type columnWidths struct {
	file    int
	loc     int
	message int
	code    int
}

func (w columnWidths) total(withFile bool) int {
	if !withFile {
		return w.loc + w.message + w.code + tablePadding*perFileColumnCount
	}
	return w.file + w.loc + w.message + w.code + tablePadding*tableColumnCount
}

// FormatTable formats runner results as a styled table grouped by file.
func (t *TableFormatter) FormatTable(result *runner.Result) string {
	if result == nil {
		return ""
	}

	var groups [][]TableRow
	for _, file := range result.Files {
		if rows := OutcomeRows(file); len(rows) > 0 {
			groups = append(groups, rows)
		}
	}
	if len(groups) == 0 {
		return ""
	}

	widths := t.columnWidths(groups, true)

	var builder strings.Builder
	builder.WriteString(t.formatHeader(widths, true) + "\n")
	builder.WriteString(t.formatSeparator(widths, true, heavySeparator) + "\n")
	for i, group := range groups {
		if i > 0 {
			builder.WriteString(t.formatSeparator(widths, true, lightSeparator) + "\n")
		}
		for _, row := range group {
			builder.WriteString(t.formatRow(row, widths, true) + "\n")
		}
	}
	builder.WriteString(t.formatSeparator(widths, true, heavySeparator) + "\n")
	builder.WriteString(t.formatLegend() + "\n")

	return builder.String()
}

// FormatFileTable formats one file's rows as a standalone table without a FILE column.
func (t *TableFormatter) FormatFileTable(file runner.FileOutcome) string {
	rows := OutcomeRows(file)
	if len(rows) == 0 {
		return ""
	}

	widths := t.columnWidths([][]TableRow{rows}, false)

	var builder strings.Builder
	builder.WriteString(t.formatHeader(widths, false) + "\n")
	builder.WriteString(t.formatSeparator(widths, false, heavySeparator) + "\n")
	for _, row := range rows {
		builder.WriteString(t.formatRow(row, widths, false) + "\n")
	}
	builder.WriteString(t.formatSeparator(widths, false, heavySeparator) + "\n")
	builder.WriteString(t.formatFileSummary(rows) + "\n")

	return builder.String()
}

// columnWidths sizes columns to their content, then shrinks the message and
// file columns to fit the terminal.
func (t *TableFormatter) columnWidths(groups [][]TableRow, withFile bool) columnWidths {
	widths := columnWidths{
		loc:     minLocWidth,
		message: minMessageWidth,
		code:    minCodeWidth,
	}
	if withFile {
		widths.file = minFileWidth
	}

	for _, group := range groups {
		for _, row := range group {
			if withFile {
				widths.file = max(widths.file, len(row.File))
			}
			widths.loc = max(widths.loc, len(row.Location))
			widths.message = max(widths.message, len(row.Message))
			widths.code = max(widths.code, len(row.Code))
		}
	}

	if excess := widths.total(withFile) - t.termWidth; excess > 0 {
		widths.message = max(minMessageWidth, widths.message-excess)
	}
	if excess := widths.total(withFile) - t.termWidth; excess > 0 && withFile {
		widths.file = max(minFileWidth, widths.file-excess)
	}

	return widths
}

func (t *TableFormatter) formatHeader(widths columnWidths, withFile bool) string {
	header := fmt.Sprintf(" %-*s  %-*s  %-*s ",
		widths.loc, "LOCATION",
		widths.message, "MESSAGE",
		widths.code, "CODE",
	)
	if withFile {
		header = fmt.Sprintf(" %-*s ", widths.file, "FILE") + header
	}
	return t.styles.TableHeader.Render(header)
}

func (t *TableFormatter) formatSeparator(widths columnWidths, withFile bool, char string) string {
	return t.styles.TableSeparator.Render(strings.Repeat(char, widths.total(withFile)))
}

func (t *TableFormatter) formatRow(row TableRow, widths columnWidths, withFile bool) string {
	content := fmt.Sprintf(" %-*s  %-*s  %-*s ",
		widths.loc, truncateString(row.Location, widths.loc),
		widths.message, truncateString(row.Message, widths.message),
		widths.code, truncateString(row.Code, widths.code),
	)
	if withFile {
		content = fmt.Sprintf(" %-*s ", widths.file, truncateFilePath(row.File, widths.file)) + content
	}
	return t.rowStyle(row).Render(content)
}

func (t *TableFormatter) rowStyle(row TableRow) lipgloss.Style {
	if row.Failed {
		return t.styles.TableErrorRow
	}
	return t.styles.TableWarnRow
}

func (t *TableFormatter) formatFileSummary(rows []TableRow) string {
	if len(rows) == 1 && rows[0].Failed {
		return " " + t.styles.Error.Render("parse failed")
	}
	return " " + t.styles.Warning.Render(fmt.Sprintf("%d %s", len(rows), plural(len(rows), "warning", "warnings")))
}

// formatLegend explains the row colors.
func (t *TableFormatter) formatLegend() string {
	if !t.colorEnabled {
		return t.styles.TableLegend.Render(fmt.Sprintf(" Legend: CODE %s = file failed to parse", failureCode))
	}

	return t.styles.TableLegend.Render(
		fmt.Sprintf(" Legend: %s = parse failure  %s = warning",
			t.styles.TableErrorRow.Render(" error "),
			t.styles.TableWarnRow.Render(" warning ")),
	)
}

// FormatTableSummary formats a summary line for table output.
func (t *TableFormatter) FormatTableSummary(stats runner.Stats, duration string) string {
	parts := []string{fmt.Sprintf("%d files parsed", stats.FilesParsed)}

	if stats.FilesFailed > 0 {
		parts = append(parts, t.styles.Error.Render(fmt.Sprintf("%d failed", stats.FilesFailed)))
	}
	if stats.Warnings > 0 {
		parts = append(parts, t.styles.Warning.Render(fmt.Sprintf("%d warnings", stats.Warnings)))
	}
	parts = append(parts, fmt.Sprintf("%d objects", stats.Objects))

	if duration != "" {
		parts = append(parts, t.styles.Dim.Render(duration))
	}

	return " " + strings.Join(parts, " | ")
}

// truncateString truncates a string to maxLen, adding "..." if truncated.
func truncateString(str string, maxLen int) string {
	if len(str) <= maxLen {
		return str
	}
	if maxLen <= 3 {
		return str[:maxLen]
	}
	return str[:maxLen-3] + "..."
}

// truncateFilePath truncates a file path, preserving the end (filename) rather than beginning.
func truncateFilePath(path string, maxLen int) string {
	if len(path) <= maxLen {
		return path
	}
	if maxLen <= 3 {
		return path[len(path)-maxLen:]
	}
	return "..." + path[len(path)-maxLen+3:]
}
