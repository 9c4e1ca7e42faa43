package pretty

import (
	"cmp"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/yaklabco/gosch/pkg/diag"
	"github.com/yaklabco/gosch/pkg/runner"
)

const summaryDividerWidth = 40

// FormatSummaryOneLine formats run statistics as a single line.
// Example: "3 warnings in 1 file, 1 failed (4 files parsed, 120 objects)".
func (s *Styles) FormatSummaryOneLine(stats runner.Stats) string {
	totals := s.Dim.Render(fmt.Sprintf(" (%d %s parsed, %d objects)",
		stats.FilesParsed, plural(stats.FilesParsed, "file", "files"), stats.Objects))

	if stats.Warnings == 0 && stats.FilesFailed == 0 {
		return s.Success.Render("No warnings") + totals + "\n"
	}

	var parts []string
	if stats.Warnings > 0 {
		parts = append(parts, s.Warning.Render(fmt.Sprintf("%d %s", stats.Warnings, plural(stats.Warnings, "warning", "warnings")))+
			fmt.Sprintf(" in %d %s", stats.FilesWithWarnings, plural(stats.FilesWithWarnings, "file", "files")))
	}
	if stats.FilesFailed > 0 {
		parts = append(parts, s.Error.Render(fmt.Sprintf("%d failed", stats.FilesFailed)))
	}

	return strings.Join(parts, ", ") + totals + "\n"
}

// FormatSummary formats run statistics as a summary block.
func (s *Styles) FormatSummary(stats runner.Stats) string {
	var builder strings.Builder

	builder.WriteString("\n")
	builder.WriteString(s.SummaryTitle.Render("Summary"))
	builder.WriteString("\n")
	builder.WriteString(strings.Repeat("-", summaryDividerWidth))
	builder.WriteString("\n")

	line := func(label string, value string) {
		builder.WriteString(fmt.Sprintf("  %-19s%s\n", label+":", value))
	}

	line("Files parsed", s.SummaryValue.Render(strconv.Itoa(stats.FilesParsed)))
	if stats.FilesFailed > 0 {
		line("Files failed", s.Failure.Render(strconv.Itoa(stats.FilesFailed)))
	}
	if stats.FilesWithWarnings > 0 {
		line("Files with warnings", s.Warning.Render(strconv.Itoa(stats.FilesWithWarnings)))
	}
	line("Records", s.SummaryValue.Render(strconv.Itoa(stats.Records)))
	line("Objects", s.SummaryValue.Render(strconv.Itoa(stats.Objects)))

	if len(stats.ObjectsByKind) > 0 {
		builder.WriteString("\n")
		for _, kv := range sortedCounts(stats.ObjectsByKind) {
			builder.WriteString(fmt.Sprintf("    %-30s%s\n", kv.key, s.SummaryValue.Render(strconv.Itoa(kv.count))))
		}
	}

	builder.WriteString("\n")
	line("Warnings", s.SummaryValue.Render(strconv.Itoa(stats.Warnings)))
	byCode := make(map[string]int, len(stats.WarningsByCode))
	for code, n := range stats.WarningsByCode {
		byCode[string(code)] = n
	}
	for _, kv := range sortedCounts(byCode) {
		builder.WriteString(fmt.Sprintf("    %-30s%s  %s\n", kv.key,
			s.Warning.Render(strconv.Itoa(kv.count)), s.Dim.Render(diag.Describe(diag.Code(kv.key)))))
	}

	builder.WriteString("\n")
	switch {
	case stats.FilesFailed > 0:
		builder.WriteString(s.Failure.Render("Parse failed"))
	case stats.Warnings > 0:
		builder.WriteString(s.Warning.Render("Parse completed with warnings"))
	default:
		builder.WriteString(s.Success.Render("Parse succeeded"))
	}
	builder.WriteString("\n")

	return builder.String()
}

type keyCount struct {
	key   string
	count int
}

// sortedCounts orders counts descending, then by key.
func sortedCounts(m map[string]int) []keyCount {
	out := make([]keyCount, 0, len(m))
	for k, v := range m {
		out = append(out, keyCount{k, v})
	}
	slices.SortFunc(out, func(a, b keyCount) int {
		if c := cmp.Compare(b.count, a.count); c != 0 {
			return c
		}
		return cmp.Compare(a.key, b.key)
	})
	return out
}
