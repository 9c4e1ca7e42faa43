package pretty_test

import (
	"bytes"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gosch/internal/ui/pretty"
	"github.com/yaklabco/gosch/pkg/config"
	"github.com/yaklabco/gosch/pkg/diag"
	"github.com/yaklabco/gosch/pkg/runner"
)

func padding(record int, offset int64) diag.Warning {
	return diag.Warning{Code: diag.CodeRecordPadding, Message: "pad byte is 0x07", Record: record, Offset: offset}
}

func sampleResult() *runner.Result {
	return &runner.Result{
		Files: []runner.FileOutcome{
			{Path: "clean.SchDoc"},
			{Path: "board.SchDoc", Warnings: []diag.Warning{
				padding(3, 42),
				{Code: diag.CodeMissingSheet, Message: "document has no sheet object", Record: diag.NoRecord, Offset: diag.NoOffset},
			}},
			{Path: "broken.SchDoc", Error: errors.New("open container: bad signature")},
		},
		Stats: runner.Stats{
			FilesDiscovered:   3,
			FilesParsed:       2,
			FilesFailed:       1,
			FilesWithWarnings: 1,
			Records:           12,
			Objects:           10,
			Warnings:          2,
			WarningsByCode:    map[diag.Code]int{diag.CodeRecordPadding: 1, diag.CodeMissingSheet: 1},
			ObjectsByKind:     map[string]int{"pin": 6, "component": 2, "designator": 2},
		},
	}
}

func TestNewStyles(t *testing.T) {
	t.Parallel()

	require.NotNil(t, pretty.NewStyles(true))

	plain := pretty.NewStyles(false)
	assert.Equal(t, "text", plain.Bold.Render("text"))
	assert.Equal(t, "text", plain.Kind.Render("text"))
}

func TestIsColorEnabled(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	assert.True(t, pretty.IsColorEnabled(config.ColorAlways, &buf))
	assert.False(t, pretty.IsColorEnabled(config.ColorNever, os.Stdout))
	assert.False(t, pretty.IsColorEnabled(config.ColorAuto, &buf), "buffers are not terminals")
}

//nolint:paralleltest // Mutates the environment.
func TestIsColorEnabled_NoColor(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	assert.False(t, pretty.IsColorEnabled(config.ColorAuto, os.Stdout))
}

func TestLocation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		warning diag.Warning
		want    string
	}{
		{"record and offset", padding(3, 42), "record 3 @0x2a"},
		{"record only", diag.Warning{Record: 5, Offset: diag.NoOffset}, "record 5"},
		{"offset only", diag.Warning{Record: diag.NoRecord, Offset: 512}, "@0x200"},
		{"neither", diag.Warning{Record: diag.NoRecord, Offset: diag.NoOffset}, "-"},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, testCase.want, pretty.Location(testCase.warning))
		})
	}
}

func TestFormatWarning(t *testing.T) {
	t.Parallel()

	styles := pretty.NewStyles(false)

	out := styles.FormatWarning("board.SchDoc", padding(3, 42))
	assert.Equal(t, "  board.SchDoc record 3 @0x2a  warning  pad byte is 0x07  (record-padding)\n", out)

	out = styles.FormatFailure("broken.SchDoc", errors.New("bad signature"))
	assert.Equal(t, "  broken.SchDoc  error  bad signature\n", out)

	assert.Equal(t, "board.SchDoc (1 warning)", styles.FormatFileHeader("board.SchDoc", 1))
	assert.Equal(t, "board.SchDoc", styles.FormatFileHeader("board.SchDoc", 0))
}

func TestFormatTable(t *testing.T) {
	t.Parallel()

	formatter := pretty.NewTableFormatter(pretty.NewStyles(false), false, 0)
	out := formatter.FormatTable(sampleResult())

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 8)
	assert.Contains(t, lines[0], "FILE")
	assert.Contains(t, lines[0], "LOCATION")
	assert.True(t, strings.HasPrefix(lines[1], "====="))
	assert.Contains(t, lines[2], "record 3 @0x2a")
	assert.Contains(t, lines[2], "record-padding")
	assert.Contains(t, lines[3], "missing-sheet")
	assert.True(t, strings.HasPrefix(lines[4], "-----"))
	assert.Contains(t, lines[5], "parse-error")
	assert.Contains(t, lines[7], "Legend")

	assert.Empty(t, formatter.FormatTable(&runner.Result{Files: []runner.FileOutcome{{Path: "clean.SchDoc"}}}))
	assert.Empty(t, formatter.FormatTable(nil))
}

func TestFormatFileTable(t *testing.T) {
	t.Parallel()

	formatter := pretty.NewTableFormatter(pretty.NewStyles(false), false, 80)
	result := sampleResult()

	out := formatter.FormatFileTable(result.Files[1])
	assert.NotContains(t, out, "FILE")
	assert.Contains(t, out, " 2 warnings")

	out = formatter.FormatFileTable(result.Files[2])
	assert.Contains(t, out, "parse failed")

	assert.Empty(t, formatter.FormatFileTable(result.Files[0]))
}

func TestFormatTable_Truncation(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("d/", 40) + "board.SchDoc"
	result := &runner.Result{Files: []runner.FileOutcome{{
		Path:     long,
		Warnings: []diag.Warning{{Code: diag.CodeRecordID, Message: strings.Repeat("m", 200), Record: 1, Offset: 0}},
	}}}

	out := pretty.NewTableFormatter(pretty.NewStyles(false), false, 100).FormatTable(result)
	assert.Contains(t, out, " ...d/d/")
	assert.Contains(t, out, "/board.SchDoc")
	assert.Contains(t, out, "mmm...")
}

func TestFormatTableSummary(t *testing.T) {
	t.Parallel()

	formatter := pretty.NewTableFormatter(pretty.NewStyles(false), false, 0)
	assert.Equal(t, " 2 files parsed | 1 failed | 2 warnings | 10 objects | 3ms",
		formatter.FormatTableSummary(sampleResult().Stats, "3ms"))
}

func TestFormatSummary(t *testing.T) {
	t.Parallel()

	styles := pretty.NewStyles(false)
	stats := sampleResult().Stats

	assert.Equal(t, "2 warnings in 1 file, 1 failed (2 files parsed, 10 objects)\n", styles.FormatSummaryOneLine(stats))
	assert.Equal(t, "No warnings (1 file parsed, 3 objects)\n",
		styles.FormatSummaryOneLine(runner.Stats{FilesParsed: 1, Objects: 3}))

	out := styles.FormatSummary(stats)
	assert.Contains(t, out, "Files parsed:")
	assert.Contains(t, out, "Files failed:")
	assert.Contains(t, out, "Parse failed")
	assert.Less(t, strings.Index(out, "pin"), strings.Index(out, "component"), "kinds sorted by count")
	assert.Contains(t, out, diag.Describe(diag.CodeMissingSheet))

	assert.Contains(t, styles.FormatSummary(runner.Stats{FilesParsed: 1}), "Parse succeeded")
}
