package analysis_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gosch/internal/testutil/fixture"
	"github.com/yaklabco/gosch/pkg/analysis"
	"github.com/yaklabco/gosch/pkg/diag"
	"github.com/yaklabco/gosch/pkg/runner"
)

const header = "|HEADER=Protel for Windows - Schematic Capture Binary File Version 5.0|"

func run(t *testing.T) (*runner.Result, string) {
	t.Helper()

	dir := t.TempDir()
	docs := map[string][]byte{
		"a.SchDoc": fixture.SchDoc(header,
			"|RECORD=31|SHEETSTYLE=0|",
			"|RECORD=1|LIBREFERENCE=RES|",
			"|RECORD=34|OWNERINDEX=1|TEXT=R1|"),
		"b.SchDoc": fixture.SchDoc(header, "|RECORD=999|OWNERINDEX=-1|", "|RECORD=998|OWNERINDEX=-1|"),
		"c.SchDoc": []byte("garbage"),
	}
	for name, data := range docs {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), data, 0o644))
	}

	result, err := runner.New(nil).Run(context.Background(), runner.Options{WorkingDir: dir})
	require.NoError(t, err)
	return result, dir
}

func TestAnalyze(t *testing.T) {
	t.Parallel()

	result, dir := run(t)
	opts := analysis.DefaultOptions()
	opts.WorkingDir = dir

	report := analysis.Analyze(result, opts)

	assert.Equal(t, analysis.ReportVersion, report.Version)
	assert.Equal(t, analysis.Totals{
		Files:             3,
		FilesParsed:       2,
		FilesFailed:       1,
		FilesWithWarnings: 1,
		Records:           7,
		Objects:           5,
		UnknownObjects:    2,
		Warnings:          3,
	}, report.Totals)
	assert.True(t, report.Totals.HasWarnings())
	assert.True(t, report.Totals.HasFailures())

	require.Len(t, report.Failures, 1)
	assert.Equal(t, "c.SchDoc", report.Failures[0].FilePath)

	require.Len(t, report.ByFile, 2)
	assert.Equal(t, "b.SchDoc", report.ByFile[0].Path, "most warnings first")
	assert.Equal(t, []string{string(diag.CodeMissingSheet), string(diag.CodeUnknownRecordType)}, report.ByFile[0].Codes)
	assert.Equal(t, "FileHeader", report.ByFile[1].Stream)

	require.Len(t, report.ByCode, 2)
	assert.Equal(t, string(diag.CodeUnknownRecordType), report.ByCode[0].Code)
	assert.Equal(t, 2, report.ByCode[0].Count)
	assert.Equal(t, []string{"b.SchDoc"}, report.ByCode[0].Files)
	assert.Equal(t, diag.Describe(diag.CodeMissingSheet), report.ByCode[1].Description)

	assert.Equal(t, analysis.KindAnalysis{Kind: "unknown", Count: 2}, report.ByKind[0])

	require.Len(t, report.Warnings, 3)
	first := report.Warnings[0]
	assert.Equal(t, "b.SchDoc", first.FilePath)
	require.NotNil(t, first.Record)
	require.NotNil(t, first.Offset)
	last := report.Warnings[2]
	assert.Equal(t, string(diag.CodeMissingSheet), last.Code)
	assert.Nil(t, last.Record)
	assert.Nil(t, last.Offset)
}

func TestAnalyze_Options(t *testing.T) {
	t.Parallel()

	result, _ := run(t)

	report := analysis.Analyze(result, analysis.Options{IncludeByKind: true, SortBy: analysis.SortByAlpha})
	assert.Empty(t, report.Warnings)
	assert.Empty(t, report.ByFile)
	assert.Empty(t, report.ByCode)
	require.NotEmpty(t, report.ByKind)
	assert.Equal(t, "component", report.ByKind[0].Kind)
	assert.True(t, filepath.IsAbs(report.Failures[0].FilePath))

	empty := analysis.Analyze(nil, analysis.DefaultOptions())
	assert.Zero(t, empty.Totals)
}

func TestSortField_IsValid(t *testing.T) {
	t.Parallel()

	assert.True(t, analysis.SortByCount.IsValid())
	assert.True(t, analysis.SortByAlpha.IsValid())
	assert.False(t, analysis.SortField("severity").IsValid())
}

func TestMakeRelativePath(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "/abs/x.SchDoc", analysis.MakeRelativePath("/abs/x.SchDoc", ""))
	assert.Equal(t, filepath.Join("x", "y.SchDoc"), analysis.MakeRelativePath("/abs/x/y.SchDoc", "/abs"))
}
