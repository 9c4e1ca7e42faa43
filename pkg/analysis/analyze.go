// Package analysis aggregates runner results into views shared by reporters.
package analysis

import (
	"cmp"
	"maps"
	"path/filepath"
	"slices"
	"time"

	"github.com/yaklabco/gosch/pkg/diag"
	"github.com/yaklabco/gosch/pkg/runner"
)

// ReportVersion is the current report format version.
const ReportVersion = "1.0.0"

// MakeRelativePath converts an absolute path to a relative path from workDir.
// If workDir is empty or conversion fails, returns the original path.
func MakeRelativePath(absPath, workDir string) string {
	if workDir == "" {
		return absPath
	}
	relPath, err := filepath.Rel(workDir, absPath)
	if err != nil {
		return absPath
	}
	return relPath
}

// analysisContext holds temporary state during analysis.
type analysisContext struct {
	codeMap   map[diag.Code]*CodeAnalysis
	codeFiles map[diag.Code]map[string]bool
	kinds     map[string]int
}

func newAnalysisContext() *analysisContext {
	return &analysisContext{
		codeMap:   make(map[diag.Code]*CodeAnalysis),
		codeFiles: make(map[diag.Code]map[string]bool),
		kinds:     make(map[string]int),
	}
}

func (ctx *analysisContext) getOrCreateCodeAnalysis(code diag.Code) *CodeAnalysis {
	if _, ok := ctx.codeMap[code]; !ok {
		ctx.codeMap[code] = &CodeAnalysis{Code: string(code), Description: diag.Describe(code)}
		ctx.codeFiles[code] = make(map[string]bool)
	}
	return ctx.codeMap[code]
}

func createWarningEntry(path string, w diag.Warning) WarningEntry {
	entry := WarningEntry{FilePath: path, Code: string(w.Code), Message: w.Message}
	if w.HasRecord() {
		record := w.Record
		entry.Record = &record
	}
	if w.HasOffset() {
		offset := w.Offset
		entry.Offset = &offset
	}
	return entry
}

func (ctx *analysisContext) buildByCode(opts Options) []CodeAnalysis {
	result := make([]CodeAnalysis, 0, len(ctx.codeMap))
	for code, ca := range ctx.codeMap {
		ca.Files = slices.Sorted(maps.Keys(ctx.codeFiles[code]))
		result = append(result, *ca)
	}
	sortByCount(result, opts, func(c CodeAnalysis) (string, int) { return c.Code, c.Count })
	return result
}

func (ctx *analysisContext) buildByKind(opts Options) []KindAnalysis {
	result := make([]KindAnalysis, 0, len(ctx.kinds))
	for kind, n := range ctx.kinds {
		result = append(result, KindAnalysis{Kind: kind, Count: n})
	}
	sortByCount(result, opts, func(k KindAnalysis) (string, int) { return k.Kind, k.Count })
	return result
}

// Analyze transforms a runner.Result into a Report in a single pass.
func Analyze(result *runner.Result, opts Options) *Report {
	report := &Report{
		Version:   ReportVersion,
		Timestamp: time.Now(),
	}

	if result == nil {
		return report
	}

	ctx := newAnalysisContext()
	var byFile []FileAnalysis

	for _, file := range result.Files {
		report.Totals.Files++
		displayPath := MakeRelativePath(file.Path, opts.WorkingDir)

		if file.Error != nil || file.Document == nil {
			report.Totals.FilesFailed++
			msg := "no document"
			if file.Error != nil {
				msg = file.Error.Error()
			}
			report.Failures = append(report.Failures, FailureEntry{FilePath: displayPath, Error: msg})
			continue
		}

		doc := file.Document
		report.Totals.FilesParsed++

		fa := FileAnalysis{
			Path:     displayPath,
			Stream:   doc.Stream(),
			Records:  len(doc.Records()),
			Objects:  doc.Len(),
			Warnings: len(file.Warnings),
		}
		report.Totals.Records += fa.Records
		report.Totals.Objects += fa.Objects

		for _, o := range doc.Objects() {
			ctx.kinds[o.Kind.Slug()]++
			if o.Unknown {
				report.Totals.UnknownObjects++
			}
		}

		if len(file.Warnings) > 0 {
			report.Totals.FilesWithWarnings++
		}

		codes := make(map[string]bool)
		for _, w := range file.Warnings {
			report.Totals.Warnings++
			codes[string(w.Code)] = true

			ca := ctx.getOrCreateCodeAnalysis(w.Code)
			ca.Count++
			ctx.codeFiles[w.Code][displayPath] = true

			if opts.IncludeWarnings {
				report.Warnings = append(report.Warnings, createWarningEntry(displayPath, w))
			}
		}
		fa.Codes = slices.Sorted(maps.Keys(codes))
		byFile = append(byFile, fa)
	}

	if opts.IncludeByFile {
		sortByCount(byFile, opts, func(f FileAnalysis) (string, int) { return f.Path, f.Warnings })
		report.ByFile = byFile
	}
	if opts.IncludeByCode {
		report.ByCode = ctx.buildByCode(opts)
	}
	if opts.IncludeByKind {
		report.ByKind = ctx.buildByKind(opts)
	}

	return report
}

// sortByCount orders items by count, breaking ties by name. SortByAlpha
// orders by name only, always ascending.
func sortByCount[T any](items []T, opts Options, key func(T) (string, int)) {
	slices.SortStableFunc(items, func(left, right T) int {
		leftName, leftCount := key(left)
		rightName, rightCount := key(right)
		if opts.SortBy == SortByAlpha {
			return cmp.Compare(leftName, rightName)
		}
		result := cmp.Compare(leftCount, rightCount)
		if opts.SortDesc {
			result = -result
		}
		if result == 0 {
			result = cmp.Compare(leftName, rightName)
		}
		return result
	})
}
