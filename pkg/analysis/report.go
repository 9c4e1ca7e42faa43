package analysis

import "time"

// Report contains pre-computed views of a parse run.
// Computed once by Analyze, used by all renderers.
type Report struct {
	// Warnings is the flat list for detailed output.
	Warnings []WarningEntry `json:"warnings,omitempty"`

	// Failures lists files that could not be parsed.
	Failures []FailureEntry `json:"failures,omitempty"`

	// ByFile has one entry per parsed file.
	ByFile []FileAnalysis `json:"byFile,omitempty"`

	// ByCode groups warnings by code.
	ByCode []CodeAnalysis `json:"byCode,omitempty"`

	// ByKind counts objects per kind across all files.
	ByKind []KindAnalysis `json:"byKind,omitempty"`

	Totals Totals `json:"summary"`

	// Version is the report format version.
	Version string `json:"version"`

	// Timestamp is when the analysis was performed.
	Timestamp time.Time `json:"timestamp"`
}

// WarningEntry is a single warning in the report.
type WarningEntry struct {
	FilePath string `json:"filePath"`
	Code     string `json:"code"`
	Message  string `json:"message"`

	// Record and Offset are nil when the warning is not tied to one.
	Record *int   `json:"record,omitempty"`
	Offset *int64 `json:"offset,omitempty"`
}

// FailureEntry is a file that failed to parse.
type FailureEntry struct {
	FilePath string `json:"filePath"`
	Error    string `json:"error"`
}

// Totals contains aggregate statistics for the report.
type Totals struct {
	Files             int `json:"filesChecked"`
	FilesParsed       int `json:"filesParsed"`
	FilesFailed       int `json:"filesFailed"`
	FilesWithWarnings int `json:"filesWithWarnings"`
	Records           int `json:"records"`
	Objects           int `json:"objects"`
	UnknownObjects    int `json:"unknownObjects"`
	Warnings          int `json:"warnings"`
}

// HasWarnings returns true if there are any warnings.
func (t Totals) HasWarnings() bool {
	return t.Warnings > 0
}

// HasFailures returns true if any file failed to parse.
func (t Totals) HasFailures() bool {
	return t.FilesFailed > 0
}

// FileAnalysis contains aggregated data for a single parsed file.
type FileAnalysis struct {
	Path     string   `json:"path"`
	Stream   string   `json:"stream"`
	Records  int      `json:"records"`
	Objects  int      `json:"objects"`
	Warnings int      `json:"warnings"`
	Codes    []string `json:"codes,omitempty"`
}

// CodeAnalysis contains aggregated data for a single warning code.
type CodeAnalysis struct {
	Code        string   `json:"code"`
	Description string   `json:"description"`
	Count       int      `json:"count"`
	Files       []string `json:"files,omitempty"`
}

// KindAnalysis counts objects of one kind.
type KindAnalysis struct {
	Kind  string `json:"kind"`
	Count int    `json:"count"`
}
