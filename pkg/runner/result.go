package runner

import (
	"github.com/yaklabco/gosch/pkg/diag"
	"github.com/yaklabco/gosch/pkg/schdoc"
)

// FileOutcome is the parse result for one discovered file.
type FileOutcome struct {
	// Path is the file path that was processed.
	Path string

	// Document is nil when Error is set.
	Document *schdoc.Document

	// Warnings are the document's warnings after suppression.
	Warnings []diag.Warning

	// Error is set if the file could not be parsed.
	Error error
}

// Stats captures aggregate information about a run.
type Stats struct {
	FilesDiscovered int
	FilesParsed     int
	FilesFailed     int

	// FilesWithWarnings counts parsed files with at least one unsuppressed warning.
	FilesWithWarnings int

	Records  int
	Objects  int
	Warnings int

	// WarningsByCode maps warning codes to counts.
	WarningsByCode map[diag.Code]int

	// ObjectsByKind maps object kind slugs to counts.
	ObjectsByKind map[string]int
}

// Result is the overall runner result.
type Result struct {
	// Files are ordered by path.
	Files []FileOutcome

	Stats Stats
}

// HasFailures reports whether any file failed to parse.
func (r *Result) HasFailures() bool {
	if r == nil {
		return false
	}
	return r.Stats.FilesFailed > 0
}

// HasWarnings reports whether any unsuppressed warning was raised.
func (r *Result) HasWarnings() bool {
	if r == nil {
		return false
	}
	return r.Stats.Warnings > 0
}

func newStats() Stats {
	return Stats{
		WarningsByCode: make(map[diag.Code]int),
		ObjectsByKind:  make(map[string]int),
	}
}

func (r *Result) accumulate(outcome FileOutcome) {
	r.Files = append(r.Files, outcome)

	if outcome.Error != nil || outcome.Document == nil {
		r.Stats.FilesFailed++
		return
	}

	r.Stats.FilesParsed++
	r.Stats.Records += len(outcome.Document.Records())
	r.Stats.Objects += outcome.Document.Len()
	for _, o := range outcome.Document.Objects() {
		r.Stats.ObjectsByKind[o.Kind.Slug()]++
	}

	if len(outcome.Warnings) > 0 {
		r.Stats.FilesWithWarnings++
	}
	r.Stats.Warnings += len(outcome.Warnings)
	for _, w := range outcome.Warnings {
		r.Stats.WarningsByCode[w.Code]++
	}
}
