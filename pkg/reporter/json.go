package reporter

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"

	"github.com/yaklabco/gosch/pkg/attrs"
	"github.com/yaklabco/gosch/pkg/diag"
	"github.com/yaklabco/gosch/pkg/runner"
	"github.com/yaklabco/gosch/pkg/schematic"
)

// JSONOutput is the top-level JSON structure.
type JSONOutput struct {
	Version string           `json:"version"`
	Files   []JSONFileResult `json:"files"`
	Summary JSONSummary      `json:"summary"`
}

// JSONFileResult represents a single file's results.
type JSONFileResult struct {
	Path     string              `json:"path"`
	Stream   string              `json:"stream,omitempty"`
	Error    string              `json:"error,omitempty"`
	Records  int                 `json:"records"`
	Objects  []*schematic.Object `json:"objects"`
	Warnings []JSONWarning       `json:"warnings"`
}

// JSONWarning represents a single decoding warning.
type JSONWarning struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Record  *int   `json:"record,omitempty"`
	Offset  *int64 `json:"offset,omitempty"`
}

// JSONSummary contains aggregate statistics.
type JSONSummary struct {
	FilesParsed       int            `json:"filesParsed"`
	FilesFailed       int            `json:"filesFailed"`
	FilesWithWarnings int            `json:"filesWithWarnings"`
	Records           int            `json:"records"`
	Objects           int            `json:"objects"`
	TotalWarnings     int            `json:"totalWarnings"`
	ByCode            map[string]int `json:"byCode"`
	ByKind            map[string]int `json:"byKind"`
}

// JSONReporter formats results as JSON.
type JSONReporter struct {
	opts Options
	bw   *bufio.Writer
}

// NewJSONReporter creates a new JSON reporter.
func NewJSONReporter(opts Options) *JSONReporter {
	return &JSONReporter{
		opts: opts,
		bw:   bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *JSONReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	output := r.buildOutput(result)

	encoder := json.NewEncoder(r.bw)
	if !r.opts.Compact {
		encoder.SetIndent("", "  ")
	}

	if err := encoder.Encode(output); err != nil {
		return 0, fmt.Errorf("encode JSON: %w", err)
	}

	return output.Summary.TotalWarnings, nil
}

func (r *JSONReporter) buildOutput(result *runner.Result) *JSONOutput {
	output := &JSONOutput{
		Version: "1.0.0",
		Files:   make([]JSONFileResult, 0),
		Summary: JSONSummary{
			ByCode: make(map[string]int),
			ByKind: make(map[string]int),
		},
	}

	if result == nil {
		return output
	}

	for _, file := range result.Files {
		fileResult := JSONFileResult{
			Path:     r.opts.displayPath(file.Path),
			Objects:  make([]*schematic.Object, 0),
			Warnings: make([]JSONWarning, 0, len(file.Warnings)),
		}

		if file.Error != nil {
			fileResult.Error = file.Error.Error()
			output.Summary.FilesFailed++
			output.Files = append(output.Files, fileResult)
			continue
		}
		if file.Document == nil {
			continue
		}

		doc := file.Document
		fileResult.Stream = doc.Stream()
		fileResult.Records = len(doc.Records())
		for _, o := range doc.Objects() {
			if r.opts.Compact {
				o = compactObject(o)
			}
			fileResult.Objects = append(fileResult.Objects, o)
			output.Summary.ByKind[o.Kind.Slug()]++
		}

		for _, w := range file.Warnings {
			fileResult.Warnings = append(fileResult.Warnings, jsonWarning(w))
			output.Summary.ByCode[string(w.Code)]++
		}

		output.Summary.FilesParsed++
		output.Summary.Records += fileResult.Records
		output.Summary.Objects += len(fileResult.Objects)
		output.Summary.TotalWarnings += len(fileResult.Warnings)
		if len(fileResult.Warnings) > 0 {
			output.Summary.FilesWithWarnings++
		}

		output.Files = append(output.Files, fileResult)
	}

	return output
}

func jsonWarning(w diag.Warning) JSONWarning {
	out := JSONWarning{Code: string(w.Code), Message: w.Message}
	if w.HasRecord() {
		record := w.Record
		out.Record = &record
	}
	if w.HasOffset() {
		offset := w.Offset
		out.Offset = &offset
	}
	return out
}

// compactObject returns a shallow copy without the attribute map.
// Unknown objects keep their attributes.
func compactObject(o *schematic.Object) *schematic.Object {
	if o.Unknown {
		return o
	}
	c := *o
	c.Attributes = attrs.Map{}
	return &c
}
