// Package reporter renders parse results in the supported output formats.
package reporter

import (
	"context"
	"fmt"

	"github.com/yaklabco/gosch/pkg/analysis"
	"github.com/yaklabco/gosch/pkg/runner"
)

// Compile-time interface check for reporterFacade.
var _ Reporter = (*reporterFacade)(nil)

// Reporter formats and writes parse results.
type Reporter interface {
	// Report writes formatted output for the given result.
	// It returns the number of warnings reported (BOM lines for the bom
	// format) and any write error.
	Report(ctx context.Context, result *runner.Result) (int, error)
}

// reporterFacade bridges the Reporter interface to Renderer implementations.
type reporterFacade struct {
	renderer     Renderer
	analysisOpts analysis.Options
}

// Report implements Reporter by analyzing the result and rendering it.
func (f *reporterFacade) Report(ctx context.Context, result *runner.Result) (int, error) {
	report := analysis.Analyze(result, f.analysisOpts)
	if err := f.renderer.Render(ctx, report); err != nil {
		return 0, fmt.Errorf("render: %w", err)
	}
	return report.Totals.Warnings, nil
}

func newRendererFacade(renderer Renderer, opts Options) *reporterFacade {
	analysisOpts := analysis.DefaultOptions()
	analysisOpts.WorkingDir = opts.WorkingDir
	return &reporterFacade{renderer: renderer, analysisOpts: analysisOpts}
}

// New creates a Reporter for the specified options.
func New(opts Options) (Reporter, error) {
	if opts.Writer == nil {
		opts.Writer = DefaultOptions().Writer
	}
	if opts.ErrorWriter == nil {
		opts.ErrorWriter = DefaultOptions().ErrorWriter
	}
	if opts.Title == "" {
		opts.Title = DefaultOptions().Title
	}

	format := opts.Format
	if format == "" {
		format = FormatText
	}

	switch format {
	case FormatText:
		return NewTextReporter(opts), nil
	case FormatTable:
		return NewTableReporter(opts), nil
	case FormatJSON:
		return NewJSONReporter(opts), nil
	case FormatTree:
		return NewTreeReporter(opts), nil
	case FormatBOM:
		return NewBOMReporter(opts), nil
	case FormatMarkdown:
		return newRendererFacade(NewMarkdownRenderer(opts), opts), nil
	case FormatHTML:
		return newRendererFacade(NewHTMLRenderer(opts), opts), nil
	case FormatSummary:
		return newRendererFacade(NewSummaryRenderer(opts), opts), nil
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}
