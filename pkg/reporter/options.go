package reporter

import (
	"io"
	"os"

	"github.com/yaklabco/gosch/pkg/analysis"
	"github.com/yaklabco/gosch/pkg/config"
)

// bufWriterSize is the buffer size for buffered output writers (64 KiB).
const bufWriterSize = 64 * 1024

// Options configures reporter behavior.
type Options struct {
	// Writer is the destination for output (typically os.Stdout).
	Writer io.Writer

	// ErrorWriter is the destination for errors (typically os.Stderr).
	ErrorWriter io.Writer

	// Format specifies the output format.
	Format Format

	// Color controls colorized output.
	Color config.ColorMode

	// ShowSummary displays aggregate statistics after results.
	ShowSummary bool

	// GroupByFile groups warnings by file (text format).
	GroupByFile bool

	// Compact uses compact output where applicable: minified JSON,
	// JSON and tree output without attribute maps.
	Compact bool

	// PerFile outputs a separate table for each file (table format only).
	PerFile bool

	// WorkingDir is the directory to make paths relative to.
	// If empty, paths are kept as-is (typically absolute).
	WorkingDir string

	// Title heads Markdown and HTML reports.
	Title string
}

// DefaultOptions returns Options with sensible defaults.
func DefaultOptions() Options {
	return Options{
		Writer:      os.Stdout,
		ErrorWriter: os.Stderr,
		Format:      FormatText,
		Color:       config.ColorAuto,
		ShowSummary: true,
		GroupByFile: true,
		Title:       "Schematic report",
	}
}

func (o Options) displayPath(path string) string {
	return analysis.MakeRelativePath(path, o.WorkingDir)
}
