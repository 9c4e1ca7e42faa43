package reporter

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"io"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/yaklabco/gosch/pkg/analysis"
)

const htmlStyle = `body{font-family:system-ui,sans-serif;margin:2rem;color:#222}
table{border-collapse:collapse;margin-bottom:1.5rem}
th,td{border:1px solid #ccc;padding:.3rem .6rem;text-align:left}
th{background:#f4f4f4}
code{font-size:.9em}`

// HTMLRenderer renders a report as a standalone HTML page. The body is the
// Markdown report converted by goldmark with GitHub-flavored tables.
type HTMLRenderer struct {
	opts Options
	out  io.Writer
	md   goldmark.Markdown
}

// NewHTMLRenderer creates a new HTML renderer.
func NewHTMLRenderer(opts Options) *HTMLRenderer {
	return &HTMLRenderer{
		opts: opts,
		out:  opts.Writer,
		md:   goldmark.New(goldmark.WithExtensions(extension.GFM)),
	}
}

// Render implements Renderer.
func (r *HTMLRenderer) Render(_ context.Context, report *analysis.Report) error {
	var body bytes.Buffer
	if err := r.md.Convert([]byte(BuildMarkdown(report, r.opts.Title)), &body); err != nil {
		return fmt.Errorf("convert markdown: %w", err)
	}

	_, err := fmt.Fprintf(r.out,
		"<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n<title>%s</title>\n<style>\n%s\n</style>\n</head>\n<body>\n%s</body>\n</html>\n",
		html.EscapeString(r.opts.Title), htmlStyle, body.String(),
	)
	if err != nil {
		return fmt.Errorf("write html: %w", err)
	}
	return nil
}
