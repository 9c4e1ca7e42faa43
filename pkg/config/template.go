package config

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yaklabco/gosch/pkg/diag"
)

// commentWrapWidth is the maximum width for wrapped comments in templates.
const commentWrapWidth = 70

// Template file formats.
const (
	TemplateYAML = "yaml"
	TemplateTOML = "toml"
)

// TemplateOptions controls configuration template generation.
type TemplateOptions struct {
	// Full writes every setting with its default value and documents the
	// warning codes. If false, generates a minimal commented template.
	Full bool

	// Format is the output format: "yaml" or "toml".
	Format string
}

// GenerateTemplate creates a configuration file template.
func GenerateTemplate(opts TemplateOptions) ([]byte, error) {
	format := strings.ToLower(opts.Format)
	if format == "" || format == "yml" {
		format = TemplateYAML
	}
	if format != TemplateYAML && format != TemplateTOML {
		return nil, fmt.Errorf("unsupported template format %q (valid: yaml, toml)", opts.Format)
	}

	if opts.Full {
		return generateFullTemplate(format)
	}
	return generateMinimalTemplate(format), nil
}

// generateMinimalTemplate creates a minimal commented template.
func generateMinimalTemplate(format string) []byte {
	if format == TemplateTOML {
		return []byte(DefaultTemplateHeader() + `

# Record stream inside each container
stream = "FileHeader"

# Objects missing required attributes: skip, abort or generic
missing_attributes = "skip"

# Fail when any decoding warning is reported
# strict = false

# File extensions picked up when walking directories
# extensions = [".SchDoc"]

# File patterns to ignore (glob patterns)
# ignore = ["archive/**"]

# Warning codes to drop from results
# suppress_warnings = ["record-padding"]

[output]
# text, table, json, tree, bom, markdown, html or summary
format = "text"
# auto, always or never
color = "auto"
`)
	}

	return []byte(DefaultTemplateHeader() + `

# Record stream inside each container
stream: FileHeader

# Objects missing required attributes: skip, abort or generic
missing_attributes: skip

# Fail when any decoding warning is reported
# strict: false

# File extensions picked up when walking directories
# extensions:
#   - .SchDoc

# File patterns to ignore (glob patterns)
# ignore:
#   - "archive/**"

# Warning codes to drop from results
# suppress_warnings:
#   - record-padding

output:
  # text, table, json, tree, bom, markdown, html or summary
  format: text
  # auto, always or never
  color: auto
`)
}

// generateFullTemplate serializes the defaults and documents the warning codes.
func generateFullTemplate(format string) ([]byte, error) {
	cfg := NewConfig()

	var body []byte
	var err error
	if format == TemplateTOML {
		body, err = cfg.ToTOML()
	} else {
		body, err = cfg.ToYAML()
	}
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	buf.WriteString(DefaultTemplateHeader())
	buf.WriteString("\n#\n# Warning codes usable in suppress_warnings:\n")
	for _, code := range diag.KnownCodes() {
		fmt.Fprintf(&buf, "#   %s: %s\n", code, wrapComment(diag.Describe(code), commentWrapWidth))
	}
	buf.WriteString("\n")
	buf.Write(body)
	return buf.Bytes(), nil
}

// wrapComment wraps a comment to fit within maxWidth characters.
func wrapComment(text string, maxWidth int) string {
	if len(text) <= maxWidth {
		return text
	}

	var lines []string
	currentLine := ""
	for _, word := range strings.Fields(text) {
		switch {
		case currentLine == "":
			currentLine = word
		case len(currentLine)+1+len(word) <= maxWidth:
			currentLine += " " + word
		default:
			lines = append(lines, currentLine)
			currentLine = word
		}
	}
	if currentLine != "" {
		lines = append(lines, currentLine)
	}

	return strings.Join(lines, "\n#     ")
}

// DefaultTemplateHeader returns the default header for generated configs.
func DefaultTemplateHeader() string {
	return `# gosch configuration
# See: https://github.com/yaklabco/gosch`
}
