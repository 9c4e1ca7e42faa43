package reporter

import "github.com/yaklabco/gosch/pkg/config"

// Format represents an output format.
type Format = config.OutputFormat

// Output formats supported by the reporter.
const (
	FormatText     = config.FormatText
	FormatTable    = config.FormatTable
	FormatJSON     = config.FormatJSON
	FormatTree     = config.FormatTree
	FormatBOM      = config.FormatBOM
	FormatMarkdown = config.FormatMarkdown
	FormatHTML     = config.FormatHTML
	FormatSummary  = config.FormatSummary
)

// ParseFormat parses a format string; empty means text.
func ParseFormat(formatStr string) (Format, error) {
	if formatStr == "" {
		return FormatText, nil
	}
	return config.ParseFormat(formatStr)
}
