// Package config defines core configuration types for gosch.
// These types are pure data structures; discovery and merging live in internal/configloader.
package config

// OutputFormat specifies how parse results are rendered.
type OutputFormat string

const (
	FormatText     OutputFormat = "text"
	FormatTable    OutputFormat = "table"
	FormatJSON     OutputFormat = "json"
	FormatTree     OutputFormat = "tree"
	FormatBOM      OutputFormat = "bom"
	FormatMarkdown OutputFormat = "markdown"
	FormatHTML     OutputFormat = "html"
	FormatSummary  OutputFormat = "summary"
)

// ColorMode controls colored terminal output.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

// IsValid returns true if the color mode is known.
func (m ColorMode) IsValid() bool {
	switch m {
	case ColorAuto, ColorAlways, ColorNever:
		return true
	default:
		return false
	}
}

// Missing-attribute policy names, mirrored from the document package.
const (
	PolicySkip    = "skip"
	PolicyAbort   = "abort"
	PolicyGeneric = "generic"
)

// DefaultStream is the record stream read from each document.
const DefaultStream = "FileHeader"

// OutputConfig controls report rendering.
type OutputConfig struct {
	// Format selects the renderer.
	Format OutputFormat `yaml:"format,omitempty" toml:"format,omitempty"`

	// Color is auto, always or never.
	Color ColorMode `yaml:"color,omitempty" toml:"color,omitempty"`

	// Compact drops per-object detail from text and tree output.
	Compact bool `yaml:"compact,omitempty" toml:"compact,omitempty"`
}

// Config is the root configuration structure for gosch.
type Config struct {
	// LogLevel is debug, info, warn or error.
	LogLevel string `yaml:"log_level,omitempty" toml:"log_level,omitempty"`

	// Stream names the record stream inside each container.
	Stream string `yaml:"stream,omitempty" toml:"stream,omitempty"`

	// MissingAttributes is the policy for objects lacking required attributes:
	// skip, abort or generic.
	MissingAttributes string `yaml:"missing_attributes,omitempty" toml:"missing_attributes,omitempty"`

	// Strict treats any decoding warning as a failure.
	Strict bool `yaml:"strict,omitempty" toml:"strict,omitempty"`

	// Extensions lists the file extensions picked up when walking directories.
	Extensions []string `yaml:"extensions,omitempty" toml:"extensions,omitempty"`

	// Ignore contains glob patterns for files to ignore.
	Ignore []string `yaml:"ignore,omitempty" toml:"ignore,omitempty"`

	// SuppressWarnings lists warning codes that are dropped from results.
	SuppressWarnings []string `yaml:"suppress_warnings,omitempty" toml:"suppress_warnings,omitempty"`

	// Output configures rendering.
	Output OutputConfig `yaml:"output" toml:"output"`

	// CLI-level options (not persisted to config files).

	// Jobs specifies the number of parallel workers.
	Jobs int `yaml:"-" toml:"-"`
}

// NewConfig returns a Config with sensible defaults.
func NewConfig() *Config {
	return &Config{
		LogLevel:          "info",
		Stream:            DefaultStream,
		MissingAttributes: PolicySkip,
		Extensions:        []string{".SchDoc"},
		Output: OutputConfig{
			Format: FormatText,
			Color:  ColorAuto,
		},
		Jobs: 0, // 0 means use GOMAXPROCS
	}
}
