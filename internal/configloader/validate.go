package configloader

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/yaklabco/gosch/internal/logging"
	"github.com/yaklabco/gosch/pkg/config"
	"github.com/yaklabco/gosch/pkg/diag"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	// Field is the path to the invalid field (e.g., "output.format").
	Field string

	// Value is the invalid value.
	Value any

	// Message describes the validation error.
	Message string

	// FilePath is the config file containing the error (if known).
	FilePath string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	var parts []string
	if e.FilePath != "" {
		parts = append(parts, e.FilePath)
	}
	if e.Field != "" {
		parts = append(parts, e.Field)
	}
	parts = append(parts, e.Message)
	return strings.Join(parts, ": ")
}

// ValidationResult contains all validation findings.
type ValidationResult struct {
	// Errors are validation failures that prevent loading.
	Errors []ValidationError

	// Warnings are non-fatal issues (e.g., unknown warning codes).
	Warnings []ValidationError
}

// Valid returns true if there are no errors.
func (r *ValidationResult) Valid() bool {
	return len(r.Errors) == 0
}

// HasWarnings returns true if there are any warnings.
func (r *ValidationResult) HasWarnings() bool {
	return len(r.Warnings) > 0
}

// AllMessages returns all error and warning messages combined.
func (r *ValidationResult) AllMessages() []string {
	messages := make([]string, 0, len(r.Errors)+len(r.Warnings))
	for _, e := range r.Errors {
		messages = append(messages, "error: "+e.Error())
	}
	for _, w := range r.Warnings {
		messages = append(messages, "warning: "+w.Error())
	}
	return messages
}

func (r *ValidationResult) errorf(field string, value any, format string, args ...any) {
	r.Errors = append(r.Errors, ValidationError{Field: field, Value: value, Message: fmt.Sprintf(format, args...)})
}

func (r *ValidationResult) warnf(field string, value any, format string, args ...any) {
	r.Warnings = append(r.Warnings, ValidationError{Field: field, Value: value, Message: fmt.Sprintf(format, args...)})
}

// Validate checks a configuration for errors and warnings.
func Validate(cfg *config.Config) *ValidationResult {
	result := &ValidationResult{}
	if cfg == nil {
		return result
	}

	if cfg.LogLevel != "" && !logging.ValidLevel(cfg.LogLevel) {
		result.errorf("log_level", cfg.LogLevel,
			"invalid log level %q; must be one of: debug, info, warn, error", cfg.LogLevel)
	}

	if cfg.MissingAttributes != "" && !config.IsValidPolicy(cfg.MissingAttributes) {
		result.errorf("missing_attributes", cfg.MissingAttributes,
			"invalid policy %q; must be one of: skip, abort, generic", cfg.MissingAttributes)
	}

	if cfg.Output.Format != "" && !cfg.Output.Format.IsValid() {
		result.errorf("output.format", cfg.Output.Format,
			"invalid format %q; must be one of: %s", cfg.Output.Format, config.FormatNames())
	}

	if cfg.Output.Color != "" && !cfg.Output.Color.IsValid() {
		result.errorf("output.color", cfg.Output.Color,
			"invalid color mode %q; must be one of: auto, always, never", cfg.Output.Color)
	}

	if cfg.Jobs < 0 {
		result.errorf("jobs", cfg.Jobs, "jobs must be >= 0 (0 means auto)")
	}

	for i, ext := range cfg.Extensions {
		if !strings.HasPrefix(ext, ".") {
			result.errorf(fmt.Sprintf("extensions[%d]", i), ext, "extension %q must start with a dot", ext)
		}
	}

	for i, pattern := range cfg.Ignore {
		if _, err := filepath.Match(pattern, ""); err != nil {
			result.errorf(fmt.Sprintf("ignore[%d]", i), pattern, "invalid glob pattern: %v", err)
		}
	}

	known := diag.KnownCodes()
	for i, code := range cfg.SuppressWarnings {
		if !slices.Contains(known, diag.Code(code)) {
			result.warnf(fmt.Sprintf("suppress_warnings[%d]", i), code,
				"unknown warning code %q; it will be ignored", code)
		}
	}

	return result
}

// ValidateWithFile validates configuration and includes file path in errors.
func ValidateWithFile(cfg *config.Config, filePath string) *ValidationResult {
	result := Validate(cfg)

	for i := range result.Errors {
		result.Errors[i].FilePath = filePath
	}
	for i := range result.Warnings {
		result.Warnings[i].FilePath = filePath
	}

	return result
}
