package configloader

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/yaklabco/gosch/pkg/config"
)

// envVarPrefix is the prefix for all gosch environment variables.
const envVarPrefix = "GOSCH_"

// envFieldType represents the type of a configuration field.
type envFieldType int

const (
	envTypeString envFieldType = iota
	envTypeBool
	envTypeInt
	envTypeSlice
)

// envMapping defines environment variable to config field mappings.
type envMapping struct {
	field       string
	typ         envFieldType
	description string
}

// envMappings maps environment variable names (without prefix) to config fields.
//
//nolint:gochecknoglobals // Read-only lookup table.
var envMappings = map[string]envMapping{
	"LOG_LEVEL":          {"log_level", envTypeString, "Log level: debug, info, warn or error"},
	"STREAM":             {"stream", envTypeString, "Record stream name inside each container"},
	"MISSING_ATTRIBUTES": {"missing_attributes", envTypeString, "Missing-attribute policy: skip, abort or generic"},
	"STRICT":             {"strict", envTypeBool, "Fail on decoding warnings: true or false"},
	"EXTENSIONS":         {"extensions", envTypeSlice, "Comma-separated file extensions to discover"},
	"IGNORE":             {"ignore", envTypeSlice, "Comma-separated list of ignore patterns"},
	"SUPPRESS_WARNINGS":  {"suppress_warnings", envTypeSlice, "Comma-separated warning codes to drop"},
	"FORMAT":             {"output.format", envTypeString, "Output format, e.g. text, json, tree or bom"},
	"COLOR":              {"output.color", envTypeString, "Color mode: auto, always or never"},
	"COMPACT":            {"output.compact", envTypeBool, "Compact output: true or false"},
	"JOBS":               {"jobs", envTypeInt, "Number of parallel workers (0 = auto)"},
}

// LoadFromEnv applies environment variable overrides to the configuration.
// Environment variables are prefixed with GOSCH_ (e.g., GOSCH_STREAM).
func LoadFromEnv(cfg *config.Config) error {
	if cfg == nil {
		return nil
	}

	for envSuffix, mapping := range envMappings {
		envVar := envVarPrefix + envSuffix
		value := os.Getenv(envVar)
		if value == "" {
			continue
		}

		if err := applyEnvValue(cfg, mapping, value, envVar); err != nil {
			return err
		}
	}

	return nil
}

// applyEnvValue applies a single environment variable value to the config.
func applyEnvValue(cfg *config.Config, mapping envMapping, value, envVar string) error {
	switch mapping.typ {
	case envTypeString:
		return setStringField(cfg, mapping.field, value)
	case envTypeBool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean for %s: %q (expected true/false/1/0)", envVar, value)
		}
		return setBoolField(cfg, mapping.field, b)
	case envTypeInt:
		i, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid integer for %s: %q", envVar, value)
		}
		return setIntField(cfg, mapping.field, i)
	case envTypeSlice:
		return setSliceField(cfg, mapping.field, parseSliceValue(value))
	default:
		return fmt.Errorf("unknown field type for %s", envVar)
	}
}

// parseSliceValue parses a comma-separated string into a slice.
// Each element is trimmed of whitespace.
func parseSliceValue(value string) []string {
	if value == "" {
		return nil
	}

	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func setStringField(cfg *config.Config, field, value string) error {
	switch field {
	case "log_level":
		cfg.LogLevel = value
	case "stream":
		cfg.Stream = value
	case "missing_attributes":
		cfg.MissingAttributes = strings.ToLower(value)
	case "output.format":
		format, err := config.ParseFormat(value)
		if err != nil {
			return fmt.Errorf("%sFORMAT: %w", envVarPrefix, err)
		}
		cfg.Output.Format = format
	case "output.color":
		cfg.Output.Color = config.ColorMode(strings.ToLower(value))
	default:
		return fmt.Errorf("unknown string field: %s", field)
	}
	return nil
}

func setBoolField(cfg *config.Config, field string, value bool) error {
	switch field {
	case "strict":
		cfg.Strict = value
	case "output.compact":
		cfg.Output.Compact = value
	default:
		return fmt.Errorf("unknown boolean field: %s", field)
	}
	return nil
}

func setIntField(cfg *config.Config, field string, value int) error {
	switch field {
	case "jobs":
		cfg.Jobs = value
	default:
		return fmt.Errorf("unknown integer field: %s", field)
	}
	return nil
}

func setSliceField(cfg *config.Config, field string, value []string) error {
	switch field {
	case "extensions":
		cfg.Extensions = value
	case "ignore":
		cfg.Ignore = value
	case "suppress_warnings":
		cfg.SuppressWarnings = value
	default:
		return fmt.Errorf("unknown slice field: %s", field)
	}
	return nil
}

// GetEnvVarName returns the full environment variable name for a config field.
func GetEnvVarName(field string) string {
	for suffix, mapping := range envMappings {
		if mapping.field == field {
			return envVarPrefix + suffix
		}
	}
	return ""
}

// EnvVar describes one supported environment variable.
type EnvVar struct {
	Name        string
	Description string
}

// ListEnvVars returns every supported environment variable sorted by name.
func ListEnvVars() []EnvVar {
	vars := make([]EnvVar, 0, len(envMappings))
	for suffix, mapping := range envMappings {
		vars = append(vars, EnvVar{Name: envVarPrefix + suffix, Description: mapping.description})
	}
	sort.Slice(vars, func(i, j int) bool { return vars[i].Name < vars[j].Name })
	return vars
}
