package configloader

import (
	"slices"

	"github.com/yaklabco/gosch/pkg/config"
)

// merge combines two configurations, with override taking precedence over base.
// The merge follows these rules:
//   - Scalar values: override overwrites base if override is non-zero
//   - Slices: override replaces base entirely if override is non-nil
//   - Nil/unset values in override do not override values in base
func merge(base, override *config.Config) *config.Config {
	if base == nil {
		return override
	}
	if override == nil {
		return base
	}

	result := *base

	if override.LogLevel != "" {
		result.LogLevel = override.LogLevel
	}
	if override.Stream != "" {
		result.Stream = override.Stream
	}
	if override.MissingAttributes != "" {
		result.MissingAttributes = override.MissingAttributes
	}
	if override.Jobs != 0 {
		result.Jobs = override.Jobs
	}

	// Booleans can only be switched on by a later layer; false is indistinguishable
	// from unset.
	if override.Strict {
		result.Strict = true
	}
	if override.Output.Compact {
		result.Output.Compact = true
	}

	if override.Output.Format != "" {
		result.Output.Format = override.Output.Format
	}
	if override.Output.Color != "" {
		result.Output.Color = override.Output.Color
	}

	if override.Extensions != nil {
		result.Extensions = slices.Clone(override.Extensions)
	}
	if override.Ignore != nil {
		result.Ignore = slices.Clone(override.Ignore)
	}
	if override.SuppressWarnings != nil {
		result.SuppressWarnings = slices.Clone(override.SuppressWarnings)
	}

	return &result
}

// MergeAll merges multiple configurations in order, with later configs taking precedence.
func MergeAll(configs ...*config.Config) *config.Config {
	if len(configs) == 0 {
		return nil
	}

	result := configs[0]
	for i := 1; i < len(configs); i++ {
		result = merge(result, configs[i])
	}
	return result
}
