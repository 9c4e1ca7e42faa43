package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gosch/pkg/config"
)

func TestNewConfig(t *testing.T) {
	t.Parallel()

	cfg := config.NewConfig()
	assert.Equal(t, "FileHeader", cfg.Stream)
	assert.Equal(t, config.PolicySkip, cfg.MissingAttributes)
	assert.Equal(t, []string{".SchDoc"}, cfg.Extensions)
	assert.Equal(t, config.FormatText, cfg.Output.Format)
	assert.Equal(t, config.ColorAuto, cfg.Output.Color)
	assert.Zero(t, cfg.Jobs)
}

func TestConfigClone(t *testing.T) {
	t.Run("nil config returns nil", func(t *testing.T) {
		var c *config.Config
		assert.Nil(t, c.Clone())
	})

	t.Run("empty config", func(t *testing.T) {
		c := &config.Config{}
		clone := c.Clone()
		require.NotNil(t, clone)
		assert.NotSame(t, c, clone)
	})

	t.Run("deep copies slices", func(t *testing.T) {
		original := &config.Config{
			Ignore:           []string{"archive/**"},
			SuppressWarnings: []string{"record-padding"},
		}

		clone := original.Clone()
		require.NotNil(t, clone)
		assert.Equal(t, original.Ignore, clone.Ignore)

		clone.Ignore[0] = "changed"
		clone.SuppressWarnings[0] = "changed"
		assert.Equal(t, "archive/**", original.Ignore[0])
		assert.Equal(t, "record-padding", original.SuppressWarnings[0])
	})

	t.Run("preserves all fields", func(t *testing.T) {
		original := &config.Config{
			LogLevel:          "debug",
			Stream:            "Other",
			MissingAttributes: config.PolicyGeneric,
			Strict:            true,
			Extensions:        []string{".SchDoc", ".schdoc"},
			Output:            config.OutputConfig{Format: config.FormatJSON, Color: config.ColorNever, Compact: true},
			Jobs:              4,
		}

		clone := original.Clone()
		require.NotNil(t, clone)
		assert.Equal(t, original, clone)
	})
}

func TestConfigToYAML(t *testing.T) {
	t.Run("nil config returns nil", func(t *testing.T) {
		var cfg *config.Config
		data, err := cfg.ToYAML()
		require.NoError(t, err)
		assert.Nil(t, data)
	})

	t.Run("basic config serializes", func(t *testing.T) {
		cfg := config.NewConfig()
		cfg.Jobs = 8

		data, err := cfg.ToYAML()
		require.NoError(t, err)
		assert.Contains(t, string(data), "stream: FileHeader")
		assert.Contains(t, string(data), "missing_attributes: skip")
		assert.Contains(t, string(data), "  format: text")
		assert.NotContains(t, string(data), "jobs")
	})

	t.Run("header", func(t *testing.T) {
		data, err := config.NewConfig().ToYAMLWithHeader("# top")
		require.NoError(t, err)
		assert.Contains(t, string(data), "# top\n\n")
	})
}

func TestFromYAML(t *testing.T) {
	t.Run("parses valid YAML", func(t *testing.T) {
		cfg, err := config.FromYAML([]byte(`
stream: Additional
missing_attributes: abort
strict: true
suppress_warnings:
  - record-padding
output:
  format: tree
  compact: true
`))
		require.NoError(t, err)
		assert.Equal(t, "Additional", cfg.Stream)
		assert.Equal(t, config.PolicyAbort, cfg.MissingAttributes)
		assert.True(t, cfg.Strict)
		assert.Equal(t, []string{"record-padding"}, cfg.SuppressWarnings)
		assert.Equal(t, config.FormatTree, cfg.Output.Format)
		assert.True(t, cfg.Output.Compact)
	})

	t.Run("rejects malformed YAML", func(t *testing.T) {
		_, err := config.FromYAML([]byte("stream: [unterminated"))
		require.Error(t, err)
	})
}
