package configloader

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gosch/pkg/config"
)

func isolated(dir string) LoadOptions {
	return LoadOptions{
		WorkingDir:         dir,
		IgnoreSystemConfig: true,
		IgnoreUserConfig:   true,
		IgnoreEnv:          true,
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestLoad_Defaults(t *testing.T) {
	t.Parallel()

	result, err := Load(context.Background(), isolated(t.TempDir()))
	require.NoError(t, err)
	require.NotNil(t, result.Config)

	assert.Equal(t, config.DefaultStream, result.Config.Stream)
	assert.Equal(t, config.PolicySkip, result.Config.MissingAttributes)
	assert.Empty(t, result.LoadedFrom)
}

func TestLoad_ProjectConfig(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"yaml", ".gosch.yml", "missing_attributes: generic\noutput:\n  format: tree\n"},
		{"toml", ".gosch.toml", "missing_attributes = \"generic\"\n[output]\nformat = \"tree\"\n"},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			tmpDir := t.TempDir()
			writeFile(t, filepath.Join(tmpDir, ".git", "HEAD"), "ref: main\n")
			writeFile(t, filepath.Join(tmpDir, testCase.file), testCase.content)
			nested := filepath.Join(tmpDir, "boards", "main")
			require.NoError(t, os.MkdirAll(nested, 0o755))

			result, err := Load(context.Background(), isolated(nested))
			require.NoError(t, err)

			assert.Equal(t, config.PolicyGeneric, result.Config.MissingAttributes)
			assert.Equal(t, config.FormatTree, result.Config.Output.Format)
			assert.Equal(t, config.DefaultStream, result.Config.Stream, "defaults survive the merge")
			assert.Equal(t, []string{filepath.Join(tmpDir, testCase.file)}, result.LoadedFrom)
		})
	}
}

func TestLoad_StopsAtVCSRoot(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	writeFile(t, filepath.Join(tmpDir, ".gosch.yml"), "stream: Outer\n")
	repo := filepath.Join(tmpDir, "repo")
	require.NoError(t, os.MkdirAll(filepath.Join(repo, ".git"), 0o755))

	path, err := FindProjectConfig(context.Background(), repo)
	require.NoError(t, err)
	assert.Empty(t, path)
}

func TestLoad_ExplicitConfig(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	writeFile(t, filepath.Join(tmpDir, ".gosch.yml"), "stream: Project\nstrict: true\n")
	customPath := filepath.Join(tmpDir, "custom.toml")
	writeFile(t, customPath, "stream = \"Explicit\"\nunknown_key = 1\n")

	opts := isolated(tmpDir)
	opts.ExplicitPath = customPath

	result, err := Load(context.Background(), opts)
	require.NoError(t, err)

	assert.Equal(t, "Explicit", result.Config.Stream)
	assert.True(t, result.Config.Strict, "project settings not overridden stay")
	assert.Len(t, result.LoadedFrom, 2)
	assert.Equal(t, customPath, result.Paths.Explicit)
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], `unknown key "unknown_key"`)
}

func TestLoad_CLIOverrides(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	writeFile(t, filepath.Join(tmpDir, ".gosch.yml"), "output:\n  format: json\n  color: never\n")

	opts := isolated(tmpDir)
	opts.CLIConfig = &config.Config{
		Output: config.OutputConfig{Format: config.FormatBOM},
		Jobs:   3,
	}

	result, err := Load(context.Background(), opts)
	require.NoError(t, err)
	assert.Equal(t, config.FormatBOM, result.Config.Output.Format)
	assert.Equal(t, config.ColorNever, result.Config.Output.Color)
	assert.Equal(t, 3, result.Config.Jobs)
}

func TestLoad_InvalidConfig(t *testing.T) {
	t.Parallel()

	t.Run("invalid value", func(t *testing.T) {
		t.Parallel()

		tmpDir := t.TempDir()
		writeFile(t, filepath.Join(tmpDir, ".gosch.yml"), "missing_attributes: ignore\n")

		_, err := Load(context.Background(), isolated(tmpDir))
		require.Error(t, err)

		var validationErr *ValidationError
		require.ErrorAs(t, err, &validationErr)
		assert.Equal(t, "missing_attributes", validationErr.Field)
	})

	t.Run("malformed file", func(t *testing.T) {
		t.Parallel()

		tmpDir := t.TempDir()
		writeFile(t, filepath.Join(tmpDir, ".gosch.toml"), "stream = \n")

		_, err := Load(context.Background(), isolated(tmpDir))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "load project config")
	})
}

func TestLoad_ContextCancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Load(ctx, isolated(t.TempDir()))
	require.ErrorIs(t, err, context.Canceled)
}

//nolint:paralleltest // Mutates the environment.
func TestLoadFromEnv(t *testing.T) {
	t.Setenv("GOSCH_STREAM", "Env")
	t.Setenv("GOSCH_STRICT", "true")
	t.Setenv("GOSCH_SUPPRESS_WARNINGS", "record-padding, missing-sheet,")
	t.Setenv("GOSCH_FORMAT", "md")
	t.Setenv("GOSCH_JOBS", "2")

	cfg := config.NewConfig()
	require.NoError(t, LoadFromEnv(cfg))

	assert.Equal(t, "Env", cfg.Stream)
	assert.True(t, cfg.Strict)
	assert.Equal(t, []string{"record-padding", "missing-sheet"}, cfg.SuppressWarnings)
	assert.Equal(t, config.FormatMarkdown, cfg.Output.Format)
	assert.Equal(t, 2, cfg.Jobs)

	t.Setenv("GOSCH_STRICT", "maybe")
	require.ErrorContains(t, LoadFromEnv(config.NewConfig()), "GOSCH_STRICT")
}

func TestEnvVarNames(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "GOSCH_FORMAT", GetEnvVarName("output.format"))
	assert.Empty(t, GetEnvVarName("nope"))

	vars := ListEnvVars()
	require.Len(t, vars, len(envMappings))
	assert.Equal(t, "GOSCH_COLOR", vars[0].Name)
}

func TestMerge(t *testing.T) {
	t.Parallel()

	base := config.NewConfig()
	base.Ignore = []string{"a/**"}

	merged := MergeAll(base, &config.Config{Strict: true}, &config.Config{Ignore: []string{"b/**"}})
	assert.True(t, merged.Strict)
	assert.Equal(t, []string{"b/**"}, merged.Ignore)
	assert.Equal(t, config.DefaultStream, merged.Stream)
	assert.Equal(t, []string{"a/**"}, base.Ignore, "inputs are not modified")

	assert.Nil(t, MergeAll())
}

func TestValidate(t *testing.T) {
	t.Parallel()

	cfg := config.NewConfig()
	cfg.LogLevel = "trace"
	cfg.Output.Color = "rainbow"
	cfg.Extensions = []string{"SchDoc"}
	cfg.Ignore = []string{"[bad"}
	cfg.SuppressWarnings = []string{"record-padding", "made-up"}
	cfg.Jobs = -1

	result := ValidateWithFile(cfg, "gosch.yml")
	assert.False(t, result.Valid())
	assert.True(t, result.HasWarnings())

	fields := make([]string, 0, len(result.Errors))
	for _, e := range result.Errors {
		fields = append(fields, e.Field)
		assert.Equal(t, "gosch.yml", e.FilePath)
	}
	assert.ElementsMatch(t, []string{"log_level", "output.color", "jobs", "extensions[0]", "ignore[0]"}, fields)

	require.Len(t, result.Warnings, 1)
	assert.Equal(t, "suppress_warnings[1]", result.Warnings[0].Field)
	assert.Len(t, result.AllMessages(), 6)
	assert.Contains(t, result.Errors[0].Error(), "gosch.yml: ")
}

func TestWriteConfig(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	for _, name := range []string{".gosch.yml", ".gosch.toml"} {
		path := filepath.Join(tmpDir, name)
		require.NoError(t, WriteConfig(config.NewConfig(), path, false))

		cfg, unknown, err := loadConfigFile(path)
		require.NoError(t, err, name)
		assert.Empty(t, unknown)
		assert.Equal(t, config.DefaultStream, cfg.Stream)

		require.Error(t, WriteConfig(config.NewConfig(), path, false), "refuses to overwrite")
		require.NoError(t, WriteConfig(config.NewConfig(), path, true))
	}
}
