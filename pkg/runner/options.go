// Package runner discovers schematic documents and parses them concurrently.
package runner

import (
	"github.com/charmbracelet/log"

	"github.com/yaklabco/gosch/pkg/config"
	"github.com/yaklabco/gosch/pkg/schematic"
)

// Options controls a multi-file run.
type Options struct {
	// Paths are the user-specified files or directories.
	// If empty, defaults to the current working directory.
	Paths []string

	// WorkingDir is the base directory used to resolve relative Paths.
	// If empty, the current process working directory is used.
	WorkingDir string

	// Extensions lists the document extensions to discover, matched
	// case-insensitively. Defaults to DefaultExtensions().
	Extensions []string

	// IncludeGlobs restrict discovery to matching paths, relative to WorkingDir.
	IncludeGlobs []string

	// ExcludeGlobs skip matching files or directories.
	ExcludeGlobs []string

	// FollowSymlinks controls whether directory symlinks are traversed.
	FollowSymlinks bool

	// Jobs is the maximum number of concurrent parsers. 0 or negative means runtime.NumCPU().
	Jobs int

	// Config is the resolved configuration for this run. Nil uses config.NewConfig().
	Config *config.Config

	// Logger receives per-file debug output. Nil uses the context's logger,
	// or discards when the context carries none.
	Logger *log.Logger

	// Registry overrides the record type registry for every file.
	Registry *schematic.Registry
}

// DefaultExtensions returns the default set of schematic document extensions.
func DefaultExtensions() []string {
	return []string{".SchDoc"}
}

// OptionsFromConfig seeds Options from a resolved configuration.
func OptionsFromConfig(cfg *config.Config, paths []string) Options {
	opts := Options{Paths: paths, Config: cfg}
	if cfg != nil {
		opts.Extensions = cfg.Extensions
		opts.ExcludeGlobs = cfg.Ignore
		opts.Jobs = cfg.Jobs
	}
	return opts
}

func (o Options) effectiveExtensions() []string {
	if len(o.Extensions) == 0 {
		return DefaultExtensions()
	}
	return o.Extensions
}

func (o Options) effectivePaths() []string {
	if len(o.Paths) == 0 {
		return []string{"."}
	}
	return o.Paths
}

func (o Options) effectiveConfig() *config.Config {
	if o.Config == nil {
		return config.NewConfig()
	}
	return o.Config
}
