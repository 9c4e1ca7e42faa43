package analysis

// SortField specifies how to sort analysis results.
type SortField string

const (
	// SortByCount sorts by warning count (descending by default).
	SortByCount SortField = "count"
	// SortByAlpha sorts alphabetically.
	SortByAlpha SortField = "alpha"
)

// IsValid returns true if the sort field is valid.
func (s SortField) IsValid() bool {
	switch s {
	case SortByCount, SortByAlpha:
		return true
	default:
		return false
	}
}

// Options configures the Analyze function.
type Options struct {
	// IncludeWarnings includes the flat warning list.
	IncludeWarnings bool

	// IncludeByFile includes the per-file analysis.
	IncludeByFile bool

	// IncludeByCode includes the per-code analysis.
	IncludeByCode bool

	// IncludeByKind includes object counts per kind.
	IncludeByKind bool

	// SortBy specifies how to sort ByFile, ByCode and ByKind.
	SortBy SortField

	// SortDesc sorts counts in descending order (highest first).
	SortDesc bool

	// WorkingDir is the directory to make paths relative to.
	// If empty, paths are kept as-is (typically absolute).
	WorkingDir string
}

// DefaultOptions returns Options with sensible defaults.
func DefaultOptions() Options {
	return Options{
		IncludeWarnings: true,
		IncludeByFile:   true,
		IncludeByCode:   true,
		IncludeByKind:   true,
		SortBy:          SortByCount,
		SortDesc:        true,
	}
}
