package cli

import (
	"errors"
	"io/fs"

	"github.com/yaklabco/gosch/pkg/runner"
)

// Exit codes for gosch.
const (
	// ExitSuccess indicates every file parsed without a reported problem.
	ExitSuccess = 0

	// ExitParseErrors indicates at least one file failed to parse.
	ExitParseErrors = 1

	// ExitWarnings indicates warnings were reported in strict mode.
	ExitWarnings = 2

	// ExitInvalidUsage indicates invalid command-line usage.
	ExitInvalidUsage = 64

	// ExitConfigError indicates configuration file errors.
	ExitConfigError = 65

	// ExitInternalError indicates an internal error.
	ExitInternalError = 70

	// ExitIOError indicates file I/O errors.
	ExitIOError = 74
)

var (
	// ErrParseFailures is returned when one or more files failed to parse.
	ErrParseFailures = errors.New("one or more files failed to parse")

	// ErrWarningsFound is returned in strict mode when warnings were reported.
	ErrWarningsFound = errors.New("decoding warnings reported in strict mode")

	// ErrConfig marks configuration load or validation failures.
	ErrConfig = errors.New("invalid configuration")

	// ErrUsage marks invalid flag values.
	ErrUsage = errors.New("invalid usage")
)

// ExitCodeFromResult determines the exit code based on result and strict mode.
func ExitCodeFromResult(result *runner.Result, strict bool) int {
	if result == nil {
		return ExitSuccess
	}

	if result.HasFailures() {
		return ExitParseErrors
	}

	if strict && result.HasWarnings() {
		return ExitWarnings
	}

	return ExitSuccess
}

// errorForExitCode returns the sentinel signalling code, or nil for success.
func errorForExitCode(code int) error {
	switch code {
	case ExitParseErrors:
		return ErrParseFailures
	case ExitWarnings:
		return ErrWarningsFound
	default:
		return nil
	}
}

// ExitCode maps an error returned by a command to a process exit code.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, ErrParseFailures):
		return ExitParseErrors
	case errors.Is(err, ErrWarningsFound):
		return ExitWarnings
	case errors.Is(err, ErrConfig):
		return ExitConfigError
	case errors.Is(err, ErrUsage):
		return ExitInvalidUsage
	case errors.As(err, new(*fs.PathError)):
		return ExitIOError
	default:
		return ExitInternalError
	}
}

// IsResultSignal reports whether err only carries a result-derived exit code
// and should not be logged as a failure.
func IsResultSignal(err error) bool {
	return errors.Is(err, ErrParseFailures) || errors.Is(err, ErrWarningsFound)
}
