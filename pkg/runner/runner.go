package runner

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/yaklabco/gosch/internal/logging"
	"github.com/yaklabco/gosch/pkg/config"
	"github.com/yaklabco/gosch/pkg/diag"
	"github.com/yaklabco/gosch/pkg/document"
	"github.com/yaklabco/gosch/pkg/schdoc"
)

// ParseFunc parses one file. schdoc.ParseFile is the default.
type ParseFunc func(path string, opts schdoc.Options) (*schdoc.Document, error)

// Runner parses many schematic documents with a bounded worker pool.
type Runner struct {
	// Parse handles a single file.
	Parse ParseFunc
}

// New creates a Runner. A nil parse uses schdoc.ParseFile.
func New(parse ParseFunc) *Runner {
	if parse == nil {
		parse = schdoc.ParseFile
	}
	return &Runner{Parse: parse}
}

// Run discovers files under opts.Paths and parses them concurrently.
// Outcomes are returned in discovery order regardless of completion order.
// A per-file failure is recorded on its FileOutcome and does not stop the run.
func (r *Runner) Run(ctx context.Context, opts Options) (*Result, error) {
	cfg := opts.effectiveConfig()

	policy, err := document.ParsePolicy(cfg.MissingAttributes)
	if err != nil {
		return nil, fmt.Errorf("missing attribute policy: %w", err)
	}

	files, err := Discover(ctx, opts)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Files: make([]FileOutcome, 0, len(files)),
		Stats: newStats(),
	}
	result.Stats.FilesDiscovered = len(files)

	if len(files) == 0 {
		return result, nil
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}
	jobs = min(jobs, len(files))

	logger := opts.Logger
	if logger == nil {
		logger = logging.FromContextOr(ctx, logging.Discard())
	}
	logger.Debug("parsing files", logging.FieldFiles, len(files), logging.FieldJobs, jobs)

	parseOpts := schdoc.Options{
		Stream:   cfg.Stream,
		Logger:   logger,
		Registry: opts.Registry,
		Policy:   policy,
	}

	workCh := make(chan string)
	outCh := make(chan FileOutcome)

	var wg sync.WaitGroup
	for range jobs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.worker(ctx, workCh, outCh, parseOpts, cfg)
		}()
	}

	go func() {
		defer close(workCh)
		for _, path := range files {
			select {
			case <-ctx.Done():
				return
			case workCh <- path:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(outCh)
	}()

	outcomes := make(map[string]FileOutcome, len(files))
	for outcome := range outCh {
		outcomes[outcome.Path] = outcome
	}

	for _, path := range files {
		if outcome, ok := outcomes[path]; ok {
			result.accumulate(outcome)
		}
	}

	if err := ctx.Err(); err != nil {
		return result, fmt.Errorf("run cancelled: %w", err)
	}

	return result, nil
}

func (r *Runner) worker(
	ctx context.Context,
	workCh <-chan string,
	outCh chan<- FileOutcome,
	opts schdoc.Options,
	cfg *config.Config,
) {
	for path := range workCh {
		if ctx.Err() != nil {
			return
		}

		fileOpts := opts
		fileOpts.Logger = opts.Logger.With(logging.FieldPath, path)

		outcome := FileOutcome{Path: path}
		doc, err := r.Parse(path, fileOpts)
		if err != nil {
			outcome.Error = err
		} else {
			outcome.Document = doc
			outcome.Warnings = diag.Filter(doc.Warnings(), cfg.SuppressWarnings)
		}

		select {
		case <-ctx.Done():
			return
		case outCh <- outcome:
		}
	}
}
