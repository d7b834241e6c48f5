package pipeline

import (
	"context"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/nao1215/nlpreport/internal/model"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency is the number of runs a BatchProcessor executes at once
// unless configured otherwise.
const DefaultConcurrency = 4

// BatchProcessor runs one pipeline per input concurrently.
// It uses errgroup to manage goroutines and respect the concurrency limit.
type BatchProcessor struct {
	// pipelineFactory creates a new pipeline for each run.
	pipelineFactory func() *Pipeline

	// concurrency is the maximum number of concurrent runs.
	concurrency int

	// logger is used for batch-level logging.
	logger *slog.Logger
}

// BatchOption configures a BatchProcessor.
type BatchOption func(*BatchProcessor)

// WithBatchLogger sets a custom logger for batch processing.
func WithBatchLogger(logger *slog.Logger) BatchOption {
	return func(b *BatchProcessor) {
		b.logger = logger
	}
}

// WithConcurrency sets the maximum number of concurrent runs.
// Values below 1 keep the default.
func WithConcurrency(n int) BatchOption {
	return func(b *BatchProcessor) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// NewBatchProcessor creates a new BatchProcessor.
// pipelineFactory is called once per run so no pipeline state is shared
// between runs.
func NewBatchProcessor(pipelineFactory func() *Pipeline, opts ...BatchOption) *BatchProcessor {
	bp := &BatchProcessor{
		pipelineFactory: pipelineFactory,
		concurrency:     DefaultConcurrency,
	}

	for _, opt := range opts {
		opt(bp)
	}

	if bp.logger == nil {
		bp.logger = slog.Default()
	}

	return bp
}

// ProcessBatch executes all runs and calls callback, when not nil, for each
// finished run with its index in runs. The callback is called from the
// goroutine that executed the run, so it must be safe for concurrent use.
// A failing run does not stop the others; its error is recorded in the run.
// The returned error is non-nil only when the batch was cancelled.
func (bp *BatchProcessor) ProcessBatch(
	ctx context.Context,
	runs []*model.Run,
	callback func(run *model.Run, index int),
) error {
	if callback == nil {
		callback = func(*model.Run, int) {}
	}

	bp.logger.Debug("starting batch processing",
		"total_runs", len(runs),
		"concurrency", bp.concurrency,
	)

	startTime := time.Now()

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(bp.concurrency)

	for i, run := range runs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				run.Fail(err)
				callback(run, i)
				return err
			}

			p := bp.pipelineFactory()
			if err := p.Execute(ctx, run); err != nil {
				bp.logger.Debug("run failed",
					"input", run.InputName,
					"error", err,
				)
			}

			callback(run, i)
			return nil
		})
	}

	err := g.Wait()

	bp.logger.Debug("batch processing complete",
		"total_runs", len(runs),
		"elapsed", time.Since(startTime).Round(time.Millisecond),
	)

	return err
}

// BatchOutputDirs returns one output directory per input below base, named
// after the input file without its extension. Inputs sharing a name get a
// numeric suffix so their reports never land in the same directory.
func BatchOutputDirs(base string, inputs []string) []string {
	dirs := make([]string, len(inputs))
	used := make(map[string]bool, len(inputs))

	for i, in := range inputs {
		name := filepath.Base(in)
		stem := strings.TrimSuffix(name, filepath.Ext(name))
		if stem == "" || stem == "." {
			stem = "input"
		}

		candidate := stem
		for n := 2; used[candidate]; n++ {
			candidate = stem + "-" + strconv.Itoa(n)
		}
		used[candidate] = true
		dirs[i] = filepath.Join(base, candidate)
	}
	return dirs
}
