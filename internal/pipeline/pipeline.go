package pipeline

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/nao1215/nlpreport/internal/model"
)

// Step defines the interface that all pipeline steps must implement.
// Steps are executed in sequence, with each step receiving the run as left
// by the previous steps.
type Step interface {
	// Do executes the pipeline step.
	// It receives the context for cancellation, and the run to modify.
	Do(ctx context.Context, run *model.Run) error

	// Name returns the step's name for logging purposes.
	Name() string
}

// Pipeline orchestrates the execution of multiple steps.
type Pipeline struct {
	// steps contains the ordered list of steps to execute.
	steps []Step

	// finally contains steps that run after steps, whether they failed or not.
	finally []Step

	// logger is used for structured logging during execution.
	logger *slog.Logger

	// now is the clock used for the run's finish time.
	now func() time.Time
}

// Option is a function that configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets a custom logger for the pipeline.
// If not set, slog.Default() is used.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// WithFinally adds steps that always run after the regular steps, even when
// one of them failed. Their errors are logged and otherwise ignored.
func WithFinally(steps ...Step) Option {
	return func(p *Pipeline) {
		p.finally = append(p.finally, steps...)
	}
}

// New creates a new Pipeline with the given options.
// Steps should be added using AddSteps after creation.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{
		steps: make([]Step, 0),
		now:   time.Now,
	}

	for _, opt := range opts {
		opt(p)
	}

	if p.logger == nil {
		p.logger = slog.Default()
	}

	return p
}

// AddSteps appends steps to the pipeline.
// Steps are executed in the order they are added.
func (p *Pipeline) AddSteps(steps ...Step) {
	p.steps = append(p.steps, steps...)
}

// Execute runs all pipeline steps in sequence and then the finally steps.
// Cancellation is checked before each step. The first error is recorded in
// the run and returned.
//
// Design decision: a run either produces a complete report or none, so the
// pipeline stops at the first failing step. Finally steps still run, on a
// context detached from cancellation, because the history record of a failed
// or interrupted run matters as much as that of a successful one. Their
// errors never replace the step error.
func (p *Pipeline) Execute(ctx context.Context, run *model.Run) error {
	var firstErr error

	p.logger.Debug("starting pipeline",
		"run", run.ID,
		"input", run.InputName,
		"steps", strings.Join(p.StepNames(), ","),
	)

	for _, step := range p.steps {
		if err := ctx.Err(); err != nil {
			p.logger.Debug("pipeline cancelled",
				"step", step.Name(),
				"run", run.ID,
				"reason", err,
			)
			firstErr = err
			break
		}

		p.logger.Debug("executing step",
			"step", step.Name(),
			"run", run.ID,
		)

		if err := step.Do(ctx, run); err != nil {
			p.logger.Debug("step failed",
				"step", step.Name(),
				"run", run.ID,
				"error", err,
			)
			firstErr = err
			break
		}

		run.CompletedSteps = append(run.CompletedSteps, step.Name())
	}

	if firstErr != nil {
		run.Fail(firstErr)
	}
	run.FinishedAt = p.now()

	for _, step := range p.finally {
		if err := step.Do(context.WithoutCancel(ctx), run); err != nil {
			p.logger.Warn("cleanup step failed",
				"step", step.Name(),
				"run", run.ID,
				"error", err,
			)
		}
	}

	return firstErr
}

// StepNames returns the names of all steps in execution order,
// finally steps included.
func (p *Pipeline) StepNames() []string {
	names := make([]string, 0, len(p.steps)+len(p.finally))
	for _, step := range p.steps {
		names = append(names, step.Name())
	}
	for _, step := range p.finally {
		names = append(names, step.Name())
	}
	return names
}
