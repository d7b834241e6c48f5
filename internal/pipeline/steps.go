package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/nao1215/nlpreport/internal/annotate"
	"github.com/nao1215/nlpreport/internal/input"
	"github.com/nao1215/nlpreport/internal/model"
	"github.com/nao1215/nlpreport/internal/outdir"
	"github.com/nao1215/nlpreport/internal/report"
	"github.com/spf13/afero"
)

// LoadInputStep reads the input file of a run into its text.
// Runs that already carry text (the built-in example) are left untouched.
type LoadInputStep struct {
	fs afero.Fs
}

// NewLoadInputStep creates a step that loads input files from fs.
func NewLoadInputStep(fs afero.Fs) *LoadInputStep {
	return &LoadInputStep{fs: fs}
}

// Name returns the step name.
func (s *LoadInputStep) Name() string {
	return "load_input"
}

// Do executes the load step.
func (s *LoadInputStep) Do(_ context.Context, run *model.Run) error {
	if run.Text != "" {
		return nil
	}
	if run.InputName == "" {
		return ErrNoInput
	}

	text, err := input.Load(s.fs, run.InputName)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrLoadInput, err)
	}
	run.Text = text
	run.InputDigest = model.Digest(text)
	return nil
}

// AnnotateStep sends the run's text through the annotation engine.
type AnnotateStep struct {
	engine annotate.Engine
	stages annotate.StageConfig
	logger *slog.Logger
}

// AnnotateStepOption configures an AnnotateStep.
type AnnotateStepOption func(*AnnotateStep)

// WithAnnotateLogger sets a custom logger for the annotate step.
func WithAnnotateLogger(logger *slog.Logger) AnnotateStepOption {
	return func(s *AnnotateStep) {
		s.logger = logger
	}
}

// NewAnnotateStep creates a step that annotates with engine using stages.
func NewAnnotateStep(engine annotate.Engine, stages annotate.StageConfig, opts ...AnnotateStepOption) *AnnotateStep {
	s := &AnnotateStep{
		engine: engine,
		stages: stages,
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Name returns the step name.
func (s *AnnotateStep) Name() string {
	return "annotate"
}

// Do executes the annotate step.
func (s *AnnotateStep) Do(ctx context.Context, run *model.Run) error {
	start := time.Now()

	doc, err := s.engine.Annotate(ctx, run.Text, s.stages)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrAnnotation, err)
	}
	run.Document = doc

	s.logger.Debug("annotation completed",
		"sentences", len(doc.Sentences),
		"chains", len(doc.CorefChains),
		"duration", time.Since(start).Round(time.Millisecond),
	)
	return nil
}

// EnsureDirStep makes sure the run's output directory exists.
type EnsureDirStep struct {
	fs     afero.Fs
	logger *slog.Logger
}

// EnsureDirStepOption configures an EnsureDirStep.
type EnsureDirStepOption func(*EnsureDirStep)

// WithEnsureDirLogger sets a custom logger for the directory step.
func WithEnsureDirLogger(logger *slog.Logger) EnsureDirStepOption {
	return func(s *EnsureDirStep) {
		s.logger = logger
	}
}

// NewEnsureDirStep creates a step that creates output directories on fs.
func NewEnsureDirStep(fs afero.Fs, opts ...EnsureDirStepOption) *EnsureDirStep {
	s := &EnsureDirStep{
		fs:     fs,
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Name returns the step name.
func (s *EnsureDirStep) Name() string {
	return "ensure_output_dir"
}

// Do executes the directory step.
func (s *EnsureDirStep) Do(ctx context.Context, run *model.Run) error {
	created, err := outdir.Ensure(s.fs, run.OutputDir)
	if err != nil {
		s.logger.ErrorContext(ctx, "Could not create output directory. Check permissions.",
			"path", run.OutputDir,
			"cause", err,
		)
		return err
	}

	run.OutputDirCreated = created
	if created {
		s.logger.InfoContext(ctx, "Created output directory: "+absPath(run.OutputDir))
	}
	return nil
}

// WriteReportStep renders the annotated document into a new report file.
type WriteReportStep struct {
	writer  *report.FileWriter
	engine  string
	stages  annotate.StageConfig
	version string
	logger  *slog.Logger
}

// WriteReportStepOption configures a WriteReportStep.
type WriteReportStepOption func(*WriteReportStep)

// WithWriteLogger sets a custom logger for the write step.
func WithWriteLogger(logger *slog.Logger) WriteReportStepOption {
	return func(s *WriteReportStep) {
		s.logger = logger
	}
}

// WithReportVersion sets the program version recorded in reports.
func WithReportVersion(version string) WriteReportStepOption {
	return func(s *WriteReportStep) {
		s.version = version
	}
}

// WithReportEngine sets the engine description recorded in reports.
func WithReportEngine(engine string) WriteReportStepOption {
	return func(s *WriteReportStep) {
		s.engine = engine
	}
}

// WithReportStages sets the stage list recorded in reports.
func WithReportStages(stages annotate.StageConfig) WriteReportStepOption {
	return func(s *WriteReportStep) {
		s.stages = stages
	}
}

// NewWriteReportStep creates a step that writes reports with writer.
func NewWriteReportStep(writer *report.FileWriter, opts ...WriteReportStepOption) *WriteReportStep {
	s := &WriteReportStep{
		writer: writer,
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Name returns the step name.
func (s *WriteReportStep) Name() string {
	return "write_report"
}

// Do executes the write step.
func (s *WriteReportStep) Do(ctx context.Context, run *model.Run) error {
	if run.Document == nil {
		return ErrNoDocument
	}

	meta := report.Metadata{
		RunID:      run.ID,
		Input:      run.InputName,
		Annotators: s.stages.String(),
		Engine:     s.engine,
	}

	var opts []report.Option
	if s.version != "" {
		opts = append(opts, report.WithVersion(s.version))
	}

	path, err := s.writer.WriteFile(run.OutputDir, run.Format, run.Document, meta, opts...)
	if err != nil {
		s.logger.ErrorContext(ctx, "Cannot write to file: "+path, "details", err)
		return err
	}
	run.OutputPath = path
	return nil
}

// RunRecorder stores finished runs.
type RunRecorder interface {
	SaveRun(ctx context.Context, run *model.Run) error
}

// RecordStep saves the run in the history database.
// It is meant to be added with WithFinally so failed runs are recorded too.
type RecordStep struct {
	recorder RunRecorder
}

// NewRecordStep creates a step that saves runs with recorder.
func NewRecordStep(recorder RunRecorder) *RecordStep {
	return &RecordStep{recorder: recorder}
}

// Name returns the step name.
func (s *RecordStep) Name() string {
	return "record_history"
}

// Do executes the record step.
func (s *RecordStep) Do(ctx context.Context, run *model.Run) error {
	if err := s.recorder.SaveRun(ctx, run); err != nil {
		return fmt.Errorf("failed to record run %s: %w", run.ID, err)
	}
	return nil
}

// absPath returns the absolute form of path, or path itself when it cannot
// be resolved.
func absPath(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return abs
}

// DefaultPipelineConfig holds the settings of the standard analysis pipeline.
type DefaultPipelineConfig struct {
	// Recorder saves finished runs. Nil disables history.
	Recorder RunRecorder

	// Version is recorded in JSON and Markdown reports.
	Version string

	// EngineName describes the annotation engine in report metadata.
	EngineName string

	// Now is the clock used for report file names.
	Now func() time.Time

	// Logger is used by the steps.
	Logger *slog.Logger
}

// DefaultPipelineOption configures DefaultPipelineConfig.
type DefaultPipelineOption func(*DefaultPipelineConfig)

// WithPipelineRecorder records every run with recorder.
func WithPipelineRecorder(recorder RunRecorder) DefaultPipelineOption {
	return func(c *DefaultPipelineConfig) {
		c.Recorder = recorder
	}
}

// WithPipelineVersion sets the version recorded in reports.
func WithPipelineVersion(version string) DefaultPipelineOption {
	return func(c *DefaultPipelineConfig) {
		c.Version = version
	}
}

// WithPipelineEngineName sets the engine description recorded in reports.
func WithPipelineEngineName(name string) DefaultPipelineOption {
	return func(c *DefaultPipelineConfig) {
		c.EngineName = name
	}
}

// WithPipelineClock sets the clock used for report file names.
func WithPipelineClock(now func() time.Time) DefaultPipelineOption {
	return func(c *DefaultPipelineConfig) {
		c.Now = now
	}
}

// WithPipelineLogger sets the logger used by the steps.
func WithPipelineLogger(logger *slog.Logger) DefaultPipelineOption {
	return func(c *DefaultPipelineConfig) {
		c.Logger = logger
	}
}

// DefaultPipeline creates the standard analysis pipeline:
// load input, annotate, ensure the output directory, write the report, and
// record the run when a recorder is configured.
func DefaultPipeline(engine annotate.Engine, stages annotate.StageConfig, fs afero.Fs, pipelineOpts []Option, configOpts ...DefaultPipelineOption) *Pipeline {
	cfg := &DefaultPipelineConfig{
		Now:    time.Now,
		Logger: slog.Default(),
	}
	for _, opt := range configOpts {
		opt(cfg)
	}

	opts := append([]Option{WithLogger(cfg.Logger)}, pipelineOpts...)
	if cfg.Recorder != nil {
		opts = append(opts, WithFinally(NewRecordStep(cfg.Recorder)))
	}
	p := New(opts...)

	p.AddSteps(
		NewLoadInputStep(fs),
		NewAnnotateStep(engine, stages, WithAnnotateLogger(cfg.Logger)),
		NewEnsureDirStep(fs, WithEnsureDirLogger(cfg.Logger)),
		NewWriteReportStep(
			report.NewFileWriter(fs, report.WithClock(cfg.Now)),
			WithWriteLogger(cfg.Logger),
			WithReportVersion(cfg.Version),
			WithReportEngine(cfg.EngineName),
			WithReportStages(stages),
		),
	)

	return p
}
