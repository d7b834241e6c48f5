package pipeline

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/nao1215/nlpreport/internal/annotate"
	"github.com/nao1215/nlpreport/internal/input"
	"github.com/nao1215/nlpreport/internal/model"
	"github.com/nao1215/nlpreport/internal/outdir"
	"github.com/nao1215/nlpreport/internal/report"
	"github.com/spf13/afero"
)

const exampleText = "Kosgi Santosh sent an email to Stanford University. He didn't get a reply."

func fixedClock() time.Time {
	return time.Date(2025, 3, 14, 15, 9, 26, 0, time.Local)
}

func testStages(t *testing.T) annotate.StageConfig {
	t.Helper()
	sc, err := annotate.NewStageConfig(annotate.KnownStages(), "")
	if err != nil {
		t.Fatalf("stage config: %v", err)
	}
	return sc
}

func exampleDocument() *model.Document {
	return &model.Document{
		Text: exampleText,
		Sentences: []model.Sentence{
			{
				Index:     0,
				Text:      "Kosgi Santosh sent an email to Stanford University.",
				Sentiment: model.SentimentNeutral,
				Parse:     "(ROOT (S (NP (NNP Kosgi) (NNP Santosh)) (VP (VBD sent)) (. .)))",
				Dependencies: []model.Dependency{
					{Relation: "root", Governor: 0, GovernorWord: "ROOT", Dependent: 3, DependentWord: "sent"},
				},
				Entities: []model.EntityMention{
					{Text: "Kosgi Santosh", Type: "PERSON"},
				},
			},
			{
				Index:     1,
				Text:      "He didn't get a reply.",
				Sentiment: model.SentimentNegative,
				Parse:     "(ROOT (S (NP (PRP He)) (VP (VBD did)) (. .)))",
			},
		},
		CorefChains: []model.CorefChain{
			{
				ID: 4,
				Mentions: []model.CorefMention{
					{Text: "Kosgi Santosh", SentenceNumber: 1, Representative: true},
					{Text: "He", SentenceNumber: 2},
				},
			},
		},
	}
}

// fakeEngine returns the example document and remembers the texts it saw.
type fakeEngine struct {
	err   error
	mu    sync.Mutex
	texts []string
}

func (f *fakeEngine) Annotate(_ context.Context, text string, _ annotate.StageConfig) (*model.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.texts = append(f.texts, text)
	if f.err != nil {
		return nil, f.err
	}
	doc := exampleDocument()
	doc.Text = text
	return doc, nil
}

// fakeRecorder keeps saved runs in memory.
type fakeRecorder struct {
	err  error
	mu   sync.Mutex
	runs []*model.Run
}

func (f *fakeRecorder) SaveRun(_ context.Context, run *model.Run) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.runs = append(f.runs, run)
	return f.err
}

func (f *fakeRecorder) saved() []*model.Run {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*model.Run(nil), f.runs...)
}

func TestLoadInputStep(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	if err := afero.WriteFile(fs, "/in/note.txt", []byte("  Hello   world.  \r\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := afero.WriteFile(fs, "/in/empty.txt", []byte(" \n\n "), 0o600); err != nil {
		t.Fatal(err)
	}

	t.Run("loads file text", func(t *testing.T) {
		t.Parallel()
		run := model.NewRun("/in/note.txt", "", "/out", model.FormatText)
		if err := NewLoadInputStep(fs).Do(context.Background(), run); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if run.Text != "Hello world." {
			t.Errorf("unexpected text %q", run.Text)
		}
		if run.InputDigest != model.Digest("Hello world.") {
			t.Error("digest should be recomputed from loaded text")
		}
	})

	t.Run("keeps existing text", func(t *testing.T) {
		t.Parallel()
		run := model.NewRun("builtin", exampleText, "/out", model.FormatText)
		if err := NewLoadInputStep(fs).Do(context.Background(), run); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if run.Text != exampleText {
			t.Errorf("text changed to %q", run.Text)
		}
	})

	t.Run("empty document", func(t *testing.T) {
		t.Parallel()
		run := model.NewRun("/in/empty.txt", "", "/out", model.FormatText)
		err := NewLoadInputStep(fs).Do(context.Background(), run)
		if !errors.Is(err, ErrLoadInput) || !errors.Is(err, input.ErrEmptyDocument) {
			t.Errorf("expected ErrLoadInput wrapping ErrEmptyDocument, got %v", err)
		}
	})

	t.Run("no input", func(t *testing.T) {
		t.Parallel()
		run := model.NewRun("", "", "/out", model.FormatText)
		err := NewLoadInputStep(fs).Do(context.Background(), run)
		if !errors.Is(err, ErrNoInput) {
			t.Errorf("expected ErrNoInput, got %v", err)
		}
	})
}

func TestAnnotateStep(t *testing.T) {
	t.Parallel()

	t.Run("sets document", func(t *testing.T) {
		t.Parallel()
		engine := &fakeEngine{}
		run := model.NewRun("builtin", exampleText, "/out", model.FormatText)

		step := NewAnnotateStep(engine, testStages(t), WithAnnotateLogger(discardLogger()))
		if err := step.Do(context.Background(), run); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if run.SentenceCount() != 2 || run.ChainCount() != 1 {
			t.Errorf("unexpected document: %d sentences, %d chains", run.SentenceCount(), run.ChainCount())
		}
		if len(engine.texts) != 1 || engine.texts[0] != exampleText {
			t.Errorf("engine saw %v", engine.texts)
		}
	})

	t.Run("wraps engine errors", func(t *testing.T) {
		t.Parallel()
		engine := &fakeEngine{err: annotate.ErrServer}
		run := model.NewRun("builtin", exampleText, "/out", model.FormatText)

		err := NewAnnotateStep(engine, testStages(t)).Do(context.Background(), run)
		if !errors.Is(err, ErrAnnotation) || !errors.Is(err, annotate.ErrServer) {
			t.Errorf("expected ErrAnnotation wrapping ErrServer, got %v", err)
		}
		if run.Document != nil {
			t.Error("document should stay nil on failure")
		}
	})
}

func TestEnsureDirStep(t *testing.T) {
	t.Parallel()

	t.Run("creates missing directory", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		fs := afero.NewMemMapFs()
		run := model.NewRun("builtin", exampleText, "/out/results", model.FormatText)

		if err := NewEnsureDirStep(fs, WithEnsureDirLogger(logger)).Do(context.Background(), run); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !run.OutputDirCreated {
			t.Error("OutputDirCreated should be true")
		}
		if !strings.Contains(buf.String(), "Created output directory: /out/results") {
			t.Errorf("missing creation log, got %q", buf.String())
		}
	})

	t.Run("existing directory is silent", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		fs := afero.NewMemMapFs()
		if err := fs.MkdirAll("/out", 0o750); err != nil {
			t.Fatal(err)
		}
		run := model.NewRun("builtin", exampleText, "/out", model.FormatText)

		if err := NewEnsureDirStep(fs, WithEnsureDirLogger(logger)).Do(context.Background(), run); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if run.OutputDirCreated {
			t.Error("OutputDirCreated should be false")
		}
		if buf.Len() != 0 {
			t.Errorf("expected no log output, got %q", buf.String())
		}
	})

	t.Run("read-only filesystem", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		fs := afero.NewReadOnlyFs(afero.NewMemMapFs())
		run := model.NewRun("builtin", exampleText, "/out", model.FormatText)

		err := NewEnsureDirStep(fs, WithEnsureDirLogger(logger)).Do(context.Background(), run)
		if !errors.Is(err, outdir.ErrCreateDirectory) {
			t.Errorf("expected ErrCreateDirectory, got %v", err)
		}
		if !strings.Contains(buf.String(), "Could not create output directory. Check permissions.") {
			t.Errorf("missing error log, got %q", buf.String())
		}
	})
}

func TestWriteReportStep(t *testing.T) {
	t.Parallel()

	t.Run("writes report file", func(t *testing.T) {
		t.Parallel()
		fs := afero.NewMemMapFs()
		if err := fs.MkdirAll("/out", 0o750); err != nil {
			t.Fatal(err)
		}
		run := model.NewRun("builtin", exampleText, "/out", model.FormatText)
		run.Document = exampleDocument()

		step := NewWriteReportStep(report.NewFileWriter(fs, report.WithClock(fixedClock)))
		if err := step.Do(context.Background(), run); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		want := report.Path("/out", model.FormatText, fixedClock())
		if run.OutputPath != want {
			t.Errorf("expected %s, got %s", want, run.OutputPath)
		}
		data, err := afero.ReadFile(fs, want)
		if err != nil {
			t.Fatalf("read report: %v", err)
		}
		if !strings.HasPrefix(string(data), report.TextHeader) {
			t.Errorf("unexpected report start %q", string(data))
		}
	})

	t.Run("requires document", func(t *testing.T) {
		t.Parallel()
		run := model.NewRun("builtin", exampleText, "/out", model.FormatText)
		step := NewWriteReportStep(report.NewFileWriter(afero.NewMemMapFs()))
		if err := step.Do(context.Background(), run); !errors.Is(err, ErrNoDocument) {
			t.Errorf("expected ErrNoDocument, got %v", err)
		}
	})

	t.Run("logs write failure", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		base := afero.NewMemMapFs()
		if err := base.MkdirAll("/out", 0o750); err != nil {
			t.Fatal(err)
		}
		run := model.NewRun("builtin", exampleText, "/out", model.FormatText)
		run.Document = exampleDocument()

		step := NewWriteReportStep(
			report.NewFileWriter(afero.NewReadOnlyFs(base), report.WithClock(fixedClock)),
			WithWriteLogger(logger),
		)
		err := step.Do(context.Background(), run)
		if !errors.Is(err, report.ErrWriteReport) {
			t.Errorf("expected ErrWriteReport, got %v", err)
		}
		if run.OutputPath != "" {
			t.Error("OutputPath should stay empty on failure")
		}
		if !strings.Contains(buf.String(), "Cannot write to file: /out/analysis_output_20250314_150926.txt") {
			t.Errorf("missing error log, got %q", buf.String())
		}
	})
}

func TestDefaultPipeline(t *testing.T) {
	t.Parallel()

	t.Run("end to end with example text", func(t *testing.T) {
		t.Parallel()
		fs := afero.NewMemMapFs()
		recorder := &fakeRecorder{}
		p := DefaultPipeline(&fakeEngine{}, testStages(t), fs, nil,
			WithPipelineRecorder(recorder),
			WithPipelineClock(fixedClock),
			WithPipelineLogger(discardLogger()),
			WithPipelineVersion("v1.0.0"),
		)

		run := model.NewRun("builtin", exampleText, "results", model.FormatText)
		if err := p.Execute(context.Background(), run); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if run.Status() != model.RunStatusSucceeded {
			t.Errorf("expected success, got %s", run.Status())
		}
		data, err := afero.ReadFile(fs, run.OutputPath)
		if err != nil {
			t.Fatalf("read report: %v", err)
		}
		out := string(data)
		if got := strings.Count(out, "Sentence: "); got != 2 {
			t.Errorf("expected 2 sentence blocks, got %d", got)
		}
		if !strings.Contains(out, `Chain 4: ["Kosgi Santosh" in sentence 1, "He" in sentence 2]`) {
			t.Errorf("missing coreference chain in %q", out)
		}
		if !strings.HasSuffix(out, report.TextFooter+"\n") {
			t.Errorf("report should end with footer, got %q", out)
		}

		saved := recorder.saved()
		if len(saved) != 1 || saved[0].ID != run.ID {
			t.Errorf("run should be recorded once, got %d", len(saved))
		}
		if len(run.CompletedSteps) != 4 {
			t.Errorf("expected 4 completed steps, got %v", run.CompletedSteps)
		}
	})

	t.Run("annotation failure writes nothing", func(t *testing.T) {
		t.Parallel()
		fs := afero.NewMemMapFs()
		recorder := &fakeRecorder{}
		p := DefaultPipeline(&fakeEngine{err: errors.New("connection refused")}, testStages(t), fs, nil,
			WithPipelineRecorder(recorder),
			WithPipelineLogger(discardLogger()),
		)

		run := model.NewRun("builtin", exampleText, "/out", model.FormatText)
		err := p.Execute(context.Background(), run)
		if !errors.Is(err, ErrAnnotation) {
			t.Fatalf("expected ErrAnnotation, got %v", err)
		}
		if exists, _ := afero.DirExists(fs, "/out"); exists {
			t.Error("output directory should not be created after annotation failure")
		}
		saved := recorder.saved()
		if len(saved) != 1 || saved[0].Status() != model.RunStatusFailed {
			t.Error("failed run should be recorded")
		}
	})

	t.Run("recorder failure does not fail the run", func(t *testing.T) {
		t.Parallel()
		fs := afero.NewMemMapFs()
		p := DefaultPipeline(&fakeEngine{}, testStages(t), fs, nil,
			WithPipelineRecorder(&fakeRecorder{err: errors.New("disk full")}),
			WithPipelineLogger(discardLogger()),
		)

		run := model.NewRun("builtin", exampleText, "/out", model.FormatText)
		if err := p.Execute(context.Background(), run); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("step names", func(t *testing.T) {
		t.Parallel()
		p := DefaultPipeline(&fakeEngine{}, testStages(t), afero.NewMemMapFs(), nil)
		want := "load_input,annotate,ensure_output_dir,write_report"
		if got := strings.Join(p.StepNames(), ","); got != want {
			t.Errorf("expected %s, got %s", want, got)
		}
	})
}
