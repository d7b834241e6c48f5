package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	nlplog "github.com/nao1215/nlpreport/internal/log"
	"github.com/nao1215/nlpreport/internal/model"
	"github.com/nao1215/nlpreport/internal/outdir"
	"github.com/nao1215/nlpreport/internal/pipeline"
	"github.com/nao1215/nlpreport/internal/report"
	"github.com/spf13/cobra"
)

// builtinInput names runs over the configured example text.
const builtinInput = "builtin"

// NewAnalyzeCmd creates the analyze command.
func NewAnalyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze [file]",
		Short: "Analyze a document or the built-in example text",
		Long: `Analyze sends one text through the annotation pipeline and writes a report.

Without a file the built-in example text (or pipeline.text from the
configuration file) is analyzed. Supported input files are .txt, .md,
.html, .pdf and .docx.

Examples:
  # Analyze the built-in example text
  nlpreport analyze

  # Analyze a document and write a Markdown report
  nlpreport analyze --format markdown notes.md

  # Replay a saved CoreNLP response without a server
  nlpreport analyze --from-json saved.json

  # Start the server in the background and wait for it
  nlpreport analyze --wait-ready 2m report.pdf`,
		Args: cobra.MaximumNArgs(1),
		RunE: runAnalyzeCmd,
	}

	cmd.Flags().Bool("print", false, "Also print the report to standard output")

	return cmd
}

// runAnalyzeCmd executes a single analysis run.
func runAnalyzeCmd(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s, err := newSession(ctx, cmd)
	if err != nil {
		return err
	}
	defer s.close()

	run := model.NewRun(builtinInput, s.cfg.Text, s.cfg.OutputDir, s.cfg.Format)
	if len(args) == 1 {
		run = model.NewRun(args[0], "", s.cfg.OutputDir, s.cfg.Format)
	}

	if err := s.newPipeline().Execute(ctx, run); err != nil {
		reportFailure(ctx, s.logger, run, err)
		return errRunFailed
	}

	nlplog.Success(ctx, s.logger, "Results written to: "+run.OutputPath)

	printReport, err := cmd.Flags().GetBool("print")
	if err != nil {
		return err
	}
	if printReport {
		meta := report.Metadata{
			RunID:      run.ID,
			Input:      run.InputName,
			Annotators: s.stages.String(),
			Engine:     s.name,
		}
		return report.Render(cmd.OutOrStdout(), run.Format, run.Document,
			report.WithMetadata(meta), report.WithVersion(getVersion()))
	}
	return nil
}

// reportFailure prints the one console line describing why run failed.
// Directory and write failures were already reported by their steps.
func reportFailure(ctx context.Context, logger *slog.Logger, run *model.Run, err error) {
	switch {
	case errors.Is(err, pipeline.ErrAnnotation):
		logUnexpected(ctx, logger, err)
	case errors.Is(err, pipeline.ErrLoadInput):
		logger.ErrorContext(ctx, "Cannot read input: "+run.InputName, "details", err)
	case errors.Is(err, context.Canceled):
		logger.ErrorContext(ctx, "Analysis cancelled", "input", run.InputName)
	case errors.Is(err, outdir.ErrCreateDirectory), errors.Is(err, outdir.ErrNotDirectory),
		errors.Is(err, report.ErrWriteReport), errors.Is(err, report.ErrReportExists):
		// logged by the failing step
	default:
		logger.ErrorContext(ctx, "Analysis failed", "input", run.InputName, "details", err)
	}
}

// logUnexpected reports an annotation failure as fatal. The wrapped error
// chain follows at debug level.
func logUnexpected(ctx context.Context, logger *slog.Logger, err error) {
	nlplog.Fatal(ctx, logger, "Unexpected error: "+err.Error())
	logger.DebugContext(ctx, "Error details", "details", nlplog.ErrorChain(err))
}
