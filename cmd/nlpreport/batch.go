package main

import (
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gosuri/uiprogress"
	"github.com/nao1215/nlpreport/internal/config"
	"github.com/nao1215/nlpreport/internal/input"
	nlplog "github.com/nao1215/nlpreport/internal/log"
	"github.com/nao1215/nlpreport/internal/model"
	"github.com/nao1215/nlpreport/internal/pipeline"
	"github.com/spf13/cobra"
)

// NewBatchCmd creates the batch command.
func NewBatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch <file>...",
		Short: "Analyze several documents concurrently",
		Long: `Batch analyzes every given document with its own pipeline.

Each input writes its report into <output-dir>/<input name>/ so report
timestamps never collide. Inputs with an unsupported extension are rejected
before any analysis starts. A failing input does not stop the others; the
command exits non-zero if any input failed.

Examples:
  # Analyze three documents, two at a time
  nlpreport batch --batch 2 a.txt b.md c.pdf

  # Write JSON reports below out/
  nlpreport batch -o out -f json chapters/*.md`,
		Args: cobra.MinimumNArgs(1),
		RunE: runBatchCmd,
	}

	cmd.Flags().IntP("batch", "b", config.DefaultBatchSize, "Number of concurrent analyses")
	cmd.Flags().Bool("no-progress", false, "Do not show the progress bar")

	return cmd
}

// runBatchCmd executes the batch command.
func runBatchCmd(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s, err := newSession(ctx, cmd)
	if err != nil {
		return err
	}
	defer s.close()

	noProgress, err := cmd.Flags().GetBool("no-progress")
	if err != nil {
		return err
	}

	unsupported := 0
	for _, in := range args {
		if !input.IsSupported(in) {
			s.logger.ErrorContext(ctx, "Unsupported input format: "+in)
			unsupported++
		}
	}
	if unsupported > 0 {
		return errRunFailed
	}

	dirs := pipeline.BatchOutputDirs(s.cfg.OutputDir, args)
	runs := make([]*model.Run, len(args))
	for i, in := range args {
		runs[i] = model.NewRun(in, "", dirs[i], s.cfg.Format)
	}

	s.logger.Info(fmt.Sprintf("Analyzing %d documents", len(runs)), "concurrency", s.cfg.BatchSize)
	startTime := time.Now()

	var (
		progress *uiprogress.Progress
		bar      *uiprogress.Bar
	)
	if !noProgress {
		progress = uiprogress.New()
		progress.SetOut(cmd.ErrOrStderr())
		bar = progress.AddBar(len(runs))
		bar.AppendCompleted()
		bar.PrependElapsed()
		progress.Start()
	}

	bp := pipeline.NewBatchProcessor(
		s.newPipeline,
		pipeline.WithConcurrency(s.cfg.BatchSize),
		pipeline.WithBatchLogger(s.logger),
	)

	var mu sync.Mutex
	err = bp.ProcessBatch(ctx, runs, func(_ *model.Run, _ int) {
		mu.Lock()
		defer mu.Unlock()
		if bar != nil {
			bar.Incr()
		}
	})
	if progress != nil {
		progress.Stop()
	}

	failed := 0
	for _, run := range runs {
		if run.Err != nil {
			failed++
			reportFailure(ctx, s.logger, run, run.Err)
			continue
		}
		nlplog.Success(ctx, s.logger, "Results written to: "+run.OutputPath, "input", run.InputName)
	}

	s.logger.Info("Batch finished",
		"succeeded", len(runs)-failed,
		"failed", failed,
		"elapsed", time.Since(startTime).Round(time.Millisecond).String(),
	)

	if err != nil || failed > 0 {
		return errRunFailed
	}
	return nil
}
