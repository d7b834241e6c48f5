package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/nao1215/nlpreport/internal/annotate"
	"github.com/nao1215/nlpreport/internal/config"
	"github.com/nao1215/nlpreport/internal/database"
	nlplog "github.com/nao1215/nlpreport/internal/log"
	"github.com/nao1215/nlpreport/internal/pipeline"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// session bundles everything a run needs that is built once per command.
type session struct {
	cfg     *config.Config
	logger  *slog.Logger
	fs      afero.Fs
	engine  annotate.Engine
	name    string
	stages  annotate.StageConfig
	history *database.HistoryDB
}

// newSession builds the configuration, logger, annotation engine and history
// database for cmd. The caller must call close.
func newSession(ctx context.Context, cmd *cobra.Command) (*session, error) {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration error: %w", err)
	}

	logger := nlplog.NewConsoleLogger(cmd.OutOrStdout(), cmd.ErrOrStderr(), cfg.Verbose)

	// Invalid stages are reported like annotation failures.
	stages, err := annotate.NewStageConfig(cfg.Annotators, cfg.POSModel)
	if err != nil {
		logUnexpected(ctx, logger, err)
		return nil, fmt.Errorf("%w: %w", errRunFailed, err)
	}

	s := &session{
		cfg:    cfg,
		logger: logger,
		fs:     afero.NewOsFs(),
		stages: stages,
	}

	if err := s.connect(ctx); err != nil {
		logUnexpected(ctx, logger, err)
		return nil, fmt.Errorf("%w: %w", errRunFailed, err)
	}

	if cfg.SaveToDB {
		db, err := database.Open(cfg.DBDir, database.DefaultOptions())
		if err != nil {
			logger.Warn("run history disabled", "error", err)
		} else {
			s.history = db
			logger.Debug("history database opened", "path", db.Path())
		}
	}

	return s, nil
}

// connect creates the annotation engine.
func (s *session) connect(ctx context.Context) error {
	if !s.cfg.UsesServer() {
		s.engine = annotate.NewFileEngine(s.fs, s.cfg.FromJSON)
		s.name = "file:" + s.cfg.FromJSON
		return nil
	}

	opts := []annotate.ClientOption{
		annotate.WithTimeout(s.cfg.Timeout),
		annotate.WithClientLogger(s.logger),
		annotate.WithUserAgent(config.AppName + "/" + getVersion()),
	}
	if s.cfg.ServerUsername != "" {
		opts = append(opts, annotate.WithBasicAuth(s.cfg.ServerUsername, s.cfg.ServerPassword))
	}
	client := annotate.NewCoreNLPClient(s.cfg.ServerURL, opts...)

	if s.cfg.WaitReady > 0 {
		s.logger.Info("Waiting for annotation server", "url", s.cfg.ServerURL, "max", s.cfg.WaitReady.String())
		if err := client.WaitReady(ctx, s.cfg.WaitReady); err != nil {
			return err
		}
	}

	s.engine = client
	s.name = nlplog.RedactString(s.cfg.ServerURL)
	return nil
}

// newPipeline creates the analysis pipeline for one run.
func (s *session) newPipeline() *pipeline.Pipeline {
	opts := []pipeline.DefaultPipelineOption{
		pipeline.WithPipelineLogger(s.logger),
		pipeline.WithPipelineVersion(getVersion()),
		pipeline.WithPipelineEngineName(s.name),
	}
	if s.history != nil {
		opts = append(opts, pipeline.WithPipelineRecorder(s.history))
	}
	return pipeline.DefaultPipeline(s.engine, s.stages, s.fs, nil, opts...)
}

// close releases the history database.
func (s *session) close() {
	if s.history == nil {
		return
	}
	if err := s.history.Close(); err != nil {
		s.logger.Warn("failed to close history database", "error", err)
	}
}
