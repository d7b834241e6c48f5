package main

import (
	"errors"
	"fmt"

	"github.com/nao1215/nlpreport/internal/config"
	"github.com/nao1215/nlpreport/internal/model"
	"github.com/spf13/cobra"
)

// buildConfig creates a Config from defaults, the configuration file, the
// environment and finally the flags the user set explicitly.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewConfig()
	flags := cmd.Flags()

	var err error
	cfg.ConfigFilePath, err = flags.GetString("config")
	if err != nil {
		return nil, err
	}

	// An explicitly named config file must exist; the default search may
	// come up empty.
	configPath := config.FindConfigFile(cfg.ConfigFilePath)
	switch {
	case configPath != "":
		f, err := config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
		cfg.ApplyFile(f)
	case cfg.ConfigFilePath != "":
		return nil, fmt.Errorf("%w: %s", config.ErrConfigNotFound, cfg.ConfigFilePath)
	}

	envFile, err := flags.GetString("env-file")
	if err != nil {
		return nil, err
	}
	lookup, err := config.EnvLookup(envFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", envFile, err)
	}
	if err := cfg.ApplyEnv(lookup); err != nil {
		return nil, fmt.Errorf("invalid environment: %w", err)
	}

	if err := applyFlags(cmd, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyFlags overrides cfg with every flag set on the command line.
func applyFlags(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	var errs []error

	stringFlag := func(name string, set func(string)) {
		if !flags.Changed(name) {
			return
		}
		v, err := flags.GetString(name)
		if err != nil {
			errs = append(errs, err)
			return
		}
		set(v)
	}

	stringFlag("server", func(v string) { cfg.ServerURL = v })
	stringFlag("annotators", cfg.SetAnnotators)
	stringFlag("pos-model", func(v string) { cfg.POSModel = v })
	stringFlag("output-dir", func(v string) { cfg.OutputDir = v })
	stringFlag("from-json", func(v string) { cfg.FromJSON = v })
	stringFlag("format", func(v string) {
		format, err := model.ParseReportFormat(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%w: %w", config.ErrInvalidFormat, err))
			return
		}
		cfg.Format = format
	})

	if flags.Changed("timeout") {
		d, err := flags.GetDuration("timeout")
		errs = append(errs, err)
		cfg.Timeout = d
	}
	if flags.Changed("wait-ready") {
		d, err := flags.GetDuration("wait-ready")
		errs = append(errs, err)
		cfg.WaitReady = d
	}
	if flags.Changed("history") {
		enabled, err := flags.GetBool("history")
		errs = append(errs, err)
		cfg.SaveToDB = enabled
	}
	if flags.Lookup("batch") != nil && flags.Changed("batch") {
		n, err := flags.GetInt("batch")
		errs = append(errs, err)
		cfg.BatchSize = n
	}

	verbose, err := flags.GetBool("verbose")
	errs = append(errs, err)
	cfg.Verbose = verbose

	return errors.Join(errs...)
}
