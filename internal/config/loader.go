package config

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/nao1215/nlpreport/internal/model"
	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the default configuration file name.
const DefaultConfigFile = ".nlpreport"

// XDGConfigFile is the configuration file name inside XDGConfigDir.
const XDGConfigFile = "config.yaml"

// ErrConfigNotFound is returned when the configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// File represents the structure of the .nlpreport configuration file.
// Zero values mean "not set" and leave the current configuration untouched.
type File struct {
	Server   ServerSection   `yaml:"server"`
	Pipeline PipelineSection `yaml:"pipeline"`
	Output   OutputSection   `yaml:"output"`
	Batch    BatchSection    `yaml:"batch"`
	History  HistorySection  `yaml:"history"`
}

// ServerSection configures the CoreNLP server connection.
type ServerSection struct {
	URL       string        `yaml:"url,omitempty"`
	Username  string        `yaml:"username,omitempty"`
	Password  string        `yaml:"password,omitempty"`
	Timeout   time.Duration `yaml:"timeout,omitempty"`
	WaitReady time.Duration `yaml:"wait_ready,omitempty"`
}

// PipelineSection configures the annotator stages.
type PipelineSection struct {
	Annotators []string `yaml:"annotators,omitempty"`
	POSModel   string   `yaml:"pos_model,omitempty"`
	Text       string   `yaml:"text,omitempty"`
}

// OutputSection configures where and how reports are written.
type OutputSection struct {
	Dir    string `yaml:"dir,omitempty"`
	Format string `yaml:"format,omitempty"`
}

// BatchSection configures batch mode.
type BatchSection struct {
	Concurrency int `yaml:"concurrency,omitempty"`
}

// HistorySection configures the run history database.
type HistorySection struct {
	Enabled *bool  `yaml:"enabled,omitempty"`
	DBDir   string `yaml:"db_dir,omitempty"`
}

// LoadConfigFile loads the configuration file at path.
// If the file does not exist, it returns ErrConfigNotFound.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cf File
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, err
	}
	return &cf, nil
}

// FindConfigFile searches for the configuration file in the following order:
// 1. If configPath is specified, use it directly
// 2. Look for .nlpreport in the current directory
// 3. Look for config.yaml in the XDG config directory
// 4. Look for .nlpreport in the user's home directory
//
// Returns the path to the configuration file if found, or empty string if not found.
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	if cwd, err := os.Getwd(); err == nil {
		cwdConfig := filepath.Join(cwd, DefaultConfigFile)
		if _, err := os.Stat(cwdConfig); err == nil {
			return cwdConfig
		}
	}

	xdgConfig := filepath.Join(XDGConfigDir(), XDGConfigFile)
	if _, err := os.Stat(xdgConfig); err == nil {
		return xdgConfig
	}

	if home, err := os.UserHomeDir(); err == nil {
		homeConfig := filepath.Join(home, DefaultConfigFile)
		if _, err := os.Stat(homeConfig); err == nil {
			return homeConfig
		}
	}

	return ""
}

// ApplyFile overrides c with every value set in f.
func (c *Config) ApplyFile(f *File) {
	if f == nil {
		return
	}

	if f.Server.URL != "" {
		c.ServerURL = f.Server.URL
	}
	if f.Server.Username != "" {
		c.ServerUsername = f.Server.Username
	}
	if f.Server.Password != "" {
		c.ServerPassword = f.Server.Password
	}
	if f.Server.Timeout != 0 {
		c.Timeout = f.Server.Timeout
	}
	if f.Server.WaitReady != 0 {
		c.WaitReady = f.Server.WaitReady
	}

	if len(f.Pipeline.Annotators) > 0 {
		c.Annotators = append([]string(nil), f.Pipeline.Annotators...)
	}
	if f.Pipeline.POSModel != "" {
		c.POSModel = f.Pipeline.POSModel
	}
	if f.Pipeline.Text != "" {
		c.Text = f.Pipeline.Text
	}

	if f.Output.Dir != "" {
		c.OutputDir = f.Output.Dir
	}
	if f.Output.Format != "" {
		c.Format = model.ReportFormat(f.Output.Format)
		if parsed, err := model.ParseReportFormat(f.Output.Format); err == nil {
			c.Format = parsed
		}
	}

	if f.Batch.Concurrency != 0 {
		c.BatchSize = f.Batch.Concurrency
	}

	if f.History.Enabled != nil {
		c.SaveToDB = *f.History.Enabled
	}
	if f.History.DBDir != "" {
		c.DBDir = f.History.DBDir
	}
}
