package config

import (
	"errors"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/nao1215/nlpreport/internal/model"
)

// Environment variables read by ApplyEnv.
const (
	EnvServerURL      = "NLPREPORT_SERVER_URL"
	EnvServerUsername = "NLPREPORT_SERVER_USERNAME"
	EnvServerPassword = "NLPREPORT_SERVER_PASSWORD"
	EnvOutputDir      = "NLPREPORT_OUTPUT_DIR"
	EnvAnnotators     = "NLPREPORT_ANNOTATORS"
	EnvPOSModel       = "NLPREPORT_POS_MODEL"
	EnvFormat         = "NLPREPORT_FORMAT"
	EnvTimeout        = "NLPREPORT_TIMEOUT"
)

// LookupFunc looks up an environment variable, like os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// EnvLookup returns a LookupFunc that prefers the process environment and
// falls back to the values in the dotenv file at path. A missing file is not
// an error.
func EnvLookup(path string) (LookupFunc, error) {
	values, err := godotenv.Read(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		values = map[string]string{}
	}

	return func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := values[key]
		return v, ok
	}, nil
}

// ApplyEnv overrides c with the NLPREPORT_* variables found by lookup.
// An unparsable timeout is returned as an error.
func (c *Config) ApplyEnv(lookup LookupFunc) error {
	if v, ok := lookup(EnvServerURL); ok && v != "" {
		c.ServerURL = v
	}
	if v, ok := lookup(EnvServerUsername); ok && v != "" {
		c.ServerUsername = v
	}
	if v, ok := lookup(EnvServerPassword); ok && v != "" {
		c.ServerPassword = v
	}
	if v, ok := lookup(EnvOutputDir); ok && v != "" {
		c.OutputDir = v
	}
	if v, ok := lookup(EnvAnnotators); ok && v != "" {
		c.SetAnnotators(v)
	}
	if v, ok := lookup(EnvPOSModel); ok {
		c.POSModel = v
	}
	if v, ok := lookup(EnvFormat); ok && v != "" {
		c.Format = model.ReportFormat(v)
		if parsed, err := model.ParseReportFormat(v); err == nil {
			c.Format = parsed
		}
	}
	if v, ok := lookup(EnvTimeout); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return ErrInvalidTimeout
		}
		c.Timeout = d
	}
	return nil
}
