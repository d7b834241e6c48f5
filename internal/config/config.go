package config

import (
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/nao1215/nlpreport/internal/model"
)

// Default configuration values.
const (
	// AppName is the application name used for XDG directory paths.
	AppName = "nlpreport"

	// DefaultServerURL is the address a locally started CoreNLP server listens on.
	DefaultServerURL = "http://localhost:9000"

	// DefaultPOSModel is the part-of-speech tagger model requested from the server.
	DefaultPOSModel = "edu/stanford/nlp/models/pos-tagger/english-left3words-distsim.tagger"

	// DefaultOutputDir is the directory reports are written to, relative to the working directory.
	DefaultOutputDir = "results/"

	// DefaultText is analyzed when no input file is given.
	DefaultText = "Kosgi Santosh sent an email to Stanford University. He didn't get a reply."

	// DefaultTimeout bounds a single annotation request. Parsing and coreference
	// on a cold server take a while, so this is generous.
	DefaultTimeout = 60 * time.Second

	// DefaultBatchSize is the number of inputs annotated concurrently in batch mode.
	DefaultBatchSize = 4
)

// DefaultAnnotators returns the default annotator stages in pipeline order.
func DefaultAnnotators() []string {
	return []string{"tokenize", "ssplit", "pos", "lemma", "ner", "parse", "depparse", "sentiment", "coref"}
}

// Config holds all configuration options for nlpreport.
// It is built from defaults, then the config file, then the environment,
// then command line flags, each layer overriding the previous one.
type Config struct {
	// ServerURL is the base URL of the CoreNLP server.
	ServerURL string

	// ServerUsername and ServerPassword enable HTTP basic auth when both are set.
	ServerUsername string
	ServerPassword string

	// Annotators is the ordered list of annotator stages to run.
	Annotators []string

	// POSModel overrides the tagger model. Empty means the server default.
	POSModel string

	// Text is the text analyzed when InputFiles is empty.
	Text string

	// InputFiles are the documents to analyze.
	InputFiles []string

	// FromJSON is a saved CoreNLP JSON document to replay instead of calling the server.
	FromJSON string

	// OutputDir is the directory reports are written to.
	OutputDir string

	// Format is the report format.
	Format model.ReportFormat

	// Timeout bounds a single annotation request.
	Timeout time.Duration

	// WaitReady, when positive, waits up to this long for the server to become ready.
	WaitReady time.Duration

	// BatchSize is the number of inputs processed concurrently in batch mode.
	BatchSize int

	// DBDir is the directory holding the history database.
	DBDir string

	// SaveToDB records each run in the history database. Off by default so a
	// run leaves nothing behind but its report file.
	SaveToDB bool

	// Verbose enables debug log output.
	Verbose bool

	// ConfigFilePath is the path to the configuration file.
	// If empty, .nlpreport is searched in the current directory and then in the home directory.
	ConfigFilePath string
}

// NewConfig creates a new Config with default values.
// With nothing else applied, a run analyzes DefaultText with every default
// annotator and writes a text report into DefaultOutputDir.
func NewConfig() *Config {
	return &Config{
		ServerURL:  DefaultServerURL,
		Annotators: DefaultAnnotators(),
		POSModel:   DefaultPOSModel,
		Text:       DefaultText,
		OutputDir:  DefaultOutputDir,
		Format:     model.FormatText,
		Timeout:    DefaultTimeout,
		BatchSize:  DefaultBatchSize,
		DBDir:      XDGDataDir(),
	}
}

// XDGDataDir returns the XDG data directory for nlpreport.
// On Linux: ~/.local/share/nlpreport
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for nlpreport.
// On Linux: ~/.config/nlpreport
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// SetAnnotators parses a comma separated annotator list such as
// "tokenize,ssplit,pos". Blank entries are dropped.
func (c *Config) SetAnnotators(list string) {
	c.Annotators = SplitList(list)
}

// SplitList splits a comma separated list and trims each entry.
func SplitList(list string) []string {
	var out []string
	for _, s := range strings.Split(list, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// UsesServer reports whether the run needs the annotation server.
func (c *Config) UsesServer() bool {
	return c.FromJSON == ""
}

// Validate checks if the configuration is valid.
// It returns the first problem found.
func (c *Config) Validate() error {
	if c.UsesServer() {
		if c.ServerURL == "" {
			return ErrNoServer
		}
		u, err := url.Parse(c.ServerURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return ErrInvalidServerURL
		}
	}

	if len(c.Annotators) == 0 {
		return ErrNoAnnotators
	}

	if c.OutputDir == "" {
		return ErrNoOutputDir
	}

	if _, err := model.ParseReportFormat(string(c.Format)); err != nil {
		return ErrInvalidFormat
	}

	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}

	if c.WaitReady < 0 {
		return ErrInvalidWaitReady
	}

	if c.BatchSize <= 0 {
		return ErrInvalidBatchSize
	}

	if (c.ServerUsername == "") != (c.ServerPassword == "") {
		return ErrIncompleteCredentials
	}

	return nil
}
