package model

import (
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/sha3"
)

// ReportFormat selects the rendering of a report file.
type ReportFormat string

const (
	// FormatText is the plain text report.
	FormatText ReportFormat = "text"

	// FormatJSON is the JSON report.
	FormatJSON ReportFormat = "json"

	// FormatMarkdown is the GitHub Flavored Markdown report.
	FormatMarkdown ReportFormat = "markdown"
)

// Extension returns the file extension (without dot) used for the format.
func (f ReportFormat) Extension() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatMarkdown:
		return "md"
	default:
		return "txt"
	}
}

// ParseReportFormat converts a user-supplied format name into a ReportFormat.
func ParseReportFormat(s string) (ReportFormat, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "text", "txt":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	default:
		return "", fmt.Errorf("unknown report format %q (want text, json or markdown)", s)
	}
}

// RunStatus is the outcome of a run.
type RunStatus string

const (
	// RunStatusPending means the run has not finished yet.
	RunStatusPending RunStatus = "pending"

	// RunStatusSucceeded means a complete report file was written.
	RunStatusSucceeded RunStatus = "succeeded"

	// RunStatusFailed means the run stopped without producing a report.
	RunStatusFailed RunStatus = "failed"
)

// Run carries the state of a single analysis run through the pipeline.
// Each pipeline step reads what earlier steps produced and fills in its own part.
type Run struct {
	// ID uniquely identifies the run.
	ID string `json:"id"`

	// InputName is the name of the input (file path, or "builtin" for the fixed text).
	InputName string `json:"input_name"`

	// Text is the text to annotate.
	Text string `json:"-"`

	// InputDigest is the hex SHA3-256 digest of Text.
	InputDigest string `json:"input_digest"`

	// Document is set by the annotate step.
	Document *Document `json:"-"`

	// OutputDir is the directory the report is written to.
	OutputDir string `json:"output_dir"`

	// OutputDirCreated is true if the run had to create OutputDir.
	OutputDirCreated bool `json:"output_dir_created"`

	// OutputPath is set by the write step once the report file is complete.
	OutputPath string `json:"output_path,omitempty"`

	// Format is the report format.
	Format ReportFormat `json:"format"`

	// StartedAt is when the run was created.
	StartedAt time.Time `json:"started_at"`

	// FinishedAt is when the last step completed or failed.
	FinishedAt time.Time `json:"finished_at,omitempty"`

	// CompletedSteps lists the names of the steps that finished successfully.
	CompletedSteps []string `json:"completed_steps,omitempty"`

	// Err is the error that stopped the run, if any.
	Err error `json:"-"`

	// ErrorMessage is the string form of Err for serialization.
	ErrorMessage string `json:"error,omitempty"`
}

// NewRun creates a run for the given input.
func NewRun(inputName, text, outputDir string, format ReportFormat) *Run {
	return &Run{
		ID:          uuid.NewString(),
		InputName:   inputName,
		Text:        text,
		InputDigest: Digest(text),
		OutputDir:   outputDir,
		Format:      format,
		StartedAt:   time.Now(),
	}
}

// Digest returns the hex SHA3-256 digest of text.
func Digest(text string) string {
	sum := sha3.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

// Fail records err as the reason the run stopped.
func (r *Run) Fail(err error) {
	r.Err = err
	if err != nil {
		r.ErrorMessage = err.Error()
	}
}

// Status returns the outcome of the run.
func (r *Run) Status() RunStatus {
	switch {
	case r.Err != nil:
		return RunStatusFailed
	case r.OutputPath != "":
		return RunStatusSucceeded
	default:
		return RunStatusPending
	}
}

// SentenceCount returns the number of annotated sentences, or 0 before annotation.
func (r *Run) SentenceCount() int {
	if r.Document == nil {
		return 0
	}
	return len(r.Document.Sentences)
}

// ChainCount returns the number of coreference chains, or 0 before annotation.
func (r *Run) ChainCount() int {
	if r.Document == nil {
		return 0
	}
	return len(r.Document.CorefChains)
}
