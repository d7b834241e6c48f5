package report

import (
	"fmt"
	"io"
	"time"

	"github.com/nao1215/nlpreport/internal/model"
)

// Writer renders an annotated document to its output.
//
// Design decision: writers render to an io.Writer and know nothing about
// files. FileWriter owns naming and atomic placement, and the console
// printer reuses the same writers on stdout.
type Writer interface {
	// Write outputs the report for doc.
	// Returns the number of bytes written and any error encountered.
	Write(doc *model.Document) (int, error)
}

// Metadata describes the run a report belongs to.
// Formats that have room for it (JSON and Markdown) include it.
type Metadata struct {
	// RunID identifies the run.
	RunID string `json:"run_id,omitempty"`

	// Input is the input file name, or "builtin" for the default text.
	Input string `json:"input,omitempty"`

	// Annotators is the comma separated annotator list.
	Annotators string `json:"annotators,omitempty"`

	// Engine describes the annotation engine (server URL or replayed file).
	Engine string `json:"engine,omitempty"`

	// GeneratedAt is the report generation time.
	GeneratedAt time.Time `json:"generated_at"`
}

// Option configures a writer.
type Option func(*baseWriter)

// WithMetadata attaches run metadata to the report.
func WithMetadata(meta Metadata) Option {
	return func(b *baseWriter) {
		b.meta = meta
	}
}

// WithVersion sets the program version recorded in the report.
func WithVersion(version string) Option {
	return func(b *baseWriter) {
		b.version = version
	}
}

// New returns the writer for format.
func New(format model.ReportFormat, output io.Writer, opts ...Option) (Writer, error) {
	switch format {
	case model.FormatText, "":
		return NewTextWriter(output, opts...), nil
	case model.FormatJSON:
		return NewJSONWriter(output, append(opts, WithPrettyPrint())...), nil
	case model.FormatMarkdown:
		return NewMarkdownWriter(output, opts...), nil
	default:
		return nil, fmt.Errorf("unknown report format %q", format)
	}
}

// baseWriter provides common functionality for report writers.
type baseWriter struct {
	output  io.Writer
	meta    Metadata
	version string

	// indent settings, used by JSONWriter only.
	indent       bool
	indentPrefix string
	indentString string
}

// newBaseWriter creates a baseWriter with the given output destination.
func newBaseWriter(output io.Writer, opts []Option) baseWriter {
	b := baseWriter{output: output, version: "dev"}
	for _, opt := range opts {
		opt(&b)
	}
	if b.meta.GeneratedAt.IsZero() {
		b.meta.GeneratedAt = time.Now()
	}
	return b
}
