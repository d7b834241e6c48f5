package report

import (
	"encoding/json"
	"io"

	"github.com/nao1215/nlpreport/internal/model"
)

// JSONWriter outputs reports in JSON format.
// This format is designed for tool integration and programmatic processing.
type JSONWriter struct {
	baseWriter
}

// WithIndent enables pretty-printed JSON output.
// The prefix is prepended to each line, and indent is used for each level.
func WithIndent(prefix, indent string) Option {
	return func(b *baseWriter) {
		b.indent = true
		b.indentPrefix = prefix
		b.indentString = indent
	}
}

// WithPrettyPrint enables pretty-printed JSON with default indentation.
// This is a convenience wrapper for WithIndent("", "  ").
func WithPrettyPrint() Option {
	return WithIndent("", "  ")
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
func NewJSONWriter(output io.Writer, opts ...Option) *JSONWriter {
	return &JSONWriter{baseWriter: newBaseWriter(output, opts)}
}

// JSONReport wraps a document with the metadata of the run that produced it.
type JSONReport struct {
	// Version is the nlpreport version that generated this report.
	Version string `json:"version"`

	// Metadata describes the run.
	Metadata Metadata `json:"metadata"`

	// Summary holds counts for quick access.
	Summary JSONSummary `json:"summary"`

	// Document is the annotated document.
	Document *model.Document `json:"document"`
}

// JSONSummary holds document level counts.
type JSONSummary struct {
	Sentences   int            `json:"sentences"`
	Entities    int            `json:"entities"`
	CorefChains int            `json:"coref_chains"`
	Sentiment   map[string]int `json:"sentiment"`
}

// NewJSONReport creates the JSON wrapper for doc.
func NewJSONReport(doc *model.Document, meta Metadata, version string) *JSONReport {
	sentiment := make(map[string]int)
	for s, n := range doc.SentimentCounts() {
		sentiment[s.String()] = n
	}
	return &JSONReport{
		Version:  version,
		Metadata: meta,
		Summary: JSONSummary{
			Sentences:   len(doc.Sentences),
			Entities:    doc.EntityCount(),
			CorefChains: len(doc.CorefChains),
			Sentiment:   sentiment,
		},
		Document: doc,
	}
}

// Write outputs the wrapped document in JSON format.
func (w *JSONWriter) Write(doc *model.Document) (int, error) {
	var data []byte
	var err error

	report := NewJSONReport(doc, w.meta, w.version)
	if w.indent {
		data, err = json.MarshalIndent(report, w.indentPrefix, w.indentString)
	} else {
		data, err = json.Marshal(report)
	}
	if err != nil {
		return 0, err
	}

	data = append(data, '\n')
	return w.output.Write(data)
}
