package report

import (
	"bufio"
	"io"
	"strconv"

	"github.com/nao1215/nlpreport/internal/model"
)

// Report section markers.
const (
	TextHeader      = "=== Linguistic Analysis Output ==="
	TextCorefHeader = "=== Coreference Chains ==="
	TextNoChains    = "No coreference chains found."
	TextFooter      = "=== End of Analysis ==="
)

// TextWriter renders the line-oriented analysis report:
//
//	=== Linguistic Analysis Output ===
//
//	Sentence: <text>
//	Sentiment: <label>
//	Parse Tree: <bracketed parse>
//	Dependencies: [rel(gov-i, dep-j), ...]
//	Entities: [<text> (<TYPE>), ...]
//
//	=== Coreference Chains ===
//	Chain <id>: ["<mention>" in sentence <n>, ...]
//
//	=== End of Analysis ===
type TextWriter struct {
	baseWriter
}

// NewTextWriter creates a TextWriter that outputs to the given writer.
func NewTextWriter(output io.Writer, opts ...Option) *TextWriter {
	return &TextWriter{baseWriter: newBaseWriter(output, opts)}
}

// Write outputs the report for doc.
func (w *TextWriter) Write(doc *model.Document) (int, error) {
	cw := &countingWriter{w: w.output}
	bw := bufio.NewWriter(cw)

	line := func(parts ...string) {
		for _, p := range parts {
			_, _ = bw.WriteString(p)
		}
		_ = bw.WriteByte('\n')
	}

	line(TextHeader)
	line()

	for _, s := range doc.Sentences {
		parse := s.Parse
		if parse == "" {
			parse = "(none)"
		}
		line("Sentence: ", s.Text)
		line("Sentiment: ", s.Sentiment.String())
		line("Parse Tree: ", parse)
		line("Dependencies: ", s.DependencyString())
		line("Entities: ", s.EntityString())
		line()
	}

	line(TextCorefHeader)
	if doc.HasCorefChains() {
		for _, c := range doc.CorefChains {
			line("Chain ", strconv.Itoa(c.ID), ": ", c.String())
		}
	} else {
		line(TextNoChains)
	}
	line()
	line(TextFooter)

	if err := bw.Flush(); err != nil {
		return cw.n, err
	}
	return cw.n, nil
}

// countingWriter counts the bytes that reach the underlying writer.
type countingWriter struct {
	w io.Writer
	n int
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += n
	return n, err
}
