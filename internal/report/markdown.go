package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"
	"github.com/nao1215/nlpreport/internal/model"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// MarkdownWriter outputs reports in GitHub Flavored Markdown.
// This format is designed for documentation and sharing.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer, opts ...Option) *MarkdownWriter {
	return &MarkdownWriter{baseWriter: newBaseWriter(output, opts)}
}

// Write outputs the report in Markdown format.
func (w *MarkdownWriter) Write(doc *model.Document) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, doc)
	w.writeSentiment(md, doc)
	w.writeSentences(md, doc)
	w.writeEntities(md, doc)
	w.writeCoref(md, doc)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writeHeader writes the report title and the run information table.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, doc *model.Document) {
	md.H1("Linguistic Analysis Report")
	md.PlainText("")

	rows := [][]string{}
	if w.meta.Input != "" {
		rows = append(rows, []string{"Input", "`" + w.meta.Input + "`"})
	}
	if w.meta.RunID != "" {
		rows = append(rows, []string{"Run ID", "`" + w.meta.RunID + "`"})
	}
	rows = append(rows, []string{"Generated", w.meta.GeneratedAt.Format("2006-01-02 15:04:05 MST")})
	if w.meta.Annotators != "" {
		rows = append(rows, []string{"Annotators", w.meta.Annotators})
	}
	if w.meta.Engine != "" {
		rows = append(rows, []string{"Engine", w.meta.Engine})
	}
	rows = append(rows,
		[]string{"Sentences", strconv.Itoa(len(doc.Sentences))},
		[]string{"Entities", strconv.Itoa(doc.EntityCount())},
		[]string{"Coreference Chains", strconv.Itoa(len(doc.CorefChains))},
	)

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeSentiment writes the sentiment distribution table and pie chart.
func (w *MarkdownWriter) writeSentiment(md *markdown.Markdown, doc *model.Document) {
	md.H2("Sentiment")
	md.PlainText("")

	counts := doc.SentimentCounts()
	rows := make([][]string, 0, len(model.AllSentiments()))
	for _, s := range model.AllSentiments() {
		rows = append(rows, []string{s.String(), strconv.Itoa(counts[s])})
	}
	md.Table(markdown.TableSet{
		Header: []string{"Sentiment", "Sentences"},
		Rows:   rows,
	})
	md.PlainText("")

	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Sentence Sentiment Distribution"),
		piechart.WithShowData(true),
	)
	plotted := false
	for _, s := range model.AllSentiments() {
		if counts[s] > 0 {
			chart.LabelAndIntValue(s.String(), uint64(counts[s])) //nolint:gosec // counts are non-negative
			plotted = true
		}
	}
	if !plotted {
		md.Note("No sentence carries a sentiment score.")
		md.PlainText("")
		return
	}

	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeSentences writes one section per sentence.
func (w *MarkdownWriter) writeSentences(md *markdown.Markdown, doc *model.Document) {
	md.H2("Sentences")
	md.PlainText("")

	if len(doc.Sentences) == 0 {
		md.PlainText("The document contains no sentences.")
		md.PlainText("")
		return
	}

	for i, s := range doc.Sentences {
		md.H3(fmt.Sprintf("Sentence %d", i+1))
		md.PlainText("")
		md.PlainText("> " + escapeInline(s.Text))
		md.PlainText("")

		parse := s.Parse
		if parse == "" {
			parse = "(none)"
		}
		md.Table(markdown.TableSet{
			Header: []string{"Annotation", "Value"},
			Rows: [][]string{
				{"Sentiment", s.Sentiment.String()},
				{"Parse Tree", codeSpan(parse)},
				{"Entities", escapeInline(s.EntityString())},
			},
		})
		md.PlainText("")

		if len(s.Dependencies) > 0 {
			deps := make([]string, len(s.Dependencies))
			for j, d := range s.Dependencies {
				deps[j] = d.String()
			}
			md.Details("Dependencies", strings.Join(deps, "\n"))
			md.PlainText("")
		}
	}
}

// writeEntities writes a table of every named entity in the document.
func (w *MarkdownWriter) writeEntities(md *markdown.Markdown, doc *model.Document) {
	md.H2("Named Entities")
	md.PlainText("")

	var rows [][]string
	for i, s := range doc.Sentences {
		for _, e := range s.Entities {
			rows = append(rows, []string{strconv.Itoa(i + 1), escapeInline(e.Text), entityTypeLabel(e.Type)})
		}
	}
	if len(rows) == 0 {
		md.PlainText("No named entities found.")
		md.PlainText("")
		return
	}

	md.Table(markdown.TableSet{
		Header: []string{"Sentence", "Entity", "Type"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeCoref writes the coreference chains.
func (w *MarkdownWriter) writeCoref(md *markdown.Markdown, doc *model.Document) {
	md.H2("Coreference Chains")
	md.PlainText("")

	if !doc.HasCorefChains() {
		md.PlainText(TextNoChains)
		md.PlainText("")
		return
	}

	items := make([]string, 0, len(doc.CorefChains))
	for _, c := range doc.CorefChains {
		items = append(items, fmt.Sprintf("Chain %d: %s", c.ID, escapeInline(c.String())))
	}
	md.BulletList(items...)
	md.PlainText("")
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by nlpreport %s*", w.version)
}

// escapeInline escapes characters that would change the meaning of a table cell.
func escapeInline(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

// codeSpan renders s as inline code that is safe inside a table cell.
// Parse trees contain `` tokens for opening quotes, so the fence is one
// backtick longer than the longest run in s.
func codeSpan(s string) string {
	longest, run := 0, 0
	for _, r := range s {
		if r != '`' {
			run = 0
			continue
		}
		run++
		longest = max(longest, run)
	}
	if strings.HasPrefix(s, "`") || strings.HasSuffix(s, "`") {
		s = " " + s + " "
	}
	fence := strings.Repeat("`", longest+1)
	return fence + escapeInline(s) + fence
}

// entityTypeLabel turns a NER tag such as STATE_OR_PROVINCE into "State Or Province".
func entityTypeLabel(tag string) string {
	return cases.Title(language.English).String(strings.ReplaceAll(strings.ToLower(tag), "_", " "))
}
