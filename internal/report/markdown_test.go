package report

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/nao1215/nlpreport/internal/model"
)

func TestMarkdownWriter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	w := NewMarkdownWriter(&buf,
		WithVersion("1.2.3"),
		WithMetadata(Metadata{
			Input:       "letter.txt",
			Annotators:  "tokenize,ssplit",
			GeneratedAt: time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
		}),
	)
	n, err := w.Write(createTestDocument())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n == 0 {
		t.Error("expected bytes written")
	}

	out := buf.String()
	for _, want := range []string{
		"# Linguistic Analysis Report",
		"letter.txt",
		"tokenize,ssplit",
		"## Sentiment",
		"```mermaid",
		"pie",
		"### Sentence 1",
		"### Sentence 2",
		"## Named Entities",
		"Stanford University",
		"Organization",
		"## Coreference Chains",
		"Chain 4:",
		"nlpreport 1.2.3",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in markdown output", want)
		}
	}
}

func TestMarkdownWriter_EmptyDocument(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if _, err := NewMarkdownWriter(&buf).Write(&model.Document{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"The document contains no sentences.", "No named entities found.", TextNoChains} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output", want)
		}
	}
	if strings.Contains(out, "```mermaid") {
		t.Error("did not expect a chart without sentiment data")
	}
}

func TestEntityTypeLabel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		tag  string
		want string
	}{
		{"PERSON", "Person"},
		{"STATE_OR_PROVINCE", "State Or Province"},
		{"MISC", "Misc"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := entityTypeLabel(tt.tag); got != tt.want {
			t.Errorf("entityTypeLabel(%q) = %q, want %q", tt.tag, got, tt.want)
		}
	}
}

func TestCodeSpan(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "(ROOT (NP (NN email)))", "`(ROOT (NP (NN email)))`"},
		{"pipe", "(ROOT (SYM |))", "`(ROOT (SYM \\|))`"},
		{"opening quote", "(ROOT (`` ``) (NN hi))", "```(ROOT (`` ``) (NN hi))```"},
		{"leading backtick", "`x", "`` `x ``"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := codeSpan(tt.in); got != tt.want {
				t.Errorf("codeSpan(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestMarkdownWriter_ParseTreeWithPipe(t *testing.T) {
	t.Parallel()

	doc := &model.Document{
		Sentences: []model.Sentence{{
			Index: 0,
			Text:  "a | b",
			Parse: "(ROOT (NP (NN a) (SYM |) (NN b)))",
		}},
	}

	var buf bytes.Buffer
	if _, err := NewMarkdownWriter(&buf).Write(doc); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(buf.String(), "| Parse Tree | `(ROOT (NP (NN a) (SYM \\|) (NN b)))` |") {
		t.Errorf("parse tree row is not escaped:\n%s", buf.String())
	}
}
