package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestJSONWriter(t *testing.T) {
	t.Parallel()

	generated := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

	var buf bytes.Buffer
	w := NewJSONWriter(&buf,
		WithPrettyPrint(),
		WithVersion("1.2.3"),
		WithMetadata(Metadata{RunID: "run-1", Input: "builtin", GeneratedAt: generated}),
	)
	if _, err := w.Write(createTestDocument()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.HasSuffix(buf.String(), "}\n") {
		t.Error("expected trailing newline")
	}
	if !strings.Contains(buf.String(), "\n  \"version\"") {
		t.Error("expected indented output")
	}

	var decoded struct {
		Version  string `json:"version"`
		Metadata struct {
			RunID       string    `json:"run_id"`
			GeneratedAt time.Time `json:"generated_at"`
		} `json:"metadata"`
		Summary struct {
			Sentences   int            `json:"sentences"`
			Entities    int            `json:"entities"`
			CorefChains int            `json:"coref_chains"`
			Sentiment   map[string]int `json:"sentiment"`
		} `json:"summary"`
		Document struct {
			Sentences []struct {
				Sentiment string `json:"sentiment"`
			} `json:"sentences"`
		} `json:"document"`
	}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	if decoded.Version != "1.2.3" || decoded.Metadata.RunID != "run-1" || !decoded.Metadata.GeneratedAt.Equal(generated) {
		t.Errorf("unexpected metadata: %+v", decoded)
	}
	if decoded.Summary.Sentences != 2 || decoded.Summary.Entities != 2 || decoded.Summary.CorefChains != 1 {
		t.Errorf("unexpected summary: %+v", decoded.Summary)
	}
	if decoded.Summary.Sentiment["Negative"] != 1 {
		t.Errorf("unexpected sentiment summary: %v", decoded.Summary.Sentiment)
	}
	if decoded.Document.Sentences[0].Sentiment != "Neutral" {
		t.Errorf("expected sentiment label, got %q", decoded.Document.Sentences[0].Sentiment)
	}
}

func TestJSONWriter_Compact(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if _, err := NewJSONWriter(&buf).Write(createTestDocument()); err != nil {
		t.Fatal(err)
	}
	if strings.Count(buf.String(), "\n") != 1 {
		t.Error("expected single-line JSON")
	}
}
