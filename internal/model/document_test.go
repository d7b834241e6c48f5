package model

import (
	"encoding/json"
	"testing"
)

// newTestDocument creates a document for the two-sentence example text.
func newTestDocument() *Document {
	return &Document{
		Text: "Kosgi Santosh sent an email to Stanford University. He didn't get a reply.",
		Sentences: []Sentence{
			{
				Index:     0,
				Text:      "Kosgi Santosh sent an email to Stanford University.",
				Sentiment: SentimentNeutral,
				Parse:     "(ROOT (S (NP (NNP Kosgi) (NNP Santosh)) (VP (VBD sent)) (. .)))",
				Dependencies: []Dependency{
					{Relation: "root", Governor: 0, GovernorWord: "ROOT", Dependent: 3, DependentWord: "sent"},
					{Relation: "nsubj", Governor: 3, GovernorWord: "sent", Dependent: 2, DependentWord: "Santosh"},
				},
				Entities: []EntityMention{
					{Text: "Kosgi Santosh", Type: "PERSON", TokenBegin: 0, TokenEnd: 2},
					{Text: "Stanford University", Type: "ORGANIZATION", TokenBegin: 6, TokenEnd: 8},
				},
			},
			{
				Index:     1,
				Text:      "He didn't get a reply.",
				Sentiment: SentimentNegative,
				Parse:     "(ROOT (S (NP (PRP He)) (VP (VBD did) (RB n't)) (. .)))",
				Dependencies: []Dependency{
					{Relation: "root", Governor: 0, GovernorWord: "ROOT", Dependent: 4, DependentWord: "get"},
				},
				Entities: []EntityMention{
					{Text: "He", Type: "PERSON"},
				},
			},
		},
		CorefChains: []CorefChain{
			{
				ID: 4,
				Mentions: []CorefMention{
					{Text: "Kosgi Santosh", SentenceNumber: 1, StartIndex: 1, EndIndex: 3, HeadIndex: 2, Type: "PROPER", Representative: true},
					{Text: "He", SentenceNumber: 2, StartIndex: 1, EndIndex: 2, HeadIndex: 1, Type: "PRONOMINAL"},
				},
			},
		},
	}
}

func TestDependencyString(t *testing.T) {
	t.Parallel()

	d := Dependency{Relation: "nsubj", Governor: 3, GovernorWord: "sent", Dependent: 2, DependentWord: "Santosh"}
	if got, want := d.String(), "nsubj(sent-3, Santosh-2)"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestEntityMentionString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mention EntityMention
		want    string
	}{
		{name: "with type", mention: EntityMention{Text: "Stanford University", Type: "ORGANIZATION"}, want: "Stanford University (ORGANIZATION)"},
		{name: "without type", mention: EntityMention{Text: "Kosgi"}, want: "Kosgi"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.mention.String(); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCorefChainString(t *testing.T) {
	t.Parallel()

	doc := newTestDocument()
	want := `["Kosgi Santosh" in sentence 1, "He" in sentence 2]`
	if got := doc.CorefChains[0].String(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestCorefChainRepresentative(t *testing.T) {
	t.Parallel()

	t.Run("returns flagged mention", func(t *testing.T) {
		t.Parallel()
		chain := CorefChain{Mentions: []CorefMention{
			{Text: "he"},
			{Text: "Kosgi Santosh", Representative: true},
		}}
		m, ok := chain.Representative()
		if !ok || m.Text != "Kosgi Santosh" {
			t.Errorf("expected Kosgi Santosh, got %q (ok=%v)", m.Text, ok)
		}
	})

	t.Run("falls back to first mention", func(t *testing.T) {
		t.Parallel()
		chain := CorefChain{Mentions: []CorefMention{{Text: "it"}, {Text: "the email"}}}
		m, ok := chain.Representative()
		if !ok || m.Text != "it" {
			t.Errorf("expected first mention, got %q", m.Text)
		}
	})

	t.Run("empty chain", func(t *testing.T) {
		t.Parallel()
		if _, ok := (CorefChain{}).Representative(); ok {
			t.Error("expected no representative for empty chain")
		}
	})
}

func TestDocumentHelpers(t *testing.T) {
	t.Parallel()

	t.Run("HasCorefChains", func(t *testing.T) {
		t.Parallel()
		var nilDoc *Document
		if nilDoc.HasCorefChains() {
			t.Error("nil document should have no chains")
		}
		if (&Document{}).HasCorefChains() {
			t.Error("empty document should have no chains")
		}
		if !newTestDocument().HasCorefChains() {
			t.Error("expected chains")
		}
	})

	t.Run("SortCorefChains", func(t *testing.T) {
		t.Parallel()
		doc := &Document{CorefChains: []CorefChain{{ID: 9}, {ID: 2}, {ID: 5}}}
		doc.SortCorefChains()
		for i, want := range []int{2, 5, 9} {
			if doc.CorefChains[i].ID != want {
				t.Errorf("position %d: got %d, want %d", i, doc.CorefChains[i].ID, want)
			}
		}
	})

	t.Run("EntityCount", func(t *testing.T) {
		t.Parallel()
		if got := newTestDocument().EntityCount(); got != 3 {
			t.Errorf("expected 3 entities, got %d", got)
		}
	})

	t.Run("SentimentCounts", func(t *testing.T) {
		t.Parallel()
		counts := newTestDocument().SentimentCounts()
		if counts[SentimentNeutral] != 1 || counts[SentimentNegative] != 1 {
			t.Errorf("unexpected counts: %v", counts)
		}
	})
}

func TestSentenceListStrings(t *testing.T) {
	t.Parallel()

	s := newTestDocument().Sentences[0]
	if got, want := s.DependencyString(), "[root(ROOT-0, sent-3), nsubj(sent-3, Santosh-2)]"; got != want {
		t.Errorf("DependencyString: got %q, want %q", got, want)
	}
	if got, want := s.EntityString(), "[Kosgi Santosh (PERSON), Stanford University (ORGANIZATION)]"; got != want {
		t.Errorf("EntityString: got %q, want %q", got, want)
	}

	empty := Sentence{}
	if empty.DependencyString() != "[]" || empty.EntityString() != "[]" {
		t.Error("expected [] for empty lists")
	}
}

func TestDocumentJSON(t *testing.T) {
	t.Parallel()

	data, err := json.Marshal(newTestDocument())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var decoded Document
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if decoded.Sentences[1].Sentiment != SentimentNegative {
		t.Errorf("expected sentiment to survive JSON, got %v", decoded.Sentences[1].Sentiment)
	}
	if len(decoded.CorefChains) != 1 || decoded.CorefChains[0].ID != 4 {
		t.Errorf("unexpected chains: %+v", decoded.CorefChains)
	}
}
