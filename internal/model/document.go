package model

import (
	"fmt"
	"sort"
	"strings"
)

// Document is the result of annotating a text.
// It is produced once per run by an annotation engine and treated as
// read-only afterwards.
type Document struct {
	// Text is the full input text that was annotated.
	Text string `json:"text"`

	// Sentences holds the sentences in document order.
	Sentences []Sentence `json:"sentences"`

	// CorefChains holds the coreference chains ordered by ascending ID.
	// A nil or empty slice means no chains were found.
	CorefChains []CorefChain `json:"coref_chains,omitempty"`
}

// Sentence is a contiguous span of the document text with its derived annotations.
type Sentence struct {
	// Index is the zero-based position of the sentence in the document.
	Index int `json:"index"`

	// Text is the literal sentence text.
	Text string `json:"text"`

	// Sentiment is the sentence-level sentiment class.
	Sentiment Sentiment `json:"sentiment"`

	// Parse is the constituency parse as a bracketed tree,
	// e.g. "(ROOT (S (NP (NNP Kosgi)) ...))".
	Parse string `json:"parse,omitempty"`

	// Dependencies is the dependency graph as a list of edges. Enhanced++
	// dependencies are used when the engine provides them, basic ones otherwise.
	Dependencies []Dependency `json:"dependencies,omitempty"`

	// Entities lists the named entity mentions in the sentence.
	Entities []EntityMention `json:"entities,omitempty"`

	// Tokens lists the tokens of the sentence.
	Tokens []Token `json:"tokens,omitempty"`
}

// Token represents a word of the sentence, with POS and metadata.
type Token struct {
	// Index is the 1-based index of the token in its sentence.
	Index int `json:"index"`

	// Word is the token text.
	Word string `json:"word"`

	// Lemma is the lemma of the word.
	Lemma string `json:"lemma,omitempty"`

	// POS is the part-of-speech tag.
	POS string `json:"pos,omitempty"`

	// NER is the named entity tag, "O" when the token is not part of an entity.
	NER string `json:"ner,omitempty"`

	// Begin and End are character offsets in the document text.
	Begin int `json:"begin"`
	End   int `json:"end"`
}

// Dependency is a single typed edge of a dependency graph.
// Index 0 is the artificial ROOT governor.
type Dependency struct {
	Relation      string `json:"relation"`
	Governor      int    `json:"governor"`
	GovernorWord  string `json:"governor_word"`
	Dependent     int    `json:"dependent"`
	DependentWord string `json:"dependent_word"`
}

// String renders the edge as rel(governor-i, dependent-j).
func (d Dependency) String() string {
	return fmt.Sprintf("%s(%s-%d, %s-%d)", d.Relation, d.GovernorWord, d.Governor, d.DependentWord, d.Dependent)
}

// EntityMention is a span of text tagged with a named entity category.
type EntityMention struct {
	// Text is the surface text of the mention.
	Text string `json:"text"`

	// Type is the entity category, e.g. PERSON or ORGANIZATION.
	Type string `json:"type"`

	// TokenBegin is the 0-based index of the first token (inclusive).
	TokenBegin int `json:"token_begin"`

	// TokenEnd is the 0-based index after the last token (exclusive).
	TokenEnd int `json:"token_end"`
}

// String renders the mention as "text (TYPE)".
func (e EntityMention) String() string {
	if e.Type == "" {
		return e.Text
	}
	return e.Text + " (" + e.Type + ")"
}

// CorefChain is a set of mentions judged to refer to the same entity.
type CorefChain struct {
	// ID is the chain identifier assigned by the engine.
	ID int `json:"id"`

	// Mentions lists the mentions in the order the engine reported them.
	Mentions []CorefMention `json:"mentions"`
}

// CorefMention is one mention of a coreference chain.
type CorefMention struct {
	Text string `json:"text"`

	// SentenceNumber is the 1-based sentence the mention appears in.
	SentenceNumber int `json:"sentence_number"`

	// StartIndex, EndIndex and HeadIndex are 1-based token indices in the sentence.
	StartIndex int `json:"start_index"`
	EndIndex   int `json:"end_index"`
	HeadIndex  int `json:"head_index"`

	// Type is the mention type, e.g. PROPER, PRONOMINAL or NOMINAL.
	Type string `json:"type,omitempty"`

	// Representative marks the mention that best names the entity.
	Representative bool `json:"representative,omitempty"`
}

// String renders the chain contents as ["text" in sentence n, ...].
func (c CorefChain) String() string {
	parts := make([]string, len(c.Mentions))
	for i, m := range c.Mentions {
		parts[i] = fmt.Sprintf("%q in sentence %d", m.Text, m.SentenceNumber)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// Representative returns the representative mention of the chain.
// If none is flagged, the first mention is returned.
func (c CorefChain) Representative() (CorefMention, bool) {
	if len(c.Mentions) == 0 {
		return CorefMention{}, false
	}
	for _, m := range c.Mentions {
		if m.Representative {
			return m, true
		}
	}
	return c.Mentions[0], true
}

// HasCorefChains reports whether the document has at least one coreference chain.
func (d *Document) HasCorefChains() bool {
	return d != nil && len(d.CorefChains) > 0
}

// SortCorefChains orders the coreference chains by ascending ID.
func (d *Document) SortCorefChains() {
	sort.SliceStable(d.CorefChains, func(i, j int) bool {
		return d.CorefChains[i].ID < d.CorefChains[j].ID
	})
}

// EntityCount returns the number of entity mentions across all sentences.
func (d *Document) EntityCount() int {
	n := 0
	for _, s := range d.Sentences {
		n += len(s.Entities)
	}
	return n
}

// SentimentCounts returns the number of sentences per sentiment class.
func (d *Document) SentimentCounts() map[Sentiment]int {
	counts := make(map[Sentiment]int)
	for _, s := range d.Sentences {
		counts[s.Sentiment]++
	}
	return counts
}

// DependencyString renders the dependency list as [rel(a-1, b-2), ...].
func (s Sentence) DependencyString() string {
	parts := make([]string, len(s.Dependencies))
	for i, d := range s.Dependencies {
		parts[i] = d.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// EntityString renders the entity mentions as [text (TYPE), ...].
func (s Sentence) EntityString() string {
	parts := make([]string, len(s.Entities))
	for i, e := range s.Entities {
		parts[i] = e.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
