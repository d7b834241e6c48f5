package annotate

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/nao1215/nlpreport/internal/model"
)

// CoreNLP JSON output format (outputFormat=json).
type wireDocument struct {
	Sentences []wireSentence           `json:"sentences"`
	Corefs    map[string][]wireMention `json:"corefs"`
}

type wireSentence struct {
	Index                        int              `json:"index"`
	Parse                        string           `json:"parse"`
	BasicDependencies            []wireDependency `json:"basicDependencies"`
	EnhancedPlusPlusDependencies []wireDependency `json:"enhancedPlusPlusDependencies"`
	EntityMentions               []wireEntity     `json:"entitymentions"`
	Sentiment                    string           `json:"sentiment"`
	SentimentValue               json.RawMessage  `json:"sentimentValue"`
	Tokens                       []wireToken      `json:"tokens"`
}

type wireDependency struct {
	Dep            string `json:"dep"`
	Governor       int    `json:"governor"`
	GovernorGloss  string `json:"governorGloss"`
	Dependent      int    `json:"dependent"`
	DependentGloss string `json:"dependentGloss"`
}

type wireEntity struct {
	Text       string `json:"text"`
	NER        string `json:"ner"`
	TokenBegin int    `json:"tokenBegin"`
	TokenEnd   int    `json:"tokenEnd"`
}

type wireToken struct {
	Index                int    `json:"index"`
	Word                 string `json:"word"`
	OriginalText         string `json:"originalText"`
	Lemma                string `json:"lemma"`
	POS                  string `json:"pos"`
	NER                  string `json:"ner"`
	CharacterOffsetBegin int    `json:"characterOffsetBegin"`
	CharacterOffsetEnd   int    `json:"characterOffsetEnd"`
	Before               string `json:"before"`
	After                string `json:"after"`
}

type wireMention struct {
	ID                      int    `json:"id"`
	Text                    string `json:"text"`
	Type                    string `json:"type"`
	SentNum                 int    `json:"sentNum"`
	StartIndex              int    `json:"startIndex"`
	EndIndex                int    `json:"endIndex"`
	HeadIndex               int    `json:"headIndex"`
	IsRepresentativeMention bool   `json:"isRepresentativeMention"`
}

// DecodeDocument decodes a CoreNLP JSON document. text is the input the
// document was produced from; when empty it is rebuilt from the tokens.
func DecodeDocument(r io.Reader, text string) (*model.Document, error) {
	var wd wireDocument
	dec := json.NewDecoder(r)
	if err := dec.Decode(&wd); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	return wd.toModel(text)
}

func (wd *wireDocument) toModel(text string) (*model.Document, error) {
	doc := &model.Document{
		Text:      text,
		Sentences: make([]model.Sentence, 0, len(wd.Sentences)),
	}

	for _, ws := range wd.Sentences {
		doc.Sentences = append(doc.Sentences, ws.toModel())
	}

	if doc.Text == "" {
		parts := make([]string, 0, len(doc.Sentences))
		for _, s := range doc.Sentences {
			parts = append(parts, s.Text)
		}
		doc.Text = strings.Join(parts, " ")
	}

	for key, mentions := range wd.Corefs {
		id, err := strconv.Atoi(key)
		if err != nil {
			return nil, fmt.Errorf("%w: coreference chain id %q is not a number", ErrDecode, key)
		}
		chain := model.CorefChain{ID: id, Mentions: make([]model.CorefMention, 0, len(mentions))}
		sort.SliceStable(mentions, func(i, j int) bool {
			if mentions[i].SentNum != mentions[j].SentNum {
				return mentions[i].SentNum < mentions[j].SentNum
			}
			return mentions[i].StartIndex < mentions[j].StartIndex
		})
		for _, m := range mentions {
			chain.Mentions = append(chain.Mentions, model.CorefMention{
				Text:           m.Text,
				SentenceNumber: m.SentNum,
				StartIndex:     m.StartIndex,
				EndIndex:       m.EndIndex,
				HeadIndex:      m.HeadIndex,
				Type:           m.Type,
				Representative: m.IsRepresentativeMention,
			})
		}
		doc.CorefChains = append(doc.CorefChains, chain)
	}
	doc.SortCorefChains()

	return doc, nil
}

func (ws *wireSentence) toModel() model.Sentence {
	s := model.Sentence{
		Index:     ws.Index,
		Text:      sentenceText(ws.Tokens),
		Sentiment: model.SentimentUnknown,
		Parse:     strings.Join(strings.Fields(ws.Parse), " "),
	}
	if ws.Sentiment != "" || len(ws.SentimentValue) > 0 {
		s.Sentiment = model.ParseSentiment(ws.Sentiment, rawScalar(ws.SentimentValue))
	}

	deps := ws.EnhancedPlusPlusDependencies
	if len(deps) == 0 {
		deps = ws.BasicDependencies
	}
	for _, d := range deps {
		s.Dependencies = append(s.Dependencies, model.Dependency{
			Relation:      d.Dep,
			Governor:      d.Governor,
			GovernorWord:  d.GovernorGloss,
			Dependent:     d.Dependent,
			DependentWord: d.DependentGloss,
		})
	}

	for _, e := range ws.EntityMentions {
		s.Entities = append(s.Entities, model.EntityMention{
			Text:       e.Text,
			Type:       e.NER,
			TokenBegin: e.TokenBegin,
			TokenEnd:   e.TokenEnd,
		})
	}

	for _, t := range ws.Tokens {
		s.Tokens = append(s.Tokens, model.Token{
			Index: t.Index,
			Word:  t.Word,
			Lemma: t.Lemma,
			POS:   t.POS,
			NER:   t.NER,
			Begin: t.CharacterOffsetBegin,
			End:   t.CharacterOffsetEnd,
		})
	}

	return s
}

// sentenceText rebuilds the original sentence from its tokens and the
// whitespace recorded between them.
func sentenceText(tokens []wireToken) string {
	var b strings.Builder
	for i, t := range tokens {
		word := t.OriginalText
		if word == "" {
			word = t.Word
		}
		b.WriteString(word)
		if i < len(tokens)-1 {
			if t.After != "" || t.OriginalText != "" {
				b.WriteString(t.After)
			} else {
				b.WriteString(" ")
			}
		}
	}
	return b.String()
}

// rawScalar returns a JSON string or number as plain text.
func rawScalar(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}
