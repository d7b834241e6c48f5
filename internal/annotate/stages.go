package annotate

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"
)

// Annotator stage names understood by the CoreNLP server.
const (
	StageTokenize  = "tokenize"
	StageSsplit    = "ssplit"
	StagePOS       = "pos"
	StageLemma     = "lemma"
	StageNER       = "ner"
	StageParse     = "parse"
	StageDepparse  = "depparse"
	StageSentiment = "sentiment"
	StageCoref     = "coref"
)

// prerequisites lists, per stage, the stages that must run before it.
// A slice with several entries means all are required; anyOf marks stages
// that accept one of several.
var prerequisites = map[string][]string{
	StageTokenize:  nil,
	StageSsplit:    {StageTokenize},
	StagePOS:       {StageTokenize, StageSsplit},
	StageLemma:     {StagePOS},
	StageNER:       {StagePOS, StageLemma},
	StageParse:     {StageTokenize, StageSsplit},
	StageDepparse:  {StagePOS},
	StageSentiment: {StageParse},
	StageCoref:     {StageNER},
}

var anyOf = map[string][]string{
	StageCoref: {StageParse, StageDepparse},
}

// KnownStages returns every recognized stage name in pipeline order.
func KnownStages() []string {
	return []string{
		StageTokenize, StageSsplit, StagePOS, StageLemma, StageNER,
		StageParse, StageDepparse, StageSentiment, StageCoref,
	}
}

// StageConfig selects the annotators to run and optional model overrides.
type StageConfig struct {
	// Annotators is the ordered list of stages.
	Annotators []string

	// POSModel overrides the part-of-speech tagger model when non-empty.
	POSModel string
}

// NewStageConfig builds and validates a stage configuration.
// Stage names are trimmed and lowercased.
func NewStageConfig(annotators []string, posModel string) (StageConfig, error) {
	normalized := make([]string, 0, len(annotators))
	for _, a := range annotators {
		if a = strings.ToLower(strings.TrimSpace(a)); a != "" {
			normalized = append(normalized, a)
		}
	}

	sc := StageConfig{Annotators: normalized, POSModel: strings.TrimSpace(posModel)}
	if err := sc.Validate(); err != nil {
		return StageConfig{}, err
	}
	return sc, nil
}

// Validate checks that every stage is known, appears once, and comes after
// its prerequisites.
func (sc StageConfig) Validate() error {
	if len(sc.Annotators) == 0 {
		return fmt.Errorf("%w: no annotators", ErrInvalidStage)
	}

	seen := make(map[string]bool, len(sc.Annotators))
	for _, a := range sc.Annotators {
		reqs, ok := prerequisites[a]
		if !ok {
			return fmt.Errorf("%w: unknown annotator %q", ErrInvalidStage, a)
		}
		if seen[a] {
			return fmt.Errorf("%w: annotator %q listed twice", ErrInvalidStage, a)
		}
		for _, r := range reqs {
			if !seen[r] {
				return fmt.Errorf("%w: annotator %q requires %q before it", ErrInvalidStage, a, r)
			}
		}
		if alts, ok := anyOf[a]; ok && !slices.ContainsFunc(alts, func(s string) bool { return seen[s] }) {
			return fmt.Errorf("%w: annotator %q requires one of %s before it", ErrInvalidStage, a, strings.Join(alts, ", "))
		}
		seen[a] = true
	}
	return nil
}

// Has reports whether stage is enabled.
func (sc StageConfig) Has(stage string) bool {
	return slices.Contains(sc.Annotators, stage)
}

// String returns the comma separated annotator list.
func (sc StageConfig) String() string {
	return strings.Join(sc.Annotators, ",")
}

// Properties returns the CoreNLP pipeline properties for the configuration.
func (sc StageConfig) Properties() map[string]string {
	props := map[string]string{
		"annotators":   sc.String(),
		"outputFormat": "json",
	}
	if sc.POSModel != "" {
		props["pos.model"] = sc.POSModel
	}
	return props
}

// PropertiesJSON returns Properties encoded as the JSON object the CoreNLP
// server expects in its properties query parameter.
func (sc StageConfig) PropertiesJSON() (string, error) {
	data, err := json.Marshal(sc.Properties())
	if err != nil {
		return "", err
	}
	return string(data), nil
}
