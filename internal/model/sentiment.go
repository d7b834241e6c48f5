package model

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Sentiment is the five-class sentence sentiment used by the annotation engine.
// Values follow the engine's numeric scale, 0 (very negative) to 4 (very positive).
type Sentiment int

const (
	// SentimentVeryNegative is sentiment value 0.
	SentimentVeryNegative Sentiment = iota

	// SentimentNegative is sentiment value 1.
	SentimentNegative

	// SentimentNeutral is sentiment value 2.
	SentimentNeutral

	// SentimentPositive is sentiment value 3.
	SentimentPositive

	// SentimentVeryPositive is sentiment value 4.
	SentimentVeryPositive

	// SentimentUnknown is used when the sentiment stage did not run
	// or produced a value outside the scale.
	SentimentUnknown Sentiment = -1
)

// String returns the human-readable sentiment label.
func (s Sentiment) String() string {
	switch s {
	case SentimentVeryNegative:
		return "Very negative"
	case SentimentNegative:
		return "Negative"
	case SentimentNeutral:
		return "Neutral"
	case SentimentPositive:
		return "Positive"
	case SentimentVeryPositive:
		return "Very positive"
	default:
		return "Unknown"
	}
}

// Value returns the numeric sentiment value, or -1 if unknown.
func (s Sentiment) Value() int {
	return int(s)
}

// ParseSentiment converts the engine's label and value into a Sentiment.
// The numeric value wins when it is valid; otherwise the label is matched
// case-insensitively, ignoring spaces ("Verynegative" and "Very negative"
// both map to SentimentVeryNegative).
func ParseSentiment(label, value string) Sentiment {
	if v, err := strconv.Atoi(strings.TrimSpace(value)); err == nil {
		if v >= int(SentimentVeryNegative) && v <= int(SentimentVeryPositive) {
			return Sentiment(v)
		}
	}

	normalized := strings.ToLower(strings.ReplaceAll(label, " ", ""))
	switch normalized {
	case "verynegative":
		return SentimentVeryNegative
	case "negative":
		return SentimentNegative
	case "neutral":
		return SentimentNeutral
	case "positive":
		return SentimentPositive
	case "verypositive":
		return SentimentVeryPositive
	default:
		return SentimentUnknown
	}
}

// MarshalJSON encodes the sentiment as its label.
func (s Sentiment) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON decodes a sentiment label or numeric value.
func (s *Sentiment) UnmarshalJSON(data []byte) error {
	var label string
	if err := json.Unmarshal(data, &label); err == nil {
		*s = ParseSentiment(label, "")
		return nil
	}

	var value int
	if err := json.Unmarshal(data, &value); err != nil {
		return err
	}
	*s = ParseSentiment("", strconv.Itoa(value))
	return nil
}

// AllSentiments returns the known sentiment classes from most negative to most positive.
func AllSentiments() []Sentiment {
	return []Sentiment{
		SentimentVeryNegative,
		SentimentNegative,
		SentimentNeutral,
		SentimentPositive,
		SentimentVeryPositive,
	}
}
