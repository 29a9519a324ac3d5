// Package emotion infers a learner's affect from free text and scores how
// frustrated they are. Both are transparent keyword rules, no model calls.
package emotion

import "strings"

// Emotion is a coarse affect label.
type Emotion string

const (
	Neutral     Emotion = "neutral"
	Frustration Emotion = "frustration"
	Confusion   Emotion = "confusion"
	Curiosity   Emotion = "curiosity"
	Engagement  Emotion = "engagement"
	Boredom     Emotion = "boredom"
	Anxiety     Emotion = "anxiety"
)

// All returns every label in a fixed order.
func All() []Emotion {
	return []Emotion{Neutral, Frustration, Confusion, Curiosity, Engagement, Boredom, Anxiety}
}

var aliases = map[string]Emotion{
	"frustrated": Frustration,
	"confused":   Confusion,
	"bored":      Boredom,
	"engaged":    Engagement,
	"excited":    Engagement,
	"excitement": Engagement,
	"anxious":    Anxiety,
	"curious":    Curiosity,
}

// ParseEmotion maps a label or common adjective form onto an Emotion.
// Unknown or empty strings are Neutral.
func ParseEmotion(s string) Emotion {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, e := range All() {
		if string(e) == s {
			return e
		}
	}
	if e, ok := aliases[s]; ok {
		return e
	}
	return Neutral
}

// Negative reports whether e is an affect that calls for support.
func (e Emotion) Negative() bool {
	return e == Frustration || e == Confusion || e == Anxiety
}

// Assessment is the classifier output for one input.
type Assessment struct {
	Emotion           Emotion  `json:"emotion"`
	Confidence        float64  `json:"confidence"`
	Indicators        []string `json:"indicators"`
	DetectedConfusion bool     `json:"detected_confusion"`

	// Rule names the rule that fired, or "" for the defaults.
	Rule string `json:"rule,omitempty"`
}

// FrustrationAssessment is the scorer output.
type FrustrationAssessment struct {
	Level           float64  `json:"frustration_level"`
	Triggers        []string `json:"triggers"`
	Recommendations []string `json:"recommendations"`
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
