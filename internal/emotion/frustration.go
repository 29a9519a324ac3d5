package emotion

import "math"

// Frustration triggers.
const (
	TriggerExtendedTime     = "extended_time"
	TriggerRepeatedAttempts = "repeated_attempts"
	TriggerLanguage         = "frustration_language"
)

// Lexicon is the fixed keyword set the scorer counts.
var Lexicon = []string{"stuck", "confusing", "hard", "difficult", "why", "can't", "won't"}

const (
	timeThresholdSeconds = 300
	attemptThreshold     = 3

	timeWeight    = 0.3
	attemptWeight = 0.4
	keywordWeight = 0.1
)

// ScoreInput is the interaction metadata the scorer combines.
type ScoreInput struct {
	TimeSpentSeconds int
	Attempts         int
	RecentTexts      []string
}

// Score combines time, attempts and lexicon hits into a frustration level.
// The keyword term is not capped on its own: many keywords across many texts
// can carry the level to 1.0 alone.
func Score(in ScoreInput) FrustrationAssessment {
	var level float64
	triggers := []string{}

	if in.TimeSpentSeconds > timeThresholdSeconds {
		level += timeWeight
		triggers = append(triggers, TriggerExtendedTime)
	}
	if in.Attempts > attemptThreshold {
		level += attemptWeight
		triggers = append(triggers, TriggerRepeatedAttempts)
	}

	keywords := 0
	for _, text := range in.RecentTexts {
		keywords += keywordHits(text)
	}
	if keywords > 0 {
		level += keywordWeight * float64(keywords)
		triggers = append(triggers, TriggerLanguage)
	}

	level = clamp01(math.Round(level*100) / 100)
	return FrustrationAssessment{
		Level:           level,
		Triggers:        triggers,
		Recommendations: Recommendations(level),
	}
}

// keywordHits counts distinct lexicon keywords in one text.
func keywordHits(text string) int {
	n := normalize(text)
	hits := 0
	for _, k := range Lexicon {
		if n.contains(k) {
			hits++
		}
	}
	return hits
}

// Recommendations returns the tiered advice for a frustration level.
func Recommendations(level float64) []string {
	switch {
	case level >= 0.7:
		return []string{
			"Take a short break before continuing",
			"Start again from the simplest possible explanation",
			"Break the problem into smaller steps",
		}
	case level >= 0.5:
		return []string{
			"Try an alternative explanation of the concept",
			"Work through more examples step by step",
		}
	case level >= 0.3:
		return []string{
			"Clarify the specific point that is unclear",
			"Check the prerequisites for this topic",
		}
	}
	return []string{}
}
