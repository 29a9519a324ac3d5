// Package intervention maps an emotion and its severity to a pedagogical
// action. It is a fixed lookup table, not a model.
package intervention

import "github.com/abhisek/tutorly/internal/emotion"

// Type is the selected action.
type Type string

const (
	None      Type = "none"
	Pause     Type = "pause"
	Simplify  Type = "simplify"
	Encourage Type = "encourage"
	Challenge Type = "challenge"
)

// Types lists the closed set of actions.
func Types() []Type {
	return []Type{None, Pause, Simplify, Encourage, Challenge}
}

// Threshold is the severity an emotion must exceed before anything other
// than None is chosen.
const Threshold = 0.3

// Decision is the policy output.
type Decision struct {
	Type      Type     `json:"type"`
	Message   string   `json:"message"`
	NextSteps []string `json:"next_steps"`
}

var continueDecision = Decision{
	Type:      None,
	Message:   "Keep going, you're making progress.",
	NextSteps: []string{},
}

var table = map[emotion.Emotion]Decision{
	emotion.Frustration: {
		Type:    Pause,
		Message: "You've been working hard on this. A short pause often helps things click.",
		NextSteps: []string{
			"Step away for five minutes",
			"Come back and re-read the last example",
			"Try the smallest piece of the problem first",
		},
	},
	emotion.Confusion: {
		Type:    Simplify,
		Message: "Let's slow down and look at this from a simpler angle.",
		NextSteps: []string{
			"Review a plain-language explanation",
			"Walk through one concrete example",
		},
	},
	emotion.Boredom: {
		Type:    Challenge,
		Message: "You seem ready for something harder.",
		NextSteps: []string{
			"Try an advanced variation of this exercise",
			"Apply the concept to a project of your own",
		},
	},
	emotion.Engagement: {
		Type:    Encourage,
		Message: "Great momentum. Keep building on it.",
		NextSteps: []string{
			"Continue to the next lesson",
			"Share what you learned by explaining it back",
		},
	},
}

// Decide picks the intervention for e at the given severity. Severity at or
// below Threshold, and emotions without a table entry, give None.
func Decide(e emotion.Emotion, severity float64) Decision {
	if severity <= Threshold {
		return clone(continueDecision)
	}
	d, ok := table[e]
	if !ok {
		return clone(continueDecision)
	}
	return clone(d)
}

// clone keeps callers from mutating the shared table.
func clone(d Decision) Decision {
	d.NextSteps = append([]string{}, d.NextSteps...)
	return d
}
