// Package learner holds the per-session snapshot of a learner that every
// tutoring module reads. The core never mutates it.
package learner

import (
	"strings"
	"time"
)

// Level is a self-reported or assessed skill level.
type Level string

const (
	Beginner     Level = "beginner"
	Intermediate Level = "intermediate"
	Advanced     Level = "advanced"
)

// Rank maps a level onto 1..3, or 0 when unknown.
func (l Level) Rank() int {
	switch Level(strings.ToLower(string(l))) {
	case Beginner:
		return 1
	case Intermediate:
		return 2
	case Advanced:
		return 3
	}
	return 0
}

// Skills are background levels per dimension. Empty means unknown.
type Skills struct {
	Theory    Level `json:"theory,omitempty"`
	Tooling   Level `json:"tooling,omitempty"`
	Prompting Level `json:"prompting,omitempty"`
}

// Style holds independent learning-style weights in [0,1].
type Style struct {
	Visual      float64 `json:"visual"`
	Auditory    float64 `json:"auditory"`
	Kinesthetic float64 `json:"kinesthetic"`
}

// Dominant learning styles.
const (
	StyleVisual      = "visual"
	StyleAuditory    = "auditory"
	StyleKinesthetic = "kinesthetic"
)

// Sensitivity holds emotional-sensitivity thresholds in [0,1].
type Sensitivity struct {
	Confusion   float64 `json:"confusion"`
	Frustration float64 `json:"frustration"`
	Engagement  float64 `json:"engagement"`
}

type Preferences struct {
	Format     string `json:"format,omitempty"`
	Pace       string `json:"pace,omitempty"`
	Difficulty string `json:"difficulty,omitempty"`
}

// Interaction is one prior conversation turn.
type Interaction struct {
	Role string    `json:"role"`
	Text string    `json:"text"`
	At   time.Time `json:"at,omitzero"`
}

// MaxHistory bounds the history a caller should pass in.
const MaxHistory = 20

// Context is the learner snapshot for one request.
type Context struct {
	Skills      Skills        `json:"skills"`
	Style       Style         `json:"style"`
	Sensitivity Sensitivity   `json:"sensitivity"`
	Preferences Preferences   `json:"preferences"`
	History     []Interaction `json:"history,omitempty"`

	CurrentTopic string `json:"current_topic,omitempty"`

	// Interaction metadata for the frustration scorer.
	TimeOnTaskSeconds int `json:"time_on_task_seconds,omitempty"`
	Attempts          int `json:"attempts,omitempty"`
}

// DominantStyle returns the argmax of the style weights, ties broken
// visual > auditory > kinesthetic. All-zero weights give "".
func (c Context) DominantStyle() string {
	best, style := 0.0, ""
	for _, s := range []struct {
		name string
		w    float64
	}{
		{StyleVisual, c.Style.Visual},
		{StyleAuditory, c.Style.Auditory},
		{StyleKinesthetic, c.Style.Kinesthetic},
	} {
		if s.w > best {
			best, style = s.w, s.name
		}
	}
	return style
}

// Background concatenates the skill fields that are present, e.g.
// "theory: beginner, prompting: advanced". Empty when nothing is known.
func (c Context) Background() string {
	var parts []string
	add := func(name string, l Level) {
		if l != "" {
			parts = append(parts, name+": "+string(l))
		}
	}
	add("theory", c.Skills.Theory)
	add("tooling", c.Skills.Tooling)
	add("prompting", c.Skills.Prompting)
	return strings.Join(parts, ", ")
}

// RecentHistory returns the last n history entries, oldest first.
func (c Context) RecentHistory(n int) []Interaction {
	if n <= 0 || len(c.History) == 0 {
		return nil
	}
	if len(c.History) <= n {
		return c.History
	}
	return c.History[len(c.History)-n:]
}

// RecentTexts returns the text of the last n history entries.
func (c Context) RecentTexts(n int) []string {
	recent := c.RecentHistory(n)
	out := make([]string, 0, len(recent))
	for _, h := range recent {
		out = append(out, h.Text)
	}
	return out
}

// Trimmed returns a copy whose history keeps only the newest MaxHistory
// entries.
func (c Context) Trimmed() Context {
	if len(c.History) > MaxHistory {
		c.History = append([]Interaction(nil), c.History[len(c.History)-MaxHistory:]...)
	}
	return c
}
