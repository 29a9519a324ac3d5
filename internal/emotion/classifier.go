package emotion

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/abhisek/tutorly/internal/learner"
)

const (
	neutralConfidence  = 0.5
	questionConfidence = 0.6
	historyStep        = 0.05
	historyCap         = 0.3
	shortPenalty       = 0.2
	shortInputRunes    = 10
)

// Classifier evaluates rules in order; the first rule with a matching marker
// wins.
type Classifier struct {
	rules []Rule
}

// NewClassifier returns a classifier over rules, or DefaultRules when none
// are given.
func NewClassifier(rules ...Rule) *Classifier {
	if len(rules) == 0 {
		rules = DefaultRules()
	}
	return &Classifier{rules: rules}
}

// Classify labels text. History only adjusts confidence. It never fails:
// empty input is neutral with zero confidence.
func (c *Classifier) Classify(text string, history []learner.Interaction) Assessment {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return Assessment{Emotion: Neutral, Confidence: 0, Indicators: []string{"no signal"}}
	}

	in := normalize(trimmed)
	a := c.match(in)

	a.Confidence += min(historyStep*float64(len(history)), historyCap)
	if utf8.RuneCountInString(trimmed) < shortInputRunes {
		a.Confidence -= shortPenalty
	}
	a.Confidence = clamp01(a.Confidence)
	return a
}

func (c *Classifier) match(in normalized) Assessment {
	for _, r := range c.rules {
		var hits []string
		for _, m := range r.Markers {
			if in.contains(m) {
				hits = append(hits, m)
			}
		}
		if len(hits) > 0 {
			return Assessment{
				Emotion:           r.Emotion,
				Confidence:        r.confidence(len(hits)),
				Indicators:        hits,
				DetectedConfusion: r.Confusion,
				Rule:              r.Name,
			}
		}
	}

	// Reached only when a custom rule set has no "?" marker.
	if strings.Contains(string(in), "?") {
		return Assessment{Emotion: Curiosity, Confidence: questionConfidence, Indicators: []string{"?"}}
	}
	return Assessment{Emotion: Neutral, Confidence: neutralConfidence, Indicators: []string{}}
}

// normalized is lowercase text with curly apostrophes folded.
type normalized string

func normalize(s string) normalized {
	s = strings.ToLower(s)
	return normalized(strings.NewReplacer("’", "'", "‘", "'").Replace(s))
}

// contains reports whether marker occurs on word boundaries: a marker that
// starts or ends with a letter or digit must not run into a neighbouring one,
// so "lost" misses "almost" and "can i" misses "scan items". Punctuation
// markers such as "?" match anywhere.
func (n normalized) contains(marker string) bool {
	if marker == "" {
		return false
	}
	s := string(n)
	first, _ := utf8.DecodeRuneInString(marker)
	last, _ := utf8.DecodeLastRuneInString(marker)
	for from := 0; from < len(s); {
		i := strings.Index(s[from:], marker)
		if i < 0 {
			return false
		}
		start, end := from+i, from+i+len(marker)
		if !(isWordRune(first) && wordBefore(s, start)) && !(isWordRune(last) && wordAfter(s, end)) {
			return true
		}
		_, size := utf8.DecodeRuneInString(s[start:])
		from = start + size
	}
	return false
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

func wordBefore(s string, i int) bool {
	if i == 0 {
		return false
	}
	r, _ := utf8.DecodeLastRuneInString(s[:i])
	return isWordRune(r)
}

func wordAfter(s string, i int) bool {
	if i >= len(s) {
		return false
	}
	r, _ := utf8.DecodeRuneInString(s[i:])
	return isWordRune(r)
}
