package emotion

// Rule maps a marker set to an emotion. Confidence is Base for one matched
// marker, rising by Step per extra marker up to Max.
type Rule struct {
	Name      string
	Emotion   Emotion
	Markers   []string
	Base      float64
	Step      float64
	Max       float64
	Confusion bool // sets DetectedConfusion
}

func (r Rule) confidence(matches int) float64 {
	c := r.Base + r.Step*float64(matches-1)
	if r.Max > 0 && c > r.Max {
		c = r.Max
	}
	return c
}

// DefaultRules returns the rules in priority order: frustration, anxiety,
// curiosity, engagement. Frustration is checked first so "I don't understand
// why" reads as frustration, not curiosity. Confusion and boredom come last
// and only label text none of the others claim.
func DefaultRules() []Rule {
	return []Rule{
		{
			Name:    "frustration",
			Emotion: Frustration,
			Markers: []string{
				"don't understand", "do not understand", "dont understand",
				"stuck", "doesn't work", "does not work", "not working",
				"frustrated", "frustrating", "give up", "makes no sense",
				"i hate", "so hard", "can't figure",
			},
			Base: 0.7, Step: 0.05, Max: 0.8,
			Confusion: true,
		},
		{
			Name:    "anxiety",
			Emotion: Anxiety,
			Markers: []string{
				"worried", "nervous", "anxious", "scared", "afraid",
				"overwhelmed", "exam", "deadline", "panic",
			},
			Base: 0.7, Max: 0.7,
		},
		{
			Name:    "curiosity",
			Emotion: Curiosity,
			Markers: []string{
				"why", "how", "what if", "curious", "wonder",
				"tell me more", "explain", "could i", "can i", "?",
			},
			Base: 0.65, Step: 0.05, Max: 0.7,
		},
		{
			Name:    "engagement",
			Emotion: Engagement,
			Markers: []string{
				"cool", "awesome", "amazing", "love", "great", "excited",
				"got it", "makes sense", "interesting", "!",
			},
			Base: 0.7, Step: 0.05, Max: 0.8,
		},
		{
			Name:    "confusion",
			Emotion: Confusion,
			Markers: []string{
				"confused", "confusing", "lost", "unclear",
				"what do you mean", "not sure what", "huh",
			},
			Base: 0.7, Max: 0.7,
			Confusion: true,
		},
		{
			Name:    "boredom",
			Emotion: Boredom,
			Markers: []string{
				"boring", "bored", "too easy", "already know", "meh",
				"whatever", "tedious",
			},
			Base: 0.7, Max: 0.7,
		},
	}
}
