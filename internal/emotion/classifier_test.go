package emotion

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/abhisek/tutorly/internal/learner"
)

func TestClassify_Rules(t *testing.T) {
	c := NewClassifier()

	tests := []struct {
		text       string
		emotion    Emotion
		confidence float64
		confusion  bool
	}{
		{"I don't understand neural networks", Frustration, 0.7, true},
		{"I’m stuck and this doesn’t work at all", Frustration, 0.75, true},
		{"I don't understand why this is stuck, it's not working", Frustration, 0.8, true},
		{"I'm confused about embeddings", Confusion, 0.7, true},
		{"I'm worried about the exam tomorrow", Anxiety, 0.7, false},
		{"Why does attention scale by sqrt(d)", Curiosity, 0.65, false},
		{"This is awesome, I love it!", Engagement, 0.8, false},
		{"This is boring, way too easy", Boredom, 0.7, false},
		{"Attention layers vs RNNs?", Curiosity, 0.65, false},
		{"Here is my code for the task", Neutral, 0.5, false},
		{"almost done with the task", Neutral, 0.5, false},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			a := c.Classify(tt.text, nil)
			assert.Equal(t, tt.emotion, a.Emotion)
			assert.InDelta(t, tt.confidence, a.Confidence, 1e-9)
			assert.Equal(t, tt.confusion, a.DetectedConfusion)
		})
	}
}

// "I don't understand neural networks" must read as frustration with
// confusion flagged.
func TestClassify_DontUnderstandScenario(t *testing.T) {
	a := NewClassifier().Classify("I don't understand neural networks", nil)
	assert.Contains(t, []Emotion{Frustration, Confusion}, a.Emotion)
	assert.True(t, a.DetectedConfusion)
	assert.GreaterOrEqual(t, a.Confidence, 0.7)
	assert.Equal(t, []string{"don't understand"}, a.Indicators)
}

func TestClassify_FrustrationBeatsCuriosity(t *testing.T) {
	a := NewClassifier().Classify("I don't understand why this fails", nil)
	assert.Equal(t, Frustration, a.Emotion)
	assert.Equal(t, "frustration", a.Rule)
}

// Mixed cues resolve frustration > anxiety > curiosity > engagement, and the
// confusion and boredom rules only see text none of those claim.
func TestClassify_Precedence(t *testing.T) {
	tests := []struct {
		text    string
		emotion Emotion
	}{
		{"I'm stuck and worried about the exam", Frustration},
		{"I don't understand, how do I fix this?", Frustration},
		{"I'm nervous, why is the exam so soon?", Anxiety},
		{"worried but this is great!", Anxiety},
		{"I'm lost, how does attention work?", Curiosity},
		{"I'm confused about why gradients vanish", Curiosity},
		{"is this great?", Curiosity},
		{"wow, how cool is that!", Curiosity},
		{"this is great, I was lost before", Engagement},
		{"so bored, nothing amazing here", Engagement},
		{"lost and bored", Confusion},
		{"too easy, I already know this", Boredom},
	}
	c := NewClassifier()
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.emotion, c.Classify(tt.text, nil).Emotion)
		})
	}
}

func TestClassify_MarkersRespectWordBoundaries(t *testing.T) {
	c := NewClassifier()

	a := c.Classify("scan items in the batch", nil)
	assert.Equal(t, Neutral, a.Emotion)

	a = c.Classify("the showcase also hardly matters", nil)
	assert.Equal(t, Neutral, a.Emotion, "neither \"how\" nor \"so hard\" is a whole phrase here")

	a = c.Classify("Can I try the next one", nil)
	assert.Equal(t, Curiosity, a.Emotion)
	assert.Equal(t, []string{"can i"}, a.Indicators)
}

func TestClassify_EmptyInput(t *testing.T) {
	for _, in := range []string{"", "   ", "\n\t"} {
		a := NewClassifier().Classify(in, nil)
		assert.Equal(t, Neutral, a.Emotion)
		assert.Zero(t, a.Confidence)
		assert.Equal(t, []string{"no signal"}, a.Indicators)
	}
}

func TestClassify_ConfidenceAdjustments(t *testing.T) {
	c := NewClassifier()

	short := c.Classify("ok", nil)
	assert.InDelta(t, 0.3, short.Confidence, 1e-9)

	history := make([]learner.Interaction, 3)
	a := c.Classify("Here is my code for the task", history)
	assert.InDelta(t, 0.65, a.Confidence, 1e-9)

	long := make([]learner.Interaction, 12)
	a = c.Classify("Here is my code for the task", long)
	assert.InDelta(t, 0.8, a.Confidence, 1e-9)

	a = c.Classify("This is awesome, I love it!", long)
	assert.Equal(t, 1.0, a.Confidence)
}

func TestClassify_AlwaysBounded(t *testing.T) {
	c := NewClassifier()
	inputs := []string{
		"", "?", "!", "stuck", "why?", "I love this!!! awesome amazing cool great",
		strings.Repeat("stuck frustrated give up ", 50),
		"こんにちは", "12345", "don’t understand",
	}
	valid := map[Emotion]bool{}
	for _, e := range All() {
		valid[e] = true
	}
	for _, n := range []int{0, 1, 30} {
		history := make([]learner.Interaction, n)
		for _, in := range inputs {
			a := c.Classify(in, history)
			assert.GreaterOrEqual(t, a.Confidence, 0.0, in)
			assert.LessOrEqual(t, a.Confidence, 1.0, in)
			assert.True(t, valid[a.Emotion], in)
		}
	}
}

func TestClassify_CustomRules(t *testing.T) {
	c := NewClassifier(Rule{Name: "tired", Emotion: Boredom, Markers: []string{"sleepy"}, Base: 0.9})
	a := c.Classify("feeling sleepy right now", nil)
	assert.Equal(t, Boredom, a.Emotion)
	assert.InDelta(t, 0.9, a.Confidence, 1e-9)

	a = c.Classify("I am stuck on this one", nil)
	assert.Equal(t, Neutral, a.Emotion)

	// Without a "?" marker in the rule set a question still reads as curiosity.
	a = c.Classify("what comes after this?", nil)
	assert.Equal(t, Curiosity, a.Emotion)
	assert.InDelta(t, 0.6, a.Confidence, 1e-9)
	assert.Equal(t, []string{"?"}, a.Indicators)
}

func TestParseEmotion(t *testing.T) {
	tests := map[string]Emotion{
		"frustration": Frustration,
		"Frustrated":  Frustration,
		"confused":    Confusion,
		"bored":       Boredom,
		"excited":     Engagement,
		"excitement":  Engagement,
		"engaged":     Engagement,
		" anxious ":   Anxiety,
		"curious":     Curiosity,
		"":            Neutral,
		"elated":      Neutral,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseEmotion(in), in)
	}
}
