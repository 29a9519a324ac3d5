package intervention

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/abhisek/tutorly/internal/emotion"
)

func TestDecide_Table(t *testing.T) {
	tests := []struct {
		emotion emotion.Emotion
		want    Type
	}{
		{emotion.Frustration, Pause},
		{emotion.Confusion, Simplify},
		{emotion.Boredom, Challenge},
		{emotion.Engagement, Encourage},
		{emotion.Curiosity, None},
		{emotion.Anxiety, None},
		{emotion.Neutral, None},
		{emotion.Emotion("elated"), None},
	}
	for _, tt := range tests {
		t.Run(string(tt.emotion), func(t *testing.T) {
			d := Decide(tt.emotion, 0.8)
			assert.Equal(t, tt.want, d.Type)
			assert.NotEmpty(t, d.Message)
			if tt.want != None {
				assert.GreaterOrEqual(t, len(d.NextSteps), 2)
				assert.LessOrEqual(t, len(d.NextSteps), 3)
			}
		})
	}
}

func TestDecide_BoredAtHighSeverityChallenges(t *testing.T) {
	assert.Equal(t, Challenge, Decide(emotion.ParseEmotion("bored"), 0.8).Type)
}

func TestDecide_NoneAtOrBelowThreshold(t *testing.T) {
	for _, e := range emotion.All() {
		for _, sev := range []float64{0, 0.1, 0.29, Threshold} {
			assert.Equal(t, None, Decide(e, sev).Type, "%s at %v", e, sev)
		}
	}
}

func TestDecide_DoesNotShareTable(t *testing.T) {
	d := Decide(emotion.Frustration, 0.9)
	d.NextSteps[0] = "mutated"
	assert.NotEqual(t, "mutated", Decide(emotion.Frustration, 0.9).NextSteps[0])
}

func TestTypes(t *testing.T) {
	assert.Equal(t, []Type{None, Pause, Simplify, Encourage, Challenge}, Types())
}
