package learner

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDominantStyle(t *testing.T) {
	tests := []struct {
		name  string
		style Style
		want  string
	}{
		{"all zero", Style{}, ""},
		{"visual", Style{Visual: 0.9, Auditory: 0.2}, StyleVisual},
		{"auditory", Style{Visual: 0.1, Auditory: 0.7, Kinesthetic: 0.3}, StyleAuditory},
		{"kinesthetic", Style{Kinesthetic: 0.4}, StyleKinesthetic},
		{"tie visual wins", Style{Visual: 0.5, Auditory: 0.5, Kinesthetic: 0.5}, StyleVisual},
		{"tie auditory over kinesthetic", Style{Auditory: 0.6, Kinesthetic: 0.6}, StyleAuditory},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Context{Style: tt.style}.DominantStyle())
		})
	}
}

func TestBackground(t *testing.T) {
	assert.Equal(t, "", Context{}.Background())
	c := Context{Skills: Skills{Theory: Beginner, Prompting: Advanced}}
	assert.Equal(t, "theory: beginner, prompting: advanced", c.Background())
}

func TestRecentHistory(t *testing.T) {
	c := Context{History: []Interaction{{Text: "a"}, {Text: "b"}, {Text: "c"}, {Text: "d"}}}
	assert.Equal(t, []string{"b", "c", "d"}, c.RecentTexts(3))
	assert.Len(t, c.RecentHistory(10), 4)
	assert.Nil(t, c.RecentHistory(0))
	assert.Empty(t, Context{}.RecentTexts(3))
}

func TestTrimmed(t *testing.T) {
	c := Context{}
	for i := 0; i < MaxHistory+5; i++ {
		c.History = append(c.History, Interaction{Text: string(rune('a' + i))})
	}
	trimmed := c.Trimmed()
	assert.Len(t, trimmed.History, MaxHistory)
	assert.Equal(t, c.History[5].Text, trimmed.History[0].Text)
	assert.Len(t, c.History, MaxHistory+5)
}

func TestLevelRank(t *testing.T) {
	assert.Equal(t, 1, Beginner.Rank())
	assert.Equal(t, 3, Level("ADVANCED").Rank())
	assert.Equal(t, 0, Level("expert").Rank())
}
