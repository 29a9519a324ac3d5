package tutor

// Config holds generation settings for the personalizer.
type Config struct {
	LessonMaxTokens int
	AdaptMaxTokens  int
	ReplyMaxTokens  int

	// BriefMaxTokens bounds the secondary, reduced-context calls.
	BriefMaxTokens int

	Temperature float64
}

// DefaultConfig returns sensible defaults for lesson generation.
func DefaultConfig() Config {
	return Config{
		LessonMaxTokens: 1500,
		AdaptMaxTokens:  1200,
		ReplyMaxTokens:  500,
		BriefMaxTokens:  300,
		Temperature:     0.7,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.LessonMaxTokens <= 0 {
		c.LessonMaxTokens = d.LessonMaxTokens
	}
	if c.AdaptMaxTokens <= 0 {
		c.AdaptMaxTokens = d.AdaptMaxTokens
	}
	if c.ReplyMaxTokens <= 0 {
		c.ReplyMaxTokens = d.ReplyMaxTokens
	}
	if c.BriefMaxTokens <= 0 {
		c.BriefMaxTokens = d.BriefMaxTokens
	}
	return c
}
