package compose

import "github.com/abhisek/tutorly/internal/emotion"

// Canned replies, one per coarse state.
const (
	CannedFrustrated = "I can tell this is getting frustrating. Let's take a breath and break it into smaller pieces. Which part feels least clear right now?"
	CannedConfused   = "Let's slow down and look at this from a different angle. Tell me which part is confusing and we'll work through it step by step."
	CannedBored      = "Sounds like you're ready for something more challenging. Want to try a harder problem or jump ahead to a more advanced topic?"
	CannedEngaged    = "Love the enthusiasm! Let's keep that momentum going. What would you like to explore next?"
	CannedDefault    = "I'm here to help you learn. Could you tell me a bit more about what you'd like to explore?"
)

// Canned returns the static reply for e.
func Canned(e emotion.Emotion) string {
	switch e {
	case emotion.Frustration:
		return CannedFrustrated
	case emotion.Confusion:
		return CannedConfused
	case emotion.Boredom:
		return CannedBored
	case emotion.Engagement:
		return CannedEngaged
	}
	return CannedDefault
}

// GenericSuggestions are the follow-ups sent with a static reply.
func GenericSuggestions() []string {
	return []string{
		"Ask a specific question about the topic",
		"Try a short practice exercise",
		"Review the previous lesson",
	}
}
