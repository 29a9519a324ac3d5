package compose

import (
	"context"

	"go.uber.org/zap"

	"github.com/abhisek/tutorly/internal/emotion"
	"github.com/abhisek/tutorly/internal/intervention"
	"github.com/abhisek/tutorly/internal/learner"
	"github.com/abhisek/tutorly/internal/video"
)

// Response is the contract handed to the presentation layer.
type Response struct {
	Text        string           `json:"text"`
	Video       *video.Candidate `json:"video"`
	Suggestions []string         `json:"suggestions"`
	Audio       *Audio           `json:"audio"`
	Metadata    Metadata         `json:"metadata"`
}

type Audio struct {
	Enabled  bool `json:"enabled"`
	Autoplay bool `json:"autoplay"`
}

type Metadata struct {
	Emotion          emotion.Emotion `json:"emotion"`
	Confidence       float64         `json:"confidence"`
	TopicDetected    string          `json:"topic_detected"`
	FallbackTierUsed int             `json:"fallback_tier_used"`
	NextSteps        []string        `json:"next_steps"`
}

// Replier produces the text of a conversational turn at two levels of
// context.
type Replier interface {
	Reply(ctx context.Context, lc learner.Context, input string, a emotion.Assessment, d intervention.Decision) (string, error)
	BriefReply(ctx context.Context, input string, e emotion.Emotion) (string, error)
}

// Turn is everything decided about one learner input before the text is
// written.
type Turn struct {
	Learner    learner.Context
	Input      string
	Assessment emotion.Assessment
	Decision   intervention.Decision
	Topic      string
	Video      *video.Candidate
}

// Composer writes the turn's text through the fallback chain and builds the
// Response.
type Composer struct {
	replier Replier
	log     *zap.Logger
}

// NewComposer creates a Composer.
func NewComposer(r Replier, log *zap.Logger) *Composer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Composer{replier: r, log: log}
}

// Compose runs the text tiers for t: the full-context reply, the brief reply,
// then the canned reply for the turn's emotion. Only caller cancellation is
// returned as an error.
func (c *Composer) Compose(ctx context.Context, t Turn) (*Response, error) {
	e := t.Assessment.Emotion
	text, tier, err := Run(ctx, c.log, []Tier[string]{
		{ID: TierPrimary, Name: "reply", Attempt: func(ctx context.Context) (string, error) {
			return c.replier.Reply(ctx, t.Learner, t.Input, t.Assessment, t.Decision)
		}},
		{ID: TierSecondary, Name: "brief-reply", Attempt: func(ctx context.Context) (string, error) {
			return c.replier.BriefReply(ctx, t.Input, e)
		}},
		Static("canned", Canned(e)),
	})
	if err != nil {
		return nil, err
	}

	nextSteps := t.Decision.NextSteps
	if nextSteps == nil {
		nextSteps = []string{}
	}
	suggestions := nextSteps
	if tier == TierStatic || len(suggestions) == 0 {
		suggestions = GenericSuggestions()
	}

	resp := &Response{
		Text:        text,
		Video:       t.Video,
		Suggestions: suggestions,
		Metadata: Metadata{
			Emotion:          e,
			Confidence:       t.Assessment.Confidence,
			TopicDetected:    t.Topic,
			FallbackTierUsed: tier,
			NextSteps:        nextSteps,
		},
	}
	if t.Learner.DominantStyle() == learner.StyleAuditory {
		resp.Audio = &Audio{Enabled: true}
	}
	return resp, nil
}
