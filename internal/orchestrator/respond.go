package orchestrator

import (
	"context"
	"strings"

	"github.com/abhisek/tutorly/internal/compose"
	"github.com/abhisek/tutorly/internal/intervention"
	"github.com/abhisek/tutorly/internal/learner"
)

// Respond runs one chat turn: classify, score, decide, pick a video when the
// state warrants one, then write the reply through the fallback chain.
func (o *Orchestrator) Respond(ctx context.Context, lc learner.Context, input string) (resp *compose.Response, err error) {
	ctx, r := o.begin(ctx, workflowRespond)
	defer func() { o.finish(ctx, r, err) }()

	if strings.TrimSpace(input) == "" {
		return nil, invalid("input", "required")
	}
	lc = lc.Trimmed()

	a, fa := o.assess(lc, input)
	r.emotion = a.Emotion
	r.step("classify")

	d := intervention.Decide(a.Emotion, Severity(a, fa))
	r.decision = string(d.Type)
	r.step("decide")

	topic := o.resolveTopic("", lc, input)
	turn := compose.Turn{
		Learner:    lc,
		Input:      input,
		Assessment: a,
		Decision:   d,
		Topic:      topic,
	}
	if videoWarranted(a, fa, d, lc) {
		turn.Video = o.pickVideo(topic, lc.Preferences.Difficulty, "")
	}
	if turn.Video != nil {
		r.step("video")
	}

	resp, err = o.composer.Compose(ctx, turn)
	if err != nil {
		return nil, err
	}
	r.tier(resp.Metadata.FallbackTierUsed)
	r.step("compose")
	return resp, nil
}
