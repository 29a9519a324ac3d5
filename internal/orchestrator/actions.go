package orchestrator

import (
	"context"
	"encoding/json"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/abhisek/tutorly/internal/compose"
	"github.com/abhisek/tutorly/internal/emotion"
	"github.com/abhisek/tutorly/internal/exercise"
	"github.com/abhisek/tutorly/internal/intervention"
	"github.com/abhisek/tutorly/internal/learner"
	"github.com/abhisek/tutorly/internal/tutor"
	"github.com/abhisek/tutorly/internal/video"
)

type actionKey struct{ module, action string }

type actionFunc func(o *Orchestrator, ctx context.Context, params json.RawMessage) (any, error)

// actions is the closed set of module functions reachable by name.
var actions = map[actionKey]actionFunc{
	{"emotion", "classify"}:    classifyAction,
	{"frustration", "score"}:   scoreAction,
	{"intervention", "decide"}: decideAction,
	{"video", "find"}:          findVideoAction,
	{"video", "recommend"}:     recommendVideosAction,
	{"tutor", "reformulate"}:   reformulateAction,
	{"tutor", "feedback"}:      feedbackAction,
	{"exercise", "generate"}:   generateExerciseAction,
	{"exercise", "evaluate"}:   evaluateExerciseAction,
}

// Actions lists the module/action names RunAction accepts, sorted.
func Actions() []string {
	out := make([]string, 0, len(actions))
	for k := range actions {
		out = append(out, k.module+"/"+k.action)
	}
	sort.Strings(out)
	return out
}

// RunAction invokes a single module function by name. Generation failures
// degrade the same way they do inside workflows.
func (o *Orchestrator) RunAction(ctx context.Context, module, action string, params json.RawMessage) (any, error) {
	fn, ok := actions[actionKey{strings.ToLower(module), strings.ToLower(action)}]
	if !ok {
		return nil, &ErrUnknownAction{Module: module, Action: action}
	}
	o.log.Debug("running action", zap.String("module", module), zap.String("action", action))
	return fn(o, ctx, params)
}

type ClassifyParams struct {
	Text    string                `json:"text"`
	History []learner.Interaction `json:"history"`
}

func classifyAction(o *Orchestrator, _ context.Context, raw json.RawMessage) (any, error) {
	var p ClassifyParams
	if err := decodeParams(raw, &p); err != nil {
		return nil, err
	}
	a := o.classifier.Classify(p.Text, p.History)
	o.metrics.Emotion(string(a.Emotion))
	return a, nil
}

type ScoreParams struct {
	TimeSpentSeconds int      `json:"time_spent_seconds"`
	Attempts         int      `json:"attempts"`
	RecentTexts      []string `json:"recent_texts"`
}

func scoreAction(o *Orchestrator, _ context.Context, raw json.RawMessage) (any, error) {
	var p ScoreParams
	if err := decodeParams(raw, &p); err != nil {
		return nil, err
	}
	if p.TimeSpentSeconds < 0 || p.Attempts < 0 {
		return nil, invalid("time_spent_seconds", "must not be negative")
	}
	return emotion.Score(emotion.ScoreInput{
		TimeSpentSeconds: p.TimeSpentSeconds,
		Attempts:         p.Attempts,
		RecentTexts:      p.RecentTexts,
	}), nil
}

type DecideParams struct {
	Emotion  string  `json:"emotion"`
	Severity float64 `json:"severity"`
}

func decideAction(o *Orchestrator, _ context.Context, raw json.RawMessage) (any, error) {
	var p DecideParams
	if err := decodeParams(raw, &p); err != nil {
		return nil, err
	}
	if p.Emotion == "" {
		return nil, invalid("emotion", "required")
	}
	if p.Severity < 0 || p.Severity > 1 {
		return nil, invalid("severity", "must be within [0, 1]")
	}
	d := intervention.Decide(emotion.ParseEmotion(p.Emotion), p.Severity)
	o.metrics.Intervention(string(d.Type))
	return d, nil
}

type VideoParams struct {
	Topic      string `json:"topic"`
	Difficulty string `json:"difficulty"`
	Language   string `json:"language"`
	Count      int    `json:"count"`
}

func (p VideoParams) query() video.Query {
	return video.Query{Topic: p.Topic, Difficulty: p.Difficulty, Language: p.Language}
}

func findVideoAction(o *Orchestrator, _ context.Context, raw json.RawMessage) (any, error) {
	var p VideoParams
	if err := decodeParams(raw, &p); err != nil {
		return nil, err
	}
	if p.Topic == "" {
		return nil, invalid("topic", "required")
	}
	return o.videos.FindBest(p.query()), nil
}

const defaultVideoCount = 3

func recommendVideosAction(o *Orchestrator, _ context.Context, raw json.RawMessage) (any, error) {
	var p VideoParams
	if err := decodeParams(raw, &p); err != nil {
		return nil, err
	}
	if p.Topic == "" {
		return nil, invalid("topic", "required")
	}
	if p.Count <= 0 {
		p.Count = defaultVideoCount
	}
	q := p.query()
	return o.videos.Recommend(p.Topic, p.Count, &q), nil
}

type ReformulateParams struct {
	Content  string `json:"content"`
	Feedback string `json:"feedback"`
	Emotion  string `json:"emotion"`
}

// ReformulateResult is the tutor/reformulate action output.
type ReformulateResult struct {
	Content      string `json:"content"`
	FallbackTier int    `json:"fallback_tier_used"`
}

func reformulateAction(o *Orchestrator, ctx context.Context, raw json.RawMessage) (any, error) {
	var p ReformulateParams
	if err := decodeParams(raw, &p); err != nil {
		return nil, err
	}
	if p.Content == "" {
		return nil, invalid("content", "required")
	}
	e := emotion.ParseEmotion(p.Emotion)
	content, tier, err := compose.Run(ctx, o.log, []compose.Tier[string]{
		{ID: compose.TierPrimary, Name: "reformulate", Attempt: func(ctx context.Context) (string, error) {
			return o.tutor.Reformulate(ctx, p.Content, p.Feedback, e)
		}},
		compose.Static("original-content", p.Content),
	})
	if err != nil {
		return nil, err
	}
	o.metrics.FallbackTier(tier)
	return ReformulateResult{Content: content, FallbackTier: tier}, nil
}

type FeedbackParams struct {
	StudentResponse string `json:"student_response"`
	ExpectedAnswer  string `json:"expected_answer"`
	LessonContext   string `json:"lesson_context"`
	Emotion         string `json:"emotion"`
}

// FeedbackResult is the tutor/feedback action output.
type FeedbackResult struct {
	Feedback     string `json:"feedback"`
	FallbackTier int    `json:"fallback_tier_used"`
}

func feedbackAction(o *Orchestrator, ctx context.Context, raw json.RawMessage) (any, error) {
	var p FeedbackParams
	if err := decodeParams(raw, &p); err != nil {
		return nil, err
	}
	if p.StudentResponse == "" {
		return nil, invalid("student_response", "required")
	}
	e := emotion.ParseEmotion(p.Emotion)
	text, tier, err := compose.Run(ctx, o.log, []compose.Tier[string]{
		{ID: compose.TierPrimary, Name: "feedback", Attempt: func(ctx context.Context) (string, error) {
			return o.tutor.Feedback(ctx, tutor.FeedbackInput{
				StudentResponse: p.StudentResponse,
				ExpectedAnswer:  p.ExpectedAnswer,
				LessonContext:   p.LessonContext,
				Emotion:         e,
			})
		}},
		compose.Static("canned", compose.Canned(e)),
	})
	if err != nil {
		return nil, err
	}
	o.metrics.FallbackTier(tier)
	return FeedbackResult{Feedback: text, FallbackTier: tier}, nil
}

type GenerateExerciseParams struct {
	Context learner.Context `json:"context"`
	exercise.GenerateRequest
}

func generateExerciseAction(o *Orchestrator, ctx context.Context, raw json.RawMessage) (any, error) {
	var p GenerateExerciseParams
	if err := decodeParams(raw, &p); err != nil {
		return nil, err
	}
	if p.Topic == "" {
		return nil, invalid("topic", "required")
	}
	if p.Type != "" && !p.Type.Valid() {
		return nil, invalid("type", "unknown exercise type "+string(p.Type))
	}
	ex, tier, err := compose.Run(ctx, o.log, []compose.Tier[*exercise.Exercise]{
		{ID: compose.TierPrimary, Name: "exercise", Attempt: func(ctx context.Context) (*exercise.Exercise, error) {
			return o.exercises.Generate(ctx, p.Context, p.GenerateRequest)
		}},
		compose.Static("static-exercise", staticExercise(p.Topic)),
	})
	if err != nil {
		return nil, err
	}
	o.metrics.FallbackTier(tier)
	return ex, nil
}

type EvaluateExerciseParams struct {
	Context    learner.Context     `json:"context"`
	Exercise   *exercise.Exercise  `json:"exercise"`
	Submission exercise.Submission `json:"submission"`
	Attempt    int                 `json:"attempt"`
	Emotion    string              `json:"emotion"`
}

func evaluateExerciseAction(o *Orchestrator, ctx context.Context, raw json.RawMessage) (any, error) {
	var p EvaluateExerciseParams
	if err := decodeParams(raw, &p); err != nil {
		return nil, err
	}
	return o.exercises.Evaluate(ctx, p.Context, p.Exercise, p.Submission, p.Attempt, emotion.ParseEmotion(p.Emotion))
}
