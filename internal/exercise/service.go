package exercise

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/abhisek/tutorly/internal/emotion"
	"github.com/abhisek/tutorly/internal/learner"
	"github.com/abhisek/tutorly/internal/llm"
)

// Scoring constants.
const (
	// DegradedBaseScore is used when the evaluator call fails.
	DegradedBaseScore = 50

	codeBonus        = 20
	explanationBonus = 15
	answersBonus     = 5

	codeMinLen        = 10
	explanationMinLen = 20

	reviewThreshold = 50
)

// Suggestion lines added by post-processing.
const (
	SuggestBreak  = "Take a short break"
	SuggestReview = "Review the lesson material"
)

var cannedEncouragement = map[Tone]string{
	TonePatient:     "You're putting in real effort. Take it one step at a time and you'll get there.",
	ToneChallenging: "Nice. Ready to push this further with a harder variation?",
	ToneEncouraging: "Good progress. Keep building on what worked here.",
}

// Service generates and evaluates exercises.
type Service struct {
	provider llm.Provider
	cfg      Config
	log      *zap.Logger
}

// NewService creates an exercise service.
func NewService(provider llm.Provider, cfg Config, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{provider: provider, cfg: cfg, log: log}
}

type exerciseOutput struct {
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	Instructions string     `json:"instructions"`
	StarterCode  string     `json:"starter_code"`
	Hints        []string   `json:"hints"`
	Questions    []Question `json:"questions"`
}

// Generate produces a validated exercise. Generation failures and validator
// rejections are returned.
func (s *Service) Generate(ctx context.Context, lc learner.Context, req GenerateRequest) (*Exercise, error) {
	if strings.TrimSpace(req.Topic) == "" {
		return nil, &ErrValidation{Field: "topic", Reason: "required"}
	}
	if req.Type == "" {
		req.Type = TypeConceptual
	}
	if !req.Type.Valid() {
		return nil, &ErrValidation{Field: "type", Reason: "unknown exercise type " + string(req.Type)}
	}

	var out exerciseOutput
	err := llm.GenerateJSON(llm.WithPurpose(ctx, "exercise"), s.provider, llm.Request{
		System:      generateSystemPrompt,
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: buildGenerateUserMessage(lc, req)}},
		Schema:      ExerciseSchema,
		MaxTokens:   s.cfg.GenerateMaxTokens,
		Temperature: s.cfg.Temperature,
	}, &out)
	if err != nil {
		return nil, err
	}

	ex := &Exercise{
		ID:           uuid.NewString(),
		Title:        out.Title,
		Description:  out.Description,
		Instructions: out.Instructions,
		StarterCode:  out.StarterCode,
		Hints:        out.Hints,
		Type:         req.Type,
	}
	if ex.Hints == nil {
		ex.Hints = []string{}
	}
	if req.Type == TypeQuiz {
		ex.Questions = out.Questions
	}

	for _, v := range s.cfg.Validators {
		if verr := v.Validate(ex, req); verr != nil {
			s.log.Warn("generated exercise rejected",
				zap.String("validator", verr.Validator),
				zap.String("reason", verr.Message))
			return nil, verr
		}
	}
	return ex, nil
}

type evaluationOutput struct {
	Score         int      `json:"score"`
	Strengths     []string `json:"strengths"`
	Improvements  []string `json:"improvements"`
	Suggestions   []string `json:"suggestions"`
	Encouragement string   `json:"encouragement"`
}

// ToneFor picks the feedback register: patient after the second attempt or
// when frustrated, challenging when bored, encouraging otherwise.
func ToneFor(attempt int, e emotion.Emotion) Tone {
	switch {
	case attempt > 2 || e == emotion.Frustration:
		return TonePatient
	case e == emotion.Boredom:
		return ToneChallenging
	}
	return ToneEncouraging
}

// Evaluate scores sub against ex. The submission must name the exercise.
// A failed evaluator call is absorbed: the base score falls back to
// DegradedBaseScore and the result is marked Degraded. A cancelled or
// expired caller context is returned as is.
func (s *Service) Evaluate(ctx context.Context, lc learner.Context, ex *Exercise, sub Submission, attempt int, e emotion.Emotion) (*Evaluation, error) {
	if ex == nil {
		return nil, &ErrValidation{Field: "exercise", Reason: "required"}
	}
	if sub.ExerciseID == "" {
		return nil, &ErrValidation{Field: "exercise_id", Reason: "required"}
	}
	if ex.ID != "" && sub.ExerciseID != ex.ID {
		return nil, &ErrValidation{Field: "exercise_id", Reason: "does not match the exercise"}
	}

	tone := ToneFor(attempt, e)
	eval := &Evaluation{Tone: tone}

	var out evaluationOutput
	err := llm.GenerateJSON(llm.WithPurpose(ctx, "evaluation"), s.provider, llm.Request{
		System:      evaluateSystemPrompt,
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: buildEvaluateUserMessage(lc, ex, sub, attempt, tone)}},
		Schema:      EvaluationSchema,
		MaxTokens:   s.cfg.EvaluateMaxTokens,
		Temperature: s.cfg.Temperature,
	}, &out)
	switch {
	case err == nil:
	case ctx.Err() != nil:
		return nil, ctx.Err()
	case llm.IsGenerationError(err):
		s.log.Warn("evaluator failed, using neutral base score", zap.Error(err))
		out = evaluationOutput{Score: DegradedBaseScore}
		eval.Degraded = true
	default:
		return nil, err
	}

	eval.Score = clampScore(clampScore(out.Score) + Bonus(sub))
	eval.Strengths = nonNil(out.Strengths)
	eval.Improvements = nonNil(out.Improvements)
	eval.Suggestions = postProcess(out.Suggestions, eval.Score, e)
	eval.Encouragement = strings.TrimSpace(out.Encouragement)
	if eval.Encouragement == "" {
		eval.Encouragement = cannedEncouragement[tone]
	}
	return eval, nil
}

// Bonus is the heuristic credit for what the submission contains.
func Bonus(sub Submission) int {
	var b int
	if len(sub.Code) > codeMinLen {
		b += codeBonus
	}
	if len(sub.Explanation) > explanationMinLen {
		b += explanationBonus
	}
	if len(sub.Answers) > 0 {
		b += answersBonus
	}
	return b
}

func postProcess(in []string, score int, e emotion.Emotion) []string {
	out := make([]string, 0, len(in)+2)
	if e == emotion.Frustration {
		out = append(out, SuggestBreak)
	}
	out = append(out, in...)
	if score < reviewThreshold {
		out = append(out, SuggestReview)
	}
	return out
}

func clampScore(v int) int {
	switch {
	case v < 0:
		return 0
	case v > 100:
		return 100
	}
	return v
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
