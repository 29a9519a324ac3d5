package tutor

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/abhisek/tutorly/internal/emotion"
	"github.com/abhisek/tutorly/internal/intervention"
	"github.com/abhisek/tutorly/internal/learner"
	"github.com/abhisek/tutorly/internal/llm"
)

// Generation purposes, used for audit labels and metrics.
const (
	PurposeLesson      = "lesson"
	PurposeLessonStyle = "lesson-style"
	PurposeLessonBrief = "lesson-brief"
	PurposeReformulate = "reformulate"
	PurposeFeedback    = "feedback"
	PurposeReply       = "reply"
	PurposeReplyBrief  = "reply-brief"
)

// Personalizer builds lesson content conditioned on the learner and their
// emotional state. Generation failures are returned to the caller.
type Personalizer struct {
	provider llm.Provider
	cfg      Config
	log      *zap.Logger
}

// NewPersonalizer creates a personalizer. A nil logger is replaced with a
// no-op one.
func NewPersonalizer(provider llm.Provider, cfg Config, log *zap.Logger) *Personalizer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Personalizer{provider: provider, cfg: cfg.withDefaults(), log: log}
}

type lessonOutput struct {
	Title       string     `json:"title"`
	Objectives  []string   `json:"objectives"`
	Content     string     `json:"content"`
	CodeExample string     `json:"code_example"`
	Quiz        quizOutput `json:"quiz"`
	NextSteps   []string   `json:"next_steps"`
}

type quizOutput struct {
	Question     string   `json:"question"`
	Options      []string `json:"options"`
	CorrectIndex int      `json:"correct_index"`
	Explanation  string   `json:"explanation"`
}

// GenerateLesson writes a lesson for lc and, when the learner has a dominant
// learning style, rewrites its content for that style in a second pass.
func (p *Personalizer) GenerateLesson(ctx context.Context, lc learner.Context, req LessonRequest) (*Lesson, error) {
	var out lessonOutput
	err := llm.GenerateJSON(llm.WithPurpose(ctx, PurposeLesson), p.provider, llm.Request{
		System:      tutorSystemPrompt,
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: buildLessonUserMessage(lc, req)}},
		Schema:      LessonSchema,
		MaxTokens:   p.cfg.LessonMaxTokens,
		Temperature: p.cfg.Temperature,
	}, &out)
	if err != nil {
		return nil, err
	}

	lesson := &Lesson{
		Title:       out.Title,
		Objectives:  out.Objectives,
		Content:     out.Content,
		CodeExample: out.CodeExample,
		NextSteps:   nonNil(out.NextSteps),
		Adaptations: []string{},
	}
	if q := out.Quiz; q.Question != "" && q.CorrectIndex < len(q.Options) {
		lesson.Quiz = &Quiz{
			Question:     q.Question,
			Options:      q.Options,
			CorrectIndex: q.CorrectIndex,
			Explanation:  q.Explanation,
		}
	}

	if req.Emotion != nil && req.Emotion.Emotion != "" && req.Emotion.Emotion != emotion.Neutral {
		lesson.Adaptations = append(lesson.Adaptations, "emotion:"+string(req.Emotion.Emotion))
	}

	if style := lc.DominantStyle(); style != "" {
		adapted, err := llm.GenerateText(llm.WithPurpose(ctx, PurposeLessonStyle), p.provider,
			buildStyleUserMessage(lesson.Content, style), tutorSystemPrompt,
			llm.Options{MaxTokens: p.cfg.AdaptMaxTokens, Temperature: p.cfg.Temperature})
		if err != nil {
			return nil, err
		}
		lesson.Content = strings.TrimSpace(adapted)
		lesson.Adaptations = append(lesson.Adaptations, "style:"+style)
	}

	if req.Difficulty != "" {
		lesson.Adaptations = append(lesson.Adaptations, "difficulty:"+req.Difficulty)
	}

	p.log.Debug("lesson generated",
		zap.String("topic", req.Topic),
		zap.Strings("adaptations", lesson.Adaptations))
	return lesson, nil
}

// BriefLesson is the reduced-context lesson path: topic and difficulty only,
// a shorter prompt and a smaller token budget.
func (p *Personalizer) BriefLesson(ctx context.Context, topic, difficulty string) (*Lesson, error) {
	var out struct {
		Title     string   `json:"title"`
		Content   string   `json:"content"`
		NextSteps []string `json:"next_steps"`
	}
	err := llm.GenerateJSON(llm.WithPurpose(ctx, PurposeLessonBrief), p.provider, llm.Request{
		System:      tutorSystemPrompt,
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: buildBriefLessonUserMessage(topic, difficulty)}},
		Schema:      BriefLessonSchema,
		MaxTokens:   p.cfg.BriefMaxTokens,
		Temperature: p.cfg.Temperature,
	}, &out)
	if err != nil {
		return nil, err
	}

	lesson := &Lesson{
		Title:       out.Title,
		Objectives:  []string{},
		Content:     out.Content,
		NextSteps:   nonNil(out.NextSteps),
		Adaptations: []string{"brief"},
	}
	if difficulty != "" {
		lesson.Adaptations = append(lesson.Adaptations, "difficulty:"+difficulty)
	}
	return lesson, nil
}

// Reformulate rewrites content for a learner in emotional state e. Neutral or
// absent emotion returns content unchanged without a provider call.
func (p *Personalizer) Reformulate(ctx context.Context, content, feedback string, e emotion.Emotion) (string, error) {
	if e == "" || e == emotion.Neutral {
		return content, nil
	}
	out, err := llm.GenerateText(llm.WithPurpose(ctx, PurposeReformulate), p.provider,
		buildReformulateUserMessage(content, feedback, e), tutorSystemPrompt,
		llm.Options{MaxTokens: p.cfg.AdaptMaxTokens, Temperature: p.cfg.Temperature})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// Feedback responds to a student's answer in a tone suited to their state.
func (p *Personalizer) Feedback(ctx context.Context, in FeedbackInput) (string, error) {
	if strings.TrimSpace(in.StudentResponse) == "" {
		return "", fmt.Errorf("feedback: empty student response")
	}
	out, err := llm.GenerateText(llm.WithPurpose(ctx, PurposeFeedback), p.provider,
		buildFeedbackUserMessage(in), tutorSystemPrompt,
		llm.Options{MaxTokens: p.cfg.ReplyMaxTokens, Temperature: p.cfg.Temperature})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// Reply answers a free-text learner turn with the full profile, the emotional
// assessment and the chosen intervention in the prompt.
func (p *Personalizer) Reply(ctx context.Context, lc learner.Context, input string, a emotion.Assessment, d intervention.Decision) (string, error) {
	out, err := llm.GenerateText(llm.WithPurpose(ctx, PurposeReply), p.provider,
		buildReplyUserMessage(lc, input, a, d), tutorSystemPrompt,
		llm.Options{MaxTokens: p.cfg.ReplyMaxTokens, Temperature: p.cfg.Temperature})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// BriefReply answers with only the input and the emotion label.
func (p *Personalizer) BriefReply(ctx context.Context, input string, e emotion.Emotion) (string, error) {
	out, err := llm.GenerateText(llm.WithPurpose(ctx, PurposeReplyBrief), p.provider,
		buildBriefReplyUserMessage(input, e), "",
		llm.Options{MaxTokens: p.cfg.BriefMaxTokens, Temperature: p.cfg.Temperature})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
