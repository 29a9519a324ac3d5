package orchestrator

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/abhisek/tutorly/internal/compose"
	"github.com/abhisek/tutorly/internal/emotion"
	"github.com/abhisek/tutorly/internal/exercise"
	"github.com/abhisek/tutorly/internal/freshness"
	"github.com/abhisek/tutorly/internal/intervention"
	"github.com/abhisek/tutorly/internal/learner"
	"github.com/abhisek/tutorly/internal/tutor"
)

// LearningSession classifies the learner's state, writes an emotion-aware
// lesson, optionally an exercise, and collects recommendations.
func (o *Orchestrator) LearningSession(ctx context.Context, lc learner.Context, p LearningSessionParams) (res *Result, err error) {
	ctx, r := o.begin(ctx, WorkflowLearningSession)
	defer func() {
		meta := o.finish(ctx, r, err)
		if res != nil {
			res.Meta = meta
		}
	}()

	text := p.Message
	if text == "" {
		text = latestText(lc)
	}
	topic := o.resolveTopic(p.Topic, lc, text)
	if topic == "" {
		return nil, invalid("topic", "required when the learner has no current topic")
	}
	difficulty := p.Difficulty
	if difficulty == "" {
		difficulty = lc.Preferences.Difficulty
	}
	if p.ExerciseType != "" && !p.ExerciseType.Valid() {
		return nil, invalid("exercise_type", "unknown exercise type "+string(p.ExerciseType))
	}

	a, fa := o.assess(lc, text)
	r.emotion = a.Emotion
	r.step("classify")

	lesson, tier, err := compose.Run(ctx, o.log, []compose.Tier[*tutor.Lesson]{
		{ID: compose.TierPrimary, Name: "lesson", Attempt: func(ctx context.Context) (*tutor.Lesson, error) {
			return o.tutor.GenerateLesson(ctx, lc, tutor.LessonRequest{
				Topic:      topic,
				Difficulty: difficulty,
				FocusArea:  p.FocusArea,
				Emotion:    &a,
			})
		}},
		{ID: compose.TierSecondary, Name: "brief-lesson", Attempt: func(ctx context.Context) (*tutor.Lesson, error) {
			return o.tutor.BriefLesson(ctx, topic, difficulty)
		}},
		compose.Static("static-lesson", staticLesson(topic, a.Emotion)),
	})
	if err != nil {
		return nil, err
	}
	r.tier(tier)
	r.step("lesson")

	res = &Result{Emotion: &a, Lesson: lesson}

	if p.IncludeExercise {
		ex, etier, err := compose.Run(ctx, o.log, []compose.Tier[*exercise.Exercise]{
			{ID: compose.TierPrimary, Name: "exercise", Attempt: func(ctx context.Context) (*exercise.Exercise, error) {
				return o.exercises.Generate(ctx, lc, exercise.GenerateRequest{
					Topic:      topic,
					Difficulty: difficulty,
					Type:       p.ExerciseType,
					Objectives: lesson.Objectives,
				})
			}},
			compose.Static("static-exercise", staticExercise(topic)),
		})
		if err != nil {
			return nil, err
		}
		if etier != compose.TierPrimary {
			r.degrade()
		}
		res.Exercise = ex
		r.step("exercise")
	}

	d := intervention.Decide(a.Emotion, Severity(a, fa))
	r.decision = string(d.Type)
	if d.Type != intervention.None {
		res.Intervention = &d
	}
	if videoWarranted(a, fa, d, lc) {
		res.Video = o.pickVideo(topic, difficulty, p.Language)
	}
	var watch []string
	if res.Video != nil {
		watch = []string{"Watch: " + res.Video.Title}
	}
	res.Recommendations = dedupe(d.NextSteps, lesson.NextSteps, watch)
	r.step("recommend")
	return res, nil
}

// ExerciseEvaluation scores a submission and, when a low score comes with
// high frustration, attaches an intervention.
func (o *Orchestrator) ExerciseEvaluation(ctx context.Context, lc learner.Context, p ExerciseEvaluationParams) (res *Result, err error) {
	ctx, r := o.begin(ctx, WorkflowExerciseEvaluation)
	defer func() {
		meta := o.finish(ctx, r, err)
		if res != nil {
			res.Meta = meta
		}
	}()

	if p.Exercise == nil {
		return nil, invalid("exercise", "required")
	}
	if p.Submission.ExerciseID == "" {
		return nil, invalid("exercise_id", "required")
	}
	attempt := p.Attempt
	if attempt == 0 {
		attempt = lc.Attempts
	}
	timeSpent := p.TimeSpentSeconds
	if timeSpent == 0 {
		timeSpent = lc.TimeOnTaskSeconds
	}

	text := p.Message
	if text == "" {
		text = latestText(lc)
	}
	var a emotion.Assessment
	if p.Emotion != "" {
		a = emotion.Assessment{Emotion: emotion.ParseEmotion(p.Emotion), Confidence: 1, Indicators: []string{"caller supplied"}}
	} else {
		a = o.classifier.Classify(text, lc.History)
	}
	r.emotion = a.Emotion

	eval, err := o.exercises.Evaluate(ctx, lc, p.Exercise, p.Submission, attempt, a.Emotion)
	if err != nil {
		return nil, err
	}
	if eval.Degraded {
		r.degrade()
	}
	r.step("evaluate")
	res = &Result{Emotion: &a, Evaluation: eval}

	if eval.Score >= evaluationScoreFloor {
		return res, nil
	}

	texts := lc.RecentTexts(recentWindow)
	if text != "" {
		texts = append(texts, text)
	}
	fa := emotion.Score(emotion.ScoreInput{
		TimeSpentSeconds: timeSpent,
		Attempts:         attempt,
		RecentTexts:      texts,
	})
	res.Frustration = &fa
	r.step("frustration")

	if fa.Level > frustrationInterveneLevel {
		d := intervention.Decide(a.Emotion, fa.Level)
		if d.Type == intervention.None {
			d = intervention.Decide(emotion.Frustration, fa.Level)
		}
		r.decision = string(d.Type)
		res.Intervention = &d
		r.step("intervention")
	}
	return res, nil
}

// ContentUpdate scans trending topics, drafts outlines for the top ones when
// the update is high priority, and summarizes what to change.
func (o *Orchestrator) ContentUpdate(ctx context.Context, p ContentUpdateParams) (res *Result, err error) {
	ctx, r := o.begin(ctx, WorkflowContentUpdate)
	defer func() {
		meta := o.finish(ctx, r, err)
		if res != nil {
			res.Meta = meta
		}
	}()

	domains := p.Domains
	if p.Domain != "" {
		domains = append([]string{p.Domain}, domains...)
	}
	if len(domains) == 0 {
		return nil, invalid("domain", "required")
	}
	priority := freshness.Priority(strings.ToLower(p.Priority))
	if priority == "" {
		priority = freshness.PriorityMedium
	}

	res = &Result{Trending: []freshness.Topic{}}

	scan, err := o.freshness.ScanDomains(ctx, domains)
	if err != nil {
		return nil, err
	}
	for _, d := range domains {
		res.Trending = append(res.Trending, scan.Topics[d]...)
	}
	sort.SliceStable(res.Trending, func(i, j int) bool { return res.Trending[i].Score > res.Trending[j].Score })
	if len(scan.Failed) > 0 {
		r.degrade()
	}
	r.step("scan")

	if priority == freshness.PriorityHigh && len(res.Trending) > 0 {
		var names []string
		for _, t := range res.Trending {
			if len(names) == draftTopN {
				break
			}
			names = append(names, t.Name)
		}
		drafts, err := o.freshness.DraftLessons(ctx, names, p.Audience)
		if err != nil {
			return nil, err
		}
		if len(drafts) < len(names) {
			r.degrade()
		}
		res.Drafts = drafts
		r.step("draft")
	}

	if len(p.Items) > 0 {
		flags, err := o.freshness.FindOutdated(ctx, p.Items)
		switch {
		case err == nil:
			res.Outdated = flags
		case ctx.Err() != nil:
			return nil, ctx.Err()
		default:
			o.log.Warn("outdated scan failed", zap.Error(err))
			r.degrade()
		}
		r.step("outdated")
	}

	res.Summary = updateSummary(domains, priority, res, scan.Failed)
	return res, nil
}

func updateSummary(domains []string, priority freshness.Priority, res *Result, failed map[string]string) string {
	var high int
	for _, t := range res.Trending {
		if t.Priority == freshness.PriorityHigh {
			high++
		}
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Found %d trending topics across %s (%d high priority).", len(res.Trending), strings.Join(domains, ", "), high)
	switch {
	case priority != freshness.PriorityHigh:
		fmt.Fprintf(&b, " No outlines drafted at %s priority.", priority)
	case len(res.Drafts) > 0:
		fmt.Fprintf(&b, " Drafted %d lesson outlines; review them before publishing.", len(res.Drafts))
	default:
		b.WriteString(" No outlines could be drafted.")
	}
	if len(res.Outdated) > 0 {
		fmt.Fprintf(&b, " %d existing lessons need updates.", len(res.Outdated))
	}
	if len(failed) > 0 {
		fmt.Fprintf(&b, " %d domains could not be scanned.", len(failed))
	}
	return b.String()
}

// EmotionalIntervention classifies the message, decides an intervention and,
// for simplify decisions with prior content, rewrites that content.
func (o *Orchestrator) EmotionalIntervention(ctx context.Context, lc learner.Context, p EmotionalInterventionParams) (res *Result, err error) {
	ctx, r := o.begin(ctx, WorkflowEmotionalIntervention)
	defer func() {
		meta := o.finish(ctx, r, err)
		if res != nil {
			res.Meta = meta
		}
	}()

	text := p.Message
	if text == "" {
		text = latestText(lc)
	}
	if strings.TrimSpace(text) == "" {
		return nil, invalid("message", "required when the learner has no history")
	}

	a, fa := o.assess(lc, text)
	r.emotion = a.Emotion
	r.step("classify")

	d := intervention.Decide(a.Emotion, Severity(a, fa))
	r.decision = string(d.Type)
	r.step("decide")

	res = &Result{Emotion: &a, Frustration: &fa, Intervention: &d}

	if d.Type == intervention.Simplify && p.PriorContent != "" {
		content, tier, err := compose.Run(ctx, o.log, []compose.Tier[string]{
			{ID: compose.TierPrimary, Name: "reformulate", Attempt: func(ctx context.Context) (string, error) {
				return o.tutor.Reformulate(ctx, p.PriorContent, p.Feedback, a.Emotion)
			}},
			compose.Static("original-content", p.PriorContent),
		})
		if err != nil {
			return nil, err
		}
		r.tier(tier)
		res.ReformulatedContent = content
		r.step("reformulate")
	}

	res.ActionPlan = dedupe(d.NextSteps, fa.Recommendations)
	if len(res.ActionPlan) == 0 {
		res.ActionPlan = []string{"Continue with the current lesson"}
	}
	return res, nil
}
