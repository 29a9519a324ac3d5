package orchestrator

import (
	"fmt"

	"github.com/abhisek/tutorly/internal/compose"
	"github.com/abhisek/tutorly/internal/emotion"
	"github.com/abhisek/tutorly/internal/exercise"
	"github.com/abhisek/tutorly/internal/intervention"
	"github.com/abhisek/tutorly/internal/learner"
	"github.com/abhisek/tutorly/internal/tutor"
	"github.com/abhisek/tutorly/internal/video"
)

const (
	recentWindow = 5

	// evaluationScoreFloor is the score below which frustration is scored.
	evaluationScoreFloor = 60

	// frustrationInterveneLevel is the level above which an evaluation
	// gets an intervention attached.
	frustrationInterveneLevel = 0.5

	// draftTopN caps the topics drafted in a content update.
	draftTopN = 5

	defaultLanguage = "en"
)

// assess classifies text against the learner history and scores frustration
// over the learner metadata plus text.
func (o *Orchestrator) assess(lc learner.Context, text string) (emotion.Assessment, emotion.FrustrationAssessment) {
	a := o.classifier.Classify(text, lc.History)
	texts := lc.RecentTexts(recentWindow)
	if text != "" {
		texts = append(texts, text)
	}
	fa := emotion.Score(emotion.ScoreInput{
		TimeSpentSeconds: lc.TimeOnTaskSeconds,
		Attempts:         lc.Attempts,
		RecentTexts:      texts,
	})
	return a, fa
}

// Severity is the intervention input for an assessment: the frustration
// level for negative affect, the classifier confidence otherwise.
func Severity(a emotion.Assessment, fa emotion.FrustrationAssessment) float64 {
	if a.Emotion.Negative() {
		return fa.Level
	}
	return a.Confidence
}

// latestText is the newest learner-authored history entry, or "".
func latestText(lc learner.Context) string {
	for i := len(lc.History) - 1; i >= 0; i-- {
		h := lc.History[i]
		if h.Role == "" || h.Role == "learner" || h.Role == "user" {
			return h.Text
		}
	}
	return ""
}

// resolveTopic picks the explicit topic, then the learner's current topic,
// then a topic detected in text.
func (o *Orchestrator) resolveTopic(explicit string, lc learner.Context, text string) string {
	switch {
	case explicit != "":
		return explicit
	case lc.CurrentTopic != "":
		return lc.CurrentTopic
	}
	return o.videos.DetectTopic(text)
}

// videoWarranted reports whether the state calls for a supporting video.
// The learner's sensitivity thresholds gate it: confusion needs at least the
// confusion threshold of confidence, and non-zero engagement and frustration
// thresholds add a video once crossed. A zero engagement or frustration
// threshold is unset.
func videoWarranted(a emotion.Assessment, fa emotion.FrustrationAssessment, d intervention.Decision, lc learner.Context) bool {
	s := lc.Sensitivity
	switch {
	case d.Type == intervention.Simplify || d.Type == intervention.Pause:
		return true
	case a.Emotion == emotion.Curiosity:
		return true
	case a.Emotion == emotion.Confusion && a.Confidence >= s.Confusion:
		return true
	case a.Emotion == emotion.Engagement && s.Engagement > 0 && a.Confidence >= s.Engagement:
		return true
	case s.Frustration > 0 && fa.Level >= s.Frustration:
		return true
	}
	return lc.DominantStyle() == learner.StyleVisual
}

func (o *Orchestrator) pickVideo(topic, difficulty, language string) *video.Candidate {
	if topic == "" {
		return nil
	}
	if language == "" {
		language = defaultLanguage
	}
	return o.videos.FindBest(video.Query{Topic: topic, Difficulty: difficulty, Language: language})
}

// staticLesson is the last tier of the lesson chain.
func staticLesson(topic string, e emotion.Emotion) *tutor.Lesson {
	return &tutor.Lesson{
		Title:       "Let's look at " + topic,
		Objectives:  []string{},
		Content:     compose.Canned(e),
		NextSteps:   []string{"Ask a specific question about " + topic, "Try a short practice exercise"},
		Adaptations: []string{"static"},
	}
}

// staticExercise is the last tier of the exercise chain.
func staticExercise(topic string) *exercise.Exercise {
	return &exercise.Exercise{
		ID:           "static-" + video.NormalizeTopic(topic),
		Title:        "Explain " + topic + " in your own words",
		Description:  "A short reflection to check your understanding.",
		Instructions: fmt.Sprintf("In 3-5 sentences, explain %s to a friend who has never heard of it. Include one example.", topic),
		Hints:        []string{"Start with what problem it solves", "Use an everyday analogy"},
		Type:         exercise.TypeConceptual,
	}
}

func dedupe(lists ...[]string) []string {
	seen := map[string]bool{}
	out := []string{}
	for _, l := range lists {
		for _, s := range l {
			if s != "" && !seen[s] {
				seen[s] = true
				out = append(out, s)
			}
		}
	}
	return out
}
