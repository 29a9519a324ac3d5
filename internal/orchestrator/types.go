package orchestrator

import (
	"time"

	"github.com/abhisek/tutorly/internal/emotion"
	"github.com/abhisek/tutorly/internal/exercise"
	"github.com/abhisek/tutorly/internal/freshness"
	"github.com/abhisek/tutorly/internal/intervention"
	"github.com/abhisek/tutorly/internal/tutor"
	"github.com/abhisek/tutorly/internal/video"
)

// Workflow names.
const (
	WorkflowLearningSession       = "learning_session"
	WorkflowExerciseEvaluation    = "exercise_evaluation"
	WorkflowContentUpdate         = "content_update"
	WorkflowEmotionalIntervention = "emotional_intervention"

	// workflowRespond labels chat turns in the audit log.
	workflowRespond = "respond"
)

// Workflows returns the closed set of workflow names.
func Workflows() []string {
	return []string{
		WorkflowLearningSession,
		WorkflowExerciseEvaluation,
		WorkflowContentUpdate,
		WorkflowEmotionalIntervention,
	}
}

// Result is the envelope every workflow returns. Fields a workflow does not
// produce are left empty.
type Result struct {
	Emotion      *emotion.Assessment            `json:"emotion,omitempty"`
	Frustration  *emotion.FrustrationAssessment `json:"frustration,omitempty"`
	Intervention *intervention.Decision         `json:"intervention,omitempty"`

	Lesson     *tutor.Lesson        `json:"lesson,omitempty"`
	Exercise   *exercise.Exercise   `json:"exercise,omitempty"`
	Evaluation *exercise.Evaluation `json:"evaluation,omitempty"`
	Video      *video.Candidate     `json:"video,omitempty"`

	Recommendations     []string `json:"recommendations,omitempty"`
	ReformulatedContent string   `json:"reformulated_content,omitempty"`
	ActionPlan          []string `json:"action_plan,omitempty"`

	Trending []freshness.Topic   `json:"trending,omitempty"`
	Drafts   []freshness.Outline `json:"drafts,omitempty"`
	Outdated []freshness.Flag    `json:"outdated,omitempty"`
	Summary  string              `json:"summary,omitempty"`

	Meta Meta `json:"meta"`
}

// Meta is the timing and audit data of one run.
type Meta struct {
	RequestID  string    `json:"request_id"`
	Workflow   string    `json:"workflow"`
	StartedAt  time.Time `json:"started_at"`
	DurationMs int64     `json:"duration_ms"`
	Steps      []string  `json:"steps"`

	// FallbackTier is the tier that produced the generated artifact, or -1
	// when the workflow ran no fallback chain.
	FallbackTier int  `json:"fallback_tier"`
	Degraded     bool `json:"degraded"`
}

// LearningSessionParams configures a learning_session run.
type LearningSessionParams struct {
	// Topic defaults to the learner's current topic, then to a topic
	// detected in Message.
	Topic      string `json:"topic"`
	Difficulty string `json:"difficulty"`
	FocusArea  string `json:"focus_area"`
	Language   string `json:"language"`

	// Message is the learner input to classify; defaults to the newest
	// history entry.
	Message string `json:"message"`

	IncludeExercise bool          `json:"include_exercise"`
	ExerciseType    exercise.Type `json:"exercise_type"`
}

// ExerciseEvaluationParams configures an exercise_evaluation run.
type ExerciseEvaluationParams struct {
	Exercise   *exercise.Exercise  `json:"exercise"`
	Submission exercise.Submission `json:"submission"`

	// Attempt and TimeSpentSeconds default to the learner metadata.
	Attempt          int `json:"attempt"`
	TimeSpentSeconds int `json:"time_spent_seconds"`

	// Emotion overrides classification of Message.
	Emotion string `json:"emotion"`
	Message string `json:"message"`
}

// ContentUpdateParams configures a content_update run.
type ContentUpdateParams struct {
	Domain  string   `json:"domain"`
	Domains []string `json:"domains"`

	// Priority "high" drafts outlines for the top topics.
	Priority string `json:"priority"`
	Audience string `json:"audience"`

	// Items, when given, are also checked for staleness.
	Items []freshness.Item `json:"items"`
}

// EmotionalInterventionParams configures an emotional_intervention run.
type EmotionalInterventionParams struct {
	Message      string `json:"message"`
	PriorContent string `json:"prior_content"`
	Feedback     string `json:"feedback"`
}
