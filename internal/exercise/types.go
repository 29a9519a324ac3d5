// Package exercise generates practice exercises and evaluates submissions,
// escalating feedback tone with attempt count and emotional state.
package exercise

import "fmt"

// Type is the kind of exercise.
type Type string

const (
	TypeCoding     Type = "coding"
	TypeConceptual Type = "conceptual"
	TypeQuiz       Type = "quiz"
	TypePrompt     Type = "prompt"
)

// Types returns the supported exercise types.
func Types() []Type {
	return []Type{TypeCoding, TypeConceptual, TypeQuiz, TypePrompt}
}

// Valid reports whether t is one of Types.
func (t Type) Valid() bool {
	for _, v := range Types() {
		if t == v {
			return true
		}
	}
	return false
}

// Question is one multiple-choice item of a quiz exercise.
type Question struct {
	Question     string   `json:"question"`
	Options      []string `json:"options"`
	CorrectIndex int      `json:"correct_index"`
}

// Exercise is a generated practice task.
type Exercise struct {
	ID           string     `json:"id"`
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	Instructions string     `json:"instructions"`
	StarterCode  string     `json:"starter_code,omitempty"`
	Hints        []string   `json:"hints"`
	Type         Type       `json:"type"`
	Questions    []Question `json:"questions,omitempty"`
}

// GenerateRequest describes the exercise to generate.
type GenerateRequest struct {
	Topic      string   `json:"topic"`
	Difficulty string   `json:"difficulty"`
	Type       Type     `json:"type"`
	Objectives []string `json:"objectives"`
}

// Submission is a learner's attempt. Every field besides ExerciseID is
// optional.
type Submission struct {
	ExerciseID  string         `json:"exercise_id"`
	Code        string         `json:"code,omitempty"`
	Explanation string         `json:"explanation,omitempty"`
	Answers     map[string]any `json:"answers,omitempty"`
}

// Tone is the register evaluation feedback is written in.
type Tone string

const (
	TonePatient     Tone = "patient and supportive"
	ToneChallenging Tone = "challenging and engaging"
	ToneEncouraging Tone = "encouraging"
)

// Evaluation is the scored result of a submission.
type Evaluation struct {
	Score         int      `json:"score"`
	Strengths     []string `json:"strengths"`
	Improvements  []string `json:"improvements"`
	Suggestions   []string `json:"suggestions"`
	Encouragement string   `json:"encouragement_text"`
	Tone          Tone     `json:"tone"`

	// Degraded is set when the evaluator call failed and the base score is
	// the neutral default.
	Degraded bool `json:"degraded,omitempty"`
}

// ErrValidation reports a missing or inconsistent caller-supplied field.
type ErrValidation struct {
	Field  string
	Reason string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}
