// Package tutor personalizes lesson content for a learner: it builds
// emotion- and profile-aware prompts, adapts the result to the learner's
// dominant style and writes feedback in the right tone.
package tutor

import "github.com/abhisek/tutorly/internal/emotion"

// Lesson is a generated, personalized lesson.
type Lesson struct {
	Title       string   `json:"title"`
	Objectives  []string `json:"objectives"`
	Content     string   `json:"content"`
	CodeExample string   `json:"code_example,omitempty"`
	Quiz        *Quiz    `json:"quiz,omitempty"`
	NextSteps   []string `json:"next_steps"`

	// Adaptations lists the personalizations applied, e.g. "emotion:confusion",
	// "style:visual", "difficulty:beginner".
	Adaptations []string `json:"adaptation_metadata"`
}

// Quiz is a single multiple-choice check at the end of a lesson.
type Quiz struct {
	Question     string   `json:"question"`
	Options      []string `json:"options"`
	CorrectIndex int      `json:"correct_index"`
	Explanation  string   `json:"explanation"`
}

// LessonRequest describes the lesson to generate.
type LessonRequest struct {
	Topic      string
	Difficulty string
	FocusArea  string

	// Emotion is the latest assessment, if one was made.
	Emotion *emotion.Assessment
}

// FeedbackInput is a student answer to respond to.
type FeedbackInput struct {
	StudentResponse string
	ExpectedAnswer  string
	LessonContext   string
	Emotion         emotion.Emotion
}
