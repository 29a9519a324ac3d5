package exercise

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/abhisek/tutorly/internal/learner"
)

const generateSystemPrompt = `You design short practice exercises for people learning how AI systems work. Exercises must be solvable in under 15 minutes and test one idea at a time.`

const evaluateSystemPrompt = `You grade practice exercise submissions fairly. Score the submission's correctness and understanding only; do not reward length.`

var typeGuidance = map[Type]string{
	TypeCoding:     "Write a small coding task with starter code the learner completes.",
	TypeConceptual: "Ask the learner to explain an idea in their own words.",
	TypeQuiz:       "Write 3 multiple-choice questions, each with 4 options and one correct answer.",
	TypePrompt:     "Ask the learner to write or improve a prompt for a language model.",
}

func buildGenerateUserMessage(lc learner.Context, req GenerateRequest) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Topic: %s\n", req.Topic)
	fmt.Fprintf(&b, "Difficulty: %s\n", orDefault(req.Difficulty, "beginner"))
	fmt.Fprintf(&b, "Exercise type: %s\n", req.Type)
	if bg := lc.Background(); bg != "" {
		fmt.Fprintf(&b, "Learner background: %s\n", bg)
	}

	b.WriteString("\nObjectives:\n")
	if len(req.Objectives) == 0 {
		b.WriteString("None given\n")
	}
	for _, o := range req.Objectives {
		fmt.Fprintf(&b, "- %s\n", o)
	}

	fmt.Fprintf(&b, `
Instructions:
%s
Give 2-3 hints that nudge without giving the answer away. Use empty strings or
empty lists for fields that do not apply to this exercise type.`, typeGuidance[req.Type])

	return b.String()
}

func buildEvaluateUserMessage(lc learner.Context, ex *Exercise, sub Submission, attempt int, tone Tone) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Exercise: %s\n", ex.Title)
	fmt.Fprintf(&b, "Instructions: %s\n", ex.Instructions)
	for i, q := range ex.Questions {
		fmt.Fprintf(&b, "Question %d: %s (correct option %d)\n", i+1, q.Question, q.CorrectIndex)
	}
	if bg := lc.Background(); bg != "" {
		fmt.Fprintf(&b, "Learner background: %s\n", bg)
	}
	fmt.Fprintf(&b, "Attempt number: %d\n", attempt)

	b.WriteString("\nSubmission:\n")
	if sub.Code != "" {
		fmt.Fprintf(&b, "Code:\n%s\n", sub.Code)
	}
	if sub.Explanation != "" {
		fmt.Fprintf(&b, "Explanation: %s\n", sub.Explanation)
	}
	if len(sub.Answers) > 0 {
		answers, _ := json.Marshal(sub.Answers)
		fmt.Fprintf(&b, "Answers: %s\n", answers)
	}

	fmt.Fprintf(&b, `
Instructions:
Score the submission from 0 to 100. List concrete strengths and improvements.
Write the suggestions and a one-sentence encouragement in a %s tone.`, tone)

	return b.String()
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
