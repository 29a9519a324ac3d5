package tutor

import (
	"fmt"
	"strings"

	"github.com/abhisek/tutorly/internal/emotion"
	"github.com/abhisek/tutorly/internal/intervention"
	"github.com/abhisek/tutorly/internal/learner"
)

const historyWindow = 3

const tutorSystemPrompt = `You are a patient AI-literacy tutor. You teach how machine learning and large language models work, adapting to each learner's background and emotional state. Be accurate and concrete. Never invent API names or citations.`

// toneFor is the instruction the prompt carries for each affect.
var toneFor = map[emotion.Emotion]string{
	emotion.Frustration: "The learner is frustrated. Acknowledge that this is hard, use short steps and the simplest possible explanation.",
	emotion.Confusion:   "The learner is confused. Define every term before using it and anchor the idea in one concrete analogy.",
	emotion.Anxiety:     "The learner is anxious. Keep the stakes low, reassure them and avoid overwhelming detail.",
	emotion.Curiosity:   "The learner is curious. Follow the why behind the idea and include one interesting aside.",
	emotion.Engagement:  "The learner is engaged. Match their energy and go one level deeper than usual.",
	emotion.Boredom:     "The learner is bored. Skip the basics they know and end with a stretch challenge.",
}

// styleFor is the rewrite instruction for each dominant learning style.
var styleFor = map[string]string{
	learner.StyleVisual:      "Rewrite the lesson to emphasize diagrams: describe visual layouts, use ASCII diagrams or tables, and point out what the learner should picture.",
	learner.StyleAuditory:    "Rewrite the lesson as a narrative, conversational explanation that reads well aloud. Prefer stories and spoken-style transitions over lists.",
	learner.StyleKinesthetic: "Rewrite the lesson around hands-on exercises: numbered try-it-yourself steps the learner performs, with a small experiment to run.",
}

func writeProfile(b *strings.Builder, lc learner.Context) {
	bg := lc.Background()
	if bg == "" {
		bg = "unknown"
	}
	fmt.Fprintf(b, "Learner background: %s\n", bg)
	if p := lc.Preferences; p.Format != "" || p.Pace != "" {
		fmt.Fprintf(b, "Preferences: format=%s pace=%s\n", orDash(p.Format), orDash(p.Pace))
	}

	recent := lc.RecentHistory(historyWindow)
	b.WriteString("\nRecent conversation:\n")
	if len(recent) == 0 {
		b.WriteString("None\n")
	}
	for _, h := range recent {
		role := h.Role
		if role == "" {
			role = "learner"
		}
		fmt.Fprintf(b, "- %s: %s\n", role, h.Text)
	}
}

func writeEmotion(b *strings.Builder, a *emotion.Assessment) {
	if a == nil || a.Emotion == "" {
		b.WriteString("\nEmotional state: not assessed\n")
		return
	}
	fmt.Fprintf(b, "\nEmotional state: %s (confidence %.2f)\n", a.Emotion, a.Confidence)
	if tone, ok := toneFor[a.Emotion]; ok {
		fmt.Fprintf(b, "Tone: %s\n", tone)
	}
}

func buildLessonUserMessage(lc learner.Context, req LessonRequest) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Topic: %s\n", req.Topic)
	if req.Difficulty != "" {
		fmt.Fprintf(&b, "Difficulty: %s\n", req.Difficulty)
	}
	if req.FocusArea != "" {
		fmt.Fprintf(&b, "Focus area: %s\n", req.FocusArea)
	}
	writeProfile(&b, lc)
	writeEmotion(&b, req.Emotion)

	b.WriteString(`
Instructions:
Create a lesson that:
1. States 2-4 concrete learning objectives.
2. Explains the topic at the requested difficulty, building on the learner's background.
3. Includes a short code example only when code genuinely helps; otherwise use an empty string.
4. Ends with one multiple-choice quiz question (at least two options) and its explanation.
5. Suggests 2-3 next steps.`)

	return b.String()
}

func buildStyleUserMessage(content, style string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Lesson content:\n%s\n\n", content)
	fmt.Fprintf(&b, "Instructions:\n%s\nKeep every fact. Return only the rewritten lesson body.", styleFor[style])
	return b.String()
}

func buildReformulateUserMessage(content, feedback string, e emotion.Emotion) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Original content:\n%s\n\n", content)
	if feedback != "" {
		fmt.Fprintf(&b, "Learner feedback: %s\n", feedback)
	}
	fmt.Fprintf(&b, "Emotional state: %s\n", e)
	if tone, ok := toneFor[e]; ok {
		fmt.Fprintf(&b, "Tone: %s\n", tone)
	}
	b.WriteString("\nInstructions:\nRewrite the content for this learner. Keep the same facts and scope. Return only the rewritten content.")
	return b.String()
}

func buildFeedbackUserMessage(in FeedbackInput) string {
	var b strings.Builder
	if in.LessonContext != "" {
		fmt.Fprintf(&b, "Lesson context: %s\n", in.LessonContext)
	}
	fmt.Fprintf(&b, "Expected answer: %s\n", orDash(in.ExpectedAnswer))
	fmt.Fprintf(&b, "Student response: %s\n", in.StudentResponse)
	e := in.Emotion
	if e == "" {
		e = emotion.Neutral
	}
	fmt.Fprintf(&b, "Emotional state: %s\n", e)
	if tone, ok := toneFor[e]; ok {
		fmt.Fprintf(&b, "Tone: %s\n", tone)
	}
	b.WriteString(`
Instructions:
In 3-5 sentences, say what the student got right, correct any misconception against the expected answer and suggest one thing to try next.`)
	return b.String()
}

func buildReplyUserMessage(lc learner.Context, input string, a emotion.Assessment, d intervention.Decision) string {
	var b strings.Builder
	if lc.CurrentTopic != "" {
		fmt.Fprintf(&b, "Current topic: %s\n", lc.CurrentTopic)
	}
	writeProfile(&b, lc)
	writeEmotion(&b, &a)
	if d.Type != intervention.None {
		fmt.Fprintf(&b, "Planned intervention: %s (%s)\n", d.Type, d.Message)
	}
	fmt.Fprintf(&b, "\nLearner says: %s\n", input)
	b.WriteString("\nInstructions:\nAnswer the learner directly in under 150 words, following the tone above. Apply the planned intervention if there is one.")
	return b.String()
}

func buildBriefReplyUserMessage(input string, e emotion.Emotion) string {
	return fmt.Sprintf("The learner seems %s. They said: %s\nReply helpfully in 2-3 sentences.", e, input)
}

func buildBriefLessonUserMessage(topic, difficulty string) string {
	if difficulty == "" {
		difficulty = "beginner"
	}
	return fmt.Sprintf("Write a short %s-level lesson on %s with 2 next steps.", difficulty, topic)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
