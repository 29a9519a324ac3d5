package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/abhisek/tutorly/internal/compose"
	"github.com/abhisek/tutorly/internal/emotion"
	"github.com/abhisek/tutorly/internal/intervention"
	"github.com/abhisek/tutorly/internal/orchestrator"
	"github.com/abhisek/tutorly/internal/ui/theme"
	"github.com/abhisek/tutorly/internal/video"
)

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func field(label, value string) {
	fmt.Printf("%s %s\n", theme.Label.Render(fmt.Sprintf("%-13s", label+":")), value)
}

func heading(s string) {
	fmt.Println()
	fmt.Println(theme.Title.Render(s))
}

func bullets(items []string) {
	for _, it := range items {
		fmt.Println("  • " + it)
	}
}

func tierLabel(tier int) string {
	names := map[int]string{
		compose.TierPrimary:   "primary",
		compose.TierSecondary: "secondary",
		compose.TierStatic:    "static",
	}
	name, ok := names[tier]
	if !ok {
		name = "none"
	}
	return theme.Tier(tier).Render(fmt.Sprintf("%s (%d)", name, tier))
}

func renderAssessment(a emotion.Assessment) {
	field("Emotion", theme.Emotion(string(a.Emotion)).Render(string(a.Emotion)))
	field("Confidence", strconv.FormatFloat(a.Confidence, 'f', 2, 64))
	if len(a.Indicators) > 0 {
		field("Indicators", theme.Hint.Render(strings.Join(a.Indicators, ", ")))
	}
	if a.DetectedConfusion {
		field("Confusion", theme.Warn.Render("detected"))
	}
}

func renderFrustration(fa emotion.FrustrationAssessment) {
	style := theme.Good
	switch {
	case fa.Level >= 0.7:
		style = theme.Bad
	case fa.Level >= 0.3:
		style = theme.Warn
	}
	field("Frustration", style.Render(strconv.FormatFloat(fa.Level, 'f', 2, 64)))
	if len(fa.Triggers) > 0 {
		field("Triggers", strings.Join(fa.Triggers, ", "))
	}
}

func renderDecision(d intervention.Decision) {
	field("Intervention", theme.Body.Bold(true).Render(string(d.Type)))
	fmt.Println(theme.Hint.Render("  " + d.Message))
	bullets(d.NextSteps)
}

func renderVideo(v *video.Candidate) {
	if v == nil {
		return
	}
	field("Video", fmt.Sprintf("%s %s", v.Title, theme.Hint.Render("https://youtu.be/"+v.VideoID)))
}

func renderVideos(videos []video.Candidate) {
	if len(videos) == 0 {
		fmt.Println("No videos found.")
		return
	}
	for i, v := range videos {
		fmt.Printf("%2d. %s\n", i+1, theme.Body.Bold(true).Render(v.Title))
		fmt.Printf("    %s\n", theme.Hint.Render(fmt.Sprintf("%s · %s · %s · %s value · https://youtu.be/%s",
			v.Channel, v.Duration, v.Difficulty, v.EducationalValue, v.VideoID)))
	}
}

func renderResponse(resp *compose.Response) {
	fmt.Println(theme.Card.Render(resp.Text))
	field("Emotion", fmt.Sprintf("%s (%.2f)", resp.Metadata.Emotion, resp.Metadata.Confidence))
	if resp.Metadata.TopicDetected != "" {
		field("Topic", resp.Metadata.TopicDetected)
	}
	field("Tier", tierLabel(resp.Metadata.FallbackTierUsed))
	renderVideo(resp.Video)
	if resp.Audio != nil {
		field("Audio", "enabled")
	}
	heading("Suggestions")
	bullets(resp.Suggestions)
}

func renderResult(res *orchestrator.Result) {
	fmt.Println(theme.Title.Render(res.Meta.Workflow) + " " +
		theme.Hint.Render(fmt.Sprintf("%s · %dms · %s", res.Meta.RequestID, res.Meta.DurationMs, strings.Join(res.Meta.Steps, " → "))))
	field("Tier", tierLabel(res.Meta.FallbackTier))
	if res.Meta.Degraded {
		field("Degraded", theme.Warn.Render("yes"))
	}

	if res.Emotion != nil {
		renderAssessment(*res.Emotion)
	}
	if res.Frustration != nil {
		renderFrustration(*res.Frustration)
	}
	if res.Intervention != nil {
		renderDecision(*res.Intervention)
	}

	if l := res.Lesson; l != nil {
		heading(l.Title)
		fmt.Println(theme.Card.Render(l.Content))
		if l.CodeExample != "" {
			fmt.Println(theme.Card.Render(l.CodeExample))
		}
		if l.Quiz != nil {
			field("Quiz", l.Quiz.Question)
			for i, opt := range l.Quiz.Options {
				fmt.Printf("    %c) %s\n", 'a'+i, opt)
			}
		}
		if len(l.Adaptations) > 0 {
			field("Adapted", theme.Hint.Render(strings.Join(l.Adaptations, ", ")))
		}
	}
	if ex := res.Exercise; ex != nil {
		heading("Exercise: " + ex.Title)
		fmt.Println(ex.Instructions)
		if ex.StarterCode != "" {
			fmt.Println(theme.Card.Render(ex.StarterCode))
		}
		bullets(ex.Hints)
	}
	if ev := res.Evaluation; ev != nil {
		heading("Evaluation")
		field("Score", theme.Body.Bold(true).Render(strconv.Itoa(ev.Score)))
		field("Tone", string(ev.Tone))
		fmt.Println(theme.Card.Render(ev.Encouragement))
		bullets(ev.Suggestions)
	}
	if res.ReformulatedContent != "" {
		heading("Reformulated")
		fmt.Println(theme.Card.Render(res.ReformulatedContent))
	}
	renderVideo(res.Video)

	if len(res.Trending) > 0 {
		heading("Trending")
		for _, t := range res.Trending {
			fmt.Printf("  %-28s %-7s %.2f\n", t.Name, t.Priority, t.Score)
		}
	}
	for _, d := range res.Drafts {
		heading("Draft: " + d.Title)
		bullets(d.Sections)
	}
	if len(res.Outdated) > 0 {
		heading("Outdated")
		for _, f := range res.Outdated {
			fmt.Printf("  %s [%s] %s\n", f.ItemID, f.Severity, f.Reason)
		}
	}
	if res.Summary != "" {
		heading("Summary")
		fmt.Println(res.Summary)
	}
	if len(res.Recommendations) > 0 {
		heading("Recommendations")
		bullets(res.Recommendations)
	}
	if len(res.ActionPlan) > 0 {
		heading("Action plan")
		bullets(res.ActionPlan)
	}
}
