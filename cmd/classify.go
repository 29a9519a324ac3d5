package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/tutorly/internal/emotion"
	"github.com/abhisek/tutorly/internal/intervention"
	"github.com/abhisek/tutorly/internal/orchestrator"
)

var classifyCmd = &cobra.Command{
	Use:   "classify <text>",
	Short: "Classify a message and show the intervention it would get",
	Long: "Runs the emotion classifier, the frustration scorer and the intervention\n" +
		"policy locally. No generation calls are made.",
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		text := strings.Join(args, " ")
		timeSpent, _ := cmd.Flags().GetInt("time-spent")
		attempts, _ := cmd.Flags().GetInt("attempts")

		a := emotion.NewClassifier().Classify(text, nil)
		fa := emotion.Score(emotion.ScoreInput{
			TimeSpentSeconds: timeSpent,
			Attempts:         attempts,
			RecentTexts:      []string{text},
		})
		d := intervention.Decide(a.Emotion, orchestrator.Severity(a, fa))

		if jsonOutput(cmd) {
			return printJSON(struct {
				Emotion      emotion.Assessment            `json:"emotion"`
				Frustration  emotion.FrustrationAssessment `json:"frustration"`
				Intervention intervention.Decision         `json:"intervention"`
			}{a, fa, d})
		}
		renderAssessment(a)
		renderFrustration(fa)
		renderDecision(d)
		return nil
	},
}

func init() {
	classifyCmd.Flags().Int("time-spent", 0, "Seconds spent on the current task")
	classifyCmd.Flags().Int("attempts", 0, "Attempts on the current task")
}
