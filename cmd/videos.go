package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/tutorly/internal/video"
)

var videosCmd = &cobra.Command{
	Use:   "videos <topic>",
	Short: "Rank curated videos for a topic",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		videos, err := loadVideos()
		if err != nil {
			return err
		}
		topic := strings.Join(args, " ")
		count, _ := cmd.Flags().GetInt("count")
		difficulty, _ := cmd.Flags().GetString("difficulty")
		language, _ := cmd.Flags().GetString("language")

		q := video.Query{Topic: topic, Difficulty: difficulty, Language: language}
		found := videos.Recommend(topic, count, &q)
		if jsonOutput(cmd) {
			if found == nil {
				found = []video.Candidate{}
			}
			return printJSON(found)
		}
		renderVideos(found)
		return nil
	},
}

func init() {
	videosCmd.Flags().IntP("count", "n", 3, "Number of videos (0 for all)")
	videosCmd.Flags().String("difficulty", "", "beginner, intermediate or advanced")
	videosCmd.Flags().String("language", "", "Language code, e.g. en")
}
