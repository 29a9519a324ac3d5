package cmd

import (
	"strings"

	"github.com/spf13/cobra"
)

var respondCmd = &cobra.Command{
	Use:   "respond <text>",
	Short: "Answer one learner message through the full response pipeline",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		lc, err := readLearner(cmd)
		if err != nil {
			return err
		}

		e, err := openEngine(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		resp, err := e.orch.Respond(cmd.Context(), lc, strings.Join(args, " "))
		if err != nil {
			return err
		}
		if jsonOutput(cmd) {
			return printJSON(resp)
		}
		renderResponse(resp)
		return nil
	},
}

func init() {
	respondCmd.Flags().String("context", "", "Learner context JSON file (- for stdin)")
}
