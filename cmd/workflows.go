package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/tutorly/internal/orchestrator"
	"github.com/abhisek/tutorly/internal/store"
	"github.com/abhisek/tutorly/internal/ui/theme"
)

var workflowsCmd = &cobra.Command{
	Use:   "workflows",
	Short: "List workflows and inspect past runs",
}

var workflowsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the workflows and module actions",
	RunE: func(cmd *cobra.Command, args []string) error {
		if jsonOutput(cmd) {
			return printJSON(map[string][]string{
				"workflows": orchestrator.Workflows(),
				"actions":   orchestrator.Actions(),
			})
		}
		heading("Workflows")
		bullets(orchestrator.Workflows())
		heading("Actions")
		bullets(orchestrator.Actions())
		return nil
	},
}

var workflowsHistoryCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent workflow runs and fallback tier usage",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		workflow, _ := cmd.Flags().GetString("workflow")

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		ctx := cmd.Context()
		events, err := s.EventRepo().QueryWorkflowEvents(ctx, store.QueryOpts{Limit: limit, Workflow: workflow})
		if err != nil {
			return fmt.Errorf("query workflow events: %w", err)
		}
		tiers, err := s.EventRepo().FallbackTierCounts(ctx)
		if err != nil {
			return fmt.Errorf("count fallback tiers: %w", err)
		}

		if jsonOutput(cmd) {
			return printJSON(map[string]any{"runs": events, "fallback_tiers": tiers})
		}
		if len(events) == 0 {
			fmt.Println("No workflow runs recorded.")
			return nil
		}

		fmt.Printf("%-5s  %-19s  %-22s  %-9s  %-12s  %-10s  %-4s  %s\n",
			"ID", "Timestamp", "Workflow", "Outcome", "Emotion", "Action", "Tier", "Ms")
		fmt.Println(strings.Repeat("─", 100))
		for _, e := range events {
			tier := "-"
			if e.FallbackTier >= 0 {
				tier = fmt.Sprint(e.FallbackTier)
			}
			fmt.Printf("%-5d  %-19s  %-22s  %s  %-12s  %-10s  %-4s  %d\n",
				e.ID,
				e.Timestamp.Local().Format("2006-01-02 15:04:05"),
				e.Workflow,
				theme.Outcome(e.Outcome).Render(fmt.Sprintf("%-9s", e.Outcome)),
				e.Emotion,
				e.Intervention,
				tier,
				e.DurationMs,
			)
		}

		if len(tiers) > 0 {
			heading("Fallback tiers")
			ids := make([]int, 0, len(tiers))
			for id := range tiers {
				ids = append(ids, id)
			}
			sort.Ints(ids)
			for _, id := range ids {
				fmt.Printf("  %s  %d\n", tierLabel(id), tiers[id])
			}
		}
		return nil
	},
}

func init() {
	workflowsHistoryCmd.Flags().IntP("limit", "n", 20, "Number of runs to show")
	workflowsHistoryCmd.Flags().StringP("workflow", "w", "", "Filter by workflow name")

	workflowsCmd.AddCommand(workflowsListCmd)
	workflowsCmd.AddCommand(workflowsHistoryCmd)
}
