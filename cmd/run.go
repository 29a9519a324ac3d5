package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/tutorly/internal/learner"
)

var runCmd = &cobra.Command{
	Use:   "run <workflow>",
	Short: "Run one workflow against a learner context",
	Example: "  tutorly run learning_session --context learner.json --params '{\"topic\": \"embeddings\"}'\n" +
		"  tutorly run content_update --params params.json --json",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		lc, err := readLearner(cmd)
		if err != nil {
			return err
		}
		params, err := readParams(cmd)
		if err != nil {
			return err
		}

		e, err := openEngine(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		res, err := e.orch.RunWorkflow(cmd.Context(), args[0], lc, params)
		if err != nil {
			return err
		}
		if jsonOutput(cmd) {
			return printJSON(res)
		}
		renderResult(res)
		return nil
	},
}

func init() {
	runCmd.Flags().String("context", "", "Learner context JSON file (- for stdin)")
	runCmd.Flags().String("params", "", "Workflow params: a JSON file, - for stdin, or inline JSON")
}

// readInput reads a file, or stdin for "-".
func readInput(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}

func readLearner(cmd *cobra.Command) (learner.Context, error) {
	var lc learner.Context
	path, _ := cmd.Flags().GetString("context")
	if path == "" {
		return lc, nil
	}
	data, err := readInput(path)
	if err != nil {
		return lc, fmt.Errorf("read learner context: %w", err)
	}
	if err := json.Unmarshal(data, &lc); err != nil {
		return lc, fmt.Errorf("decode learner context %s: %w", path, err)
	}
	return lc.Trimmed(), nil
}

func readParams(cmd *cobra.Command) (json.RawMessage, error) {
	v, _ := cmd.Flags().GetString("params")
	if v == "" {
		return nil, nil
	}
	if json.Valid([]byte(v)) {
		return json.RawMessage(v), nil
	}
	data, err := readInput(v)
	if err != nil {
		return nil, fmt.Errorf("read params: %w", err)
	}
	if !json.Valid(data) {
		return nil, fmt.Errorf("params %s is not valid JSON", v)
	}
	return data, nil
}
