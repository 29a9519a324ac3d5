package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/tutorly/internal/config"
	"github.com/abhisek/tutorly/internal/logging"
	"github.com/abhisek/tutorly/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "tutorly",
	Short: "Emotion-aware adaptive tutoring engine",
	Long: "Tutorly reads how a learner is feeling, decides how to intervene and writes\n" +
		"lessons, exercises and replies to match.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setup(cmd)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

// Settings and logger for the running command, set by setup.
var (
	cfg    config.Config
	logger *zap.Logger
)

// Execute runs the root command; ctx ends on interrupt.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to a YAML config file (default ./"+config.DefaultFile+" when present)")
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite audit database (overrides TUTORLY_DB env var)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Debug logging")
	rootCmd.PersistentFlags().Bool("json", false, "Print raw JSON instead of styled output")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(respondCmd)
	rootCmd.AddCommand(classifyCmd)
	rootCmd.AddCommand(videosCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(workflowsCmd)
	rootCmd.AddCommand(versionCmd)
}

// setup loads .env, the config file and the environment, then builds the
// logger.
func setup(cmd *cobra.Command) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}

	path, _ := cmd.Flags().GetString("config")
	c, err := config.Load(path)
	if err != nil {
		return err
	}

	verbose, _ := cmd.Flags().GetBool("verbose")
	log, err := logging.New(c.Logging, verbose)
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	cfg, logger = c, log
	return nil
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then the configured store path or TUTORLY_DB, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	if cfg.Store.Path != "" {
		return cfg.Store.Path, store.EnsureDir(cfg.Store.Path)
	}
	return store.DefaultDBPath()
}

func jsonOutput(cmd *cobra.Command) bool {
	v, _ := cmd.Flags().GetBool("json")
	return v
}
