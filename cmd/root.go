package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/vuhoang/mlhub/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "mlhub",
	Short: "AI-powered Machine Learning study portal",
	Long:  "ML Hub is a terminal portal that generates Machine Learning lessons and quizzes with an LLM and tracks your quiz performance over time.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// A .env next to the binary is the easiest way to carry API keys.
	_ = godotenv.Load()

	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides MLHUB_DB env var)")
	rootCmd.PersistentFlags().String("content-dir", "", "Directory for saved lessons and quizzes (overrides MLHUB_CONTENT_DIR env var)")

	rootCmd.AddCommand(topicsCmd)
	rootCmd.AddCommand(lessonCmd)
	rootCmd.AddCommand(quizCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(updateCmd)
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then MLHUB_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}

// resolveContentDir returns the blob root using --content-dir flag, then
// MLHUB_CONTENT_DIR, then the default XDG path.
func resolveContentDir(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("content-dir"); p != "" {
		return p, nil
	}
	if p := os.Getenv("MLHUB_CONTENT_DIR"); p != "" {
		return p, nil
	}

	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dataDir = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataDir, "mlhub", "content"), nil
}
