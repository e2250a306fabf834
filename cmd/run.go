package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vuhoang/mlhub/internal/analytics"
	"github.com/vuhoang/mlhub/internal/app"
	"github.com/vuhoang/mlhub/internal/blob"
	"github.com/vuhoang/mlhub/internal/content"
	"github.com/vuhoang/mlhub/internal/llm"
	"github.com/vuhoang/mlhub/internal/quiz"
	"github.com/vuhoang/mlhub/internal/store"
)

// runApp opens the stores, builds services, and launches the TUI.
func runApp(cmd *cobra.Command) error {
	ctx := cmd.Context()

	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	contentDir, err := resolveContentDir(cmd)
	if err != nil {
		return fmt.Errorf("resolve content dir: %w", err)
	}
	blobs, err := blob.NewDir(contentDir)
	if err != nil {
		return fmt.Errorf("open content dir: %w", err)
	}

	provider, err := llm.NewProviderFromEnv(ctx, st.EventRepo())
	if err != nil {
		fmt.Fprintln(os.Stderr, "LLM provider not configured:", err)
		fmt.Fprintln(os.Stderr, "Saved lessons and quizzes still work; generation will fail until a provider is configured.")
		provider = llm.NewMockProvider()
	}

	opts := app.Options{
		Contents: content.NewService(blobs, provider, content.DefaultConfig()),
		Quizzes:  quiz.NewStore(blobs, provider, quiz.DefaultConfig()),
		Ledger:   analytics.NewLedger(blobs),
	}

	return app.Run(opts)
}
