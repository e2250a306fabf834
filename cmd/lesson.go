package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vuhoang/mlhub/internal/blob"
	"github.com/vuhoang/mlhub/internal/content"
	"github.com/vuhoang/mlhub/internal/llm"
	"github.com/vuhoang/mlhub/internal/store"
	"github.com/vuhoang/mlhub/internal/topics"
)

var lessonCmd = &cobra.Command{
	Use:   "lesson <topic-id>",
	Short: "Print the lesson for a topic, generating it if needed",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		topic, ok := topics.Find(args[0])
		if !ok {
			return fmt.Errorf("unknown topic %q, run 'mlhub topics' for the list", args[0])
		}

		regenerate, _ := cmd.Flags().GetBool("regenerate")

		contentDir, err := resolveContentDir(cmd)
		if err != nil {
			return fmt.Errorf("resolve content dir: %w", err)
		}
		blobs, err := blob.NewDir(contentDir)
		if err != nil {
			return fmt.Errorf("open content dir: %w", err)
		}

		svc := content.NewService(blobs, nil, content.DefaultConfig())

		// Serve from disk when possible; only then is a provider needed.
		if !regenerate {
			text, found, err := svc.Load(topic.ID)
			if err != nil {
				return fmt.Errorf("load lesson: %w", err)
			}
			if found {
				fmt.Println(text)
				return nil
			}
		}

		dbPath, err := resolveDBPath(cmd)
		if err != nil {
			return fmt.Errorf("resolve DB path: %w", err)
		}
		st, err := store.Open(dbPath)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer st.Close()

		provider, err := llm.NewProviderFromEnv(cmd.Context(), st.EventRepo())
		if err != nil {
			return fmt.Errorf("LLM provider not configured: %w", err)
		}
		svc = content.NewService(blobs, provider, content.DefaultConfig())

		fmt.Fprintf(os.Stderr, "Generating lesson for %q...\n", topic.Title)
		text, err := svc.Generate(cmd.Context(), topic)
		if err != nil {
			return err
		}
		if err := svc.Save(topic.ID, text); err != nil {
			return fmt.Errorf("save lesson: %w", err)
		}

		fmt.Println(text)
		return nil
	},
}

func init() {
	lessonCmd.Flags().Bool("regenerate", false, "Generate a fresh lesson even if one is saved")
}
