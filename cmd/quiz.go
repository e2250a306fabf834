package cmd

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/vuhoang/mlhub/internal/blob"
	"github.com/vuhoang/mlhub/internal/quiz"
	"github.com/vuhoang/mlhub/internal/topics"
)

var quizCmd = &cobra.Command{
	Use:   "quiz",
	Short: "Inspect stored quiz versions",
}

var quizListCmd = &cobra.Command{
	Use:   "list <topic-id>",
	Short: "List stored quiz versions for a topic",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		topic, ok := topics.Find(args[0])
		if !ok {
			return fmt.Errorf("unknown topic %q, run 'mlhub topics' for the list", args[0])
		}

		qs, err := openQuizStore(cmd)
		if err != nil {
			return err
		}

		versions, err := qs.ListVersions(topic.ID)
		if err != nil {
			return err
		}
		if len(versions) == 0 {
			fmt.Printf("No quizzes stored for %q yet.\n", topic.ID)
			return nil
		}

		fmt.Printf("%-8s  %-10s  %s\n", "Version", "Questions", "Created")
		for _, v := range versions {
			fmt.Printf("%-8d  %-10d  %s\n",
				v.Version, v.QuestionCount, v.CreatedAt.Local().Format("2006-01-02 15:04:05"))
		}
		return nil
	},
}

var quizShowCmd = &cobra.Command{
	Use:   "show <topic-id> <version>",
	Short: "Print one stored quiz document as JSON",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		topic, ok := topics.Find(args[0])
		if !ok {
			return fmt.Errorf("unknown topic %q, run 'mlhub topics' for the list", args[0])
		}
		version, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid version %q: %w", args[1], err)
		}

		qs, err := openQuizStore(cmd)
		if err != nil {
			return err
		}

		doc, err := qs.LoadVersion(topic.ID, version)
		if err != nil {
			return err
		}

		data, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	},
}

// openQuizStore builds a read-only quiz store over the content dir.
func openQuizStore(cmd *cobra.Command) (*quiz.Store, error) {
	contentDir, err := resolveContentDir(cmd)
	if err != nil {
		return nil, fmt.Errorf("resolve content dir: %w", err)
	}
	blobs, err := blob.NewDir(contentDir)
	if err != nil {
		return nil, fmt.Errorf("open content dir: %w", err)
	}
	return quiz.NewStore(blobs, nil, quiz.DefaultConfig()), nil
}

func init() {
	quizCmd.AddCommand(quizListCmd)
	quizCmd.AddCommand(quizShowCmd)
}
