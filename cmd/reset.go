package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vuhoang/mlhub/internal/analytics"
	"github.com/vuhoang/mlhub/internal/blob"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Clear all recorded quiz attempts",
	RunE: func(cmd *cobra.Command, args []string) error {
		force, _ := cmd.Flags().GetBool("force")

		if !force {
			fmt.Print("This removes every recorded quiz attempt. Lessons and quizzes are kept. Continue? [y/N] ")
			reader := bufio.NewReader(os.Stdin)
			answer, _ := reader.ReadString('\n')
			if strings.ToLower(strings.TrimSpace(answer)) != "y" {
				fmt.Println("Aborted.")
				return nil
			}
		}

		contentDir, err := resolveContentDir(cmd)
		if err != nil {
			return fmt.Errorf("resolve content dir: %w", err)
		}
		blobs, err := blob.NewDir(contentDir)
		if err != nil {
			return fmt.Errorf("open content dir: %w", err)
		}

		if err := analytics.NewLedger(blobs).Clear(); err != nil {
			return fmt.Errorf("clear analytics: %w", err)
		}

		fmt.Println("Quiz history cleared.")
		return nil
	},
}

func init() {
	resetCmd.Flags().BoolP("force", "f", false, "Skip the confirmation prompt")
}
