package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vuhoang/mlhub/internal/analytics"
	"github.com/vuhoang/mlhub/internal/blob"
	"github.com/vuhoang/mlhub/internal/topics"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show quiz performance statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		contentDir, err := resolveContentDir(cmd)
		if err != nil {
			return fmt.Errorf("resolve content dir: %w", err)
		}
		blobs, err := blob.NewDir(contentDir)
		if err != nil {
			return fmt.Errorf("open content dir: %w", err)
		}
		ledger := analytics.NewLedger(blobs)

		snap, err := ledger.Snapshot()
		if err != nil {
			return fmt.Errorf("load analytics: %w", err)
		}

		if snap.TotalAttempts == 0 {
			fmt.Println("No quiz attempts recorded yet.")
			return nil
		}

		fmt.Printf("Attempts: %d   Average: %d%%   Best: %d%%\n\n",
			snap.TotalAttempts, snap.AverageScore, snap.BestScore)

		fmt.Printf("%-34s  %8s  %8s  %6s  %11s\n",
			"Topic", "Attempts", "Average", "Best", "Improvement")
		fmt.Println(strings.Repeat("─", 76))

		for _, t := range topics.Catalog {
			stats, ok := snap.TopicStats[t.ID]
			if !ok || stats.Attempts == 0 {
				continue
			}
			view, err := ledger.TopicView(t.ID)
			if err != nil {
				return fmt.Errorf("load topic stats: %w", err)
			}
			fmt.Printf("%-34s  %8d  %7d%%  %5d%%  %+10d%%\n",
				truncate(t.Title, 34), stats.Attempts, stats.AverageScore,
				stats.BestScore, view.Improvement)
		}
		return nil
	},
}
