package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vuhoang/mlhub/internal/topics"
)

var topicsCmd = &cobra.Command{
	Use:   "topics",
	Short: "List the lesson topics",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("%-22s  %s\n", "ID", "Title")
		for _, t := range topics.Catalog {
			fmt.Printf("%-22s  %s %s\n", t.ID, t.Icon, t.Title)
		}
	},
}
