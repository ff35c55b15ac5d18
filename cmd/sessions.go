package cmd

import (
	"context"
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/attunetutor/attune/internal/store"
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "List recorded sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		dbPath, err := resolveDBPath(cmd)
		if err != nil {
			return fmt.Errorf("resolve database path: %w", err)
		}
		s, err := store.Open(dbPath)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer s.Close()

		summaries, err := s.SessionSummaries(context.Background(), limit)
		if err != nil {
			return fmt.Errorf("list sessions: %w", err)
		}
		if len(summaries) == 0 {
			fmt.Println("No recorded sessions.")
			return nil
		}

		tw := table.NewWriter()
		tw.SetStyle(table.StyleRounded)
		tw.AppendHeader(table.Row{"Session", "User", "Events", "First", "Last"})
		for _, sum := range summaries {
			tw.AppendRow(table.Row{
				sum.SessionID,
				sum.UserID,
				sum.EventCount,
				sum.FirstEvent.Local().Format("2006-01-02 15:04:05"),
				sum.LastEvent.Local().Format("2006-01-02 15:04:05"),
			})
		}
		fmt.Println(tw.Render())
		return nil
	},
}

func init() {
	sessionsCmd.Flags().Int("limit", 20, "Maximum number of sessions to list")
}
