package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/attunetutor/attune/internal/store"
)

var llmCmd = &cobra.Command{
	Use:   "llm",
	Short: "Inspect model request audit rows",
}

var llmListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent model requests",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		purpose, _ := cmd.Flags().GetString("purpose")

		dbPath, err := resolveDBPath(cmd)
		if err != nil {
			return fmt.Errorf("resolve database path: %w", err)
		}
		s, err := store.Open(dbPath)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer s.Close()

		rows, err := s.RecentModelRequests(context.Background(), limit)
		if err != nil {
			return fmt.Errorf("query model requests: %w", err)
		}
		if len(rows) == 0 {
			fmt.Println("No model requests found.")
			return nil
		}

		fmt.Printf("%-5s  %-19s  %-22s  %-24s  %-6s  %-6s  %-7s  %-12s  %s\n",
			"ID", "Timestamp", "Purpose", "Model", "In", "Out", "Ms", "Failure", "OK")
		fmt.Println(strings.Repeat("─", 115))

		for _, r := range rows {
			if purpose != "" && r.Purpose != purpose {
				continue
			}
			ok := "✓"
			if !r.Success {
				ok = "✗"
			}
			model := r.Model
			if len(model) > 24 {
				model = model[:24]
			}
			fmt.Printf("%-5d  %-19s  %-22s  %-24s  %-6d  %-6d  %-7d  %-12s  %s\n",
				r.ID,
				r.Timestamp.Local().Format("2006-01-02 15:04:05"),
				r.Purpose,
				model,
				r.InputTokens,
				r.OutputTokens,
				r.LatencyMs,
				r.FailureClass,
				ok,
			)
		}
		return nil
	},
}

func init() {
	llmListCmd.Flags().Int("limit", 50, "Maximum number of rows to list")
	llmListCmd.Flags().String("purpose", "", "Filter by purpose (emotion-classification, tutor-turn)")
	llmCmd.AddCommand(llmListCmd)
}
