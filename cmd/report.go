package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/attunetutor/attune/internal/analysis"
	"github.com/attunetutor/attune/internal/insights"
	"github.com/attunetutor/attune/internal/store"
	"github.com/attunetutor/attune/internal/ui/dashboard"
)

var reportCmd = &cobra.Command{
	Use:   "report <session-id>",
	Short: "Show patterns, insights, and effectiveness for a recorded session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		windowDays, _ := cmd.Flags().GetInt("window")

		dbPath, err := resolveDBPath(cmd)
		if err != nil {
			return fmt.Errorf("resolve database path: %w", err)
		}
		s, err := store.Open(dbPath)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer s.Close()

		events, err := s.EmotionEvents().BySession(context.Background(), args[0])
		if err != nil {
			return fmt.Errorf("load session events: %w", err)
		}
		if len(events) == 0 {
			fmt.Println("No events recorded for this session.")
			return nil
		}

		now := time.Now()
		windowed := analysis.Window(events, windowDays, now)
		patterns := analysis.Analyze(windowed, windowDays, now)
		generated := insights.Generate(insights.Input{Patterns: patterns, Events: windowed})

		fmt.Println(dashboard.RenderPatterns(patterns))
		fmt.Println()
		fmt.Println(dashboard.RenderInsights(generated))
		fmt.Println()
		fmt.Println(dashboard.RenderEffectiveness(analysis.Score(events)))
		return nil
	},
}

func init() {
	reportCmd.Flags().Int("window", 7, "Analysis window in days")
}
