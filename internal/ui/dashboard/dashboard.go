// Package dashboard renders session state, emotion patterns, and
// insights as terminal output for the CLI.
package dashboard

import (
	"fmt"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/attunetutor/attune/internal/analysis"
	"github.com/attunetutor/attune/internal/insights"
	"github.com/attunetutor/attune/internal/session"
	"github.com/attunetutor/attune/internal/ui/theme"
)

// RenderState formats a session snapshot.
func RenderState(st session.State) string {
	var b strings.Builder

	b.WriteString(theme.Title.Render("Session "+shortID(st.SessionID)) + "\n")
	b.WriteString(theme.Subtitle.Render(fmt.Sprintf("%s · %s · started %s",
		st.UserID, st.Topic, st.StartedAt.Format(time.Kitchen))) + "\n\n")

	b.WriteString(fmt.Sprintf("Events:        %d\n", st.EventCount))
	b.WriteString("Emotion:       " + theme.EmotionStyle(st.CurrentEmotion).Render(string(st.CurrentEmotion)) + "\n")
	b.WriteString(fmt.Sprintf("Adaptation:    %s\n", st.AdaptationState))
	b.WriteString("Effectiveness: " + theme.ScoreStyle(st.Effectiveness).Render(fmt.Sprintf("%d/100", st.Effectiveness)) + "\n")

	return b.String()
}

// RenderPatterns formats per-emotion patterns as a table.
func RenderPatterns(patterns []analysis.Pattern) string {
	if len(patterns) == 0 {
		return theme.Hint.Render("No emotion data in the analysis window yet.")
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"Emotion", "Frequency", "Avg Conf", "Trend", "Common Times"})

	for _, p := range patterns {
		times := make([]string, len(p.CommonContexts))
		for i, tod := range p.CommonContexts {
			times[i] = string(tod)
		}
		tw.AppendRow(table.Row{
			theme.EmotionStyle(p.Emotion).Render(string(p.Emotion)),
			p.Frequency,
			fmt.Sprintf("%.2f", p.AverageConfidence),
			string(p.Trend),
			strings.Join(times, ", "),
		})
	}

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight},
		{Number: 3, Align: text.AlignRight},
	})
	return tw.Render()
}

// RenderInsights formats insights as a prioritized list.
func RenderInsights(list []insights.Insight) string {
	if len(list) == 0 {
		return theme.Hint.Render("No insights yet. Keep the session going.")
	}

	var b strings.Builder
	for _, in := range list {
		style := theme.InsightStyle(in.Type)
		b.WriteString(style.Render(fmt.Sprintf("[%s] %s", in.Priority, in.Title)) + "\n")
		b.WriteString("  " + theme.Body.Render(in.Description) + "\n")
		if in.Recommendation != "" {
			b.WriteString("  " + theme.Hint.Render(in.Recommendation) + "\n")
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// RenderEffectiveness formats the score headline with its band style.
func RenderEffectiveness(score int) string {
	return "Learning effectiveness: " + theme.ScoreStyle(score).Render(fmt.Sprintf("%d/100", score))
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
