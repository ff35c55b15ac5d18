// Package insights converts derived emotion patterns into prioritized,
// human-readable recommendations for the learner dashboard. Insights are
// ephemeral: regenerated from the current log on every request.
package insights

import (
	"sort"

	"github.com/attunetutor/attune/internal/analysis"
	"github.com/attunetutor/attune/internal/emotion"
)

// Type is the display category of an insight.
type Type string

const (
	TypeWarning Type = "warning"
	TypeSuccess Type = "success"
	TypeInfo    Type = "info"
)

// Priority orders insights for display. High sorts first.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

var priorityRank = map[Priority]int{
	PriorityHigh:   0,
	PriorityMedium: 1,
	PriorityLow:    2,
}

// Insight is one generated recommendation.
type Insight struct {
	Type           Type     `json:"type"`
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	Recommendation string   `json:"recommendation"`
	Priority       Priority `json:"priority"`
}

// Input is what the rules evaluate: the derived patterns plus the raw
// events from the same window (the best-time rule needs per-time-of-day
// shares that patterns don't carry). Callers filter Events with
// analysis.Window using the cutoff the patterns were derived with.
type Input struct {
	Patterns []analysis.Pattern
	Events   []emotion.Event
}

// Rule inspects the input and emits zero or one insight.
type Rule interface {
	Name() string
	Evaluate(in Input) (Insight, bool)
}

// Generate runs all default rules and returns their insights sorted by
// priority, high first. Rule evaluation order does not affect the result
// beyond stable ordering within a priority.
func Generate(in Input) []Insight {
	return generate(in, DefaultRules())
}

func generate(in Input, rules []Rule) []Insight {
	var out []Insight
	for _, r := range rules {
		if ins, ok := r.Evaluate(in); ok {
			out = append(out, ins)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return priorityRank[out[i].Priority] < priorityRank[out[j].Priority]
	})
	return out
}

// Top returns at most n insights from the sorted list.
func Top(insights []Insight, n int) []Insight {
	if len(insights) <= n {
		return insights
	}
	return insights[:n]
}
