package insights

import (
	"fmt"

	"github.com/attunetutor/attune/internal/analysis"
	"github.com/attunetutor/attune/internal/emotion"
)

// Share thresholds for the default rules.
const (
	negativeShareThreshold = 0.4
	positiveShareThreshold = 0.6
	bestTimeRatioThreshold = 0.6
	boredomShareThreshold  = 0.2
)

// DefaultRules returns the rule set in evaluation order.
func DefaultRules() []Rule {
	return []Rule{
		&NegativeShareRule{},
		&EngagementDropRule{},
		&BestTimeRule{},
		&PositiveShareRule{},
		&BoredomRule{},
	}
}

func totalFrequency(patterns []analysis.Pattern) int {
	total := 0
	for _, p := range patterns {
		total += p.Frequency
	}
	return total
}

// NegativeShareRule warns when confused, frustrated, and bored readings
// together dominate the window.
type NegativeShareRule struct{}

func (r *NegativeShareRule) Name() string { return "negative-share" }

func (r *NegativeShareRule) Evaluate(in Input) (Insight, bool) {
	total := totalFrequency(in.Patterns)
	if total == 0 {
		return Insight{}, false
	}

	negative := 0
	for _, p := range in.Patterns {
		if p.Emotion.Negative() {
			negative += p.Frequency
		}
	}

	share := float64(negative) / float64(total)
	if share <= negativeShareThreshold {
		return Insight{}, false
	}

	return Insight{
		Type:           TypeWarning,
		Title:          "Signs of struggle",
		Description:    fmt.Sprintf("%.0f%% of recent readings show confusion, frustration, or boredom.", share*100),
		Recommendation: "Try easier material for a while and take more frequent breaks.",
		Priority:       PriorityHigh,
	}, true
}

// EngagementDropRule warns when engagement is present but trending down.
type EngagementDropRule struct{}

func (r *EngagementDropRule) Name() string { return "engagement-drop" }

func (r *EngagementDropRule) Evaluate(in Input) (Insight, bool) {
	for _, p := range in.Patterns {
		if p.Emotion == emotion.Engaged && p.Trend == analysis.TrendDecreasing {
			return Insight{
				Type:           TypeWarning,
				Title:          "Engagement is slipping",
				Description:    "Engagement readings are becoming less confident over this window.",
				Recommendation: "Vary the topics or switch activity type to re-capture interest.",
				Priority:       PriorityMedium,
			}, true
		}
	}
	return Insight{}, false
}

// BestTimeRule finds the time of day with the strongest share of positive
// readings and celebrates it when the share is convincing.
type BestTimeRule struct{}

func (r *BestTimeRule) Name() string { return "best-time" }

func (r *BestTimeRule) Evaluate(in Input) (Insight, bool) {
	totals := make(map[emotion.TimeOfDay]int)
	positives := make(map[emotion.TimeOfDay]int)
	for _, ev := range in.Events {
		tod := ev.Context.TimeOfDay
		totals[tod]++
		if ev.Observation.Emotion.Positive() {
			positives[tod]++
		}
	}

	var best emotion.TimeOfDay
	bestRatio := 0.0
	for _, tod := range []emotion.TimeOfDay{emotion.Morning, emotion.Afternoon, emotion.Evening, emotion.Night} {
		if totals[tod] == 0 {
			continue
		}
		ratio := float64(positives[tod]) / float64(totals[tod])
		if ratio > bestRatio {
			best = tod
			bestRatio = ratio
		}
	}

	if best == "" || bestRatio <= bestTimeRatioThreshold {
		return Insight{}, false
	}

	return Insight{
		Type:           TypeSuccess,
		Title:          fmt.Sprintf("You learn best in the %s", best),
		Description:    fmt.Sprintf("%.0f%% of your %s readings are engaged, curious, or confident.", bestRatio*100, best),
		Recommendation: fmt.Sprintf("Schedule your hardest topics in the %s.", best),
		Priority:       PriorityMedium,
	}, true
}

// PositiveShareRule encourages when positive readings dominate.
type PositiveShareRule struct{}

func (r *PositiveShareRule) Name() string { return "positive-share" }

func (r *PositiveShareRule) Evaluate(in Input) (Insight, bool) {
	total := totalFrequency(in.Patterns)
	if total == 0 {
		return Insight{}, false
	}

	positive := 0
	for _, p := range in.Patterns {
		if p.Emotion.Positive() {
			positive += p.Frequency
		}
	}

	share := float64(positive) / float64(total)
	if share <= positiveShareThreshold {
		return Insight{}, false
	}

	return Insight{
		Type:           TypeSuccess,
		Title:          "Great learning state",
		Description:    fmt.Sprintf("%.0f%% of recent readings show engagement, curiosity, or confidence.", share*100),
		Recommendation: "Keep the current pace going.",
		Priority:       PriorityLow,
	}, true
}

// BoredomRule suggests harder material when boredom keeps showing up.
type BoredomRule struct{}

func (r *BoredomRule) Name() string { return "boredom" }

func (r *BoredomRule) Evaluate(in Input) (Insight, bool) {
	total := totalFrequency(in.Patterns)
	if total == 0 {
		return Insight{}, false
	}

	for _, p := range in.Patterns {
		if p.Emotion == emotion.Bored && float64(p.Frequency) > boredomShareThreshold*float64(total) {
			return Insight{
				Type:           TypeInfo,
				Title:          "Possibly under-challenged",
				Description:    "Boredom shows up in a significant share of recent readings.",
				Recommendation: "Try harder material or a faster pace.",
				Priority:       PriorityMedium,
			}, true
		}
	}
	return Insight{}, false
}
