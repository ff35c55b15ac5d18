// Package analysis derives aggregate patterns and the learning
// effectiveness score from a session's emotion event log. Everything here
// is a pure function over a snapshot of the log: no state, recomputed on
// demand.
package analysis

import (
	"sort"
	"time"

	"github.com/attunetutor/attune/internal/emotion"
)

// Trend is the direction of an emotion's confidence over the window.
type Trend string

const (
	TrendIncreasing Trend = "increasing"
	TrendDecreasing Trend = "decreasing"
	TrendStable     Trend = "stable"
)

// Trend thresholds: the second half-window mean must move more than 20%
// against the first half's to register as a direction.
const (
	trendUpFactor   = 1.2
	trendDownFactor = 0.8
)

// Pattern is the derived aggregate for one emotion over the window.
type Pattern struct {
	Emotion           emotion.Emotion     `json:"emotion"`
	Frequency         int                 `json:"frequency"`
	AverageConfidence float64             `json:"average_confidence"`
	CommonContexts    []emotion.TimeOfDay `json:"common_contexts"`
	Trend             Trend               `json:"trend"`
	LastOccurrence    time.Time           `json:"last_occurrence"`
}

// Window returns the events inside the trailing window of windowDays
// before now. Order is preserved.
func Window(events []emotion.Event, windowDays int, now time.Time) []emotion.Event {
	cutoff := now.AddDate(0, 0, -windowDays)
	out := make([]emotion.Event, 0, len(events))
	for _, ev := range events {
		if !ev.Observation.Timestamp.Before(cutoff) {
			out = append(out, ev)
		}
	}
	return out
}

// Analyze computes per-emotion patterns over the trailing window of
// windowDays before now, sorted descending by frequency.
func Analyze(events []emotion.Event, windowDays int, now time.Time) []Pattern {
	groups := make(map[emotion.Emotion][]emotion.Event)
	var order []emotion.Emotion
	for _, ev := range Window(events, windowDays, now) {
		e := ev.Observation.Emotion
		if _, seen := groups[e]; !seen {
			order = append(order, e)
		}
		groups[e] = append(groups[e], ev)
	}

	patterns := make([]Pattern, 0, len(order))
	for _, e := range order {
		group := groups[e]
		patterns = append(patterns, Pattern{
			Emotion:           e,
			Frequency:         len(group),
			AverageConfidence: meanConfidence(group),
			CommonContexts:    commonContexts(group),
			Trend:             trend(group),
			LastOccurrence:    group[len(group)-1].Observation.Timestamp,
		})
	}

	sort.SliceStable(patterns, func(i, j int) bool {
		return patterns[i].Frequency > patterns[j].Frequency
	})
	return patterns
}

func meanConfidence(events []emotion.Event) float64 {
	if len(events) == 0 {
		return 0
	}
	sum := 0.0
	for _, ev := range events {
		sum += ev.Observation.Confidence
	}
	return sum / float64(len(events))
}

// trend compares mean confidence across the chronological halves of the
// group. This is a known-weak heuristic: with 2-3 events a single noisy
// reading can flip the direction, and the fixed 20% thresholds don't
// scale with group size. Kept for behavioral compatibility.
func trend(events []emotion.Event) Trend {
	if len(events) < 2 {
		return TrendStable
	}

	mid := len(events) / 2
	first := meanConfidence(events[:mid])
	second := meanConfidence(events[mid:])

	switch {
	case second > first*trendUpFactor:
		return TrendIncreasing
	case second < first*trendDownFactor:
		return TrendDecreasing
	default:
		return TrendStable
	}
}

// commonContexts returns the up-to-3 most frequent time-of-day values in
// the group, ties broken by first-encountered order.
func commonContexts(events []emotion.Event) []emotion.TimeOfDay {
	counts := make(map[emotion.TimeOfDay]int)
	firstSeen := make(map[emotion.TimeOfDay]int)
	var order []emotion.TimeOfDay

	for i, ev := range events {
		tod := ev.Context.TimeOfDay
		if _, seen := counts[tod]; !seen {
			firstSeen[tod] = i
			order = append(order, tod)
		}
		counts[tod]++
	}

	sort.SliceStable(order, func(i, j int) bool {
		if counts[order[i]] != counts[order[j]] {
			return counts[order[i]] > counts[order[j]]
		}
		return firstSeen[order[i]] < firstSeen[order[j]]
	})

	if len(order) > 3 {
		order = order[:3]
	}
	return order
}
