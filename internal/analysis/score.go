package analysis

import (
	"math"

	"github.com/attunetutor/attune/internal/emotion"
)

// emotionWeights maps each emotion to how conducive it is to learning.
// Emotions absent from the table score neutral.
var emotionWeights = map[emotion.Emotion]float64{
	emotion.Engaged:       1.0,
	emotion.Curious:       0.9,
	emotion.Confident:     0.8,
	emotion.Concentrating: 0.7,
	emotion.Neutral:       0.5,
	emotion.Confused:      0.3,
	emotion.Frustrated:    0.2,
	emotion.Bored:         0.1,
}

const defaultWeight = 0.5

// neutralScore is returned for an empty log: no evidence either way.
const neutralScore = 50

// Score reduces a set of events to a single learning-effectiveness value
// in [0,100]. Each event contributes weight(emotion) x confidence against
// a maximum per-event contribution of 1.0.
func Score(events []emotion.Event) int {
	if len(events) == 0 {
		return neutralScore
	}

	sum := 0.0
	for _, ev := range events {
		sum += Weight(ev.Observation.Emotion) * ev.Observation.Confidence
	}

	score := sum / float64(len(events)) * 100
	score = math.Max(0, math.Min(100, score))
	return int(math.Round(score))
}

// Weight returns the learning-effectiveness weight for an emotion.
func Weight(e emotion.Emotion) float64 {
	if w, ok := emotionWeights[e]; ok {
		return w
	}
	return defaultWeight
}
