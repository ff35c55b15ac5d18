package dashboard

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/attunetutor/attune/internal/adapt"
	"github.com/attunetutor/attune/internal/analysis"
	"github.com/attunetutor/attune/internal/emotion"
	"github.com/attunetutor/attune/internal/insights"
	"github.com/attunetutor/attune/internal/session"
)

func TestRenderState(t *testing.T) {
	out := RenderState(session.State{
		SessionID:       "0b5fdb7c-1111-2222-3333-444455556666",
		UserID:          "u1",
		Topic:           "binary search",
		StartedAt:       time.Date(2025, 3, 10, 14, 30, 0, 0, time.UTC),
		EventCount:      12,
		CurrentEmotion:  emotion.Confused,
		AdaptationState: adapt.StateCooldown,
		Effectiveness:   42,
	})

	assert.Contains(t, out, "0b5fdb7c")
	assert.Contains(t, out, "binary search")
	assert.Contains(t, out, "confused")
	assert.Contains(t, out, "cooldown")
	assert.Contains(t, out, "42/100")
}

func TestRenderPatterns(t *testing.T) {
	out := RenderPatterns([]analysis.Pattern{
		{
			Emotion:           emotion.Engaged,
			Frequency:         9,
			AverageConfidence: 0.84,
			CommonContexts:    []emotion.TimeOfDay{emotion.Morning, emotion.Evening},
			Trend:             analysis.TrendStable,
		},
	})

	assert.Contains(t, out, "engaged")
	assert.Contains(t, out, "0.84")
	assert.Contains(t, out, "stable")
	assert.Contains(t, out, "morning, evening")
}

func TestRenderPatternsEmpty(t *testing.T) {
	assert.Contains(t, RenderPatterns(nil), "No emotion data")
}

func TestRenderInsights(t *testing.T) {
	out := RenderInsights([]insights.Insight{
		{
			Type:           insights.TypeWarning,
			Title:          "Signs of struggle",
			Description:    "Negative emotions dominate recent sessions.",
			Recommendation: "Try shorter sessions with easier material.",
			Priority:       insights.PriorityHigh,
		},
	})

	assert.Contains(t, out, "Signs of struggle")
	assert.Contains(t, out, "high")
	assert.Contains(t, out, "shorter sessions")
}

func TestRenderInsightsEmpty(t *testing.T) {
	assert.Contains(t, RenderInsights(nil), "No insights yet")
}

func TestRenderEffectiveness(t *testing.T) {
	assert.Contains(t, RenderEffectiveness(88), "88/100")
}
