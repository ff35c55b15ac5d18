package adapt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/attunetutor/attune/internal/emotion"
)

func newTestPolicy(t *testing.T) (*Policy, *time.Time) {
	t.Helper()
	now := time.Date(2025, 3, 10, 14, 0, 0, 0, time.UTC)
	p := NewPolicy(60*time.Second, 0.6)
	p.now = func() time.Time { return now }
	return p, &now
}

func obs(e emotion.Emotion, conf float64, faceVisible bool) emotion.Observation {
	return emotion.Observation{Emotion: e, Confidence: conf, FaceVisible: faceVisible}
}

func TestObserveTriggersOnConfused(t *testing.T) {
	p, _ := newTestPolicy(t)

	require.True(t, p.Observe(obs(emotion.Confused, 0.7, true)))
	assert.Equal(t, StateCooldown, p.State())

	d := p.NextDirective()
	assert.Equal(t, DepthSimplified, d.Depth)
	assert.Equal(t, emotion.Confused, d.Emotion)
	assert.InDelta(t, 0.7, d.Confidence, 1e-9)
}

func TestCooldownBlocksSecondTrigger(t *testing.T) {
	p, now := newTestPolicy(t)

	require.True(t, p.Observe(obs(emotion.Confused, 0.7, true)))

	*now = now.Add(30 * time.Second)
	assert.False(t, p.Observe(obs(emotion.Frustrated, 0.9, true)))
	assert.Equal(t, StateCooldown, p.State())
}

func TestCooldownExpiryRestoresNormal(t *testing.T) {
	p, now := newTestPolicy(t)

	require.True(t, p.Observe(obs(emotion.Frustrated, 0.8, true)))
	assert.Equal(t, StateCooldown, p.State())

	*now = now.Add(60 * time.Second)
	assert.Equal(t, StateNormal, p.State())
	assert.True(t, p.Observe(obs(emotion.Confused, 0.65, true)))
}

func TestGateRejections(t *testing.T) {
	tests := []struct {
		name string
		obs  emotion.Observation
	}{
		{"no face visible", obs(emotion.Confused, 0.9, false)},
		{"confidence at threshold", obs(emotion.Confused, 0.6, true)},
		{"confidence below threshold", obs(emotion.Frustrated, 0.5, true)},
		{"non-negative emotion", obs(emotion.Engaged, 0.95, true)},
		{"bored is not a trigger", obs(emotion.Bored, 0.9, true)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, _ := newTestPolicy(t)
			assert.False(t, p.Observe(tt.obs))
			assert.Equal(t, StateNormal, p.State())
		})
	}
}

func TestNextDirectiveConsumedOnce(t *testing.T) {
	p, _ := newTestPolicy(t)

	require.True(t, p.Observe(obs(emotion.Confused, 0.8, true)))

	assert.Equal(t, DepthSimplified, p.NextDirective().Depth)
	assert.Equal(t, DepthStandard, p.NextDirective().Depth)
}

func TestNextDirectiveDefaultsToStandard(t *testing.T) {
	p, _ := newTestPolicy(t)

	d := p.NextDirective()
	assert.Equal(t, DepthStandard, d.Depth)
	assert.Empty(t, d.Emotion)
}

func TestReExplainBypassesGateAndCooldown(t *testing.T) {
	p, _ := newTestPolicy(t)

	require.True(t, p.Observe(obs(emotion.Confused, 0.7, true)))
	last, ok := p.LastAdaptationAt()
	require.True(t, ok)

	d := p.ReExplain()
	assert.Equal(t, DepthAlternate, d.Depth)

	after, ok := p.LastAdaptationAt()
	require.True(t, ok)
	assert.Equal(t, last, after)
}

func TestReExplainWorksDuringCooldown(t *testing.T) {
	p, _ := newTestPolicy(t)

	require.True(t, p.Observe(obs(emotion.Frustrated, 0.9, true)))
	assert.Equal(t, StateCooldown, p.State())
	assert.Equal(t, DepthAlternate, p.ReExplain().Depth)
}

func TestLastAdaptationAtBeforeAnyTrigger(t *testing.T) {
	p, _ := newTestPolicy(t)

	_, ok := p.LastAdaptationAt()
	assert.False(t, ok)
}
