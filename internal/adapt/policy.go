// Package adapt decides when tutoring content should be simplified in
// response to the learner's emotional state, under an explicit cooldown
// so the tutor never thrashes between explanation styles on noisy
// readings.
package adapt

import (
	"sync"
	"time"

	"github.com/attunetutor/attune/internal/emotion"
)

// Depth is the directive consumed by the content generator once per
// tutoring turn.
type Depth string

const (
	// DepthStandard requests the normal explanation style.
	DepthStandard Depth = "standard"
	// DepthSimplified requests a simpler explanation, triggered by the
	// emotion gate.
	DepthSimplified Depth = "simplified"
	// DepthAlternate requests a completely different approach, used for
	// learner-initiated re-explanations.
	DepthAlternate Depth = "alternate"
)

// Directive carries the depth decision plus the triggering emotion and
// confidence for the generator's own prompt construction.
type Directive struct {
	Depth      Depth           `json:"depth"`
	Emotion    emotion.Emotion `json:"emotion,omitempty"`
	Confidence float64         `json:"confidence,omitempty"`
}

// State is the policy's position in its two-state machine.
type State string

const (
	StateNormal   State = "normal"
	StateCooldown State = "cooldown"
)

// DefaultCooldown is the minimum spacing between two emotion-triggered
// simplifications.
const DefaultCooldown = 60 * time.Second

// DefaultConfidenceThreshold is the minimum classifier confidence for an
// observation to trigger simplification.
const DefaultConfidenceThreshold = 0.6

// Policy is the per-session adaptation state machine. It is created at
// session start and discarded at session end; nothing persists.
type Policy struct {
	cooldown  time.Duration
	threshold float64
	now       func() time.Time

	mu               sync.Mutex
	lastAdaptationAt time.Time // zero until the first trigger
	pending          *Directive
}

// NewPolicy creates a policy in the Normal state.
func NewPolicy(cooldown time.Duration, threshold float64) *Policy {
	if cooldown <= 0 {
		cooldown = DefaultCooldown
	}
	if threshold <= 0 {
		threshold = DefaultConfidenceThreshold
	}
	return &Policy{
		cooldown:  cooldown,
		threshold: threshold,
		now:       time.Now,
	}
}

// Observe evaluates one classified observation against the trigger gate:
// emotion is confused or frustrated, confidence above the threshold, a
// face was actually visible, and the policy is in the Normal state. On a
// trigger the policy enters Cooldown and arms a simplification directive
// for the next tutoring turn. Returns true when this observation
// triggered.
//
// Observations during Cooldown are accepted silently; they are already in
// the session log, they just cannot re-trigger.
func (p *Policy) Observe(obs emotion.Observation) bool {
	if !obs.FaceVisible {
		return false
	}
	if obs.Emotion != emotion.Confused && obs.Emotion != emotion.Frustrated {
		return false
	}
	if obs.Confidence <= p.threshold {
		return false
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.stateLocked() == StateCooldown {
		return false
	}

	p.lastAdaptationAt = p.now()
	p.pending = &Directive{
		Depth:      DepthSimplified,
		Emotion:    obs.Emotion,
		Confidence: obs.Confidence,
	}
	return true
}

// NextDirective is consulted by the content generator once per tutoring
// turn. An armed simplification is returned exactly once; afterwards the
// directive reverts to standard depth until the next trigger.
func (p *Policy) NextDirective() Directive {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.pending != nil {
		d := *p.pending
		p.pending = nil
		return d
	}
	return Directive{Depth: DepthStandard}
}

// ReExplain returns the directive for a learner-initiated re-explanation
// of the same concept. It bypasses the emotion gate entirely and does not
// touch the cooldown timer; the two mechanisms are independent.
func (p *Policy) ReExplain() Directive {
	return Directive{Depth: DepthAlternate}
}

// State reports the current machine state. The transition back to Normal
// happens when the cooldown interval has elapsed since the last trigger.
func (p *Policy) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stateLocked()
}

// LastAdaptationAt returns the time of the most recent trigger and
// whether one has happened.
func (p *Policy) LastAdaptationAt() (time.Time, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastAdaptationAt, !p.lastAdaptationAt.IsZero()
}

func (p *Policy) stateLocked() State {
	if p.lastAdaptationAt.IsZero() {
		return StateNormal
	}
	if p.now().Sub(p.lastAdaptationAt) >= p.cooldown {
		return StateNormal
	}
	return StateCooldown
}
