// Package session owns the lifecycle of a tutoring session: it wires the
// sampler, the emotion log, the adaptation policy, and the turn generator
// together, and keeps every session's state strictly isolated from every
// other's.
package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/attunetutor/attune/internal/adapt"
	"github.com/attunetutor/attune/internal/analysis"
	"github.com/attunetutor/attune/internal/emolog"
	"github.com/attunetutor/attune/internal/emotion"
	"github.com/attunetutor/attune/internal/insights"
	"github.com/attunetutor/attune/internal/logging"
	"github.com/attunetutor/attune/internal/sampler"
	"github.com/attunetutor/attune/internal/tutor"
	"github.com/attunetutor/attune/internal/vision"
)

// frameBox is a latest-wins mailbox between frame submission and the
// sampler. An unconsumed frame is replaced, never queued; a stale frame
// has no value once a newer one exists.
type frameBox struct {
	mu    sync.Mutex
	frame *vision.Frame
}

func (b *frameBox) put(f vision.Frame) {
	b.mu.Lock()
	b.frame = &f
	b.mu.Unlock()
}

func (b *frameBox) take() (vision.Frame, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.frame == nil {
		return vision.Frame{}, false
	}
	f := *b.frame
	b.frame = nil
	return f, true
}

// Session is one live tutoring session. All per-session state (the
// emotion log, the adaptation machine, the sampler guards) lives here and
// dies with it.
type Session struct {
	ID        string
	UserID    string
	Activity  emotion.ActivityType
	Topic     string
	StartedAt time.Time

	windowDays   int
	insightCount int
	now          func() time.Time

	log     *emolog.Log
	policy  *adapt.Policy
	sampler *sampler.Sampler
	tutor   *tutor.Service
	frames  frameBox
	logger  *slog.Logger
}

// SubmitFrame hands a camera frame to the session and attempts a sample.
// The sampler's guards decide whether a classification is actually
// issued; a frame arriving while another classification is in flight or
// inside the minimum spacing interval replaces the mailbox contents and
// waits for the next attempt. Returns true when a classification call
// was issued for this submission.
func (s *Session) SubmitFrame(ctx context.Context, frame vision.Frame) bool {
	s.frames.put(frame)
	return s.sampler.TrySample(ctx)
}

// capture is the sampler's CaptureFunc: it drains the frame mailbox.
// An empty mailbox is the common case between frame submissions.
func (s *Session) capture(context.Context) (vision.Frame, error) {
	f, ok := s.frames.take()
	if !ok {
		return vision.Frame{}, sampler.ErrNoFrame
	}
	return f, nil
}

// deliver receives every observation the sampler produces, degraded ones
// included, appends it to the log, and feeds the adaptation policy.
func (s *Session) deliver(obs emotion.Observation) {
	event := s.log.Append(obs)
	if s.policy.Observe(obs) {
		s.logger.Info("adaptation triggered",
			slog.String(logging.FieldEmotion, string(obs.Emotion)),
			slog.Float64("confidence", obs.Confidence),
			slog.Int("consecutive", event.Context.ConsecutiveCount),
		)
	}
}

// NextDirective returns the depth decision for the next tutoring turn,
// consuming any armed simplification exactly once. Callers that drive an
// external content generator use this directly; Turn calls it internally.
func (s *Session) NextDirective() adapt.Directive {
	return s.policy.NextDirective()
}

// Turn generates one tutoring turn at the depth the adaptation policy
// decided.
func (s *Session) Turn(ctx context.Context, question string) (*tutor.Explanation, error) {
	return s.tutor.GenerateTurn(ctx, tutor.TurnInput{
		Topic:     s.Topic,
		Question:  question,
		Emotion:   s.currentEmotion(),
		Directive: s.NextDirective(),
	})
}

// ReExplain generates a learner-initiated re-explanation. It always uses
// the alternate-approach depth and leaves the adaptation cooldown alone.
func (s *Session) ReExplain(ctx context.Context, question string) (*tutor.Explanation, error) {
	return s.tutor.GenerateTurn(ctx, tutor.TurnInput{
		Topic:     s.Topic,
		Question:  question,
		Emotion:   s.currentEmotion(),
		Directive: s.policy.ReExplain(),
	})
}

// currentEmotion is the latest logged emotion, or neutral before any
// observation has arrived.
func (s *Session) currentEmotion() emotion.Emotion {
	if latest, ok := s.log.Latest(); ok {
		return latest.Observation.Emotion
	}
	return emotion.Neutral
}

// Events returns a snapshot of the session's emotion log.
func (s *Session) Events() []emotion.Event {
	return s.log.Events()
}

// Patterns analyzes the session's log into per-emotion patterns.
func (s *Session) Patterns() []analysis.Pattern {
	return analysis.Analyze(s.log.Events(), s.windowDays, s.now())
}

// Insights runs the rule engine over the session's patterns and returns
// the top insights by priority. The rules see the same window the
// patterns are derived from.
func (s *Session) Insights() []insights.Insight {
	now := s.now()
	windowed := analysis.Window(s.log.Events(), s.windowDays, now)
	generated := insights.Generate(insights.Input{
		Patterns: analysis.Analyze(windowed, s.windowDays, now),
		Events:   windowed,
	})
	return insights.Top(generated, s.insightCount)
}

// Effectiveness returns the session's 0-100 effectiveness score.
func (s *Session) Effectiveness() int {
	return analysis.Score(s.log.Events())
}

// State is a point-in-time snapshot of a session for status reporting.
type State struct {
	SessionID       string          `json:"session_id"`
	UserID          string          `json:"user_id"`
	Topic           string          `json:"topic"`
	StartedAt       time.Time       `json:"started_at"`
	EventCount      int             `json:"event_count"`
	CurrentEmotion  emotion.Emotion `json:"current_emotion"`
	AdaptationState adapt.State     `json:"adaptation_state"`
	Effectiveness   int             `json:"effectiveness"`
	Latest          *emotion.Event  `json:"latest,omitempty"`
}

// CurrentState snapshots the session.
func (s *Session) CurrentState() State {
	st := State{
		SessionID:       s.ID,
		UserID:          s.UserID,
		Topic:           s.Topic,
		StartedAt:       s.StartedAt,
		EventCount:      s.log.Len(),
		CurrentEmotion:  s.currentEmotion(),
		AdaptationState: s.policy.State(),
		Effectiveness:   s.Effectiveness(),
	}
	if latest, ok := s.log.Latest(); ok {
		st.Latest = &latest
	}
	return st
}

// stop halts the sampler loop. Late classification results are discarded
// through context cancellation.
func (s *Session) stop() {
	s.sampler.Stop()
}
