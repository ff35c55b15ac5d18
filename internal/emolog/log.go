// Package emolog holds the append-only, session-scoped log of emotion
// events. The in-memory log is the source of truth for a live session;
// the durable mirror is best effort.
package emolog

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/attunetutor/attune/internal/emotion"
	"github.com/attunetutor/attune/internal/logging"
	"github.com/attunetutor/attune/internal/store"
)

// Log is the append-only emotion event sequence for one session.
// Append is the only mutator; events are never updated or deleted, and
// insertion order is chronological order by construction.
type Log struct {
	sessionID string
	userID    string
	activity  emotion.ActivityType
	startedAt time.Time

	mirror store.EmotionEventRepo
	logger *slog.Logger

	mu     sync.Mutex
	events []emotion.Event
}

// New creates an empty log for a session. mirror may be nil to disable
// durable mirroring.
func New(sessionID, userID string, activity emotion.ActivityType, startedAt time.Time, mirror store.EmotionEventRepo, logger *slog.Logger) *Log {
	return &Log{
		sessionID: sessionID,
		userID:    userID,
		activity:  activity,
		startedAt: startedAt,
		mirror:    mirror,
		logger:    logging.With(logger, "emolog").With(slog.String(logging.FieldSessionID, sessionID)),
	}
}

// Append attaches session context to the observation and appends the
// resulting event. It is total: observations reaching the log have
// already been normalized by the classification gateway, so a confidence
// outside [0,1] here is a gateway contract bug and panics rather than
// being silently clamped.
func (l *Log) Append(obs emotion.Observation) emotion.Event {
	if obs.Confidence < 0 || obs.Confidence > 1 {
		panic(fmt.Sprintf("emolog: confidence %v outside [0,1] for session %s; gateway must normalize before append", obs.Confidence, l.sessionID))
	}
	if !obs.Emotion.Valid() {
		panic(fmt.Sprintf("emolog: emotion %q outside vocabulary for session %s; gateway must coerce before append", obs.Emotion, l.sessionID))
	}

	l.mu.Lock()

	consecutive := 1
	if n := len(l.events); n > 0 && l.events[n-1].Observation.Emotion == obs.Emotion {
		consecutive = l.events[n-1].Context.ConsecutiveCount + 1
	}

	event := emotion.Event{
		Observation: obs,
		SessionID:   l.sessionID,
		UserID:      l.userID,
		Context: emotion.Context{
			TimeOfDay:              emotion.TimeOfDayFor(obs.Timestamp),
			SessionDurationMinutes: int(obs.Timestamp.Sub(l.startedAt).Minutes()),
			ActivityType:           l.activity,
			ConsecutiveCount:       consecutive,
		},
	}

	l.events = append(l.events, event)
	l.mu.Unlock()

	// Mirror failures are logged and dropped; the in-memory append has
	// already succeeded.
	if l.mirror != nil {
		if err := l.mirror.Append(context.Background(), event); err != nil {
			l.logger.Warn("failed to mirror emotion event", logging.Error(err))
		}
	}

	return event
}

// Events returns a snapshot copy of all events in insertion order.
func (l *Log) Events() []emotion.Event {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]emotion.Event, len(l.events))
	copy(out, l.events)
	return out
}

// Len returns the number of appended events.
func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.events)
}

// Latest returns the most recent event, or false when the log is empty.
func (l *Log) Latest() (emotion.Event, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.events) == 0 {
		return emotion.Event{}, false
	}
	return l.events[len(l.events)-1], true
}
