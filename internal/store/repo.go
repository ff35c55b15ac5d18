package store

import (
	"context"

	"github.com/attunetutor/attune/internal/emotion"
)

// EmotionEventRepo mirrors session emotion events to durable storage.
type EmotionEventRepo interface {
	// Append records one emotion event.
	Append(ctx context.Context, event emotion.Event) error

	// BySession returns all events for a session in append order.
	BySession(ctx context.Context, sessionID string) ([]emotion.Event, error)
}

// ModelRequestData captures one call to an external model provider
// (vision classification or tutoring generation).
type ModelRequestData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool

	// FailureClass distinguishes rate-limited, unavailable, and malformed
	// failures so classifier pacing can be retuned from the audit trail.
	FailureClass string
	ErrorMessage string
}

// ModelRequestRepo provides append access to the model request audit log.
type ModelRequestRepo interface {
	Append(ctx context.Context, data ModelRequestData) error
}
