package emotion

import "time"

// Observation is one normalized classifier sample.
//
// The classification gateway guarantees Emotion is a vocabulary member and
// Confidence is within [0,1] before an Observation reaches the rest of the
// system.
type Observation struct {
	Emotion    Emotion `json:"emotion"`
	Confidence float64 `json:"confidence"`

	// FaceVisible is false when the classifier saw no face in the frame.
	// Such observations are logged for history but never gate adaptation.
	FaceVisible bool `json:"face_visible"`

	// Indicators is free-text evidence from the classifier, kept for
	// display and audit only.
	Indicators []string `json:"indicators,omitempty"`

	Timestamp time.Time `json:"timestamp"`
}

// Event is an Observation plus the session context captured at append
// time. Events are immutable once appended to the session log.
type Event struct {
	Observation Observation `json:"observation"`
	Context     Context     `json:"context"`
	SessionID   string      `json:"session_id"`
	UserID      string      `json:"user_id,omitempty"`
}
