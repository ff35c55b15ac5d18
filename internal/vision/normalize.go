package vision

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/attunetutor/attune/internal/emotion"
)

const (
	// defaultConfidence is assumed when the classifier affirms an emotion
	// without providing a score. Absence of a score must not be read as
	// zero confidence.
	defaultConfidence = 0.7

	// noFaceConfidenceCap bounds the confidence of no-face observations so
	// a blank frame can never clear the adaptation threshold.
	noFaceConfidenceCap = 0.3

	// degradedConfidence is assigned to the neutral observations produced
	// for failed classification attempts.
	degradedConfidence = 0.1
)

// replyPayload is the untrusted wire shape of a classifier reply. Pointer
// fields distinguish absent from zero-valued.
type replyPayload struct {
	Emotion     string   `json:"emotion"`
	Confidence  *float64 `json:"confidence"`
	Indicators  []string `json:"indicators"`
	FaceVisible *bool    `json:"faceVisible"`
}

// normalizeReply validates and coerces a raw classifier reply into a
// canonical observation:
//
//   - unknown or missing emotion values coerce to neutral
//   - missing confidence defaults to 0.7, out-of-range values clamp to [0,1]
//   - faceVisible defaults to true unless explicitly false
//   - when no face is visible the emotion is forced to neutral and the
//     confidence capped low
//
// A reply that cannot be parsed at all is a malformed-response failure,
// not a zero observation.
func normalizeReply(raw json.RawMessage, now time.Time) (emotion.Observation, error) {
	var payload replyPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return emotion.Observation{}, fmt.Errorf("parse classifier reply: %w", err)
	}

	obs := emotion.Observation{
		Emotion:     emotion.Emotion(payload.Emotion),
		Confidence:  defaultConfidence,
		FaceVisible: true,
		Indicators:  payload.Indicators,
		Timestamp:   now,
	}

	if !obs.Emotion.Valid() {
		obs.Emotion = emotion.Neutral
	}

	if payload.Confidence != nil {
		obs.Confidence = clamp01(*payload.Confidence)
	}

	if payload.FaceVisible != nil {
		obs.FaceVisible = *payload.FaceVisible
	}

	if !obs.FaceVisible {
		obs.Emotion = emotion.Neutral
		if obs.Confidence > noFaceConfidenceCap {
			obs.Confidence = noFaceConfidenceCap
		}
	}

	return obs, nil
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
