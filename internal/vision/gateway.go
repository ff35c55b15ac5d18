// Package vision wraps the external vision classifier behind a gateway
// that normalizes its heterogeneous replies into canonical emotion
// observations and keeps the three failure classes (rate-limited,
// transient, malformed) distinct.
package vision

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/attunetutor/attune/internal/emotion"
	"github.com/attunetutor/attune/internal/llm"
	"github.com/attunetutor/attune/internal/logging"
)

// Frame is one still image captured from the learner's webcam.
type Frame struct {
	// MIME is the image media type, e.g. "image/jpeg".
	MIME string
	// Data is the raw image bytes.
	Data []byte
}

// FailureClass distinguishes why a classification attempt failed. The
// sampler's pacing policy can be retuned in response to rate-limit
// exhaustion, and malformed replies indicate contract drift with the
// external service, so the classes must never be conflated.
type FailureClass string

const (
	FailureRateLimited FailureClass = "rate_limited"
	FailureTransient   FailureClass = "transient"
	FailureMalformed   FailureClass = "malformed"
)

// ClassificationError carries the failure class alongside the underlying
// provider error.
type ClassificationError struct {
	Class FailureClass
	Err   error
}

func (e *ClassificationError) Error() string {
	return "classification failed (" + string(e.Class) + "): " + e.Err.Error()
}

func (e *ClassificationError) Unwrap() error { return e.Err }

// Gateway normalizes classifier replies and degrades failures to neutral
// observations so the tutoring flow always has some emotion state.
type Gateway struct {
	provider llm.Provider
	logger   *slog.Logger
	now      func() time.Time
}

// NewGateway creates a Gateway on top of a model provider. The provider
// must support image inputs (OpenAI, Gemini, or a mock).
func NewGateway(provider llm.Provider, logger *slog.Logger) *Gateway {
	return &Gateway{
		provider: provider,
		logger:   logging.With(logger, "vision"),
		now:      time.Now,
	}
}

// Classify sends one frame to the external classifier and returns a
// normalized observation.
//
// On failure it returns a degraded neutral observation together with a
// *ClassificationError: the observation keeps the UI and session log
// alive, the error tells the caller (and the audit trail) exactly which
// failure class occurred. The caller decides whether to log or surface it.
func (g *Gateway) Classify(ctx context.Context, frame Frame) (emotion.Observation, error) {
	ctx = llm.WithPurpose(ctx, "emotion-classification")

	req := llm.Request{
		System: classifySystemPrompt,
		Messages: []llm.Message{
			{
				Role:    llm.RoleUser,
				Content: classifyUserPrompt,
				Images:  []llm.Image{{MIME: frame.MIME, Data: frame.Data}},
			},
		},
		Schema:    observationSchema,
		MaxTokens: 300,
	}

	resp, err := g.provider.Generate(ctx, req)
	if err != nil {
		cerr := &ClassificationError{Class: classifyFailure(err), Err: err}
		g.logger.Warn("classification failed, degrading to neutral",
			slog.String("failure_class", string(cerr.Class)),
			logging.Error(err),
		)
		return g.degraded(cerr.Class), cerr
	}

	obs, err := normalizeReply(resp.Content, g.now())
	if err != nil {
		cerr := &ClassificationError{Class: FailureMalformed, Err: err}
		g.logger.Warn("unparseable classifier reply, degrading to neutral",
			logging.Error(err),
		)
		return g.degraded(cerr.Class), cerr
	}

	return obs, nil
}

// degraded produces the low-confidence neutral observation used for UI
// continuity when classification fails.
func (g *Gateway) degraded(class FailureClass) emotion.Observation {
	return emotion.Observation{
		Emotion:     emotion.Neutral,
		Confidence:  degradedConfidence,
		FaceVisible: true,
		Indicators:  []string{"classification " + string(class)},
		Timestamp:   g.now(),
	}
}

// classifyFailure maps provider errors onto the gateway failure taxonomy.
func classifyFailure(err error) FailureClass {
	var rl *llm.ErrRateLimit
	if errors.As(err, &rl) {
		return FailureRateLimited
	}
	var inv *llm.ErrInvalidResponse
	if errors.As(err, &inv) {
		return FailureMalformed
	}
	return FailureTransient
}
