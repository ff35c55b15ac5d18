package vision

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/attunetutor/attune/internal/emotion"
	"github.com/attunetutor/attune/internal/llm"
	"github.com/attunetutor/attune/internal/logging"
)

var testFrame = Frame{MIME: "image/jpeg", Data: []byte("not-a-real-jpeg")}

func newTestGateway(mock *llm.MockProvider) *Gateway {
	g := NewGateway(mock, logging.NewNop())
	g.now = func() time.Time { return time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC) }
	return g
}

func TestClassifyNormalReply(t *testing.T) {
	mock := llm.NewMockProvider(llm.ObservationReply("confused", 0.85, "furrowed brow"))
	g := newTestGateway(mock)

	obs, err := g.Classify(context.Background(), testFrame)
	require.NoError(t, err)
	assert.Equal(t, emotion.Confused, obs.Emotion)
	assert.Equal(t, 0.85, obs.Confidence)
	assert.True(t, obs.FaceVisible)
	assert.Equal(t, []string{"furrowed brow"}, obs.Indicators)

	// The frame must actually be attached to the request.
	call, ok := mock.LastCall()
	require.True(t, ok)
	require.Len(t, call.Messages, 1)
	assert.Len(t, call.Messages[0].Images, 1)
}

func TestClassifyCoercion(t *testing.T) {
	tests := []struct {
		name           string
		reply          string
		wantEmotion    emotion.Emotion
		wantConfidence float64
		wantFace       bool
	}{
		{
			name:           "unknown emotion coerced to neutral",
			reply:          `{"emotion":"bewildered","confidence":0.9}`,
			wantEmotion:    emotion.Neutral,
			wantConfidence: 0.9,
			wantFace:       true,
		},
		{
			name:           "missing confidence defaults",
			reply:          `{"emotion":"engaged"}`,
			wantEmotion:    emotion.Engaged,
			wantConfidence: 0.7,
			wantFace:       true,
		},
		{
			name:           "out of range confidence clamped",
			reply:          `{"emotion":"happy","confidence":1.7}`,
			wantEmotion:    emotion.Happy,
			wantConfidence: 1.0,
			wantFace:       true,
		},
		{
			name:           "no face forces neutral and caps confidence",
			reply:          `{"emotion":"frustrated","confidence":0.95,"faceVisible":false}`,
			wantEmotion:    emotion.Neutral,
			wantConfidence: 0.3,
			wantFace:       false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(tt.reply)})
			g := newTestGateway(mock)

			obs, err := g.Classify(context.Background(), testFrame)
			require.NoError(t, err)
			assert.Equal(t, tt.wantEmotion, obs.Emotion)
			assert.InDelta(t, tt.wantConfidence, obs.Confidence, 1e-9)
			assert.Equal(t, tt.wantFace, obs.FaceVisible)
		})
	}
}

func TestClassifyFailureClasses(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		wantClass FailureClass
	}{
		{"rate limited", &llm.ErrRateLimit{Err: errors.New("429")}, FailureRateLimited},
		{"unavailable", &llm.ErrProviderUnavailable{Err: errors.New("503")}, FailureTransient},
		{"schema violation", &llm.ErrInvalidResponse{Err: errors.New("bad shape")}, FailureMalformed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := llm.NewMockProvider(llm.MockResponse{Err: tt.err})
			g := newTestGateway(mock)

			obs, err := g.Classify(context.Background(), testFrame)
			require.Error(t, err)

			var cerr *ClassificationError
			require.True(t, errors.As(err, &cerr))
			assert.Equal(t, tt.wantClass, cerr.Class)

			// Degraded observation keeps the flow alive.
			assert.Equal(t, emotion.Neutral, obs.Emotion)
			assert.Equal(t, degradedConfidence, obs.Confidence)
		})
	}
}

func TestClassifyUnparseableReplyIsMalformed(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(`I think the learner looks tired.`)})
	g := newTestGateway(mock)

	obs, err := g.Classify(context.Background(), testFrame)
	require.Error(t, err)

	var cerr *ClassificationError
	require.True(t, errors.As(err, &cerr))
	assert.Equal(t, FailureMalformed, cerr.Class)
	assert.Equal(t, emotion.Neutral, obs.Emotion)
}
