package sampler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/attunetutor/attune/internal/emotion"
	"github.com/attunetutor/attune/internal/vision"
)

type stubClassifier struct {
	mu      sync.Mutex
	calls   int
	obs     emotion.Observation
	err     error
	release chan struct{} // when non-nil, Classify blocks until closed
}

func (c *stubClassifier) Classify(ctx context.Context, frame vision.Frame) (emotion.Observation, error) {
	c.mu.Lock()
	c.calls++
	release := c.release
	c.mu.Unlock()
	if release != nil {
		<-release
	}
	return c.obs, c.err
}

func (c *stubClassifier) callCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

func stubCapture(ctx context.Context) (vision.Frame, error) {
	return vision.Frame{MIME: "image/jpeg", Data: []byte{0xff, 0xd8}}, nil
}

type recorder struct {
	mu   sync.Mutex
	got  []emotion.Observation
	wake chan struct{}
}

func newRecorder() *recorder {
	return &recorder{wake: make(chan struct{}, 16)}
}

func (r *recorder) deliver(obs emotion.Observation) {
	r.mu.Lock()
	r.got = append(r.got, obs)
	r.mu.Unlock()
	r.wake <- struct{}{}
}

func (r *recorder) waitOne(t *testing.T) emotion.Observation {
	t.Helper()
	select {
	case <-r.wake:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for delivery")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.got[len(r.got)-1]
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.got)
}

func TestMinSpacingSuppressesSecondCall(t *testing.T) {
	classifier := &stubClassifier{obs: emotion.Observation{Emotion: emotion.Engaged, Confidence: 0.8, FaceVisible: true}}
	rec := newRecorder()
	s := New(Options{
		MinSpacing: time.Hour,
		Capture:    stubCapture,
		Classifier: classifier,
		Deliver:    rec.deliver,
	})

	require.True(t, s.TrySample(context.Background()))
	rec.waitOne(t)

	// The spacing slot was consumed at issuance; a second attempt well
	// inside the interval is a no-op even though the first call is done.
	assert.False(t, s.TrySample(context.Background()))
	assert.Equal(t, 1, classifier.callCount())
}

func TestSingleFlightLatch(t *testing.T) {
	release := make(chan struct{})
	classifier := &stubClassifier{
		obs:     emotion.Observation{Emotion: emotion.Neutral, Confidence: 0.7, FaceVisible: true},
		release: release,
	}
	rec := newRecorder()
	s := New(Options{
		MinSpacing: time.Nanosecond,
		Capture:    stubCapture,
		Classifier: classifier,
		Deliver:    rec.deliver,
	})

	require.True(t, s.TrySample(context.Background()))
	assert.False(t, s.TrySample(context.Background()))

	close(release)
	rec.waitOne(t)
	assert.Equal(t, 1, classifier.callCount())
}

func TestLatchClearsAfterCompletion(t *testing.T) {
	classifier := &stubClassifier{obs: emotion.Observation{Emotion: emotion.Curious, Confidence: 0.9, FaceVisible: true}}
	rec := newRecorder()
	s := New(Options{
		MinSpacing: time.Nanosecond,
		Capture:    stubCapture,
		Classifier: classifier,
		Deliver:    rec.deliver,
	})

	require.True(t, s.TrySample(context.Background()))
	rec.waitOne(t)

	require.True(t, s.TrySample(context.Background()))
	rec.waitOne(t)
	assert.Equal(t, 2, classifier.callCount())
}

// emptyThenFullCapture returns ErrNoFrame until a frame is loaded.
type emptyThenFullCapture struct {
	mu    sync.Mutex
	frame *vision.Frame
}

func (c *emptyThenFullCapture) capture(ctx context.Context) (vision.Frame, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.frame == nil {
		return vision.Frame{}, ErrNoFrame
	}
	f := *c.frame
	c.frame = nil
	return f, nil
}

func (c *emptyThenFullCapture) load(f vision.Frame) {
	c.mu.Lock()
	c.frame = &f
	c.mu.Unlock()
}

func TestFramelessTickKeepsSpacingSlot(t *testing.T) {
	classifier := &stubClassifier{obs: emotion.Observation{Emotion: emotion.Engaged, Confidence: 0.8, FaceVisible: true}}
	rec := newRecorder()
	source := &emptyThenFullCapture{}
	s := New(Options{
		MinSpacing: time.Hour,
		Capture:    source.capture,
		Classifier: classifier,
		Deliver:    rec.deliver,
	})

	// Several ticks with no frame waiting: no calls, no slot consumed.
	assert.False(t, s.TrySample(context.Background()))
	assert.False(t, s.TrySample(context.Background()))
	assert.Equal(t, 0, classifier.callCount())

	// A frame arriving right after a frameless tick must go out
	// immediately instead of waiting for the spacing interval.
	source.load(vision.Frame{MIME: "image/jpeg", Data: []byte{0xff, 0xd8}})
	require.True(t, s.TrySample(context.Background()))
	rec.waitOne(t)
	assert.Equal(t, 1, classifier.callCount())
}

func TestCaptureFailureKeepsSpacingSlot(t *testing.T) {
	classifier := &stubClassifier{obs: emotion.Observation{Emotion: emotion.Neutral, Confidence: 0.7, FaceVisible: true}}
	rec := newRecorder()
	broken := true
	capture := func(ctx context.Context) (vision.Frame, error) {
		if broken {
			return vision.Frame{}, errors.New("camera device busy")
		}
		return stubCapture(ctx)
	}
	s := New(Options{
		MinSpacing: time.Hour,
		Capture:    capture,
		Classifier: classifier,
		Deliver:    rec.deliver,
	})

	// No call went out, so the attempt reports false and the slot
	// survives for the next attempt.
	assert.False(t, s.TrySample(context.Background()))
	assert.Equal(t, 0, classifier.callCount())

	broken = false
	require.True(t, s.TrySample(context.Background()))
	rec.waitOne(t)
	assert.Equal(t, 1, classifier.callCount())
}

func TestDegradedObservationStillDelivered(t *testing.T) {
	classifier := &stubClassifier{
		obs: emotion.Observation{Emotion: emotion.Neutral, Confidence: 0.1, FaceVisible: true},
		err: &vision.ClassificationError{Class: vision.FailureTransient, Err: errors.New("provider timeout")},
	}
	rec := newRecorder()
	s := New(Options{
		MinSpacing: time.Nanosecond,
		Capture:    stubCapture,
		Classifier: classifier,
		Deliver:    rec.deliver,
	})

	require.True(t, s.TrySample(context.Background()))
	obs := rec.waitOne(t)
	assert.Equal(t, emotion.Neutral, obs.Emotion)
	assert.InDelta(t, 0.1, obs.Confidence, 1e-9)
}

func TestLateResultDiscardedAfterCancel(t *testing.T) {
	release := make(chan struct{})
	classifier := &stubClassifier{
		obs:     emotion.Observation{Emotion: emotion.Engaged, Confidence: 0.8, FaceVisible: true},
		release: release,
	}
	rec := newRecorder()
	s := New(Options{
		MinSpacing: time.Nanosecond,
		Capture:    stubCapture,
		Classifier: classifier,
		Deliver:    rec.deliver,
	})

	ctx, cancel := context.WithCancel(context.Background())
	require.True(t, s.TrySample(ctx))

	cancel()
	close(release)

	// Give the in-flight goroutine a moment to observe the cancellation.
	deadline := time.Now().Add(time.Second)
	for classifier.callCount() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, 0, rec.count())
}

func TestStartStop(t *testing.T) {
	classifier := &stubClassifier{obs: emotion.Observation{Emotion: emotion.Engaged, Confidence: 0.8, FaceVisible: true}}
	rec := newRecorder()
	s := New(Options{
		Cadence:    10 * time.Millisecond,
		MinSpacing: time.Nanosecond,
		Capture:    stubCapture,
		Classifier: classifier,
		Deliver:    rec.deliver,
	})

	s.Start(context.Background())
	rec.waitOne(t)
	s.Stop()
}
