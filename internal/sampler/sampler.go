// Package sampler drives the periodic capture-and-classify loop for a
// live session. It owns the two guards that keep the camera pipeline
// well behaved: a single-flight latch so at most one classification is
// in flight, and a minimum-spacing limiter so a slow provider cannot be
// hammered by queued ticks.
package sampler

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/attunetutor/attune/internal/emotion"
	"github.com/attunetutor/attune/internal/logging"
	"github.com/attunetutor/attune/internal/vision"
)

// DefaultCadence is how often the sampler attempts a capture.
const DefaultCadence = 3500 * time.Millisecond

// DefaultMinSpacing is the minimum interval between two issued
// classification calls. A call consumes its slot when issued, not when
// it completes, so a failed call still counts against spacing.
const DefaultMinSpacing = 4 * time.Second

// ErrNoFrame is returned by a CaptureFunc when no frame is waiting. A
// tick that finds no frame is a silent no-op and does not count against
// the spacing interval.
var ErrNoFrame = errors.New("sampler: no frame available")

// CaptureFunc produces one camera frame, or ErrNoFrame when the source
// is empty. It runs on the caller of TrySample, so it must not block.
type CaptureFunc func(ctx context.Context) (vision.Frame, error)

// Classifier is the slice of the vision gateway the sampler needs.
type Classifier interface {
	Classify(ctx context.Context, frame vision.Frame) (emotion.Observation, error)
}

// Sampler runs the capture loop for one session and delivers every
// observation, degraded ones included, to the deliver callback.
type Sampler struct {
	cadence  time.Duration
	limiter  *rate.Limiter
	capture  CaptureFunc
	classify Classifier
	deliver  func(emotion.Observation)
	logger   *slog.Logger

	mu       sync.Mutex
	inFlight bool

	cancel context.CancelFunc
	done   chan struct{}
}

// Options configures a Sampler. Zero durations fall back to the
// defaults.
type Options struct {
	Cadence    time.Duration
	MinSpacing time.Duration
	Capture    CaptureFunc
	Classifier Classifier
	Deliver    func(emotion.Observation)
	Logger     *slog.Logger
}

// New creates a sampler. Start must be called before any sampling
// happens.
func New(opts Options) *Sampler {
	cadence := opts.Cadence
	if cadence <= 0 {
		cadence = DefaultCadence
	}
	spacing := opts.MinSpacing
	if spacing <= 0 {
		spacing = DefaultMinSpacing
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Sampler{
		cadence:  cadence,
		limiter:  rate.NewLimiter(rate.Every(spacing), 1),
		capture:  opts.Capture,
		classify: opts.Classifier,
		deliver:  opts.Deliver,
		logger:   logging.With(logger, "sampler"),
	}
}

// Start launches the tick loop. It returns immediately; Stop ends the
// loop and waits for it to exit.
func (s *Sampler) Start(ctx context.Context) {
	ctx, s.cancel = context.WithCancel(ctx)
	s.done = make(chan struct{})

	go func() {
		defer close(s.done)
		ticker := time.NewTicker(s.cadence)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.TrySample(ctx)
			}
		}
	}()
}

// Stop cancels the loop and waits for it. In-flight classifications are
// cancelled through the context; their late results are discarded.
func (s *Sampler) Stop() {
	if s.cancel == nil {
		return
	}
	s.cancel()
	<-s.done
}

// TrySample attempts one capture-classify cycle, honoring both guards.
// It returns true when a call was issued. A tick that finds a call in
// flight, the spacing slot unavailable, or no frame waiting is a silent
// no-op; ticks are never queued, and a frameless tick hands its spacing
// slot back so the next frame to arrive is not suppressed.
func (s *Sampler) TrySample(ctx context.Context) bool {
	s.mu.Lock()
	if s.inFlight {
		s.mu.Unlock()
		return false
	}
	res := s.limiter.Reserve()
	if res.Delay() > 0 {
		res.Cancel()
		s.mu.Unlock()
		return false
	}
	s.inFlight = true
	s.mu.Unlock()

	// The slot is held but not committed until a call goes out.
	frame, err := s.capture(ctx)
	if err != nil {
		s.mu.Lock()
		res.Cancel()
		s.inFlight = false
		s.mu.Unlock()
		if !errors.Is(err, ErrNoFrame) && ctx.Err() == nil {
			s.logger.Warn("frame capture failed", logging.Error(err))
		}
		return false
	}

	go s.sample(ctx, frame)
	return true
}

func (s *Sampler) sample(ctx context.Context, frame vision.Frame) {
	defer func() {
		s.mu.Lock()
		s.inFlight = false
		s.mu.Unlock()
	}()

	obs, err := s.classify.Classify(ctx, frame)
	if ctx.Err() != nil {
		// Session ended while the call was in flight.
		return
	}
	if err != nil {
		s.logger.Warn("classification degraded", logging.Error(err))
	}
	s.deliver(obs)
}
