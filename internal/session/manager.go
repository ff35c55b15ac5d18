package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/attunetutor/attune/internal/adapt"
	"github.com/attunetutor/attune/internal/config"
	"github.com/attunetutor/attune/internal/emolog"
	"github.com/attunetutor/attune/internal/emotion"
	"github.com/attunetutor/attune/internal/logging"
	"github.com/attunetutor/attune/internal/sampler"
	"github.com/attunetutor/attune/internal/store"
	"github.com/attunetutor/attune/internal/tutor"
)

// Manager creates and tracks live sessions. Each session gets its own
// emotion log, adaptation policy, and sampler; ending a session discards
// all of them. The classifier, turn generator, and mirror store are
// shared.
type Manager struct {
	classifier sampler.Classifier
	tutor      *tutor.Service
	mirror     store.EmotionEventRepo
	cfg        *config.Config
	logger     *slog.Logger
	now        func() time.Time

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewManager creates a session manager. mirror may be nil to disable
// durable mirroring of emotion events.
func NewManager(classifier sampler.Classifier, tutorSvc *tutor.Service, mirror store.EmotionEventRepo, cfg *config.Config, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Manager{
		classifier: classifier,
		tutor:      tutorSvc,
		mirror:     mirror,
		cfg:        cfg,
		logger:     logger,
		now:        time.Now,
		sessions:   make(map[string]*Session),
	}
}

// StartOptions describes a new session.
type StartOptions struct {
	UserID   string
	Activity emotion.ActivityType
	Topic    string
}

// Start creates a session and launches its sampling loop. The loop stops
// when End is called or ctx is cancelled.
func (m *Manager) Start(ctx context.Context, opts StartOptions) *Session {
	if opts.Activity == "" {
		opts.Activity = emotion.ActivityLearning
	}

	id := uuid.NewString()
	startedAt := m.now()
	// Each component scopes its own logger; hand them the session-tagged
	// base so the component attribute appears exactly once.
	tagged := m.logger.With(slog.String(logging.FieldSessionID, id))
	logger := logging.With(tagged, "session")

	s := &Session{
		ID:           id,
		UserID:       opts.UserID,
		Activity:     opts.Activity,
		Topic:        opts.Topic,
		StartedAt:    startedAt,
		windowDays:   m.cfg.Analysis.WindowDays,
		insightCount: m.cfg.Analysis.InsightCount,
		now:          m.now,
		log:          emolog.New(id, opts.UserID, opts.Activity, startedAt, m.mirror, m.logger),
		policy:       adapt.NewPolicy(m.cfg.AdaptationCooldown(), m.cfg.Adaptation.ConfidenceThreshold),
		tutor:        m.tutor,
		logger:       logger,
	}
	s.sampler = sampler.New(sampler.Options{
		Cadence:    m.cfg.SamplerCadence(),
		MinSpacing: m.cfg.SamplerMinSpacing(),
		Capture:    s.capture,
		Classifier: m.classifier,
		Deliver:    s.deliver,
		Logger:     tagged,
	})
	s.sampler.Start(ctx)

	m.mu.Lock()
	m.sessions[id] = s
	m.mu.Unlock()

	logger.Info("session started",
		slog.String("user_id", opts.UserID),
		slog.String("activity", string(opts.Activity)),
	)
	return s
}

// Get returns a live session by ID.
func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	return s, ok
}

// End stops a session's sampling loop and forgets it. The in-memory log
// and adaptation state are discarded; mirrored events survive in the
// store. Returns false when no such session is live.
func (m *Manager) End(id string) bool {
	m.mu.Lock()
	s, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()
	if !ok {
		return false
	}

	s.stop()
	s.logger.Info("session ended",
		slog.Int("events", s.log.Len()),
		slog.Int("effectiveness", s.Effectiveness()),
	)
	return true
}

// Shutdown ends every live session.
func (m *Manager) Shutdown() {
	m.mu.Lock()
	ids := make([]string, 0, len(m.sessions))
	for id := range m.sessions {
		ids = append(ids, id)
	}
	m.mu.Unlock()

	for _, id := range ids {
		m.End(id)
	}
}
