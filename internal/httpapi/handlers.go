// Package httpapi exposes live sessions over a small JSON API so a
// frontend can push camera frames and pull tutoring turns, insights, and
// session state.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/attunetutor/attune/internal/emotion"
	"github.com/attunetutor/attune/internal/llm"
	"github.com/attunetutor/attune/internal/logging"
	"github.com/attunetutor/attune/internal/session"
	"github.com/attunetutor/attune/internal/vision"
)

// Handler serves the session API.
type Handler struct {
	manager *session.Manager
	logger  *slog.Logger

	// baseCtx bounds the lifetime of sampling loops started through the
	// API; a session must outlive the request that created it.
	baseCtx context.Context
}

// NewHandler creates a Handler over a session manager. baseCtx should be
// the server's run context.
func NewHandler(baseCtx context.Context, manager *session.Manager, logger *slog.Logger) *Handler {
	return &Handler{
		manager: manager,
		logger:  logging.With(logger, "httpapi"),
		baseCtx: baseCtx,
	}
}

func (h *Handler) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type startSessionRequest struct {
	UserID   string `json:"user_id"`
	Activity string `json:"activity"`
	Topic    string `json:"topic"`
}

func (h *Handler) startSession(w http.ResponseWriter, r *http.Request) {
	var req startSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	if strings.TrimSpace(req.UserID) == "" {
		writeError(w, http.StatusBadRequest, "user_id is required")
		return
	}

	activity := emotion.ActivityType(req.Activity)
	switch activity {
	case "", emotion.ActivityLearning, emotion.ActivityQuiz, emotion.ActivityReview:
	default:
		writeError(w, http.StatusBadRequest, "unknown activity type")
		return
	}

	// The sampling loop outlives this request; it is bound to the
	// server's lifetime, not the request's.
	s := h.manager.Start(h.baseCtx, session.StartOptions{
		UserID:   req.UserID,
		Activity: activity,
		Topic:    req.Topic,
	})
	writeJSON(w, http.StatusCreated, s.CurrentState())
}

type submitFrameRequest struct {
	MIME string `json:"mime"`
	Data []byte `json:"data"` // base64 in JSON
}

func (h *Handler) submitFrame(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	var req submitFrameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	if len(req.Data) == 0 {
		writeError(w, http.StatusBadRequest, "frame data is required")
		return
	}
	if req.MIME == "" {
		req.MIME = "image/jpeg"
	}

	issued := s.SubmitFrame(r.Context(), vision.Frame{MIME: req.MIME, Data: req.Data})
	writeJSON(w, http.StatusAccepted, map[string]bool{"issued": issued})
}

func (h *Handler) sessionState(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, s.CurrentState())
}

func (h *Handler) sessionInsights(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"session_id": s.ID,
		"insights":   s.Insights(),
	})
}

func (h *Handler) sessionEffectiveness(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"session_id": s.ID,
		"score":      s.Effectiveness(),
		"patterns":   s.Patterns(),
	})
}

type turnRequest struct {
	Question string `json:"question"`
}

func (h *Handler) turn(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	var req turnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	exp, err := s.Turn(r.Context(), req.Question)
	if err != nil {
		h.writeTurnError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, exp)
}

func (h *Handler) reExplain(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	var req turnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	exp, err := s.ReExplain(r.Context(), req.Question)
	if err != nil {
		h.writeTurnError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, exp)
}

func (h *Handler) endSession(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if !h.manager.End(id) {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) session(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	id := r.PathValue("id")
	s, ok := h.manager.Get(id)
	if !ok {
		writeError(w, http.StatusNotFound, "session not found")
		return nil, false
	}
	return s, true
}

func (h *Handler) writeTurnError(w http.ResponseWriter, r *http.Request, err error) {
	h.logger.Error("turn generation failed",
		slog.String("path", r.URL.Path),
		logging.Error(err),
	)

	var rateLimited *llm.ErrRateLimit
	switch {
	case errors.As(err, &rateLimited):
		writeError(w, http.StatusTooManyRequests, "tutor is rate limited, try again shortly")
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		writeError(w, http.StatusRequestTimeout, "request cancelled")
	default:
		writeError(w, http.StatusServiceUnavailable, "tutor turn unavailable")
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
