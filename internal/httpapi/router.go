package httpapi

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/attunetutor/attune/internal/logging"
)

// NewRouter builds the API route table around a Handler.
func NewRouter(handler *Handler, logger *slog.Logger) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", handler.healthz)
	mux.HandleFunc("POST /api/sessions", handler.startSession)
	mux.HandleFunc("POST /api/sessions/{id}/frames", handler.submitFrame)
	mux.HandleFunc("GET /api/sessions/{id}/state", handler.sessionState)
	mux.HandleFunc("GET /api/sessions/{id}/insights", handler.sessionInsights)
	mux.HandleFunc("GET /api/sessions/{id}/effectiveness", handler.sessionEffectiveness)
	mux.HandleFunc("POST /api/sessions/{id}/turns", handler.turn)
	mux.HandleFunc("POST /api/sessions/{id}/reexplain", handler.reExplain)
	mux.HandleFunc("DELETE /api/sessions/{id}", handler.endSession)

	return withRequestLogging(withCORS(mux), logger)
}

func withRequestLogging(next http.Handler, logger *slog.Logger) http.Handler {
	logger = logging.With(logger, "httpapi")
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logger.Info("request",
			slog.String("method", r.Method),
			slog.String("path", r.URL.RequestURI()),
			slog.Int("status", rec.status),
			slog.Duration("duration", time.Since(start).Truncate(time.Millisecond)),
		)
	})
}

func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Max-Age", "600")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(statusCode int) {
	r.status = statusCode
	r.ResponseWriter.WriteHeader(statusCode)
}
