package llm

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/attunetutor/attune/internal/logging"
	"github.com/attunetutor/attune/internal/store"
)

// AuditProvider is a decorator that records every model request in the
// durable request audit log. The failure class is preserved so classifier
// pacing can be retuned from history (a run of rate-limit failures reads
// very differently from a run of malformed replies).
type AuditProvider struct {
	inner  Provider
	repo   store.ModelRequestRepo
	logger *slog.Logger
}

// WithAudit wraps a Provider with request audit logging. A nil repo
// returns the provider unchanged.
func WithAudit(p Provider, repo store.ModelRequestRepo, logger *slog.Logger) Provider {
	if repo == nil {
		return p
	}
	return &AuditProvider{inner: p, repo: repo, logger: logging.With(logger, "llm-audit")}
}

func (a *AuditProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()

	resp, err := a.inner.Generate(ctx, req)

	data := store.ModelRequestData{
		Provider:  a.inner.ModelID(),
		Model:     a.inner.ModelID(),
		Purpose:   PurposeFrom(ctx),
		LatencyMs: time.Since(start).Milliseconds(),
		Success:   err == nil,
	}

	if resp != nil {
		data.InputTokens = resp.Usage.InputTokens
		data.OutputTokens = resp.Usage.OutputTokens
		data.Model = resp.Model
	}

	if err != nil {
		data.FailureClass = FailureClass(err)
		data.ErrorMessage = err.Error()
	}

	// Record the event but never fail the request over an audit write.
	if logErr := a.repo.Append(ctx, data); logErr != nil {
		a.logger.Warn("failed to record model request", logging.Error(logErr))
	}

	return resp, err
}

func (a *AuditProvider) ModelID() string {
	return a.inner.ModelID()
}

// FailureClass maps a provider error to its audit label.
func FailureClass(err error) string {
	if err == nil {
		return ""
	}
	var rl *ErrRateLimit
	if errors.As(err, &rl) {
		return "rate_limited"
	}
	var inv *ErrInvalidResponse
	if errors.As(err, &inv) {
		return "malformed"
	}
	var tok *ErrMaxTokensExceeded
	if errors.As(err, &tok) {
		return "truncated"
	}
	return "unavailable"
}
