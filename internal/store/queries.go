package store

import (
	"context"
	"fmt"
	"time"
)

// ModelRequestRow is one audit row as stored, for CLI inspection.
type ModelRequestRow struct {
	ID           int64
	Sequence     int64
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	FailureClass string
	ErrorMessage string
	Timestamp    time.Time
}

// RecentModelRequests returns the newest audit rows, newest first.
func (s *Store) RecentModelRequests(ctx context.Context, limit int) ([]ModelRequestRow, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, sequence, provider, model, purpose, input_tokens, output_tokens,
			latency_ms, success, failure_class, error_message, timestamp
		FROM model_requests ORDER BY sequence DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query model requests: %w", err)
	}
	defer rows.Close()

	var out []ModelRequestRow
	for rows.Next() {
		var r ModelRequestRow
		var success int
		var ts string
		if err := rows.Scan(&r.ID, &r.Sequence, &r.Provider, &r.Model, &r.Purpose,
			&r.InputTokens, &r.OutputTokens, &r.LatencyMs, &success,
			&r.FailureClass, &r.ErrorMessage, &ts); err != nil {
			return nil, fmt.Errorf("scan model request: %w", err)
		}
		r.Success = success != 0
		r.Timestamp, err = time.Parse(time.RFC3339Nano, ts)
		if err != nil {
			return nil, fmt.Errorf("parse timestamp %q: %w", ts, err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// SessionSummary aggregates the mirrored events of one session.
type SessionSummary struct {
	SessionID  string
	UserID     string
	EventCount int
	FirstEvent time.Time
	LastEvent  time.Time
}

// SessionSummaries lists mirrored sessions, most recent first.
func (s *Store) SessionSummaries(ctx context.Context, limit int) ([]SessionSummary, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT session_id, user_id, COUNT(*), MIN(timestamp), MAX(timestamp)
		FROM emotion_events
		GROUP BY session_id, user_id
		ORDER BY MAX(timestamp) DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query session summaries: %w", err)
	}
	defer rows.Close()

	var out []SessionSummary
	for rows.Next() {
		var sum SessionSummary
		var first, last string
		if err := rows.Scan(&sum.SessionID, &sum.UserID, &sum.EventCount, &first, &last); err != nil {
			return nil, fmt.Errorf("scan session summary: %w", err)
		}
		if sum.FirstEvent, err = time.Parse(time.RFC3339Nano, first); err != nil {
			return nil, fmt.Errorf("parse timestamp %q: %w", first, err)
		}
		if sum.LastEvent, err = time.Parse(time.RFC3339Nano, last); err != nil {
			return nil, fmt.Errorf("parse timestamp %q: %w", last, err)
		}
		out = append(out, sum)
	}
	return out, rows.Err()
}
