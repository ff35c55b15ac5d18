package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

type modelRequestRepo struct {
	db  *sql.DB
	seq *sequenceCounter
}

func (r *modelRequestRepo) Append(ctx context.Context, data ModelRequestData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO model_requests (
			sequence, provider, model, purpose, input_tokens, output_tokens,
			latency_ms, success, failure_class, error_message, timestamp
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		seqNum,
		data.Provider,
		data.Model,
		data.Purpose,
		data.InputTokens,
		data.OutputTokens,
		data.LatencyMs,
		boolToInt(data.Success),
		data.FailureClass,
		data.ErrorMessage,
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert model request: %w", err)
	}
	return nil
}
