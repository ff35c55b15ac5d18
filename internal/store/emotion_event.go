package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/attunetutor/attune/internal/emotion"
)

type emotionEventRepo struct {
	db  *sql.DB
	seq *sequenceCounter
}

func (r *emotionEventRepo) Append(ctx context.Context, event emotion.Event) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	indicators, err := json.Marshal(event.Observation.Indicators)
	if err != nil {
		return fmt.Errorf("marshal indicators: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO emotion_events (
			sequence, session_id, user_id, emotion, confidence, face_visible,
			indicators_json, time_of_day, session_duration_minutes,
			activity_type, consecutive_count, timestamp
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		seqNum,
		event.SessionID,
		event.UserID,
		string(event.Observation.Emotion),
		event.Observation.Confidence,
		boolToInt(event.Observation.FaceVisible),
		string(indicators),
		string(event.Context.TimeOfDay),
		event.Context.SessionDurationMinutes,
		string(event.Context.ActivityType),
		event.Context.ConsecutiveCount,
		event.Observation.Timestamp.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert emotion event: %w", err)
	}
	return nil
}

func (r *emotionEventRepo) BySession(ctx context.Context, sessionID string) ([]emotion.Event, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT session_id, user_id, emotion, confidence, face_visible,
			indicators_json, time_of_day, session_duration_minutes,
			activity_type, consecutive_count, timestamp
		FROM emotion_events WHERE session_id = ? ORDER BY sequence`,
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("query emotion events: %w", err)
	}
	defer rows.Close()

	var events []emotion.Event
	for rows.Next() {
		var (
			ev          emotion.Event
			emotionStr  string
			faceVisible int
			indicators  string
			timeOfDay   string
			activity    string
			timestamp   string
		)
		err := rows.Scan(
			&ev.SessionID,
			&ev.UserID,
			&emotionStr,
			&ev.Observation.Confidence,
			&faceVisible,
			&indicators,
			&timeOfDay,
			&ev.Context.SessionDurationMinutes,
			&activity,
			&ev.Context.ConsecutiveCount,
			&timestamp,
		)
		if err != nil {
			return nil, fmt.Errorf("scan emotion event: %w", err)
		}

		ev.Observation.Emotion = emotion.Emotion(emotionStr)
		ev.Observation.FaceVisible = faceVisible != 0
		ev.Context.TimeOfDay = emotion.TimeOfDay(timeOfDay)
		ev.Context.ActivityType = emotion.ActivityType(activity)

		if err := json.Unmarshal([]byte(indicators), &ev.Observation.Indicators); err != nil {
			return nil, fmt.Errorf("parse indicators: %w", err)
		}
		ts, err := time.Parse(time.RFC3339Nano, timestamp)
		if err != nil {
			return nil, fmt.Errorf("parse timestamp: %w", err)
		}
		ev.Observation.Timestamp = ts

		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate emotion events: %w", err)
	}
	return events, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
