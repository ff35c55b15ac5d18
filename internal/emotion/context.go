package emotion

import "time"

// TimeOfDay buckets a capture timestamp into the four day segments used
// for pattern context.
type TimeOfDay string

const (
	Morning   TimeOfDay = "morning"   // 05:00-11:59
	Afternoon TimeOfDay = "afternoon" // 12:00-16:59
	Evening   TimeOfDay = "evening"   // 17:00-20:59
	Night     TimeOfDay = "night"     // 21:00-04:59
)

// TimeOfDayFor derives the day segment from t's local wall-clock hour.
func TimeOfDayFor(t time.Time) TimeOfDay {
	switch h := t.Hour(); {
	case h >= 5 && h < 12:
		return Morning
	case h >= 12 && h < 17:
		return Afternoon
	case h >= 17 && h < 21:
		return Evening
	default:
		return Night
	}
}

// ActivityType describes what the learner was doing when the observation
// was captured.
type ActivityType string

const (
	ActivityLearning ActivityType = "learning"
	ActivityQuiz     ActivityType = "quiz"
	ActivityReview   ActivityType = "review"
)

// Context is the session metadata attached to an observation when it is
// appended to the session log.
type Context struct {
	TimeOfDay              TimeOfDay    `json:"time_of_day"`
	SessionDurationMinutes int          `json:"session_duration_minutes"`
	ActivityType           ActivityType `json:"activity_type"`

	// ConsecutiveCount is the run length of immediately preceding
	// observations sharing the same emotion, including this one. Used to
	// avoid over-reacting to a single noisy reading.
	ConsecutiveCount int `json:"consecutive_count"`
}
