package emotion

import (
	"testing"
	"time"
)

func TestTimeOfDayFor(t *testing.T) {
	tests := []struct {
		hour int
		want TimeOfDay
	}{
		{5, Morning},
		{11, Morning},
		{12, Afternoon},
		{16, Afternoon},
		{17, Evening},
		{20, Evening},
		{21, Night},
		{0, Night},
		{4, Night},
	}

	for _, tt := range tests {
		ts := time.Date(2026, 3, 10, tt.hour, 30, 0, 0, time.Local)
		if got := TimeOfDayFor(ts); got != tt.want {
			t.Errorf("TimeOfDayFor(hour=%d) = %s, want %s", tt.hour, got, tt.want)
		}
	}
}

func TestVocabulary(t *testing.T) {
	for _, e := range All() {
		if !e.Valid() {
			t.Errorf("All() member %q not Valid()", e)
		}
	}
	if Emotion("ecstatic").Valid() {
		t.Error("unknown emotion reported valid")
	}
}

func TestEmotionShares(t *testing.T) {
	for _, e := range []Emotion{Confused, Frustrated, Bored} {
		if !e.Negative() {
			t.Errorf("%s should be negative", e)
		}
		if e.Positive() {
			t.Errorf("%s should not be positive", e)
		}
	}
	for _, e := range []Emotion{Engaged, Curious, Confident} {
		if !e.Positive() {
			t.Errorf("%s should be positive", e)
		}
	}
	if Neutral.Negative() || Neutral.Positive() {
		t.Error("neutral should be neither positive nor negative")
	}
}
