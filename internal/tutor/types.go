package tutor

import (
	"github.com/attunetutor/attune/internal/adapt"
	"github.com/attunetutor/attune/internal/emotion"
)

// TurnInput is everything the generator needs for one tutoring turn.
type TurnInput struct {
	// Topic is the concept being taught, e.g. "binary search".
	Topic string
	// Question is the learner's question or prompt for this turn. Empty
	// means "explain the topic".
	Question string
	// Emotion is the learner's current dominant emotional state.
	Emotion emotion.Emotion
	// Directive is the depth decision from the adaptation policy.
	Directive adapt.Directive
}

// Explanation is one structured teaching response. Every turn follows
// the same layout so the frontend can render sections consistently.
type Explanation struct {
	Topic           string   `json:"topic"`
	Acknowledgement string   `json:"acknowledgement"`
	Definition      string   `json:"definition"`
	Intuition       string   `json:"intuition"`
	Steps           []string `json:"steps"`
	Diagram         string   `json:"diagram"`
	Code            string   `json:"code"`
	TimeComplexity  string   `json:"time_complexity"`
	SpaceComplexity string   `json:"space_complexity"`
	Takeaways       []string `json:"takeaways"`
	// Depth echoes the directive this explanation was generated under.
	Depth adapt.Depth `json:"depth"`
}
