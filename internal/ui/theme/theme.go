// Package theme holds the terminal color palette and text styles for the
// session dashboard.
package theme

import (
	"image/color"

	"charm.land/lipgloss/v2"

	"github.com/attunetutor/attune/internal/emotion"
	"github.com/attunetutor/attune/internal/insights"
)

// Color palette, tuned for dark terminals.
var (
	Primary = lipgloss.Color("#8B5CF6") // Violet
	Success = lipgloss.Color("#22C55E") // Green
	Warning = lipgloss.Color("#F59E0B") // Amber
	Danger  = lipgloss.Color("#F43F5E") // Rose
	Info    = lipgloss.Color("#38BDF8") // Sky
	Text    = lipgloss.Color("#F8FAFC") // White
	TextDim = lipgloss.Color("#94A3B8") // Slate
	Border  = lipgloss.Color("#334155") // Slate
)

// Typography
var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary)

	Subtitle = lipgloss.NewStyle().
			Foreground(TextDim)

	Body = lipgloss.NewStyle().
		Foreground(Text)

	Hint = lipgloss.NewStyle().
		Foreground(TextDim).
		Italic(true)
)

// Score styles by band: healthy, middling, struggling.
var (
	ScoreGood = lipgloss.NewStyle().
			Foreground(Success).
			Bold(true)

	ScoreMid = lipgloss.NewStyle().
			Foreground(Warning).
			Bold(true)

	ScoreLow = lipgloss.NewStyle().
			Foreground(Danger).
			Bold(true)
)

// ScoreStyle picks the style for a 0-100 effectiveness score.
func ScoreStyle(score int) lipgloss.Style {
	switch {
	case score >= 70:
		return ScoreGood
	case score >= 40:
		return ScoreMid
	default:
		return ScoreLow
	}
}

var emotionColors = map[emotion.Emotion]color.Color{
	emotion.Engaged:       Success,
	emotion.Curious:       Info,
	emotion.Confident:     Success,
	emotion.Concentrating: Info,
	emotion.Neutral:       TextDim,
	emotion.Confused:      Warning,
	emotion.Frustrated:    Danger,
	emotion.Bored:         Warning,
}

// EmotionStyle returns the display style for an emotion label.
func EmotionStyle(e emotion.Emotion) lipgloss.Style {
	c, ok := emotionColors[e]
	if !ok {
		c = TextDim
	}
	return lipgloss.NewStyle().Foreground(c)
}

// InsightStyle returns the display style for an insight's type.
func InsightStyle(t insights.Type) lipgloss.Style {
	switch t {
	case insights.TypeWarning:
		return lipgloss.NewStyle().Foreground(Warning).Bold(true)
	case insights.TypeSuccess:
		return lipgloss.NewStyle().Foreground(Success)
	default:
		return lipgloss.NewStyle().Foreground(Info)
	}
}
