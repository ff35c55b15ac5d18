package vision

import (
	"strings"

	"github.com/attunetutor/attune/internal/emotion"
	"github.com/attunetutor/attune/internal/llm"
)

const classifySystemPrompt = `You are an emotion recognition assistant for an online tutoring product. You are shown one webcam frame of a learner during a study session. Assess their apparent emotional state from facial expression and posture only.`

const classifyUserPrompt = `Classify the learner's current emotional state in this frame. If no face is clearly visible, set faceVisible to false. List up to three short visual indicators supporting your assessment.`

// observationSchema constrains the classifier reply to the closed emotion
// vocabulary and the expected field shapes.
var observationSchema = &llm.Schema{
	Name:        "emotion-observation",
	Description: "One classified emotional state reading of a learner",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"emotion": map[string]any{
				"type":        "string",
				"enum":        vocabularyEnum(),
				"description": "The learner's dominant apparent emotion",
			},
			"confidence": map[string]any{
				"type":        "number",
				"description": "Classifier confidence between 0 and 1",
			},
			"indicators": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"description": "Short visual evidence phrases",
			},
			"faceVisible": map[string]any{
				"type":        "boolean",
				"description": "False when no face is clearly visible in the frame",
			},
		},
		"required": []any{"emotion"},
	},
}

func vocabularyEnum() []any {
	all := emotion.All()
	out := make([]any, len(all))
	for i, e := range all {
		out[i] = strings.ToLower(string(e))
	}
	return out
}
