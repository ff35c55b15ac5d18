package tutor

import "github.com/attunetutor/attune/internal/llm"

// TurnSchema defines the JSON schema for one structured teaching
// response.
var TurnSchema = &llm.Schema{
	Name:        "teaching-turn",
	Description: "A structured tutoring explanation following the fixed teaching layout",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"acknowledgement": map[string]any{
				"type":        "string",
				"description": "One sentence acknowledging the student's current state",
			},
			"definition": map[string]any{
				"type":        "string",
				"description": "Precise, jargon-free definition of the concept",
			},
			"intuition": map[string]any{
				"type":        "string",
				"description": "Real-world analogy capturing the intuition",
			},
			"steps": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"description": "Numbered step-by-step explanation",
			},
			"diagram": map[string]any{
				"type":        "string",
				"description": "Small ASCII diagram illustrating the mechanism",
			},
			"code": map[string]any{
				"type":        "string",
				"description": "Short idiomatic code example",
			},
			"time_complexity": map[string]any{
				"type":        "string",
				"description": "Big-O time complexity with one sentence of justification",
			},
			"space_complexity": map[string]any{
				"type":        "string",
				"description": "Big-O space complexity with one sentence of justification",
			},
			"takeaways": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"description": "2-4 key takeaways",
			},
		},
		"required": []any{
			"acknowledgement", "definition", "intuition", "steps",
			"diagram", "code", "time_complexity", "space_complexity",
			"takeaways",
		},
		"additionalProperties": false,
	},
}
