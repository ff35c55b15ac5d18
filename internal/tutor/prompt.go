package tutor

import (
	"fmt"
	"strings"

	"github.com/attunetutor/attune/internal/adapt"
	"github.com/attunetutor/attune/internal/emotion"
)

const tutorSystemPrompt = `You are an adaptive tutor for data structures and algorithms. You adjust your tone to the student's current emotional state and always answer with the same structured teaching layout: acknowledgement, definition, intuition, steps, diagram, code, complexity, takeaways.`

// tones maps the learner's emotional state to the delivery style the
// tutor should adopt.
var tones = map[emotion.Emotion]string{
	emotion.Confused:   "calm, slow, reassuring",
	emotion.Frustrated: "supportive, motivating",
	emotion.Neutral:    "clear, structured",
	emotion.Confident:  "challenging, interview-focused",
}

// toneFor returns the delivery style for an emotion. Emotions with no
// dedicated tone get the neutral one.
func toneFor(e emotion.Emotion) string {
	if tone, ok := tones[e]; ok {
		return tone
	}
	return tones[emotion.Neutral]
}

func depthInstruction(d adapt.Depth) string {
	switch d {
	case adapt.DepthSimplified:
		return "The student is struggling with the current explanation. Simplify: use shorter sentences, a more concrete analogy, and smaller steps. Do not introduce new terminology."
	case adapt.DepthAlternate:
		return "The student has asked for this concept to be explained again. Take a completely different approach from a standard treatment: new analogy, new example, different angle of attack."
	default:
		return "Explain at the standard depth for someone learning this topic."
	}
}

func buildTurnUserMessage(input TurnInput) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("Topic: %s\n", input.Topic))
	if input.Question != "" {
		b.WriteString(fmt.Sprintf("Student question: %s\n", input.Question))
	}
	b.WriteString(fmt.Sprintf("Student emotion: %s\n", input.Emotion))
	b.WriteString(fmt.Sprintf("Tutor tone: %s\n", toneFor(input.Emotion)))

	b.WriteString("\n")
	b.WriteString(depthInstruction(input.Directive.Depth))

	b.WriteString(`

Instructions:
1. Open with a one-sentence acknowledgement matched to the student's emotional state.
2. Define the concept precisely but without jargon the student has not seen.
3. Give one real-world analogy that captures the intuition.
4. Explain step by step with numbered steps.
5. Include a small ASCII diagram illustrating the mechanism.
6. Show a short idiomatic code example.
7. State time and space complexity in big-O notation with one sentence of justification each.
8. Close with 2-4 key takeaways.
Use plain ASCII text throughout. No LaTeX, no Unicode math symbols.`)

	return b.String()
}
