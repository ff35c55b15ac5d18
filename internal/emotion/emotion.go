// Package emotion defines the data model for classified learner emotion
// readings: the closed emotion vocabulary, single observations, and the
// session-scoped events built from them.
package emotion

// Emotion is one member of the closed emotion vocabulary.
type Emotion string

const (
	Neutral       Emotion = "neutral"
	Confused      Emotion = "confused"
	Frustrated    Emotion = "frustrated"
	Happy         Emotion = "happy"
	Concentrating Emotion = "concentrating"
	Engaged       Emotion = "engaged"
	Bored         Emotion = "bored"
	Curious       Emotion = "curious"
	Excited       Emotion = "excited"
	Tired         Emotion = "tired"
	Stressed      Emotion = "stressed"
	Confident     Emotion = "confident"
)

// vocabulary is the set of legal emotion values. Anything outside it is
// coerced to Neutral by the classification gateway.
var vocabulary = map[Emotion]bool{
	Neutral:       true,
	Confused:      true,
	Frustrated:    true,
	Happy:         true,
	Concentrating: true,
	Engaged:       true,
	Bored:         true,
	Curious:       true,
	Excited:       true,
	Tired:         true,
	Stressed:      true,
	Confident:     true,
}

// All returns the vocabulary in a stable order, for prompts and validation
// schemas.
func All() []Emotion {
	return []Emotion{
		Neutral, Confused, Frustrated, Happy, Concentrating, Engaged,
		Bored, Curious, Excited, Tired, Stressed, Confident,
	}
}

// Valid reports whether e is a member of the closed vocabulary.
func (e Emotion) Valid() bool {
	return vocabulary[e]
}

// Negative reports whether e counts toward the struggling-learner share
// used by the insight rules.
func (e Emotion) Negative() bool {
	return e == Confused || e == Frustrated || e == Bored
}

// Positive reports whether e counts toward the thriving-learner share
// used by the insight rules.
func (e Emotion) Positive() bool {
	return e == Engaged || e == Curious || e == Confident
}

func (e Emotion) String() string { return string(e) }
