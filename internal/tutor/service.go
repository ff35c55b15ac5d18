// Package tutor generates emotion-conditioned teaching turns. The
// adaptation policy decides the depth; this package turns that decision
// plus the learner's emotional state into a structured explanation.
package tutor

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/attunetutor/attune/internal/llm"
)

// Service generates tutoring turns through an LLM provider.
type Service struct {
	provider llm.Provider
	cfg      Config
}

// NewService creates a turn generation service. The provider should
// already carry retry middleware; unlike vision classification, a
// tutoring turn has no natural retry path of its own.
func NewService(provider llm.Provider, cfg Config) *Service {
	return &Service{provider: provider, cfg: cfg}
}

type turnOutput struct {
	Acknowledgement string   `json:"acknowledgement"`
	Definition      string   `json:"definition"`
	Intuition       string   `json:"intuition"`
	Steps           []string `json:"steps"`
	Diagram         string   `json:"diagram"`
	Code            string   `json:"code"`
	TimeComplexity  string   `json:"time_complexity"`
	SpaceComplexity string   `json:"space_complexity"`
	Takeaways       []string `json:"takeaways"`
}

// GenerateTurn produces one explanation for the given input.
func (s *Service) GenerateTurn(ctx context.Context, input TurnInput) (*Explanation, error) {
	ctx = llm.WithPurpose(ctx, "tutor-turn")

	req := llm.Request{
		System: tutorSystemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildTurnUserMessage(input)},
		},
		Schema:      TurnSchema,
		MaxTokens:   s.cfg.MaxTokens,
		Temperature: s.cfg.Temperature,
	}

	resp, err := s.provider.Generate(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("turn generation: %w", err)
	}

	var out turnOutput
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return nil, fmt.Errorf("parse turn response: %w", err)
	}

	return &Explanation{
		Topic:           input.Topic,
		Acknowledgement: out.Acknowledgement,
		Definition:      out.Definition,
		Intuition:       out.Intuition,
		Steps:           out.Steps,
		Diagram:         out.Diagram,
		Code:            out.Code,
		TimeComplexity:  out.TimeComplexity,
		SpaceComplexity: out.SpaceComplexity,
		Takeaways:       out.Takeaways,
		Depth:           input.Directive.Depth,
	}, nil
}
