package llm

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/attunetutor/attune/internal/store"
)

// NewProvider creates a base Provider from configuration, wrapped with
// audit logging. Retry is layered separately by callers that want it:
// the tutoring service retries, the vision gateway does not.
func NewProvider(ctx context.Context, cfg Config, audit store.ModelRequestRepo, logger *slog.Logger) (Provider, error) {
	var base Provider
	var err error

	switch cfg.Provider {
	case "anthropic":
		base, err = NewAnthropicProvider(cfg.Anthropic)
	case "openai":
		base, err = NewOpenAIProvider(cfg.OpenAI)
	case "gemini":
		base, err = NewGeminiProvider(ctx, cfg.Gemini)
	case "mock":
		return NewMockProvider(), nil
	default:
		return nil, fmt.Errorf("unknown model provider: %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	return WithAudit(base, audit, logger), nil
}
