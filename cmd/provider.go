package cmd

import (
	"context"
	"fmt"
	"os"

	"pagepilot/config"
	"pagepilot/llm"
)

// selectModel resolves a model block by name, defaulting to the first
// declared block when no name is given.
func selectModel(cfg *config.Config, name string) (*config.Model, error) {
	if name == "" {
		return cfg.DefaultModel()
	}
	return cfg.ModelByName(name)
}

// newProvider builds the model client for a declared model block. The
// returned func releases the client; gemini holds a connection, the
// others are plain HTTP clients.
func newProvider(ctx context.Context, m *config.Model) (llm.Provider, func(), error) {
	key := m.APIKey
	if key == "" {
		key = os.Getenv(apiKeyEnv(m.Provider))
	}
	if key == "" {
		return nil, nil, fmt.Errorf("model '%s': no api_key configured and %s is not set", m.Name, apiKeyEnv(m.Provider))
	}

	switch m.Provider {
	case config.ProviderOpenAI:
		return llm.NewOpenAIProvider(key), func() {}, nil
	case config.ProviderAnthropic:
		return llm.NewAnthropicProvider(key), func() {}, nil
	case config.ProviderGemini:
		p, err := llm.NewGeminiProvider(ctx, key)
		if err != nil {
			return nil, nil, fmt.Errorf("model '%s': %w", m.Name, err)
		}
		return p, func() { _ = p.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("model '%s': unsupported provider '%s'", m.Name, m.Provider)
	}
}

func apiKeyEnv(p config.Provider) string {
	switch p {
	case config.ProviderOpenAI:
		return "OPENAI_API_KEY"
	case config.ProviderAnthropic:
		return "ANTHROPIC_API_KEY"
	case config.ProviderGemini:
		return "GEMINI_API_KEY"
	}
	return ""
}
