package config

import "fmt"

type Provider string

const (
	ProviderOpenAI    Provider = "openai"
	ProviderGemini    Provider = "gemini"
	ProviderAnthropic Provider = "anthropic"
)

// Providers lists every supported provider name for error output.
var Providers = []Provider{ProviderOpenAI, ProviderGemini, ProviderAnthropic}

// Model represents a model provider configuration. ModelName is the
// provider's own identifier (e.g. "gpt-4o"), passed through untranslated.
type Model struct {
	Name        string   `hcl:"name,label"`
	Provider    Provider `hcl:"provider"`
	ModelName   string   `hcl:"model"`
	APIKey      string   `hcl:"api_key,optional"`
	MaxTokens   int      `hcl:"max_tokens,optional"`
	Temperature float64  `hcl:"temperature,optional"`
}

func (m *Model) Validate() error {
	supported := false
	for _, p := range Providers {
		if m.Provider == p {
			supported = true
			break
		}
	}
	if !supported {
		return fmt.Errorf("Unsupported provider; Provider '%s' is not supported. Supported providers: %v", m.Provider, Providers)
	}

	if m.ModelName == "" {
		return fmt.Errorf("Missing model; Model block must name the provider model to call")
	}

	if m.MaxTokens < 0 {
		return fmt.Errorf("Invalid max_tokens; max_tokens cannot be negative")
	}

	if m.Temperature < 0 {
		return fmt.Errorf("Invalid temperature; temperature cannot be negative")
	}

	return nil
}
