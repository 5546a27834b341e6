package llm

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/roboco-io/deckstream/internal/config"
)

// Provider names understood by NewFromConfig.
const (
	ProviderAnthropic = "anthropic"
	ProviderOpenAI    = "openai"
	ProviderGemini    = "gemini"
	ProviderOllama    = "ollama"
)

// Names lists the configurable providers.
var Names = []string{ProviderAnthropic, ProviderOpenAI, ProviderGemini, ProviderOllama}

// NewFromConfig builds the named provider from its configuration entry.
func NewFromConfig(name string, p config.Provider, log zerolog.Logger) (Provider, error) {
	switch name {
	case ProviderAnthropic:
		return NewAnthropic(p.APIKey, p.Model, p.MaxTokens, p.Endpoint, log), nil
	case ProviderOpenAI:
		return NewOpenAI(p.APIKey, p.Model, p.MaxTokens, p.Endpoint, log), nil
	case ProviderGemini:
		return NewGemini(p.APIKey, p.Model, p.MaxTokens, log), nil
	case ProviderOllama:
		endpoint := config.GetEnvOrDefault("OLLAMA_HOST", p.Endpoint)
		return NewOllama(endpoint, p.Model, p.MaxTokens, log), nil
	default:
		return nil, fmt.Errorf("unknown provider: %s (supported: %s)", name, strings.Join(Names, ", "))
	}
}

// DetectProviderFromModel guesses the provider serving a model name. An
// empty name selects anthropic.
func DetectProviderFromModel(model string) string {
	m := strings.ToLower(model)
	switch {
	case m == "", strings.HasPrefix(m, "claude"):
		return ProviderAnthropic
	case strings.HasPrefix(m, "gpt"), strings.HasPrefix(m, "o1"), strings.HasPrefix(m, "o3"), strings.HasPrefix(m, "o4"):
		return ProviderOpenAI
	case strings.HasPrefix(m, "gemini"):
		return ProviderGemini
	default:
		return ProviderOllama
	}
}
