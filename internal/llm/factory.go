package llm

import (
	"fmt"
	"strings"

	"github.com/JackVanta/VantaSDK/config"
)

// New builds the client selected by the provider configuration.
// It returns ErrNotConfigured when the provider lacks its credential or host, so callers can
// run without a model and report it.
func New(cfg config.ProviderConfig) (Client, error) {
	switch strings.ToLower(cfg.Name) {
	case "", "openai":
		if cfg.APIKey == "" {
			return nil, ErrNotConfigured
		}
		return NewOpenAIClient(cfg.APIKey, cfg.BaseURL, cfg.Model, cfg.Timeout), nil
	case "ollama":
		if cfg.OllamaHost == "" {
			return nil, ErrNotConfigured
		}
		client, err := NewOllamaClient(cfg.OllamaHost, cfg.Model)
		if err != nil {
			return nil, err
		}
		return client, nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s (supported: openai, ollama)", cfg.Name)
	}
}
