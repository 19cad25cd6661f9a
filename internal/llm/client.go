// Package llm holds the chat-completion providers used by the builder.
package llm

import (
	"context"
	"errors"
	"fmt"

	"github.com/JackVanta/VantaSDK/internal/models"
)

// ErrNotConfigured is returned by New when the selected provider has no credential or host.
var ErrNotConfigured = errors.New("llm provider not configured")

// Client sends one conversation to a chat-completion provider.
type Client interface {
	Complete(ctx context.Context, messages []models.Message, opts Options) (*Completion, error)
	Model() string
}

// Options are the decoding parameters for one completion. Zero values are left to the provider.
type Options struct {
	MaxTokens   int
	Temperature float32
}

// Completion is the first choice returned by the provider.
type Completion struct {
	Text  string
	Model string
	Usage *models.Usage
}

// ProviderError is an error reported by the provider itself, as opposed to a transport failure.
type ProviderError struct {
	StatusCode int
	Message    string
}

func (e *ProviderError) Error() string {
	if e.StatusCode == 0 {
		return e.Message
	}
	return fmt.Sprintf("provider returned %d: %s", e.StatusCode, e.Message)
}
