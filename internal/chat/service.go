// Package chat implements the builder chat endpoint: prompt assembly, the provider call and
// reading the reply into a message and an optional file patch.
package chat

import (
	"context"
	"errors"
	"net/http"

	"github.com/JackVanta/VantaSDK/internal/llm"
	"github.com/JackVanta/VantaSDK/internal/models"
	"github.com/JackVanta/VantaSDK/internal/prompt"
	"github.com/JackVanta/VantaSDK/internal/reply"
	"github.com/sirupsen/logrus"
)

const (
	notConfiguredError   = "OpenAI API key not configured"
	notConfiguredMessage = "Sorry, the AI assistant is not configured. Please add OPENAI_API_KEY to your environment variables."
	genericError         = "Failed to process chat request"
	genericMessage       = "Sorry, something went wrong. Please try again."
	emptyCompletion      = "No response generated."
)

// Options are the per-request limits applied by the service.
type Options struct {
	HistoryLimit int
	ContextChars int
	MaxTokens    int
	Temperature  float32
}

// DefaultOptions returns the limits used when none are configured.
func DefaultOptions() Options {
	return Options{
		HistoryLimit: 10,
		ContextChars: prompt.DefaultContextChars,
		MaxTokens:    4000,
		Temperature:  0.7,
	}
}

// Service answers chat requests. A nil client means no provider is configured.
type Service struct {
	client llm.Client
	opts   Options
}

// NewService creates a Service. Zero-valued limits take their defaults; Temperature is used
// as given, so start from DefaultOptions to get the default.
func NewService(client llm.Client, opts Options) *Service {
	def := DefaultOptions()
	if opts.HistoryLimit <= 0 {
		opts.HistoryLimit = def.HistoryLimit
	}
	if opts.ContextChars <= 0 {
		opts.ContextChars = def.ContextChars
	}
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = def.MaxTokens
	}
	return &Service{client: client, opts: opts}
}

// Configured reports whether a provider client is available.
func (s *Service) Configured() bool {
	return s.client != nil
}

// Handle answers one chat request and returns the response body with its HTTP status.
func (s *Service) Handle(ctx context.Context, req models.ChatRequest) (models.ChatResponse, int) {
	if s.client == nil {
		return models.ChatResponse{
			Success:          false,
			Error:            notConfiguredError,
			AssistantMessage: notConfiguredMessage,
		}, http.StatusInternalServerError
	}

	messages := s.buildMessages(req)
	completion, err := s.client.Complete(ctx, messages, llm.Options{
		MaxTokens:   s.opts.MaxTokens,
		Temperature: s.opts.Temperature,
	})
	if err != nil {
		logrus.Errorf("Builder chat API error: %v", err)
		return errorResponse(err)
	}

	text := completion.Text
	if text == "" {
		text = emptyCompletion
	}
	parsed := reply.Parse(text)

	mode := req.Mode
	if mode == "" {
		mode = models.ModeChat
	}

	logrus.WithFields(logrus.Fields{
		"mode":   mode,
		"format": parsed.Format,
		"files":  len(parsed.Files),
		"model":  completion.Model,
	}).Info("Chat request completed")

	return models.ChatResponse{
		Success:          true,
		AssistantMessage: parsed.Message,
		Patch:            parsed.Patch(),
		Meta: &models.Meta{
			Model: completion.Model,
			Usage: completion.Usage,
			Mode:  mode,
		},
	}, http.StatusOK
}

// Failure is the response for a request that could not be read at all.
func Failure() (models.ChatResponse, int) {
	return models.ChatResponse{
		Success:          false,
		Error:            genericError,
		AssistantMessage: genericMessage,
	}, http.StatusInternalServerError
}

func (s *Service) buildMessages(req models.ChatRequest) []models.Message {
	history := req.Messages
	if len(history) > s.opts.HistoryLimit {
		history = history[len(history)-s.opts.HistoryLimit:]
	}
	messages := make([]models.Message, 0, len(history)+1)
	messages = append(messages, models.Message{
		Role:    models.RoleSystem,
		Content: prompt.SystemPrompt(req.Context, req.Mode, s.opts.ContextChars),
	})
	return append(messages, history...)
}

func errorResponse(err error) (models.ChatResponse, int) {
	var providerErr *llm.ProviderError
	if errors.As(err, &providerErr) {
		status := providerErr.StatusCode
		if status == 0 {
			status = http.StatusInternalServerError
		}
		return models.ChatResponse{
			Success:          false,
			Error:            providerErr.Message,
			AssistantMessage: "API Error: " + providerErr.Message,
		}, status
	}
	return Failure()
}

// Health describes the endpoint without calling the provider.
func (s *Service) Health() models.HealthResponse {
	message := "Vanta Builder Chat API - Ready"
	if !s.Configured() {
		message = "Vanta Builder Chat API - OpenAI key not configured"
	}
	return models.HealthResponse{
		Status:     "ok",
		Configured: s.Configured(),
		Message:    message,
		Endpoints: map[string]any{
			"POST /api/builder/chat": map[string]any{
				"description": "Send a chat message to the AI assistant",
				"body": map[string]any{
					"messages": "Array<{role, content}> - Chat history",
					"context": map[string]any{
						"files":      "Record<string, string> - Project files map",
						"activeFile": "string (optional) - Currently open file path",
					},
					"mode": "string (optional) - chat | generate | fix | refactor | explain",
				},
			},
		},
	}
}
