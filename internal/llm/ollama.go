package llm

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/JackVanta/VantaSDK/internal/models"
	"github.com/JexSrs/go-ollama"
	"github.com/sirupsen/logrus"
)

// OllamaClient runs completions against a local Ollama server.
// Ollama reports no token usage and the decoding options are left to the model defaults.
type OllamaClient struct {
	client *ollama.Ollama
	model  string
}

// NewOllamaClient creates a client for the Ollama server at host.
func NewOllamaClient(host, model string) (*OllamaClient, error) {
	ollamaURL, err := url.Parse(host)
	if err != nil {
		return nil, fmt.Errorf("invalid Ollama URL: %w", err)
	}

	logrus.Infof("Using Ollama client for host: %s", host)
	logrus.Infof("Using Ollama model: %s", model)

	return &OllamaClient{
		client: ollama.New(*ollamaURL),
		model:  model,
	}, nil
}

func (oc *OllamaClient) Model() string {
	return oc.model
}

type generateResult struct {
	text string
	err  error
}

// Complete implements Client. System messages become the generate system prompt and the
// rest of the conversation is rendered as a transcript.
func (oc *OllamaClient) Complete(ctx context.Context, messages []models.Message, _ Options) (*Completion, error) {
	system, prompt := renderTranscript(messages)
	logrus.Debugf("Sending prompt of %d characters to Ollama", len(prompt))

	done := make(chan generateResult, 1)
	go func() {
		text, err := oc.generate(system, prompt)
		done <- generateResult{text: text, err: err}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-done:
		if res.err != nil {
			return nil, res.err
		}
		return &Completion{Text: res.text, Model: oc.model}, nil
	}
}

func (oc *OllamaClient) generate(system, prompt string) (string, error) {
	res, err := oc.client.Generate(
		oc.client.Generate.WithModel(oc.model),
		oc.client.Generate.WithSystem(system),
		oc.client.Generate.WithPrompt(prompt),
	)
	if err != nil {
		return "", fmt.Errorf("ollama generate: %w", err)
	}
	if !res.Done {
		return "", errors.New("ollama generate did not complete (unexpected streaming response)")
	}
	logrus.Debug("Response received from Ollama.")
	return res.Response, nil
}

func renderTranscript(messages []models.Message) (string, string) {
	var system []string
	var prompt strings.Builder
	for _, msg := range messages {
		switch msg.Role {
		case models.RoleSystem:
			system = append(system, msg.Content)
		case models.RoleAssistant:
			prompt.WriteString("Assistant: " + msg.Content + "\n\n")
		default:
			prompt.WriteString("User: " + msg.Content + "\n\n")
		}
	}
	prompt.WriteString("Assistant:")
	return strings.Join(system, "\n\n"), prompt.String()
}
