// Package builder runs one builder session: the chat transcript and the project it edits.
package builder

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/JackVanta/VantaSDK/internal/models"
	"github.com/JackVanta/VantaSDK/internal/project"
	"github.com/oklog/ulid/v2"
	"github.com/sirupsen/logrus"
)

// ErrRequestInFlight is returned by Send while a previous request is still outstanding.
var ErrRequestInFlight = errors.New("a chat request is already in flight")

// WelcomeMessage opens every transcript.
const WelcomeMessage = "Welcome to Vanta Builder! I can help you generate, refactor, and patch code. Try asking me to create a new component or explain existing code."

// Sender delivers a chat request, in process or to a remote server.
// An unsuccessful response is reported as an error carrying its message.
type Sender interface {
	Send(ctx context.Context, req models.ChatRequest) (models.ChatResponse, error)
}

// Turn is the outcome of one Send.
type Turn struct {
	User      models.ChatMessage
	Assistant models.ChatMessage
	Patch     *models.Patch
	Summary   project.Summary
	Err       error
}

// Session owns the transcript and the project store of one builder.
type Session struct {
	store  *project.Store
	sender Sender
	now    func() time.Time

	mu         sync.Mutex
	transcript []models.ChatMessage
	inFlight   bool
}

// NewSession starts a session on store with the welcome message in the transcript.
func NewSession(store *project.Store, sender Sender) *Session {
	s := &Session{
		store:  store,
		sender: sender,
		now:    time.Now,
	}
	s.transcript = []models.ChatMessage{s.message(models.RoleAssistant, WelcomeMessage)}
	return s
}

func (s *Session) message(role models.Role, content string) models.ChatMessage {
	return models.ChatMessage{
		ID:        ulid.Make().String(),
		Role:      role,
		Content:   content,
		Timestamp: s.now(),
	}
}

// Transcript returns a copy of the messages so far.
func (s *Session) Transcript() []models.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.ChatMessage(nil), s.transcript...)
}

// Busy reports whether a request is outstanding.
func (s *Session) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inFlight
}

// Store returns the project store of the session.
func (s *Session) Store() *project.Store {
	return s.store
}

// Send posts a user message with the current project and records the reply.
//
// Empty text with a quick action sends "<action> the current code"; empty text with no
// action sends nothing and returns a nil Turn. The user message is appended first, then the
// reply, then any patch is applied. A failed request becomes an assistant message holding
// the error text and is reported in Turn.Err.
func (s *Session) Send(ctx context.Context, text string, action models.Mode) (*Turn, error) {
	text = strings.TrimSpace(text)
	if text == "" && action != "" {
		text = string(action) + " the current code"
	}
	if text == "" {
		return nil, nil
	}

	s.mu.Lock()
	if s.inFlight {
		s.mu.Unlock()
		return nil, ErrRequestInFlight
	}
	s.inFlight = true
	user := s.message(models.RoleUser, text)
	s.transcript = append(s.transcript, user)
	history := make([]models.Message, len(s.transcript))
	for i, m := range s.transcript {
		history[i] = models.Message{Role: m.Role, Content: m.Content}
	}
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.inFlight = false
		s.mu.Unlock()
	}()

	mode := action
	if mode == "" {
		mode = models.ModeChat
	}
	resp, err := s.sender.Send(ctx, models.ChatRequest{
		Messages: history,
		Context:  s.store.Context(),
		Mode:     mode,
	})

	turn := &Turn{User: user}
	content := resp.AssistantMessage
	if err != nil {
		logrus.Errorf("Assistant error: %v", err)
		turn.Err = err
		content = err.Error()
	}

	s.mu.Lock()
	turn.Assistant = s.message(models.RoleAssistant, content)
	s.transcript = append(s.transcript, turn.Assistant)
	s.mu.Unlock()

	if err == nil && resp.Patch != nil && len(resp.Patch.Files) > 0 {
		turn.Patch = resp.Patch
		_, turn.Summary = s.store.ApplyPatch(resp.Patch)
	}
	return turn, nil
}

// Upload replaces the project with uploaded files.
func (s *Session) Upload(files models.ProjectFiles) (project.State, error) {
	return s.store.Upload(files)
}

// CreateNew replaces the project with a template.
func (s *Session) CreateNew(template string) (project.State, error) {
	return s.store.CreateNew(template)
}

// SelectFile opens or focuses a file.
func (s *Session) SelectFile(path string) project.State {
	return s.store.SelectFile(path)
}

// CloseTab closes a tab.
func (s *Session) CloseTab(id string) project.State {
	return s.store.CloseTab(id)
}

// ActivateTab focuses a tab.
func (s *Session) ActivateTab(id string) project.State {
	return s.store.ActivateTab(id)
}

// State returns the current project state.
func (s *Session) State() project.State {
	return s.store.Snapshot()
}
