package project

import (
	"sync"

	"github.com/JackVanta/VantaSDK/internal/models"
	"github.com/sirupsen/logrus"
)

// Store serializes state transitions so each event sees the result of the previous one.
type Store struct {
	mu    sync.Mutex
	state State
}

// NewStore creates a store holding st.
func NewStore(st State) *Store {
	return &Store{state: st.Clone()}
}

// NewDefaultStore creates a store opened on the default template.
func NewDefaultStore() (*Store, error) {
	st, err := CreateNew(DefaultTemplate)
	if err != nil {
		return nil, err
	}
	return NewStore(st), nil
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Context returns the project as sent with a chat request.
func (s *Store) Context() *models.ProjectContext {
	s.mu.Lock()
	defer s.mu.Unlock()
	return &models.ProjectContext{
		Files:      s.state.Files.Clone(),
		ActiveFile: s.state.ActiveFile,
	}
}

// Tree derives the file tree of the current project.
func (s *Store) Tree() []models.FileTreeItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return DeriveFileTree(s.state.Files)
}

func (s *Store) update(fn func(State) State) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = fn(s.state)
	return s.state.Clone()
}

// ApplyPatch applies a patch and reports what it changed.
func (s *Store) ApplyPatch(patch *models.Patch) (State, Summary) {
	var summary Summary
	st := s.update(func(st State) State {
		summary = Summarize(st.Files, patch)
		return ApplyPatch(st, patch)
	})
	if len(summary.Files) > 0 {
		logrus.WithField("active", st.ActiveFile).Infof("Patch applied: %s", summary)
	}
	return st, summary
}

// CreateNew replaces the project with a template.
func (s *Store) CreateNew(template string) (State, error) {
	next, err := CreateNew(template)
	if err != nil {
		return s.Snapshot(), err
	}
	logrus.Infof("Created new project from template '%s'", template)
	return s.update(func(State) State { return next }), nil
}

// Upload replaces the project with uploaded files. An empty upload leaves the state unchanged.
func (s *Store) Upload(files models.ProjectFiles) (State, error) {
	next, err := Upload(files)
	if err != nil {
		return s.Snapshot(), err
	}
	logrus.Infof("Project uploaded with %d files, opened '%s'", len(files), next.ActiveFile)
	return s.update(func(State) State { return next }), nil
}

// SelectFile makes path the active file.
func (s *Store) SelectFile(path string) State {
	return s.update(func(st State) State { return SelectFile(st, path) })
}

// ActivateTab focuses a tab.
func (s *Store) ActivateTab(id string) State {
	return s.update(func(st State) State { return ActivateTab(st, id) })
}

// CloseTab closes a tab.
func (s *Store) CloseTab(id string) State {
	return s.update(func(st State) State { return CloseTab(st, id) })
}
