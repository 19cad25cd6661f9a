// Package waitlist keeps early-access signups in a flat JSON file.
package waitlist

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/sirupsen/logrus"
)

// ErrDuplicate is returned when the email or handle is already on the list.
var ErrDuplicate = errors.New("email or X handle already on the waitlist")

// ValidationError reports a malformed signup.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

var (
	emailPattern  = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	handlePattern = regexp.MustCompile(`^[a-zA-Z0-9_]{1,15}$`)
)

// Entry is one signup.
type Entry struct {
	ID        string    `json:"id"`
	XHandle   string    `json:"xHandle"`
	Email     string    `json:"email"`
	Timestamp time.Time `json:"timestamp"`
}

// Store appends entries to a JSON array on disk. Writes are serialized.
type Store struct {
	path string
	mu   sync.Mutex
	now  func() time.Time
}

// NewStore creates a store backed by the file at path. The file is created on first write.
func NewStore(path string) *Store {
	return &Store{path: path, now: time.Now}
}

// Validate checks the raw fields and returns them normalized: "@handle" and a lowercase email.
func Validate(xHandle, email string) (string, string, error) {
	xHandle = strings.TrimSpace(xHandle)
	email = strings.TrimSpace(email)
	if xHandle == "" {
		return "", "", &ValidationError{Message: "X handle is required"}
	}
	if email == "" {
		return "", "", &ValidationError{Message: "Email is required"}
	}
	if !emailPattern.MatchString(email) {
		return "", "", &ValidationError{Message: "Invalid email format"}
	}
	handle := strings.TrimPrefix(xHandle, "@")
	if !handlePattern.MatchString(handle) {
		return "", "", &ValidationError{Message: "Invalid X handle format (1-15 characters, alphanumeric and underscores only)"}
	}
	return "@" + handle, strings.ToLower(email), nil
}

// Add validates and records a signup.
func (s *Store) Add(xHandle, email string) (Entry, error) {
	handle, email, err := Validate(xHandle, email)
	if err != nil {
		return Entry{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.read()
	if err != nil {
		return Entry{}, err
	}
	for _, e := range entries {
		if strings.EqualFold(e.Email, email) || strings.EqualFold(e.XHandle, handle) {
			return Entry{}, ErrDuplicate
		}
	}

	entry := Entry{
		ID:        "wl_" + strings.ToLower(ulid.Make().String()),
		XHandle:   handle,
		Email:     email,
		Timestamp: s.now().UTC(),
	}
	if err := s.write(append(entries, entry)); err != nil {
		return Entry{}, err
	}

	logrus.Infof("[Waitlist] New signup: %s (%s)", handle, email)
	return entry, nil
}

// Count returns the number of signups.
func (s *Store) Count() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entries, err := s.read()
	if err != nil {
		return 0, err
	}
	return len(entries), nil
}

// read treats a missing file as an empty list. A file that does not decode is an error,
// so a later write never replaces the signups it holds.
func (s *Store) read() ([]Entry, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read waitlist: %w", err)
	}
	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		logrus.Errorf("Waitlist file '%s' is invalid: %v", s.path, err)
		return nil, fmt.Errorf("decode waitlist %s: %w", s.path, err)
	}
	return entries, nil
}

func (s *Store) write(entries []Entry) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create waitlist dir: %w", err)
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("encode waitlist: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write waitlist: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace waitlist: %w", err)
	}
	return nil
}
