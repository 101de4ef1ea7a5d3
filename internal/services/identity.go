package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"golang.org/x/oauth2"

	"github.com/desertthunder/sangeet/internal/shared"
)

// Session is the signed-in user persisted between CLI invocations.
type Session struct {
	UserID string        `json:"user_id"`
	Name   string        `json:"name"`
	Email  string        `json:"email,omitempty"`
	Token  *oauth2.Token `json:"token,omitempty"`
}

// SessionIdentity implements [Identity] from a JSON session file.
type SessionIdentity struct {
	path string
}

var _ Identity = (*SessionIdentity)(nil)

// NewSessionIdentity creates a [SessionIdentity] reading the session file at path.
func NewSessionIdentity(path string) *SessionIdentity {
	return &SessionIdentity{path: path}
}

// Path returns the session file location.
func (i *SessionIdentity) Path() string { return i.path }

// CurrentUserID returns the user id stored in the session file.
func (i *SessionIdentity) CurrentUserID(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	s, err := i.Load()
	if err != nil {
		return "", err
	}
	return s.UserID, nil
}

// Load reads the session file. A missing or incomplete session wraps [shared.ErrNotAuthenticated].
func (i *SessionIdentity) Load() (*Session, error) {
	data, err := os.ReadFile(i.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: run 'sangeet auth login' first", shared.ErrNotAuthenticated)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read session: %w", err)
	}

	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse session: %w", err)
	}
	if s.UserID == "" {
		return nil, fmt.Errorf("%w: session has no user id", shared.ErrNotAuthenticated)
	}
	return &s, nil
}

// Save writes the session file with owner-only permissions.
func (i *SessionIdentity) Save(s *Session) error {
	if s == nil || s.UserID == "" {
		return fmt.Errorf("%w: session requires a user id", shared.ErrInvalidArgument)
	}

	if err := os.MkdirAll(filepath.Dir(i.path), 0700); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	if err := os.WriteFile(i.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write session: %w", err)
	}
	return nil
}

// Clear removes the session file. Clearing a missing session is not an error.
func (i *SessionIdentity) Clear() error {
	if err := os.Remove(i.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove session: %w", err)
	}
	return nil
}
