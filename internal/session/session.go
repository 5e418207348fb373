// Package session keeps per-visitor state on the server, referenced from the
// client by a signed cookie.
package session

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by a Store when the id is unknown or expired
var ErrNotFound = errors.New("session not found")

// Flash categories
const (
	FlashSuccess = "success"
	FlashDanger  = "danger"
	FlashWarning = "warning"
	FlashInfo    = "info"
)

// Flash is a one-shot notification shown on the next rendered page
type Flash struct {
	Category string `json:"category"`
	Message  string `json:"message"`
}

// Session is the server-side state of one visitor.
// UserID is zero while nobody is logged in.
type Session struct {
	ID        string
	UserID    uint
	Flashes   []Flash
	CreatedAt time.Time

	// dirty is set by every mutation since the session was loaded
	dirty bool
	// stored is set once the session exists in the Store
	stored bool
}

// Store persists sessions by id
type Store interface {
	Get(ctx context.Context, id string) (*Session, error)
	Save(ctx context.Context, s *Session) error
	// Touch extends the lifetime of a stored session without rewriting it
	Touch(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}

// IsAuthenticated reports whether a user is logged in on this session
func (s *Session) IsAuthenticated() bool {
	return s.UserID != 0
}

// Login binds the session to userID
func (s *Session) Login(userID uint) {
	s.UserID = userID
	s.dirty = true
}

// Logout drops the user binding. Safe to call on anonymous sessions.
func (s *Session) Logout() {
	if s.UserID != 0 {
		s.UserID = 0
		s.dirty = true
	}
}

// AddFlash queues a notification
func (s *Session) AddFlash(category, message string) {
	s.Flashes = append(s.Flashes, Flash{Category: category, Message: message})
	s.dirty = true
}

// TakeFlashes returns and clears queued notifications
func (s *Session) TakeFlashes() []Flash {
	out := s.Flashes
	if len(out) > 0 {
		s.Flashes = nil
		s.dirty = true
	}
	return out
}

// Modified reports whether the session changed since it was loaded
func (s *Session) Modified() bool {
	return s.dirty
}

// empty sessions carry nothing worth keeping on the server
func (s *Session) empty() bool {
	return s.UserID == 0 && len(s.Flashes) == 0
}

func (s *Session) clone() *Session {
	cp := *s
	if s.Flashes != nil {
		cp.Flashes = append([]Flash(nil), s.Flashes...)
	}
	return &cp
}
