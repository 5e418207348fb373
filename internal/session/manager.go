package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"member-portal/internal/auth"

	"github.com/google/uuid"
)

// DefaultCookieName is the cookie carrying the signed session reference
const DefaultCookieName = "portal_session"

// Options configures a Manager
type Options struct {
	CookieName string
	TTL        time.Duration
	Secure     bool
}

// Manager ties the session store to the signed cookie
type Manager struct {
	store  Store
	signer *auth.TokenSigner
	opts   Options
}

// NewManager creates a Manager
func NewManager(store Store, signer *auth.TokenSigner, opts Options) *Manager {
	if opts.CookieName == "" {
		opts.CookieName = DefaultCookieName
	}
	return &Manager{store: store, signer: signer, opts: opts}
}

// New returns a fresh anonymous session that is not stored yet
func (m *Manager) New() *Session {
	return &Session{ID: uuid.NewString(), CreatedAt: time.Now()}
}

// Load resolves the request's session. A missing, forged or expired cookie
// yields a fresh session; only store failures are returned as errors.
func (m *Manager) Load(r *http.Request) (*Session, error) {
	cookie, err := r.Cookie(m.opts.CookieName)
	if err != nil || cookie.Value == "" {
		return m.New(), nil
	}

	id, err := m.signer.Verify(cookie.Value)
	if err != nil {
		return m.New(), nil
	}

	s, err := m.store.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return m.New(), nil
		}
		return m.New(), fmt.Errorf("load session: %w", err)
	}
	s.dirty = false
	s.stored = true
	return s, nil
}

// Commit brings the store and the cookie in line with s. A session with a
// user or pending flashes is saved (or only touched when unchanged) and its
// cookie reissued; one that no longer holds anything is dropped together
// with its cookie. Anonymous visitors with no state get no cookie and no
// store entry. Commit must run before the response header is written.
func (m *Manager) Commit(ctx context.Context, w http.ResponseWriter, s *Session) error {
	if s.empty() {
		if !s.stored {
			return nil
		}
		if err := m.store.Delete(ctx, s.ID); err != nil {
			return fmt.Errorf("drop session: %w", err)
		}
		s.stored = false
		s.dirty = false
		m.clearCookie(w)
		return nil
	}

	switch {
	case s.dirty || !s.stored:
		if err := m.Save(ctx, s); err != nil {
			return err
		}
	default:
		if err := m.store.Touch(ctx, s.ID); err != nil {
			if !errors.Is(err, ErrNotFound) {
				return fmt.Errorf("touch session: %w", err)
			}
			// expired or purged while the request ran
			if err := m.Save(ctx, s); err != nil {
				return err
			}
		}
	}
	return m.WriteCookie(w, s)
}

// WriteCookie issues the signed cookie for s
func (m *Manager) WriteCookie(w http.ResponseWriter, s *Session) error {
	token, err := m.signer.Sign(s.ID, m.opts.TTL)
	if err != nil {
		return fmt.Errorf("sign session cookie: %w", err)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     m.opts.CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(m.opts.TTL.Seconds()),
		HttpOnly: true,
		Secure:   m.opts.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

func (m *Manager) clearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     m.opts.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.opts.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Save persists s in the store
func (m *Manager) Save(ctx context.Context, s *Session) error {
	if err := m.store.Save(ctx, s); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	s.dirty = false
	s.stored = true
	return nil
}

// Renew moves s to a new id, so an id handed out before login cannot be
// reused afterwards. The new cookie is issued by the next Commit.
func (m *Manager) Renew(ctx context.Context, s *Session) error {
	if s.stored {
		if err := m.store.Delete(ctx, s.ID); err != nil {
			return fmt.Errorf("drop old session: %w", err)
		}
	}
	s.ID = uuid.NewString()
	s.stored = false
	s.dirty = true
	return nil
}
