package session

import (
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/hobbyhub/internal/shared"
	"golang.org/x/oauth2"
)

// Credentials is the persisted form of the session.
type Credentials struct {
	AccessToken  string
	RefreshToken string
	Username     string
}

// Empty reports whether neither token is set.
func (c Credentials) Empty() bool {
	return c.AccessToken == "" && c.RefreshToken == ""
}

// Backend persists [Credentials] between runs.
type Backend interface {
	Load() (Credentials, error)
	Save(creds Credentials) error
	Delete() error
}

// Session holds the current credential pair behind a lock.
type Session struct {
	mu      sync.RWMutex
	creds   Credentials
	backend Backend
	logger  *log.Logger
}

var _ oauth2.TokenSource = (*Session)(nil)

// New loads any stored credentials from backend and returns the session.
//
// A nil backend keeps the pair in memory only.
func New(backend Backend, logger *log.Logger) (*Session, error) {
	if backend == nil {
		backend = &MemoryBackend{}
	}
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	creds, err := backend.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load credentials: %w", err)
	}

	return &Session{creds: creds, backend: backend, logger: logger}, nil
}

// AccessToken returns the current access token or "".
func (s *Session) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.creds.AccessToken
}

// RefreshToken returns the current refresh token or "".
func (s *Session) RefreshToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.creds.RefreshToken
}

// Username returns the name the session was opened with, if known.
func (s *Session) Username() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.creds.Username
}

// Authenticated reports whether an access token is present. It does not validate the token.
func (s *Session) Authenticated() bool {
	return s.AccessToken() != ""
}

// SetTokens replaces the whole pair, as after a login.
func (s *Session) SetTokens(access, refresh string) error {
	return s.update(func(c *Credentials) {
		c.AccessToken = access
		c.RefreshToken = refresh
	})
}

// SetAccessToken replaces only the access token, keeping the refresh token, as after a refresh.
func (s *Session) SetAccessToken(access string) error {
	return s.update(func(c *Credentials) {
		c.AccessToken = access
	})
}

// SetUsername records who the session belongs to.
func (s *Session) SetUsername(username string) error {
	return s.update(func(c *Credentials) {
		c.Username = username
	})
}

// Clear purges both tokens from memory and the backend.
//
// Memory is cleared even when the backend fails so the process never keeps using purged credentials.
func (s *Session) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.creds = Credentials{}
	if err := s.backend.Delete(); err != nil {
		return fmt.Errorf("failed to delete stored credentials: %w", err)
	}
	s.logger.Debug("session cleared")
	return nil
}

// Token implements [oauth2.TokenSource]. It returns [shared.ErrNotAuthenticated] when no access token is held.
func (s *Session) Token() (*oauth2.Token, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.creds.AccessToken == "" {
		return nil, shared.ErrNotAuthenticated
	}
	return &oauth2.Token{
		AccessToken:  s.creds.AccessToken,
		RefreshToken: s.creds.RefreshToken,
		TokenType:    "Bearer",
	}, nil
}

// Snapshot returns a copy of the stored credentials.
func (s *Session) Snapshot() Credentials {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.creds
}

func (s *Session) update(fn func(*Credentials)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.creds
	fn(&next)
	if err := s.backend.Save(next); err != nil {
		return fmt.Errorf("failed to save credentials: %w", err)
	}
	s.creds = next
	return nil
}

// MemoryBackend keeps credentials in process. The zero value is ready to use.
type MemoryBackend struct {
	mu    sync.Mutex
	creds Credentials
}

// NewMemoryBackend returns a backend seeded with creds.
func NewMemoryBackend(creds Credentials) *MemoryBackend {
	return &MemoryBackend{creds: creds}
}

func (m *MemoryBackend) Load() (Credentials, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.creds, nil
}

func (m *MemoryBackend) Save(creds Credentials) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.creds = creds
	return nil
}

func (m *MemoryBackend) Delete() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.creds = Credentials{}
	return nil
}
