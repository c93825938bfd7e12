package services

import (
	"context"
	"fmt"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/hobbyhub/internal/models"
	"github.com/desertthunder/hobbyhub/internal/shared"
)

// SessionStore is the full session surface the auth group needs.
type SessionStore interface {
	TokenStore
	SetTokens(access, refresh string) error
	SetUsername(username string) error
}

// AuthService wraps the /auth group: login, logout, identity and manual refresh.
type AuthService struct {
	client    *Client
	store     SessionStore
	refresher *Refresher
	logger    *log.Logger
}

// NewAuthService creates an AuthService on client.
func NewAuthService(client *Client, store SessionStore, refresher *Refresher, logger *log.Logger) *AuthService {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &AuthService{client: client, store: store, refresher: refresher, logger: logger}
}

// Login exchanges credentials for a token pair and stores it.
func (s *AuthService) Login(ctx context.Context, username, password string) (*models.TokenPair, error) {
	if username == "" || password == "" {
		return nil, fmt.Errorf("%w: username and password are required", shared.ErrMissingArgument)
	}

	var pair models.TokenPair
	req := Request{
		Method:    http.MethodPost,
		Path:      "/login/",
		JSON:      map[string]string{"username": username, "password": password},
		Anonymous: true,
	}
	if err := s.client.Do(ctx, req, &pair); err != nil {
		return nil, fmt.Errorf("%w: %s", shared.ErrAuthFailed, Message(err))
	}
	if pair.Access == "" {
		return nil, fmt.Errorf("%w: login response carried no access token", shared.ErrAuthFailed)
	}

	if err := s.store.SetTokens(pair.Access, pair.Refresh); err != nil {
		return nil, err
	}
	if err := s.store.SetUsername(username); err != nil {
		s.logger.Warn("failed to record username", "error", err)
	}
	return &pair, nil
}

// Logout asks the backend to invalidate the refresh token, then purges the local session whatever the backend said.
func (s *AuthService) Logout(ctx context.Context) error {
	if refresh := s.store.RefreshToken(); refresh != "" {
		if err := s.client.Post(ctx, "/logout/", map[string]string{"refresh_token": refresh}, nil); err != nil {
			s.logger.Warn("server logout failed", "error", Message(err))
		}
	}
	return s.store.Clear()
}

// User returns the signed-in identity.
func (s *AuthService) User(ctx context.Context) (*models.User, error) {
	var user models.User
	if err := s.client.Get(ctx, "/user/", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Refresh exchanges the stored refresh token now, outside any failed request.
func (s *AuthService) Refresh(ctx context.Context) (string, error) {
	return s.refresher.Refresh(ctx, s.store.RefreshToken())
}
