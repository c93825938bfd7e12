package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/desertthunder/hobbyhub/internal/shared"
	"github.com/golang-jwt/jwt/v5"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"
)

// AuthLogin exchanges a username and password for a token pair and stores it.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	if r.session.Authenticated() && !cmd.IsSet("username") {
		return r.writePlain("Already signed in as %s (run `hub auth logout` to switch accounts)\n", r.session.Username())
	}

	reader := bufio.NewReader(r.input)
	username := cmd.String("username")
	if username == "" {
		r.writePlain("Username: ")
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return fmt.Errorf("%w: username", shared.ErrMissingArgument)
		}
		username = strings.TrimSpace(line)
	}

	password, err := r.readPassword(reader, cmd.Bool("password-stdin"))
	if err != nil {
		return err
	}

	r.logger.Info("signing in", "username", username)
	if _, err := r.hub.Auth.Login(ctx, username, password); err != nil {
		return err
	}

	r.logger.Info("authentication successful", "username", username)
	if err := r.theme.Load(ctx); err != nil {
		r.logger.Debug("theme not loaded", "error", err)
	}
	return r.writePlain("✓ Signed in as %s\n", username)
}

// readPassword prompts without echo when stdin is a terminal and reads a line otherwise.
func (r *Runner) readPassword(reader *bufio.Reader, fromStdin bool) (string, error) {
	if f, ok := r.input.(*os.File); ok && !fromStdin && term.IsTerminal(int(f.Fd())) {
		r.writePlain("Password: ")
		raw, err := term.ReadPassword(int(f.Fd()))
		r.writePlain("\n")
		if err != nil {
			return "", fmt.Errorf("failed to read password: %w", err)
		}
		return string(raw), nil
	}

	if !fromStdin {
		r.writePlain("Password: ")
	}
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("%w: password", shared.ErrMissingArgument)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// AuthLogout ends the session on the server and forgets the local tokens.
func (r *Runner) AuthLogout(ctx context.Context, cmd *cli.Command) error {
	if !r.session.Authenticated() {
		return r.writePlain("Not signed in\n")
	}
	if err := r.hub.Auth.Logout(ctx); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	r.logger.Info("signed out")
	return r.writePlain("✓ Signed out\n")
}

// tokenStatus is what `auth status` reports.
type tokenStatus struct {
	Authenticated bool       `json:"authenticated"`
	Username      string     `json:"username,omitempty"`
	UserID        any        `json:"user_id,omitempty"`
	ExpiresAt     *time.Time `json:"expires_at,omitempty"`
	Expired       bool       `json:"expired"`
	HasRefresh    bool       `json:"has_refresh_token"`
}

// inspectToken reads the claims of an access token without verifying its signature.
// The signature is the backend's concern; the CLI only wants the expiry for display.
func inspectToken(access string) (jwt.MapClaims, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(access, claims); err != nil {
		return nil, fmt.Errorf("access token is not a JWT: %w", err)
	}
	return claims, nil
}

// AuthStatus reports whether a session is stored and when its access token expires.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	status := tokenStatus{
		Authenticated: r.session.Authenticated(),
		Username:      r.session.Username(),
		HasRefresh:    r.session.RefreshToken() != "",
	}

	if access := r.session.AccessToken(); access != "" {
		if claims, err := inspectToken(access); err != nil {
			r.logger.Debug("cannot inspect access token", "error", err)
		} else {
			status.UserID = claims["user_id"]
			if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
				t := exp.Time
				status.ExpiresAt = &t
				status.Expired = time.Now().After(t)
			}
		}
	}

	return r.render(cmd, status, func() error {
		if !status.Authenticated {
			r.writePlain("Authentication: ✗ Not signed in\n")
			return r.writePlain("Run `hub auth login` to start a session\n")
		}

		r.writePlain("Authentication: ✓ Signed in\n")
		if status.Username != "" {
			r.writePlain("User: %s\n", status.Username)
		}
		if status.UserID != nil {
			r.writePlain("User ID: %v\n", status.UserID)
		}
		if status.ExpiresAt != nil {
			state := "valid"
			if status.Expired {
				state = "expired, refreshed on next request"
			}
			r.writePlain("Access token: %s (%s)\n", status.ExpiresAt.Local().Format(time.RFC1123), state)
		}
		return r.writePlain("Refresh token: %s\n", shared.CheckMark(status.HasRefresh))
	})
}

// AuthWhoami asks the backend who the session belongs to.
func (r *Runner) AuthWhoami(ctx context.Context, cmd *cli.Command) error {
	user, err := r.hub.Auth.User(ctx)
	if err != nil {
		return err
	}

	return r.render(cmd, user, func() error {
		r.writePlain("%s\n", user.DisplayName())
		r.writePlain("Username: %s\n", user.Username)
		if user.Email != "" {
			r.writePlain("Email: %s\n", user.Email)
		}
		return r.writePlain("ID: %d\n", user.ID)
	})
}

// AuthRefresh exchanges the refresh token now.
func (r *Runner) AuthRefresh(ctx context.Context, cmd *cli.Command) error {
	if _, err := r.hub.Auth.Refresh(ctx); err != nil {
		return err
	}
	r.logger.Info("access token refreshed")
	return r.writePlain("✓ Access token refreshed\n")
}
