package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync/atomic"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/hobbyhub/internal/session"
	"github.com/desertthunder/hobbyhub/internal/shared"
	"golang.org/x/oauth2"
	"golang.org/x/sync/singleflight"
)

// TokenStore is the session state the clients read and write. [*session.Session] implements it.
type TokenStore interface {
	oauth2.TokenSource
	AccessToken() string
	RefreshToken() string
	SetAccessToken(access string) error
	Clear() error
}

var _ TokenStore = (*session.Session)(nil)

// RefresherOpts configures a [Refresher].
type RefresherOpts struct {
	BaseURL    string
	Store      TokenStore
	Navigator  session.Navigator
	LoginRoute string
	HTTPClient *http.Client
	UserAgent  string
	Logger     *log.Logger
}

// Refresher exchanges a refresh token for a new access token over a plain HTTP client, outside
// the 401 handling of [Client], so a failing refresh can never trigger another refresh.
//
// Concurrent calls presented with the same refresh token share one exchange.
// A failed exchange purges the session and navigates to the login route exactly once.
type Refresher struct {
	url        string
	store      TokenStore
	nav        session.Navigator
	loginRoute string
	httpClient *http.Client
	userAgent  string
	logger     *log.Logger
	group      singleflight.Group
	exchanges  atomic.Int64
}

// NewRefresher creates a Refresher posting to {BaseURL}/auth/refresh/.
func NewRefresher(opts RefresherOpts) *Refresher {
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: shared.DefaultTimeout}
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.LoginRoute == "" {
		opts.LoginRoute = session.LoginRoute
	}

	return &Refresher{
		url:        strings.TrimRight(opts.BaseURL, "/") + authGroup + "/refresh/",
		store:      opts.Store,
		nav:        opts.Navigator,
		loginRoute: opts.LoginRoute,
		httpClient: opts.HTTPClient,
		userAgent:  opts.UserAgent,
		logger:     opts.Logger,
	}
}

// Refresh returns a new access token for refreshToken and persists it in the store.
//
// The exchange runs detached from ctx so one caller giving up does not fail the others waiting on it;
// ctx only bounds how long this caller waits.
func (r *Refresher) Refresh(ctx context.Context, refreshToken string) (string, error) {
	if refreshToken == "" {
		return "", shared.ErrNoRefreshToken
	}

	ch := r.group.DoChan(refreshToken, func() (any, error) {
		return r.exchange(context.WithoutCancel(ctx), refreshToken)
	})

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		if res.Shared {
			r.logger.Debug("joined in-flight token refresh")
		}
		return res.Val.(string), nil
	}
}

// Exchanges reports how many refresh calls reached the network.
func (r *Refresher) Exchanges() int64 {
	return r.exchanges.Load()
}

func (r *Refresher) exchange(ctx context.Context, refreshToken string) (string, error) {
	r.exchanges.Add(1)

	access, err := r.post(ctx, refreshToken)
	if err != nil {
		r.logger.Warn("token refresh failed, ending session", "error", err)
		r.expire()
		return "", fmt.Errorf("%w: %w", shared.ErrRefreshFailed, err)
	}

	if err := r.store.SetAccessToken(access); err != nil {
		return "", fmt.Errorf("failed to persist refreshed token: %w", err)
	}

	r.logger.Debug("access token refreshed")
	return access, nil
}

func (r *Refresher) post(ctx context.Context, refreshToken string) (string, error) {
	body, err := json.Marshal(map[string]string{"refresh": refreshToken})
	if err != nil {
		return "", fmt.Errorf("failed to encode refresh request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if r.userAgent != "" {
		req.Header.Set("User-Agent", r.userAgent)
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", newAPIError(http.MethodPost, r.url, resp.StatusCode, data)
	}

	var out struct {
		Access string `json:"access"`
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if out.Access == "" {
		return "", fmt.Errorf("refresh response carried no access token")
	}
	return out.Access, nil
}

// expire purges both tokens and sends the user to the login route.
func (r *Refresher) expire() {
	if err := r.store.Clear(); err != nil {
		r.logger.Error("failed to purge credentials", "error", err)
	}
	if r.nav != nil {
		r.nav.Navigate(r.loginRoute)
	}
}
