package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/hobbyhub/internal/shared"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

// ClientOpts configures a [Client] for one resource group.
type ClientOpts struct {
	BaseURL    string // backend root, e.g. http://localhost:8000/api
	Group      string // resource group path, e.g. /notes
	Store      TokenStore
	Refresher  *Refresher
	HTTPClient *http.Client
	Limiter    *rate.Limiter
	UserAgent  string
	Logger     *log.Logger
}

// Client sends requests for one resource group with the bearer token attached and survives one token expiry per request.
//
// On a 401 the request is marked retried, the refresh token is exchanged through the [Refresher] and the request is sent
// once more with the new token. A retried request that fails again, or any other error status, is returned unchanged.
type Client struct {
	base       string
	group      string
	store      TokenStore
	refresher  *Refresher
	httpClient *http.Client
	limiter    *rate.Limiter
	userAgent  string
	logger     *log.Logger
}

// NewClient creates a Client rooted at BaseURL + Group.
func NewClient(opts ClientOpts) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = shared.DefaultBaseURL
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: shared.DefaultTimeout}
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}

	group := "/" + strings.Trim(opts.Group, "/")
	if group == "/" {
		group = ""
	}

	return &Client{
		base:       strings.TrimRight(opts.BaseURL, "/") + group,
		group:      strings.TrimPrefix(group, "/"),
		store:      opts.Store,
		refresher:  opts.Refresher,
		httpClient: opts.HTTPClient,
		limiter:    opts.Limiter,
		userAgent:  opts.UserAgent,
		logger:     shared.WithLogger(opts.Logger, "group", strings.TrimPrefix(group, "/")),
	}
}

// Request is one call relative to the client's group path.
//
// JSON and Form are mutually exclusive; both are encoded before the first send so a retry replays the same bytes.
// Anonymous requests carry no bearer token and are never retried; login uses them so bad credentials cannot spend
// a stale refresh token.
type Request struct {
	Method    string
	Path      string
	Query     url.Values
	JSON      any
	Form      *Form
	Anonymous bool
}

// Response is a completed round trip.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
	Retried    bool
}

// IsJSON reports whether the body parses as JSON.
func (r *Response) IsJSON() bool {
	return json.Valid(r.Body)
}

// URL resolves path against the client's group root.
func (c *Client) URL(path string) string {
	if path == "" {
		return c.base + "/"
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return c.base + path
}

// Group returns the resource group name, e.g. "notes".
func (c *Client) Group() string {
	return c.group
}

// Send performs req and returns the response. Non-2xx statuses are returned as [*APIError].
func (c *Client) Send(ctx context.Context, req Request) (*Response, error) {
	body, contentType, err := req.encode()
	if err != nil {
		return nil, err
	}

	target := c.URL(req.Path)
	if len(req.Query) > 0 {
		target += "?" + req.Query.Encode()
	}

	var token *oauth2.Token
	if c.store != nil && !req.Anonymous {
		if tok, err := c.store.Token(); err == nil {
			token = tok
		}
	}

	resp, err := c.roundTrip(ctx, req.Method, target, body, contentType, token)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusUnauthorized {
		return checkStatus(req.Method, target, resp)
	}

	unauthorized := newAPIError(req.Method, target, resp.StatusCode, resp.Body)
	if req.Anonymous || c.store == nil || c.refresher == nil {
		return nil, unauthorized
	}

	refreshToken := c.store.RefreshToken()
	if refreshToken == "" {
		return nil, unauthorized
	}

	access, err := c.renewedToken(ctx, token, refreshToken)
	if err != nil {
		return nil, err
	}

	resp, err = c.roundTrip(ctx, req.Method, target, body, contentType, &oauth2.Token{AccessToken: access, TokenType: "Bearer"})
	if err != nil {
		return nil, err
	}
	resp.Retried = true
	return checkStatus(req.Method, target, resp)
}

// renewedToken returns the access token to retry with. When another request already replaced the
// token this one was sent with, the replacement is reused instead of spending the refresh token again.
func (c *Client) renewedToken(ctx context.Context, sent *oauth2.Token, refreshToken string) (string, error) {
	current := c.store.AccessToken()
	if sent != nil && current != "" && current != sent.AccessToken {
		c.logger.Debug("retrying with a token refreshed elsewhere")
		return current, nil
	}
	return c.refresher.Refresh(ctx, refreshToken)
}

// Do sends req and decodes a JSON response into out when out is non-nil.
func (c *Client) Do(ctx context.Context, req Request, out any) error {
	resp, err := c.Send(ctx, req)
	if err != nil {
		return err
	}
	return decode(resp, out)
}

// Get fetches path with query into out.
func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) error {
	return c.Do(ctx, Request{Method: http.MethodGet, Path: path, Query: query}, out)
}

// Post sends body as JSON.
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, Request{Method: http.MethodPost, Path: path, JSON: body}, out)
}

// Put sends body as JSON.
func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, Request{Method: http.MethodPut, Path: path, JSON: body}, out)
}

// Patch sends body as JSON; a nil body sends no payload.
func (c *Client) Patch(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, Request{Method: http.MethodPatch, Path: path, JSON: body}, out)
}

// Delete removes the resource at path.
func (c *Client) Delete(ctx context.Context, path string) error {
	return c.Do(ctx, Request{Method: http.MethodDelete, Path: path}, nil)
}

// Upload sends form as multipart.
func (c *Client) Upload(ctx context.Context, method, path string, form *Form, out any) error {
	return c.Do(ctx, Request{Method: method, Path: path, Form: form}, out)
}

// Raw sends an already encoded JSON body and returns the response whatever its status.
// Token handling is the same as for [Client.Send].
func (c *Client) Raw(ctx context.Context, method, path string, body []byte) (*Response, error) {
	var payload any
	if len(body) > 0 {
		payload = json.RawMessage(body)
	}

	resp, err := c.Send(ctx, Request{Method: method, Path: path, JSON: payload})
	if apiErr, ok := err.(*APIError); ok {
		return &Response{StatusCode: apiErr.StatusCode, Body: apiErr.Body}, nil
	}
	return resp, err
}

func (req Request) encode() ([]byte, string, error) {
	switch {
	case req.Form != nil && req.JSON != nil:
		return nil, "", fmt.Errorf("%w: request has both a JSON and a form body", shared.ErrInvalidInput)
	case req.Form != nil:
		return req.Form.encode()
	case req.JSON != nil:
		data, err := json.Marshal(req.JSON)
		if err != nil {
			return nil, "", fmt.Errorf("failed to encode request: %w", err)
		}
		return data, "application/json", nil
	}
	return nil, "", nil
}

func (c *Client) roundTrip(ctx context.Context, method, target string, body []byte, contentType string, token *oauth2.Token) (*Response, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	requestID := shared.GenerateID()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	if token != nil && token.AccessToken != "" {
		token.SetAuthHeader(req)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %s: %w", shared.ErrAPIRequest, method, target, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	c.logger.Debug("request",
		"method", method,
		"url", target,
		"status", resp.StatusCode,
		"duration", time.Since(start).Round(time.Millisecond),
		"request_id", requestID,
		"auth", token != nil,
	)

	return &Response{StatusCode: resp.StatusCode, Header: resp.Header, Body: data}, nil
}

func checkStatus(method, target string, resp *Response) (*Response, error) {
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, newAPIError(method, target, resp.StatusCode, resp.Body)
	}
	return resp, nil
}

func decode(resp *Response, out any) error {
	if out == nil || len(bytes.TrimSpace(resp.Body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(resp.Body, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
