package testing

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"
)

// RecordedRequest is one request the fake backend saw, minus login and refresh calls.
type RecordedRequest struct {
	Method        string
	Path          string
	Query         string
	Authorization string
	ContentType   string
	Body          []byte
}

// FakeHub is an httptest backend with the hobby hub token behaviour.
//
// Protected routes accept only "Bearer <access>" for the current access token. POST /api/auth/refresh/ swaps the
// access token for the next one when given the current refresh token. Routes are registered with [FakeHub.Handle];
// unregistered routes answer 404.
type FakeHub struct {
	Server *httptest.Server

	mu           sync.Mutex
	access       string
	refresh      string
	next         string
	failRefresh  bool
	refreshDelay time.Duration
	refreshCalls int
	username     string
	password     string
	requests     []RecordedRequest
	handlers     map[string]http.HandlerFunc
}

// NewFakeHub starts a fake backend that is closed with the test.
func NewFakeHub(t *testing.T) *FakeHub {
	t.Helper()
	f := &FakeHub{handlers: map[string]http.HandlerFunc{}}
	f.Server = httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(f.Server.Close)
	return f
}

// URL returns the API root, e.g. http://127.0.0.1:1234/api.
func (f *FakeHub) URL() string {
	return f.Server.URL + "/api"
}

// SetTokens sets the accepted access token, the accepted refresh token and the access token a refresh issues.
func (f *FakeHub) SetTokens(access, refresh, next string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.access, f.refresh, f.next = access, refresh, next
}

// SetLogin sets the credentials POST /api/auth/login/ accepts.
func (f *FakeHub) SetLogin(username, password string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.username, f.password = username, password
}

// FailRefresh makes every refresh answer 401.
func (f *FakeHub) FailRefresh(fail bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failRefresh = fail
}

// SlowRefresh delays refresh responses so concurrent callers overlap.
func (f *FakeHub) SlowRefresh(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.refreshDelay = d
}

// RefreshCalls counts refresh requests.
func (f *FakeHub) RefreshCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.refreshCalls
}

// AccessToken returns the access token currently accepted.
func (f *FakeHub) AccessToken() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.access
}

// Requests returns a copy of the recorded protected requests.
func (f *FakeHub) Requests() []RecordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]RecordedRequest(nil), f.requests...)
}

// Handle registers h for method and path, where path is below /api (e.g. "/notes/notes/").
func (f *FakeHub) Handle(method, path string, h http.HandlerFunc) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.handlers[method+" /api"+path] = h
}

// JSON registers a handler answering status with body encoded as JSON.
func (f *FakeHub) JSON(method, path string, status int, body any) {
	f.Handle(method, path, func(w http.ResponseWriter, r *http.Request) {
		WriteJSON(w, status, body)
	})
}

// WriteJSON writes body as a JSON response.
func WriteJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		_ = json.NewEncoder(w).Encode(body)
	}
}

func (f *FakeHub) serve(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.Method == http.MethodPost && r.URL.Path == "/api/auth/refresh/":
		f.serveRefresh(w, r)
		return
	case r.Method == http.MethodPost && r.URL.Path == "/api/auth/login/":
		f.serveLogin(w, r)
		return
	}

	body := readAll(r)

	f.mu.Lock()
	f.requests = append(f.requests, RecordedRequest{
		Method:        r.Method,
		Path:          r.URL.Path,
		Query:         r.URL.RawQuery,
		Authorization: r.Header.Get("Authorization"),
		ContentType:   r.Header.Get("Content-Type"),
		Body:          body,
	})
	access := f.access
	h := f.handlers[r.Method+" "+r.URL.Path]
	f.mu.Unlock()

	if access == "" || r.Header.Get("Authorization") != "Bearer "+access {
		WriteJSON(w, http.StatusUnauthorized, map[string]string{
			"detail": "Given token not valid for any token type",
			"code":   "token_not_valid",
		})
		return
	}

	if h == nil {
		WriteJSON(w, http.StatusNotFound, map[string]string{"detail": "Not found."})
		return
	}

	r.Body = io.NopCloser(bytes.NewReader(body))
	h(w, r)
}

func (f *FakeHub) serveRefresh(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Refresh string `json:"refresh"`
	}
	_ = json.NewDecoder(r.Body).Decode(&in)

	f.mu.Lock()
	f.refreshCalls++
	delay := f.refreshDelay
	f.mu.Unlock()

	if delay > 0 {
		time.Sleep(delay)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failRefresh || in.Refresh == "" || in.Refresh != f.refresh {
		WriteJSON(w, http.StatusUnauthorized, map[string]string{
			"detail": "Token is invalid or expired",
			"code":   "token_not_valid",
		})
		return
	}
	f.access = f.next
	WriteJSON(w, http.StatusOK, map[string]string{"access": f.next})
}

func (f *FakeHub) serveLogin(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	_ = json.NewDecoder(r.Body).Decode(&in)

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.username == "" || in.Username != f.username || in.Password != f.password {
		WriteJSON(w, http.StatusUnauthorized, map[string]string{
			"detail": "No active account found with the given credentials",
		})
		return
	}
	if r.Header.Get("Authorization") != "" {
		WriteJSON(w, http.StatusBadRequest, map[string]string{"error": "login must not carry a token"})
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"access": f.access, "refresh": f.refresh})
}

func readAll(r *http.Request) []byte {
	if r.Body == nil {
		return nil
	}
	data, _ := io.ReadAll(r.Body)
	return data
}
