package services

import (
	"io"
	"testing"

	"github.com/desertthunder/hobbyhub/internal/session"
	"github.com/desertthunder/hobbyhub/internal/shared"
	tu "github.com/desertthunder/hobbyhub/internal/testing"
)

type fixture struct {
	fake    *tu.FakeHub
	backend *session.MemoryBackend
	session *session.Session
	nav     *tu.RecordingNavigator
	hub     *Hub
}

// newFixture starts a fake backend and a hub whose session holds access/refresh.
func newFixture(t *testing.T, access, refresh string) *fixture {
	t.Helper()

	fake := tu.NewFakeHub(t)
	backend := session.NewMemoryBackend(session.Credentials{AccessToken: access, RefreshToken: refresh})
	logger := shared.NewLogger(io.Discard)

	sess, err := session.New(backend, logger)
	if err != nil {
		t.Fatalf("session.New() error = %v", err)
	}

	nav := &tu.RecordingNavigator{}
	hub := NewHub(HubOpts{
		BaseURL:   fake.URL(),
		Store:     sess,
		Navigator: nav,
		UserAgent: "hobbyhub-test",
		Logger:    logger,
	})

	return &fixture{fake: fake, backend: backend, session: sess, nav: nav, hub: hub}
}
