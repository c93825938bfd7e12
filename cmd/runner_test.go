package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/desertthunder/hobbyhub/internal/session"
	"github.com/desertthunder/hobbyhub/internal/shared"
	tu "github.com/desertthunder/hobbyhub/internal/testing"
	"github.com/urfave/cli/v3"
)

func quietOpts() RunnerOpts {
	return RunnerOpts{Logger: shared.NewLogger(io.Discard)}
}

func TestRunner(t *testing.T) {
	t.Run("NewRunner", func(t *testing.T) {
		t.Run("with all dependencies provided", func(t *testing.T) {
			config := shared.DefaultConfig()
			logger := shared.NewLogger(io.Discard)
			output := &bytes.Buffer{}

			runner := NewRunner(RunnerOpts{
				Config:     config,
				ConfigPath: "/tmp/config.toml",
				Logger:     logger,
				Output:     output,
				Backend:    session.NewMemoryBackend(session.Credentials{AccessToken: "A1", Username: "ada"}),
			})

			if runner.config != config {
				t.Error("expected config to be set")
			}
			if runner.logger != logger {
				t.Error("expected logger to be set")
			}
			if runner.output != output {
				t.Error("expected output to be set")
			}
			if runner.configPath != "/tmp/config.toml" {
				t.Errorf("expected config path to be set, got %q", runner.configPath)
			}
			if !runner.session.Authenticated() || runner.session.Username() != "ada" {
				t.Error("expected the session to be loaded from the backend")
			}
			if runner.hub == nil || runner.guard == nil || runner.theme == nil || runner.engine == nil {
				t.Error("expected the service graph to be wired")
			}
		})

		t.Run("with nil config uses defaults", func(t *testing.T) {
			runner := NewRunner(quietOpts())

			if runner.config == nil {
				t.Fatal("expected default config to be set")
			}
			if runner.hub.BaseURL() != shared.DefaultBaseURL {
				t.Errorf("expected default base URL, got %s", runner.hub.BaseURL())
			}
		})

		t.Run("with nil logger uses default", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})

			if runner.logger == nil {
				t.Error("expected default logger to be set")
			}
		})

		t.Run("without database keeps session in memory", func(t *testing.T) {
			runner := NewRunner(quietOpts())

			if runner.jobs != nil {
				t.Error("expected no job history without a database")
			}
			if runner.session.Authenticated() {
				t.Error("expected a fresh runner to be signed out")
			}
		})
	})

	t.Run("SetLogger rewires services", func(t *testing.T) {
		runner := NewRunner(quietOpts())
		hub := runner.hub

		logger := shared.NewLogger(io.Discard)
		runner.SetLogger(logger)

		if runner.logger != logger {
			t.Error("expected logger to be replaced")
		}
		if runner.hub == hub {
			t.Error("expected the hub to be rebuilt on the new logger")
		}
	})

	t.Run("writeJSON", func(t *testing.T) {
		t.Run("writes formatted JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output, Logger: shared.NewLogger(io.Discard)})

			err := runner.writeJSON(map[string]string{"key": "value"}, true)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			result := output.String()
			if !strings.Contains(result, `"key": "value"`) {
				t.Errorf("expected formatted JSON, got %s", result)
			}
			if !strings.HasSuffix(result, "\n") {
				t.Error("expected output to end with newline")
			}
		})

		t.Run("writes compact JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output, Logger: shared.NewLogger(io.Discard)})

			if err := runner.writeJSON(map[string]string{"key": "value"}, false); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			expected := `{"key":"value"}` + "\n"
			if output.String() != expected {
				t.Errorf("expected %q, got %q", expected, output.String())
			}
		})

		t.Run("handles marshal error with non-serializable data", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &bytes.Buffer{}, Logger: shared.NewLogger(io.Discard)})

			err := runner.writeJSON(make(chan int), false)
			if err == nil {
				t.Fatal("expected error for non-serializable data")
			}
			if !strings.Contains(err.Error(), "failed to marshal JSON") {
				t.Errorf("expected marshal error, got %v", err)
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}, Logger: shared.NewLogger(io.Discard)})

			err := runner.writeJSON(map[string]string{"key": "value"}, false)
			if err == nil || !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})

		t.Run("handles newline write failure", func(t *testing.T) {
			limitedWriter := tu.NewLimitedWriter(1, 0, &bytes.Buffer{})
			runner := NewRunner(RunnerOpts{Output: &limitedWriter, Logger: shared.NewLogger(io.Discard)})

			err := runner.writeJSON(map[string]string{"key": "value"}, false)
			if err == nil || !strings.Contains(err.Error(), "failed to write newline") {
				t.Errorf("expected newline write error, got %v", err)
			}
		})
	})

	t.Run("writeYAML uses JSON field names", func(t *testing.T) {
		output := &bytes.Buffer{}
		runner := NewRunner(RunnerOpts{Output: output, Logger: shared.NewLogger(io.Discard)})

		data := struct {
			TotalPoints int `json:"total_points"`
		}{TotalPoints: 120}
		if err := runner.writeYAML(data); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if output.String() != "total_points: 120\n" {
			t.Errorf("unexpected YAML %q", output.String())
		}
	})

	t.Run("writePlain", func(t *testing.T) {
		t.Run("writes plain text successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output, Logger: shared.NewLogger(io.Discard)})

			if err := runner.writePlain("hello %s", "world"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if output.String() != "hello world" {
				t.Errorf("expected 'hello world', got %q", output.String())
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}, Logger: shared.NewLogger(io.Discard)})

			err := runner.writePlain("test")
			if err == nil || !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})
	})

	t.Run("register", func(t *testing.T) {
		runner := NewRunner(quietOpts())
		commands := runner.register()

		names := map[string]bool{}
		for i, cmd := range commands {
			if cmd == nil {
				t.Fatalf("command at index %d is nil", i)
			}
			names[cmd.Name] = true
		}
		for _, want := range []string{"setup", "auth", "profile", "habits", "notes", "projects", "gallery", "calendar", "api", "export", "tui"} {
			if !names[want] {
				t.Errorf("expected %s command to be registered", want)
			}
		}
	})

	t.Run("requireAuth", func(t *testing.T) {
		t.Run("signed out redirects to login", func(t *testing.T) {
			runner := NewRunner(quietOpts())
			nav := &tu.RecordingNavigator{}
			release := runner.redirect.use(nav)
			defer release()

			_, err := runner.requireAuth(context.Background(), &cli.Command{})
			if !errors.Is(err, shared.ErrNotAuthenticated) {
				t.Fatalf("expected ErrNotAuthenticated, got %v", err)
			}
			if nav.Last() != "/login" {
				t.Errorf("expected redirect to /login, got %q", nav.Last())
			}
			if runner.redirect.last() != "/login" {
				t.Errorf("expected redirect to remember the route, got %q", runner.redirect.last())
			}
		})

		t.Run("signed in passes", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{
				Logger:  shared.NewLogger(io.Discard),
				Backend: session.NewMemoryBackend(session.Credentials{AccessToken: "A1", RefreshToken: "R1"}),
			})

			if _, err := runner.requireAuth(context.Background(), &cli.Command{}); err != nil {
				t.Errorf("expected no error, got %v", err)
			}
		})
	})

	t.Run("redirect without target only logs", func(t *testing.T) {
		logs := &bytes.Buffer{}
		runner := NewRunner(RunnerOpts{Logger: shared.NewLogger(logs)})

		runner.redirect.Navigate("/login")

		if !strings.Contains(logs.String(), "hub auth login") {
			t.Errorf("expected a sign-in hint in the log, got %q", logs.String())
		}
	})
}
