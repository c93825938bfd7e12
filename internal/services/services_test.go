package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/desertthunder/hobbyhub/internal/models"
	"github.com/desertthunder/hobbyhub/internal/shared"
	tu "github.com/desertthunder/hobbyhub/internal/testing"
)

func TestAuthService(t *testing.T) {
	ctx := context.Background()

	t.Run("Login stores the pair without sending a bearer", func(t *testing.T) {
		f := newFixture(t, "stale", "")
		f.fake.SetTokens("A1", "R1", "A2")
		f.fake.SetLogin("ada", "lovelace")

		pair, err := f.hub.Auth.Login(ctx, "ada", "lovelace")
		if err != nil {
			t.Fatalf("Login() error = %v", err)
		}
		if pair.Access != "A1" || pair.Refresh != "R1" {
			t.Errorf("unexpected pair %+v", pair)
		}
		if f.session.AccessToken() != "A1" || f.session.RefreshToken() != "R1" || f.session.Username() != "ada" {
			t.Errorf("unexpected session %+v", f.session.Snapshot())
		}
	})

	t.Run("bad credentials do not spend the refresh token", func(t *testing.T) {
		f := newFixture(t, "A0", "R1")
		f.fake.SetTokens("A1", "R1", "A2")
		f.fake.SetLogin("ada", "lovelace")

		_, err := f.hub.Auth.Login(ctx, "ada", "wrong")
		if !errors.Is(err, shared.ErrAuthFailed) {
			t.Fatalf("expected ErrAuthFailed, got %v", err)
		}
		if f.fake.RefreshCalls() != 0 {
			t.Errorf("expected no refresh, got %d", f.fake.RefreshCalls())
		}
		if f.session.RefreshToken() != "R1" {
			t.Error("expected the stored pair to survive a failed login")
		}
	})

	t.Run("Login requires both fields", func(t *testing.T) {
		f := newFixture(t, "", "")
		if _, err := f.hub.Auth.Login(ctx, "ada", ""); !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument, got %v", err)
		}
	})

	t.Run("Logout purges even when the backend fails", func(t *testing.T) {
		f := newFixture(t, "A1", "R1")
		f.fake.SetTokens("A1", "R1", "A2")
		f.fake.JSON(http.MethodPost, "/auth/logout/", http.StatusInternalServerError, map[string]string{"error": "down"})

		if err := f.hub.Auth.Logout(ctx); err != nil {
			t.Fatalf("Logout() error = %v", err)
		}
		if f.session.Authenticated() || f.session.RefreshToken() != "" {
			t.Error("expected the session to be purged")
		}

		reqs := f.fake.Requests()
		if len(reqs) != 1 || reqs[0].Path != "/api/auth/logout/" {
			t.Fatalf("expected one logout call, got %+v", reqs)
		}
		var body map[string]string
		_ = json.Unmarshal(reqs[0].Body, &body)
		if body["refresh_token"] != "R1" {
			t.Errorf("expected refresh_token R1, got %v", body)
		}
	})
}

func TestNoteService(t *testing.T) {
	ctx := context.Background()

	t.Run("scopes map to one flag each", func(t *testing.T) {
		tests := []struct {
			scope NoteScope
			want  string
		}{
			{ScopeAll, ""},
			{ScopePinned, "pinned=true"},
			{ScopeArchived, "archived=true"},
			{ScopeTrashed, "deleted=true"},
		}
		for _, tt := range tests {
			if got := (NoteFilter{Scope: tt.scope}).Query().Encode(); got != tt.want {
				t.Errorf("Query(%s) = %q, want %q", tt.scope, got, tt.want)
			}
		}

		q := NoteFilter{Scope: ScopeArchived, Search: "milk", Folder: 2, Tag: 5}.Query()
		if q.Encode() != "archived=true&folder=2&search=milk&tag=5" {
			t.Errorf("unexpected query %s", q.Encode())
		}
	})

	t.Run("ParseNoteScope and Next", func(t *testing.T) {
		if s, err := ParseNoteScope(""); err != nil || s != ScopeAll {
			t.Errorf("expected all, got %s %v", s, err)
		}
		if _, err := ParseNoteScope("starred"); err == nil {
			t.Error("expected an error for an unknown scope")
		}
		if ScopeTrashed.Next() != ScopeAll || ScopeAll.Next() != ScopePinned {
			t.Error("expected scopes to cycle in display order")
		}
	})

	t.Run("pinned scope filters locally", func(t *testing.T) {
		f := newFixture(t, "A1", "R1")
		f.fake.SetTokens("A1", "R1", "A2")
		f.fake.JSON(http.MethodGet, "/notes/notes/", http.StatusOK, sampleNotes)

		notes, err := f.hub.Notes.List(ctx, NoteFilter{Scope: ScopePinned})
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if len(notes) != 1 || notes[0].ID != 1 {
			t.Errorf("expected only the pinned note, got %+v", notes)
		}
		if q := f.fake.Requests()[0].Query; q != "pinned=true" {
			t.Errorf("expected pinned=true to be sent, got %q", q)
		}
	})

	t.Run("toggles and purge hit their routes", func(t *testing.T) {
		f := newFixture(t, "A1", "R1")
		f.fake.SetTokens("A1", "R1", "A2")
		note := map[string]any{"id": 3, "title": "x"}
		f.fake.JSON(http.MethodPatch, "/notes/notes/3/pin/", http.StatusOK, note)
		f.fake.JSON(http.MethodPatch, "/notes/notes/3/archive/", http.StatusOK, note)
		f.fake.JSON(http.MethodPatch, "/notes/notes/3/trash/", http.StatusOK, note)
		f.fake.JSON(http.MethodPatch, "/notes/notes/3/restore/", http.StatusOK, note)
		f.fake.JSON(http.MethodDelete, "/notes/notes/permanent-delete/", http.StatusOK, map[string]int{"deleted": 4})
		f.fake.JSON(http.MethodDelete, "/notes/notes/images/9/", http.StatusNoContent, nil)

		for name, fn := range map[string]func(context.Context, int) (*models.Note, error){
			"pin":     f.hub.Notes.Pin,
			"archive": f.hub.Notes.Archive,
			"trash":   f.hub.Notes.Trash,
			"restore": f.hub.Notes.Restore,
		} {
			if _, err := fn(ctx, 3); err != nil {
				t.Errorf("%s error = %v", name, err)
			}
		}

		n, err := f.hub.Notes.PurgeTrash(ctx)
		if err != nil || n != 4 {
			t.Errorf("PurgeTrash() = %d, %v", n, err)
		}
		if err := f.hub.Notes.DeleteImage(ctx, 9); err != nil {
			t.Errorf("DeleteImage() error = %v", err)
		}
	})
}

func TestHabitService(t *testing.T) {
	ctx := context.Background()

	t.Run("ToggleLog posts the day and flag", func(t *testing.T) {
		f := newFixture(t, "A1", "R1")
		f.fake.SetTokens("A1", "R1", "A2")
		f.fake.JSON(http.MethodPost, "/habits/4/toggle_log/", http.StatusOK,
			map[string]any{"id": 1, "habit": 4, "date": "2024-03-09", "completed": true})

		day := time.Date(2024, 3, 9, 18, 0, 0, 0, time.Local)
		log, err := f.hub.Habits.ToggleLog(ctx, 4, day, true)
		if err != nil {
			t.Fatalf("ToggleLog() error = %v", err)
		}
		if !log.Completed {
			t.Error("expected a completed log")
		}

		var body map[string]any
		_ = json.Unmarshal(f.fake.Requests()[0].Body, &body)
		if body["date"] != "2024-03-09" || body["completed"] != true {
			t.Errorf("unexpected body %v", body)
		}
	})

	t.Run("Create validates before sending", func(t *testing.T) {
		f := newFixture(t, "A1", "R1")
		_, err := f.hub.Habits.Create(ctx, models.HabitInput{Name: "Read", Frequency: models.FrequencyCustom})
		if err == nil {
			t.Fatal("expected a validation error for custom without days")
		}
		if len(f.fake.Requests()) != 0 {
			t.Error("expected nothing to be sent")
		}
	})

	t.Run("gamification and analytics use the root group", func(t *testing.T) {
		f := newFixture(t, "A1", "R1")
		f.fake.SetTokens("A1", "R1", "A2")
		f.fake.JSON(http.MethodGet, "/habits/gamification/", http.StatusOK,
			map[string]any{"total_points": 120, "level": "Consistent"})
		f.fake.JSON(http.MethodGet, "/habits/due_today/", http.StatusOK, []map[string]any{{"id": 1, "name": "Walk"}})

		g, err := f.hub.Habits.Gamification(ctx)
		if err != nil {
			t.Fatalf("Gamification() error = %v", err)
		}
		if g.TotalPoints != 120 || g.Level != "Consistent" {
			t.Errorf("unexpected gamification %+v", g)
		}

		due, err := f.hub.Habits.DueToday(ctx)
		if err != nil || len(due) != 1 {
			t.Errorf("DueToday() = %v, %v", due, err)
		}
	})
}

func TestCalendarService(t *testing.T) {
	ctx := context.Background()

	t.Run("ByDate sends an ISO day", func(t *testing.T) {
		f := newFixture(t, "A1", "R1")
		f.fake.SetTokens("A1", "R1", "A2")
		f.fake.JSON(http.MethodGet, "/calendar/tasks/by_date/", http.StatusOK, []map[string]any{})

		if _, err := f.hub.Calendar.ByDate(ctx, time.Date(2024, 1, 5, 0, 0, 0, 0, time.Local)); err != nil {
			t.Fatalf("ByDate() error = %v", err)
		}
		if q := f.fake.Requests()[0].Query; q != "date=2024-01-05" {
			t.Errorf("expected date=2024-01-05, got %q", q)
		}
	})

	t.Run("ParseTaskRange", func(t *testing.T) {
		if r, err := ParseTaskRange(""); err != nil || r != RangeUpcoming {
			t.Errorf("expected upcoming by default, got %s %v", r, err)
		}
		if _, err := ParseTaskRange("someday"); err == nil {
			t.Error("expected an error for an unknown range")
		}
	})

	t.Run("Create rejects a bad date", func(t *testing.T) {
		f := newFixture(t, "A1", "R1")
		if _, err := f.hub.Calendar.Create(ctx, models.TaskInput{Title: "x", Date: "05/01/2024"}); err == nil {
			t.Error("expected a validation error")
		}
	})
}

func TestProjectService(t *testing.T) {
	ctx := context.Background()

	t.Run("SetProgress validates the range", func(t *testing.T) {
		f := newFixture(t, "A1", "R1")
		if _, err := f.hub.Projects.SetProgress(ctx, 1, 101); err == nil {
			t.Error("expected an error for 101")
		}
	})

	t.Run("SetProgress reports the completed status", func(t *testing.T) {
		f := newFixture(t, "A1", "R1")
		f.fake.SetTokens("A1", "R1", "A2")
		f.fake.JSON(http.MethodPatch, "/projects/projects/2/progress/", http.StatusOK,
			map[string]any{"id": 2, "progress": 100, "status": "completed"})

		p, err := f.hub.Projects.SetProgress(ctx, 2, 100)
		if err != nil {
			t.Fatalf("SetProgress() error = %v", err)
		}
		if p.Status != models.StatusCompleted {
			t.Errorf("expected completed, got %s", p.Status)
		}
	})

	t.Run("filter query", func(t *testing.T) {
		q := ProjectFilter{Search: "kite", Status: models.StatusOnHold, Pinned: true}.Query()
		if q.Encode() != "pinned=true&search=kite&status=on_hold" {
			t.Errorf("unexpected query %s", q.Encode())
		}
	})
}

func TestProfileService(t *testing.T) {
	ctx := context.Background()

	t.Run("SetTheme returns the profile", func(t *testing.T) {
		f := newFixture(t, "A1", "R1")
		f.fake.SetTokens("A1", "R1", "A2")
		f.fake.JSON(http.MethodPost, "/profile/set-theme/", http.StatusOK,
			map[string]any{"id": 1, "current_theme": map[string]any{"id": 5, "name": "Dusk", "primary_color": "#111111"}})

		p, err := f.hub.Profile.SetTheme(ctx, 5)
		if err != nil {
			t.Fatalf("SetTheme() error = %v", err)
		}
		if p.CurrentTheme == nil || p.CurrentTheme.ID != 5 || p.CurrentTheme.Theme == nil {
			t.Errorf("unexpected current theme %+v", p.CurrentTheme)
		}
	})

	t.Run("Activities defaults the limit", func(t *testing.T) {
		f := newFixture(t, "A1", "R1")
		f.fake.SetTokens("A1", "R1", "A2")
		f.fake.JSON(http.MethodGet, "/profile/activities/", http.StatusOK, []map[string]any{})

		if _, err := f.hub.Profile.Activities(ctx, 0); err != nil {
			t.Fatalf("Activities() error = %v", err)
		}
		if q := f.fake.Requests()[0].Query; q != "limit=10" {
			t.Errorf("expected limit=10, got %q", q)
		}
	})

	t.Run("Update sends only set fields", func(t *testing.T) {
		f := newFixture(t, "A1", "R1")
		f.fake.SetTokens("A1", "R1", "A2")
		var city, phone string
		f.fake.Handle(http.MethodPut, "/profile/profile/", func(w http.ResponseWriter, r *http.Request) {
			_ = r.ParseMultipartForm(1 << 20)
			city = r.FormValue("city")
			_, hasPhone := r.MultipartForm.Value["phone"]
			if hasPhone {
				phone = "present"
			}
			tu.WriteJSON(w, http.StatusOK, map[string]any{"id": 1, "city": city})
		})

		p, err := f.hub.Profile.Update(ctx, models.ProfileUpdate{City: "Lisbon"}, nil)
		if err != nil {
			t.Fatalf("Update() error = %v", err)
		}
		if p.City != "Lisbon" || city != "Lisbon" {
			t.Errorf("expected Lisbon, got %q / %q", p.City, city)
		}
		if phone == "present" {
			t.Error("expected empty fields to be left out")
		}
	})
}

func TestAPIErrorMessage(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   string
	}{
		{"error field", 400, `{"error":"No image provided"}`, "No image provided"},
		{"detail field", 401, `{"detail":"Authentication credentials were not provided."}`, "Authentication credentials were not provided."},
		{"field errors", 400, `{"title":["This field is required."],"date":["Enter a valid date."]}`, "date: Enter a valid date."},
		{"plain text", 500, `upstream exploded`, "upstream exploded"},
		{"html page", 500, `<html><body>Server Error</body></html>`, "request failed (Internal Server Error)"},
		{"empty", 503, ``, "request failed (Service Unavailable)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := newAPIError(http.MethodGet, "http://x/api/y/", tt.status, []byte(tt.body))
			if got := err.Message(); got != tt.want {
				t.Errorf("Message() = %q, want %q", got, tt.want)
			}
		})
	}

	t.Run("unwrap", func(t *testing.T) {
		if !errors.Is(newAPIError("GET", "u", 503, nil), shared.ErrServiceUnavailable) {
			t.Error("expected 503 to be ErrServiceUnavailable")
		}
		if !errors.Is(newAPIError("GET", "u", 400, nil), shared.ErrAPIRequest) {
			t.Error("expected 400 to be ErrAPIRequest")
		}
	})

	t.Run("package Message", func(t *testing.T) {
		wrapped := errors.Join(errors.New("context"), newAPIError("GET", "u", 400, []byte(`{"detail":"nope"}`)))
		if Message(wrapped) != "nope" {
			t.Errorf("expected nope, got %q", Message(wrapped))
		}
		if Message(errors.New("plain")) != "plain" || Message(nil) != "" {
			t.Error("unexpected fallback")
		}
	})
}
