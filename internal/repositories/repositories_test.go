package repositories

import (
	"database/sql"
	"errors"
	"testing"

	"github.com/desertthunder/hobbyhub/internal/models"
	"github.com/desertthunder/hobbyhub/internal/session"
	"github.com/desertthunder/hobbyhub/internal/shared"
)

// setupTestDB creates an in-memory SQLite database with migrations applied
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	db.SetMaxOpenConns(1)

	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	t.Cleanup(func() { db.Close() })
	return db
}

func TestTokenRepository(t *testing.T) {
	t.Run("Load on an empty store", func(t *testing.T) {
		repo := NewTokenRepository(setupTestDB(t))

		creds, err := repo.Load()
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if !creds.Empty() {
			t.Errorf("expected empty credentials, got %+v", creds)
		}
	})

	t.Run("Save and Load", func(t *testing.T) {
		repo := NewTokenRepository(setupTestDB(t))
		want := session.Credentials{AccessToken: "A1", RefreshToken: "R1", Username: "ada"}

		if err := repo.Save(want); err != nil {
			t.Fatalf("Save() error = %v", err)
		}

		got, err := repo.Load()
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if got != want {
			t.Errorf("Load() = %+v, want %+v", got, want)
		}
	})

	t.Run("Save overwrites the single row", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewTokenRepository(db)

		_ = repo.Save(session.Credentials{AccessToken: "A1", RefreshToken: "R1"})
		if err := repo.Save(session.Credentials{AccessToken: "A2", RefreshToken: "R1"}); err != nil {
			t.Fatalf("Save() error = %v", err)
		}

		var count int
		if err := db.QueryRow("SELECT COUNT(*) FROM credentials").Scan(&count); err != nil {
			t.Fatalf("count failed: %v", err)
		}
		if count != 1 {
			t.Errorf("expected 1 row, got %d", count)
		}

		got, _ := repo.Load()
		if got.AccessToken != "A2" {
			t.Errorf("expected A2, got %s", got.AccessToken)
		}
	})

	t.Run("Delete", func(t *testing.T) {
		repo := NewTokenRepository(setupTestDB(t))
		_ = repo.Save(session.Credentials{AccessToken: "A1", RefreshToken: "R1"})

		if err := repo.Delete(); err != nil {
			t.Fatalf("Delete() error = %v", err)
		}
		if err := repo.Delete(); err != nil {
			t.Fatalf("second Delete() error = %v", err)
		}

		got, _ := repo.Load()
		if !got.Empty() {
			t.Errorf("expected purged credentials, got %+v", got)
		}
	})

	t.Run("survives a new session", func(t *testing.T) {
		db := setupTestDB(t)

		first, err := session.New(NewTokenRepository(db), nil)
		if err != nil {
			t.Fatalf("session.New() error = %v", err)
		}
		if err := first.SetTokens("A1", "R1"); err != nil {
			t.Fatalf("SetTokens() error = %v", err)
		}

		second, err := session.New(NewTokenRepository(db), nil)
		if err != nil {
			t.Fatalf("session.New() error = %v", err)
		}
		if second.AccessToken() != "A1" || second.RefreshToken() != "R1" {
			t.Errorf("expected stored pair to be reloaded, got %+v", second.Snapshot())
		}
	})
}

func TestExportRepository(t *testing.T) {
	t.Run("Create and Get", func(t *testing.T) {
		repo := NewExportRepository(setupTestDB(t))
		job := models.NewExportJob(models.JobExport, "/tmp/hub-export")

		if err := repo.Create(job); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		if job.ID() == "" {
			t.Fatal("job ID should be set after creation")
		}

		got, err := repo.Get(job.ID())
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if got.Kind() != models.JobExport || got.Target() != "/tmp/hub-export" || got.Status() != models.JobPending {
			t.Errorf("unexpected job %+v", got)
		}
	})

	t.Run("Create rejects invalid jobs", func(t *testing.T) {
		repo := NewExportRepository(setupTestDB(t))

		if err := repo.Create(models.NewExportJob(models.JobExport, "")); err == nil {
			t.Fatal("expected validation error for empty target")
		}
	})

	t.Run("Update", func(t *testing.T) {
		repo := NewExportRepository(setupTestDB(t))
		job := models.NewExportJob(models.JobUpload, "photos")
		if err := repo.Create(job); err != nil {
			t.Fatalf("Create() error = %v", err)
		}

		job.Start(3)
		job.Finish(2, 1, "b.jpg: too large")
		if err := repo.Update(job); err != nil {
			t.Fatalf("Update() error = %v", err)
		}

		got, err := repo.Get(job.ID())
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if got.Status() != models.JobPartial {
			t.Errorf("expected partial, got %s", got.Status())
		}
		if got.ItemsDone() != 2 || got.ItemsFailed() != 1 || got.ItemsTotal() != 3 {
			t.Errorf("unexpected counts %d/%d/%d", got.ItemsDone(), got.ItemsFailed(), got.ItemsTotal())
		}
		if got.ErrorMessage() != "b.jpg: too large" {
			t.Errorf("unexpected error message %q", got.ErrorMessage())
		}
		if got.StartedAt() == nil || got.CompletedAt() == nil {
			t.Error("expected start and completion times")
		}
	})

	t.Run("Update NotFound", func(t *testing.T) {
		repo := NewExportRepository(setupTestDB(t))
		job := models.NewExportJob(models.JobExport, "out")
		job.SetID("missing")

		if err := repo.Update(job); !errors.Is(err, shared.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("Delete", func(t *testing.T) {
		repo := NewExportRepository(setupTestDB(t))
		job := models.NewExportJob(models.JobExport, "out")
		_ = repo.Create(job)

		if err := repo.Delete(job.ID()); err != nil {
			t.Fatalf("Delete() error = %v", err)
		}
		if _, err := repo.Get(job.ID()); !errors.Is(err, shared.ErrNotFound) {
			t.Errorf("expected ErrNotFound after delete, got %v", err)
		}
		if err := repo.Delete(job.ID()); err == nil {
			t.Error("expected error deleting twice")
		}
	})

	t.Run("List", func(t *testing.T) {
		repo := NewExportRepository(setupTestDB(t))
		for _, kind := range []string{models.JobExport, models.JobUpload, models.JobExport} {
			if err := repo.Create(models.NewExportJob(kind, "out")); err != nil {
				t.Fatalf("Create() error = %v", err)
			}
		}

		all, err := repo.List(nil)
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if len(all) != 3 {
			t.Errorf("expected 3 jobs, got %d", len(all))
		}

		exports, _ := repo.List(map[string]any{"kind": models.JobExport})
		if len(exports) != 2 {
			t.Errorf("expected 2 export jobs, got %d", len(exports))
		}

		latest, _ := repo.List(map[string]any{"limit": 1})
		if len(latest) != 1 || latest[0].Kind() != models.JobExport {
			t.Errorf("expected newest job first, got %v", latest)
		}
	})
}

func TestNextSequence(t *testing.T) {
	db := setupTestDB(t)

	for want := 1; want <= 3; want++ {
		got, err := NextSequence(db, "export_jobs")
		if err != nil {
			t.Fatalf("NextSequence() error = %v", err)
		}
		if got != want {
			t.Errorf("NextSequence() = %d, want %d", got, want)
		}
	}

	if _, err := NextSequence(db, "missing"); err == nil {
		t.Error("expected error for a table without a sequence")
	}
}
