package models

import (
	"encoding/json"
	"testing"
	"time"
)

func TestThemeRef(t *testing.T) {
	t.Run("bare id", func(t *testing.T) {
		var p Profile
		if err := json.Unmarshal([]byte(`{"id":1,"current_theme":3}`), &p); err != nil {
			t.Fatalf("unmarshal failed: %v", err)
		}
		if p.CurrentTheme == nil || p.CurrentTheme.ID != 3 || p.CurrentTheme.Theme != nil {
			t.Errorf("expected id-only reference 3, got %+v", p.CurrentTheme)
		}
	})

	t.Run("nested theme", func(t *testing.T) {
		var p Profile
		body := `{"id":1,"current_theme":{"id":4,"name":"Ocean","primary_color":"#0ea5e9"}}`
		if err := json.Unmarshal([]byte(body), &p); err != nil {
			t.Fatalf("unmarshal failed: %v", err)
		}
		if p.CurrentTheme == nil || p.CurrentTheme.Theme == nil {
			t.Fatalf("expected nested theme, got %+v", p.CurrentTheme)
		}
		if p.CurrentTheme.ID != 4 || p.CurrentTheme.Theme.PrimaryColor != "#0ea5e9" {
			t.Errorf("unexpected theme %+v", p.CurrentTheme.Theme)
		}
	})

	t.Run("null", func(t *testing.T) {
		var p Profile
		if err := json.Unmarshal([]byte(`{"id":1,"current_theme":null}`), &p); err != nil {
			t.Fatalf("unmarshal failed: %v", err)
		}
		if p.CurrentTheme != nil {
			t.Errorf("expected nil reference, got %+v", p.CurrentTheme)
		}
	})

	t.Run("invalid", func(t *testing.T) {
		var p Profile
		if err := json.Unmarshal([]byte(`{"current_theme":"blue"}`), &p); err == nil {
			t.Error("expected an error for a string reference")
		}
	})
}

func TestProfileUpdateFields(t *testing.T) {
	fields := ProfileUpdate{City: "Lisbon", About: "hi"}.Fields()

	if len(fields) != 2 {
		t.Fatalf("expected only set fields, got %v", fields)
	}
	if fields["city"] != "Lisbon" || fields["about"] != "hi" {
		t.Errorf("unexpected fields %v", fields)
	}
}

func TestUserDisplayName(t *testing.T) {
	tests := []struct {
		user User
		want string
	}{
		{User{Username: "ada", FirstName: "Ada", LastName: "Lovelace"}, "Ada Lovelace"},
		{User{Username: "ada", LastName: "Lovelace"}, "Lovelace"},
		{User{Username: "ada"}, "ada"},
	}
	for _, tt := range tests {
		if got := tt.user.DisplayName(); got != tt.want {
			t.Errorf("DisplayName() = %q, want %q", got, tt.want)
		}
	}
}

func TestHabitInputValidate(t *testing.T) {
	tests := []struct {
		name    string
		input   HabitInput
		wantErr bool
	}{
		{"daily", HabitInput{Name: "Read", Frequency: FrequencyDaily}, false},
		{"missing name", HabitInput{Frequency: FrequencyDaily}, true},
		{"custom without days", HabitInput{Name: "Run", Frequency: FrequencyCustom}, true},
		{"custom with days", HabitInput{Name: "Run", Frequency: FrequencyCustom, TargetDays: []int{0, 2, 4}}, false},
		{"day out of range", HabitInput{Name: "Run", Frequency: FrequencyCustom, TargetDays: []int{7}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.input.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestParseEnums(t *testing.T) {
	if _, err := ParseFrequency("weekends"); err != nil {
		t.Errorf("ParseFrequency(weekends) error = %v", err)
	}
	if _, err := ParseFrequency("hourly"); err == nil {
		t.Error("expected error for unknown frequency")
	}
	if _, err := ParseProjectStatus("on_hold"); err != nil {
		t.Errorf("ParseProjectStatus(on_hold) error = %v", err)
	}
	if _, err := ParseProjectStatus("paused"); err == nil {
		t.Error("expected error for unknown status")
	}
	if err := ValidateProgress(101); err == nil {
		t.Error("expected error for progress above 100")
	}
}

func TestTaskInputValidate(t *testing.T) {
	if err := (TaskInput{Title: "Dentist", Date: "2024-03-09"}).Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
	if err := (TaskInput{Title: "Dentist", Date: "03/09/2024"}).Validate(); err == nil {
		t.Error("expected error for a non-ISO date")
	}
}

func TestNoteInput(t *testing.T) {
	folder := 2
	n := Note{Title: "t", Folder: &folder, Tags: []NoteTag{{ID: 5}, {ID: 7}}, IsPinned: true}
	in := n.Input()

	if in.Folder == nil || *in.Folder != 2 {
		t.Errorf("expected folder 2, got %v", in.Folder)
	}
	if len(in.TagIDs) != 2 || in.TagIDs[0] != 5 || in.TagIDs[1] != 7 {
		t.Errorf("unexpected tag ids %v", in.TagIDs)
	}
	if !in.IsPinned {
		t.Error("expected pinned to carry over")
	}
}

func TestExportJob(t *testing.T) {
	t.Run("Validate", func(t *testing.T) {
		if err := NewExportJob(JobExport, "/tmp/out").Validate(); err != nil {
			t.Errorf("Validate() error = %v", err)
		}
		if err := NewExportJob("sync", "/tmp/out").Validate(); err == nil {
			t.Error("expected error for unknown kind")
		}
		if err := NewExportJob(JobUpload, "").Validate(); err == nil {
			t.Error("expected error for empty target")
		}
	})

	t.Run("Finish", func(t *testing.T) {
		tests := []struct {
			done, failed int
			want         string
		}{
			{7, 0, JobCompleted},
			{5, 2, JobPartial},
			{0, 7, JobFailed},
		}
		for _, tt := range tests {
			job := NewExportJob(JobExport, "out")
			job.Start(tt.done + tt.failed)
			job.Finish(tt.done, tt.failed, "")
			if job.Status() != tt.want {
				t.Errorf("Finish(%d, %d) status = %s, want %s", tt.done, tt.failed, job.Status(), tt.want)
			}
			if job.CompletedAt() == nil {
				t.Error("expected completion time")
			}
		}
	})

	t.Run("Duration", func(t *testing.T) {
		job := NewExportJob(JobExport, "out")
		if job.Duration() != 0 {
			t.Error("expected zero duration before start")
		}
		start := time.Now().Add(-2 * time.Second)
		end := start.Add(2 * time.Second)
		job.SetStartedAt(&start)
		job.SetCompletedAt(&end)
		if job.Duration() != 2*time.Second {
			t.Errorf("Duration() = %v, want 2s", job.Duration())
		}
	})
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-02-29")
	if err != nil {
		t.Fatalf("ParseDate() error = %v", err)
	}
	if FormatDate(d) != "2024-02-29" {
		t.Errorf("round trip gave %s", FormatDate(d))
	}
	if _, err := ParseDate("2023-02-29"); err == nil {
		t.Error("expected error for invalid day")
	}
}

func TestRecordInputs(t *testing.T) {
	url := "https://example.com"
	p := Project{ID: 3, Title: "Shelf", URL: &url, Status: StatusActive, Progress: 40, IsPinned: true}
	in := p.Input()
	if in.Title != "Shelf" || in.URL != &url || in.Progress != 40 || !in.IsPinned {
		t.Errorf("unexpected project input %+v", in)
	}
	if in.Tags == nil {
		t.Error("expected an empty tag list rather than nil")
	}

	task := Task{ID: 5, Title: "Dentist", Date: "2024-03-09", Priority: "high", Completed: true}
	if got := task.Input(); got.Title != "Dentist" || got.Date != "2024-03-09" || !got.Completed {
		t.Errorf("unexpected task input %+v", got)
	}
}
