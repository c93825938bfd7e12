package tasks

import (
	"fmt"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	FetchSource Phase = iota
	ExportSource
	WriteManifest
	UploadPhoto
)

func (p Phase) String() string {
	switch p {
	case FetchSource:
		return "fetch_source"
	case ExportSource:
		return "export_source"
	case WriteManifest:
		return "write_manifest"
	case UploadPhoto:
		return "upload_photo"
	default:
		return ""
	}
}

func fetchingSourceUpdate(step, total int, name string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchSource,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Fetching %s...", step, total, name),
	}
}

func exportCompletedUpdate(step, total int, res SourceResult) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportSource,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s (%d items, %d files)", step, total, res.Source, res.Count, len(res.Files)),
		Data:    res,
	}
}

func exportFailedUpdate(step, total int, res SourceResult) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportSource,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s: %s", step, total, res.Source, res.Error),
		Data:    res,
	}
}

func manifestUpdate(path string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   WriteManifest,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Writing manifest %s", path),
	}
}

func uploadingUpdate(step, total int, path string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   UploadPhoto,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Uploading %s...", step, total, path),
	}
}

func uploadCompletedUpdate(step, total int, res UploadFileResult) ProgressUpdate {
	if res.Error != "" {
		return ProgressUpdate{
			Phase:   UploadPhoto,
			Step:    step,
			Total:   total,
			Message: fmt.Sprintf("[%d/%d] ✗ %s: %s", step, total, res.Path, res.Error),
			Data:    res,
		}
	}
	return ProgressUpdate{
		Phase:   UploadPhoto,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s (photo %d)", step, total, res.Path, res.PhotoID),
		Data:    res,
	}
}
