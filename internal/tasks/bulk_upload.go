package tasks

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/desertthunder/hobbyhub/internal/models"
	"github.com/desertthunder/hobbyhub/internal/services"
	"golang.org/x/time/rate"
)

// BulkUploadOpts contains configuration for bulk photo uploads.
type BulkUploadOpts struct {
	Description string  // Applied to every photo
	NumWorkers  int     // Concurrent workers (default: 4, max: 10)
	RateLimit   float64 // Uploads per second (default: 5)
}

// UploadFileResult is the outcome of one file.
type UploadFileResult struct {
	Path    string `json:"path"`
	PhotoID int    `json:"photo_id,omitempty"`
	Image   string `json:"image,omitempty"`
	Error   string `json:"error,omitempty"`
}

// BulkUploadResult summarises an upload run.
type BulkUploadResult struct {
	JobID      string             `json:"job_id,omitempty"`
	Total      int                `json:"total"`
	Successful int                `json:"successful"`
	Failed     int                `json:"failed"`
	Results    []UploadFileResult `json:"results"`
}

// TitleFromPath derives a photo title from a file name: "sunset_beach.jpg" becomes "sunset beach".
func TitleFromPath(path string) string {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return strings.TrimSpace(strings.NewReplacer("_", " ", "-", " ").Replace(base))
}

// BulkUpload uploads every file in paths to the gallery, titled after its file name.
// Results keep the order of paths.
func (e *Engine) BulkUpload(ctx context.Context, prog chan<- ProgressUpdate, paths []string, opts BulkUploadOpts) (*BulkUploadResult, error) {
	if err := requireHub(e.hub); err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no files to upload")
	}

	job := e.startJob(models.JobUpload, strings.Join(paths, ","), len(paths))
	result := &BulkUploadResult{JobID: job.ID(), Total: len(paths), Results: make([]UploadFileResult, len(paths))}

	limiter := rate.NewLimiter(rate.Limit(normalizeRate(opts.RateLimit)), 1)
	jobs := make(chan int, len(paths))
	for i := range paths {
		jobs <- i
	}
	close(jobs)

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		completed int
	)
	for w := 0; w < normalizeWorkers(opts.NumWorkers); w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				e.sendProgress(prog, uploadingUpdate(i+1, len(paths), paths[i]))
				res := e.uploadOne(ctx, limiter, paths[i], opts)

				mu.Lock()
				result.Results[i] = res
				completed++
				step := completed
				mu.Unlock()
				e.sendProgress(prog, uploadCompletedUpdate(step, len(paths), res))
			}
		}()
	}
	wg.Wait()

	for _, res := range result.Results {
		if res.Error == "" {
			result.Successful++
		} else {
			result.Failed++
		}
	}

	var errMsg string
	if result.Failed > 0 {
		errMsg = fmt.Sprintf("%d of %d uploads failed", result.Failed, result.Total)
	}
	e.finishJob(job, result.Successful, result.Failed, errMsg)
	return result, ctx.Err()
}

func (e *Engine) uploadOne(ctx context.Context, limiter *rate.Limiter, path string, opts BulkUploadOpts) UploadFileResult {
	res := UploadFileResult{Path: path}

	file, err := services.FileFromPath("image", path)
	if err != nil {
		res.Error = err.Error()
		return res
	}
	if err := limiter.Wait(ctx); err != nil {
		res.Error = err.Error()
		return res
	}

	photo, err := e.hub.Gallery.Upload(ctx, file, models.PhotoInput{Title: TitleFromPath(path), Description: opts.Description})
	if err != nil {
		res.Error = errorString(err)
		return res
	}
	res.PhotoID = photo.ID
	res.Image = photo.Image
	return res
}
