// Package tasks runs long bulk operations against the hobby hub backend with real-time progress reporting.
//
// # Operations
//
//  1. [Engine.BulkExport] : Snapshot every resource group to disk
//     - Fetches each [Source] on a worker pool behind a shared rate limiter
//     - Writes one JSON file per source, plus CSV/Markdown/text renderings for notes, tasks and projects
//     - Writes export_manifest.json describing every file and failure
//
//  2. [Engine.BulkUpload] : Upload many images to the gallery
//     - Reads and uploads each file on the same worker pool pattern
//     - Reports a per-file result; one bad file does not stop the rest
//
// # Progress Reporting
//
// All operations use non-blocking channels for progress updates.
//
// The [ProgressUpdate] struct contains phase, step counters, messages, and optional data for advanced UI rendering.
// Updates use select with default to prevent blocking.
//
// # Job History
//
// When the engine has a [JobStore] every run is recorded as a [models.ExportJob] (pending, running, then completed,
// partial or failed). Store errors are logged and never fail the run.
package tasks
