// Package models defines the records exchanged with the hobby-hub backend and the entities persisted locally.
//
// The package contains two categories of types:
//
// 1. Backend records: JSON shapes owned entirely by the server. The client only holds transient copies.
//   - [User], [Profile], [Theme], [Activity] : identity, profile and palettes
//   - [Habit], [HabitLog], [Analytics], [Gamification], [Achievement] : habit tracking
//   - [Folder], [NoteTag], [Note], [NoteImage] : notes
//   - [Collection], [ProjectTag], [Project] : projects
//   - [Photo] : gallery
//   - [Task] : calendar
//
// 2. Persistent entities: database-backed models kept by the CLI itself.
//   - [ExportJob] : bulk export and upload runs with per-group results
//
// Persistent entities implement [Model]; [Repository] defines the CRUD operations for database access.
package models
