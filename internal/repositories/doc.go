// Package repositories implements SQLite persistence for the state the CLI keeps between runs.
//
// Key Implementations:
//   - [TokenRepository] : the session credential pair, a single row satisfying [session.Backend]
//   - [ExportRepository] : bulk export and upload history with soft deletes
//
// Sequence numbers provide stable, human-readable ordering (e.g., export #12) independent of UUIDs and creation timestamps.
// The [NextSequence] function atomically increments per-table sequence counters in dedicated sequence tables.
package repositories
