// Package database provides SQLite-based storage for audit run history.
//
// This package implements the AuditDB, which stores one row per audit run:
// the presentation audited, when, its scores, and the full report as JSON.
// The history powers score comparison between runs, so a fix pass can show
// the before/after delta instead of only the current state.
//
// Design decision: We use SQLite (via modernc.org/sqlite) instead of other
// databases because:
// 1. No external dependencies - the database is a single file
// 2. CGO-free implementation allows easy cross-compilation
// 3. Sufficient performance for our use case
// 4. WAL mode provides good concurrent read performance
package database
