package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/deckaudit/deckaudit/internal/model"
)

// AuditDB provides SQLite-based storage for audit run history.
// It manages connection pooling and provides methods for saving and
// querying past runs.
//
// Design decision: We use a single database file for all presentations
// rather than one file per deck. This keeps cross-deck queries (course-wide
// score trends) in one place and simplifies backup.
type AuditDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures AuditDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging for better concurrent performance.
	// This is recommended for most use cases.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates an AuditDB at the specified directory.
// If CreateIfNotExists is true, the directory and database file are created.
// If CreateIfNotExists is false and the database doesn't exist, an error is returned.
func Open(dbDir string, opts Options) (*AuditDB, error) {
	dbPath := filepath.Join(dbDir, "deckaudit.db")

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s (use CreateIfNotExists option to create)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// modernc.org/sqlite connection string: mode=rw prevents creating new
	// files, mode=rwc allows creation.
	var dsn string
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	} else {
		dsn = dbPath + "?mode=rw"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer; multiple readers don't help for our
	// write-then-read access pattern.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	adb := &AuditDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := adb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return adb, nil
}

// Close closes the database connection.
func (adb *AuditDB) Close() error {
	return adb.db.Close()
}

// createTables creates the database schema if it doesn't exist.
func (adb *AuditDB) createTables() error {
	schema := `
	-- Audit runs store one row per completed audit with the full report
	CREATE TABLE IF NOT EXISTS audit_runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		presentation TEXT NOT NULL,
		timestamp DATETIME DEFAULT CURRENT_TIMESTAMP,
		average_score REAL NOT NULL,
		slide_count INTEGER NOT NULL,
		severity_summary TEXT,
		report_json TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_presentation ON audit_runs(presentation);
	CREATE INDEX IF NOT EXISTS idx_runs_timestamp ON audit_runs(timestamp);
	`

	_, err := adb.db.ExecContext(context.Background(), schema)
	return err
}

// SaveRun stores a completed audit report.
func (adb *AuditDB) SaveRun(ctx context.Context, report *model.DeckReport) (int64, error) {
	reportJSON, err := json.Marshal(report)
	if err != nil {
		return 0, fmt.Errorf("failed to serialize report: %w", err)
	}

	severity := map[string]int{
		"critical": report.Summary.CriticalCount,
		"high":     report.Summary.HighCount,
		"medium":   report.Summary.MediumCount,
		"low":      report.Summary.LowCount,
		"info":     report.Summary.InfoCount,
	}
	severityJSON, _ := json.Marshal(severity) //nolint:errcheck,errchkjson // simple map; Marshal won't fail

	query := `
	INSERT INTO audit_runs (presentation, average_score, slide_count, severity_summary, report_json)
	VALUES (?, ?, ?, ?, ?)
	`

	result, err := adb.db.ExecContext(ctx, query,
		report.Presentation,
		report.Summary.AverageScore,
		report.SlideCount,
		string(severityJSON),
		string(reportJSON),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to save audit run: %w", err)
	}

	return result.LastInsertId()
}

// LatestRuns retrieves the n most recent reports for a presentation,
// newest first. Returns fewer when the history is shorter.
func (adb *AuditDB) LatestRuns(ctx context.Context, presentation string, n int) ([]*model.DeckReport, error) {
	query := `
	SELECT report_json FROM audit_runs
	WHERE presentation = ?
	ORDER BY timestamp DESC, id DESC
	LIMIT ?
	`

	rows, err := adb.db.QueryContext(ctx, query, presentation, n)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit runs: %w", err)
	}
	defer rows.Close()

	var reports []*model.DeckReport
	for rows.Next() {
		var reportJSON string
		if err := rows.Scan(&reportJSON); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}

		var report model.DeckReport
		if err := json.Unmarshal([]byte(reportJSON), &report); err != nil {
			continue // Skip malformed reports
		}
		reports = append(reports, &report)
	}

	return reports, rows.Err()
}

// GetLatestRun retrieves the most recent report for a presentation, or nil
// when the presentation has never been audited.
func (adb *AuditDB) GetLatestRun(ctx context.Context, presentation string) (*model.DeckReport, error) {
	runs, err := adb.LatestRuns(ctx, presentation, 1)
	if err != nil {
		return nil, err
	}
	if len(runs) == 0 {
		return nil, nil
	}
	return runs[0], nil
}

// ListPresentations returns every presentation with at least one stored run.
func (adb *AuditDB) ListPresentations(ctx context.Context) ([]string, error) {
	query := `
	SELECT DISTINCT presentation FROM audit_runs
	ORDER BY presentation
	`

	rows, err := adb.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list presentations: %w", err)
	}
	defer rows.Close()

	var presentations []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, fmt.Errorf("failed to scan presentation: %w", err)
		}
		presentations = append(presentations, p)
	}

	return presentations, rows.Err()
}

// RunMetadata contains summary information about a stored audit run.
// This is used for displaying run history without loading the full report.
type RunMetadata struct {
	// ID is the unique identifier of the run in the database.
	ID int64

	// Presentation is the audited presentation path or URL.
	Presentation string

	// Timestamp is when the audit was performed.
	Timestamp time.Time

	// AverageScore is the deck's average overall score for the run.
	AverageScore float64

	// SlideCount is the number of slides analyzed.
	SlideCount int

	// SeveritySummary contains counts of issues by severity level.
	SeveritySummary map[string]int
}

// GetRunHistory retrieves run metadata for a presentation, newest first.
// This is more efficient than LatestRuns when only metadata is needed.
func (adb *AuditDB) GetRunHistory(ctx context.Context, presentation string) ([]RunMetadata, error) {
	query := `
	SELECT id, presentation, timestamp, average_score, slide_count, severity_summary
	FROM audit_runs
	WHERE presentation = ?
	ORDER BY timestamp DESC, id DESC
	`

	rows, err := adb.db.QueryContext(ctx, query, presentation)
	if err != nil {
		return nil, fmt.Errorf("failed to get run history: %w", err)
	}
	defer rows.Close()

	var results []RunMetadata
	for rows.Next() {
		var meta RunMetadata
		var timestamp string
		var severityJSON sql.NullString

		if err := rows.Scan(&meta.ID, &meta.Presentation, &timestamp, &meta.AverageScore, &meta.SlideCount, &severityJSON); err != nil {
			return nil, fmt.Errorf("failed to scan metadata: %w", err)
		}

		meta.Timestamp = parseTimestamp(timestamp)

		if severityJSON.Valid && severityJSON.String != "" {
			if err := json.Unmarshal([]byte(severityJSON.String), &meta.SeveritySummary); err != nil {
				meta.SeveritySummary = make(map[string]int)
			}
		} else {
			meta.SeveritySummary = make(map[string]int)
		}

		results = append(results, meta)
	}

	return results, rows.Err()
}

// GetRunByID retrieves a full report by its database ID.
func (adb *AuditDB) GetRunByID(ctx context.Context, id int64) (*model.DeckReport, error) {
	query := `
	SELECT report_json FROM audit_runs
	WHERE id = ?
	`

	var reportJSON string
	err := adb.db.QueryRowContext(ctx, query, id).Scan(&reportJSON)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get audit run: %w", err)
	}

	var report model.DeckReport
	if err := json.Unmarshal([]byte(reportJSON), &report); err != nil {
		return nil, fmt.Errorf("failed to parse report: %w", err)
	}

	return &report, nil
}

// timestampFormats contains the timestamp formats that SQLite may return.
// The order matters: more specific formats should come first.
var timestampFormats = []string{
	"2006-01-02 15:04:05",     // SQLite default datetime format
	"2006-01-02T15:04:05Z",    // ISO 8601 with Z suffix
	"2006-01-02T15:04:05",     // ISO 8601 without timezone
	time.RFC3339,              // Full RFC3339 format
	time.RFC3339Nano,          // RFC3339 with nanoseconds
	"2006-01-02 15:04:05.999", // SQLite with milliseconds
}

// parseTimestamp attempts to parse a timestamp string using multiple formats.
// SQLite may return timestamps in different formats depending on configuration.
// If parsing fails with all formats, returns zero time.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
