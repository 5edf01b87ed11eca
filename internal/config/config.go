package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
const (
	// AppName is the application name used for XDG directory paths.
	AppName = "deckaudit"

	// DefaultTargetScore is the average score a fix loop drives toward.
	// 85 marks a deck most audiences would consider polished; pushing
	// automated fixes past that point tends to fight author intent.
	DefaultTargetScore = 85

	// DefaultMaxIterations bounds the analyze-fix-reanalyze loop.
	// Three passes resolve everything string substitution can resolve;
	// issues that survive three passes need a human.
	DefaultMaxIterations = 3

	// DefaultBatchSize is the number of decks audited concurrently when
	// processing a week or a whole course. Audits are mostly CPU-bound
	// parsing, so a small fixed pool is enough.
	DefaultBatchSize = 4

	// DefaultOutputDir is where reports and screenshots are written.
	DefaultOutputDir = "analysis"

	// DefaultRetentionRuns is how many timestamped artifacts to keep per
	// report name before old ones are swept.
	DefaultRetentionRuns = 10

	// DefaultSettleDelay is the wait after navigation before a screenshot,
	// so entrance animations finish.
	DefaultSettleDelay = 1500 * time.Millisecond

	// DefaultNavigateTimeout bounds each browser navigation during capture.
	DefaultNavigateTimeout = 30 * time.Second
)

// Config holds all configuration options for deckaudit.
// This struct is designed to be populated from CLI flags and the config
// file and passed through the application via dependency injection rather
// than global state.
//
// Design decision: We use a single flat struct instead of nested structs
// (e.g., FixConfig, CaptureConfig) for simplicity. The number of options
// is manageable, and nesting would add complexity without significant benefit.
type Config struct {
	// Targets is the list of presentations to audit: file paths, URLs, or
	// "weekN lessonM" shorthands.
	Targets []string

	// CourseRoot is the directory that shorthand targets resolve against.
	// Empty means the current working directory.
	CourseRoot string

	// TargetScore is the average score the fix loop drives toward.
	TargetScore int

	// MaxIterations bounds the analyze-fix-reanalyze loop.
	MaxIterations int

	// DryRun makes the fix command write a JSON fix plan instead of
	// mutating the presentation file.
	DryRun bool

	// Screenshots enables headless-browser capture of each slide.
	Screenshots bool

	// ExpertPanel enables the persona review section of the report.
	ExpertPanel bool

	// NoImageMetadata disables EXIF scanning of locally referenced images.
	NoImageMetadata bool

	// Verbose enables detailed log output using slog.LevelDebug.
	// When false, only warnings and errors are logged.
	Verbose bool

	// BatchSize is the number of decks audited concurrently in batch mode.
	BatchSize int

	// JSONReport enables JSON report output instead of human-readable format.
	// Mutually exclusive with MarkdownReport and HTMLReport.
	JSONReport bool

	// MarkdownReport enables Markdown report output.
	// Mutually exclusive with JSONReport and HTMLReport.
	MarkdownReport bool

	// HTMLReport enables self-contained HTML report output.
	// Mutually exclusive with JSONReport and MarkdownReport.
	HTMLReport bool

	// ReportFile is the output file path for the report.
	// When set, the report is written to this file instead of stdout.
	// Directories are created automatically if they don't exist.
	ReportFile string

	// OutputDir is the directory for run artifacts: timestamped reports,
	// fix plans, and screenshots.
	OutputDir string

	// RetentionRuns is how many timestamped artifacts to keep per report
	// name. Zero disables the sweep.
	RetentionRuns int

	// ConfigFilePath is the path to the configuration file.
	// If empty, the tool searches for .deckaudit in the current directory
	// and then in the user's home directory.
	ConfigFilePath string

	// FileConfig holds settings loaded from the config file.
	// This is populated by LoadConfigFile.
	FileConfig *File

	// DBDir is the directory path for storing the SQLite run-history
	// database. When empty, runs are not persisted.
	// Defaults to the XDG data directory.
	DBDir string

	// SaveToDB indicates whether to save audit runs to the database.
	// This is automatically set to true when DBDir is configured.
	SaveToDB bool

	// SettleDelay is the post-navigation wait during screenshot capture.
	SettleDelay time.Duration

	// NavigateTimeout bounds each browser navigation during capture.
	NavigateTimeout time.Duration
}

// NewConfig creates a new Config with default values.
// All fields are set to safe, sensible defaults that work for most use cases.
// Users can override specific values after creation.
//
// Design decision: We use a constructor function instead of relying on
// zero values because many defaults are non-zero (e.g., target score,
// iteration bound). This also serves as documentation of what the
// defaults are.
func NewConfig() *Config {
	return &Config{
		TargetScore:     DefaultTargetScore,
		MaxIterations:   DefaultMaxIterations,
		BatchSize:       DefaultBatchSize,
		OutputDir:       DefaultOutputDir,
		RetentionRuns:   DefaultRetentionRuns,
		SettleDelay:     DefaultSettleDelay,
		NavigateTimeout: DefaultNavigateTimeout,
	}
}

// XDGDataDir returns the XDG data directory for deckaudit.
// This follows the XDG Base Directory Specification.
// On Linux: ~/.local/share/deckaudit
// On macOS: ~/Library/Application Support/deckaudit
// On Windows: %LOCALAPPDATA%\deckaudit
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for deckaudit.
// This follows the XDG Base Directory Specification.
// On Linux: ~/.config/deckaudit
// On macOS: ~/Library/Application Support/deckaudit
// On Windows: %APPDATA%\deckaudit
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// XDGCacheDir returns the XDG cache directory for deckaudit.
// This follows the XDG Base Directory Specification.
// On Linux: ~/.cache/deckaudit
// On macOS: ~/Library/Caches/deckaudit
// On Windows: %LOCALAPPDATA%\deckaudit\cache
func XDGCacheDir() string {
	return filepath.Join(xdg.CacheHome, AppName)
}

// ScreenshotDir returns the directory where slide screenshots are written.
func (c *Config) ScreenshotDir() string {
	return filepath.Join(c.OutputDir, "screenshots")
}

// Validate checks if the configuration is valid.
// It returns a specific error describing what is invalid.
//
// Design decision: We validate at the config level rather than at each
// point of use to fail fast and provide clear error messages upfront.
// This is called once after CLI parsing, before any auditing begins.
//
// We chose to return the first error found rather than collecting all errors
// because fixing one error often makes others irrelevant.
func (c *Config) Validate() error {
	// We must have at least one target to audit
	if len(c.Targets) == 0 {
		return ErrNoTarget
	}

	// Target score must be a usable percentage
	if c.TargetScore < 1 || c.TargetScore > 100 {
		return ErrInvalidTargetScore
	}

	// At least one fix pass must be allowed
	if c.MaxIterations < 1 {
		return ErrInvalidIterations
	}

	// BatchSize must be positive; zero would mean no auditing
	if c.BatchSize <= 0 {
		return ErrInvalidBatchSize
	}

	// Report formats are mutually exclusive
	formats := 0
	for _, enabled := range []bool{c.JSONReport, c.MarkdownReport, c.HTMLReport} {
		if enabled {
			formats++
		}
	}
	if formats > 1 {
		return ErrConflictingReportFormats
	}

	// RetentionRuns must be non-negative; zero disables the sweep
	if c.RetentionRuns < 0 {
		return ErrInvalidRetention
	}

	return nil
}
