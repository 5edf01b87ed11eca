package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() and provide specific
// information about what is wrong with the configuration.
//
// Design decision: We use package-level sentinel errors rather than
// creating new error instances in Validate(). This allows callers to use
// errors.Is() for programmatic error handling while still providing
// human-readable messages. Using errors.New() here rather than fmt.Errorf()
// because we don't need to include dynamic values in these messages.
var (
	// ErrNoTarget is returned when no presentation target is specified.
	// This error occurs when neither a positional argument nor a batch
	// selector (--week, --all) provides a target.
	ErrNoTarget = errors.New("no target specified: provide a presentation path, URL, or \"weekN lessonM\" shorthand")

	// ErrInvalidTargetScore is returned when the target score is outside
	// the 1-100 range the scorer can produce.
	ErrInvalidTargetScore = errors.New("invalid target score: must be between 1 and 100")

	// ErrInvalidIterations is returned when the fix iteration bound is not
	// positive. At least one pass is needed for the fix command to do anything.
	ErrInvalidIterations = errors.New("invalid iterations: must be at least 1")

	// ErrInvalidBatchSize is returned when the batch size is not positive.
	// A batch size of zero would mean no concurrent audits, effectively
	// stopping batch processing.
	ErrInvalidBatchSize = errors.New("invalid batch size: must be positive")

	// ErrConflictingReportFormats is returned when more than one of --json,
	// --markdown, and --html is specified. Only one output format can be
	// used at a time.
	ErrConflictingReportFormats = errors.New("conflicting report formats: only one of --json, --markdown, and --html may be used")

	// ErrInvalidRetention is returned when the retention count is negative.
	// Use 0 to disable the artifact sweep.
	ErrInvalidRetention = errors.New("invalid retention: must be non-negative")
)
