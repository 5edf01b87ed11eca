package heuristic

import (
	"context"

	"github.com/deckaudit/deckaudit/internal/model"
)

// Checker category constants.
const (
	// CategoryStyle is used by checkers that scan raw CSS text.
	CategoryStyle = "style"
	// CategoryStructure is used by checkers that read the parsed slide inventory.
	CategoryStructure = "structure"
	// CategoryContent is used by checkers that measure text density.
	CategoryContent = "content"
)

// SlideData contains everything available for checking one slide.
//
// Design decision: We pass all data in a single struct rather than
// multiple parameters because:
//  1. Not all checkers need all fields
//  2. Adding new fields doesn't change checker signatures
//  3. Easier to construct in tests
type SlideData struct {
	// Slide is the parsed slide under analysis.
	Slide *model.Slide

	// DeckPath is the presentation file path, used to resolve relative
	// image sources for metadata checks.
	DeckPath string
}

// Checker defines the interface for individual quality checks.
// Each checker focuses on one class of defect.
type Checker interface {
	// Name returns the checker's name for logging and reporting.
	Name() string

	// Category returns the checker's category (style, structure, content).
	Category() string

	// Check runs the analysis on the provided slide data.
	Check(ctx context.Context, data *SlideData) ([]model.Issue, error)
}

// Thresholds holds the numeric limits shared by the style checkers.
// Explicit configuration rather than package constants, so tests and
// multi-deck runs can use different rule sets without cross-contamination.
type Thresholds struct {
	// MinBodyRem is the minimum readable font size in rem.
	MinBodyRem float64

	// MinBodyPx is the minimum readable font size in px.
	MinBodyPx float64

	// MinPaddingRem is the minimum content-block padding in rem.
	MinPaddingRem float64

	// MinPaddingPx is the minimum content-block padding in px.
	MinPaddingPx float64

	// MaxFixedHeightPx is the tallest fixed pixel height that is not
	// treated as an overflow hazard.
	MaxFixedHeightPx float64

	// MinOverlayAlpha is the minimum alpha for dark overlays above images.
	MinOverlayAlpha float64

	// MaxBullets is the maximum list items per slide.
	MaxBullets int

	// MaxWords is the maximum word count per slide.
	MaxWords int
}

// DefaultThresholds returns the standard rule thresholds.
// 1.2rem/24px body text and 600px height match common projector and
// laptop viewing distances for course material.
func DefaultThresholds() Thresholds {
	return Thresholds{
		MinBodyRem:       1.2,
		MinBodyPx:        24,
		MinPaddingRem:    1.0,
		MinPaddingPx:     16,
		MaxFixedHeightPx: 600,
		MinOverlayAlpha:  0.5,
		MaxBullets:       6,
		MaxWords:         80,
	}
}

// Options configures engine behavior.
type Options struct {
	// Thresholds are the numeric limits for the style checkers.
	Thresholds Thresholds

	// EnableImageMetadata enables EXIF extraction from locally resolvable
	// images. This reads image files from disk and can be slow for decks
	// with many images.
	EnableImageMetadata bool
}

// DefaultOptions returns sensible default engine options.
func DefaultOptions() Options {
	return Options{
		Thresholds:          DefaultThresholds(),
		EnableImageMetadata: true,
	}
}

// Engine coordinates quality checks across multiple checkers.
//
// Design decision: We use a coordinator rather than running checkers
// independently because:
//  1. Unified deduplication across checkers
//  2. Consistent context and cancellation handling
//  3. One registration point decides the active rule set
type Engine struct {
	checkers []Checker
	options  Options
}

// NewEngine creates an Engine with all built-in checkers registered.
func NewEngine(opts ...func(*Options)) *Engine {
	options := DefaultOptions()
	for _, opt := range opts {
		opt(&options)
	}

	e := &Engine{options: options}

	// Style checkers
	e.Register(NewTextSizeChecker(options.Thresholds))
	e.Register(NewSpacingChecker(options.Thresholds))
	e.Register(NewContrastChecker())
	e.Register(NewOverflowChecker(options.Thresholds))
	e.Register(NewOverlayChecker(options.Thresholds))
	e.Register(NewMobileChecker())

	// Content checkers
	e.Register(NewCognitiveLoadChecker(options.Thresholds))

	// Structure checkers
	e.Register(NewAccessibilityChecker())
	if options.EnableImageMetadata {
		e.Register(NewImageMetadataChecker())
	}

	return e
}

// Register adds a checker to the engine.
func (e *Engine) Register(c Checker) {
	e.checkers = append(e.checkers, c)
}

// Checkers returns the names of the registered checkers in order.
func (e *Engine) Checkers() []string {
	names := make([]string, len(e.checkers))
	for i, c := range e.checkers {
		names[i] = c.Name()
	}
	return names
}

// CheckSlide runs all registered checkers against one slide and returns the
// deduplicated issue list. Checker errors are skipped, not fatal: we want to
// collect as many issues as possible.
func (e *Engine) CheckSlide(ctx context.Context, data *SlideData) ([]model.Issue, error) {
	var all []model.Issue

	for _, checker := range e.checkers {
		select {
		case <-ctx.Done():
			return all, ctx.Err()
		default:
		}

		issues, err := checker.Check(ctx, data)
		if err != nil {
			continue
		}
		all = append(all, issues...)
	}

	return deduplicateIssues(all), nil
}

// deduplicateIssues removes duplicate issues based on kind and value.
// Duplicates by distinct matched substrings are kept: two different small
// sizes on one slide are two issues, the same size matched by two checkers
// is one.
func deduplicateIssues(issues []model.Issue) []model.Issue {
	seen := make(map[string]int) // key -> index in result
	result := make([]model.Issue, 0, len(issues))

	for _, issue := range issues {
		key := issue.Kind + "|" + issue.Value
		if idx, exists := seen[key]; exists {
			// Keep the more severe instance.
			if issue.Severity > result[idx].Severity {
				result[idx] = issue
			}
			continue
		}
		seen[key] = len(result)
		result = append(result, issue)
	}

	return result
}
