package pipeline

import (
	"context"
	"log/slog"

	"github.com/deckaudit/deckaudit/internal/config"
	"github.com/deckaudit/deckaudit/internal/fix"
	"github.com/deckaudit/deckaudit/internal/heuristic"
	"github.com/deckaudit/deckaudit/internal/model"
)

// FixLoop repeatedly analyzes a presentation, generates fixes for the
// issues found, applies them, and re-analyzes, until the deck reaches
// the target score or the iteration bound is hit.
//
// Design decision: The loop re-analyzes from the file after every apply
// rather than patching the in-memory report. Fixes change the HTML, and
// the only honest score for changed HTML is a fresh audit of it. This
// also means a fix that accidentally makes things worse is visible in
// the iteration history instead of hidden behind stale numbers.
type FixLoop struct {
	// generator turns report issues into concrete fixes.
	generator *fix.Generator

	// applier applies fixes to the presentation file.
	applier *fix.Applier

	// thresholds are passed through to each analysis pass.
	thresholds heuristic.Thresholds

	// imageMetadata enables EXIF checks during analysis passes.
	imageMetadata bool

	// targetScore is the average score at which the loop stops.
	targetScore float64

	// maxIterations bounds the number of fix passes.
	maxIterations int

	// dryRun previews the first pass without writing the file.
	dryRun bool

	// logger for structured logging.
	logger *slog.Logger
}

// FixLoopOption configures a FixLoop.
type FixLoopOption func(*FixLoop)

// WithTargetScore sets the average score at which the loop stops.
func WithTargetScore(score float64) FixLoopOption {
	return func(l *FixLoop) {
		l.targetScore = score
	}
}

// WithMaxIterations bounds the number of fix passes.
func WithMaxIterations(n int) FixLoopOption {
	return func(l *FixLoop) {
		if n > 0 {
			l.maxIterations = n
		}
	}
}

// WithDryRun previews fixes without modifying the presentation file.
// A dry run performs exactly one pass; re-analysis of an unchanged file
// would report nothing new.
func WithDryRun(dryRun bool) FixLoopOption {
	return func(l *FixLoop) {
		l.dryRun = dryRun
	}
}

// WithFixThresholds overrides the heuristic thresholds used by the
// analysis passes.
func WithFixThresholds(t heuristic.Thresholds) FixLoopOption {
	return func(l *FixLoop) {
		l.thresholds = t
	}
}

// WithFixImageMetadata enables or disables EXIF checks during analysis.
func WithFixImageMetadata(enabled bool) FixLoopOption {
	return func(l *FixLoop) {
		l.imageMetadata = enabled
	}
}

// WithFixLogger sets a custom logger for the fix loop.
func WithFixLogger(logger *slog.Logger) FixLoopOption {
	return func(l *FixLoop) {
		l.logger = logger
	}
}

// NewFixLoop creates a FixLoop with default generator, applier, and bounds.
func NewFixLoop(opts ...FixLoopOption) *FixLoop {
	l := &FixLoop{
		generator:     fix.NewGenerator(),
		applier:       fix.NewApplier(),
		thresholds:    heuristic.DefaultThresholds(),
		imageMetadata: true,
		targetScore:   float64(config.DefaultTargetScore),
		maxIterations: config.DefaultMaxIterations,
		logger:        slog.Default(),
	}

	for _, opt := range opts {
		opt(l)
	}

	return l
}

// FixOutcome summarizes a completed fix loop.
type FixOutcome struct {
	// Iterations is the number of apply passes performed.
	Iterations int

	// Plans holds one fix plan per apply pass, in order.
	Plans []*model.FixPlan

	// Initial is the audit report before any fixes.
	Initial *model.DeckReport

	// Final is the audit report after the last applied pass. For a dry
	// run or when no fixes applied, Final is the same audit as Initial.
	Final *model.DeckReport

	// TargetReached is true when the final average score met the target.
	TargetReached bool
}

// Run executes the fix loop against the presentation at path.
func (l *FixLoop) Run(ctx context.Context, path string) (*FixOutcome, error) {
	report, err := l.analyze(ctx, path)
	if err != nil {
		return nil, err
	}

	outcome := &FixOutcome{
		Initial: report,
		Final:   report,
	}

	for i := 0; i < l.maxIterations; i++ {
		if report.Summary.AverageScore >= l.targetScore {
			break
		}

		fixes := l.generator.Generate(report)
		if len(fixes) == 0 {
			l.logger.Info("no applicable fixes for remaining issues",
				"average_score", report.Summary.AverageScore,
			)
			break
		}

		plan, err := l.applier.Apply(path, fixes, l.dryRun)
		if err != nil {
			return outcome, err
		}
		plan.ScoreBefore = report.Summary.AverageScore
		outcome.Plans = append(outcome.Plans, plan)
		outcome.Iterations++

		l.logger.Info("fix pass completed",
			"iteration", i+1,
			"applied", plan.Applied,
			"not_found", plan.NotFound,
			"failed", plan.Failed,
			"dry_run", l.dryRun,
		)

		if l.dryRun {
			return outcome, nil
		}

		// Nothing changed on disk, so re-analysis cannot move the score.
		if plan.Applied == 0 {
			break
		}

		report, err = l.analyze(ctx, path)
		if err != nil {
			return outcome, err
		}
		plan.ScoreAfter = report.Summary.AverageScore
		outcome.Final = report
	}

	outcome.TargetReached = outcome.Final.Summary.AverageScore >= l.targetScore
	return outcome, nil
}

// analyze runs a full heuristic audit of the file at path.
func (l *FixLoop) analyze(ctx context.Context, path string) (*model.DeckReport, error) {
	report := model.NewDeckReport(path)
	step := NewAnalyzeStep(
		WithAnalyzeThresholds(l.thresholds),
		WithImageMetadata(l.imageMetadata),
		WithAnalyzeLogger(l.logger),
	)
	if err := step.Do(ctx, report); err != nil {
		return nil, err
	}
	return report, nil
}
