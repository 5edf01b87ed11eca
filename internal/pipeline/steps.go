package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/deckaudit/deckaudit/internal/capture"
	"github.com/deckaudit/deckaudit/internal/config"
	"github.com/deckaudit/deckaudit/internal/database"
	"github.com/deckaudit/deckaudit/internal/deck"
	"github.com/deckaudit/deckaudit/internal/expert"
	"github.com/deckaudit/deckaudit/internal/heuristic"
	"github.com/deckaudit/deckaudit/internal/model"
	"github.com/deckaudit/deckaudit/internal/report"
	"github.com/deckaudit/deckaudit/internal/resolve"
	"github.com/deckaudit/deckaudit/internal/score"
)

// AnalyzeStep loads the presentation, runs the heuristic checks on every
// slide, and scores the results into the report.
//
// Design decision: Load, check, and score are one step rather than three
// because they share the parsed deck. Steps communicate only through the
// report, and the raw deck is too large and too transient to belong there.
type AnalyzeStep struct {
	// thresholds are the numeric limits for the heuristic checkers.
	thresholds heuristic.Thresholds

	// imageMetadata enables EXIF extraction from local slide images.
	imageMetadata bool

	// logger for structured logging.
	logger *slog.Logger
}

// AnalyzeStepOption configures an AnalyzeStep.
type AnalyzeStepOption func(*AnalyzeStep)

// WithAnalyzeThresholds overrides the heuristic thresholds.
func WithAnalyzeThresholds(t heuristic.Thresholds) AnalyzeStepOption {
	return func(s *AnalyzeStep) {
		s.thresholds = t
	}
}

// WithImageMetadata enables or disables EXIF metadata checks.
func WithImageMetadata(enabled bool) AnalyzeStepOption {
	return func(s *AnalyzeStep) {
		s.imageMetadata = enabled
	}
}

// WithAnalyzeLogger sets a custom logger for the analyze step.
func WithAnalyzeLogger(logger *slog.Logger) AnalyzeStepOption {
	return func(s *AnalyzeStep) {
		s.logger = logger
	}
}

// NewAnalyzeStep creates a new analysis step.
func NewAnalyzeStep(opts ...AnalyzeStepOption) *AnalyzeStep {
	s := &AnalyzeStep{
		thresholds:    heuristic.DefaultThresholds(),
		imageMetadata: true,
		logger:        slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Name returns the step name.
func (s *AnalyzeStep) Name() string {
	return "analyze"
}

// Do executes the analysis step.
func (s *AnalyzeStep) Do(ctx context.Context, rep *model.DeckReport) error {
	d, err := deck.Load(rep.Presentation)
	if err != nil {
		return err
	}

	engine := heuristic.NewEngine(func(o *heuristic.Options) {
		o.Thresholds = s.thresholds
		o.EnableImageMetadata = s.imageMetadata
	})
	scorer := score.NewScorer()

	for i := range d.Slides {
		slide := &d.Slides[i]

		issues, err := engine.CheckSlide(ctx, &heuristic.SlideData{
			Slide:    slide,
			DeckPath: d.Path,
		})
		if err != nil {
			return err
		}

		rep.AddAnalysis(scorer.Score(slide, issues))
	}

	s.logger.Info("analysis completed",
		"slides", rep.SlideCount,
		"issues", rep.TotalIssues(),
		"average_score", rep.Summary.AverageScore,
	)

	return nil
}

// CaptureStep takes desktop and mobile screenshots of every slide via a
// headless browser and attaches the artifact paths to the report.
//
// Design decision: Capture failures are non-fatal. Screenshots are
// supporting evidence for a human reviewer; the heuristic audit works
// entirely from the HTML source, so a missing browser shouldn't kill
// the run.
type CaptureStep struct {
	// url is the navigable presentation URL (file:// for local decks).
	url string

	// outputDir is where PNG artifacts are written.
	outputDir string

	// settleDelay is the wait after navigation before capturing.
	settleDelay time.Duration

	// navigateTimeout bounds each page load.
	navigateTimeout time.Duration

	// logger for structured logging.
	logger *slog.Logger
}

// CaptureStepOption configures a CaptureStep.
type CaptureStepOption func(*CaptureStep)

// WithCaptureOutputDir sets the screenshot output directory.
func WithCaptureOutputDir(dir string) CaptureStepOption {
	return func(s *CaptureStep) {
		s.outputDir = dir
	}
}

// WithCaptureSettleDelay sets the wait before each screenshot.
func WithCaptureSettleDelay(d time.Duration) CaptureStepOption {
	return func(s *CaptureStep) {
		s.settleDelay = d
	}
}

// WithCaptureNavigateTimeout sets the per-navigation timeout.
func WithCaptureNavigateTimeout(d time.Duration) CaptureStepOption {
	return func(s *CaptureStep) {
		s.navigateTimeout = d
	}
}

// WithCaptureLogger sets a custom logger for the capture step.
func WithCaptureLogger(logger *slog.Logger) CaptureStepOption {
	return func(s *CaptureStep) {
		s.logger = logger
	}
}

// NewCaptureStep creates a new screenshot capture step for the given URL.
func NewCaptureStep(url string, opts ...CaptureStepOption) *CaptureStep {
	defaults := capture.DefaultOptions()
	s := &CaptureStep{
		url:             url,
		outputDir:       defaults.OutputDir,
		settleDelay:     defaults.SettleDelay,
		navigateTimeout: defaults.NavigateTimeout,
		logger:          slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Name returns the step name.
func (s *CaptureStep) Name() string {
	return "capture"
}

// Do executes the capture step.
func (s *CaptureStep) Do(ctx context.Context, rep *model.DeckReport) error {
	capturer := capture.NewCapturer(
		capture.WithOutputDir(s.outputDir),
		capture.WithSettleDelay(s.settleDelay),
		capture.WithNavigateTimeout(s.navigateTimeout),
	)

	shots, err := capturer.CaptureDeck(ctx, s.url)
	if err != nil {
		s.logger.Warn("screenshot capture failed, continuing without screenshots",
			"url", s.url,
			"error", err,
		)
		return nil
	}

	// Screenshot order follows slide order; the capture may see a
	// different slide count than the parser (e.g. nested fragments),
	// so attach only where both sides agree.
	for i := range shots {
		if i < len(rep.Slides) {
			shot := shots[i]
			rep.Slides[i].Screenshots = &shot
		}
	}
	rep.Screenshots = len(shots) > 0

	s.logger.Info("capture completed",
		"slides", len(shots),
		"output_dir", s.outputDir,
	)

	return nil
}

// ExpertPanelStep runs the deterministic expert panel over the slide
// analyses and records the consensus review in the report.
type ExpertPanelStep struct {
	// panel is the configured reviewer roster.
	panel *expert.Panel

	// logger for structured logging.
	logger *slog.Logger
}

// ExpertPanelStepOption configures an ExpertPanelStep.
type ExpertPanelStepOption func(*ExpertPanelStep)

// WithPanel replaces the default reviewer roster.
func WithPanel(panel *expert.Panel) ExpertPanelStepOption {
	return func(s *ExpertPanelStep) {
		s.panel = panel
	}
}

// WithExpertLogger sets a custom logger for the expert panel step.
func WithExpertLogger(logger *slog.Logger) ExpertPanelStepOption {
	return func(s *ExpertPanelStep) {
		s.logger = logger
	}
}

// NewExpertPanelStep creates a new expert panel step with the default roster.
func NewExpertPanelStep(opts ...ExpertPanelStepOption) *ExpertPanelStep {
	s := &ExpertPanelStep{
		panel:  expert.NewPanel(),
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Name returns the step name.
func (s *ExpertPanelStep) Name() string {
	return "expert_panel"
}

// Do executes the expert panel step.
func (s *ExpertPanelStep) Do(_ context.Context, rep *model.DeckReport) error {
	if len(rep.Slides) == 0 {
		s.logger.Debug("skipping expert panel, no slides analyzed")
		return nil
	}

	rep.ExpertPanel = s.panel.Review(rep.Slides)

	s.logger.Info("expert panel completed",
		"consensus_score", rep.ExpertPanel.ConsensusScore,
		"reviewers", len(rep.ExpertPanel.Reviews),
	)

	return nil
}

// PersistStep saves the completed report to the audit history database.
//
// Design decision: Persistence failures are non-fatal. The report has
// already been produced; losing the history row costs the compare
// command one data point, not the user their audit.
type PersistStep struct {
	// db is the audit history database. Nil disables persistence.
	db *database.AuditDB

	// logger for structured logging.
	logger *slog.Logger
}

// PersistStepOption configures a PersistStep.
type PersistStepOption func(*PersistStep)

// WithPersistLogger sets a custom logger for the persist step.
func WithPersistLogger(logger *slog.Logger) PersistStepOption {
	return func(s *PersistStep) {
		s.logger = logger
	}
}

// NewPersistStep creates a new persistence step.
func NewPersistStep(db *database.AuditDB, opts ...PersistStepOption) *PersistStep {
	s := &PersistStep{
		db:     db,
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Name returns the step name.
func (s *PersistStep) Name() string {
	return "persist"
}

// Do executes the persistence step.
func (s *PersistStep) Do(ctx context.Context, rep *model.DeckReport) error {
	if s.db == nil {
		s.logger.Debug("skipping persistence, no database configured")
		return nil
	}

	id, err := s.db.SaveRun(ctx, rep)
	if err != nil {
		s.logger.Warn("failed to save audit run", "error", err)
		return nil
	}

	s.logger.Debug("audit run saved", "run_id", id)
	return nil
}

// RetentionStep prunes old timestamped artifacts from the output
// directory, keeping the newest N runs per artifact family.
type RetentionStep struct {
	// dir is the artifact directory to sweep.
	dir string

	// retention is the sweep policy.
	retention report.Retention

	// logger for structured logging.
	logger *slog.Logger
}

// RetentionStepOption configures a RetentionStep.
type RetentionStepOption func(*RetentionStep)

// WithRetentionLogger sets a custom logger for the retention step.
func WithRetentionLogger(logger *slog.Logger) RetentionStepOption {
	return func(s *RetentionStep) {
		s.logger = logger
	}
}

// NewRetentionStep creates a new retention sweep step.
func NewRetentionStep(dir string, maxRuns int, opts ...RetentionStepOption) *RetentionStep {
	s := &RetentionStep{
		dir:       dir,
		retention: report.Retention{MaxRuns: maxRuns},
		logger:    slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Name returns the step name.
func (s *RetentionStep) Name() string {
	return "retention"
}

// Do executes the retention sweep.
func (s *RetentionStep) Do(_ context.Context, _ *model.DeckReport) error {
	if err := s.retention.Sweep(s.dir); err != nil {
		// Non-fatal: a failed sweep only delays cleanup to the next run.
		s.logger.Warn("retention sweep failed", "dir", s.dir, "error", err)
	}
	return nil
}

// DefaultPipeline creates a pipeline with the standard audit steps
// configured from the given config and target.
//
// Design decision: We provide a default pipeline because:
// 1. Most users want the full audit
// 2. Reduces boilerplate in CLI
// 3. Ensures consistent ordering
//
// Capture runs after analysis because attaching screenshot paths needs
// the slide list the analyze step builds. The order is analyze, capture,
// expert panel, persist, retention.
func DefaultPipeline(cfg *config.Config, target resolve.Target, db *database.AuditDB, pipelineOpts ...Option) *Pipeline {
	p := New(pipelineOpts...)

	analyzeOpts := []AnalyzeStepOption{
		WithAnalyzeThresholds(ThresholdsFromConfig(cfg)),
		WithImageMetadata(!cfg.NoImageMetadata),
	}
	p.AddStep(NewAnalyzeStep(analyzeOpts...))

	if cfg.Screenshots && target.URL != "" {
		p.AddStep(NewCaptureStep(target.URL,
			WithCaptureOutputDir(cfg.ScreenshotDir()),
			WithCaptureSettleDelay(cfg.SettleDelay),
			WithCaptureNavigateTimeout(cfg.NavigateTimeout),
		))
	}

	if cfg.ExpertPanel {
		p.AddStep(NewExpertPanelStep())
	}

	if cfg.SaveToDB {
		p.AddStep(NewPersistStep(db))
	}

	if cfg.RetentionRuns > 0 {
		p.AddStep(NewRetentionStep(cfg.OutputDir, cfg.RetentionRuns))
	}

	return p
}

// ThresholdsFromConfig builds heuristic thresholds from the defaults
// overlaid with any non-zero values from the config file.
func ThresholdsFromConfig(cfg *config.Config) heuristic.Thresholds {
	t := heuristic.DefaultThresholds()
	if cfg == nil || cfg.FileConfig == nil {
		return t
	}

	f := cfg.FileConfig.Thresholds
	if f.MinBodyRem > 0 {
		t.MinBodyRem = f.MinBodyRem
	}
	if f.MinBodyPx > 0 {
		t.MinBodyPx = f.MinBodyPx
	}
	if f.MinPaddingRem > 0 {
		t.MinPaddingRem = f.MinPaddingRem
	}
	if f.MinPaddingPx > 0 {
		t.MinPaddingPx = f.MinPaddingPx
	}
	if f.MaxFixedHeightPx > 0 {
		t.MaxFixedHeightPx = f.MaxFixedHeightPx
	}
	if f.MinOverlayAlpha > 0 {
		t.MinOverlayAlpha = f.MinOverlayAlpha
	}
	if f.MaxBullets > 0 {
		t.MaxBullets = f.MaxBullets
	}
	if f.MaxWords > 0 {
		t.MaxWords = f.MaxWords
	}
	return t
}
