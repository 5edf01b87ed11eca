package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/deckaudit/deckaudit/internal/config"
	"github.com/deckaudit/deckaudit/internal/database"
	"github.com/deckaudit/deckaudit/internal/log"
	"github.com/deckaudit/deckaudit/internal/model"
	"github.com/deckaudit/deckaudit/internal/pipeline"
	"github.com/deckaudit/deckaudit/internal/report"
	"github.com/deckaudit/deckaudit/internal/resolve"
	"github.com/spf13/cobra"
)

// NewScanCmd creates the scan command.
func NewScanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan [presentation]",
		Short: "Audit HTML presentations for quality defects",
		Long: `Scan analyzes HTML slide presentations and scores every slide.

It splits the presentation into slides, runs heuristic checks for:
- Readability (undersized text, dark-on-dark contrast, thin overlays)
- Layout (fixed heights that overflow, rigid grid rows)
- Mobile (fixed pixel widths and font sizes)
- Accessibility (missing alt text, skipped heading levels)
- Cognitive load (too many bullets, too many words)

Each slide gets per-category scores and a weighted overall score.

Examples:
  # Audit a single presentation
  deckaudit scan slides/presentation.html

  # Audit using the week/lesson shorthand
  deckaudit scan "week1 lesson2"

  # Audit every lesson in week 1
  deckaudit scan --week 1

  # Audit the whole course with screenshots and the expert panel
  deckaudit scan --all --screenshots --expert-panel

  # Output JSON report to a file
  deckaudit scan --json -o analysis/report.json presentation.html

Configuration file (.deckaudit) example:
  courseRoot: /path/to/course
  targetScore: 90
  thresholds:
    minBodyRem: 1.4
    maxBullets: 5`,
		Args: cobra.ArbitraryArgs,
		RunE: runScanCmd,
	}

	addScanFlags(cmd)

	return cmd
}

// addScanFlags registers the flags shared by the scan and fix commands.
func addScanFlags(cmd *cobra.Command) {
	// Target selection flags
	cmd.Flags().StringP("course-root", "r", "",
		"Course content root for weekN lessonM shorthand targets")
	cmd.Flags().IntP("week", "w", 0,
		"Audit every lesson in the given week")
	cmd.Flags().BoolP("all", "a", false,
		"Audit every lesson in the course tree")

	// Audit behavior flags
	cmd.Flags().BoolP("screenshots", "s", false,
		"Capture desktop and mobile screenshots of every slide (requires a Chrome/Chromium install)")
	cmd.Flags().BoolP("expert-panel", "e", false,
		"Run the deterministic expert panel review")
	cmd.Flags().Bool("no-image-metadata", false,
		"Skip EXIF metadata checks on slide images")

	// Batch auditing flags
	cmd.Flags().IntP("batch", "b", config.DefaultBatchSize,
		"Number of concurrent audits for multi-target runs")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .deckaudit in current or home directory)")

	// Report flags
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown and --html)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json and --html)")
	cmd.Flags().Bool("html", false,
		"Output HTML report (mutually exclusive with --json and --markdown)")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")

	// Artifact flags
	cmd.Flags().StringP("output-dir", "d", "",
		"Directory for run artifacts (screenshots, reports)")
	cmd.Flags().Int("retention", config.DefaultRetentionRuns,
		"Timestamped artifact runs to keep per presentation (0 disables the sweep)")
}

// runScanCmd executes the scan command.
func runScanCmd(cmd *cobra.Command, args []string) error {
	// Build config from flags
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	// Set up structured logging
	verbose := getVerboseFlag(cmd)
	logger := log.NewLogger(os.Stderr, verbose)
	slog.SetDefault(logger)

	// Set up context with signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle interrupt signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, cancelling...")
		cancel()
	}()

	return runScan(ctx, cfg, logger)
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// buildConfig creates a Config from cobra command flags.
// The config file is applied first, so flags win over file values.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()

	var err error

	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	// Load the config file. If the user explicitly specified a path,
	// error if not found. Otherwise silently run with defaults.
	explicitConfigPath := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)

	if configPath != "" {
		file, err := config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
		file.ApplyTo(cfg)
	} else if explicitConfigPath {
		return nil, fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
	}

	// Flags that also exist in the config file only override when set.
	if cmd.Flags().Changed("course-root") {
		cfg.CourseRoot, err = cmd.Flags().GetString("course-root")
		if err != nil {
			return nil, err
		}
	}
	if cmd.Flags().Changed("output-dir") {
		cfg.OutputDir, err = cmd.Flags().GetString("output-dir")
		if err != nil {
			return nil, err
		}
	}
	if cmd.Flags().Changed("retention") {
		cfg.RetentionRuns, err = cmd.Flags().GetInt("retention")
		if err != nil {
			return nil, err
		}
	}

	cfg.Screenshots, err = cmd.Flags().GetBool("screenshots")
	if err != nil {
		return nil, err
	}

	cfg.ExpertPanel, err = cmd.Flags().GetBool("expert-panel")
	if err != nil {
		return nil, err
	}

	cfg.NoImageMetadata, err = cmd.Flags().GetBool("no-image-metadata")
	if err != nil {
		return nil, err
	}

	cfg.BatchSize, err = cmd.Flags().GetInt("batch")
	if err != nil {
		return nil, err
	}

	cfg.JSONReport, err = cmd.Flags().GetBool("json")
	if err != nil {
		return nil, err
	}

	cfg.MarkdownReport, err = cmd.Flags().GetBool("markdown")
	if err != nil {
		return nil, err
	}

	cfg.HTMLReport, err = cmd.Flags().GetBool("html")
	if err != nil {
		return nil, err
	}

	cfg.ReportFile, err = cmd.Flags().GetString("output")
	if err != nil {
		return nil, err
	}

	cfg.Verbose = getVerboseFlag(cmd)

	// Always save to database using XDG data directory
	cfg.SaveToDB = true
	cfg.DBDir = config.XDGDataDir()

	// Expand --week/--all selectors into targets, otherwise use args.
	week, err := cmd.Flags().GetInt("week")
	if err != nil {
		return nil, err
	}
	all, err := cmd.Flags().GetBool("all")
	if err != nil {
		return nil, err
	}

	switch {
	case all:
		cfg.Targets = newResolver(cfg).AllWeeks()
		if len(cfg.Targets) == 0 {
			return nil, fmt.Errorf("no presentations found under course root %q", cfg.CourseRoot)
		}
	case week > 0:
		cfg.Targets = newResolver(cfg).WeekLessons(week)
		if len(cfg.Targets) == 0 {
			return nil, fmt.Errorf("no presentations found for week %d under course root %q", week, cfg.CourseRoot)
		}
	default:
		cfg.Targets = args
	}

	return cfg, nil
}

// newResolver builds a target resolver from the config, including any
// lesson-name overrides from the config file.
func newResolver(cfg *config.Config) *resolve.Resolver {
	opts := []resolve.Option{resolve.WithCourseRoot(cfg.CourseRoot)}
	if cfg.FileConfig != nil && len(cfg.FileConfig.Lessons) > 0 {
		names := resolve.DefaultLessonNames()
		for lesson, name := range cfg.FileConfig.Lessons {
			names[lesson] = name
		}
		opts = append(opts, resolve.WithLessonNames(names))
	}
	return resolve.New(opts...)
}

// runScan executes the audit.
func runScan(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	if len(cfg.Targets) == 0 {
		return errors.New("no targets provided (specify presentations as arguments, or use --week/--all)")
	}

	logger.Info("starting audit",
		"targets", cfg.Targets,
		"screenshots", cfg.Screenshots,
		"expertPanel", cfg.ExpertPanel,
		"batchSize", cfg.BatchSize,
	)

	// Open database connection if saving is enabled
	var db *database.AuditDB
	if cfg.SaveToDB {
		var err error
		db, err = database.Open(cfg.DBDir, database.DefaultOptions())
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close()
		logger.Info("database opened", "dir", cfg.DBDir)
	}

	// Resolve every target up front so bad targets fail before any work.
	resolver := newResolver(cfg)
	targets := make([]resolve.Target, 0, len(cfg.Targets))
	for _, raw := range cfg.Targets {
		target, err := resolver.Resolve(raw)
		if err != nil {
			return err
		}
		if target.Remote {
			return fmt.Errorf("remote target %q: scan reads local HTML; use 'deckaudit capture' for remote presentations", raw)
		}
		targets = append(targets, target)
	}

	// Use batch processor for parallel auditing if multiple targets
	if len(targets) > 1 && cfg.BatchSize > 1 {
		return runBatchScan(ctx, cfg, targets, db, logger)
	}

	// Single target or sequential auditing
	return runSequentialScan(ctx, cfg, targets, db, logger)
}

// runSequentialScan audits targets one at a time.
func runSequentialScan(ctx context.Context, cfg *config.Config, targets []resolve.Target, db *database.AuditDB, logger *slog.Logger) error {
	for _, target := range targets {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		p := pipeline.DefaultPipeline(cfg, target, db,
			pipeline.WithLogger(logger),
			pipeline.WithContinueOnError(true),
		)

		auditReport := model.NewDeckReport(target.Path)

		fmt.Printf("Auditing %s...\n", target.Path)
		startTime := time.Now()

		// Execute the pipeline
		if err := p.Execute(ctx, auditReport); err != nil {
			logger.Error("audit failed", "target", target.Path, "error", err)
			fmt.Fprintf(os.Stderr, "Audit error for %s: %v\n", target.Path, err)
			continue
		}

		elapsed := time.Since(startTime)
		fmt.Printf("Audit completed in %s\n\n", elapsed.Round(time.Millisecond))

		// Generate and output report
		if err := outputReport(cfg, auditReport); err != nil {
			logger.Error("report failed", "target", target.Path, "error", err)
		}
	}

	return nil
}

// runBatchScan audits multiple targets concurrently using BatchProcessor.
func runBatchScan(ctx context.Context, cfg *config.Config, targets []resolve.Target, db *database.AuditDB, logger *slog.Logger) error {
	fmt.Printf("Starting batch audit of %d presentations (concurrency: %d)...\n\n",
		len(targets), cfg.BatchSize)

	startTime := time.Now()

	// The factory receives the presentation path; map it back to its
	// resolved target so the capture step keeps its URL.
	byPath := make(map[string]resolve.Target, len(targets))
	paths := make([]string, 0, len(targets))
	for _, target := range targets {
		byPath[target.Path] = target
		paths = append(paths, target.Path)
	}

	bp := pipeline.NewBatchProcessor(
		func(path string) *pipeline.Pipeline {
			return pipeline.DefaultPipeline(cfg, byPath[path], db,
				pipeline.WithLogger(logger),
				pipeline.WithContinueOnError(true),
			)
		},
		pipeline.WithConcurrency(cfg.BatchSize),
		pipeline.WithBatchLogger(logger),
	)

	// Process with callback for streaming output
	var mu sync.Mutex
	err := bp.ProcessBatchWithCallback(ctx, paths, func(auditReport *model.DeckReport, index int) {
		mu.Lock()
		defer mu.Unlock()

		fmt.Printf("[%d/%d] Audit completed: %s (average %.0f)\n",
			index+1, len(paths), auditReport.Presentation, auditReport.Summary.AverageScore)

		// Generate and output report
		if err := outputReport(cfg, auditReport); err != nil {
			logger.Error("report failed", "target", auditReport.Presentation, "error", err)
		}
	})

	elapsed := time.Since(startTime)
	fmt.Printf("\nBatch audit completed in %s\n", elapsed.Round(time.Millisecond))

	return err
}

// outputReport outputs the audit report in the requested format.
func outputReport(cfg *config.Config, auditReport *model.DeckReport) error {
	// Determine output destination
	var output *os.File
	if cfg.ReportFile != "" {
		// Create directories if they don't exist
		dir := filepath.Dir(cfg.ReportFile)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
		}

		// Create/overwrite the output file with owner-only permissions
		f, err := os.OpenFile(cfg.ReportFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		output = f
	} else {
		output = os.Stdout
	}

	// JSON output (full report with all data)
	if cfg.JSONReport {
		writer := report.NewFullJSONWriter(output, getVersion(), report.WithPrettyPrint())
		_, err := writer.Write(auditReport)
		return err
	}

	// Markdown output
	if cfg.MarkdownReport {
		writer := report.NewMarkdownWriter(output)
		_, err := writer.Write(auditReport)
		return err
	}

	// HTML output
	if cfg.HTMLReport {
		writer := report.NewHTMLWriter(output)
		_, err := writer.Write(auditReport)
		return err
	}

	// Human-readable report (default)
	writer := report.NewSimpleWriter(output, report.WithVerbose(cfg.Verbose))
	_, err := writer.Write(auditReport)
	return err
}
