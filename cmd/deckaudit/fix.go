package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/deckaudit/deckaudit/internal/config"
	"github.com/deckaudit/deckaudit/internal/log"
	"github.com/deckaudit/deckaudit/internal/model"
	"github.com/deckaudit/deckaudit/internal/pipeline"
	"github.com/spf13/cobra"
)

// NewFixCmd creates the fix command.
func NewFixCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fix [presentation]",
		Short: "Generate and apply fixes until the deck reaches its target score",
		Long: `Fix audits a presentation, generates fixes for the mechanical defects
it finds, applies them, and re-audits. The loop repeats until the deck
reaches the target score or the iteration bound is hit.

Fixes include:
- Upgrading undersized font literals (e.g. 0.9rem to 1.25rem)
- Injecting contrast CSS for dark-on-dark slides
- Replacing fixed pixel heights and grid rows with flexible sizing
- Raising thin overlay opacity
- Adding empty alt attributes to unannotated images

Before the first modification the original file is copied to a
timestamped backup next to it. Every fix reports its outcome: applied,
not found (the target text was absent), or failed. With --dry-run the
file is never touched; the plan is printed and written as JSON under
the output directory instead.

Examples:
  # Fix a presentation with default target (85) and iterations (3)
  deckaudit fix presentation.html

  # Preview the fixes without touching the file
  deckaudit fix --dry-run presentation.html

  # Push toward a higher bar with more passes
  deckaudit fix --target 95 --iterations 5 presentation.html`,
		Args: cobra.MinimumNArgs(1),
		RunE: runFixCmd,
	}

	// Fix loop flags
	cmd.Flags().BoolP("dry-run", "n", false,
		"Preview fixes without modifying the presentation")
	cmd.Flags().IntP("target", "t", config.DefaultTargetScore,
		"Average score at which the loop stops")
	cmd.Flags().IntP("iterations", "i", config.DefaultMaxIterations,
		"Maximum number of fix passes")

	// Shared flags
	cmd.Flags().StringP("course-root", "r", "",
		"Course content root for weekN lessonM shorthand targets")
	cmd.Flags().StringP("output-dir", "d", "",
		"Directory for the dry-run fix plan JSON")
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .deckaudit in current or home directory)")
	cmd.Flags().Bool("no-image-metadata", false,
		"Skip EXIF metadata checks on slide images")

	return cmd
}

// runFixCmd executes the fix command.
func runFixCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildFixConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	verbose := getVerboseFlag(cmd)
	logger := log.NewLogger(os.Stderr, verbose)
	slog.SetDefault(logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, cancelling...")
		cancel()
	}()

	return runFix(ctx, cfg, logger)
}

// buildFixConfig creates a Config from the fix command's flags.
func buildFixConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()

	var err error

	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

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

	if cmd.Flags().Changed("course-root") {
		cfg.CourseRoot, err = cmd.Flags().GetString("course-root")
		if err != nil {
			return nil, err
		}
	}
	if cmd.Flags().Changed("target") {
		cfg.TargetScore, err = cmd.Flags().GetInt("target")
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

	cfg.MaxIterations, err = cmd.Flags().GetInt("iterations")
	if err != nil {
		return nil, err
	}

	cfg.DryRun, err = cmd.Flags().GetBool("dry-run")
	if err != nil {
		return nil, err
	}

	cfg.NoImageMetadata, err = cmd.Flags().GetBool("no-image-metadata")
	if err != nil {
		return nil, err
	}

	cfg.Verbose = getVerboseFlag(cmd)
	cfg.Targets = args

	return cfg, nil
}

// runFix executes the fix loop for every target.
func runFix(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	resolver := newResolver(cfg)

	for _, raw := range cfg.Targets {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		target, err := resolver.Resolve(raw)
		if err != nil {
			return err
		}
		if target.Remote {
			return fmt.Errorf("remote target %q: fix rewrites local HTML files", raw)
		}

		loop := pipeline.NewFixLoop(
			pipeline.WithTargetScore(float64(cfg.TargetScore)),
			pipeline.WithMaxIterations(cfg.MaxIterations),
			pipeline.WithDryRun(cfg.DryRun),
			pipeline.WithFixThresholds(pipeline.ThresholdsFromConfig(cfg)),
			pipeline.WithFixImageMetadata(!cfg.NoImageMetadata),
			pipeline.WithFixLogger(logger),
		)

		if cfg.DryRun {
			fmt.Printf("Previewing fixes for %s (dry run)...\n", target.Path)
		} else {
			fmt.Printf("Fixing %s (target %d, max %d passes)...\n",
				target.Path, cfg.TargetScore, cfg.MaxIterations)
		}

		outcome, err := loop.Run(ctx, target.Path)
		if err != nil {
			return err
		}

		printFixOutcome(outcome, cfg.DryRun)

		// A dry run writes the plan as a JSON artifact instead of
		// mutating the presentation.
		if cfg.DryRun && len(outcome.Plans) > 0 {
			planPath, err := writeFixPlan(cfg.OutputDir, outcome.Plans[0])
			if err != nil {
				return err
			}
			fmt.Printf("Fix plan written to %s\n", planPath)
		}
	}

	return nil
}

// writeFixPlan writes a dry-run fix plan as timestamped JSON under dir.
func writeFixPlan(dir string, plan *model.FixPlan) (string, error) {
	if err := os.MkdirAll(dir, 0750); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("fix-plan-%d.json", time.Now().UnixMilli()))
	data, err := json.MarshalIndent(plan, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode fix plan: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return "", fmt.Errorf("failed to write fix plan: %w", err)
	}
	return path, nil
}

// printFixOutcome prints the result of one fix loop run.
func printFixOutcome(outcome *pipeline.FixOutcome, dryRun bool) {
	fmt.Printf("\nInitial average score: %.0f\n", outcome.Initial.Summary.AverageScore)

	for i, plan := range outcome.Plans {
		if dryRun {
			fmt.Printf("Pass %d: %d fixes would be attempted\n", i+1, len(plan.Fixes))
			for _, planned := range plan.Fixes {
				fmt.Printf("  [%s] %s\n", planned.PriorityText, planned.Description)
			}
			continue
		}

		fmt.Printf("Pass %d: %d applied, %d not found, %d failed\n",
			i+1, plan.Applied, plan.NotFound, plan.Failed)
		if plan.BackupPath != "" {
			fmt.Printf("  backup: %s\n", plan.BackupPath)
		}
		for _, result := range plan.Outcomes {
			marker := "+"
			if result.Status != model.FixApplied {
				marker = "-"
			}
			fmt.Printf("  [%s] %-10s %s\n", marker, result.Status, result.Fix.Description)
			if result.Error != "" {
				fmt.Printf("      error: %s\n", result.Error)
			}
		}
	}

	if dryRun {
		fmt.Println("\nDry run: no files were modified.")
		return
	}

	if outcome.Iterations == 0 {
		fmt.Println("No fixes needed.")
		return
	}

	fmt.Printf("Final average score:   %.0f\n", outcome.Final.Summary.AverageScore)
	if outcome.TargetReached {
		fmt.Println("Target reached.")
	} else {
		fmt.Println("Target not reached; remaining issues need manual attention.")
	}
}
