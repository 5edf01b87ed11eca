package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/deckaudit/deckaudit/internal/capture"
	"github.com/deckaudit/deckaudit/internal/config"
	"github.com/deckaudit/deckaudit/internal/log"
	"github.com/deckaudit/deckaudit/internal/resolve"
	"github.com/spf13/cobra"
)

// NewCaptureCmd creates the capture command.
func NewCaptureCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "capture [presentation]",
		Short: "Capture desktop and mobile screenshots of every slide",
		Long: `Capture navigates the presentation in a headless browser and saves a
desktop (1440x900) and mobile (390x844) screenshot of every slide.

Screenshots are evidence for human review; the scan command audits the
HTML source directly and works without a browser. Capture requires a
local Chrome or Chromium installation.

Remote http(s) URLs are supported, which makes this the right command
for presentations that are only published, not checked out locally.

Examples:
  # Capture a local presentation
  deckaudit capture slides/presentation.html

  # Capture a published presentation
  deckaudit capture https://example.com/slides/

  # Write screenshots to a custom directory
  deckaudit capture -d artifacts/screens presentation.html`,
		Args: cobra.ExactArgs(1),
		RunE: runCaptureCmd,
	}

	cmd.Flags().StringP("output-dir", "d", "",
		"Directory for screenshot PNG files")
	cmd.Flags().StringP("course-root", "r", "",
		"Course content root for weekN lessonM shorthand targets")
	cmd.Flags().Duration("settle-delay", config.DefaultSettleDelay,
		"Wait after slide navigation before capturing")
	cmd.Flags().Duration("navigate-timeout", config.DefaultNavigateTimeout,
		"Timeout for each page navigation")

	return cmd
}

// runCaptureCmd executes the capture command.
func runCaptureCmd(cmd *cobra.Command, args []string) error {
	verbose := getVerboseFlag(cmd)
	logger := log.NewLogger(os.Stderr, verbose)
	slog.SetDefault(logger)

	courseRoot, err := cmd.Flags().GetString("course-root")
	if err != nil {
		return err
	}

	resolver := resolve.New(resolve.WithCourseRoot(courseRoot))
	target, err := resolver.Resolve(args[0])
	if err != nil {
		return err
	}

	opts := []capture.Option{}

	outputDir, err := cmd.Flags().GetString("output-dir")
	if err != nil {
		return err
	}
	if outputDir != "" {
		opts = append(opts, capture.WithOutputDir(outputDir))
	}

	settleDelay, err := cmd.Flags().GetDuration("settle-delay")
	if err != nil {
		return err
	}
	opts = append(opts, capture.WithSettleDelay(settleDelay))

	navigateTimeout, err := cmd.Flags().GetDuration("navigate-timeout")
	if err != nil {
		return err
	}
	opts = append(opts, capture.WithNavigateTimeout(navigateTimeout))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, cancelling...")
		cancel()
	}()

	fmt.Printf("Capturing %s...\n", target.URL)

	capturer := capture.NewCapturer(opts...)
	shots, err := capturer.CaptureDeck(ctx, target.URL)
	if err != nil {
		return fmt.Errorf("capture failed: %w", err)
	}

	fmt.Printf("Captured %d slides:\n", len(shots))
	for i, shot := range shots {
		fmt.Printf("  slide %d:\n    desktop: %s\n    mobile:  %s\n",
			i+1, shot.DesktopPath, shot.MobilePath)
	}

	return nil
}
