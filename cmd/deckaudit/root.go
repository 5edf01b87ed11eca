// Package main provides the entry point for the deckaudit CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for deckaudit.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deckaudit",
		Short: "Quality auditing tool for HTML slide presentations",
		Long: `deckaudit analyzes HTML slide presentations for quality defects.
It checks readability, contrast, layout overflow, accessibility, and
cognitive load, scores every slide against a weighted rubric, and can
generate and apply fixes for the mechanical defects it finds.

Targets can be file paths, http(s) URLs, or the "weekN lessonM"
shorthand resolved against a course content tree.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewScanCmd())
	cmd.AddCommand(NewFixCmd())
	cmd.AddCommand(NewCaptureCmd())
	cmd.AddCommand(NewCompareCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
