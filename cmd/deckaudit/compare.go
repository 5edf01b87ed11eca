package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/deckaudit/deckaudit/internal/config"
	"github.com/deckaudit/deckaudit/internal/database"
	"github.com/deckaudit/deckaudit/internal/model"
	"github.com/spf13/cobra"
)

// Constants for score direction and summary messages.
const (
	directionWorsened  = "worsened"
	directionImproved  = "improved"
	directionUnchanged = "unchanged"
	noIssuesMessage    = "No issues"
)

// NewCompareCmd creates the compare command.
// This command compares audit results with historical data stored in the database.
func NewCompareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare [presentation]",
		Short: "Compare audit results with historical data",
		Long: `Compare displays differences between the current and previous audit runs.

This command retrieves historical audit data from the database and shows:
- Score changes per slide and for the deck average
- Issue kinds that appeared since the previous audit
- Issue kinds that were resolved

The comparison requires at least two audits in the database for the
specified presentation. Use 'deckaudit scan' to audit and save results.

Examples:
  # Compare the latest two audits of a presentation
  deckaudit compare slides/presentation.html

  # List all audit history for a presentation
  deckaudit compare --list slides/presentation.html

  # Compare with a specific historical run by ID
  deckaudit compare --with-run-id 5 slides/presentation.html

  # Compare with the first audit after a specific date
  deckaudit compare --since "2026-01-01" slides/presentation.html

  # Output comparison in JSON format
  deckaudit compare --json slides/presentation.html

  # List all audited presentations in the database
  deckaudit compare --list-presentations`,
		Args: cobra.MaximumNArgs(1),
		RunE: runCompareCmd,
	}

	// History listing flags
	cmd.Flags().BoolP("list", "l", false,
		"List audit history for the specified presentation")
	cmd.Flags().BoolP("list-presentations", "L", false,
		"List all audited presentations in the database")

	// Comparison target flags
	cmd.Flags().Int64P("with-run-id", "i", 0,
		"Compare with a specific run by ID (use --list to see available IDs)")
	cmd.Flags().StringP("since", "s", "",
		"Compare with the first audit after this date (format: YYYY-MM-DD)")

	// Output format flags
	cmd.Flags().BoolP("json", "j", false,
		"Output comparison result in JSON format")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output comparison result in Markdown format")

	return cmd
}

// runCompareCmd executes the compare command.
func runCompareCmd(cmd *cobra.Command, args []string) error {
	// Handle --list-presentations flag first (requires database but no target)
	listPresentations, err := cmd.Flags().GetBool("list-presentations")
	if err != nil {
		return err
	}

	// Validate arguments before opening database (unless --list-presentations)
	var presentation string
	if !listPresentations {
		if len(args) == 0 {
			return errors.New("presentation is required (use --list-presentations to see available presentations)")
		}
		presentation = args[0]
	}

	// Use XDG data directory for database
	dbDir := config.XDGDataDir()

	// Open database
	db, err := database.Open(dbDir, database.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	ctx := context.Background()

	// Handle --list-presentations flag
	if listPresentations {
		return listAuditedPresentations(ctx, db)
	}

	// Handle --list flag
	listHistory, err := cmd.Flags().GetBool("list")
	if err != nil {
		return err
	}
	if listHistory {
		return listRunHistory(ctx, db, presentation)
	}

	// Get output format flags
	jsonOutput, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}
	markdownOutput, err := cmd.Flags().GetBool("markdown")
	if err != nil {
		return err
	}

	// Get comparison target flags
	withRunID, err := cmd.Flags().GetInt64("with-run-id")
	if err != nil {
		return err
	}
	sinceDate, err := cmd.Flags().GetString("since")
	if err != nil {
		return err
	}

	// Perform comparison
	return runComparison(ctx, db, presentation, withRunID, sinceDate, jsonOutput, markdownOutput)
}

// listAuditedPresentations lists all presentations with audit records.
func listAuditedPresentations(ctx context.Context, db *database.AuditDB) error {
	presentations, err := db.ListPresentations(ctx)
	if err != nil {
		return fmt.Errorf("failed to list presentations: %w", err)
	}

	if len(presentations) == 0 {
		fmt.Println("No audited presentations found in the database.")
		fmt.Println("\nUse 'deckaudit scan <presentation>' to audit a presentation.")
		return nil
	}

	fmt.Printf("Audited presentations (%d):\n\n", len(presentations))
	for _, p := range presentations {
		fmt.Printf("  • %s\n", p)
	}
	fmt.Println("\nUse 'deckaudit compare --list <presentation>' to see audit history.")

	return nil
}

// listRunHistory lists all audit records for a specific presentation.
func listRunHistory(ctx context.Context, db *database.AuditDB, presentation string) error {
	runs, err := db.GetRunHistory(ctx, presentation)
	if err != nil {
		return fmt.Errorf("failed to get audit history: %w", err)
	}

	if len(runs) == 0 {
		fmt.Printf("No audit history found for %s\n", presentation)
		fmt.Println("\nUse 'deckaudit scan' to audit this presentation.")
		return nil
	}

	fmt.Printf("Audit history for %s (%d runs):\n\n", presentation, len(runs))
	fmt.Printf("  %-6s  %-20s  %-8s  %-7s  %s\n", "ID", "Date", "Average", "Slides", "Issues")
	fmt.Println("  " + strings.Repeat("-", 64))

	for _, meta := range runs {
		fmt.Printf("  %-6d  %-20s  %-8.0f  %-7d  %s\n",
			meta.ID,
			meta.Timestamp.Format("2006-01-02 15:04:05"),
			meta.AverageScore,
			meta.SlideCount,
			formatSeveritySummary(meta.SeveritySummary),
		)
	}

	fmt.Println("\nUse 'deckaudit compare <presentation>' to compare the latest two audits.")
	fmt.Println("Use 'deckaudit compare --with-run-id <id> <presentation>' to compare with a specific run.")

	return nil
}

// formatSeveritySummary formats the severity summary map into a short string.
func formatSeveritySummary(summary map[string]int) string {
	if summary == nil {
		return "N/A"
	}

	var parts []string
	if v := summary["critical"]; v > 0 {
		parts = append(parts, fmt.Sprintf("C:%d", v))
	}
	if v := summary["high"]; v > 0 {
		parts = append(parts, fmt.Sprintf("H:%d", v))
	}
	if v := summary["medium"]; v > 0 {
		parts = append(parts, fmt.Sprintf("M:%d", v))
	}
	if v := summary["low"]; v > 0 {
		parts = append(parts, fmt.Sprintf("L:%d", v))
	}
	if v := summary["info"]; v > 0 {
		parts = append(parts, fmt.Sprintf("I:%d", v))
	}

	if len(parts) == 0 {
		return noIssuesMessage
	}
	return strings.Join(parts, " ")
}

// runComparison performs the actual comparison between audit runs.
func runComparison(ctx context.Context, db *database.AuditDB, presentation string, withRunID int64, sinceDate string, jsonOutput, markdownOutput bool) error {
	// Get run metadata to pick the two runs to compare
	history, err := db.GetRunHistory(ctx, presentation)
	if err != nil {
		return fmt.Errorf("failed to get audit history: %w", err)
	}

	if len(history) == 0 {
		return fmt.Errorf("no audit history found for %s", presentation)
	}

	if len(history) < 2 && withRunID == 0 && sinceDate == "" {
		return fmt.Errorf("at least 2 audits are required for comparison (found %d)", len(history))
	}

	// Latest run is always the current one
	currentMeta := history[0]

	var previousID int64
	switch {
	case withRunID > 0:
		previousID = withRunID
	case sinceDate != "":
		parsedDate, err := time.Parse("2006-01-02", sinceDate)
		if err != nil {
			return fmt.Errorf("invalid date format (use YYYY-MM-DD): %w", err)
		}

		// History is newest first; walk backwards to find the oldest
		// run at or after the date.
		for i := len(history) - 1; i >= 0; i-- {
			if !history[i].Timestamp.Before(parsedDate) {
				previousID = history[i].ID
				break
			}
		}
		if previousID == 0 {
			return fmt.Errorf("no audits found since %s", sinceDate)
		}
		if previousID == currentMeta.ID {
			return fmt.Errorf("only one audit found since %s; at least 2 audits are required for comparison", sinceDate)
		}
	default:
		previousID = history[1].ID
	}

	currentReport, err := db.GetRunByID(ctx, currentMeta.ID)
	if err != nil {
		return fmt.Errorf("failed to load current run: %w", err)
	}

	previousReport, err := db.GetRunByID(ctx, previousID)
	if err != nil {
		return fmt.Errorf("failed to get run with ID %d: %w", previousID, err)
	}
	if previousReport == nil {
		return fmt.Errorf("run with ID %d not found", previousID)
	}
	if previousReport.Presentation != presentation {
		return fmt.Errorf("run ID %d belongs to %s, not %s", previousID, previousReport.Presentation, presentation)
	}

	// Generate comparison result
	comparison := compareReports(previousReport, currentReport)

	// Output the result
	if jsonOutput {
		return outputComparisonJSON(comparison)
	}
	if markdownOutput {
		return outputComparisonMarkdown(comparison)
	}
	return outputComparisonText(comparison)
}

// ComparisonResult holds the result of comparing two audit runs.
type ComparisonResult struct {
	// Presentation is the audited presentation path.
	Presentation string `json:"presentation"`

	// PreviousRun contains metadata about the previous audit.
	PreviousRun RunSummary `json:"previous_run"`

	// CurrentRun contains metadata about the current audit.
	CurrentRun RunSummary `json:"current_run"`

	// ScoreDelta is the change in deck average score.
	ScoreDelta float64 `json:"score_delta"`

	// Direction is "improved", "worsened", or "unchanged".
	Direction string `json:"direction"`

	// SlideChanges lists slides whose overall score changed.
	SlideChanges []SlideChange `json:"slide_changes,omitempty"`

	// NewIssueKinds maps issue kinds that increased to their count delta.
	NewIssueKinds map[string]int `json:"new_issue_kinds,omitempty"`

	// ResolvedIssueKinds maps issue kinds that decreased to their count delta.
	ResolvedIssueKinds map[string]int `json:"resolved_issue_kinds,omitempty"`
}

// RunSummary contains metadata about one audit run for comparison display.
type RunSummary struct {
	// DateAudited is when the audit was performed.
	DateAudited time.Time `json:"date_audited"`

	// AverageScore is the deck average overall score.
	AverageScore float64 `json:"average_score"`

	// SlideCount is the number of slides analyzed.
	SlideCount int `json:"slide_count"`

	// TotalIssues is the total number of issues across slides.
	TotalIssues int `json:"total_issues"`

	// CriticalCount is the number of critical issues.
	CriticalCount int `json:"critical_count"`

	// HighCount is the number of high severity issues.
	HighCount int `json:"high_count"`

	// MediumCount is the number of medium severity issues.
	MediumCount int `json:"medium_count"`

	// LowCount is the number of low severity issues.
	LowCount int `json:"low_count"`

	// InfoCount is the number of informational issues.
	InfoCount int `json:"info_count"`
}

// SlideChange describes one slide's score movement between runs.
type SlideChange struct {
	// SlideNumber is the 1-based slide index.
	SlideNumber int `json:"slide_number"`

	// PreviousScore is the slide's overall score in the previous run.
	PreviousScore float64 `json:"previous_score"`

	// CurrentScore is the slide's overall score in the current run.
	CurrentScore float64 `json:"current_score"`

	// Delta is CurrentScore - PreviousScore.
	Delta float64 `json:"delta"`
}

// compareReports compares two audit runs and generates a comparison result.
func compareReports(previous, current *model.DeckReport) *ComparisonResult {
	result := &ComparisonResult{
		Presentation: current.Presentation,
		PreviousRun:  summarizeRun(previous),
		CurrentRun:   summarizeRun(current),
	}

	result.ScoreDelta = result.CurrentRun.AverageScore - result.PreviousRun.AverageScore
	switch {
	case result.ScoreDelta > 0:
		result.Direction = directionImproved
	case result.ScoreDelta < 0:
		result.Direction = directionWorsened
	default:
		result.Direction = directionUnchanged
	}

	// Per-slide score movement, matched by slide number.
	previousScores := make(map[int]float64, len(previous.Slides))
	for _, slide := range previous.Slides {
		previousScores[slide.SlideNumber] = slide.Scores.Overall
	}
	for _, slide := range current.Slides {
		prev, ok := previousScores[slide.SlideNumber]
		if !ok || prev == slide.Scores.Overall {
			continue
		}
		result.SlideChanges = append(result.SlideChanges, SlideChange{
			SlideNumber:   slide.SlideNumber,
			PreviousScore: prev,
			CurrentScore:  slide.Scores.Overall,
			Delta:         slide.Scores.Overall - prev,
		})
	}
	sort.Slice(result.SlideChanges, func(i, j int) bool {
		return result.SlideChanges[i].SlideNumber < result.SlideChanges[j].SlideNumber
	})

	// Issue kind movement from the summary histograms.
	for kind, count := range current.Summary.CommonIssues {
		if delta := count - previous.Summary.CommonIssues[kind]; delta > 0 {
			if result.NewIssueKinds == nil {
				result.NewIssueKinds = make(map[string]int)
			}
			result.NewIssueKinds[kind] = delta
		}
	}
	for kind, count := range previous.Summary.CommonIssues {
		if delta := count - current.Summary.CommonIssues[kind]; delta > 0 {
			if result.ResolvedIssueKinds == nil {
				result.ResolvedIssueKinds = make(map[string]int)
			}
			result.ResolvedIssueKinds[kind] = delta
		}
	}

	return result
}

// summarizeRun extracts comparison metadata from a report.
func summarizeRun(r *model.DeckReport) RunSummary {
	return RunSummary{
		DateAudited:   r.DateAudited,
		AverageScore:  r.Summary.AverageScore,
		SlideCount:    r.SlideCount,
		TotalIssues:   r.TotalIssues(),
		CriticalCount: r.Summary.CriticalCount,
		HighCount:     r.Summary.HighCount,
		MediumCount:   r.Summary.MediumCount,
		LowCount:      r.Summary.LowCount,
		InfoCount:     r.Summary.InfoCount,
	}
}

// outputComparisonJSON outputs the comparison result in JSON format.
func outputComparisonJSON(result *ComparisonResult) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

// outputComparisonMarkdown outputs the comparison result in Markdown format.
func outputComparisonMarkdown(result *ComparisonResult) error {
	fmt.Printf("# Audit Comparison: %s\n\n", result.Presentation)

	fmt.Println("## Summary")
	fmt.Printf("\n**Status:** %s\n\n", formatDirection(result.Direction))

	fmt.Println("| Metric | Previous | Current | Change |")
	fmt.Println("|--------|----------|---------|--------|")
	fmt.Printf("| Date | %s | %s | - |\n",
		result.PreviousRun.DateAudited.Format("2006-01-02 15:04"),
		result.CurrentRun.DateAudited.Format("2006-01-02 15:04"))
	fmt.Printf("| Average score | %.0f | %.0f | %s |\n",
		result.PreviousRun.AverageScore,
		result.CurrentRun.AverageScore,
		formatScoreDelta(result.ScoreDelta))
	fmt.Printf("| Critical | %d | %d | %s |\n",
		result.PreviousRun.CriticalCount, result.CurrentRun.CriticalCount,
		formatDelta(result.CurrentRun.CriticalCount-result.PreviousRun.CriticalCount))
	fmt.Printf("| High | %d | %d | %s |\n",
		result.PreviousRun.HighCount, result.CurrentRun.HighCount,
		formatDelta(result.CurrentRun.HighCount-result.PreviousRun.HighCount))
	fmt.Printf("| Medium | %d | %d | %s |\n",
		result.PreviousRun.MediumCount, result.CurrentRun.MediumCount,
		formatDelta(result.CurrentRun.MediumCount-result.PreviousRun.MediumCount))
	fmt.Printf("| Low | %d | %d | %s |\n",
		result.PreviousRun.LowCount, result.CurrentRun.LowCount,
		formatDelta(result.CurrentRun.LowCount-result.PreviousRun.LowCount))
	fmt.Printf("| **Total issues** | **%d** | **%d** | **%s** |\n",
		result.PreviousRun.TotalIssues, result.CurrentRun.TotalIssues,
		formatDelta(result.CurrentRun.TotalIssues-result.PreviousRun.TotalIssues))

	if len(result.SlideChanges) > 0 {
		fmt.Printf("\n## Slide Changes (%d)\n\n", len(result.SlideChanges))
		fmt.Println("| Slide | Previous | Current | Change |")
		fmt.Println("|-------|----------|---------|--------|")
		for _, change := range result.SlideChanges {
			fmt.Printf("| %d | %.0f | %.0f | %s |\n",
				change.SlideNumber, change.PreviousScore, change.CurrentScore,
				formatScoreDelta(change.Delta))
		}
	}

	if len(result.NewIssueKinds) > 0 {
		fmt.Printf("\n## New Issues\n\n")
		for _, kind := range sortedKinds(result.NewIssueKinds) {
			fmt.Printf("- **%s**: +%d\n", kind, result.NewIssueKinds[kind])
		}
	}

	if len(result.ResolvedIssueKinds) > 0 {
		fmt.Printf("\n## Resolved Issues\n\n")
		for _, kind := range sortedKinds(result.ResolvedIssueKinds) {
			fmt.Printf("- ~~**%s**~~: -%d\n", kind, result.ResolvedIssueKinds[kind])
		}
	}

	return nil
}

// outputComparisonText outputs the comparison in human-readable text format.
func outputComparisonText(result *ComparisonResult) error {
	fmt.Printf("Audit Comparison: %s\n", result.Presentation)
	fmt.Println(strings.Repeat("=", 60))

	fmt.Printf("\nStatus: %s\n", formatDirection(result.Direction))

	fmt.Printf("\nPrevious audit: %s (average %.0f)\n",
		result.PreviousRun.DateAudited.Format("2006-01-02 15:04:05"),
		result.PreviousRun.AverageScore)
	fmt.Printf("Current audit:  %s (average %.0f)\n",
		result.CurrentRun.DateAudited.Format("2006-01-02 15:04:05"),
		result.CurrentRun.AverageScore)

	fmt.Println("\nIssues Summary:")
	fmt.Printf("  %-10s  %-10s  %-10s  %-10s\n", "Severity", "Previous", "Current", "Change")
	fmt.Println("  " + strings.Repeat("-", 45))
	fmt.Printf("  %-10s  %-10d  %-10d  %-10s\n", "Critical",
		result.PreviousRun.CriticalCount, result.CurrentRun.CriticalCount,
		formatDelta(result.CurrentRun.CriticalCount-result.PreviousRun.CriticalCount))
	fmt.Printf("  %-10s  %-10d  %-10d  %-10s\n", "High",
		result.PreviousRun.HighCount, result.CurrentRun.HighCount,
		formatDelta(result.CurrentRun.HighCount-result.PreviousRun.HighCount))
	fmt.Printf("  %-10s  %-10d  %-10d  %-10s\n", "Medium",
		result.PreviousRun.MediumCount, result.CurrentRun.MediumCount,
		formatDelta(result.CurrentRun.MediumCount-result.PreviousRun.MediumCount))
	fmt.Printf("  %-10s  %-10d  %-10d  %-10s\n", "Low",
		result.PreviousRun.LowCount, result.CurrentRun.LowCount,
		formatDelta(result.CurrentRun.LowCount-result.PreviousRun.LowCount))
	fmt.Println("  " + strings.Repeat("-", 45))
	fmt.Printf("  %-10s  %-10d  %-10d  %-10s\n", "Total",
		result.PreviousRun.TotalIssues, result.CurrentRun.TotalIssues,
		formatDelta(result.CurrentRun.TotalIssues-result.PreviousRun.TotalIssues))

	if len(result.SlideChanges) > 0 {
		fmt.Printf("\nSlide Changes (%d):\n", len(result.SlideChanges))
		for _, change := range result.SlideChanges {
			fmt.Printf("  slide %d: %.0f -> %.0f (%s)\n",
				change.SlideNumber, change.PreviousScore, change.CurrentScore,
				formatScoreDelta(change.Delta))
		}
	}

	if len(result.NewIssueKinds) > 0 {
		fmt.Println("\nNew Issues:")
		for _, kind := range sortedKinds(result.NewIssueKinds) {
			fmt.Printf("  [+] %s: +%d\n", kind, result.NewIssueKinds[kind])
		}
	}

	if len(result.ResolvedIssueKinds) > 0 {
		fmt.Println("\nResolved Issues:")
		for _, kind := range sortedKinds(result.ResolvedIssueKinds) {
			fmt.Printf("  [-] %s: -%d\n", kind, result.ResolvedIssueKinds[kind])
		}
	}

	return nil
}

// sortedKinds returns the map's keys in alphabetical order.
func sortedKinds(m map[string]int) []string {
	kinds := make([]string, 0, len(m))
	for kind := range m {
		kinds = append(kinds, kind)
	}
	sort.Strings(kinds)
	return kinds
}

// formatDirection formats the score direction for display.
func formatDirection(direction string) string {
	switch direction {
	case directionImproved:
		return "IMPROVED (average score increased)"
	case directionWorsened:
		return "WORSENED (average score decreased)"
	default:
		return "UNCHANGED"
	}
}

// formatDelta formats a numeric delta with sign for display.
func formatDelta(delta int) string {
	if delta > 0 {
		return "+" + strconv.Itoa(delta)
	} else if delta < 0 {
		return strconv.Itoa(delta)
	}
	return "0"
}

// formatScoreDelta formats a score delta with sign for display.
func formatScoreDelta(delta float64) string {
	if delta > 0 {
		return fmt.Sprintf("+%.0f", delta)
	}
	return fmt.Sprintf("%.0f", delta)
}
