package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/deckaudit/deckaudit/internal/model"
)

// SimpleWriter outputs human-readable text reports.
// This format is designed for terminal display with clear section
// formatting and severity markers.
//
// Design decision: We use plain text with ASCII formatting rather than
// ANSI colors by default because:
// 1. It works in all terminals without compatibility issues
// 2. It's easier to pipe to files or other tools
// 3. Color can be added as an option later if needed
type SimpleWriter struct {
	baseWriter

	// showClean controls whether slides with no issues are listed.
	showClean bool

	// verbose enables per-issue impact and recommendation text.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithShowClean configures the writer to list issue-free slides.
func WithShowClean(show bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.showClean = show
	}
}

// WithVerbose enables verbose output with additional details.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the report as formatted text.
func (w *SimpleWriter) Write(report *model.DeckReport) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, report)
	w.writeSummary(&sb, report)
	w.writeSlides(&sb, report)
	w.writeRecommendations(&sb, report)
	w.writeExpertPanel(&sb, report)

	return w.output.Write([]byte(sb.String()))
}

func (w *SimpleWriter) writeHeader(sb *strings.Builder, report *model.DeckReport) {
	sb.WriteString(strings.Repeat("=", 60) + "\n")
	sb.WriteString("Presentation Audit Report\n")
	sb.WriteString(strings.Repeat("=", 60) + "\n")
	fmt.Fprintf(sb, "Presentation: %s\n", report.Presentation)
	fmt.Fprintf(sb, "Date:         %s\n", report.DateAudited.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(sb, "Slides:       %d\n", report.SlideCount)
	if report.Error != nil {
		fmt.Fprintf(sb, "Status:       ERROR - %v\n", report.Error)
	}
	sb.WriteString("\n")
}

func (w *SimpleWriter) writeSummary(sb *strings.Builder, report *model.DeckReport) {
	s := report.Summary
	sb.WriteString("Summary\n")
	sb.WriteString(strings.Repeat("-", 60) + "\n")
	fmt.Fprintf(sb, "Average score:   %.0f / 100\n", s.AverageScore)
	fmt.Fprintf(sb, "Lowest score:    %.1f (highest %.1f)\n", s.LowestScore, s.HighestScore)
	fmt.Fprintf(sb, "Critical fixes:  %d\n", s.CriticalIssuesCount)
	fmt.Fprintf(sb, "Issues:          %d critical, %d high, %d medium, %d low, %d info\n",
		s.CriticalCount, s.HighCount, s.MediumCount, s.LowCount, s.InfoCount)
	if kinds := report.TopIssueKinds(3); len(kinds) > 0 {
		fmt.Fprintf(sb, "Most common:     %s\n", strings.Join(kinds, ", "))
	}
	sb.WriteString("\n")
}

func (w *SimpleWriter) writeSlides(sb *strings.Builder, report *model.DeckReport) {
	sb.WriteString("Slides\n")
	sb.WriteString(strings.Repeat("-", 60) + "\n")

	for _, slide := range report.Slides {
		if len(slide.Issues) == 0 && !w.showClean {
			continue
		}

		title := slide.SlideTitle
		if title == "" {
			title = "(untitled)"
		}
		fmt.Fprintf(sb, "Slide %d: %s — %.1f/100\n", slide.SlideNumber, title, slide.Scores.Overall)

		for _, issue := range slide.Issues {
			fmt.Fprintf(sb, "  [%s] %s", issue.SeverityText, issue.Title)
			if issue.Value != "" {
				fmt.Fprintf(sb, " (%s)", issue.Value)
			}
			if issue.Count > 1 {
				fmt.Fprintf(sb, " x%d", issue.Count)
			}
			sb.WriteString("\n")

			if w.verbose {
				if issue.Impact != "" {
					fmt.Fprintf(sb, "      impact: %s\n", issue.Impact)
				}
				if issue.Recommendation != "" {
					fmt.Fprintf(sb, "      fix:    %s\n", issue.Recommendation)
				}
			}
		}
	}
	sb.WriteString("\n")
}

func (w *SimpleWriter) writeRecommendations(sb *strings.Builder, report *model.DeckReport) {
	if len(report.Recommendations) == 0 {
		return
	}
	sb.WriteString("Recommendations\n")
	sb.WriteString(strings.Repeat("-", 60) + "\n")
	for _, rec := range report.Recommendations {
		fmt.Fprintf(sb, "  * %s\n", rec)
	}
	sb.WriteString("\n")
}

func (w *SimpleWriter) writeExpertPanel(sb *strings.Builder, report *model.DeckReport) {
	panel := report.ExpertPanel
	if panel == nil {
		return
	}
	sb.WriteString("Expert Panel\n")
	sb.WriteString(strings.Repeat("-", 60) + "\n")
	fmt.Fprintf(sb, "Consensus score: %.1f / 100\n", panel.ConsensusScore)
	for _, review := range panel.Reviews {
		fmt.Fprintf(sb, "  %s (%.1f): %d blocking, %d warnings\n",
			review.Expert, review.Score, len(review.CriticalIssues), len(review.Warnings))
		if w.verbose {
			for _, c := range review.CriticalIssues {
				fmt.Fprintf(sb, "    ! %s\n", c)
			}
			for _, warning := range review.Warnings {
				fmt.Fprintf(sb, "    - %s\n", warning)
			}
		}
	}
	sb.WriteString("\n")
}
