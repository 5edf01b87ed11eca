package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/deckaudit/deckaudit/internal/model"
)

// MarkdownWriter outputs reports in Markdown format.
// This format is designed for documentation and sharing.
//
// Design decision: We use the nao1215/markdown library for fluent markdown
// generation which provides:
// 1. Type-safe markdown generation
// 2. Support for tables, lists, and code blocks
// 3. GitHub-flavored markdown alerts
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the full report in Markdown format.
func (w *MarkdownWriter) Write(report *model.DeckReport) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, report)
	w.writeSummary(md, report)
	w.writeSlides(md, report)
	w.writeRecommendations(md, report)
	w.writeExpertPanel(md, report)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writeHeader writes the report header with audit information.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, report *model.DeckReport) {
	md.H1("Presentation Audit Report")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Presentation", "`" + report.Presentation + "`"},
			{"Audit Date", report.DateAudited.Format("2006-01-02 15:04:05 MST")},
			{"Slides Analyzed", strconv.Itoa(report.SlideCount)},
			{"Status", w.getStatusText(report)},
		},
	})
	md.PlainText("")
}

// getStatusText returns the status text based on report state.
func (w *MarkdownWriter) getStatusText(report *model.DeckReport) string {
	if report.Error != nil {
		return "❌ Error - " + report.Error.Error()
	}
	if report.ErrorMessage != "" {
		return "❌ Error - " + report.ErrorMessage
	}
	return "✅ Complete"
}

// writeSummary writes the score and severity summary section.
func (w *MarkdownWriter) writeSummary(md *markdown.Markdown, report *model.DeckReport) {
	s := report.Summary

	md.H2("Summary")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Metric", "Value"},
		Rows: [][]string{
			{"Average Score", fmt.Sprintf("%.0f / 100", s.AverageScore)},
			{"Lowest Slide", fmt.Sprintf("%.1f", s.LowestScore)},
			{"Highest Slide", fmt.Sprintf("%.1f", s.HighestScore)},
			{"Critical Fixes", strconv.Itoa(s.CriticalIssuesCount)},
		},
	})
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Severity", "Count"},
		Rows: [][]string{
			{"🔴 Critical", strconv.Itoa(s.CriticalCount)},
			{"🟠 High", strconv.Itoa(s.HighCount)},
			{"🟡 Medium", strconv.Itoa(s.MediumCount)},
			{"🔵 Low", strconv.Itoa(s.LowCount)},
			{"⚪ Info", strconv.Itoa(s.InfoCount)},
			{"**Total**", "**" + strconv.Itoa(report.TotalIssues()) + "**"},
		},
	})
	md.PlainText("")

	if report.TotalIssues() > 0 {
		w.writePieChart(md, report)
	}

	w.writeAlert(md, report)
}

// writePieChart writes a mermaid pie chart for severity distribution.
func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, report *model.DeckReport) {
	s := report.Summary
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Issue Severity Distribution"),
		piechart.WithShowData(true),
	)

	if s.CriticalCount > 0 {
		chart.LabelAndIntValue("Critical", uint64(s.CriticalCount))
	}
	if s.HighCount > 0 {
		chart.LabelAndIntValue("High", uint64(s.HighCount))
	}
	if s.MediumCount > 0 {
		chart.LabelAndIntValue("Medium", uint64(s.MediumCount))
	}
	if s.LowCount > 0 {
		chart.LabelAndIntValue("Low", uint64(s.LowCount))
	}
	if s.InfoCount > 0 {
		chart.LabelAndIntValue("Info", uint64(s.InfoCount))
	}

	md.PlainText("")
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeAlert writes an appropriate alert based on the deck's scores.
func (w *MarkdownWriter) writeAlert(md *markdown.Markdown, report *model.DeckReport) {
	s := report.Summary
	switch {
	case s.CriticalCount > 0:
		md.Cautionf(
			"Critical quality issues detected! %d critical issue(s) make slides effectively unusable.",
			s.CriticalCount,
		)
	case s.AverageScore < model.CriticalScoreThreshold:
		md.Warningf(
			"Average score %.0f is below the critical threshold. The deck needs structural work.",
			s.AverageScore,
		)
	case s.HighCount > 0:
		md.Importantf(
			"%d high severity issue(s) significantly hurt readability and should be addressed.",
			s.HighCount,
		)
	case report.TotalIssues() > 0:
		md.Note("Only minor and informational issues detected.")
	default:
		md.Tip("No quality issues detected. Presentation looks good.")
	}
	md.PlainText("")
}

// writeSlides writes per-slide issue tables, worst slides first.
func (w *MarkdownWriter) writeSlides(md *markdown.Markdown, report *model.DeckReport) {
	md.H2("Slides")
	md.PlainText("")

	if report.TotalIssues() == 0 {
		md.PlainText("No issues on any slide.")
		md.PlainText("")
		return
	}

	for _, slide := range report.Slides {
		if len(slide.Issues) == 0 {
			continue
		}

		title := slide.SlideTitle
		if title == "" {
			title = "(untitled)"
		}
		md.PlainText(fmt.Sprintf("### Slide %d: %s — %.1f/100", slide.SlideNumber, title, slide.Scores.Overall))
		md.PlainText("")
		w.writeIssuesTable(md, slide.Issues)
	}
}

// writeIssuesTable writes a table of issues with details.
func (w *MarkdownWriter) writeIssuesTable(md *markdown.Markdown, issues []model.Issue) {
	headers := []string{"Severity", "Issue", "Value", "Recommendation"}

	rows := make([][]string, len(issues))
	for i, issue := range issues {
		value := issue.Value
		if value == "" {
			value = "-"
		}
		rec := issue.Recommendation
		if rec == "" {
			rec = "-"
		}

		rows[i] = []string{
			issue.SeverityText,
			issue.Title,
			truncateString(value, 40),
			truncateString(rec, 60),
		}
	}

	md.Table(markdown.TableSet{
		Header: headers,
		Rows:   rows,
	})
	md.PlainText("")

	for _, issue := range issues {
		if issue.Impact != "" {
			md.Details(issue.Title, issue.Impact)
		}
	}
	md.PlainText("")
}

// writeRecommendations writes the deck-level recommendation list.
func (w *MarkdownWriter) writeRecommendations(md *markdown.Markdown, report *model.DeckReport) {
	if len(report.Recommendations) == 0 {
		return
	}
	md.H2("Recommendations")
	md.PlainText("")
	md.BulletList(report.Recommendations...)
	md.PlainText("")
}

// writeExpertPanel writes the panel consensus section when present.
func (w *MarkdownWriter) writeExpertPanel(md *markdown.Markdown, report *model.DeckReport) {
	panel := report.ExpertPanel
	if panel == nil {
		return
	}

	md.H2("Expert Panel")
	md.PlainText("")
	md.PlainText(fmt.Sprintf("Consensus score: **%.1f / 100**", panel.ConsensusScore))
	md.PlainText("")

	rows := make([][]string, len(panel.Reviews))
	for i, review := range panel.Reviews {
		rows[i] = []string{
			review.Expert,
			fmt.Sprintf("%.1f", review.Score),
			strconv.Itoa(len(review.CriticalIssues)),
			strconv.Itoa(len(review.Warnings)),
		}
	}
	md.Table(markdown.TableSet{
		Header: []string{"Reviewer", "Score", "Blocking", "Warnings"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainText("*Report generated by deckaudit*")
}

// truncateString truncates a string to maxLen characters with ellipsis.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
