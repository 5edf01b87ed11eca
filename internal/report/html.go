package report

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"strings"

	"github.com/deckaudit/deckaudit/internal/model"
)

// HTMLWriter outputs a self-contained HTML report page.
// The page embeds its own stylesheet so a single file can be opened,
// mailed, or archived without assets.
type HTMLWriter struct {
	baseWriter
	tmpl *template.Template
}

// NewHTMLWriter creates an HTMLWriter that outputs to the given writer.
func NewHTMLWriter(output io.Writer) *HTMLWriter {
	tmpl := template.Must(template.New("report").Funcs(template.FuncMap{
		"severityClass": severityClass,
		"scoreClass":    scoreClass,
		"printf":        fmt.Sprintf,
	}).Parse(htmlReportTemplate))

	return &HTMLWriter{
		baseWriter: newBaseWriter(output),
		tmpl:       tmpl,
	}
}

// Write renders the report page.
func (w *HTMLWriter) Write(report *model.DeckReport) (int, error) {
	var buf bytes.Buffer
	if err := w.tmpl.Execute(&buf, report); err != nil {
		return 0, fmt.Errorf("report: render html: %w", err)
	}
	return w.output.Write(buf.Bytes())
}

// severityClass maps severity text to a CSS class name.
func severityClass(severityText string) string {
	return "sev-" + strings.ToLower(severityText)
}

// scoreClass maps a score to a traffic-light CSS class.
func scoreClass(score float64) string {
	switch {
	case score >= 85:
		return "score-good"
	case score >= model.CriticalScoreThreshold:
		return "score-warn"
	default:
		return "score-bad"
	}
}

const htmlReportTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Audit: {{.Presentation}}</title>
<style>
body { font-family: -apple-system, "Segoe UI", sans-serif; margin: 2rem auto; max-width: 60rem; color: #1f2430; }
h1 { font-size: 1.6rem; }
h2 { font-size: 1.2rem; border-bottom: 1px solid #d8dce4; padding-bottom: 0.3rem; }
.meta { color: #5b6474; font-size: 0.95rem; }
.cards { display: flex; gap: 1rem; flex-wrap: wrap; margin: 1.5rem 0; }
.card { border: 1px solid #d8dce4; border-radius: 8px; padding: 1rem 1.4rem; min-width: 9rem; }
.card .num { font-size: 1.8rem; font-weight: 700; }
.score-good { color: #1a7f37; }
.score-warn { color: #9a6700; }
.score-bad { color: #cf222e; }
.slide { margin: 1.2rem 0; }
.slide h3 { margin-bottom: 0.3rem; }
table { border-collapse: collapse; width: 100%; margin: 0.5rem 0 1rem; }
th, td { border: 1px solid #d8dce4; padding: 0.45rem 0.6rem; text-align: left; font-size: 0.92rem; }
th { background: #f4f6f9; }
.sev-critical { color: #cf222e; font-weight: 700; }
.sev-high { color: #bc4c00; font-weight: 600; }
.sev-medium { color: #9a6700; }
.sev-low { color: #0969da; }
.sev-info { color: #5b6474; }
ul.recs li { margin: 0.3rem 0; }
footer { margin-top: 2.5rem; color: #8b93a3; font-size: 0.85rem; }
</style>
</head>
<body>
<h1>Presentation Audit Report</h1>
<p class="meta">{{.Presentation}}<br>{{.DateAudited.Format "2006-01-02 15:04:05 MST"}} &middot; {{.SlideCount}} slides</p>
{{if .ErrorMessage}}<p class="sev-critical">Audit error: {{.ErrorMessage}}</p>{{end}}

<div class="cards">
  <div class="card"><div class="num {{scoreClass .Summary.AverageScore}}">{{printf "%.0f" .Summary.AverageScore}}</div>Average score</div>
  <div class="card"><div class="num {{scoreClass .Summary.LowestScore}}">{{printf "%.1f" .Summary.LowestScore}}</div>Lowest slide</div>
  <div class="card"><div class="num">{{.Summary.CriticalIssuesCount}}</div>Critical fixes</div>
  <div class="card"><div class="num">{{.TotalIssues}}</div>Total issues</div>
</div>

<h2>Slides</h2>
{{range .Slides}}{{if .Issues}}
<div class="slide">
<h3>Slide {{.SlideNumber}}{{if .SlideTitle}}: {{.SlideTitle}}{{end}} <span class="{{scoreClass .Scores.Overall}}">{{printf "%.1f" .Scores.Overall}}/100</span></h3>
<table>
<tr><th>Severity</th><th>Issue</th><th>Value</th><th>Recommendation</th></tr>
{{range .Issues}}<tr><td class="{{severityClass .SeverityText}}">{{.SeverityText}}</td><td>{{.Title}}</td><td>{{.Value}}</td><td>{{.Recommendation}}</td></tr>
{{end}}</table>
</div>
{{end}}{{end}}

{{if .Recommendations}}
<h2>Recommendations</h2>
<ul class="recs">
{{range .Recommendations}}<li>{{.}}</li>
{{end}}</ul>
{{end}}

{{if .ExpertPanel}}
<h2>Expert Panel</h2>
<p>Consensus score: <strong>{{printf "%.1f" .ExpertPanel.ConsensusScore}}/100</strong></p>
<table>
<tr><th>Reviewer</th><th>Score</th><th>Blocking</th><th>Warnings</th></tr>
{{range .ExpertPanel.Reviews}}<tr><td>{{.Expert}}</td><td>{{printf "%.1f" .Score}}</td><td>{{len .CriticalIssues}}</td><td>{{len .Warnings}}</td></tr>
{{end}}</table>
{{end}}

<footer>Generated by deckaudit</footer>
</body>
</html>
`
