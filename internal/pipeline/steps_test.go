package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/deckaudit/deckaudit/internal/config"
	"github.com/deckaudit/deckaudit/internal/heuristic"
	"github.com/deckaudit/deckaudit/internal/model"
	"github.com/deckaudit/deckaudit/internal/resolve"
)

// sampleDeck has one slide with undersized text and one clean slide.
const sampleDeck = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Lesson 1</title>
</head>
<body>
<div class="reveal"><div class="slides">
<section>
<h1>Welcome</h1>
<p style="font-size: 0.9rem;">Intro text for the lesson.</p>
</section>
<section>
<h1>Agenda</h1>
<p>Three short items today.</p>
</section>
</div></div>
</body>
</html>
`

// writeDeck writes a presentation file into a temp dir and returns its path.
func writeDeck(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "presentation.html")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

// TestAnalyzeStep tests deck loading, checking, and scoring.
func TestAnalyzeStep(t *testing.T) {
	t.Parallel()

	t.Run("analyzes every slide", func(t *testing.T) {
		t.Parallel()

		path := writeDeck(t, sampleDeck)
		report := model.NewDeckReport(path)

		step := NewAnalyzeStep()
		if err := step.Do(context.Background(), report); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if report.SlideCount != 2 {
			t.Fatalf("slide count = %d, want 2", report.SlideCount)
		}
		if got := report.IssueKindCount("text_size"); got != 1 {
			t.Errorf("text_size count = %d, want 1", got)
		}

		// text_size is high severity: readability 80, overall 94.
		if got := report.Slides[0].Scores.Overall; got != 94 {
			t.Errorf("slide 1 overall = %v, want 94", got)
		}
		if got := report.Slides[1].Scores.Overall; got != 100 {
			t.Errorf("slide 2 overall = %v, want 100", got)
		}
		if got := report.Summary.AverageScore; got != 97 {
			t.Errorf("average = %v, want 97", got)
		}
	})

	t.Run("propagates load failure", func(t *testing.T) {
		t.Parallel()

		report := model.NewDeckReport(filepath.Join(t.TempDir(), "missing.html"))

		step := NewAnalyzeStep()
		if err := step.Do(context.Background(), report); err == nil {
			t.Error("expected error for missing presentation")
		}
	})

	t.Run("custom thresholds change findings", func(t *testing.T) {
		t.Parallel()

		path := writeDeck(t, sampleDeck)
		report := model.NewDeckReport(path)

		// Lower the readable threshold below 0.9rem: no finding.
		thresholds := heuristic.DefaultThresholds()
		thresholds.MinBodyRem = 0.5

		step := NewAnalyzeStep(WithAnalyzeThresholds(thresholds))
		if err := step.Do(context.Background(), report); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if got := report.IssueKindCount("text_size"); got != 0 {
			t.Errorf("text_size count = %d, want 0", got)
		}
	})
}

// TestExpertPanelStep tests the panel review step.
func TestExpertPanelStep(t *testing.T) {
	t.Parallel()

	t.Run("records consensus in report", func(t *testing.T) {
		t.Parallel()

		path := writeDeck(t, sampleDeck)
		report := model.NewDeckReport(path)

		analyze := NewAnalyzeStep()
		if err := analyze.Do(context.Background(), report); err != nil {
			t.Fatal(err)
		}

		step := NewExpertPanelStep()
		if err := step.Do(context.Background(), report); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if report.ExpertPanel == nil {
			t.Fatal("expected expert panel result")
		}
		if len(report.ExpertPanel.Reviews) == 0 {
			t.Error("expected at least one review")
		}
	})

	t.Run("skips empty report", func(t *testing.T) {
		t.Parallel()

		report := model.NewDeckReport("deck.html")

		step := NewExpertPanelStep()
		if err := step.Do(context.Background(), report); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if report.ExpertPanel != nil {
			t.Error("expected no panel result for empty report")
		}
	})
}

// TestPersistStep tests the database persistence step.
func TestPersistStep(t *testing.T) {
	t.Parallel()

	t.Run("nil database is a no-op", func(t *testing.T) {
		t.Parallel()

		step := NewPersistStep(nil)
		report := model.NewDeckReport("deck.html")

		if err := step.Do(context.Background(), report); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})
}

// TestRetentionStep tests the artifact sweep step.
func TestRetentionStep(t *testing.T) {
	t.Parallel()

	t.Run("missing directory is non-fatal", func(t *testing.T) {
		t.Parallel()

		step := NewRetentionStep(filepath.Join(t.TempDir(), "missing"), 5)
		report := model.NewDeckReport("deck.html")

		if err := step.Do(context.Background(), report); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("prunes old artifacts", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		for _, name := range []string{
			"report-1700000001000.json",
			"report-1700000002000.json",
			"report-1700000003000.json",
		} {
			if err := os.WriteFile(filepath.Join(dir, name), []byte("{}"), 0o600); err != nil {
				t.Fatal(err)
			}
		}

		step := NewRetentionStep(dir, 1)
		if err := step.Do(context.Background(), model.NewDeckReport("deck.html")); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		entries, err := os.ReadDir(dir)
		if err != nil {
			t.Fatal(err)
		}
		if len(entries) != 1 {
			t.Fatalf("remaining artifacts = %d, want 1", len(entries))
		}
		if entries[0].Name() != "report-1700000003000.json" {
			t.Errorf("kept %s, want newest", entries[0].Name())
		}
	})
}

// TestDefaultPipeline tests step selection from config.
func TestDefaultPipeline(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		cfg    func() *config.Config
		target resolve.Target
		want   []string
	}{
		{
			name: "full audit",
			cfg: func() *config.Config {
				c := config.NewConfig()
				c.Screenshots = true
				c.ExpertPanel = true
				c.SaveToDB = true
				return c
			},
			target: resolve.Target{Path: "deck.html", URL: "file:///deck.html"},
			want:   []string{"analyze", "capture", "expert_panel", "persist", "retention"},
		},
		{
			name: "minimal audit",
			cfg: func() *config.Config {
				c := config.NewConfig()
				c.RetentionRuns = 0
				return c
			},
			want: []string{"analyze"},
		},
		{
			name: "screenshots without URL are skipped",
			cfg: func() *config.Config {
				c := config.NewConfig()
				c.Screenshots = true
				c.RetentionRuns = 0
				return c
			},
			want: []string{"analyze"},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p := DefaultPipeline(tt.cfg(), tt.target, nil)

			got := p.StepNames()
			if len(got) != len(tt.want) {
				t.Fatalf("steps = %v, want %v", got, tt.want)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("step %d = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

// TestThresholdsFromConfig tests the config-file threshold overlay.
func TestThresholdsFromConfig(t *testing.T) {
	t.Parallel()

	t.Run("nil config keeps defaults", func(t *testing.T) {
		t.Parallel()

		got := ThresholdsFromConfig(nil)
		if got != heuristic.DefaultThresholds() {
			t.Errorf("thresholds = %+v, want defaults", got)
		}
	})

	t.Run("non-zero file values win", func(t *testing.T) {
		t.Parallel()

		cfg := config.NewConfig()
		cfg.FileConfig = &config.File{
			Thresholds: config.ThresholdsFile{
				MinBodyRem: 1.4,
				MaxBullets: 4,
			},
		}

		got := ThresholdsFromConfig(cfg)
		if got.MinBodyRem != 1.4 {
			t.Errorf("MinBodyRem = %v, want 1.4", got.MinBodyRem)
		}
		if got.MaxBullets != 4 {
			t.Errorf("MaxBullets = %d, want 4", got.MaxBullets)
		}
		if got.MinBodyPx != heuristic.DefaultThresholds().MinBodyPx {
			t.Errorf("MinBodyPx = %v, want default", got.MinBodyPx)
		}
	})
}
