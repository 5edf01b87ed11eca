package expert

import (
	"reflect"
	"strings"
	"testing"

	"github.com/deckaudit/deckaudit/internal/model"
)

func analysisWithIssues(number int, kinds ...string) model.Analysis {
	a := model.Analysis{SlideNumber: number}
	for _, kind := range kinds {
		a.Issues = append(a.Issues, model.NewIssue(kind, number, "t", "d", "v"))
	}
	return a
}

func TestPanel_Review(t *testing.T) {
	t.Parallel()

	t.Run("clean deck scores 100 for every persona", func(t *testing.T) {
		t.Parallel()

		slides := []model.Analysis{
			analysisWithIssues(1),
			analysisWithIssues(2),
		}
		result := NewPanel().Review(slides)

		if result.ConsensusScore != 100 {
			t.Errorf("ConsensusScore = %v, want 100", result.ConsensusScore)
		}
		for _, review := range result.Reviews {
			if review.Score != 100 {
				t.Errorf("%s Score = %v, want 100", review.Expert, review.Score)
			}
			if len(review.CriticalIssues) != 0 || len(review.Warnings) != 0 {
				t.Errorf("%s has observations on a clean deck", review.Expert)
			}
		}
	})

	t.Run("blocking rule deducts twenty points", func(t *testing.T) {
		t.Parallel()

		slides := []model.Analysis{
			analysisWithIssues(1, "dark_on_dark"),
		}
		result := NewPanel().Review(slides)

		var accessibility *model.ExpertReview
		for i := range result.Reviews {
			if result.Reviews[i].Expert == "Accessibility Reviewer" {
				accessibility = &result.Reviews[i]
			}
		}
		if accessibility == nil {
			t.Fatal("Accessibility Reviewer missing from roster")
		}
		if accessibility.Score != 80 {
			t.Errorf("Accessibility Score = %v, want 80", accessibility.Score)
		}
		if len(accessibility.CriticalIssues) != 1 {
			t.Fatalf("CriticalIssues = %v, want one entry", accessibility.CriticalIssues)
		}
		if !strings.Contains(accessibility.CriticalIssues[0], "slide 1") {
			t.Errorf("CriticalIssues[0] = %q, want slide reference", accessibility.CriticalIssues[0])
		}

		// Three personas at 100 and one at 80 over one slide.
		want := round1((100 + 80 + 100 + 100) / 4.0)
		if result.ConsensusScore != want {
			t.Errorf("ConsensusScore = %v, want %v", result.ConsensusScore, want)
		}
	})

	t.Run("warning rule deducts five points", func(t *testing.T) {
		t.Parallel()

		slides := []model.Analysis{
			analysisWithIssues(1, "cognitive_load"),
		}
		result := NewPanel().Review(slides)

		for _, review := range result.Reviews {
			if review.Expert != "Instructional Reviewer" {
				continue
			}
			if review.Score != 95 {
				t.Errorf("Instructional Score = %v, want 95", review.Score)
			}
			if len(review.Warnings) != 1 {
				t.Errorf("Warnings = %v, want one entry", review.Warnings)
			}
		}
	})

	t.Run("persona score floors at zero", func(t *testing.T) {
		t.Parallel()

		kinds := make([]string, 0, 6)
		for i := 0; i < 6; i++ {
			kinds = append(kinds, "dark_on_dark")
		}
		slides := []model.Analysis{
			analysisWithIssues(1, kinds...),
		}
		result := NewPanel().Review(slides)

		for _, review := range result.Reviews {
			if review.Score < 0 {
				t.Errorf("%s Score = %v, want >= 0", review.Expert, review.Score)
			}
		}
	})

	t.Run("deterministic across repeated runs", func(t *testing.T) {
		t.Parallel()

		slides := []model.Analysis{
			analysisWithIssues(1, "text_size", "dark_on_dark"),
			analysisWithIssues(2, "cognitive_load", "fixed_width", "missing_alt"),
			analysisWithIssues(3),
		}

		panel := NewPanel()
		first := panel.Review(slides)
		for i := 0; i < 10; i++ {
			again := panel.Review(slides)
			if !reflect.DeepEqual(first, again) {
				t.Fatalf("Review() run %d differs from first run", i)
			}
		}
	})

	t.Run("empty deck scores zero consensus", func(t *testing.T) {
		t.Parallel()

		result := NewPanel().Review(nil)
		if result.ConsensusScore != 0 {
			t.Errorf("ConsensusScore = %v, want 0", result.ConsensusScore)
		}
		if len(result.Reviews) != len(DefaultRoster()) {
			t.Errorf("Reviews count = %d, want %d", len(result.Reviews), len(DefaultRoster()))
		}
	})

	t.Run("custom roster replaces the default", func(t *testing.T) {
		t.Parallel()

		roster := []Persona{{
			Name:  "Solo Reviewer",
			Focus: "everything",
			Rules: []Rule{{Kind: "text_size", Blocking: true}},
		}}
		result := NewPanel(WithRoster(roster)).Review([]model.Analysis{
			analysisWithIssues(1, "text_size"),
		})

		if len(result.Reviews) != 1 {
			t.Fatalf("Reviews count = %d, want 1", len(result.Reviews))
		}
		if result.Reviews[0].Score != 80 {
			t.Errorf("Score = %v, want 80", result.Reviews[0].Score)
		}
	})
}
