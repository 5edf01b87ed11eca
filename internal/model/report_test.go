package model

import (
	"encoding/json"
	"math"
	"testing"
)

// TestDeckReportSummary tests summary aggregation across slides.
func TestDeckReportSummary(t *testing.T) {
	t.Parallel()

	t.Run("average is rounded mean of overall scores", func(t *testing.T) {
		t.Parallel()

		r := NewDeckReport("deck.html")
		r.AddAnalysis(Analysis{SlideNumber: 1, Scores: Scores{Overall: 80}})
		r.AddAnalysis(Analysis{SlideNumber: 2, Scores: Scores{Overall: 91}})
		r.AddAnalysis(Analysis{SlideNumber: 3, Scores: Scores{Overall: 60.5}})

		want := math.Round((80 + 91 + 60.5) / 3)
		if r.Summary.AverageScore != want {
			t.Errorf("average = %v, want %v", r.Summary.AverageScore, want)
		}
		if r.Summary.LowestScore != 60.5 {
			t.Errorf("lowest = %v, want 60.5", r.Summary.LowestScore)
		}
		if r.Summary.HighestScore != 91 {
			t.Errorf("highest = %v, want 91", r.Summary.HighestScore)
		}
		if r.SlideCount != 3 {
			t.Errorf("slide count = %d, want 3", r.SlideCount)
		}
	})

	t.Run("issue histogram and severity counts", func(t *testing.T) {
		t.Parallel()

		r := NewDeckReport("deck.html")
		r.AddAnalysis(Analysis{
			SlideNumber: 1,
			Scores:      Scores{Overall: 50},
			Issues: []Issue{
				NewIssue("text_size", 1, "Small text", "", "0.9rem"),
				NewIssue("text_size", 1, "Small text", "", "0.8rem"),
				NewIssue("dark_on_dark", 1, "Dark on dark", "", "#1a1a1a"),
			},
			CriticalFixes: []Issue{
				NewIssue("dark_on_dark", 1, "Dark on dark", "", "#1a1a1a"),
			},
		})

		if got := r.IssueKindCount("text_size"); got != 2 {
			t.Errorf("text_size count = %d, want 2", got)
		}
		if r.Summary.CriticalCount != 1 {
			t.Errorf("critical count = %d, want 1", r.Summary.CriticalCount)
		}
		if r.Summary.HighCount != 2 {
			t.Errorf("high count = %d, want 2", r.Summary.HighCount)
		}
		if r.Summary.CriticalIssuesCount != 1 {
			t.Errorf("critical fixes count = %d, want 1", r.Summary.CriticalIssuesCount)
		}
	})

	t.Run("empty report has zero summary", func(t *testing.T) {
		t.Parallel()

		r := NewDeckReport("deck.html")
		if r.Summary.AverageScore != 0 || r.TotalIssues() != 0 {
			t.Error("empty report should have zero summary")
		}
	})
}

// TestDeckReportJSONRoundTrip verifies the serialized summary reproduces the
// rounded mean of the slide overall scores.
func TestDeckReportJSONRoundTrip(t *testing.T) {
	t.Parallel()

	r := NewDeckReport("deck.html")
	overalls := []float64{73.5, 88, 92.25, 41}
	var sum float64
	for i, o := range overalls {
		r.AddAnalysis(Analysis{SlideNumber: i + 1, Scores: Scores{Overall: o}})
		sum += o
	}

	data, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var decoded DeckReport
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	want := math.Round(sum / float64(len(overalls)))
	if decoded.Summary.AverageScore != want {
		t.Errorf("round-tripped average = %v, want %v", decoded.Summary.AverageScore, want)
	}
	if decoded.SlideCount != len(overalls) {
		t.Errorf("round-tripped slide count = %d, want %d", decoded.SlideCount, len(overalls))
	}
}

// TestRecommendations tests threshold-triggered recommendations.
func TestRecommendations(t *testing.T) {
	t.Parallel()

	t.Run("low average triggers redesign recommendation", func(t *testing.T) {
		t.Parallel()

		r := NewDeckReport("deck.html")
		r.AddAnalysis(Analysis{SlideNumber: 1, Scores: Scores{Overall: 50}})

		if len(r.Recommendations) == 0 {
			t.Fatal("expected at least one recommendation")
		}
		if r.Recommendations[0] != "Major redesign needed: average slide score is below the critical threshold." {
			t.Errorf("unexpected first recommendation: %q", r.Recommendations[0])
		}
	})

	t.Run("repeated small text triggers global size recommendation", func(t *testing.T) {
		t.Parallel()

		r := NewDeckReport("deck.html")
		a := Analysis{SlideNumber: 1, Scores: Scores{Overall: 90}}
		for range 4 {
			a.Issues = append(a.Issues, NewIssue("text_size", 1, "Small text", "", "0.9rem"))
		}
		r.AddAnalysis(a)

		found := false
		for _, rec := range r.Recommendations {
			if rec == "Increase text sizes globally: small text appears on more than three slides." {
				found = true
			}
		}
		if !found {
			t.Errorf("expected global text size recommendation, got %v", r.Recommendations)
		}
	})

	t.Run("clean deck has no recommendations", func(t *testing.T) {
		t.Parallel()

		r := NewDeckReport("deck.html")
		r.AddAnalysis(Analysis{SlideNumber: 1, Scores: Scores{Overall: 100}})

		if len(r.Recommendations) != 0 {
			t.Errorf("expected no recommendations, got %v", r.Recommendations)
		}
	})
}

// TestTopIssueKinds verifies ordering is by count with deterministic ties.
func TestTopIssueKinds(t *testing.T) {
	t.Parallel()

	r := NewDeckReport("deck.html")
	a := Analysis{SlideNumber: 1, Scores: Scores{Overall: 70}}
	for range 3 {
		a.Issues = append(a.Issues, NewIssue("text_size", 1, "", "", ""))
	}
	a.Issues = append(a.Issues, NewIssue("spacing", 1, "", "", ""))
	a.Issues = append(a.Issues, NewIssue("missing_alt", 1, "", "", ""))
	r.AddAnalysis(a)

	got := r.TopIssueKinds(2)
	if len(got) != 2 || got[0] != "text_size" {
		t.Errorf("top kinds = %v, want [text_size ...]", got)
	}
	// missing_alt and spacing tie at 1; alphabetical order breaks the tie.
	if got[1] != "missing_alt" {
		t.Errorf("tie break = %q, want missing_alt", got[1])
	}
}

// TestSlideWordCount tests word counting over slide text.
func TestSlideWordCount(t *testing.T) {
	t.Parallel()

	tests := []struct {
		text string
		want int
	}{
		{"", 0},
		{"one", 1},
		{"two  words", 2},
		{"  leading and trailing  ", 3},
		{"line\nbreaks\tand tabs", 4},
	}

	for _, tt := range tests {
		s := Slide{Text: tt.text}
		if got := s.WordCount(); got != tt.want {
			t.Errorf("WordCount(%q) = %d, want %d", tt.text, got, tt.want)
		}
	}
}

// TestFixPlanCountOutcomes tests outcome counting.
func TestFixPlanCountOutcomes(t *testing.T) {
	t.Parallel()

	plan := FixPlan{
		Outcomes: []FixOutcome{
			{Status: FixApplied},
			{Status: FixApplied},
			{Status: FixNotFound},
			{Status: FixFailed},
		},
	}
	plan.CountOutcomes()

	if plan.Applied != 2 || plan.NotFound != 1 || plan.Failed != 1 {
		t.Errorf("counts = %d/%d/%d, want 2/1/1", plan.Applied, plan.NotFound, plan.Failed)
	}
}
