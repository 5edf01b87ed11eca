package pipeline

import (
	"context"
	"os"
	"strings"
	"testing"
)

// TestFixLoopRun tests the analyze-fix-reanalyze loop.
func TestFixLoopRun(t *testing.T) {
	t.Parallel()

	t.Run("fixes undersized text and reaches target", func(t *testing.T) {
		t.Parallel()

		path := writeDeck(t, sampleDeck)

		loop := NewFixLoop(
			WithTargetScore(98),
			WithMaxIterations(3),
		)

		outcome, err := loop.Run(context.Background(), path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if outcome.Iterations != 1 {
			t.Errorf("iterations = %d, want 1", outcome.Iterations)
		}
		if len(outcome.Plans) != 1 {
			t.Fatalf("plans = %d, want 1", len(outcome.Plans))
		}
		if outcome.Plans[0].Applied != 1 {
			t.Errorf("applied = %d, want 1", outcome.Plans[0].Applied)
		}

		if outcome.Initial.Summary.AverageScore != 97 {
			t.Errorf("initial average = %v, want 97", outcome.Initial.Summary.AverageScore)
		}
		if outcome.Final.Summary.AverageScore != 100 {
			t.Errorf("final average = %v, want 100", outcome.Final.Summary.AverageScore)
		}
		if !outcome.TargetReached {
			t.Error("expected target reached")
		}

		content, err := os.ReadFile(path)
		if err != nil {
			t.Fatal(err)
		}
		if strings.Contains(string(content), "0.9rem") {
			t.Error("undersized font literal still present after fix")
		}
		if !strings.Contains(string(content), "font-size: 1.25rem") {
			t.Error("upgraded font literal missing after fix")
		}
	})

	t.Run("already passing deck is untouched", func(t *testing.T) {
		t.Parallel()

		path := writeDeck(t, sampleDeck)
		before, err := os.ReadFile(path)
		if err != nil {
			t.Fatal(err)
		}

		loop := NewFixLoop(WithTargetScore(90))

		outcome, err := loop.Run(context.Background(), path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if outcome.Iterations != 0 {
			t.Errorf("iterations = %d, want 0", outcome.Iterations)
		}
		if !outcome.TargetReached {
			t.Error("expected target reached without fixes")
		}

		after, err := os.ReadFile(path)
		if err != nil {
			t.Fatal(err)
		}
		if string(before) != string(after) {
			t.Error("file changed even though no fixes were needed")
		}
	})

	t.Run("dry run leaves file untouched after one pass", func(t *testing.T) {
		t.Parallel()

		path := writeDeck(t, sampleDeck)
		before, err := os.ReadFile(path)
		if err != nil {
			t.Fatal(err)
		}

		loop := NewFixLoop(
			WithTargetScore(100),
			WithMaxIterations(3),
			WithDryRun(true),
		)

		outcome, err := loop.Run(context.Background(), path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if outcome.Iterations != 1 {
			t.Errorf("iterations = %d, want 1 for dry run", outcome.Iterations)
		}
		if len(outcome.Plans) != 1 {
			t.Fatalf("plans = %d, want 1", len(outcome.Plans))
		}
		if outcome.TargetReached {
			t.Error("dry run should not report target reached")
		}

		after, err := os.ReadFile(path)
		if err != nil {
			t.Fatal(err)
		}
		if string(before) != string(after) {
			t.Error("dry run modified the file")
		}
	})

	t.Run("missing presentation fails", func(t *testing.T) {
		t.Parallel()

		loop := NewFixLoop()

		if _, err := loop.Run(context.Background(), "no-such-deck.html"); err == nil {
			t.Error("expected error for missing presentation")
		}
	})
}
