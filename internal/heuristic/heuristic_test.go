package heuristic

import (
	"context"
	"reflect"
	"strings"
	"testing"

	"github.com/deckaudit/deckaudit/internal/model"
)

func slideData(number int, fragment string) *SlideData {
	s := &model.Slide{
		Number:   number,
		Fragment: fragment,
	}
	return &SlideData{Slide: s}
}

func issueKinds(issues []model.Issue) []string {
	kinds := make([]string, len(issues))
	for i, issue := range issues {
		kinds[i] = issue.Kind
	}
	return kinds
}

func countKind(issues []model.Issue, kind string) int {
	n := 0
	for _, issue := range issues {
		if issue.Kind == kind {
			n++
		}
	}
	return n
}

func TestTextSizeChecker_Check(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		fragment   string
		wantIssues int
		wantValue  string
		wantCount  int
	}{
		{
			name:       "small rem size flagged",
			fragment:   `<section><p style="font-size: 0.9rem;">tiny</p></section>`,
			wantIssues: 1,
			wantValue:  "0.9rem",
			wantCount:  1,
		},
		{
			name:       "repeated literal counted once",
			fragment:   `<section><style>.a{font-size:0.9rem}.b{font-size:0.9rem}</style></section>`,
			wantIssues: 1,
			wantValue:  "0.9rem",
			wantCount:  2,
		},
		{
			name:       "readable rem size passes",
			fragment:   `<section><p style="font-size: 1.5rem;">fine</p></section>`,
			wantIssues: 0,
		},
		{
			name:       "small px size flagged",
			fragment:   `<section><style>p{font-size: 14px}</style></section>`,
			wantIssues: 1,
			wantValue:  "14px",
			wantCount:  1,
		},
		{
			name:       "readable px size passes",
			fragment:   `<section><style>p{font-size: 28px}</style></section>`,
			wantIssues: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			checker := NewTextSizeChecker(DefaultThresholds())
			issues, err := checker.Check(context.Background(), slideData(1, tt.fragment))
			if err != nil {
				t.Fatalf("Check() error = %v", err)
			}
			if len(issues) != tt.wantIssues {
				t.Fatalf("Check() returned %d issues, want %d: %v", len(issues), tt.wantIssues, issueKinds(issues))
			}
			if tt.wantIssues == 0 {
				return
			}
			if issues[0].Kind != "text_size" {
				t.Errorf("Kind = %q, want text_size", issues[0].Kind)
			}
			if issues[0].Value != tt.wantValue {
				t.Errorf("Value = %q, want %q", issues[0].Value, tt.wantValue)
			}
			if issues[0].Count != tt.wantCount {
				t.Errorf("Count = %d, want %d", issues[0].Count, tt.wantCount)
			}
		})
	}
}

func TestContrastChecker_Check(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		fragment string
		want     int
	}{
		{
			name:     "dark background without light text is exactly one issue",
			fragment: `<section data-background-color="#1a1a1a"><h2>Title</h2><p>body</p></section>`,
			want:     1,
		},
		{
			name:     "dark background with explicit white text passes",
			fragment: `<section data-background-color="#1a1a1a"><h2 style="color: white">Title</h2></section>`,
			want:     0,
		},
		{
			name:     "dark background with hex light text passes",
			fragment: `<section style="background-color: #111"><p style="color: #ffffff">body</p></section>`,
			want:     0,
		},
		{
			name:     "inline dark background without light text flagged",
			fragment: `<section style="background: #222222"><p>body</p></section>`,
			want:     1,
		},
		{
			name:     "light background ignored",
			fragment: `<section data-background-color="#fafafa"><p>body</p></section>`,
			want:     0,
		},
		{
			name:     "multiple dark declarations still one issue",
			fragment: `<section data-background-color="#1a1a1a"><div style="background: #000"><p>x</p></div></section>`,
			want:     1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			checker := NewContrastChecker()
			issues, err := checker.Check(context.Background(), slideData(1, tt.fragment))
			if err != nil {
				t.Fatalf("Check() error = %v", err)
			}
			if got := countKind(issues, "dark_on_dark"); got != tt.want {
				t.Errorf("dark_on_dark issues = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestOverflowChecker_Check(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		fragment string
		want     []string
	}{
		{
			name:     "height above ceiling flagged",
			fragment: `<section><div style="height: 650px">x</div></section>`,
			want:     []string{"overflow_content"},
		},
		{
			name:     "height below ceiling passes",
			fragment: `<section><div style="height: 400px">x</div></section>`,
			want:     nil,
		},
		{
			name:     "min-height above ceiling flagged",
			fragment: `<section><style>.hero{min-height: 720px}</style></section>`,
			want:     []string{"overflow_content"},
		},
		{
			name:     "pixel grid rows flagged",
			fragment: `<section><div style="grid-template-rows: 200px 300px 1fr">x</div></section>`,
			want:     []string{"grid_rows"},
		},
		{
			name:     "fractional grid rows pass",
			fragment: `<section><div style="grid-template-rows: 1fr 2fr">x</div></section>`,
			want:     nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			checker := NewOverflowChecker(DefaultThresholds())
			issues, err := checker.Check(context.Background(), slideData(1, tt.fragment))
			if err != nil {
				t.Fatalf("Check() error = %v", err)
			}
			got := issueKinds(issues)
			if len(got) == 0 {
				got = nil
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Check() kinds = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestOverflowChecker_Severity(t *testing.T) {
	t.Parallel()

	checker := NewOverflowChecker(DefaultThresholds())
	issues, err := checker.Check(context.Background(),
		slideData(3, `<section><div style="height: 650px">x</div></section>`))
	if err != nil {
		t.Fatalf("Check() error = %v", err)
	}
	if len(issues) != 1 {
		t.Fatalf("Check() returned %d issues, want 1", len(issues))
	}
	if issues[0].Severity != model.SeverityCritical {
		t.Errorf("Severity = %v, want SeverityCritical", issues[0].Severity)
	}
	if issues[0].SlideNumber != 3 {
		t.Errorf("SlideNumber = %d, want 3", issues[0].SlideNumber)
	}
}

func TestOverlayChecker_Check(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		fragment string
		want     int
	}{
		{
			name:     "thin dark overlay flagged",
			fragment: `<section><div style="background: rgba(0, 0, 0, 0.3)">x</div></section>`,
			want:     1,
		},
		{
			name:     "opaque dark overlay passes",
			fragment: `<section><div style="background: rgba(0, 0, 0, 0.6)">x</div></section>`,
			want:     0,
		},
		{
			name:     "thin light scrim passes",
			fragment: `<section><div style="background: rgba(255, 255, 255, 0.2)">x</div></section>`,
			want:     0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			checker := NewOverlayChecker(DefaultThresholds())
			issues, err := checker.Check(context.Background(), slideData(1, tt.fragment))
			if err != nil {
				t.Fatalf("Check() error = %v", err)
			}
			if got := countKind(issues, "overlay_opacity"); got != tt.want {
				t.Errorf("overlay_opacity issues = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestCognitiveLoadChecker_Check(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		bullets int
		text    string
		want    int
	}{
		{
			name:    "bullet overload flagged",
			bullets: 9,
			text:    "short",
			want:    1,
		},
		{
			name:    "word overload flagged",
			bullets: 2,
			text:    strings.Repeat("word ", 120),
			want:    1,
		},
		{
			name:    "both overloads are two issues",
			bullets: 9,
			text:    strings.Repeat("word ", 120),
			want:    2,
		},
		{
			name:    "light slide passes",
			bullets: 3,
			text:    "just a sentence or two",
			want:    0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			checker := NewCognitiveLoadChecker(DefaultThresholds())
			data := &SlideData{Slide: &model.Slide{
				Number:  1,
				Bullets: tt.bullets,
				Text:    tt.text,
			}}
			issues, err := checker.Check(context.Background(), data)
			if err != nil {
				t.Fatalf("Check() error = %v", err)
			}
			if got := countKind(issues, "cognitive_load"); got != tt.want {
				t.Errorf("cognitive_load issues = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestMobileChecker_Check(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		fragment string
		want     []string
	}{
		{
			name:     "wide fixed width flagged",
			fragment: `<section><div style="width: 800px">x</div></section>`,
			want:     []string{"fixed_width"},
		},
		{
			name:     "phone-sized width passes",
			fragment: `<section><div style="width: 320px">x</div></section>`,
			want:     nil,
		},
		{
			name:     "max-width passes",
			fragment: `<section><div style="max-width: 800px">x</div></section>`,
			want:     nil,
		},
		{
			name:     "pixel font flagged",
			fragment: `<section><p style="font-size: 32px">x</p></section>`,
			want:     []string{"fixed_font"},
		},
		{
			name:     "rem font passes",
			fragment: `<section><p style="font-size: 1.5rem">x</p></section>`,
			want:     nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			checker := NewMobileChecker()
			issues, err := checker.Check(context.Background(), slideData(1, tt.fragment))
			if err != nil {
				t.Fatalf("Check() error = %v", err)
			}
			got := issueKinds(issues)
			if len(got) == 0 {
				got = nil
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Check() kinds = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAccessibilityChecker_Check(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		images   []model.SlideImage
		headings []int
		want     []string
	}{
		{
			name:   "missing alt flagged",
			images: []model.SlideImage{{Source: "img/chart.png", HasAlt: false}},
			want:   []string{"missing_alt"},
		},
		{
			name:   "alt present passes",
			images: []model.SlideImage{{Source: "img/chart.png", Alt: "Quarterly revenue", HasAlt: true}},
			want:   nil,
		},
		{
			name:     "heading skip flagged",
			headings: []int{2, 4},
			want:     []string{"heading_skip"},
		},
		{
			name:     "sequential headings pass",
			headings: []int{1, 2, 3},
			want:     nil,
		},
		{
			name:     "descending headings pass",
			headings: []int{3, 2},
			want:     nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			checker := NewAccessibilityChecker()
			data := &SlideData{Slide: &model.Slide{
				Number:   1,
				Images:   tt.images,
				Headings: tt.headings,
			}}
			issues, err := checker.Check(context.Background(), data)
			if err != nil {
				t.Fatalf("Check() error = %v", err)
			}
			got := issueKinds(issues)
			if len(got) == 0 {
				got = nil
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Check() kinds = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEngine_CheckSlide(t *testing.T) {
	t.Parallel()

	t.Run("dark slide with small text yields both issue kinds", func(t *testing.T) {
		t.Parallel()

		engine := NewEngine()
		fragment := `<section data-background-color="#1a1a1a">
<h2>Title</h2>
<p style="font-size: 0.9rem;">tiny text</p>
</section>`
		issues, err := engine.CheckSlide(context.Background(), slideData(1, fragment))
		if err != nil {
			t.Fatalf("CheckSlide() error = %v", err)
		}
		if got := countKind(issues, "dark_on_dark"); got != 1 {
			t.Errorf("dark_on_dark issues = %d, want 1", got)
		}
		if got := countKind(issues, "text_size"); got != 1 {
			t.Errorf("text_size issues = %d, want 1", got)
		}
	})

	t.Run("deterministic across runs", func(t *testing.T) {
		t.Parallel()

		engine := NewEngine()
		fragment := `<section style="background: #111">
<p style="font-size: 0.8rem; width: 700px; height: 700px;">x</p>
<p style="font-size: 0.9rem;">y</p>
</section>`

		first, err := engine.CheckSlide(context.Background(), slideData(2, fragment))
		if err != nil {
			t.Fatalf("CheckSlide() error = %v", err)
		}
		for i := 0; i < 10; i++ {
			again, err := engine.CheckSlide(context.Background(), slideData(2, fragment))
			if err != nil {
				t.Fatalf("CheckSlide() error = %v", err)
			}
			if !reflect.DeepEqual(first, again) {
				t.Fatalf("CheckSlide() run %d = %v, want %v", i, issueKinds(again), issueKinds(first))
			}
		}
	})

	t.Run("cancelled context stops the run", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		engine := NewEngine()
		_, err := engine.CheckSlide(ctx, slideData(1, `<section></section>`))
		if err == nil {
			t.Error("CheckSlide() with cancelled context returned nil error")
		}
	})
}

func TestDeduplicateIssues(t *testing.T) {
	t.Parallel()

	a := model.NewIssue("text_size", 1, "t", "d", "0.9rem")
	b := model.NewIssue("text_size", 1, "t", "d", "0.9rem")
	c := model.NewIssue("text_size", 1, "t", "d", "0.8rem")
	d := model.NewIssue("fixed_font", 1, "t", "d", "0.9rem")

	got := deduplicateIssues([]model.Issue{a, b, c, d})
	if len(got) != 3 {
		t.Fatalf("deduplicateIssues() returned %d issues, want 3", len(got))
	}
}
