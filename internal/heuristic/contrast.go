package heuristic

import (
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/deckaudit/deckaudit/internal/model"
)

// ContrastChecker flags a declared dark background that co-occurs with the
// absence of an explicit light text color anywhere in the fragment.
//
// This is an absence-of-evidence heuristic, not a computed contrast ratio:
// it cannot see inherited or class-sheet colors, so it produces both false
// positives (light text inherited from a parent sheet) and false negatives
// (an explicit light color on one element while siblings stay dark). It is
// kept because dark-on-dark is the single most damaging defect a slide can
// have and the check is nearly free.
type ContrastChecker struct {
	darkBackground *regexp.Regexp
	lightText      *regexp.Regexp
}

// NewContrastChecker creates a ContrastChecker.
func NewContrastChecker() *ContrastChecker {
	return &ContrastChecker{
		// Background declarations: the data-background-color attribute used
		// by presentation frameworks, plus inline background/background-color.
		darkBackground: regexp.MustCompile(`(?i)(?:data-background-color\s*=\s*["']|background(?:-color)?\s*:\s*)(#[0-9a-f]{3,6})`),

		// Light text declarations. The leading [^-] keeps background-color
		// from matching as a text color.
		lightText: regexp.MustCompile(`(?i)[^-]color\s*:\s*(white|#fff\b|#ffffff|#fafafa|#f5f5f5|#eee\b|#eeeeee|rgba?\(\s*2[3-5]\d\s*,)`),
	}
}

// Name returns the checker name.
func (c *ContrastChecker) Name() string {
	return "contrast"
}

// Category returns the checker category.
func (c *ContrastChecker) Category() string {
	return CategoryStyle
}

// Check flags at most one dark-on-dark issue per slide.
func (c *ContrastChecker) Check(_ context.Context, data *SlideData) ([]model.Issue, error) {
	fragment := data.Slide.Fragment

	var darkHex string
	for _, m := range c.darkBackground.FindAllStringSubmatch(fragment, -1) {
		if isDarkHex(m[1]) {
			darkHex = m[1]
			break
		}
	}
	if darkHex == "" {
		return nil, nil
	}

	if c.lightText.MatchString(fragment) {
		return nil, nil
	}

	issue := model.NewIssue("dark_on_dark", data.Slide.Number,
		"Dark background without light text",
		fmt.Sprintf("background %s is declared with no explicit light text color in the slide", darkHex),
		darkHex)
	return []model.Issue{issue}, nil
}

// isDarkHex reports whether a hex color literal is dark.
// Dark means average channel brightness below 60 of 255, which catches the
// near-black palettes decks use for title slides.
func isDarkHex(hex string) bool {
	hex = hex[1:] // strip #
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return false
	}

	var sum int64
	for i := 0; i < 6; i += 2 {
		channel, err := strconv.ParseInt(hex[i:i+2], 16, 64)
		if err != nil {
			return false
		}
		sum += channel
	}
	return sum/3 < 60
}
