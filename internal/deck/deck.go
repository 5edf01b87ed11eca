package deck

import (
	"fmt"
	"os"
	"strings"

	"github.com/deckaudit/deckaudit/internal/model"
)

// MaxDeckSize is the maximum presentation file size we load.
// Slide decks are hand-authored documents; anything larger is almost
// certainly not one and would only waste memory.
const MaxDeckSize = 20 * 1024 * 1024 // 20 MB

// Deck is a loaded presentation document.
type Deck struct {
	// Path is the presentation file path.
	Path string

	// Raw is the full document source.
	Raw string

	// Slides are the top-level sections in document order.
	Slides []model.Slide

	// Framework is the detected presentation framework ("reveal" or "").
	Framework string
}

// Load reads and splits a presentation file.
func Load(path string) (*Deck, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open presentation: %w", err)
	}
	if info.Size() > MaxDeckSize {
		return nil, fmt.Errorf("presentation too large: %d bytes (limit %d)", info.Size(), MaxDeckSize)
	}

	data, err := os.ReadFile(path) //nolint:gosec // user-supplied presentation path is intentional
	if err != nil {
		return nil, fmt.Errorf("failed to read presentation: %w", err)
	}

	return Parse(path, string(data))
}

// Parse splits presentation source into slides.
func Parse(path, raw string) (*Deck, error) {
	fragments := SplitSlides(raw)
	if len(fragments) == 0 {
		return nil, fmt.Errorf("no slides found in %s (expected top-level <section> elements)", path)
	}

	d := &Deck{
		Path:      path,
		Raw:       raw,
		Framework: detectFramework(raw),
		Slides:    make([]model.Slide, 0, len(fragments)),
	}

	for i, fragment := range fragments {
		slide, err := parseSlide(i+1, fragment)
		if err != nil {
			return nil, fmt.Errorf("failed to parse slide %d: %w", i+1, err)
		}
		d.Slides = append(d.Slides, slide)
	}

	return d, nil
}

// detectFramework identifies the presentation framework from document markers.
// Only Reveal.js is recognized; its JS API drives slide-count detection during
// browser capture.
func detectFramework(raw string) string {
	if strings.Contains(raw, "reveal.js") || strings.Contains(raw, "Reveal.initialize") {
		return "reveal"
	}
	return ""
}

// SlideCount returns the number of slides in the deck.
func (d *Deck) SlideCount() int {
	return len(d.Slides)
}

// Slide returns the slide with the given 1-based number, or nil.
func (d *Deck) Slide(number int) *model.Slide {
	if number < 1 || number > len(d.Slides) {
		return nil
	}
	return &d.Slides[number-1]
}
