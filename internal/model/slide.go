package model

import (
	"crypto/sha256"
	"encoding/hex"
)

// Slide represents one navigable unit of a presentation document.
// It is an immutable snapshot taken when the deck was loaded: the fix
// applier mutates the file on disk, never a Slide value.
type Slide struct {
	// Number is the 1-based position of the slide in the deck.
	Number int `json:"number"`

	// Fragment is the raw HTML of the slide's top-level section element,
	// including any inline style attributes.
	Fragment string `json:"-"` // Excluded from JSON due to size

	// Text is the rendered text content of the slide with tags stripped.
	// Used by word-count and text-density checks.
	Text string `json:"-"` // Excluded from JSON due to size

	// Title is the first heading found in the slide, if any.
	Title string `json:"title,omitempty"`

	// Images contains the images referenced by the slide.
	Images []SlideImage `json:"images,omitempty"`

	// Headings contains the heading levels in document order (1 for h1 ... 6 for h6).
	Headings []int `json:"headings,omitempty"`

	// Bullets is the number of list items on the slide.
	Bullets int `json:"bullets"`

	// Paragraphs is the number of paragraph elements on the slide.
	Paragraphs int `json:"paragraphs"`

	// Hash is the SHA-256 hash of the fragment.
	// Used for change detection between audit runs.
	Hash string `json:"hash,omitempty"`

	// Screenshots holds capture artifacts for this slide, if captured.
	Screenshots *Screenshots `json:"screenshots,omitempty"`
}

// SlideImage describes an image element found on a slide.
type SlideImage struct {
	// Source is the img src attribute.
	Source string `json:"source"`

	// Alt is the alt attribute. Empty means no alt text was declared.
	Alt string `json:"alt,omitempty"`

	// HasAlt distinguishes alt="" (declared, decorative) from a missing attribute.
	HasAlt bool `json:"has_alt"`
}

// Screenshots holds the capture artifacts for one slide.
// Write-once: the capture step creates them and nothing updates them afterwards.
type Screenshots struct {
	// DesktopPath is the PNG path for the desktop viewport capture.
	DesktopPath string `json:"desktop_path"`

	// MobilePath is the PNG path for the mobile viewport capture.
	MobilePath string `json:"mobile_path"`

	// URL is the slide-scoped URL the capture navigated to.
	URL string `json:"url,omitempty"`
}

// ComputeHash calculates and sets the SHA-256 hash of the slide fragment.
func (s *Slide) ComputeHash() {
	if s.Fragment == "" {
		s.Hash = ""
		return
	}
	sum := sha256.Sum256([]byte(s.Fragment))
	s.Hash = hex.EncodeToString(sum[:])
}

// WordCount returns the number of whitespace-separated words in the slide text.
func (s *Slide) WordCount() int {
	count := 0
	inWord := false
	for _, r := range s.Text {
		switch r {
		case ' ', '\t', '\n', '\r':
			inWord = false
		default:
			if !inWord {
				count++
				inWord = true
			}
		}
	}
	return count
}
