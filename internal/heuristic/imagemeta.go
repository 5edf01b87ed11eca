package heuristic

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	exif "github.com/dsoprea/go-exif/v3"

	"github.com/deckaudit/deckaudit/internal/model"
)

// maxImageBytes caps how much of an image file is read for EXIF scanning.
const maxImageBytes = 32 << 20

// ImageMetadataChecker inspects local images referenced by a slide for
// embedded EXIF metadata. Published decks should ship scrubbed images:
// camera EXIF leaks device details and GPS tags leak where the photo was
// taken.
type ImageMetadataChecker struct{}

// NewImageMetadataChecker creates an ImageMetadataChecker.
func NewImageMetadataChecker() *ImageMetadataChecker {
	return &ImageMetadataChecker{}
}

// Name returns the checker name.
func (c *ImageMetadataChecker) Name() string {
	return "image_metadata"
}

// Category returns the checker category.
func (c *ImageMetadataChecker) Category() string {
	return CategoryContent
}

// Check resolves relative image sources against the deck's directory and
// scans each for EXIF blocks. Remote and data URLs are skipped; unreadable
// files are skipped rather than failing the slide.
func (c *ImageMetadataChecker) Check(ctx context.Context, data *SlideData) ([]model.Issue, error) {
	if data.DeckPath == "" {
		return nil, nil
	}
	deckDir := filepath.Dir(data.DeckPath)

	var issues []model.Issue
	for _, img := range data.Slide.Images {
		if err := ctx.Err(); err != nil {
			return issues, err
		}
		path, ok := localImagePath(deckDir, img.Source)
		if !ok {
			continue
		}
		issue, found := scanImage(path, img.Source, data.Slide.Number)
		if found {
			issues = append(issues, issue)
		}
	}
	return issues, nil
}

// localImagePath resolves an image src to a local file path, or reports
// that the src is not a local file.
func localImagePath(deckDir, src string) (string, bool) {
	if src == "" || strings.HasPrefix(src, "data:") {
		return "", false
	}
	if u, err := url.Parse(src); err == nil && u.Scheme != "" && u.Scheme != "file" {
		return "", false
	}
	if filepath.IsAbs(src) {
		return src, true
	}
	return filepath.Join(deckDir, filepath.FromSlash(src)), true
}

// scanImage reads one image file and reports an issue if EXIF data is
// present. GPS tags escalate the issue kind.
func scanImage(path, src string, slideNumber int) (model.Issue, bool) {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() || info.Size() > maxImageBytes {
		return model.Issue{}, false
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return model.Issue{}, false
	}

	rawExif, err := exif.SearchAndExtractExif(raw)
	if err != nil {
		// Includes exif.ErrNoExif; either way there is nothing to report.
		return model.Issue{}, false
	}

	tags, _, err := exif.GetFlatExifData(rawExif, nil)
	if err != nil || len(tags) == 0 {
		return model.Issue{}, false
	}

	hasGPS := false
	for _, tag := range tags {
		if strings.HasPrefix(tag.TagName, "GPS") {
			hasGPS = true
			break
		}
	}

	if hasGPS {
		return model.NewIssue("image_metadata_gps", slideNumber,
			"Image embeds GPS location",
			fmt.Sprintf("image %q carries GPS EXIF tags revealing where it was taken; strip metadata before publishing", src),
			src), true
	}
	issue := model.NewIssue("image_metadata", slideNumber,
		"Image embeds EXIF metadata",
		fmt.Sprintf("image %q carries %d EXIF tags (camera, timestamps); strip metadata before publishing", src, len(tags)),
		src)
	issue.Count = len(tags)
	return issue, true
}
