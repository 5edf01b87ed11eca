// Package capture drives a headless browser to screenshot each slide of a
// presentation at desktop and mobile viewports.
//
// Screenshots are evidence, not input: the heuristic checks run on the HTML
// source, and the captured images let a human verify what a finding looks
// like. A deck audits fine without a browser installed; capture is opt-in.
package capture

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/chromedp/chromedp"

	"github.com/deckaudit/deckaudit/internal/model"
)

// Viewport is a browser window size to capture at.
type Viewport struct {
	Width  int
	Height int
	Mobile bool
}

// DesktopViewport matches a common laptop presentation window.
var DesktopViewport = Viewport{Width: 1440, Height: 900}

// MobileViewport matches a current-generation phone.
var MobileViewport = Viewport{Width: 390, Height: 844, Mobile: true}

// Options configures the capturer.
type Options struct {
	// OutputDir is where PNG files are written.
	OutputDir string

	// SettleDelay is how long to wait after navigation before the shot,
	// so entrance animations finish.
	SettleDelay time.Duration

	// NavigateTimeout bounds each navigation plus screenshot.
	NavigateTimeout time.Duration

	// Desktop and Mobile are the two capture viewports.
	Desktop Viewport
	Mobile  Viewport
}

// DefaultOptions returns the standard capture settings.
func DefaultOptions() Options {
	return Options{
		OutputDir:       "analysis/screenshots",
		SettleDelay:     1500 * time.Millisecond,
		NavigateTimeout: 30 * time.Second,
		Desktop:         DesktopViewport,
		Mobile:          MobileViewport,
	}
}

// Capturer screenshots presentation slides via a headless Chrome instance.
type Capturer struct {
	opts Options
}

// Option configures a Capturer.
type Option func(*Options)

// WithOutputDir sets the screenshot output directory.
func WithOutputDir(dir string) Option {
	return func(o *Options) {
		o.OutputDir = dir
	}
}

// WithSettleDelay sets the post-navigation settle delay.
func WithSettleDelay(d time.Duration) Option {
	return func(o *Options) {
		o.SettleDelay = d
	}
}

// WithNavigateTimeout sets the per-slide navigation timeout.
func WithNavigateTimeout(d time.Duration) Option {
	return func(o *Options) {
		o.NavigateTimeout = d
	}
}

// NewCapturer creates a Capturer.
func NewCapturer(opts ...Option) *Capturer {
	options := DefaultOptions()
	for _, opt := range opts {
		opt(&options)
	}
	return &Capturer{opts: options}
}

// slideCountJS asks the deck how many slides it has. Decks driven by
// reveal.js expose the Reveal API; plain decks are counted by their
// top-level section elements.
const slideCountJS = `(function () {
	if (typeof Reveal !== 'undefined' && Reveal.getTotalSlides) {
		return Reveal.getTotalSlides();
	}
	var nested = document.querySelectorAll('section section').length;
	return document.querySelectorAll('section').length - nested;
})()`

// gotoSlideJS navigates the deck to slide n (1-based). Reveal decks use
// the API; plain decks scroll the section into view.
const gotoSlideJS = `(function (n) {
	if (typeof Reveal !== 'undefined' && Reveal.slide) {
		Reveal.slide(n - 1, 0);
		return true;
	}
	var sections = Array.prototype.filter.call(
		document.querySelectorAll('section'),
		function (s) { return !s.parentElement.closest('section'); });
	if (sections[n - 1]) {
		sections[n - 1].scrollIntoView();
		return true;
	}
	return false;
})(%d)`

// CaptureDeck screenshots every slide of the presentation at the given URL
// at both viewports. Returns one Screenshots record per slide in order.
func (c *Capturer) CaptureDeck(ctx context.Context, url string) ([]model.Screenshots, error) {
	if err := os.MkdirAll(c.opts.OutputDir, 0o750); err != nil {
		return nil, fmt.Errorf("capture: create output dir: %w", err)
	}

	execOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
	)
	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, execOpts...)
	defer allocCancel()

	browserCtx, browserCancel := chromedp.NewContext(allocCtx)
	defer browserCancel()

	count, err := c.countSlides(browserCtx, url)
	if err != nil {
		return nil, err
	}

	stamp := time.Now().UnixMilli()
	shots := make([]model.Screenshots, 0, count)

	for n := 1; n <= count; n++ {
		shot := model.Screenshots{URL: url}

		shot.DesktopPath, err = c.captureSlide(browserCtx, url, n, c.opts.Desktop, "desktop", stamp)
		if err != nil {
			return shots, fmt.Errorf("capture: slide %d desktop: %w", n, err)
		}
		shot.MobilePath, err = c.captureSlide(browserCtx, url, n, c.opts.Mobile, "mobile", stamp)
		if err != nil {
			return shots, fmt.Errorf("capture: slide %d mobile: %w", n, err)
		}

		shots = append(shots, shot)
	}
	return shots, nil
}

// countSlides loads the deck once and asks it for its slide count.
func (c *Capturer) countSlides(ctx context.Context, url string) (int, error) {
	navCtx, cancel := context.WithTimeout(ctx, c.opts.NavigateTimeout)
	defer cancel()

	var count int
	err := chromedp.Run(navCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body"),
		chromedp.Sleep(c.opts.SettleDelay),
		chromedp.Evaluate(slideCountJS, &count),
	)
	if err != nil {
		return 0, fmt.Errorf("capture: count slides: %w", err)
	}
	if count < 1 {
		return 0, fmt.Errorf("capture: no slides found at %s", url)
	}
	return count, nil
}

// captureSlide navigates to one slide at one viewport and writes the PNG.
func (c *Capturer) captureSlide(ctx context.Context, url string, n int, vp Viewport, label string, stamp int64) (string, error) {
	navCtx, cancel := context.WithTimeout(ctx, c.opts.NavigateTimeout)
	defer cancel()

	var navigated bool
	var buf []byte
	err := chromedp.Run(navCtx,
		chromedp.EmulateViewport(int64(vp.Width), int64(vp.Height), chromedp.EmulateScale(1)),
		chromedp.Navigate(url),
		chromedp.WaitReady("body"),
		chromedp.Evaluate(fmt.Sprintf(gotoSlideJS, n), &navigated),
		chromedp.Sleep(c.opts.SettleDelay),
		chromedp.CaptureScreenshot(&buf),
	)
	if err != nil {
		return "", err
	}
	if !navigated {
		return "", fmt.Errorf("slide %d not reachable", n)
	}

	path := filepath.Join(c.opts.OutputDir, fmt.Sprintf("slide-%d-%s-%d.png", n, label, stamp))
	if err := os.WriteFile(path, buf, 0o600); err != nil {
		return "", err
	}
	return path, nil
}
