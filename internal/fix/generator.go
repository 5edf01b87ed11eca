// Package fix turns audit findings into concrete file mutations and applies
// them.
//
// Fixes are blunt on purpose: exact-substring replacement for size literals
// and CSS-block injection for slide-scoped overrides. Slide-scoped CSS
// targets section[data-slide="N"], so a stamping fix that writes those
// attributes onto the top-level sections is generated whenever slide-scoped
// CSS is present.
package fix

import (
	"fmt"
	"regexp"
	"sort"

	"github.com/deckaudit/deckaudit/internal/model"
)

// remUpgrades maps undersized rem/em literals to readable replacements.
// The replacement keeps the deck's relative size order: the smallest inputs
// land on the smallest outputs.
var remUpgrades = map[string]string{
	"0.7rem":  "1.2rem",
	"0.75rem": "1.2rem",
	"0.8rem":  "1.2rem",
	"0.85rem": "1.2rem",
	"0.9rem":  "1.25rem",
	"0.95rem": "1.3rem",
	"1rem":    "1.4rem",
	"1.0rem":  "1.4rem",
	"1.1rem":  "1.5rem",
	"0.8em":   "1.2em",
	"0.9em":   "1.25em",
	"1em":     "1.4em",
}

// pxUpgrades maps undersized px literals to readable replacements.
var pxUpgrades = map[string]string{
	"12px": "24px",
	"13px": "24px",
	"14px": "24px",
	"15px": "24px",
	"16px": "26px",
	"18px": "28px",
	"20px": "30px",
	"22px": "30px",
}

// fallbackRem is used for undersized rem literals not in the table.
const fallbackRem = "1.5rem"

// fallbackPx is used for undersized px literals not in the table.
const fallbackPx = "24px"

// pxTrack matches one pixel-sized track in a grid-template-rows value.
var pxTrack = regexp.MustCompile(`\d*\.?\d+px`)

// Generator maps issues to fixes. The upgrade tables are injected so tests
// and alternative rule sets can use their own sizes.
type Generator struct {
	remUpgrades map[string]string
	pxUpgrades  map[string]string
}

// GeneratorOption configures a Generator.
type GeneratorOption func(*Generator)

// WithRemUpgrades overrides the rem size upgrade table.
func WithRemUpgrades(m map[string]string) GeneratorOption {
	return func(g *Generator) {
		g.remUpgrades = m
	}
}

// WithPxUpgrades overrides the px size upgrade table.
func WithPxUpgrades(m map[string]string) GeneratorOption {
	return func(g *Generator) {
		g.pxUpgrades = m
	}
}

// NewGenerator creates a Generator with the default upgrade tables.
func NewGenerator(opts ...GeneratorOption) *Generator {
	g := &Generator{
		remUpgrades: remUpgrades,
		pxUpgrades:  pxUpgrades,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate produces the fix list for a deck report, ordered highest
// priority first. Order within a priority follows slide order, then issue
// kind, so repeated runs generate identical plans.
func (g *Generator) Generate(report *model.DeckReport) []model.Fix {
	var fixes []model.Fix
	seen := make(map[string]bool)
	slideScoped := false

	for _, slide := range report.Slides {
		for _, issue := range slide.Issues {
			fix, ok := g.fixFor(&issue)
			if !ok {
				continue
			}
			// One fix per distinct mutation: a replace covers every
			// occurrence of its literal, and identical injected blocks
			// would collide.
			key := string(fix.Type) + "|" + fix.OldString + "|" + fix.CSS + "|" + fix.Script
			if seen[key] {
				continue
			}
			seen[key] = true
			if fix.Selector != "" {
				slideScoped = true
			}
			fixes = append(fixes, fix)
		}
	}

	if slideScoped {
		fixes = append(fixes, model.Fix{
			Type:         model.FixTypeStampSlides,
			IssueKind:    "slide_identity",
			Priority:     model.PriorityCritical,
			PriorityText: model.PriorityCritical.String(),
			Description:  "Stamp data-slide attributes onto top-level sections so slide-scoped CSS has a stable target",
		})
	}

	sort.SliceStable(fixes, func(i, j int) bool {
		return fixes[i].Priority > fixes[j].Priority
	})
	return fixes
}

// fixFor maps one issue to its fix, or reports that the issue has no
// automatic fix.
func (g *Generator) fixFor(issue *model.Issue) (model.Fix, bool) {
	base := model.Fix{
		IssueKind:    issue.Kind,
		SlideNumber:  issue.SlideNumber,
		Priority:     priorityFor(issue.Severity),
		PriorityText: priorityFor(issue.Severity).String(),
	}

	switch issue.Kind {
	case "text_size":
		replacement, ok := g.remUpgrades[issue.Value]
		if !ok {
			replacement, ok = g.pxUpgrades[issue.Value]
		}
		if !ok {
			replacement = fallbackRem
			if pxTrack.MatchString(issue.Value) {
				replacement = fallbackPx
			}
		}
		base.Type = model.FixTypeReplace
		base.OldString = issue.Value
		base.NewString = replacement
		base.Description = fmt.Sprintf("Raise font size %s to %s", issue.Value, replacement)
		return base, true

	case "dark_on_dark":
		base.Type = model.FixTypeInjectCSS
		base.Selector = slideSelector(issue.SlideNumber)
		base.CSS = fmt.Sprintf(
			"%s, %s h1, %s h2, %s h3, %s p, %s li { color: #ffffff; }",
			base.Selector, base.Selector, base.Selector, base.Selector, base.Selector, base.Selector)
		base.Description = fmt.Sprintf("Force light text on the dark slide %d", issue.SlideNumber)
		return base, true

	case "overflow_content":
		base.Type = model.FixTypeInjectCSS
		base.Selector = slideSelector(issue.SlideNumber)
		base.CSS = fmt.Sprintf(
			"%s > div { height: auto !important; max-height: 100%%; overflow-y: auto; }",
			base.Selector)
		base.Description = fmt.Sprintf("Relax fixed heights on slide %d so content stays in view", issue.SlideNumber)
		return base, true

	case "grid_rows":
		base.Type = model.FixTypeReplace
		base.OldString = issue.Value
		base.NewString = pxTrack.ReplaceAllString(issue.Value, "auto")
		base.Description = fmt.Sprintf("Replace pixel grid tracks %q with auto sizing", issue.Value)
		return base, true

	case "overlay_opacity":
		base.Type = model.FixTypeReplace
		base.OldString = issue.Value
		base.NewString = raiseAlpha(issue.Value)
		base.Description = fmt.Sprintf("Raise overlay %s to a legible alpha", issue.Value)
		return base, true

	case "spacing":
		base.Type = model.FixTypeInjectCSS
		base.Selector = slideSelector(issue.SlideNumber)
		base.CSS = fmt.Sprintf(
			"%s li { margin-bottom: 0.5rem; } %s p { margin-bottom: 0.75rem; }",
			base.Selector, base.Selector)
		base.Description = fmt.Sprintf("Open up list and paragraph spacing on slide %d", issue.SlideNumber)
		return base, true

	case "fixed_width":
		base.Type = model.FixTypeInjectCSS
		base.Selector = slideSelector(issue.SlideNumber)
		base.CSS = fmt.Sprintf(
			"%s div, %s img { max-width: 100%%; }",
			base.Selector, base.Selector)
		base.Description = fmt.Sprintf("Cap fixed widths on slide %d at the viewport", issue.SlideNumber)
		return base, true

	case "fixed_font":
		base.Type = model.FixTypeInjectCSS
		base.Selector = slideSelector(issue.SlideNumber)
		base.CSS = fmt.Sprintf(
			"%s { font-size: clamp(1.2rem, 2.5vw, 1.8rem); }",
			base.Selector)
		base.Description = fmt.Sprintf("Apply fluid font sizing on slide %d", issue.SlideNumber)
		return base, true

	case "missing_alt":
		base.Type = model.FixTypeInjectScript
		base.Script = `document.querySelectorAll('img:not([alt])').forEach(function (img) { img.setAttribute('alt', ''); });`
		base.Description = "Mark images without alt text as decorative at load time"
		return base, true

	default:
		// cognitive_load, heading_skip, and metadata findings need a
		// content decision a string substitution cannot make.
		return model.Fix{}, false
	}
}

// slideSelector returns the stable identity selector for a slide. Fixes
// address slides by stamped attribute, not DOM position, so reordering
// slides later does not retarget old fixes.
func slideSelector(number int) string {
	return fmt.Sprintf(`section[data-slide="%d"]`, number)
}

// priorityFor maps issue severity to fix priority.
func priorityFor(s model.Severity) model.FixPriority {
	switch s {
	case model.SeverityCritical:
		return model.PriorityCritical
	case model.SeverityHigh:
		return model.PriorityHigh
	case model.SeverityMedium:
		return model.PriorityMedium
	default:
		return model.PriorityLow
	}
}

var alphaPattern = regexp.MustCompile(`(rgba\([^,]+,[^,]+,[^,]+,\s*)(0?\.\d+|0|1)(\s*\))`)

// raiseAlpha rewrites an rgba literal's alpha channel to 0.6.
func raiseAlpha(rgba string) string {
	return alphaPattern.ReplaceAllString(rgba, "${1}0.6${3}")
}
