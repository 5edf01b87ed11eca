package fix

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"golang.org/x/net/html"

	"github.com/deckaudit/deckaudit/internal/model"
)

// ErrNoStyleBlock is returned when a CSS injection finds no closing style tag.
var ErrNoStyleBlock = errors.New("fix: no closing </style> tag to inject before")

// ErrNoScriptBlock is returned when a script injection finds no closing script tag.
var ErrNoScriptBlock = errors.New("fix: no closing </script> tag to inject before")

// Applier applies a fix list to a presentation file.
//
// Every fix gets an explicit outcome. A replace whose target substring is
// gone reports not_found instead of silently succeeding, which is exactly
// what a second identical run over an already-fixed file produces.
type Applier struct {
	now func() time.Time
}

// ApplierOption configures an Applier.
type ApplierOption func(*Applier)

// WithClock overrides the timestamp source for backup names.
func WithClock(now func() time.Time) ApplierOption {
	return func(a *Applier) {
		a.now = now
	}
}

// NewApplier creates an Applier.
func NewApplier(opts ...ApplierOption) *Applier {
	a := &Applier{now: time.Now}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Apply runs the fix list against the file at path and returns the plan
// with per-fix outcomes. In dry-run mode the file is read but never
// written and no backup is created; the returned plan carries the fixes
// for serialization.
func (a *Applier) Apply(path string, fixes []model.Fix, dryRun bool) (*model.FixPlan, error) {
	plan := &model.FixPlan{
		Presentation: path,
		Fixes:        fixes,
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("fix: read presentation: %w", err)
	}
	content := string(raw)

	if dryRun {
		return plan, nil
	}

	backupPath, err := a.writeBackup(path, raw)
	if err != nil {
		return nil, err
	}
	plan.BackupPath = backupPath

	for _, f := range fixes {
		updated, status, applyErr := applyOne(content, &f)
		outcome := model.FixOutcome{Fix: f, Status: status}
		if applyErr != nil {
			outcome.Error = applyErr.Error()
		}
		plan.Outcomes = append(plan.Outcomes, outcome)
		if status == model.FixApplied {
			content = updated
		}
	}
	plan.CountOutcomes()

	if plan.Applied > 0 {
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			return nil, fmt.Errorf("fix: write presentation: %w", err)
		}
	}
	return plan, nil
}

// writeBackup copies the original bytes to a timestamped sibling file.
func (a *Applier) writeBackup(path string, raw []byte) (string, error) {
	stamp := a.now().UnixMilli()
	backupPath := strings.TrimSuffix(path, ".html") + fmt.Sprintf("-backup-%d.html", stamp)
	if err := os.WriteFile(backupPath, raw, 0o600); err != nil {
		return "", fmt.Errorf("fix: write backup: %w", err)
	}
	return backupPath, nil
}

// applyOne applies a single fix to the in-memory content.
func applyOne(content string, f *model.Fix) (string, model.FixStatus, error) {
	switch f.Type {
	case model.FixTypeReplace:
		if !strings.Contains(content, f.OldString) {
			return content, model.FixNotFound, nil
		}
		return strings.ReplaceAll(content, f.OldString, f.NewString), model.FixApplied, nil

	case model.FixTypeInjectCSS:
		if strings.Contains(content, f.CSS) {
			// Block already injected by an earlier run.
			return content, model.FixNotFound, nil
		}
		return injectBefore(content, "</style>", "\n"+f.CSS+"\n", ErrNoStyleBlock)

	case model.FixTypeInjectScript:
		if strings.Contains(content, f.Script) {
			return content, model.FixNotFound, nil
		}
		return injectBefore(content, "</script>", "\n"+f.Script+"\n", ErrNoScriptBlock)

	case model.FixTypeStampSlides:
		stamped, n := stampSlides(content)
		if n == 0 {
			return content, model.FixNotFound, nil
		}
		return stamped, model.FixApplied, nil

	default:
		return content, model.FixFailed, fmt.Errorf("fix: unknown fix type %q", f.Type)
	}
}

// injectBefore inserts block immediately before the last occurrence of
// marker.
func injectBefore(content, marker, block string, missing error) (string, model.FixStatus, error) {
	idx := strings.LastIndex(content, marker)
	if idx < 0 {
		return content, model.FixFailed, missing
	}
	return content[:idx] + block + content[idx:], model.FixApplied, nil
}

// stampSlides writes data-slide attributes onto top-level section elements
// that lack one, numbering them in document order starting at 1. Returns
// the updated content and the number of sections stamped; already-stamped
// sections are counted in the numbering but left untouched.
func stampSlides(content string) (string, int) {
	tokenizer := html.NewTokenizer(strings.NewReader(content))

	var out strings.Builder
	out.Grow(len(content) + 256)
	depth := 0
	slideNumber := 0
	stamped := 0

	for {
		tokenType := tokenizer.Next()
		if tokenType == html.ErrorToken {
			return out.String(), stamped
		}

		rawToken := string(tokenizer.Raw())
		name, _ := tokenizer.TagName()

		switch tokenType {
		case html.StartTagToken:
			if string(name) == "section" {
				if depth == 0 {
					slideNumber++
					if !strings.Contains(rawToken, "data-slide") {
						rawToken = rawToken[:len(rawToken)-1] +
							fmt.Sprintf(` data-slide="%d">`, slideNumber)
						stamped++
					}
				}
				depth++
			}
		case html.EndTagToken:
			if string(name) == "section" && depth > 0 {
				depth--
			}
		}

		out.WriteString(rawToken)
	}
}
