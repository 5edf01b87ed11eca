package resolve

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

// Target is a resolved audit input.
type Target struct {
	// Path is the local file path, empty for remote targets.
	Path string

	// URL is the navigable URL for browser capture.
	// For local files this is a file:// URL.
	URL string

	// Remote is true when the target is an http(s) URL with no local file.
	Remote bool
}

// Resolver maps user-supplied target strings to presentations.
type Resolver struct {
	// courseRoot is the directory holding the course content tree.
	courseRoot string

	// lessonNames maps lesson numbers to their directory name suffix.
	lessonNames map[int]string

	// stat is the file existence probe, replaceable for tests.
	stat func(string) error
}

// DefaultLessonNames returns the lesson-name table for the default course
// layout. Unmapped lessons fall back to "lesson-N".
func DefaultLessonNames() map[int]string {
	return map[int]string{
		1: "welcome",
		2: "normal-vs-concern",
		3: "hormones",
		4: "honoring",
	}
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithCourseRoot sets the directory containing the course content tree.
func WithCourseRoot(root string) Option {
	return func(r *Resolver) {
		r.courseRoot = root
	}
}

// WithLessonNames replaces the lesson-name table.
func WithLessonNames(names map[int]string) Option {
	return func(r *Resolver) {
		r.lessonNames = names
	}
}

// New creates a Resolver with the default lesson-name table.
func New(opts ...Option) *Resolver {
	r := &Resolver{
		lessonNames: DefaultLessonNames(),
		stat: func(path string) error {
			_, err := os.Stat(path)
			return err
		},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// shorthandPattern matches the "weekN lessonM" shorthand, tolerating extra
// whitespace and case differences.
var shorthandPattern = regexp.MustCompile(`(?i)^week\s*(\d+)\s+lesson\s*(\d+)$`)

// Resolve maps a target string to a Target.
//
// Resolution order:
//  1. http(s) URLs pass through unchanged.
//  2. "weekN lessonM" shorthand resolves against the course tree, preferring
//     the animated-complete file over the plain presentation.
//  3. Anything else is treated as a filesystem path which must exist.
func (r *Resolver) Resolve(target string) (Target, error) {
	target = strings.TrimSpace(target)
	if target == "" {
		return Target{}, fmt.Errorf("empty target")
	}

	if strings.HasPrefix(target, "http://") || strings.HasPrefix(target, "https://") {
		return Target{URL: target, Remote: true}, nil
	}

	if m := shorthandPattern.FindStringSubmatch(target); m != nil {
		week, _ := strconv.Atoi(m[1])
		lesson, _ := strconv.Atoi(m[2])
		return r.resolveShorthand(week, lesson)
	}

	if err := r.stat(target); err != nil {
		return Target{}, fmt.Errorf("presentation not found: %s", target)
	}
	return fileTarget(target), nil
}

// resolveShorthand maps a week/lesson pair to a presentation file.
// The animated-complete variant wins when both exist. When neither exists the
// error names both attempted paths so the user can see the convention.
func (r *Resolver) resolveShorthand(week, lesson int) (Target, error) {
	name, ok := r.lessonNames[lesson]
	if !ok {
		name = fmt.Sprintf("lesson-%d", lesson)
	} else {
		name = fmt.Sprintf("lesson-%d-%s", lesson, name)
	}

	dir := filepath.Join(r.courseRoot, "bloom-course-content", "weeks",
		fmt.Sprintf("week-%d-foundation", week), name)

	animated := filepath.Join(dir, "presentation-animated-complete.html")
	plain := filepath.Join(dir, "presentation.html")

	if err := r.stat(animated); err == nil {
		return fileTarget(animated), nil
	}
	if err := r.stat(plain); err == nil {
		return fileTarget(plain), nil
	}

	return Target{}, fmt.Errorf("presentation not found for week %d lesson %d; tried:\n  %s\n  %s",
		week, lesson, animated, plain)
}

// fileTarget builds a Target for a local file, with a file:// URL for capture.
func fileTarget(path string) Target {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	return Target{
		Path: path,
		URL:  "file://" + filepath.ToSlash(abs),
	}
}

// WeekLessons returns the resolvable lesson targets under a week directory,
// in lesson order. Used by the --week and --all batch selectors.
func (r *Resolver) WeekLessons(week int) []string {
	weekDir := filepath.Join(r.courseRoot, "bloom-course-content", "weeks",
		fmt.Sprintf("week-%d-foundation", week))

	entries, err := os.ReadDir(weekDir)
	if err != nil {
		return nil
	}

	var targets []string
	for _, entry := range entries {
		if !entry.IsDir() || !strings.HasPrefix(entry.Name(), "lesson-") {
			continue
		}
		for _, file := range []string{"presentation-animated-complete.html", "presentation.html"} {
			path := filepath.Join(weekDir, entry.Name(), file)
			if err := r.stat(path); err == nil {
				targets = append(targets, path)
				break
			}
		}
	}
	return targets
}

// AllWeeks returns every resolvable lesson target in the course tree.
func (r *Resolver) AllWeeks() []string {
	weeksDir := filepath.Join(r.courseRoot, "bloom-course-content", "weeks")
	entries, err := os.ReadDir(weeksDir)
	if err != nil {
		return nil
	}

	var targets []string
	for _, entry := range entries {
		if !entry.IsDir() || !strings.HasPrefix(entry.Name(), "week-") {
			continue
		}
		num := strings.TrimPrefix(entry.Name(), "week-")
		if i := strings.IndexByte(num, '-'); i >= 0 {
			num = num[:i]
		}
		week, err := strconv.Atoi(num)
		if err != nil {
			continue
		}
		targets = append(targets, r.WeekLessons(week)...)
	}
	return targets
}
