package report

import (
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
)

// timestampedArtifact matches run artifacts named <base>-<millis>.<ext>.
var timestampedArtifact = regexp.MustCompile(`^(.+)-(\d{10,})\.(json|html|md|png)$`)

// Retention bounds how many runs' worth of artifacts accumulate in an
// output directory. Reports and screenshots carry a millisecond timestamp
// in their filename; without a sweep every run grows the directory forever.
type Retention struct {
	// MaxRuns is how many timestamped artifacts to keep per base name.
	// Zero or negative disables the sweep.
	MaxRuns int
}

// Sweep deletes the oldest timestamped artifacts in dir, keeping the
// MaxRuns newest per base name. Non-artifact files are never touched.
func (r Retention) Sweep(dir string) error {
	if r.MaxRuns <= 0 {
		return nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}

	type artifact struct {
		name  string
		stamp int64
	}
	groups := make(map[string][]artifact)

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		m := timestampedArtifact.FindStringSubmatch(entry.Name())
		if m == nil {
			continue
		}
		stamp, err := strconv.ParseInt(m[2], 10, 64)
		if err != nil {
			continue
		}
		key := m[1] + "." + m[3]
		groups[key] = append(groups[key], artifact{name: entry.Name(), stamp: stamp})
	}

	for _, artifacts := range groups {
		if len(artifacts) <= r.MaxRuns {
			continue
		}
		sort.Slice(artifacts, func(i, j int) bool {
			return artifacts[i].stamp > artifacts[j].stamp
		})
		for _, old := range artifacts[r.MaxRuns:] {
			if err := os.Remove(filepath.Join(dir, old.name)); err != nil {
				return err
			}
		}
	}
	return nil
}
