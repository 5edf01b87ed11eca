package config

// ThresholdsFile holds rule thresholds loaded from the config file.
// Zero values mean "use the built-in default", so a config file only needs
// to name the thresholds it changes.
type ThresholdsFile struct {
	// MinBodyRem is the minimum readable font size in rem.
	MinBodyRem float64 `yaml:"minBodyRem,omitempty"`

	// MinBodyPx is the minimum readable font size in px.
	MinBodyPx float64 `yaml:"minBodyPx,omitempty"`

	// MinPaddingRem is the minimum content-block padding in rem.
	MinPaddingRem float64 `yaml:"minPaddingRem,omitempty"`

	// MinPaddingPx is the minimum content-block padding in px.
	MinPaddingPx float64 `yaml:"minPaddingPx,omitempty"`

	// MaxFixedHeightPx is the tallest fixed pixel height that is not an
	// overflow hazard.
	MaxFixedHeightPx float64 `yaml:"maxFixedHeightPx,omitempty"`

	// MinOverlayAlpha is the minimum alpha for dark overlays above images.
	MinOverlayAlpha float64 `yaml:"minOverlayAlpha,omitempty"`

	// MaxBullets is the maximum list items per slide.
	MaxBullets int `yaml:"maxBullets,omitempty"`

	// MaxWords is the maximum word count per slide.
	MaxWords int `yaml:"maxWords,omitempty"`
}

// File represents the structure of the .deckaudit configuration file.
type File struct {
	// CourseRoot is the directory shorthand targets resolve against.
	CourseRoot string `yaml:"courseRoot,omitempty"`

	// Lessons maps lesson numbers to their directory name suffixes, used
	// when resolving "weekN lessonM" shorthand targets. Lessons absent
	// from the map fall back to "lesson-<M>".
	Lessons map[int]string `yaml:"lessons,omitempty"`

	// Thresholds overrides individual rule thresholds.
	Thresholds ThresholdsFile `yaml:"thresholds,omitempty"`

	// OutputDir overrides where run artifacts are written.
	OutputDir string `yaml:"outputDir,omitempty"`

	// RetentionRuns overrides how many timestamped artifacts to keep.
	// Negative values are rejected at validation; zero keeps the default.
	RetentionRuns int `yaml:"retentionRuns,omitempty"`

	// TargetScore overrides the default fix-loop target.
	TargetScore int `yaml:"targetScore,omitempty"`
}

// ApplyTo overlays the file's settings onto a Config. CLI flags are parsed
// after the file is applied, so flags win over file values.
func (f *File) ApplyTo(c *Config) {
	if f.CourseRoot != "" {
		c.CourseRoot = f.CourseRoot
	}
	if f.OutputDir != "" {
		c.OutputDir = f.OutputDir
	}
	if f.RetentionRuns > 0 {
		c.RetentionRuns = f.RetentionRuns
	}
	if f.TargetScore > 0 {
		c.TargetScore = f.TargetScore
	}
	c.FileConfig = f
}
