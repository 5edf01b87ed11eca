package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestNewConfig(t *testing.T) {
	t.Parallel()

	c := NewConfig()
	if c.TargetScore != DefaultTargetScore {
		t.Errorf("TargetScore = %d, want %d", c.TargetScore, DefaultTargetScore)
	}
	if c.MaxIterations != DefaultMaxIterations {
		t.Errorf("MaxIterations = %d, want %d", c.MaxIterations, DefaultMaxIterations)
	}
	if c.BatchSize != DefaultBatchSize {
		t.Errorf("BatchSize = %d, want %d", c.BatchSize, DefaultBatchSize)
	}
	if c.OutputDir != DefaultOutputDir {
		t.Errorf("OutputDir = %q, want %q", c.OutputDir, DefaultOutputDir)
	}
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	valid := func() *Config {
		c := NewConfig()
		c.Targets = []string{"presentation.html"}
		return c
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{
			name:    "valid config passes",
			mutate:  func(c *Config) {},
			wantErr: nil,
		},
		{
			name:    "no targets",
			mutate:  func(c *Config) { c.Targets = nil },
			wantErr: ErrNoTarget,
		},
		{
			name:    "target score too low",
			mutate:  func(c *Config) { c.TargetScore = 0 },
			wantErr: ErrInvalidTargetScore,
		},
		{
			name:    "target score too high",
			mutate:  func(c *Config) { c.TargetScore = 150 },
			wantErr: ErrInvalidTargetScore,
		},
		{
			name:    "zero iterations",
			mutate:  func(c *Config) { c.MaxIterations = 0 },
			wantErr: ErrInvalidIterations,
		},
		{
			name:    "zero batch size",
			mutate:  func(c *Config) { c.BatchSize = 0 },
			wantErr: ErrInvalidBatchSize,
		},
		{
			name:    "json and markdown conflict",
			mutate:  func(c *Config) { c.JSONReport, c.MarkdownReport = true, true },
			wantErr: ErrConflictingReportFormats,
		},
		{
			name:    "markdown and html conflict",
			mutate:  func(c *Config) { c.MarkdownReport, c.HTMLReport = true, true },
			wantErr: ErrConflictingReportFormats,
		},
		{
			name:    "single format allowed",
			mutate:  func(c *Config) { c.HTMLReport = true },
			wantErr: nil,
		},
		{
			name:    "negative retention",
			mutate:  func(c *Config) { c.RetentionRuns = -1 },
			wantErr: ErrInvalidRetention,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c := valid()
			tt.mutate(c)
			if err := c.Validate(); !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("loads yaml settings", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), DefaultConfigFile)
		content := `courseRoot: /srv/course
targetScore: 90
retentionRuns: 5
lessons:
  1: welcome
  2: normal-vs-concern
thresholds:
  minBodyRem: 1.4
  maxBullets: 5
`
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatal(err)
		}

		cf, err := LoadConfigFile(path)
		if err != nil {
			t.Fatalf("LoadConfigFile() error = %v", err)
		}
		if cf.CourseRoot != "/srv/course" {
			t.Errorf("CourseRoot = %q, want /srv/course", cf.CourseRoot)
		}
		if cf.Lessons[2] != "normal-vs-concern" {
			t.Errorf("Lessons[2] = %q, want normal-vs-concern", cf.Lessons[2])
		}
		if cf.Thresholds.MinBodyRem != 1.4 {
			t.Errorf("Thresholds.MinBodyRem = %v, want 1.4", cf.Thresholds.MinBodyRem)
		}
		if cf.Thresholds.MaxBullets != 5 {
			t.Errorf("Thresholds.MaxBullets = %d, want 5", cf.Thresholds.MaxBullets)
		}
	})

	t.Run("missing file returns sentinel", func(t *testing.T) {
		t.Parallel()

		_, err := LoadConfigFile(filepath.Join(t.TempDir(), "absent"))
		if !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("LoadConfigFile() error = %v, want ErrConfigNotFound", err)
		}
	})

	t.Run("malformed yaml errors", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), DefaultConfigFile)
		if err := os.WriteFile(path, []byte("courseRoot: [unclosed"), 0o600); err != nil {
			t.Fatal(err)
		}
		if _, err := LoadConfigFile(path); err == nil {
			t.Error("LoadConfigFile() with malformed yaml returned nil error")
		}
	})
}

func TestFile_ApplyTo(t *testing.T) {
	t.Parallel()

	t.Run("file values overlay defaults", func(t *testing.T) {
		t.Parallel()

		c := NewConfig()
		f := &File{
			CourseRoot:    "/srv/course",
			OutputDir:     "out",
			RetentionRuns: 3,
			TargetScore:   92,
		}
		f.ApplyTo(c)

		if c.CourseRoot != "/srv/course" {
			t.Errorf("CourseRoot = %q, want /srv/course", c.CourseRoot)
		}
		if c.OutputDir != "out" {
			t.Errorf("OutputDir = %q, want out", c.OutputDir)
		}
		if c.RetentionRuns != 3 {
			t.Errorf("RetentionRuns = %d, want 3", c.RetentionRuns)
		}
		if c.TargetScore != 92 {
			t.Errorf("TargetScore = %d, want 92", c.TargetScore)
		}
		if c.FileConfig != f {
			t.Error("FileConfig not retained")
		}
	})

	t.Run("zero values leave defaults alone", func(t *testing.T) {
		t.Parallel()

		c := NewConfig()
		(&File{}).ApplyTo(c)

		if c.OutputDir != DefaultOutputDir {
			t.Errorf("OutputDir = %q, want default", c.OutputDir)
		}
		if c.TargetScore != DefaultTargetScore {
			t.Errorf("TargetScore = %d, want default", c.TargetScore)
		}
	})
}

func TestFindConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("explicit path returned when present", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "custom.yaml")
		if err := os.WriteFile(path, []byte("{}"), 0o600); err != nil {
			t.Fatal(err)
		}
		if got := FindConfigFile(path); got != path {
			t.Errorf("FindConfigFile() = %q, want %q", got, path)
		}
	})

	t.Run("missing explicit path returns empty", func(t *testing.T) {
		t.Parallel()

		if got := FindConfigFile(filepath.Join(t.TempDir(), "absent")); got != "" {
			t.Errorf("FindConfigFile() = %q, want empty", got)
		}
	})
}
