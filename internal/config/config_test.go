package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultValidates(t *testing.T) {
	cfg := Default()
	if err := cfg.normalize(); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if cfg.Pipeline.Workers <= 0 {
		t.Fatalf("workers not defaulted: %d", cfg.Pipeline.Workers)
	}
}

func TestLoadParsesOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "plenum.toml")
	content := `
[paths]
work_dir = "` + filepath.Join(dir, "work") + `"

[reconcile]
realign_edit_rate = 0.1
max_edit_rate = 0.5

[pipeline]
workers = 3
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !exists {
		t.Fatal("config file not detected")
	}
	if resolved != path {
		t.Fatalf("resolved path %q, want %q", resolved, path)
	}
	if cfg.Reconcile.RealignEditRate != 0.1 {
		t.Fatalf("realign_edit_rate = %v", cfg.Reconcile.RealignEditRate)
	}
	if cfg.Pipeline.Workers != 3 {
		t.Fatalf("workers = %d", cfg.Pipeline.Workers)
	}
	if cfg.Paths.WorkDir != filepath.Join(dir, "work") {
		t.Fatalf("work_dir = %q", cfg.Paths.WorkDir)
	}
}

func TestValidateRejectsBadThresholds(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"realign above max", func(c *Config) { c.Reconcile.RealignEditRate = 0.7 }},
		{"zero search window", func(c *Config) { c.Reconcile.SearchWindow = 0 }},
		{"inverted durations", func(c *Config) { c.Label.MaxDurationSeconds = 0.5 }},
		{"same languages", func(c *Config) { c.Language.Minority = c.Language.Majority }},
		{"density above one", func(c *Config) { c.Language.MinorityDensity = 1.5 }},
		{"empty template", func(c *Config) { c.Audio.PathTemplate = " " }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			if err := cfg.normalize(); err != nil {
				t.Fatalf("normalize: %v", err)
			}
			tc.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestTermForYear(t *testing.T) {
	cfg := Default()
	cfg.Audio.Terms = []TermRange{
		{Term: 57, FirstYear: 2015, LastYear: 2018},
		{Term: 58, FirstYear: 2019, LastYear: 2022},
	}
	if got := cfg.TermForYear(2016); got != 57 {
		t.Fatalf("TermForYear(2016) = %d", got)
	}
	if got := cfg.TermForYear(2019); got != 58 {
		t.Fatalf("TermForYear(2019) = %d", got)
	}
	if got := cfg.TermForYear(1999); got != 0 {
		t.Fatalf("TermForYear(1999) = %d", got)
	}
}

func TestSampleConfigMentionsEverySection(t *testing.T) {
	sample := SampleConfig()
	for _, section := range []string{"[paths]", "[reconcile]", "[label]", "[language]", "[audio]", "[pipeline]", "[logging]"} {
		if !strings.Contains(sample, section) {
			t.Fatalf("sample config missing %s", section)
		}
	}
}
