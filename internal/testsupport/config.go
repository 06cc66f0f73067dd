package testsupport

import (
	"path/filepath"
	"testing"

	"plenum/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.TranscriptDir = filepath.Join(base, "transcripts")
	cfg.Paths.DecoderDir = filepath.Join(base, "decoded")
	cfg.Paths.WorkDir = filepath.Join(base, "work")
	cfg.Paths.CorpusDir = filepath.Join(base, "corpus")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Paths.SpeakerTable = filepath.Join(base, "mp-table.csv")

	for _, opt := range opts {
		opt(&cfg)
	}

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure directories: %v", err)
	}
	return &cfg
}

// WithWorkers caps session parallelism on the test config.
func WithWorkers(n int) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Pipeline.Workers = n
	}
}

// WithThresholds overrides the reconciliation edit-rate bounds.
func WithThresholds(realign, max float64) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Reconcile.RealignEditRate = realign
		cfg.Reconcile.MaxEditRate = max
	}
}

// WithMatchBounds overrides the span search bounds for small fixtures.
func WithMatchBounds(window, prefix, minRun int) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Reconcile.SearchWindow = window
		cfg.Reconcile.MatchPrefix = prefix
		cfg.Reconcile.MinMatchRun = minRun
	}
}
