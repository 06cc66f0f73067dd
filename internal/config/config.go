package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration for pipeline inputs and outputs.
type Paths struct {
	// TranscriptDir holds per-session transcript JSON files.
	TranscriptDir string `toml:"transcript_dir"`
	// DecoderDir holds per-session decoder output (segments/text pairs).
	DecoderDir string `toml:"decoder_dir"`
	// WorkDir receives per-session intermediate outputs and the retry list.
	WorkDir string `toml:"work_dir"`
	// CorpusDir receives the merged global tables and vocabulary.
	CorpusDir string `toml:"corpus_dir"`
	LogDir    string `toml:"log_dir"`
	// SpeakerTable is the read-only name-to-speaker-id lookup table.
	SpeakerTable string `toml:"speaker_table"`
}

// Reconcile contains the alignment reconciliation thresholds. All values are
// operational constants; the code never assumes specific numbers.
type Reconcile struct {
	// RealignEditRate is the edit-rate bound below which an imperfect match
	// is queued for a second alignment pass instead of dropped.
	RealignEditRate float64 `toml:"realign_edit_rate"`
	// MaxEditRate is the edit-rate bound above which a candidate is
	// unrecoverable even before the realign queue is considered.
	MaxEditRate float64 `toml:"max_edit_rate"`
	// SearchWindow bounds the reference-word search around a candidate's
	// expected position.
	SearchWindow int `toml:"search_window"`
	// MatchPrefix is the number of leading statement words used when probing
	// for a span start.
	MatchPrefix int `toml:"match_prefix"`
	// MinMatchRun is the shortest common word run accepted as a span anchor.
	MinMatchRun int `toml:"min_match_run"`
}

// Label contains segment acceptance policy bounds.
type Label struct {
	MinDurationSeconds float64 `toml:"min_duration_seconds"`
	MaxDurationSeconds float64 `toml:"max_duration_seconds"`
}

// Language configures the majority/minority language pair and the lexical
// fallback filter.
type Language struct {
	Majority string `toml:"majority"`
	Minority string `toml:"minority"`
	// StoplistPath points at a newline-separated minority-language stopword
	// list used by the lexical classifier and the secondary filter.
	StoplistPath string `toml:"stoplist_path"`
	// MinorityDensity is the stopword token density at or above which the
	// secondary filter removes a record.
	MinorityDensity float64 `toml:"minority_density"`
	// MinTokens is the smallest token count the density heuristic applies to.
	MinTokens int `toml:"min_tokens"`
}

// TermRange maps an electoral term number to its working-year range.
type TermRange struct {
	Term      int `toml:"term"`
	FirstYear int `toml:"first_year"`
	LastYear  int `toml:"last_year"`
}

// Audio configures the session-to-audio-path mapping. The mapping is corpus
// layout, not logic, so it stays injectable here.
type Audio struct {
	// PathTemplate expands {term}, {year}, {number} and {session}
	// placeholders into the audio source path for a session.
	PathTemplate string      `toml:"path_template"`
	Terms        []TermRange `toml:"terms"`
}

// Pipeline configures session-level parallelism.
type Pipeline struct {
	// Workers caps concurrently processed sessions. Zero means GOMAXPROCS.
	Workers int `toml:"workers"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for the corpus pipeline.
//
// Configuration sections by subsystem:
//   - Paths: input, intermediate and output directories
//   - Reconcile: edit-rate thresholds and span search bounds
//   - Label: segment duration acceptance bounds
//   - Language: majority/minority codes and stoplist heuristics
//   - Audio: session-to-audio-path template and term table
//   - Pipeline: session worker pool sizing
//   - Logging: log format and level
type Config struct {
	Paths     Paths     `toml:"paths"`
	Reconcile Reconcile `toml:"reconcile"`
	Label     Label     `toml:"label"`
	Language  Language  `toml:"language"`
	Audio     Audio     `toml:"audio"`
	Pipeline  Pipeline  `toml:"pipeline"`
	Logging   Logging   `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration
// file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/plenum/config.toml")
}

// SampleConfig returns the embedded annotated sample configuration.
func SampleConfig() string {
	return sampleConfig
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("plenum.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the directories the pipeline writes into.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.WorkDir, c.Paths.CorpusDir, c.Paths.LogDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// CreateSample writes the annotated sample configuration to path.
func CreateSample(path string) error {
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

// ExpandPath expands a leading ~ and resolves the path to absolute form.
func ExpandPath(path string) (string, error) {
	return expandPath(path)
}

// TermForYear resolves the electoral term for a working year, or zero when
// the year falls outside every configured range.
func (c *Config) TermForYear(year int) int {
	for _, tr := range c.Audio.Terms {
		if year >= tr.FirstYear && year <= tr.LastYear {
			return tr.Term
		}
	}
	return 0
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}
