package config

import (
	"fmt"
	"runtime"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeLanguage()
	c.normalizePipeline()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	fields := []struct {
		name  string
		value *string
	}{
		{"paths.transcript_dir", &c.Paths.TranscriptDir},
		{"paths.decoder_dir", &c.Paths.DecoderDir},
		{"paths.work_dir", &c.Paths.WorkDir},
		{"paths.corpus_dir", &c.Paths.CorpusDir},
		{"paths.log_dir", &c.Paths.LogDir},
		{"paths.speaker_table", &c.Paths.SpeakerTable},
	}
	for _, field := range fields {
		expanded, err := expandPath(*field.value)
		if err != nil {
			return fmt.Errorf("%s: %w", field.name, err)
		}
		*field.value = expanded
	}
	if strings.TrimSpace(c.Language.StoplistPath) != "" {
		expanded, err := expandPath(c.Language.StoplistPath)
		if err != nil {
			return fmt.Errorf("language.stoplist_path: %w", err)
		}
		c.Language.StoplistPath = expanded
	}
	return nil
}

func (c *Config) normalizeLanguage() {
	c.Language.Majority = strings.ToLower(strings.TrimSpace(c.Language.Majority))
	c.Language.Minority = strings.ToLower(strings.TrimSpace(c.Language.Minority))
	if c.Language.Majority == "" {
		c.Language.Majority = defaultMajority
	}
	if c.Language.Minority == "" {
		c.Language.Minority = defaultMinority
	}
}

func (c *Config) normalizePipeline() {
	if c.Pipeline.Workers <= 0 {
		c.Pipeline.Workers = runtime.GOMAXPROCS(0)
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
