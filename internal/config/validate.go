package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateReconcile(); err != nil {
		return err
	}
	if err := c.validateLabel(); err != nil {
		return err
	}
	if err := c.validateLanguage(); err != nil {
		return err
	}
	if err := c.validateAudio(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.TranscriptDir) == "" {
		return errors.New("paths.transcript_dir must be set")
	}
	if strings.TrimSpace(c.Paths.DecoderDir) == "" {
		return errors.New("paths.decoder_dir must be set")
	}
	if strings.TrimSpace(c.Paths.WorkDir) == "" {
		return errors.New("paths.work_dir must be set")
	}
	if strings.TrimSpace(c.Paths.CorpusDir) == "" {
		return errors.New("paths.corpus_dir must be set")
	}
	return nil
}

func (c *Config) validateReconcile() error {
	if c.Reconcile.RealignEditRate <= 0 || c.Reconcile.RealignEditRate >= 1 {
		return errors.New("reconcile.realign_edit_rate must be between 0 and 1")
	}
	if c.Reconcile.MaxEditRate <= c.Reconcile.RealignEditRate {
		return fmt.Errorf("reconcile.max_edit_rate must exceed realign_edit_rate (%.2f)", c.Reconcile.RealignEditRate)
	}
	if c.Reconcile.SearchWindow <= 0 {
		return errors.New("reconcile.search_window must be positive")
	}
	if c.Reconcile.MatchPrefix <= 0 {
		return errors.New("reconcile.match_prefix must be positive")
	}
	if c.Reconcile.MinMatchRun <= 0 {
		return errors.New("reconcile.min_match_run must be positive")
	}
	return nil
}

func (c *Config) validateLabel() error {
	if c.Label.MinDurationSeconds < 0 {
		return errors.New("label.min_duration_seconds must not be negative")
	}
	if c.Label.MaxDurationSeconds <= c.Label.MinDurationSeconds {
		return errors.New("label.max_duration_seconds must exceed min_duration_seconds")
	}
	return nil
}

func (c *Config) validateLanguage() error {
	if c.Language.Majority == c.Language.Minority {
		return errors.New("language.majority and language.minority must differ")
	}
	if c.Language.MinorityDensity <= 0 || c.Language.MinorityDensity > 1 {
		return errors.New("language.minority_density must be between 0 and 1")
	}
	if c.Language.MinTokens < 1 {
		return errors.New("language.min_tokens must be at least 1")
	}
	return nil
}

func (c *Config) validateAudio() error {
	if strings.TrimSpace(c.Audio.PathTemplate) == "" {
		return errors.New("audio.path_template must be set")
	}
	for i, tr := range c.Audio.Terms {
		if tr.Term <= 0 {
			return fmt.Errorf("audio.terms[%d].term must be positive", i)
		}
		if tr.LastYear < tr.FirstYear {
			return fmt.Errorf("audio.terms[%d]: last_year before first_year", i)
		}
	}
	return nil
}
