package main

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"plenum/internal/config"
	"plenum/internal/logging"
	"plenum/internal/pipeline"
	"plenum/internal/queue"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// withRunner opens the store, builds a pipeline runner with a file-backed
// logger, and hands both to fn. The store closes when fn returns.
func (c *commandContext) withRunner(fn func(cfg *config.Config, store *queue.Store, runner *pipeline.Runner) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	store, err := queue.Open(cfg)
	if err != nil {
		return fmt.Errorf("open session store: %w", err)
	}
	defer store.Close()

	logger, err := logging.New(logging.Options{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		OutputPaths: []string{filepath.Join(cfg.Paths.LogDir, "plenum.log")},
	})
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}

	runner, err := pipeline.NewRunner(cfg, store, logger)
	if err != nil {
		return err
	}
	return fn(cfg, store, runner)
}

// withRunLock serializes the mutating commands. Concurrent runs would race
// on the retry list and the merged corpus tables.
func (c *commandContext) withRunLock(cfg *config.Config, fn func() error) error {
	lock := flock.New(filepath.Join(cfg.Paths.LogDir, "plenum.lock"))
	ok, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire run lock: %w", err)
	}
	if !ok {
		return fmt.Errorf("another plenum run holds the lock at %s", lock.Path())
	}
	defer lock.Unlock()
	return fn()
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
