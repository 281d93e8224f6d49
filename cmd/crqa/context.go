package main

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"crqa/internal/config"
	"crqa/internal/dyad"
	"crqa/internal/logging"
	"crqa/internal/results"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configPath string
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
		cfg, resolved, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		c.configPath = resolved
	})
	return c.config, c.configErr
}

// logger builds a logger whose console output goes to the command's stderr.
func (c *commandContext) logger(cmd *cobra.Command) (*slog.Logger, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return logging.NewFromConfig(cfg, cmd.ErrOrStderr())
}

func (c *commandContext) withStore(fn func(*results.Store) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	store, err := results.Open(cfg)
	if err != nil {
		return fmt.Errorf("open results store: %w", err)
	}
	defer store.Close()
	return fn(store)
}

// loadDyad reads path and returns the dyad with the given ID.
func loadDyad(path, id string) (dyad.Dyad, error) {
	dyads, err := dyad.Load(path)
	if err != nil {
		return dyad.Dyad{}, err
	}
	id = strings.TrimSpace(id)
	if id == "" {
		if len(dyads) == 1 {
			return dyads[0], nil
		}
		return dyad.Dyad{}, fmt.Errorf("%s holds %d dyads; choose one with --dyad", path, len(dyads))
	}
	d, ok := dyad.Find(dyads, id)
	if !ok {
		return dyad.Dyad{}, fmt.Errorf("dyad %q not found in %s", id, path)
	}
	return d, nil
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
