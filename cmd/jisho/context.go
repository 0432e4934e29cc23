package main

import (
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"github.com/heartmarshall/jisho-backend/internal/app"
	"github.com/heartmarshall/jisho-backend/internal/config"
	"github.com/heartmarshall/jisho-backend/internal/tags"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	logger     *slog.Logger
	configErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

// ensureConfig loads the configuration once and builds the logger, which
// writes to the command's stderr.
func (c *commandContext) ensureConfig(cmd *cobra.Command) (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, err := config.LoadFile(path)
		if err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		c.logger = app.NewLogger(cmd.ErrOrStderr(), cfg.Log)
	})
	return c.config, c.configErr
}

// withStore opens the configured store, runs fn and closes the store.
func (c *commandContext) withStore(cmd *cobra.Command, fn func(app.Store) error) error {
	cfg, err := c.ensureConfig(cmd)
	if err != nil {
		return err
	}

	store, closeFn, err := app.OpenStore(cmd.Context(), cfg, tags.Default(), c.logger)
	if err != nil {
		return err
	}
	defer closeFn()

	return fn(store)
}

const skipConfigAnnotation = "skipConfigLoad"

func skipConfig() map[string]string {
	return map[string]string{skipConfigAnnotation: "true"}
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations[skipConfigAnnotation] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
