package main

import (
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"cardbox/internal/capture"
	"cardbox/internal/config"
	"cardbox/internal/logging"
	"cardbox/internal/notifications"
	"cardbox/internal/ocr"
	"cardbox/internal/store"
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

// cliLogger keeps command output clean: warnings and errors only, on the
// console handler.
func (c *commandContext) cliLogger() *slog.Logger {
	logger, err := logging.New(logging.Options{Format: "console", Level: "warn"})
	if err != nil {
		return logging.NewNop()
	}
	return logger
}

func (c *commandContext) openStore() (*store.Store, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return store.Open(cfg, c.cliLogger())
}

// withSession opens the store, builds a capture session, and guarantees
// the store is closed after fn runs.
func (c *commandContext) withSession(fn func(*capture.Session) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	st, err := c.openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	logger := c.cliLogger()
	notifier := notifications.NewService(cfg)
	recognizer := ocr.NewService(ocr.Config{
		Binary:      cfg.OCR.Binary,
		Languages:   cfg.OCR.Languages,
		PageSegMode: cfg.OCR.PageSegMode,
		Timeout:     cfg.OCRTimeout(),
	}, logger)

	return fn(capture.NewSession(cfg, st, notifier, recognizer, logger))
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
