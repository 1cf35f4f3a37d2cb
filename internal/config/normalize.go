package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeScanner()
	c.normalizeOCR()
	c.normalizeExtract()
	c.normalizeNotifications()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.InboxDir) == "" {
		c.Paths.InboxDir = defaultInboxDir
	}
	if c.Paths.InboxDir, err = expandPath(c.Paths.InboxDir); err != nil {
		return fmt.Errorf("paths.inbox_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeScanner() {
	if c.Scanner.DebounceMS <= 0 {
		c.Scanner.DebounceMS = defaultDebounceMS
	}
	if c.Scanner.PollIntervalMS <= 0 {
		c.Scanner.PollIntervalMS = defaultPollIntervalMS
	}
	if c.Scanner.ROIFraction > 1 {
		c.Scanner.ROIFraction = 1
	}
}

func (c *Config) normalizeOCR() {
	if strings.TrimSpace(c.OCR.Binary) == "" {
		c.OCR.Binary = defaultOCRBinary
	}
	if strings.TrimSpace(c.OCR.Languages) == "" {
		c.OCR.Languages = defaultOCRLanguages
	}
	if c.OCR.PageSegMode <= 0 {
		c.OCR.PageSegMode = defaultOCRPageSegMode
	}
	if c.OCR.TimeoutSeconds <= 0 {
		c.OCR.TimeoutSeconds = defaultOCRTimeout
	}
	if c.OCR.MaxWidth <= 0 {
		c.OCR.MaxWidth = defaultOCRMaxWidth
	}
	if c.OCR.Contrast <= 0 {
		c.OCR.Contrast = defaultOCRContrast
	}
	if c.OCR.CardAspectRatio <= 0 {
		c.OCR.CardAspectRatio = defaultCardAspect
	}
}

func (c *Config) normalizeExtract() {
	if c.Extract.PhoneMinDigits <= 0 {
		c.Extract.PhoneMinDigits = defaultPhoneMinDigits
	}
	if c.Extract.NameMinLen <= 0 {
		c.Extract.NameMinLen = defaultNameMinLen
	}
	if c.Extract.NameMaxLen <= 0 {
		c.Extract.NameMaxLen = defaultNameMaxLen
	}
}

func (c *Config) normalizeNotifications() {
	c.Notifications.NtfyTopic = strings.TrimSpace(c.Notifications.NtfyTopic)
	if c.Notifications.RequestTimeout <= 0 {
		c.Notifications.RequestTimeout = defaultNotifyRequestTimeout
	}
}

func (c *Config) normalizeLogging() {
	format := strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if format == "" {
		format = defaultLogFormat
	}
	c.Logging.Format = format

	level := strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if level == "" {
		level = defaultLogLevel
	}
	c.Logging.Level = level
}
