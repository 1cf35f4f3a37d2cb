package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	DataDir  string `toml:"data_dir"`
	LogDir   string `toml:"log_dir"`
	InboxDir string `toml:"inbox_dir"`
}

// Scanner contains configuration for the QR frame scanning loop.
type Scanner struct {
	// DebounceMS is the minimum gap between accepted decodes of a live
	// source, rejecting repeat reads of a still-visible code.
	DebounceMS int `toml:"debounce_ms"`
	// PollIntervalMS is the delay between decode ticks on a live source.
	PollIntervalMS int `toml:"poll_interval_ms"`
	// Continuous keeps the scan loop running after an accepted decode.
	// The default single-shot policy stops after the first read.
	Continuous bool `toml:"continuous"`
	// ROIFraction sizes the centered region of interest relative to the
	// shorter display edge. Zero or negative disables ROI cropping.
	ROIFraction float64 `toml:"roi_fraction"`
}

// OCR contains configuration for the recognition collaborator and the image
// preprocessing that feeds it.
type OCR struct {
	Binary         string  `toml:"binary"`
	Languages      string  `toml:"languages"`
	PageSegMode    int     `toml:"page_seg_mode"`
	TimeoutSeconds int     `toml:"timeout_seconds"`
	MaxWidth       int     `toml:"max_width"`
	Contrast       float64 `toml:"contrast"`
	Brightness     float64 `toml:"brightness"`
	Binarize       bool    `toml:"binarize"`
	// CardAspectRatio is the width/height ratio used when cropping a frame
	// to the business-card region before recognition.
	CardAspectRatio float64 `toml:"card_aspect_ratio"`
}

// Extract contains the heuristic extraction thresholds. The values are
// empirically chosen and deliberately configurable rather than hard-coded.
type Extract struct {
	PhoneMinDigits int `toml:"phone_min_digits"`
	NameMinLen     int `toml:"name_min_len"`
	NameMaxLen     int `toml:"name_max_len"`
}

// Notifications contains configuration for ntfy push notifications.
type Notifications struct {
	NtfyTopic      string `toml:"ntfy_topic"`
	RequestTimeout int    `toml:"request_timeout"`
	ContactUpdates bool   `toml:"contact_updates"`
	Errors         bool   `toml:"errors"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for cardbox.
//
// Configuration sections by subsystem:
//   - Paths: data, log, and capture inbox directories
//   - Scanner: QR decode loop debounce, polling, and ROI sizing
//   - OCR: recognition binary, language hint, and preprocessing constants
//   - Extract: heuristic field extraction thresholds
//   - Notifications: ntfy push notification settings
//   - Logging: log format and level
type Config struct {
	Paths         Paths         `toml:"paths"`
	Scanner       Scanner       `toml:"scanner"`
	OCR           OCR           `toml:"ocr"`
	Extract       Extract       `toml:"extract"`
	Notifications Notifications `toml:"notifications"`
	Logging       Logging       `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/cardbox/config.toml")
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

	projectPath, err := filepath.Abs("cardbox.toml")
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

// EnsureDirectories creates required directories for daemon operation.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.DataDir, c.Paths.LogDir, c.Paths.InboxDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// Debounce returns the scanner decode debounce window.
func (c *Config) Debounce() time.Duration {
	return time.Duration(c.Scanner.DebounceMS) * time.Millisecond
}

// PollInterval returns the scanner tick interval.
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.Scanner.PollIntervalMS) * time.Millisecond
}

// OCRTimeout returns the recognition timeout.
func (c *Config) OCRTimeout() time.Duration {
	return time.Duration(c.OCR.TimeoutSeconds) * time.Second
}

// DatabasePath returns the location of the contact store database.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.Paths.DataDir, "contact.db")
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

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
