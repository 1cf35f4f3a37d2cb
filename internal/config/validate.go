package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate checks the configuration for values the engine cannot run with.
func (c *Config) Validate() error {
	var problems []string

	if strings.TrimSpace(c.Paths.DataDir) == "" {
		problems = append(problems, "paths.data_dir must not be empty")
	}
	if c.Scanner.ROIFraction < 0 {
		problems = append(problems, "scanner.roi_fraction must not be negative")
	}
	if c.OCR.CardAspectRatio <= 0 {
		problems = append(problems, "ocr.card_aspect_ratio must be positive")
	}
	if c.Extract.NameMinLen > c.Extract.NameMaxLen {
		problems = append(problems, fmt.Sprintf(
			"extract.name_min_len (%d) must not exceed extract.name_max_len (%d)",
			c.Extract.NameMinLen, c.Extract.NameMaxLen))
	}
	switch c.Logging.Format {
	case "console", "json":
	default:
		problems = append(problems, fmt.Sprintf("logging.format %q is not supported (console, json)", c.Logging.Format))
	}

	if len(problems) > 0 {
		return errors.New("invalid configuration: " + strings.Join(problems, "; "))
	}
	return nil
}
