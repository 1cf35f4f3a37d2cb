// Package ocr shells out to tesseract to recognize printed text on
// preprocessed card images.
package ocr

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"sync"
	"time"

	"cardbox/internal/logging"
	"cardbox/internal/services"
)

const (
	// DefaultBinary is the tesseract executable name resolved via PATH.
	DefaultBinary = "tesseract"
	// DefaultLanguages covers the Spanish-leaning card corpus with an
	// English fallback.
	DefaultLanguages = "spa+eng"
	// DefaultPageSegMode is tesseract's "single uniform block" mode,
	// the right fit for a flattened card crop.
	DefaultPageSegMode = 6
	// DefaultTimeout bounds a single recognition run.
	DefaultTimeout = 2 * time.Minute
)

// Config tunes the recognition run.
type Config struct {
	Binary      string
	Languages   string
	PageSegMode int
	Timeout     time.Duration
}

func (c Config) withDefaults() Config {
	if c.Binary == "" {
		c.Binary = DefaultBinary
	}
	if c.Languages == "" {
		c.Languages = DefaultLanguages
	}
	if c.PageSegMode <= 0 {
		c.PageSegMode = DefaultPageSegMode
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	return c
}

// Service wraps the tesseract binary. Recognition runs are serialized;
// tesseract saturates its cores on its own.
type Service struct {
	cfg           Config
	logger        *slog.Logger
	commandRunner func(ctx context.Context, name string, args ...string) (string, error)

	mu         sync.Mutex
	lookupOnce sync.Once
	lookupErr  error
	resolved   string
}

// NewService creates a recognition service with the given configuration.
func NewService(cfg Config, logger *slog.Logger) *Service {
	return &Service{
		cfg:    cfg.withDefaults(),
		logger: logging.NewComponentLogger(logger, "ocr"),
	}
}

// WithCommandRunner sets a custom command runner (for testing).
func (s *Service) WithCommandRunner(runner func(ctx context.Context, name string, args ...string) (string, error)) {
	s.commandRunner = runner
}

// Available reports whether the configured binary can be resolved. The
// lookup happens once and is cached for the life of the service.
func (s *Service) Available() error {
	s.lookupOnce.Do(func() {
		if s.commandRunner != nil {
			s.resolved = s.cfg.Binary
			return
		}
		path, err := exec.LookPath(s.cfg.Binary)
		if err != nil {
			s.lookupErr = services.Wrap(services.ErrConfiguration, "ocr", "lookup",
				fmt.Sprintf("%s not found in PATH", s.cfg.Binary), err)
			return
		}
		s.resolved = path
	})
	return s.lookupErr
}

// Recognize runs tesseract over the image at path and returns the raw
// recognized text with surrounding whitespace trimmed.
func (s *Service) Recognize(ctx context.Context, imagePath string) (string, error) {
	if imagePath == "" {
		return "", services.Wrap(services.ErrValidation, "ocr", "recognize", "image path required", nil)
	}
	if _, err := os.Stat(imagePath); err != nil {
		return "", services.Wrap(services.ErrValidation, "ocr", "recognize", "image not readable", err)
	}
	if err := s.Available(); err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	runCtx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	started := time.Now()
	output, err := s.run(runCtx, s.resolved, s.buildArgs(imagePath)...)
	if err != nil {
		return "", services.Wrap(services.ErrRecognition, "ocr", "recognize", "tesseract exited", err)
	}

	text := strings.TrimSpace(output)
	s.logger.Info("recognition finished",
		logging.String(logging.FieldEventType, "ocr_finished"),
		logging.String("image", imagePath),
		logging.Int("text_len", len(text)),
		logging.Duration("elapsed", time.Since(started)),
	)
	return text, nil
}

// buildArgs constructs the tesseract invocation. Output goes to stdout so
// no sidecar files are left next to the image.
func (s *Service) buildArgs(imagePath string) []string {
	return []string{
		imagePath,
		"stdout",
		"-l", s.cfg.Languages,
		"--psm", strconv.Itoa(s.cfg.PageSegMode),
	}
}

// run executes a command, using the custom runner if set.
func (s *Service) run(ctx context.Context, name string, args ...string) (string, error) {
	if s.commandRunner != nil {
		return s.commandRunner(ctx, name, args...)
	}
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec
	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("%s: %w: %s", name, err, strings.TrimSpace(stderr.String()))
	}
	return stdout.String(), nil
}
