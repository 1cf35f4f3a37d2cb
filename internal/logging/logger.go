package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"cardbox/internal/config"
)

// Options describes logger construction parameters.
type Options struct {
	// Level is one of debug, info, warn, error. Empty means info.
	Level string
	// Format selects the console or json handler. Empty means console.
	Format string
	// FilePath, when set, tees output into an append-mode log file next
	// to the stdout stream.
	FilePath string
	// Development enables source locations regardless of level.
	Development bool
}

// New constructs a slog logger using the provided options.
func New(opts Options) (*slog.Logger, error) {
	level := parseLevel(opts.Level)
	levelVar := new(slog.LevelVar)
	levelVar.Set(level)

	out, err := buildWriter(opts.FilePath)
	if err != nil {
		return nil, err
	}

	addSource := opts.Development || level <= slog.LevelDebug

	switch strings.ToLower(strings.TrimSpace(opts.Format)) {
	case "", "console":
		return slog.New(newConsoleHandler(out, levelVar, addSource)), nil
	case "json":
		return slog.New(newJSONHandler(out, levelVar, addSource)), nil
	default:
		return nil, fmt.Errorf("log format: unsupported value %q", opts.Format)
	}
}

// NewFromConfig creates a logger for the daemon: stdout plus cardbox.log in
// the configured log directory.
func NewFromConfig(cfg *config.Config) (*slog.Logger, error) {
	if cfg == nil {
		return New(Options{})
	}
	var file string
	if cfg.Paths.LogDir != "" {
		file = filepath.Join(cfg.Paths.LogDir, "cardbox.log")
	}
	return New(Options{
		Level:    cfg.Logging.Level,
		Format:   cfg.Logging.Format,
		FilePath: file,
	})
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func buildWriter(filePath string) (io.Writer, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	if dir := filepath.Dir(filePath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("ensure log directory: %w", err)
		}
	}
	f, err := os.OpenFile(filePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o664)
	if err != nil {
		return nil, fmt.Errorf("open log file %s: %w", filePath, err)
	}
	return io.MultiWriter(os.Stdout, f), nil
}

func newJSONHandler(w io.Writer, lvl *slog.LevelVar, addSource bool) slog.Handler {
	opts := slog.HandlerOptions{
		Level:     lvl,
		AddSource: addSource,
		ReplaceAttr: func(groups []string, attr slog.Attr) slog.Attr {
			switch attr.Key {
			case slog.TimeKey:
				attr.Key = "ts"
				if attr.Value.Kind() == slog.KindTime {
					attr.Value = slog.StringValue(attr.Value.Time().UTC().Format(time.RFC3339))
				}
			case slog.LevelKey:
				attr.Value = slog.StringValue(strings.ToLower(attr.Value.String()))
			case slog.SourceKey:
				if src, ok := attr.Value.Any().(*slog.Source); ok && src != nil {
					attr.Value = slog.StringValue(fmt.Sprintf("%s:%d", filepath.Base(src.File), src.Line))
				}
			}
			return attr
		},
	}
	return slog.NewJSONHandler(w, &opts)
}
