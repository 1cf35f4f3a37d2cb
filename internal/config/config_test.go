package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"cardbox/internal/config"
)

func TestDefaultNormalizes(t *testing.T) {
	cfg := config.Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults must validate: %v", err)
	}
	if cfg.Scanner.DebounceMS != 800 {
		t.Fatalf("debounce default = %d", cfg.Scanner.DebounceMS)
	}
	if cfg.OCR.Languages != "spa+eng" {
		t.Fatalf("ocr languages default = %q", cfg.OCR.Languages)
	}
	if cfg.Extract.PhoneMinDigits != 7 || cfg.Extract.NameMinLen != 4 || cfg.Extract.NameMaxLen != 48 {
		t.Fatalf("extract defaults = %+v", cfg.Extract)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.toml")
	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if exists {
		t.Fatalf("expected missing config, resolved %q", resolved)
	}
	if cfg.Scanner.DebounceMS != 800 {
		t.Fatalf("debounce = %d", cfg.Scanner.DebounceMS)
	}
	if !filepath.IsAbs(cfg.Paths.DataDir) {
		t.Fatalf("data dir not expanded: %q", cfg.Paths.DataDir)
	}
}

func TestLoadParsesOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := strings.Join([]string{
		"[paths]",
		`data_dir = "` + filepath.Join(dir, "data") + `"`,
		"[scanner]",
		"debounce_ms = 250",
		"continuous = true",
		"[extract]",
		"phone_min_digits = 9",
	}, "\n")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !exists {
		t.Fatal("config file not detected")
	}
	if cfg.Scanner.DebounceMS != 250 || !cfg.Scanner.Continuous {
		t.Fatalf("scanner overrides not applied: %+v", cfg.Scanner)
	}
	if cfg.Extract.PhoneMinDigits != 9 {
		t.Fatalf("extract override not applied: %+v", cfg.Extract)
	}
	if cfg.OCR.MaxWidth != 1200 {
		t.Fatalf("untouched defaults lost: %+v", cfg.OCR)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := "[extract]\nname_min_len = 50\nname_max_len = 10\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, _, _, err := config.Load(path); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestCreateSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("create sample: %v", err)
	}
	if _, _, exists, err := config.Load(path); err != nil || !exists {
		t.Fatalf("sample config does not load cleanly: exists=%v err=%v", exists, err)
	}
}
