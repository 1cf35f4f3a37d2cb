package ocr_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"cardbox/internal/logging"
	"cardbox/internal/ocr"
	"cardbox/internal/services"
)

func writeImage(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "card.png")
	if err := os.WriteFile(path, []byte("not a real png"), 0o644); err != nil {
		t.Fatalf("write image: %v", err)
	}
	return path
}

func TestRecognizeBuildsTesseractInvocation(t *testing.T) {
	path := writeImage(t)

	svc := ocr.NewService(ocr.Config{}, logging.NewNop())
	var gotName string
	var gotArgs []string
	svc.WithCommandRunner(func(_ context.Context, name string, args ...string) (string, error) {
		gotName = name
		gotArgs = args
		return "  MARIA LOPEZ\nGerente de Ventas\n", nil
	})

	text, err := svc.Recognize(context.Background(), path)
	if err != nil {
		t.Fatalf("recognize: %v", err)
	}
	if text != "MARIA LOPEZ\nGerente de Ventas" {
		t.Fatalf("unexpected text %q", text)
	}
	if gotName != ocr.DefaultBinary {
		t.Fatalf("unexpected binary %q", gotName)
	}
	want := []string{path, "stdout", "-l", "spa+eng", "--psm", "6"}
	if len(gotArgs) != len(want) {
		t.Fatalf("unexpected args %v", gotArgs)
	}
	for i, arg := range want {
		if gotArgs[i] != arg {
			t.Fatalf("arg %d: got %q want %q", i, gotArgs[i], arg)
		}
	}
}

func TestRecognizeHonorsConfiguredLanguagesAndMode(t *testing.T) {
	path := writeImage(t)

	svc := ocr.NewService(ocr.Config{Languages: "eng", PageSegMode: 11}, logging.NewNop())
	var gotArgs []string
	svc.WithCommandRunner(func(_ context.Context, _ string, args ...string) (string, error) {
		gotArgs = args
		return "", nil
	})

	if _, err := svc.Recognize(context.Background(), path); err != nil {
		t.Fatalf("recognize: %v", err)
	}
	if gotArgs[3] != "eng" || gotArgs[5] != "11" {
		t.Fatalf("config not reflected in args: %v", gotArgs)
	}
}

func TestRecognizeWrapsToolFailure(t *testing.T) {
	path := writeImage(t)

	svc := ocr.NewService(ocr.Config{}, logging.NewNop())
	svc.WithCommandRunner(func(_ context.Context, _ string, _ ...string) (string, error) {
		return "", errors.New("boom")
	})

	_, err := svc.Recognize(context.Background(), path)
	if !errors.Is(err, services.ErrRecognition) {
		t.Fatalf("expected recognition error, got %v", err)
	}
	if !services.Retryable(err) {
		t.Fatal("recognition failures should be retryable")
	}
}

func TestRecognizeRejectsMissingImage(t *testing.T) {
	svc := ocr.NewService(ocr.Config{}, logging.NewNop())
	svc.WithCommandRunner(func(_ context.Context, _ string, _ ...string) (string, error) {
		t.Fatal("runner should not be invoked")
		return "", nil
	})

	if _, err := svc.Recognize(context.Background(), ""); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error for empty path, got %v", err)
	}
	missing := filepath.Join(t.TempDir(), "missing.png")
	if _, err := svc.Recognize(context.Background(), missing); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error for missing file, got %v", err)
	}
}
