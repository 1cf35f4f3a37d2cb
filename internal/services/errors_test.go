package services_test

import (
	"errors"
	"testing"

	"cardbox/internal/services"
)

func TestWrapTagsMarker(t *testing.T) {
	base := errors.New("boom")
	err := services.Wrap(services.ErrRecognition, "ocr", "recognize", "tesseract exited", base)
	if !errors.Is(err, services.ErrRecognition) {
		t.Fatalf("marker lost: %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("cause lost: %v", err)
	}
	want := "recognition error: ocr: recognize: tesseract exited: boom"
	if err.Error() != want {
		t.Fatalf("message = %q, want %q", err.Error(), want)
	}
}

func TestWrapDefaultsToDecodeMarker(t *testing.T) {
	err := services.Wrap(nil, "vcard", "", "", nil)
	if !errors.Is(err, services.ErrDecode) {
		t.Fatalf("expected decode marker, got %v", err)
	}
}

func TestRetryable(t *testing.T) {
	tests := []struct {
		marker error
		want   bool
	}{
		{services.ErrAcquisition, true},
		{services.ErrRecognition, true},
		{services.ErrDecode, false},
		{services.ErrPersistence, false},
		{services.ErrValidation, false},
	}
	for _, tt := range tests {
		err := services.Wrap(tt.marker, "capture", "op", "", nil)
		if got := services.Retryable(err); got != tt.want {
			t.Errorf("Retryable(%v) = %v, want %v", tt.marker, got, tt.want)
		}
	}
}
