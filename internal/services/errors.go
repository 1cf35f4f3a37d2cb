package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrAcquisition marks capture-resource failures: the camera or frame
	// source is unavailable or permission was denied. Retry is a new Start.
	ErrAcquisition = errors.New("acquisition error")
	// ErrDecode marks payloads that could not be parsed into any field.
	// Non-fatal: callers degrade to storing the raw payload as a note.
	ErrDecode = errors.New("decode error")
	// ErrRecognition marks OCR collaborator failures or timeouts. The
	// triggering action stays retryable; no patch is produced.
	ErrRecognition = errors.New("recognition error")
	// ErrPersistence marks durable-store read/write failures. In-memory
	// state remains authoritative; these are logged and otherwise ignored.
	ErrPersistence = errors.New("persistence error")
	// ErrValidation marks rejected input (bad paths, unsupported formats).
	ErrValidation = errors.New("validation error")
	// ErrConfiguration marks missing or inconsistent configuration.
	ErrConfiguration = errors.New("configuration error")
)

// Wrap builds an error message that includes channel context while tagging it
// with the provided marker for later classification. The marker should be one
// of the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrDecode
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Retryable reports whether the failure should be surfaced to the operator as
// retryable. Acquisition and recognition failures abort the triggering action
// but a new explicit attempt may succeed; decode and persistence failures are
// recovered locally instead.
func Retryable(err error) bool {
	return errors.Is(err, ErrAcquisition) || errors.Is(err, ErrRecognition)
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
