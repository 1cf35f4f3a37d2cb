package ipc

import "cardbox/internal/contact"

// StatusRequest fetches daemon status.
type StatusRequest struct{}

// StatusResponse reports daemon runtime information.
type StatusResponse struct {
	Running      bool   `json:"running"`
	SessionID    string `json:"session_id"`
	DatabasePath string `json:"database_path"`
	LockPath     string `json:"lock_path"`
	PID          int    `json:"pid"`
}

// RecordRequest fetches the current contact record.
type RecordRequest struct{}

// RecordResponse carries the reconciled record.
type RecordResponse struct {
	Record contact.Record `json:"record"`
}

// ResetRequest clears the contact record.
type ResetRequest struct{}

// ResetResponse reports whether anything was cleared.
type ResetResponse struct {
	Cleared bool `json:"cleared"`
}
