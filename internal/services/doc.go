// Package services defines shared utilities consumed by the capture channels
// and external integrations.
//
// Key responsibilities:
//   - Structured error markers plus the Wrap helper that classify failures
//     from capture, decode, recognition, and persistence so callers can pick
//     the right recovery (retry, degrade to note capture, or ignore).
//   - Context helpers that stamp capture session IDs and channel names for
//     logging.
//
// Use these helpers when wiring new channel logic so operational behaviour
// (error handling, observability, retries) stays uniform across the engine.
package services
