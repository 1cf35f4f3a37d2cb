// Package capture orchestrates contact acquisition channels.
//
// A Session ties the scanner, OCR pipeline, extractor, and store together
// for one capture run: QR payloads and recognized card text become patches
// merged into the single contact record, and each accepted update fans out
// to subscribers and notifications. The inbox watcher feeds the session
// from the filesystem so images dropped by other devices get picked up
// without a UI.
package capture
