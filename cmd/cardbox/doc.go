// Command cardbox is the CLI for the contact capture toolkit. It parses
// vCard payloads, runs the OCR pipeline over card photos, drives the QR
// scan loop, and inspects or edits the reconciled contact record.
package main
