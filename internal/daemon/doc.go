// Package daemon coordinates the background capture services and enforces
// single-instance execution via a file lock.
package daemon
