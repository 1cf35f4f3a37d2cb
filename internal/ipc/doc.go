// Package ipc exposes daemon control via JSON-RPC over a Unix domain
// socket. The CLI uses it to query the running daemon's status and the
// current contact record without opening the database a second time.
package ipc
