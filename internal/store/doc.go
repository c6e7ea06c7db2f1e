// Package store persists playlist snapshots in SQLite so the queue survives
// restarts. The database lives in the configured state directory and is
// guarded by a file lock so only one process writes it at a time.
package store
