// Package pg provides PostgreSQL connection helpers for the notification
// core: a retrying pgxpool connector, a goose-based migrator wired into
// structured logging, and small error classification helpers used by the
// storage implementations.
package pg
