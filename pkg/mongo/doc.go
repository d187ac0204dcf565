// Package mongo provides a retrying connector and health check for the
// official MongoDB driver. The inbox package uses it for its
// document-oriented storage backend.
package mongo
