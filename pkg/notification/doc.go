// Package notification defines the core domain model of the dispatch
// pipeline: the Notification record, its type/channel/status enums and the
// Store contract every backend must satisfy.
//
// The Store contract makes the concurrency discipline explicit: the
// PENDING -> PROCESSING claim and every other status change are single
// atomic read-modify-write operations, so a scheduler sweep and a direct
// dispatch racing on the same id cannot both win. MemoryStore implements
// the contract under a mutex for development and tests; PostgresStore uses
// conditional UPDATE ... RETURNING against the notifications table.
package notification
