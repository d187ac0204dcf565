// Package dispatch is the delivery orchestrator. It owns the notification
// status lifecycle: PENDING -> PROCESSING -> SENT or FAILED, with
// cancellation allowed from the two non-terminal states.
//
// A notification is claimed atomically before delivery, so two workers
// racing for the same record can never both send it. The claim also
// increments the attempt counter, bounding delivery at max_attempts
// regardless of how often the schedulers sweep. Adapter errors and panics
// are absorbed into the FAILED status; a dispatch call only errors when the
// store does.
//
// SendBulk fans a template out to many recipients concurrently and joins
// the per-recipient outcomes in request order.
package dispatch
