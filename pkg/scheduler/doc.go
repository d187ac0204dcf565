// Package scheduler drives the periodic delivery sweeps.
//
// Three loops run in the background: due PENDING notifications are
// dispatched every 30 seconds in priority order, retryable FAILED
// notifications are requeued and redispatched every 5 minutes, and expired
// inbox entries are removed once a day. Every sweep skips its tick if the
// previous run has not finished, so slow storage can never pile up
// concurrent sweeps.
package scheduler
