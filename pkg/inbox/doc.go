// Package inbox stores web notifications per user and manages their
// read/archive/expiry lifecycle.
//
// Entries are created by the web channel adapter through Manager.SaveToInbox
// and expire on a per-type retention schedule, from one day for security
// notifications up to ninety days for order and payment history. All
// per-entry operations are scoped by both entry ID and user ID, so a user
// cannot read or mutate another user's inbox.
package inbox
