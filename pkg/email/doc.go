// Package email sends transactional email through Postmark.
//
// NewPostmarkClient is the production sender; NewDevSender writes outbound
// mail to disk for local inspection. Both satisfy the Sender interface the
// email channel adapter is built on.
package email
