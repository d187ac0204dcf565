// Package channel contains the delivery adapters and the router that maps
// a notification's channel to the adapter carrying it.
//
// Adapters report success as a bool and absorb their own transport errors,
// so a failing provider degrades a single delivery instead of crashing the
// dispatch loop. The router scans adapters in registration order and the
// first one that supports the channel wins.
//
// Shipped adapters: EMAIL via Postmark, SMS via AWS SNS, PUSH via Firebase
// Cloud Messaging, and WEB via inbox store-and-forward.
package channel
