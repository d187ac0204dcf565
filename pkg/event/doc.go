// Package event consumes notification requests from upstream services and
// feeds them into the dispatcher.
//
// The production transport is Redis Streams with a consumer group: the
// Producer XADDs JSON payloads, the RedisSource XREADGROUPs them, and a
// message is XACKed only after the notification record is persisted. An
// unacked message stays pending and is redelivered, so a crash between
// fetch and persist cannot lose a notification. Malformed payloads are the
// one exception: they are acked and dropped because redelivery can never
// fix them.
package event
