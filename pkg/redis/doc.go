// Package redis provides a retrying connector and health check for the
// go-redis client. The event package builds its Redis Streams transport on
// top of a client obtained here.
package redis
