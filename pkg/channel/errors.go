package channel

import "errors"

// ErrNoAdapter is returned when no registered adapter supports a
// notification's channel.
var ErrNoAdapter = errors.New("no channel adapter registered")
