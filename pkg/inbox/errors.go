package inbox

import "errors"

// ErrEntryNotFound is returned when an inbox entry does not exist or
// belongs to a different user.
var ErrEntryNotFound = errors.New("inbox entry not found")
