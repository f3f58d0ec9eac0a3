package poll

import "errors"

// ErrTimeout is delivered through OnUpdate when a session gives up before
// observing a terminal status. The submission's true status is unknown at
// that point: it is NOT recorded as completed and a later session may poll
// the same id again.
var ErrTimeout = errors.New("polling timed out before a terminal status was observed")
