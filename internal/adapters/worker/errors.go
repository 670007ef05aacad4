package worker

import "errors"

// ErrPoolClosed is returned by Submit before Start or after Shutdown.
var ErrPoolClosed = errors.New("worker pool closed")
