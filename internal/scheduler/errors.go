package scheduler

import "errors"

// ErrLoopStopped is returned by Post/PostWait after Stop.
var ErrLoopStopped = errors.New("sync loop is stopped")
