package usage

import "errors"

// ErrLimitReached indicates the device exhausted its free analyses.
var ErrLimitReached = errors.New("free analysis limit reached")
