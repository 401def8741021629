package sweeper

import "errors"

// ErrWatchClosed is reported when the watch event stream closes unexpectedly.
var ErrWatchClosed = errors.New("watch event stream closed")
