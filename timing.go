// FILE: stratacfg/strata/timing.go
package strata

import "time"

// Core timing constants for production use.
const (
	// DefaultDebounce is the file change coalescence period: how long the
	// watcher waits after the last event before refreshing.
	DefaultDebounce = 200 * time.Millisecond
)
