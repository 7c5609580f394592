//go:build !tinygo

package core

var tickCount uint32

// getTicks returns the current tick count (host implementation).
func getTicks() uint32 {
	return tickCount
}

// setTicks sets the tick count (host implementation).
func setTicks(t uint32) {
	tickCount = t
}
