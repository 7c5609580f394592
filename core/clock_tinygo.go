//go:build tinygo

package core

import "sync/atomic"

var tickCount uint32

// getTicks returns the current tick count.
func getTicks() uint32 {
	return atomic.LoadUint32(&tickCount)
}

// setTicks sets the tick count. Called from the target's timer glue.
func setTicks(t uint32) {
	atomic.StoreUint32(&tickCount, t)
}
