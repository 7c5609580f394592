//go:build !tinygo

package core

// State holds saved interrupt state. The host has no interrupts; tests
// drive the whole pipeline from a single goroutine, so the critical
// sections collapse to no-ops.
type State uintptr

func disableInterrupts() State {
	return 0
}

func restoreInterrupts(state State) {
}
