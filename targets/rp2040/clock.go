//go:build rp2040

package main

import (
	"runtime/volatile"
	"unsafe"

	"coiltone/core"
)

// RP2040 TIMER peripheral. The raw counter runs at 1MHz, matching
// core.TickRateHz, so hardware ticks are core ticks with no scaling.
const (
	timerBase     = 0x40054000
	timerTIMERAWH = timerBase + 0x08
	timerTIMERAWL = timerBase + 0x0C
)

var (
	timerRAWH = (*volatile.Register32)(unsafe.Pointer(uintptr(timerTIMERAWH)))
	timerRAWL = (*volatile.Register32)(unsafe.Pointer(uintptr(timerTIMERAWL)))
)

// hardwareTicks reads the low 32 bits of the microsecond counter. The
// core clock is wrap-aware, so the high word is not needed on the fast
// path.
func hardwareTicks() uint32 {
	return timerRAWL.Get()
}

// hardwareUptime reads the full 64-bit counter, re-reading the high word
// to detect a rollover mid-read. Used only for startup logging.
func hardwareUptime() uint64 {
	for {
		high1 := timerRAWH.Get()
		low := timerRAWL.Get()
		high2 := timerRAWH.Get()
		if high1 == high2 {
			return uint64(high1)<<32 | uint64(low)
		}
	}
}

// syncClock publishes the hardware counter to the core clock. Called at
// the top of every main loop iteration.
func syncClock() {
	core.SetNow(core.Instant(hardwareTicks()))
}
