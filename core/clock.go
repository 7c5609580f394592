package core

// Instant is a monotonic timestamp in hardware timer ticks. The counter is
// 32 bits wide and free running; all arithmetic is modulo the counter width
// so a single wraparound between two observations is corrected
// transparently. More than one wraparound between observations is out of
// contract (the control loop polls far faster than the ~71 minute wrap
// period at 1MHz).
type Instant uint32

// Duration is a span of time in timer ticks.
type Duration uint32

// Now returns the current time from the tick source.
func Now() Instant {
	return Instant(getTicks())
}

// SetNow publishes the hardware counter value into the tick source.
// Targets call this from their timer glue; tests call it directly.
func SetNow(t Instant) {
	setTicks(uint32(t))
}

// Add returns the instant d ticks after i, wrapping modulo the counter.
func (i Instant) Add(d Duration) Instant {
	return i + Instant(d)
}

// Sub returns the ticks elapsed from earlier to i. Well defined whenever i
// occurred at or after earlier, including across a single wraparound.
func (i Instant) Sub(earlier Instant) Duration {
	return Duration(i - earlier)
}

// Before reports whether i is earlier than other, interpreting any tick
// difference of less than half the counter range as being in the future.
func (i Instant) Before(other Instant) bool {
	return int32(other-i) > 0
}

// Elapsed returns the ticks elapsed since the given instant.
func Elapsed(since Instant) Duration {
	return Now().Sub(since)
}

// DurationFromMicros converts microseconds to ticks.
func DurationFromMicros(us uint32) Duration {
	return Duration(uint64(us) * TickRateHz / 1000000)
}

// Micros converts a duration to microseconds.
func (d Duration) Micros() uint32 {
	return uint32(uint64(d) * 1000000 / TickRateHz)
}
