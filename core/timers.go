package core

// Timer wheel: a sorted singly-linked list of scheduled events, dispatched
// against the monotonic clock. On hardware the dispatch runs from the
// timer interrupt; handlers therefore execute in interrupt context and
// must only do bounded work (typically toggling a pin or waking a task).

// TimerAction is a handler's verdict: done, or reschedule at the updated
// WakeTime.
type TimerAction uint8

const (
	TimerDone TimerAction = iota
	TimerReschedule
)

// Timer is one scheduled event. Timers are embedded in their owners and
// never allocated at runtime.
type Timer struct {
	WakeTime Instant
	Handler  func(*Timer) TimerAction
	next     *Timer
}

var timerList *Timer

// ScheduleTimer inserts a timer into the schedule, keeping the list sorted
// by wrap-safe wake time.
func ScheduleTimer(t *Timer) {
	state := disableInterrupts()
	defer restoreInterrupts(state)

	insertTimer(t)
}

// CancelTimer removes a timer from the schedule if it is queued.
func CancelTimer(t *Timer) {
	state := disableInterrupts()
	defer restoreInterrupts(state)

	if timerList == t {
		timerList = t.next
		t.next = nil
		return
	}
	for cur := timerList; cur != nil; cur = cur.next {
		if cur.next == t {
			cur.next = t.next
			t.next = nil
			return
		}
	}
}

// ResetTimers clears the schedule. Tests use this between cases.
func ResetTimers() {
	state := disableInterrupts()
	defer restoreInterrupts(state)

	timerList = nil
}

func insertTimer(t *Timer) {
	if timerList == nil || t.WakeTime.Before(timerList.WakeTime) {
		t.next = timerList
		timerList = t
		return
	}

	cur := timerList
	for cur.next != nil && cur.next.WakeTime.Before(t.WakeTime) {
		cur = cur.next
	}
	t.next = cur.next
	cur.next = t
}

// DispatchTimers runs every timer due at or before now, rescheduling the
// ones whose handlers ask for it. Due-ness uses the wrap-safe comparison,
// so a wake time just past a counter wraparound still fires.
func DispatchTimers(now Instant) {
	state := disableInterrupts()
	defer restoreInterrupts(state)

	for timerList != nil && !now.Before(timerList.WakeTime) {
		t := timerList
		timerList = t.next
		t.next = nil

		if t.Handler(t) == TimerReschedule {
			insertTimer(t)
		}
	}
}

// ProcessTimers reads the clock and dispatches due timers. This is the
// main poll entry point on both host and target.
func ProcessTimers() {
	DispatchTimers(Now())
}
