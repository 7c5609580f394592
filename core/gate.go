package core

import "sync/atomic"

// Gate output: a timer-driven toggler that fires the interrupter gate at
// the latest commanded frequency and duty. The drive command crosses from
// the demodulation path to the gate timer through a single packed word, so
// the handoff is one atomic exchange and can never tear under preemption.

// driveSlot holds the latest DriveCommand packed as freq<<8 | duty.
// Written only by the control path, read only by the gate timer.
var driveSlot uint32

// PublishDrive stores cmd as the current drive command, superseding the
// previous one.
func PublishDrive(cmd DriveCommand) {
	atomic.StoreUint32(&driveSlot, uint32(cmd.FreqHz)<<8|uint32(cmd.Duty))
}

// LatestDrive returns the most recently published drive command.
func LatestDrive() DriveCommand {
	v := atomic.LoadUint32(&driveSlot)
	return DriveCommand{FreqHz: uint16(v >> 8), Duty: uint8(v)}
}

// PulseTicks returns the gate on-time for cmd, clamped to the safe pulse
// bounds. Callers must have checked cmd.Idle() first.
func PulseTicks(cmd DriveCommand) Duration {
	period := uint32(TickRateHz) / uint32(cmd.FreqHz)
	onTime := Duration(period * uint32(cmd.Duty) / 256)
	if onTime < MinPulseTicks {
		onTime = MinPulseTicks
	}
	if onTime > MaxPulseTicks {
		onTime = MaxPulseTicks
	}
	return onTime
}

// Gate runs the interrupter output. At each firing period boundary it
// re-reads the drive slot, raises the gate for the commanded on-time and
// lowers it for the remainder of the period. While the command is idle it
// keeps the gate low and re-polls at the control cadence.
type Gate struct {
	timer Timer
	on    bool
	// periodEnd is the start of the next firing period while a pulse is
	// in flight.
	periodEnd Instant
}

// Start schedules the gate timer. The gate begins low.
func (g *Gate) Start(at Instant) {
	SetGate(false)
	g.on = false
	g.timer.WakeTime = at
	g.timer.Handler = g.timerEvent
	ScheduleTimer(&g.timer)
}

// Stop forces the gate low and unschedules the timer.
func (g *Gate) Stop() {
	CancelTimer(&g.timer)
	g.on = false
	SetGate(false)
}

func (g *Gate) timerEvent(t *Timer) TimerAction {
	if g.on {
		// End of the on-time: drop the gate, wake at the period end.
		SetGate(false)
		g.on = false
		t.WakeTime = g.periodEnd
		return TimerReschedule
	}

	cmd := LatestDrive()
	if cmd.Idle() {
		SetGate(false)
		t.WakeTime = t.WakeTime.Add(GateIdleRecheckTicks)
		return TimerReschedule
	}

	onTime := PulseTicks(cmd)
	g.periodEnd = t.WakeTime.Add(Duration(TickRateHz / uint32(cmd.FreqHz)))
	SetGate(true)
	g.on = true
	t.WakeTime = t.WakeTime.Add(onTime)
	return TimerReschedule
}
