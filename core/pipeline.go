package core

// Pipeline wires the control path together: the sample-ready interrupt
// wakes the highest-priority sampling task, which feeds the demodulator;
// every control interval the envelope runs through the output policy, the
// resulting command is published to the gate, and a telemetry frame is
// queued for the lowest-priority flush task.
//
// Task priorities, highest first:
//
//	prio | task      | trigger
//	  3  | sample    | sample-ready interrupt
//	  2  | (gate)    | timer wheel, runs in interrupt context
//	  1  | telemetry | periodic flush timer
type Pipeline struct {
	Sched Scheduler

	demod Demodulator
	gate  Gate
	ring  FrameRing

	sampleTask Task
	flushTask  Task
	flushTimer Timer

	// Latest values handed between stages, owned by the sampling task.
	lastSample FixedSample
	lastIQ     IQPair
	lastEnv    Envelope

	tickCount uint32
}

// Init builds the static task set and schedules the gate and flush
// timers. Call once at startup, before interrupts are enabled; nothing is
// allocated afterwards.
func (p *Pipeline) Init(start Instant) {
	p.sampleTask = Task{Name: "sample", Priority: 3, Body: p.runSample}
	p.flushTask = Task{Name: "telemetry", Priority: 1, Body: p.runFlush}
	p.Sched.Add(&p.sampleTask)
	p.Sched.Add(&p.flushTask)

	p.gate.Start(start.Add(SampleIntervalTicks))

	p.flushTimer.WakeTime = start.Add(TelemetryFlushIntervalTicks)
	p.flushTimer.Handler = p.flushEvent
	ScheduleTimer(&p.flushTimer)
}

// OnSampleReady is the sample-ready interrupt entry point.
func (p *Pipeline) OnSampleReady() {
	p.Sched.Wake(&p.sampleTask)
}

// Poll runs due timers and dispatches ready tasks. The target main loop
// spins on this; the host simulator calls it after advancing the clock.
func (p *Pipeline) Poll() {
	ProcessTimers()
	p.Sched.Dispatch()
}

// Envelope returns the most recent envelope magnitude.
func (p *Pipeline) Envelope() Envelope {
	return p.lastEnv
}

// TelemetryDropped returns the count of frames dropped on a full queue.
func (p *Pipeline) TelemetryDropped() uint32 {
	return p.ring.Dropped()
}

// runSample is the sampling task body: one demodulator tick, plus the
// control update every ControlIntervalSamples ticks.
func (p *Pipeline) runSample() {
	sample := ReadSample()
	iq, env := p.demod.Tick(sample)
	p.lastSample, p.lastIQ, p.lastEnv = sample, iq, env

	p.tickCount++
	if p.tickCount%ControlIntervalSamples != 0 {
		return
	}

	cmd := CommandFor(env)
	PublishDrive(cmd)

	p.ring.Push(TelemetryFrame{
		Timestamp: Now(),
		Sample:    sample,
		IQ:        p.demod.Smoothed(),
		Envelope:  env,
		Drive:     cmd,
	})
}

// runFlush is the flush task body.
func (p *Pipeline) runFlush() {
	FlushFrames(&p.ring)
}

func (p *Pipeline) flushEvent(t *Timer) TimerAction {
	p.Sched.Wake(&p.flushTask)
	t.WakeTime = t.WakeTime.Add(TelemetryFlushIntervalTicks)
	return TimerReschedule
}
