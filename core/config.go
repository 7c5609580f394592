// Package core implements the real-time interrupter control pipeline:
// clock, fixed-point math, DDS oscillator + quadrature demodulator,
// output policy, task scheduler and telemetry.
package core

// All configuration is compile-time. There is no runtime reconfiguration
// interface; the host visualizer parses telemetry using the same constants
// (see the protocol package for the wire layout).

// Clock configuration.
const (
	// TickRateHz is the tick rate of the monotonic hardware counter.
	// The RP2040 timer runs at 1MHz, so one tick is one microsecond.
	TickRateHz = 1000000
)

// Input sampling configuration.
const (
	// SampleRateHz is the ADC sample rate of the control input.
	SampleRateHz = 20000

	// SampleIntervalTicks is the clock interval between samples.
	SampleIntervalTicks = TickRateHz / SampleRateHz
)

// Demodulator configuration.
const (
	// LocalOscHz is the local oscillator frequency the demodulator
	// extracts the envelope at. This is the carrier of the control
	// input, not the musical pitch.
	LocalOscHz = 1000

	// PhaseStepPerTick is the DDS phase increment per sample tick,
	// with a full turn represented as 2^32.
	PhaseStepPerTick = (LocalOscHz << 32) / SampleRateHz

	// EnvelopeSmoothShift sets the I/Q smoothing filter coefficient to
	// 1/2^n per tick. Larger values reject more of the image frequency
	// at the cost of a longer startup transient.
	EnvelopeSmoothShift = 6

	// envelopeGuardBits are extra fractional bits carried by the
	// smoothing accumulators so small inputs are not lost to the shift.
	envelopeGuardBits = 8
)

// Output policy configuration.
const (
	// NoiseFloor is the envelope magnitude below which the drive
	// degrades to idle rather than producing spurious firing.
	NoiseFloor = 512

	// EnvelopeFullScale is the envelope produced by a full-scale input
	// tone at the local oscillator frequency (amplitude/2 after
	// quadrature demodulation).
	EnvelopeFullScale = 16384

	// FMinHz and FMaxHz bound the interrupter firing frequency.
	FMinHz = 100
	FMaxHz = 880

	// CalibrationInverted flips the envelope-to-frequency direction
	// (louder input firing slower instead of faster).
	CalibrationInverted = false

	// DutyMin and DutyMax bound the gate duty fraction, in 1/256ths of
	// a firing period. DutyMax is a hard safety clamp.
	DutyMin = 8
	DutyMax = 32

	// PowerBudget caps average power: FreqHz * Duty never exceeds it.
	// At FMaxHz this limits the duty to PowerBudget/FMaxHz.
	PowerBudget = 14080
)

// Gate output configuration.
const (
	// MinPulseTicks and MaxPulseTicks bound a single gate-on interval.
	MinPulseTicks = 10
	MaxPulseTicks = 1000

	// GateIdleRecheckTicks is how often the idle gate re-reads the
	// drive slot while the duty is zero.
	GateIdleRecheckTicks = TickRateHz / 1000
)

// Control and telemetry cadence.
const (
	// ControlIntervalSamples is the number of demodulator ticks between
	// output policy updates (and telemetry frames).
	ControlIntervalSamples = 32

	// TelemetryQueueCap is the fixed capacity of the outbound frame
	// queue. Enqueue on a full queue drops the new frame.
	TelemetryQueueCap = 64

	// TelemetryFlushIntervalTicks is the cadence of the lowest-priority
	// flush task.
	TelemetryFlushIntervalTicks = 2000

	// TelemetryFlushBatch is the maximum frames written per flush run,
	// keeping the flush task's execution time bounded.
	TelemetryFlushBatch = 8
)

// Indicator configuration.
const (
	// IndicatorChannels is the number of amplitude indicator channels.
	IndicatorChannels = 4
)
