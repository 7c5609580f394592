package core

// Hardware access points. Targets install real implementations at startup;
// the defaults are inert so the core is host-testable. All three are
// called from bounded task or interrupt context and must not block.
var (
	// ReadSample returns the latest ADC reading as a normalized
	// FixedSample. Called once per sampling interrupt.
	ReadSample func() FixedSample = func() FixedSample { return 0 }

	// SetGate drives the interrupter gate pin.
	SetGate func(on bool) = func(bool) {}

	// EmitTelemetry writes one encoded telemetry frame to the
	// diagnostic transport. Best effort; errors are not reported.
	EmitTelemetry func(frame []byte) = func([]byte) {}
)
