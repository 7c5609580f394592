package core

// Output policy: maps an envelope magnitude to interrupter drive
// parameters. This runs inside a deadline-bound task, so it is a pure,
// total function with no loops.

// DriveCommand is one control period's firing parameters. A command is
// superseded by the next one, never merged or blended across periods.
type DriveCommand struct {
	// FreqHz is the firing frequency. Zero means idle (no firing).
	FreqHz uint16

	// Duty is the gate-on fraction of a firing period, in 1/256ths.
	Duty uint8
}

// Idle reports whether the command produces no firing.
func (c DriveCommand) Idle() bool {
	return c.FreqHz == 0 || c.Duty == 0
}

// CommandFor maps an envelope to a clamped DriveCommand.
//
// The transfer function is linear in the envelope between the frequency
// and duty clamps (calibration direction set by CalibrationInverted).
// Safety invariants hold for every input, including out-of-range extremes:
// FreqHz stays in [FMinHz, FMaxHz] or is zero, Duty never exceeds DutyMax,
// FreqHz*Duty never exceeds PowerBudget, and an envelope at or below
// NoiseFloor always yields {0, 0}.
func CommandFor(env Envelope) DriveCommand {
	if env <= NoiseFloor {
		return DriveCommand{}
	}

	// Normalize the span above the noise floor to a 0..65535 factor.
	span := uint32(env) - NoiseFloor
	const fullSpan = EnvelopeFullScale - NoiseFloor
	factor := uint16(0xFFFF)
	if span < fullSpan {
		factor = uint16(span * 0xFFFF / fullSpan)
	}
	if CalibrationInverted {
		factor = 0xFFFF - factor
	}

	freq := uint16(FMinHz) + ScaleBy16(FMaxHz-FMinHz, factor)
	if freq < FMinHz {
		freq = FMinHz
	}
	if freq > FMaxHz {
		freq = FMaxHz
	}

	duty := uint16(DutyMin) + ScaleBy16(DutyMax-DutyMin, factor)
	if duty > DutyMax {
		duty = DutyMax
	}

	// Average-power limit: reduce duty so freq*duty stays in budget.
	if uint32(freq)*uint32(duty) > PowerBudget {
		duty = uint16(PowerBudget / uint32(freq))
	}
	if duty == 0 {
		return DriveCommand{}
	}

	return DriveCommand{FreqHz: freq, Duty: uint8(duty)}
}
