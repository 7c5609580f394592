package core

// DebugWriter receives firmware debug lines. Platforms point it at a UART
// or stderr; the default discards.
type DebugWriter func(string)

var (
	debugPrintln DebugWriter = func(string) {}
	debugEnabled bool
)

// SetDebugWriter installs the platform debug output function.
func SetDebugWriter(w DebugWriter) {
	debugPrintln = w
}

// SetDebugEnabled turns debug output on or off. Off by default so logging
// can never perturb control-path timing in production.
func SetDebugEnabled(enabled bool) {
	debugEnabled = enabled
}

// Debugln writes a debug line if debug output is enabled. Never called
// from interrupt context.
func Debugln(s string) {
	if debugEnabled {
		debugPrintln(s)
	}
}
