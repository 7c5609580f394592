//go:build rp2040

package main

import (
	"machine"
	"strconv"

	"coiltone/core"
)

// debugOutput routes core.Debugln to the serial port when true.
const debugOutput = false

// Board wiring.
const (
	// Control input, AC-coupled and biased to mid-rail, on ADC0.
	inputPin = machine.ADC0

	// Interrupter gate output to the driver stage.
	gatePin = machine.GPIO15

	// WS2812 amplitude bargraph.
	indicatorPin = machine.GPIO16
)

var pipeline core.Pipeline

func main() {
	// Clear any watchdog state left over from a previous reset.
	_ = machine.Watchdog.Configure(machine.WatchdogConfig{TimeoutMillis: 0})

	machine.InitADC()
	input := machine.ADC{Pin: inputPin}
	_ = input.Configure(machine.ADCConfig{})

	// ADC readings are 16-bit unsigned with the signal biased at
	// mid-rail; recentering yields the signed fixed-point sample.
	core.ReadSample = func() core.FixedSample {
		return core.FixedSample(int32(input.Get()) - 32768)
	}

	// Telemetry goes out the USB CDC serial port.
	core.EmitTelemetry = func(frame []byte) {
		_, _ = machine.Serial.Write(frame)
	}
	core.SetDebugWriter(func(s string) {
		_, _ = machine.Serial.Write([]byte(s))
	})
	// Debug lines share the serial port with telemetry frames and force
	// the host decoder to resync, so they stay off unless flipped on for
	// bringup.
	core.SetDebugEnabled(debugOutput)
	if debugOutput {
		core.Debugln("boot uptime=" + strconv.FormatUint(hardwareUptime(), 10) + "us\r\n")
	}

	pulse, err := newGatePulse(gatePin)
	if err != nil {
		// No PIO state machine available: fall back to driving the pin
		// directly from the gate timer.
		gatePin.Configure(machine.PinConfig{Mode: machine.PinOutput})
		core.SetGate = gatePin.Set
	}

	ind := newIndicator(indicatorPin)

	syncClock()
	pipeline.Init(core.Now())

	// Sampling is paced off the hardware counter rather than an ADC
	// interrupt: each loop iteration syncs the clock, raises the
	// sample-ready event when a sampling interval has elapsed, then
	// polls timers and tasks.
	// The WS2812 refresh blocks for the strip's bit time, so it runs at
	// its own slower cadence.
	const indicatorIntervalTicks = core.TickRateHz / 50

	nextSample := core.Now().Add(core.SampleIntervalTicks)
	nextControl := core.Now().Add(core.ControlIntervalSamples * core.SampleIntervalTicks)
	nextIndicator := core.Now().Add(indicatorIntervalTicks)
	for {
		syncClock()
		now := core.Now()

		if !now.Before(nextSample) {
			nextSample = nextSample.Add(core.SampleIntervalTicks)
			pipeline.OnSampleReady()
		}
		if !now.Before(nextControl) {
			nextControl = nextControl.Add(core.ControlIntervalSamples * core.SampleIntervalTicks)
			if pulse != nil {
				pulse.update()
			}
		}
		if !now.Before(nextIndicator) {
			nextIndicator = nextIndicator.Add(indicatorIntervalTicks)
			ind.show(pipeline.Envelope())
		}

		pipeline.Poll()
	}
}
