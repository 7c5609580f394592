// Coilsim runs the firmware control core against a synthesized input tone
// and writes the resulting telemetry stream to stdout, so the host tooling
// can be exercised without hardware:
//
//	coilsim -freq 440 -amp 0.8 -seconds 2 | coilscope -mode meter
//
// Time is simulated: the clock is stepped one sampling interval at a time
// and the sampling interrupt is raised by hand.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"math"
	"os"

	"coiltone/core"
)

var (
	toneHz  = flag.Float64("freq", float64(core.LocalOscHz), "input tone frequency in Hz")
	amp     = flag.Float64("amp", 0.9, "input tone amplitude, 0..1 of full scale")
	seconds = flag.Float64("seconds", 1, "simulated duration")
	gateLog = flag.Bool("gate", false, "log gate transitions to stderr")
)

func main() {
	flag.Parse()

	if *amp < 0 || *amp > 1 {
		fmt.Fprintln(os.Stderr, "coilsim: -amp must be in 0..1")
		os.Exit(2)
	}

	out := bufio.NewWriter(os.Stdout)
	defer out.Flush()

	// Synthesized ADC: a pure tone evaluated at the simulated sample clock.
	sample := 0
	core.ReadSample = func() core.FixedSample {
		t := float64(sample) / float64(core.SampleRateHz)
		sample++
		v := *amp * math.Sin(2*math.Pi**toneHz*t) * float64(core.FixedMax)
		return core.FixedSample(v)
	}
	core.EmitTelemetry = func(frame []byte) {
		out.Write(frame)
	}
	if *gateLog {
		core.SetGate = func(on bool) {
			fmt.Fprintf(os.Stderr, "gate %v at t=%d\n", on, core.Now())
		}
	}

	var p core.Pipeline
	core.SetNow(0)
	p.Init(core.Now())

	steps := int(*seconds * float64(core.SampleRateHz))
	for i := 0; i < steps; i++ {
		core.SetNow(core.Now().Add(core.SampleIntervalTicks))
		p.OnSampleReady()
		p.Poll()
	}
}
