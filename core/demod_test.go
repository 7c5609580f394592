package core

import (
	"math"
	"testing"
)

// toneSample synthesizes one sample of a tone at the given frequency and
// amplitude, evaluated at tick n of the sample clock.
func toneSample(n int, freqHz float64, amp float64) FixedSample {
	t := float64(n) / SampleRateHz
	return FixedSample(amp * math.Sin(2*math.Pi*freqHz*t))
}

func TestDemodulatorPhaseAdvance(t *testing.T) {
	var d Demodulator
	// Count accumulator wraparounds over one second of ticks: the
	// oscillator must complete exactly LocalOscHz turns.
	turns := 0
	prev := d.phase
	for n := 0; n < SampleRateHz; n++ {
		d.Tick(0)
		if d.phase < prev {
			turns++
		}
		prev = d.phase
	}
	// The phase step truncates, so the oscillator may run one turn short
	// over a full second; any larger error means the step is wrong.
	if turns != LocalOscHz && turns != LocalOscHz-1 {
		t.Errorf("oscillator turns in one second = %d, want %d", turns, LocalOscHz)
	}
}

func TestDemodulatorSilence(t *testing.T) {
	var d Demodulator
	var env Envelope
	for n := 0; n < 2048; n++ {
		_, env = d.Tick(0)
	}
	if env != 0 {
		t.Errorf("envelope of silence = %d, want 0", env)
	}
}

// TestDemodulatorTone feeds a tone at the local oscillator frequency and
// checks the settled envelope against the quadrature identity: a tone of
// amplitude A at the oscillator frequency demodulates to an envelope of
// A/2.
func TestDemodulatorTone(t *testing.T) {
	cases := []struct {
		name string
		amp  float64
	}{
		{"full scale", 32767},
		{"half scale", 16384},
		{"small", 4096},
	}
	for _, c := range cases {
		var d Demodulator
		var env Envelope
		// 4096 ticks is 64 filter time constants: fully settled.
		for n := 0; n < 4096; n++ {
			_, env = d.Tick(toneSample(n, LocalOscHz, c.amp))
		}

		want := c.amp / 2
		if math.Abs(float64(env)-want) > want/10 {
			t.Errorf("%s: envelope = %d, want %.0f +/- 10%%", c.name, env, want)
		}
	}
}

// TestDemodulatorOffFrequency feeds a tone far from the oscillator
// frequency; the smoothing filter must reject it.
func TestDemodulatorOffFrequency(t *testing.T) {
	var d Demodulator
	var env Envelope
	for n := 0; n < 4096; n++ {
		_, env = d.Tick(toneSample(n, 5000, 32767))
	}
	if env > EnvelopeFullScale/8 {
		t.Errorf("off-frequency envelope = %d, want below %d", env, EnvelopeFullScale/8)
	}
}

// TestDemodulatorBounded hammers the demodulator with full-scale extremes
// and checks nothing wraps.
func TestDemodulatorBounded(t *testing.T) {
	var d Demodulator
	inputs := []FixedSample{FixedMax, FixedMin, FixedMax, FixedMin}
	for n := 0; n < 8192; n++ {
		iq, env := d.Tick(inputs[n%len(inputs)])
		if env > 46341 { // sqrt(2) * 32768
			t.Fatalf("tick %d: envelope %d exceeds I/Q magnitude bound", n, env)
		}
		_ = iq
	}
}
