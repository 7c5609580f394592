package core

// Direct digital synthesis local oscillator and quadrature demodulator.
// One Tick per input sample: advance phase, mix the sample against the
// oscillator's sine/cosine, low-pass the I/Q streams, and reduce them to an
// envelope magnitude.

// FixedSample is one raw ADC reading normalized to the Fixed full scale.
// Created once per sampling interrupt and immutable after creation.
type FixedSample = Fixed

// IQPair is one tick's in-phase and quadrature mixer product. It is owned
// by the demodulation step for the duration of the tick, then consumed.
type IQPair struct {
	I Fixed
	Q Fixed
}

// Envelope is a non-negative demodulated magnitude. For Fixed-range I/Q it
// is bounded by sqrt(2)*32768 and cannot wrap.
type Envelope uint16

// Demodulator holds the oscillator phase accumulator and the I/Q smoothing
// state. The zero value is ready to use: the smoothing filters seed at
// zero, which produces an artificially low envelope for the first few
// dozen ticks. That startup transient is bounded and accepted.
type Demodulator struct {
	// phase is the DDS accumulator; a full turn is 2^32. Incrementing
	// with natural wraparound keeps it in canonical range by
	// construction.
	phase uint32

	// iAcc and qAcc are the exponential-moving-average accumulators,
	// carrying envelopeGuardBits extra fractional bits.
	iAcc int32
	qAcc int32
}

// Phase returns the current oscillator phase as a binary angle.
func (d *Demodulator) Phase() Angle {
	return Angle(d.phase >> 16)
}

// Tick processes one input sample: advances the local oscillator, mixes
// the sample into an IQPair, updates the smoothing filters, and returns
// the pair together with the smoothed envelope magnitude.
func (d *Demodulator) Tick(sample FixedSample) (IQPair, Envelope) {
	d.phase += PhaseStepPerTick
	sin, cos := SinCos(d.Phase())

	iq := IQPair{
		I: SatMul(sample, cos),
		Q: SatMul(sample, sin),
	}

	d.iAcc += ((int32(iq.I) << envelopeGuardBits) - d.iAcc) >> EnvelopeSmoothShift
	d.qAcc += ((int32(iq.Q) << envelopeGuardBits) - d.qAcc) >> EnvelopeSmoothShift

	return iq, d.envelope()
}

// Smoothed returns the low-passed I/Q components.
func (d *Demodulator) Smoothed() IQPair {
	return IQPair{
		I: clampFixed(d.iAcc >> envelopeGuardBits),
		Q: clampFixed(d.qAcc >> envelopeGuardBits),
	}
}

// envelope computes sqrt(I²+Q²) over the smoothed components. The sum of
// two squared Fixed values fits a uint32, so no saturation is needed here.
func (d *Demodulator) envelope() Envelope {
	s := d.Smoothed()
	i2 := uint32(int32(s.I) * int32(s.I))
	q2 := uint32(int32(s.Q) * int32(s.Q))
	return Envelope(Sqrt32(i2 + q2))
}
