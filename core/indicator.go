package core

// Amplitude indicator: distributes the envelope over a row of indicator
// channels, bargraph style. A 62.5% envelope over four channels lights
// them 100%, 100%, 50%, 0%. Targets map the levels onto LEDs; the host
// scope renders them as a text meter.

// AmplitudeLevels returns one 0..65535 brightness factor per indicator
// channel for the given envelope.
func AmplitudeLevels(env Envelope) [IndicatorChannels]uint16 {
	var levels [IndicatorChannels]uint16

	overall := uint32(env)
	if overall > EnvelopeFullScale {
		overall = EnvelopeFullScale
	}
	// Rescale to the full 0..65535 factor range.
	overall = overall * 0xFFFF / EnvelopeFullScale

	const perChannel = 0xFFFF / IndicatorChannels
	for i := range levels {
		local := overall - uint32(i)*perChannel
		switch {
		case overall < uint32(i)*perChannel:
			levels[i] = 0
		case local >= perChannel:
			levels[i] = 0xFFFF
		default:
			levels[i] = uint16(local * IndicatorChannels)
		}
	}
	return levels
}
