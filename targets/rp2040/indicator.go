//go:build rp2040

package main

import (
	"image/color"
	"machine"

	"tinygo.org/x/drivers/ws2812"

	"coiltone/core"
)

// Amplitude indicator: a short WS2812 strip showing the demodulated
// envelope as a bargraph, one LED per indicator channel.
type indicator struct {
	dev    ws2812.Device
	colors [core.IndicatorChannels]color.RGBA
}

func newIndicator(pin machine.Pin) *indicator {
	pin.Configure(machine.PinConfig{Mode: machine.PinOutput})
	return &indicator{dev: ws2812.New(pin)}
}

// show maps the envelope bargraph levels onto LED brightness. WS2812
// brightness is perceptually harsh at the top, so levels stay in the
// low green range.
func (ind *indicator) show(env core.Envelope) {
	levels := core.AmplitudeLevels(env)
	for i, level := range levels {
		g := uint8(uint32(level) * 64 / 0xFFFF)
		ind.colors[i] = color.RGBA{G: g}
	}
	_ = ind.dev.WriteColors(ind.colors[:])
}
