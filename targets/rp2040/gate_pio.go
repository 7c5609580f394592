//go:build rp2040

package main

import (
	"time"

	pio "github.com/tinygo-org/pio/rp2-pio"
	"github.com/tinygo-org/pio/rp2-pio/piolib"
	"machine"

	"coiltone/core"
)

// PIO pulse shaper for the gate pin. The software gate timer still
// schedules the firing period boundaries, but the gate-on pulse itself is
// generated by a PIO state machine, so its width is hardware-exact and
// immune to dispatch jitter. The pulsar runs a 50% square wave, so a
// period of twice the on-time yields one pulse of exactly the commanded
// width.
type gatePulse struct {
	pulsar *piolib.Pulsar
	// onTicks is the width of the queued pulse, tracked so the period is
	// only reprogrammed when the drive command actually changes it.
	onTicks core.Duration
}

// newGatePulse claims a PIO0 state machine for the gate pin and installs
// the shaper as the core gate hook. The falling edge is a no-op: the
// state machine ends the pulse on its own.
func newGatePulse(pin machine.Pin) (*gatePulse, error) {
	sm, err := pio.PIO0.ClaimStateMachine()
	if err != nil {
		return nil, err
	}
	pulsar, err := piolib.NewPulsar(sm, pin)
	if err != nil {
		return nil, err
	}

	g := &gatePulse{pulsar: pulsar}
	core.SetGate = func(on bool) {
		if on {
			_ = g.pulsar.TryQueue(1)
		}
	}
	return g, nil
}

// update reprograms the pulse width from the latest drive command. Called
// from the main loop at the control cadence, outside interrupt context.
func (g *gatePulse) update() {
	cmd := core.LatestDrive()
	if cmd.Idle() {
		return
	}
	onTicks := core.PulseTicks(cmd)
	if onTicks == g.onTicks {
		return
	}
	period := 2 * time.Duration(onTicks.Micros()) * time.Microsecond
	if err := g.pulsar.SetPeriod(period); err != nil {
		return
	}
	g.onTicks = onTicks
}

// stop drains the shaper and forces the pin low.
func (g *gatePulse) stop() {
	g.pulsar.Stop()
	g.pulsar.Pause(true)
}
