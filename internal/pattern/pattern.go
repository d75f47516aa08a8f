// Package pattern holds the timed blink patterns and the player that drives them.
package pattern

import (
	"fmt"
	"time"

	"github.com/sweeney/sos-beacon/internal/delay"
	"github.com/sweeney/sos-beacon/internal/gpio"
)

// Step is one output level held for a number of delay units.
type Step struct {
	On    bool
	Units uint
}

// Pattern is a fixed sequence of steps followed by a dark gap.
type Pattern struct {
	Name  string
	Steps []Step
	Gap   uint // units held dark after the last step
}

// Dot and dash lengths in delay units.
const (
	dotUnits  = 5
	dashUnits = 20
	gapUnits  = 40
)

// SOS is three short, three long, three short flashes, then a gap.
var SOS = Pattern{
	Name: "SOS",
	Steps: []Step{
		// S
		{true, dotUnits}, {false, dotUnits},
		{true, dotUnits}, {false, dotUnits},
		{true, dotUnits}, {false, dotUnits},
		// O
		{true, dashUnits}, {false, dashUnits},
		{true, dashUnits}, {false, dashUnits},
		{true, dashUnits}, {false, dashUnits},
		// S
		{true, dotUnits}, {false, dotUnits},
		{true, dotUnits}, {false, dotUnits},
		{true, dotUnits}, {false, dotUnits},
	},
	Gap: gapUnits,
}

// Duration returns the time one full cycle takes, gap included.
func (p Pattern) Duration() time.Duration {
	total := delay.Units(p.Gap)
	for _, s := range p.Steps {
		total += delay.Units(s.Units)
	}
	return total
}

// Player plays a pattern on a set of output pins.
type Player struct {
	port    gpio.Port
	sleeper delay.Sleeper
	pins    gpio.Mask
	pattern Pattern
}

// NewPlayer creates a player that flashes pins on port.
func NewPlayer(port gpio.Port, sleeper delay.Sleeper, pins gpio.Mask, p Pattern) *Player {
	return &Player{
		port:    port,
		sleeper: sleeper,
		pins:    pins,
		pattern: p,
	}
}

// Pattern returns the pattern being played.
func (pl *Player) Pattern() Pattern {
	return pl.pattern
}

// Play runs one full cycle and returns when it is complete.
// Every step is timed even if a pin write fails; the first write error is
// returned after the cycle.
func (pl *Player) Play() error {
	var firstErr error
	for i, s := range pl.pattern.Steps {
		var err error
		if s.On {
			err = pl.port.Set(pl.pins)
		} else {
			err = pl.port.Clear(pl.pins)
		}
		if err != nil && firstErr == nil {
			firstErr = fmt.Errorf("%s step %d: %w", pl.pattern.Name, i, err)
		}
		pl.sleeper.Sleep(delay.Units(s.Units))
	}
	pl.sleeper.Sleep(delay.Units(pl.pattern.Gap))
	return firstErr
}
