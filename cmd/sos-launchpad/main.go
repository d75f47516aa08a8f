//go:build tinygo

// Command sos-launchpad is the bare-metal build for the TM4C123 LaunchPad.
// It drives Port F through its registers and times the pattern with the
// calibrated busy-wait.
package main

import (
	"time"

	"github.com/sweeney/sos-beacon/internal/delay"
	"github.com/sweeney/sos-beacon/internal/gpio"
	"github.com/sweeney/sos-beacon/internal/logic"
	"github.com/sweeney/sos-beacon/internal/pattern"
)

func main() {
	port, err := gpio.InitRegisterPort(gpio.MMIO{}, gpio.PortF)
	if err != nil {
		// Only reachable if the layout constants are edited incorrectly.
		for {
			println("sos-launchpad:", err.Error())
			delay.Busy{}.Sleep(delay.Units(10))
		}
	}

	player := pattern.NewPlayer(port, delay.Busy{}, gpio.Yellow, pattern.SOS)
	// No wall clock on the board; event times stay zero.
	sup := logic.NewSupervisor(logic.TriggerBoth, time.Time{})

	for {
		levels, _ := port.Read(gpio.Inputs)
		sw1, sw2 := gpio.Pressed(levels)
		if _, play := sup.Process(logic.Input{SW1: sw1, SW2: sw2}); play {
			player.Play()
			sup.CycleDone()
		}
	}
}
