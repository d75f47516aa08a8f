// Package logic contains the pure supervisory logic for the SOS beacon.
// This package has NO external dependencies (no GPIO, MQTT, OS, or time.Sleep).
// Time is always injectable via time.Time parameters.
package logic

import (
	"fmt"
	"time"
)

// State represents whether the beacon is waiting or playing.
type State string

const (
	StateIdle   State = "IDLE"
	StateActive State = "ACTIVE"
)

// EventType represents a supervisor state transition.
type EventType string

const (
	EventStart EventType = "SOS_START"
	EventStop  EventType = "SOS_STOP"
)

// Trigger selects how the switches start and stop the pattern.
type Trigger string

const (
	// TriggerBoth plays while SW1 and SW2 are held together. This is how the
	// LaunchPad firmware behaves.
	TriggerBoth Trigger = "both"
	// TriggerLatch starts on SW1 and stops on SW2.
	TriggerLatch Trigger = "latch"
)

// ParseTrigger validates a trigger name.
func ParseTrigger(s string) (Trigger, error) {
	switch Trigger(s) {
	case TriggerBoth, TriggerLatch:
		return Trigger(s), nil
	}
	return "", fmt.Errorf("unknown trigger %q (want %q or %q)", s, TriggerBoth, TriggerLatch)
}

// Input represents a single poll sample.
type Input struct {
	SW1  bool // true = pressed (already inverted from the active-low pin)
	SW2  bool
	Time time.Time
}

// Event represents a state transition to be published.
type Event struct {
	Timestamp time.Time
	Type      EventType
	State     State
	Cycles    int
}

// Counts tracks activity since startup.
type Counts struct {
	Starts int
	Stops  int
	Cycles int
}

// HeartbeatData contains information for a heartbeat event.
type HeartbeatData struct {
	Timestamp time.Time
	Uptime    time.Duration
	Counts    Counts
}
