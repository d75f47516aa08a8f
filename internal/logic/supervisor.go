package logic

import "time"

// Supervisor decides, one sample at a time, whether the pattern should play.
type Supervisor struct {
	trigger       Trigger
	state         State
	counts        Counts
	startTime     time.Time
	lastHeartbeat time.Time
}

// NewSupervisor creates an idle supervisor.
// The startTime is used for calculating uptime in heartbeat events.
func NewSupervisor(trigger Trigger, startTime time.Time) *Supervisor {
	if trigger == "" {
		trigger = TriggerBoth
	}
	return &Supervisor{
		trigger:       trigger,
		state:         StateIdle,
		startTime:     startTime,
		lastHeartbeat: startTime,
	}
}

// Process takes a new input sample and returns any transition events and
// whether one pattern cycle should be played now.
func (s *Supervisor) Process(input Input) ([]Event, bool) {
	next := s.next(input)

	var events []Event
	if next != s.state {
		s.state = next
		e := Event{Timestamp: input.Time, State: next}
		if next == StateActive {
			e.Type = EventStart
			s.counts.Starts++
		} else {
			e.Type = EventStop
			s.counts.Stops++
		}
		e.Cycles = s.counts.Cycles
		events = append(events, e)
	}

	return events, s.state == StateActive
}

func (s *Supervisor) next(input Input) State {
	switch s.trigger {
	case TriggerLatch:
		if input.SW2 {
			return StateIdle
		}
		if input.SW1 {
			return StateActive
		}
		return s.state
	default:
		// Entry and exit are both gated on the two switches held together:
		// releasing either one stops the beacon after the current cycle.
		if input.SW1 && input.SW2 {
			return StateActive
		}
		return StateIdle
	}
}

// CycleDone records a completed pattern cycle.
func (s *Supervisor) CycleDone() {
	s.counts.Cycles++
}

// State returns the current state.
func (s *Supervisor) State() State {
	return s.state
}

// Trigger returns the configured trigger mode.
func (s *Supervisor) Trigger() Trigger {
	return s.trigger
}

// CountsSnapshot returns a copy of the activity counters.
func (s *Supervisor) CountsSnapshot() Counts {
	return s.counts
}

// CheckHeartbeat returns heartbeat data if the interval has elapsed since the
// last heartbeat (or startup). Returns nil if the interval has not elapsed,
// or if interval is <= 0 (disabled).
func (s *Supervisor) CheckHeartbeat(now time.Time, interval time.Duration) *HeartbeatData {
	if interval <= 0 {
		return nil
	}

	if now.Sub(s.lastHeartbeat) < interval {
		return nil
	}

	s.lastHeartbeat = now
	return &HeartbeatData{
		Timestamp: now,
		Uptime:    now.Sub(s.startTime),
		Counts:    s.counts,
	}
}
