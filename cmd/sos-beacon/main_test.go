package main

import (
	"encoding/json"
	"errors"
	"os"
	"syscall"
	"testing"
	"time"

	"github.com/sweeney/sos-beacon/internal/delay"
	"github.com/sweeney/sos-beacon/internal/gpio"
	"github.com/sweeney/sos-beacon/internal/logic"
	"github.com/sweeney/sos-beacon/internal/mqtt"
	"github.com/sweeney/sos-beacon/internal/pattern"
	"github.com/sweeney/sos-beacon/internal/status"
)

var (
	released = gpio.Sample{}
	both     = gpio.Sample{SW1: true, SW2: true}
)

// fakeClock returns a function that yields start, start+step, start+2*step, ...
// on successive calls. Not safe for concurrent use (only called from runLoop's goroutine).
func fakeClock(start time.Time, step time.Duration) func() time.Time {
	n := 0
	return func() time.Time {
		t := start.Add(time.Duration(n) * step)
		n++
		return t
	}
}

// repeat returns n copies of sample.
func repeat(sample gpio.Sample, n int) []gpio.Sample {
	out := make([]gpio.Sample, n)
	for i := range out {
		out[i] = sample
	}
	return out
}

// faultPort wraps a FakePort and fails Read for a fixed range of calls.
type faultPort struct {
	*gpio.FakePort
	call       int
	faultStart int // first call index that returns error (inclusive)
	faultEnd   int // last call index that returns error (exclusive)
}

func (p *faultPort) Read(pins gpio.Mask) (gpio.Mask, error) {
	i := p.call
	p.call++
	if i >= p.faultStart && i < p.faultEnd {
		return 0, errors.New("gpio fault")
	}
	return p.FakePort.Read(pins)
}

type harness struct {
	port      *gpio.FakePort
	sleeper   *delay.Recorder
	pub       *mqtt.FakePublisher
	sup       *logic.Supervisor
	tracker   *status.Tracker
	heartbeat time.Duration
}

func newHarness(samples []gpio.Sample) *harness {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	return &harness{
		port:    gpio.NewFakePort(samples),
		sleeper: &delay.Recorder{},
		pub:     mqtt.NewFakePublisher(),
		sup:     logic.NewSupervisor(logic.TriggerBoth, start),
		tracker: status.NewTracker(start, status.Config{Trigger: "both", Pattern: "SOS"}),
	}
}

// run drives runLoop for nTicks then delivers signal, returning runLoop's error.
func (h *harness) run(t *testing.T, port gpio.Port, nTicks int, signal os.Signal) error {
	t.Helper()
	tick := make(chan time.Time)
	sig := make(chan os.Signal, 1)
	player := pattern.NewPlayer(port, h.sleeper, gpio.Yellow, pattern.SOS)
	clock := fakeClock(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), 10*time.Millisecond)

	errCh := make(chan error, 1)
	go func() {
		errCh <- runLoop(port, player, h.sup, h.pub, h.pub, h.tracker, h.heartbeat, clock, tick, sig)
	}()

	for i := 0; i < nTicks; i++ {
		tick <- time.Time{}
	}
	sig <- signal

	return <-errCh
}

// cycles counts completed pattern cycles from the recorded delays.
func (h *harness) cycles() int {
	return len(h.sleeper.Calls) / (len(pattern.SOS.Steps) + 1)
}

func TestRunLoopReleasedNeverPlays(t *testing.T) {
	h := newHarness(repeat(released, 20))

	if err := h.run(t, h.port, 20, syscall.SIGTERM); err != nil {
		t.Fatalf("runLoop returned error: %v", err)
	}

	if len(h.sleeper.Calls) != 0 {
		t.Errorf("expected no pattern delays, got %d", len(h.sleeper.Calls))
	}
	if len(h.pub.Events) != 0 {
		t.Errorf("expected 0 beacon events, got %d", len(h.pub.Events))
	}
	if len(h.pub.SystemEvents) != 1 || h.pub.SystemEvents[0].Event != "SHUTDOWN" {
		t.Fatalf("expected a single SHUTDOWN event, got %+v", h.pub.SystemEvents)
	}
}

func TestRunLoopOnePressPlaysOneCycle(t *testing.T) {
	samples := append([]gpio.Sample{both}, repeat(released, 5)...)
	h := newHarness(samples)

	if err := h.run(t, h.port, len(samples), syscall.SIGTERM); err != nil {
		t.Fatalf("runLoop returned error: %v", err)
	}

	if got := h.cycles(); got != 1 {
		t.Fatalf("expected 1 cycle, got %d", got)
	}
	if h.sleeper.Total() != pattern.SOS.Duration() {
		t.Errorf("total delay %v, want %v", h.sleeper.Total(), pattern.SOS.Duration())
	}

	// 18 pattern writes, then shutdown clears all outputs.
	if len(h.port.Writes) != 19 {
		t.Fatalf("expected 19 writes, got %d", len(h.port.Writes))
	}
	last := h.port.Writes[18]
	if last.Set || last.Pins != gpio.Outputs {
		t.Errorf("expected final clear of outputs, got %+v", last)
	}

	if len(h.pub.Events) != 2 {
		t.Fatalf("expected START and STOP, got %d events", len(h.pub.Events))
	}
	if h.pub.Events[0].Type != logic.EventStart || h.pub.Events[1].Type != logic.EventStop {
		t.Errorf("unexpected events: %+v", h.pub.Events)
	}
	if h.pub.Events[1].Cycles != 1 {
		t.Errorf("STOP cycles: got %d, want 1", h.pub.Events[1].Cycles)
	}
}

func TestRunLoopHeldPlaysBackToBack(t *testing.T) {
	h := newHarness(repeat(both, 4))

	if err := h.run(t, h.port, 4, syscall.SIGTERM); err != nil {
		t.Fatalf("runLoop returned error: %v", err)
	}

	if got := h.cycles(); got != 4 {
		t.Errorf("expected 4 cycles, got %d", got)
	}
	if len(h.pub.Events) != 1 {
		t.Errorf("expected only SOS_START, got %+v", h.pub.Events)
	}
	if c := h.sup.CountsSnapshot(); c.Cycles != 4 {
		t.Errorf("supervisor cycles: got %d, want 4", c.Cycles)
	}
}

func TestRunLoopOneSwitchDoesNotPlay(t *testing.T) {
	samples := append(repeat(gpio.Sample{SW1: true}, 3), repeat(gpio.Sample{SW2: true}, 3)...)
	h := newHarness(samples)

	if err := h.run(t, h.port, len(samples), syscall.SIGINT); err != nil {
		t.Fatalf("runLoop returned error: %v", err)
	}
	if h.cycles() != 0 {
		t.Errorf("expected no cycles, got %d", h.cycles())
	}
}

func TestRunLoopSkipsReadErrors(t *testing.T) {
	h := newHarness([]gpio.Sample{both, released})
	port := &faultPort{FakePort: h.port, faultStart: 0, faultEnd: 3}

	if err := h.run(t, port, 5, syscall.SIGTERM); err != nil {
		t.Fatalf("runLoop returned error: %v", err)
	}

	// Three failed reads, then one cycle for the press, then release.
	if h.cycles() != 1 {
		t.Errorf("expected 1 cycle after faults, got %d", h.cycles())
	}
	if h.port.Reads != 2 {
		t.Errorf("expected 2 successful reads, got %d", h.port.Reads)
	}
}

func TestRunLoopPublishFailureDoesNotStop(t *testing.T) {
	h := newHarness([]gpio.Sample{both, released})
	h.pub.PublishError = errors.New("broker down")
	h.pub.PublishSystemError = errors.New("broker down")

	if err := h.run(t, h.port, 2, syscall.SIGTERM); err != nil {
		t.Fatalf("runLoop returned error: %v", err)
	}
	if h.cycles() != 1 {
		t.Errorf("expected 1 cycle despite publish errors, got %d", h.cycles())
	}
}

func TestRunLoopShutdownPayload(t *testing.T) {
	h := newHarness([]gpio.Sample{both, released})
	h.pub.Connected = true

	if err := h.run(t, h.port, 2, syscall.SIGINT); err != nil {
		t.Fatalf("runLoop returned error: %v", err)
	}

	if len(h.pub.SystemEvents) != 1 {
		t.Fatalf("expected 1 system event, got %d", len(h.pub.SystemEvents))
	}
	ev := h.pub.SystemEvents[0]
	if ev.Reason != "SIGINT" || !ev.Retained {
		t.Errorf("unexpected shutdown event: %+v", ev)
	}

	var sj status.StatusJSON
	if err := json.Unmarshal(ev.RawPayload, &sj); err != nil {
		t.Fatalf("unmarshal shutdown payload: %v", err)
	}
	if sj.Status.Event != "SHUTDOWN" || sj.Status.Reason != "SIGINT" {
		t.Errorf("event/reason: got %q/%q", sj.Status.Event, sj.Status.Reason)
	}
	if sj.Status.Counts.Cycles != 1 || sj.Status.State != "IDLE" {
		t.Errorf("status: got %+v", sj.Status)
	}
	if !sj.Status.MQTT.Connected {
		t.Error("expected MQTT connected in shutdown status")
	}
}

func TestRunLoopTracksStatus(t *testing.T) {
	h := newHarness(repeat(both, 2))

	if err := h.run(t, h.port, 2, syscall.SIGTERM); err != nil {
		t.Fatalf("runLoop returned error: %v", err)
	}

	snap := h.tracker.Snapshot()
	if snap.State != logic.StateActive || !snap.SW1 || !snap.SW2 {
		t.Errorf("unexpected snapshot: %+v", snap)
	}
	if snap.Playing {
		t.Error("should not be playing between cycles")
	}
	if snap.Counts.Cycles != 2 {
		t.Errorf("cycles: got %d, want 2", snap.Counts.Cycles)
	}
}

func TestRunLoopHeartbeat(t *testing.T) {
	// The clock advances 10ms per tick; a 20ms interval fires on ticks 2 and 4.
	h := newHarness(repeat(released, 5))
	h.heartbeat = 20 * time.Millisecond

	if err := h.run(t, h.port, 5, syscall.SIGTERM); err != nil {
		t.Fatalf("runLoop returned error: %v", err)
	}

	var beats int
	for _, ev := range h.pub.SystemEvents {
		if ev.Event == "HEARTBEAT" {
			beats++
			if ev.RawPayload == nil {
				t.Error("heartbeat should carry a status payload")
			}
		}
	}
	if beats != 2 {
		t.Errorf("expected 2 heartbeats, got %d", beats)
	}
}

func TestSignalName(t *testing.T) {
	tests := []struct {
		sig  os.Signal
		want string
	}{
		{syscall.SIGINT, "SIGINT"},
		{syscall.SIGTERM, "SIGTERM"},
		{syscall.SIGHUP, "UNKNOWN"},
	}
	for _, tt := range tests {
		if got := signalName(tt.sig); got != tt.want {
			t.Errorf("signalName(%v): got %q, want %q", tt.sig, got, tt.want)
		}
	}
}

func TestNopPublisher(t *testing.T) {
	var p mqtt.Publisher = nopPublisher{}
	if err := p.Publish(logic.Event{}); err != nil {
		t.Error(err)
	}
	if err := p.PublishSystem(mqtt.SystemEvent{}); err != nil {
		t.Error(err)
	}
	if err := p.Close(); err != nil {
		t.Error(err)
	}
}
