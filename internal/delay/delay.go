// Package delay provides blocking waits measured in 100ms units.
// Callers depend on the Sleeper interface so tests can substitute Recorder.
package delay

import (
	"sync/atomic"
	"time"
)

// Unit is the granularity of every delay in the beacon.
const Unit = 100 * time.Millisecond

// DefaultLoopsPerUnit is the busy-loop iteration count that takes one Unit on
// the TM4C123 LaunchPad at its default clock. Measured with a logic analyzer;
// it must be re-measured for any other clock or target.
const DefaultLoopsPerUnit = 1333333

// Sleeper blocks the caller for a duration.
type Sleeper interface {
	Sleep(d time.Duration)
}

// Units converts a unit count to a duration.
func Units(n uint) time.Duration {
	return time.Duration(n) * Unit
}

// Busy spins a calibrated countdown loop. It cannot be interrupted once started.
type Busy struct {
	// LoopsPerUnit overrides DefaultLoopsPerUnit when non-zero.
	LoopsPerUnit uint32
}

// Sleep blocks for d rounded down to whole units.
func (b Busy) Sleep(d time.Duration) {
	for n := d / Unit; n > 0; n-- {
		spin(b.loopsPerUnit())
	}
}

// Loops returns the number of countdown iterations Sleep(d) performs.
func (b Busy) Loops(d time.Duration) uint64 {
	return uint64(d/Unit) * uint64(b.loopsPerUnit())
}

func (b Busy) loopsPerUnit() uint32 {
	if b.LoopsPerUnit == 0 {
		return DefaultLoopsPerUnit
	}
	return b.LoopsPerUnit
}

// spinCounter is stored on every iteration so the loop cannot be optimised away.
var spinCounter uint32

func spin(i uint32) {
	for i > 0 {
		i--
		atomic.StoreUint32(&spinCounter, i)
	}
}

// Wall sleeps using the runtime timer.
type Wall struct{}

// Sleep calls time.Sleep.
func (Wall) Sleep(d time.Duration) {
	time.Sleep(d)
}

// Recorder is a test double that returns immediately and records each request.
type Recorder struct {
	Calls []time.Duration
}

// Sleep records d.
func (r *Recorder) Sleep(d time.Duration) {
	r.Calls = append(r.Calls, d)
}

// Total returns the sum of all recorded durations.
func (r *Recorder) Total() time.Duration {
	var total time.Duration
	for _, d := range r.Calls {
		total += d
	}
	return total
}

// Reset clears recorded calls.
func (r *Recorder) Reset() {
	r.Calls = nil
}
