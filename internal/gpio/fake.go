package gpio

import "errors"

// FakePort is a test double that returns scripted switch samples and records
// every output write.
type FakePort struct {
	// Samples contains scripted switch states to return.
	// Each call to Read() consumes the next sample.
	Samples []Sample

	// index tracks current position in Samples
	index int

	// Data is the simulated data register. Output writes modify it;
	// input bits are taken from the current sample on Read.
	Data Mask

	// Writes records Set and Clear calls in order.
	Writes []Write

	// Reads counts calls to Read.
	Reads int

	// Closed tracks if Close was called
	Closed bool

	// ReadError, if set, will be returned by Read()
	ReadError error

	// WriteError, if set, will be returned by Set() and Clear()
	WriteError error
}

// Sample represents a single switch reading (already in logical form).
type Sample struct {
	SW1 bool // true = pressed
	SW2 bool // true = pressed
}

// Write is one recorded output operation.
type Write struct {
	Set  bool // false = Clear
	Pins Mask
	Data Mask // data register after the write
}

// NewFakePort creates a FakePort with the given samples.
func NewFakePort(samples []Sample) *FakePort {
	return &FakePort{Samples: samples}
}

// Set records the write and sets pins in Data.
func (f *FakePort) Set(pins Mask) error {
	if f.WriteError != nil {
		return f.WriteError
	}
	f.Data |= pins
	f.Writes = append(f.Writes, Write{Set: true, Pins: pins, Data: f.Data})
	return nil
}

// Clear records the write and clears pins in Data.
func (f *FakePort) Clear(pins Mask) error {
	if f.WriteError != nil {
		return f.WriteError
	}
	f.Data &^= pins
	f.Writes = append(f.Writes, Write{Set: false, Pins: pins, Data: f.Data})
	return nil
}

// Read returns the next scripted sample as active-low levels merged with Data.
// If samples are exhausted, returns the last sample repeatedly.
func (f *FakePort) Read(pins Mask) (Mask, error) {
	f.Reads++
	if f.ReadError != nil {
		return 0, f.ReadError
	}

	if len(f.Samples) == 0 {
		return 0, errors.New("no samples configured")
	}

	sample := f.Samples[f.index]
	if f.index < len(f.Samples)-1 {
		f.index++
	}

	levels := f.Data &^ Inputs
	if !sample.SW1 {
		levels |= PinSW1
	}
	if !sample.SW2 {
		levels |= PinSW2
	}
	return levels & pins, nil
}

// Close marks the port as closed.
func (f *FakePort) Close() error {
	f.Closed = true
	return nil
}

// Reset rewinds the samples and clears recorded writes.
func (f *FakePort) Reset() {
	f.index = 0
	f.Reads = 0
	f.Writes = nil
	f.Closed = false
}
