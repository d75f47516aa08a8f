package gpio

import (
	"errors"
	"testing"
)

func TestFakePortRead(t *testing.T) {
	samples := []Sample{
		{SW1: true, SW2: false},
		{SW1: false, SW2: true},
		{SW1: true, SW2: true},
	}

	f := NewFakePort(samples)

	want := []Mask{PinSW2, PinSW1, 0}
	for i, w := range want {
		got, err := f.Read(Inputs)
		if err != nil {
			t.Fatalf("sample %d: unexpected error: %v", i, err)
		}
		if got != w {
			t.Errorf("sample %d: expected levels %#x, got %#x", i, w, got)
		}
	}

	// Fourth read should repeat last sample
	got, err := f.Read(Inputs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 0 {
		t.Errorf("sample 3 (repeat): expected 0, got %#x", got)
	}
	if f.Reads != 4 {
		t.Errorf("expected 4 reads, got %d", f.Reads)
	}
}

func TestFakePortReadMergesOutputs(t *testing.T) {
	f := NewFakePort([]Sample{{}})
	f.Set(Yellow)

	got, _ := f.Read(All)
	if got != Yellow|Inputs {
		t.Errorf("expected %#x, got %#x", Yellow|Inputs, got)
	}
}

func TestFakePortNoSamples(t *testing.T) {
	f := NewFakePort(nil)

	_, err := f.Read(Inputs)
	if err == nil {
		t.Error("expected error with no samples")
	}
}

func TestFakePortErrors(t *testing.T) {
	f := NewFakePort([]Sample{{SW1: true, SW2: true}})
	f.ReadError = errors.New("simulated error")
	f.WriteError = errors.New("write failed")

	if _, err := f.Read(Inputs); err == nil || err.Error() != "simulated error" {
		t.Errorf("unexpected read error: %v", err)
	}
	if err := f.Set(PinRed); err == nil {
		t.Error("expected set error")
	}
	if err := f.Clear(PinRed); err == nil {
		t.Error("expected clear error")
	}
	if len(f.Writes) != 0 {
		t.Errorf("failed writes should not be recorded, got %d", len(f.Writes))
	}
}

func TestFakePortWrites(t *testing.T) {
	f := NewFakePort(nil)
	f.Data = 0x80

	f.Set(Yellow)
	f.Clear(PinRed)

	if len(f.Writes) != 2 {
		t.Fatalf("expected 2 writes, got %d", len(f.Writes))
	}
	if !f.Writes[0].Set || f.Writes[0].Pins != Yellow || f.Writes[0].Data != 0x8A {
		t.Errorf("write 0: got %+v", f.Writes[0])
	}
	if f.Writes[1].Set || f.Writes[1].Pins != PinRed || f.Writes[1].Data != 0x88 {
		t.Errorf("write 1: got %+v", f.Writes[1])
	}
}

func TestFakePortCloseAndReset(t *testing.T) {
	f := NewFakePort([]Sample{{SW1: true}, {SW2: true}})
	f.Read(Inputs)
	f.Set(PinBlue)

	if err := f.Close(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if !f.Closed {
		t.Error("should be closed after Close()")
	}

	f.Reset()
	if f.Closed || f.Reads != 0 || len(f.Writes) != 0 {
		t.Errorf("reset did not clear state: %+v", f)
	}
	got, _ := f.Read(Inputs)
	if got != PinSW2 {
		t.Errorf("after reset: expected first sample %#x, got %#x", PinSW2, got)
	}
}

func TestPressed(t *testing.T) {
	tests := []struct {
		levels   Mask
		sw1, sw2 bool
	}{
		{Inputs, false, false},
		{0, true, true},
		{PinSW1, false, true},
		{PinSW2, true, false},
		{Outputs, true, true},
	}
	for _, tt := range tests {
		sw1, sw2 := Pressed(tt.levels)
		if sw1 != tt.sw1 || sw2 != tt.sw2 {
			t.Errorf("Pressed(%#x): got (%v, %v), want (%v, %v)", tt.levels, sw1, sw2, tt.sw1, tt.sw2)
		}
	}
}

func TestPinRoles(t *testing.T) {
	if Inputs != 0x11 {
		t.Errorf("Inputs: got %#x, want 0x11", Inputs)
	}
	if Outputs != 0x0E {
		t.Errorf("Outputs: got %#x, want 0x0E", Outputs)
	}
	if Yellow != 0x0A {
		t.Errorf("Yellow: got %#x, want 0x0A", Yellow)
	}
	if Inputs&Outputs != 0 {
		t.Error("input and output roles overlap")
	}
}
