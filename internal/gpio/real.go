//go:build linux && !tinygo

package gpio

import (
	"fmt"

	"github.com/warthog618/go-gpiocdev"
)

// Default line offsets (BCM numbering) for the host wiring.
const (
	DefaultLineSW1   = 17
	DefaultLineSW2   = 27
	DefaultLineRed   = 22
	DefaultLineBlue  = 23
	DefaultLineGreen = 24
)

// LineMap assigns a GPIO chip line offset to each pin role.
type LineMap struct {
	SW1, SW2, Red, Blue, Green int
}

// DefaultLineMap is the wiring used when no flags override it.
var DefaultLineMap = LineMap{
	SW1:   DefaultLineSW1,
	SW2:   DefaultLineSW2,
	Red:   DefaultLineRed,
	Blue:  DefaultLineBlue,
	Green: DefaultLineGreen,
}

type line struct {
	pin  Mask
	name string
	l    *gpiocdev.Line
}

// LinePort drives the beacon pins through the Linux GPIO character device.
type LinePort struct {
	chip    *gpiocdev.Chip
	inputs  []line
	outputs []line
}

// NewLinePort requests the switch lines as inputs with pull-up and the LED
// lines as outputs driven low.
func NewLinePort(chipName string, m LineMap) (*LinePort, error) {
	chip, err := gpiocdev.NewChip(chipName)
	if err != nil {
		return nil, fmt.Errorf("open gpio chip: %w", err)
	}
	p := &LinePort{chip: chip}

	for _, in := range []struct {
		pin    Mask
		name   string
		offset int
	}{
		{PinSW1, "SW1", m.SW1},
		{PinSW2, "SW2", m.SW2},
	} {
		l, err := chip.RequestLine(in.offset, gpiocdev.AsInput, gpiocdev.WithPullUp)
		if err != nil {
			p.Close()
			return nil, fmt.Errorf("request %s pin %d: %w", in.name, in.offset, err)
		}
		p.inputs = append(p.inputs, line{pin: in.pin, name: in.name, l: l})
	}

	for _, out := range []struct {
		pin    Mask
		name   string
		offset int
	}{
		{PinRed, "red", m.Red},
		{PinBlue, "blue", m.Blue},
		{PinGreen, "green", m.Green},
	} {
		l, err := chip.RequestLine(out.offset, gpiocdev.AsOutput(0))
		if err != nil {
			p.Close()
			return nil, fmt.Errorf("request %s pin %d: %w", out.name, out.offset, err)
		}
		p.outputs = append(p.outputs, line{pin: out.pin, name: out.name, l: l})
	}

	return p, nil
}

// Set drives the selected output lines high.
func (p *LinePort) Set(pins Mask) error {
	return p.write(pins, 1)
}

// Clear drives the selected output lines low.
func (p *LinePort) Clear(pins Mask) error {
	return p.write(pins, 0)
}

func (p *LinePort) write(pins Mask, v int) error {
	for _, o := range p.outputs {
		if pins&o.pin == 0 {
			continue
		}
		if err := o.l.SetValue(v); err != nil {
			return fmt.Errorf("write %s pin: %w", o.name, err)
		}
	}
	return nil
}

// Read returns the raw levels of the selected input lines.
func (p *LinePort) Read(pins Mask) (Mask, error) {
	var levels Mask
	for _, in := range p.inputs {
		if pins&in.pin == 0 {
			continue
		}
		v, err := in.l.Value()
		if err != nil {
			return 0, fmt.Errorf("read %s pin: %w", in.name, err)
		}
		if v != 0 {
			levels |= in.pin
		}
	}
	return levels, nil
}

// Close releases GPIO resources.
// Outputs are driven low and every line is returned to a plain input before
// closing so the LEDs are dark after shutdown.
func (p *LinePort) Close() error {
	var errs []error

	for _, o := range p.outputs {
		if err := o.l.SetValue(0); err != nil {
			errs = append(errs, fmt.Errorf("clear %s pin: %w", o.name, err))
		}
	}
	for _, l := range append(p.inputs, p.outputs...) {
		if err := l.l.Reconfigure(gpiocdev.AsInput); err != nil {
			errs = append(errs, fmt.Errorf("reconfigure %s pin: %w", l.name, err))
		}
		if err := l.l.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close %s pin: %w", l.name, err))
		}
	}
	p.inputs, p.outputs = nil, nil

	if p.chip != nil {
		if err := p.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
		p.chip = nil
	}

	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}
