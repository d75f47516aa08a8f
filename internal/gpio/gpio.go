// Package gpio provides the beacon's pin capability and its backends.
// RegisterPort drives TM4C123 port registers (real MMIO under TinyGo, simulated
// Memory elsewhere). LinePort uses the Linux GPIO character device.
// FakePort allows testing without hardware.
package gpio

// Mask selects pins on a port by bit position.
type Mask uint32

// Pin roles (Port F bit positions on the LaunchPad).
const (
	PinSW2   Mask = 0x01 // PF0, switch 2, active low
	PinRed   Mask = 0x02 // PF1
	PinBlue  Mask = 0x04 // PF2
	PinGreen Mask = 0x08 // PF3
	PinSW1   Mask = 0x10 // PF4, switch 1, active low

	Inputs  = PinSW1 | PinSW2
	Outputs = PinRed | PinBlue | PinGreen
	All     = Inputs | Outputs

	// Yellow is red and green together, the colour the pattern flashes.
	Yellow = PinRed | PinGreen
)

// Port sets, clears and reads pins on a single GPIO port.
type Port interface {
	// Set drives the given output pins high, leaving other pins untouched.
	Set(pins Mask) error

	// Clear drives the given output pins low, leaving other pins untouched.
	Clear(pins Mask) error

	// Read returns the raw levels of the given pins; a set bit is high.
	// The switches have pull-ups, so a pressed switch reads as a clear bit.
	Read(pins Mask) (Mask, error)

	// Close releases port resources.
	Close() error
}

// Pressed converts raw input levels into pressed states for SW1 and SW2.
func Pressed(levels Mask) (sw1, sw2 bool) {
	return levels&PinSW1 == 0, levels&PinSW2 == 0
}
