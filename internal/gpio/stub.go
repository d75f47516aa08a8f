//go:build !linux || tinygo

package gpio

import "errors"

// LineMap assigns a GPIO chip line offset to each pin role.
type LineMap struct {
	SW1, SW2, Red, Blue, Green int
}

// DefaultLineMap is the wiring used when no flags override it.
var DefaultLineMap = LineMap{SW1: 17, SW2: 27, Red: 22, Blue: 23, Green: 24}

// LinePort is not available on non-Linux platforms.
type LinePort struct{}

// NewLinePort returns an error on non-Linux platforms.
func NewLinePort(chipName string, m LineMap) (*LinePort, error) {
	return nil, errors.New("gpio: line port not supported on this platform (requires Linux)")
}

// Set is not implemented on non-Linux platforms.
func (p *LinePort) Set(pins Mask) error {
	return errors.New("gpio: not supported")
}

// Clear is not implemented on non-Linux platforms.
func (p *LinePort) Clear(pins Mask) error {
	return errors.New("gpio: not supported")
}

// Read is not implemented on non-Linux platforms.
func (p *LinePort) Read(pins Mask) (Mask, error) {
	return 0, errors.New("gpio: not supported")
}

// Close is not implemented on non-Linux platforms.
func (p *LinePort) Close() error {
	return nil
}
