package gpio

import "fmt"

// RegisterFile loads and stores 32-bit memory-mapped registers.
type RegisterFile interface {
	Load(addr uintptr) uint32
	Store(addr uintptr, v uint32)
}

// UnlockKey is written to the LOCK register to allow changes to the commit register.
const UnlockKey = 0x4C4F434B

// Register offsets from a GPIO port base on the TM4C123.
const (
	offData  = 0x3FC
	offDir   = 0x400
	offAFSel = 0x420
	offPUR   = 0x510
	offDEN   = 0x51C
	offLock  = 0x520
	offCR    = 0x524
	offAMSel = 0x528
	offPCtl  = 0x52C
)

// Layout is the register address map of one GPIO port.
type Layout struct {
	Name  string
	Base  uintptr
	Data  uintptr
	Dir   uintptr
	AFSel uintptr
	PUR   uintptr
	DEN   uintptr
	Lock  uintptr
	CR    uintptr
	AMSel uintptr
	PCtl  uintptr

	// ClockGate is the run-mode clock gating register; ClockBit enables this port.
	ClockGate uintptr
	ClockBit  uint32
}

// PortF is GPIO port F on the TM4C123 (APB aperture).
var PortF = Layout{
	Name:      "F",
	Base:      0x40025000,
	Data:      0x400253FC,
	Dir:       0x40025400,
	AFSel:     0x40025420,
	PUR:       0x40025510,
	DEN:       0x4002551C,
	Lock:      0x40025520,
	CR:        0x40025524,
	AMSel:     0x40025528,
	PCtl:      0x4002552C,
	ClockGate: 0x400FE108,
	ClockBit:  0x20,
}

// Validate checks that every register sits at its documented offset from Base.
func (l Layout) Validate() error {
	regs := []struct {
		name string
		addr uintptr
		off  uintptr
	}{
		{"DATA", l.Data, offData},
		{"DIR", l.Dir, offDir},
		{"AFSEL", l.AFSel, offAFSel},
		{"PUR", l.PUR, offPUR},
		{"DEN", l.DEN, offDEN},
		{"LOCK", l.Lock, offLock},
		{"CR", l.CR, offCR},
		{"AMSEL", l.AMSel, offAMSel},
		{"PCTL", l.PCtl, offPCtl},
	}
	for _, r := range regs {
		if r.addr != l.Base+r.off {
			return fmt.Errorf("port %s: %s at %#x, want %#x", l.Name, r.name, r.addr, l.Base+r.off)
		}
	}
	if l.ClockGate == 0 || l.ClockBit == 0 {
		return fmt.Errorf("port %s: clock gate not set", l.Name)
	}
	return nil
}

// RegisterPort drives a port through its data register.
// Obtain one with InitRegisterPort; the data register is never touched before init.
type RegisterPort struct {
	rf     RegisterFile
	layout Layout
}

// InitRegisterPort configures the beacon pins on the port and returns it ready for use.
// Inputs get pull-ups, outputs are plain digital GPIO with no alternate function.
func InitRegisterPort(rf RegisterFile, l Layout) (*RegisterPort, error) {
	if err := l.Validate(); err != nil {
		return nil, fmt.Errorf("validate layout: %w", err)
	}

	modify(rf, l.ClockGate, 0, l.ClockBit)
	// Read back so the clock is running before the port registers are touched.
	_ = rf.Load(l.ClockGate)

	rf.Store(l.Lock, UnlockKey)
	modify(rf, l.CR, 0, uint32(All))
	rf.Store(l.AMSel, 0)
	rf.Store(l.PCtl, 0)
	modify(rf, l.Dir, uint32(Inputs), 0)
	modify(rf, l.Dir, 0, uint32(Outputs))
	rf.Store(l.AFSel, 0)
	modify(rf, l.PUR, 0, uint32(Inputs))
	modify(rf, l.DEN, 0, uint32(All))

	return &RegisterPort{rf: rf, layout: l}, nil
}

func modify(rf RegisterFile, addr uintptr, clear, set uint32) {
	rf.Store(addr, rf.Load(addr)&^clear|set)
}

// Set drives pins high with a read-modify-write of DATA.
func (p *RegisterPort) Set(pins Mask) error {
	modify(p.rf, p.layout.Data, 0, uint32(pins))
	return nil
}

// Clear drives pins low with a read-modify-write of DATA.
func (p *RegisterPort) Clear(pins Mask) error {
	modify(p.rf, p.layout.Data, uint32(pins), 0)
	return nil
}

// Read returns DATA masked to pins.
func (p *RegisterPort) Read(pins Mask) (Mask, error) {
	return Mask(p.rf.Load(p.layout.Data)) & pins, nil
}

// Close is a no-op; registers live as long as the device.
func (p *RegisterPort) Close() error {
	return nil
}
