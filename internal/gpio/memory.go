package gpio

// Access is one recorded register store.
type Access struct {
	Addr  uintptr
	Value uint32
}

// Memory is a simulated register file. Unwritten registers read as zero.
type Memory struct {
	regs   map[uintptr]uint32
	Stores []Access
}

// NewMemory creates an empty simulated register file.
func NewMemory() *Memory {
	return &Memory{regs: make(map[uintptr]uint32)}
}

// Load returns the register value.
func (m *Memory) Load(addr uintptr) uint32 {
	return m.regs[addr]
}

// Store sets the register value and records the access.
func (m *Memory) Store(addr uintptr, v uint32) {
	m.regs[addr] = v
	m.Stores = append(m.Stores, Access{Addr: addr, Value: v})
}

// Poke sets a register without recording it, as hardware would (e.g. a switch level).
func (m *Memory) Poke(addr uintptr, v uint32) {
	m.regs[addr] = v
}
