//go:build tinygo

package gpio

import (
	"runtime/volatile"
	"unsafe"
)

// MMIO accesses device registers directly.
type MMIO struct{}

// Load performs a volatile 32-bit read.
func (MMIO) Load(addr uintptr) uint32 {
	return volatile.LoadUint32((*uint32)(unsafe.Pointer(addr)))
}

// Store performs a volatile 32-bit write.
func (MMIO) Store(addr uintptr, v uint32) {
	volatile.StoreUint32((*uint32)(unsafe.Pointer(addr)), v)
}
