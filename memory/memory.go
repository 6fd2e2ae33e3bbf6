// Package memory provides the byte addressable storage used by the svm machine.
//
// Storage is reached through the Memory interface, which only knows how to
// read and write single bytes within a 16-bit logical address range. Word
// access, block copies and image load/dump are built on top of those two
// operations.
package memory

const (
	ADDRESS_LIMIT = 0x10000 // Size of the 16-bit logical address range.
	DEFAULT_SIZE  = 8192    // Default backing store size.
)

// Memory is a bounds-checked byte store.
type Memory interface {
	// Read returns the byte at addr, or ok == false if addr is out of bounds.
	Read(addr uint16) (value byte, ok bool)
	// Write stores value at addr. Out of bounds writes return false and do
	// not modify the store.
	Write(addr uint16, value byte) (ok bool)
}

// ReadWord reads the little-endian word at addr and addr+1.
// A word starting at the last logical address never succeeds.
func ReadWord(m Memory, addr uint16) (value uint16, ok bool) {
	if addr == ADDRESS_LIMIT-1 {
		return
	}

	lo, ok := m.Read(addr)
	if !ok {
		return
	}

	hi, ok := m.Read(addr + 1)
	if !ok {
		return
	}

	value = uint16(lo) | (uint16(hi) << 8)
	return
}

// WriteWord writes value little-endian to addr and addr+1.
// The low byte is written first; a failing high byte leaves it in place.
func WriteWord(m Memory, addr uint16, value uint16) (ok bool) {
	if addr == ADDRESS_LIMIT-1 {
		return
	}

	ok = m.Write(addr, byte(value&0xff)) && m.Write(addr+1, byte(value>>8))
	return
}

// Copy moves length bytes from 'from' to 'to', lowest address first.
// It stops at the first failing read or write; already copied bytes stay.
func Copy(m Memory, from, to, length uint16) (ok bool) {
	for n := range int(length) {
		src := int(from) + n
		dst := int(to) + n
		if src >= ADDRESS_LIMIT || dst >= ADDRESS_LIMIT {
			return false
		}

		value, ok := m.Read(uint16(src))
		if !ok {
			return false
		}

		if !m.Write(uint16(dst), value) {
			return false
		}
	}

	return true
}

// Load writes data starting at addr, returning how many bytes were stored.
func Load(m Memory, addr uint16, data []byte) (n int, ok bool) {
	for n = range data {
		dst := int(addr) + n
		if dst >= ADDRESS_LIMIT || !m.Write(uint16(dst), data[n]) {
			return
		}
	}

	n = len(data)
	ok = true
	return
}

// Dump returns the contents of m from address 0 up to the first address that
// cannot be read.
func Dump(m Memory) (data []byte) {
	for addr := range ADDRESS_LIMIT {
		value, ok := m.Read(uint16(addr))
		if !ok {
			break
		}
		data = append(data, value)
	}

	return
}
