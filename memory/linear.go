package memory

// Linear is a fixed size, zero initialized byte array.
type Linear struct {
	Data []byte
}

var _ Memory = (*Linear)(nil)

// NewLinear creates a store of size bytes, clamped to the logical range.
func NewLinear(size int) (lm *Linear) {
	size = max(0, min(size, ADDRESS_LIMIT))

	lm = &Linear{
		Data: make([]byte, size),
	}

	return
}

// Size returns the number of addressable bytes.
func (lm *Linear) Size() int {
	return len(lm.Data)
}

// Reset zero fills the store.
func (lm *Linear) Reset() {
	clear(lm.Data)
}

func (lm *Linear) Read(addr uint16) (value byte, ok bool) {
	if int(addr) >= len(lm.Data) {
		return
	}

	return lm.Data[addr], true
}

func (lm *Linear) Write(addr uint16, value byte) (ok bool) {
	if int(addr) >= len(lm.Data) {
		return
	}

	lm.Data[addr] = value
	return true
}
