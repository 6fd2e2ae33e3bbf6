package emulator

import (
	"errors"
	"fmt"

	"github.com/fxamacker/cbor/v2"

	"github.com/stackvm/svm/cpu"
	"github.com/stackvm/svm/memory"
)

var cborEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("emulator: failed to create CBOR enc mode: %v", err))
	}
	cborEncMode = em
}

// Snapshot is the complete machine state at a tick boundary.
type Snapshot struct {
	Register [cpu.REGISTER_COUNT]uint16 `cbor:"register"`
	Halt     bool                       `cbor:"halt"`
	Ticks    int                        `cbor:"ticks"`
	Memory   []byte                     `cbor:"memory"`
}

// Snapshot captures the machine state.
func (emu *Emulator) Snapshot() (snap *Snapshot) {
	m := emu.Machine
	snap = &Snapshot{
		Register: m.Register,
		Halt:     m.Halt,
		Ticks:    m.Ticks,
		Memory:   memory.Dump(m.Memory),
	}
	return
}

// Restore replaces the machine state with snap. Signal handlers, the image
// and the tape are unchanged.
func (emu *Emulator) Restore(snap *Snapshot) (err error) {
	if len(snap.Memory) > emu.MemorySize {
		err = ErrSnapshotSize
		return
	}

	lm := memory.NewLinear(emu.MemorySize)
	copy(lm.Data, snap.Memory)

	m := emu.Machine
	m.Memory = emu.protect(lm)
	m.Register = snap.Register
	m.Halt = snap.Halt
	m.Ticks = snap.Ticks

	return
}

// MarshalSnapshot serializes the machine state to CBOR bytes.
func (emu *Emulator) MarshalSnapshot() ([]byte, error) {
	return cborEncMode.Marshal(emu.Snapshot())
}

// UnmarshalSnapshot restores the machine state from CBOR bytes.
func (emu *Emulator) UnmarshalSnapshot(data []byte) (err error) {
	var snap Snapshot
	if err = cbor.Unmarshal(data, &snap); err != nil {
		err = errors.Join(ErrSnapshotInvalid, err)
		return
	}

	err = emu.Restore(&snap)
	return
}
