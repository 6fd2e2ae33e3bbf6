// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"fmt"
	"log"
	"slices"

	"github.com/stackvm/svm/memory"
)

// Handler services a Signal instruction.
type Handler interface {
	Signal(m *Machine) error
}

// HandlerFunc adapts a function to a Handler.
type HandlerFunc func(m *Machine) error

func (fn HandlerFunc) Signal(m *Machine) error {
	return fn(m)
}

// Machine is the execution state of the svm processor.
type Machine struct {
	Verbose bool // Set to enable verbose logging.

	Register [REGISTER_COUNT]uint16 // Register file.
	Halt     bool                   // Set by a handler to stop the driving loop.
	Memory   memory.Memory          // Program, data and stack storage.

	Ticks int // Completed instruction counter.

	handler map[uint8]Handler // Signal handlers.
}

// NewMachine creates a machine using mem as its storage. A nil mem gets a
// zeroed memory.Linear of the default size.
func NewMachine(mem memory.Memory) (m *Machine) {
	if mem == nil {
		mem = memory.NewLinear(memory.DEFAULT_SIZE)
	}

	m = &Machine{
		Memory:  mem,
		handler: make(map[uint8]Handler),
	}

	return
}

// Reset clears the registers, halt flag and tick counter.
// Memory and signal handlers are kept.
func (m *Machine) Reset() {
	if m.Verbose {
		log.Printf("cpu: reset")
	}

	clear(m.Register[:])
	m.Halt = false
	m.Ticks = 0
}

// DefineHandler registers, or replaces, the handler for a signal code.
// A nil handler removes the registration.
func (m *Machine) DefineHandler(code uint8, handler Handler) {
	if m.handler == nil {
		m.handler = make(map[uint8]Handler)
	}

	if handler == nil {
		delete(m.handler, code)
		return
	}

	m.handler[code] = handler
}

// Handled returns the sorted list of signal codes with handlers.
func (m *Machine) Handled() (codes []uint8) {
	for code := range m.handler {
		codes = append(codes, code)
	}
	slices.Sort(codes)
	return
}

// GetRegister returns the value of a register.
func (m *Machine) GetRegister(reg Register) uint16 {
	if !reg.Valid() {
		return 0
	}
	return m.Register[reg]
}

// SetRegister sets the value of a register.
func (m *Machine) SetRegister(reg Register, value uint16) {
	if !reg.Valid() {
		return
	}
	m.Register[reg] = value
}

// Load copies data into memory starting at addr.
func (m *Machine) Load(addr uint16, data []byte) (err error) {
	n, ok := memory.Load(m.Memory, addr, data)
	if !ok {
		err = ErrMemoryFault(int(addr) + n)
	}
	return
}

// Push writes value at SP and advances SP by one word.
func (m *Machine) Push(value uint16) (err error) {
	sp := m.Register[REG_SP]
	if !memory.WriteWord(m.Memory, sp, value) {
		err = ErrMemoryFault(sp)
		return
	}

	m.Register[REG_SP] = sp + 2
	return
}

// Pop reads the word below SP and moves SP down by one word.
func (m *Machine) Pop() (value uint16, err error) {
	sp := m.Register[REG_SP]
	if sp < 2 {
		err = ErrStackUnderflow
		return
	}

	value, ok := memory.ReadWord(m.Memory, sp-2)
	if !ok {
		err = ErrMemoryFault(sp - 2)
		return
	}

	m.Register[REG_SP] = sp - 2
	return
}

// Step fetches, decodes and executes the instruction at PC.
//
// PC is advanced past the instruction before it executes. Any failure is
// returned as an *ErrFault naming the address of the instruction.
func (m *Machine) Step() (err error) {
	pc := m.Register[REG_PC]

	var word uint16
	defer func() {
		if err != nil {
			err = &ErrFault{Pc: pc, Word: word, Err: err}
		}
	}()

	if m.Halt {
		err = ErrHalted
		return
	}

	word, ok := memory.ReadWord(m.Memory, pc)
	if !ok {
		err = ErrMemoryFault(pc)
		return
	}

	m.Register[REG_PC] = pc + 2

	op, err := Decode(word)
	if err != nil {
		return
	}

	if m.Verbose {
		log.Printf("%04x: %v", pc, op)
	}

	err = m.Execute(op)
	if err != nil {
		return
	}

	m.Ticks++

	return
}

// Execute performs a single decoded instruction.
func (m *Machine) Execute(op Op) (err error) {
	switch op.Code {
	case OP_NOP:
		// pass
	case OP_PUSH:
		err = m.Push(op.Value)
	case OP_POP_REGISTER:
		reg := op.Reg[0]
		if !reg.Valid() {
			err = ErrRegisterInvalid
			return
		}
		var value uint16
		value, err = m.Pop()
		if err != nil {
			return
		}
		m.Register[reg] = value
	case OP_ADD_STACK:
		var a, b uint16
		a, err = m.Pop()
		if err != nil {
			return
		}
		b, err = m.Pop()
		if err != nil {
			return
		}
		err = m.Push(a + b)
	case OP_ADD_REGISTER:
		dst, src := op.Reg[0], op.Reg[1]
		if !dst.Valid() || !src.Valid() {
			err = ErrRegisterInvalid
			return
		}
		m.Register[dst] += m.Register[src]
	case OP_SIGNAL:
		code := op.Signal()
		handler, ok := m.handler[code]
		if !ok {
			err = ErrSignal(code)
			return
		}
		err = handler.Signal(m)
	default:
		err = ErrOpcodeInvalid
	}

	return
}

// String returns the current machine state as a string.
func (m *Machine) String() (text string) {
	for reg := range Register(REGISTER_COUNT) {
		text += fmt.Sprintf("% 5s: %04X\n", reg.String(), m.Register[reg])
	}

	top, ok := memory.ReadWord(m.Memory, m.Register[REG_SP]-2)
	if m.Register[REG_SP] >= 2 && ok {
		text += fmt.Sprintf("% 5s: %04X\n", "top", top)
	} else {
		text += fmt.Sprintf("% 5s: ----\n", "top")
	}

	return
}
