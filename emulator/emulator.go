// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package emulator drives an svm machine: it loads a program, installs the
// standard host signal handlers and steps the machine until it halts.
package emulator

import (
	"context"
	"fmt"
	stdio "io"
	"iter"
	"log"
	"maps"
	"strconv"

	"github.com/stackvm/svm/cpu"
	"github.com/stackvm/svm/internal"
	"github.com/stackvm/svm/io"
	"github.com/stackvm/svm/memory"
)

// Standard signal codes.
const (
	SIGNAL_HALT  = 0xf0 // Stop the machine.
	SIGNAL_PUTC  = 0xf1 // Pop a word, write its low byte to the tape.
	SIGNAL_GETC  = 0xf2 // Push the next tape byte, or EOF.
	SIGNAL_TICKS = 0xf3 // Push the low 16 bits of the tick counter.
)

// EOF is pushed by SIGNAL_GETC at the end of the tape input.
const EOF = 0xffff

var _emulator_defines = map[string]string{
	"SIGNAL_HALT":  strconv.Itoa(SIGNAL_HALT),
	"SIGNAL_PUTC":  strconv.Itoa(SIGNAL_PUTC),
	"SIGNAL_GETC":  strconv.Itoa(SIGNAL_GETC),
	"SIGNAL_TICKS": strconv.Itoa(SIGNAL_TICKS),
}

// Emulator state. Machine + program image + tape.
type Emulator struct {
	Verbose      bool         // If set, enables verbose logging.
	*cpu.Machine              // Reference to the machine.
	Program      *cpu.Program // Listing of the loaded program, if known.
	Image        []byte       // Binary image loaded at address 0 on Reset.

	MemorySize  int  // Size of the backing store.
	ProtectText bool // If set, the program image is read-only.
	MaxTicks    int  // Tick budget per Reset, 0 for unlimited.

	Tape io.Tape // Tape used by SIGNAL_PUTC and SIGNAL_GETC.

	equate map[string]string // User predefines for Assemble.
}

// NewEmulator creates a new emulator with size bytes of memory.
func NewEmulator(size int) (emu *Emulator) {
	size = max(0, min(size, memory.ADDRESS_LIMIT))

	emu = &Emulator{
		Machine:    cpu.NewMachine(memory.NewLinear(size)),
		Program:    &cpu.Program{},
		MemorySize: size,
	}

	emu.Machine.DefineHandler(SIGNAL_HALT, cpu.HandlerFunc(emu.signalHalt))
	emu.Machine.DefineHandler(SIGNAL_PUTC, cpu.HandlerFunc(emu.signalPutc))
	emu.Machine.DefineHandler(SIGNAL_GETC, cpu.HandlerFunc(emu.signalGetc))
	emu.Machine.DefineHandler(SIGNAL_TICKS, cpu.HandlerFunc(emu.signalTicks))

	return
}

func (emu *Emulator) signalHalt(m *cpu.Machine) (err error) {
	if emu.Verbose {
		log.Printf("emulator: halt after %v ticks", m.Ticks)
	}
	m.Halt = true
	return
}

func (emu *Emulator) signalPutc(m *cpu.Machine) (err error) {
	value, err := m.Pop()
	if err != nil {
		return
	}
	err = emu.Tape.Send(byte(value))
	return
}

func (emu *Emulator) signalGetc(m *cpu.Machine) (err error) {
	value := uint16(EOF)
	in, ok := emu.Tape.Next()
	if ok {
		value = uint16(in)
	}
	err = m.Push(value)
	return
}

func (emu *Emulator) signalTicks(m *cpu.Machine) (err error) {
	err = m.Push(uint16(m.Ticks))
	return
}

// Defines returns an iterator over all of the assembler defines.
func (emu *Emulator) Defines() iter.Seq2[string, string] {
	size := map[string]string{
		"MEMORY_SIZE": strconv.Itoa(emu.MemorySize),
	}
	return internal.IterSeq2Concat(maps.All(_emulator_defines),
		maps.All(size),
		cpu.Defines(),
		maps.All(emu.equate),
	)
}

// Predefine adds an assembler define, overriding any standard define of the
// same name.
func (emu *Emulator) Predefine(key string, value string) {
	if emu.equate == nil {
		emu.equate = map[string]string{}
	}
	emu.equate[key] = value
}

// Assemble parses source text into the program image.
func (emu *Emulator) Assemble(input stdio.Reader) (err error) {
	asm := &cpu.Assembler{Verbose: emu.Verbose}
	for key, value := range emu.Defines() {
		asm.Predefine(key, value)
	}

	prog, err := asm.Parse(input)
	if err != nil {
		return
	}

	image, err := prog.Binary()
	if err != nil {
		return
	}

	emu.Program = prog
	emu.Image = image

	return
}

// LoadBinary sets a raw binary image. The listing is recovered when the image
// decodes cleanly; images carrying data words run without one.
func (emu *Emulator) LoadBinary(image []byte) (err error) {
	if len(image) > emu.MemorySize {
		err = cpu.ErrMemoryFault(min(emu.MemorySize, memory.ADDRESS_LIMIT-1))
		return
	}

	emu.Image = image
	emu.Program, err = cpu.Disassemble(image)
	if err != nil {
		if emu.Verbose {
			log.Printf("emulator: no listing: %v", err)
		}
		emu.Program = &cpu.Program{}
		err = nil
	}

	return
}

// protect wraps lm so that the program image is read-only, if requested.
func (emu *Emulator) protect(lm *memory.Linear) (mem memory.Memory) {
	mem = lm
	if emu.ProtectText && len(emu.Image) > 0 {
		mem = &memory.Protected{
			Memory:   lm,
			ReadOnly: []memory.Region{{Start: 0, Length: uint16(len(emu.Image))}},
		}
	}
	return
}

// Reset the machine state and reload the image.
//
// The stack starts on the first word past the program image, with BP set
// to the same address. An image must leave room for the stack.
func (emu *Emulator) Reset() (err error) {
	stack := (len(emu.Image) + 1) &^ 1
	if stack >= memory.ADDRESS_LIMIT {
		err = cpu.ErrProgramSize
		return
	}

	lm := memory.NewLinear(emu.MemorySize)
	n, ok := memory.Load(lm, 0, emu.Image)
	if !ok {
		err = cpu.ErrMemoryFault(n)
		return
	}

	emu.Machine.Verbose = emu.Verbose
	emu.Machine.Memory = emu.protect(lm)
	emu.Machine.Reset()
	emu.Tape.Rewind()

	emu.Machine.SetRegister(cpu.REG_SP, uint16(stack))
	emu.Machine.SetRegister(cpu.REG_BP, uint16(stack))

	if emu.Verbose {
		log.Printf("emulator: reset, %v byte image, stack at 0x%04x", len(emu.Image), stack)
	}

	return
}

// Pc returns the current program counter.
func (emu *Emulator) Pc() uint16 {
	return emu.Machine.GetRegister(cpu.REG_PC)
}

// LineNo returns the source line of the instruction at PC, or 0 if unknown.
func (emu *Emulator) LineNo() int {
	if emu.Program == nil {
		return 0
	}

	dbg := emu.Program.Debug(emu.Pc())
	if dbg.Opcode == nil {
		return 0
	}

	return dbg.LineNo
}

// Tick performs a single step of the machine. done is set once the machine
// has halted.
func (emu *Emulator) Tick() (done bool, err error) {
	if emu.Machine.Halt {
		done = true
		return
	}

	pc := emu.Pc()
	lineno := emu.LineNo()
	defer func() {
		if err != nil {
			err = &ErrRuntime{Pc: pc, LineNo: lineno, Err: err}
		}
	}()

	if emu.MaxTicks > 0 && emu.Machine.Ticks >= emu.MaxTicks {
		err = ErrTickLimit
		return
	}

	err = emu.Machine.Step()
	if err != nil {
		return
	}

	done = emu.Machine.Halt

	return
}

// Run ticks the machine until it halts, faults, or ctx is done.
func (emu *Emulator) Run(ctx context.Context) (err error) {
	for {
		if err = ctx.Err(); err != nil {
			err = &ErrRuntime{Pc: emu.Pc(), LineNo: emu.LineNo(), Err: err}
			return
		}

		var done bool
		done, err = emu.Tick()
		if err != nil || done {
			return
		}
	}
}

// Report writes the A, B and C registers, as the command line tools print
// them at exit.
func (emu *Emulator) Report(out stdio.Writer) (err error) {
	for _, reg := range []cpu.Register{cpu.REG_A, cpu.REG_B, cpu.REG_C} {
		_, err = fmt.Fprintf(out, "%v = %v\n", reg, emu.Machine.GetRegister(reg))
		if err != nil {
			return
		}
	}
	return
}
