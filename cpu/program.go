package cpu

import (
	"encoding/binary"
	"fmt"
	"io"
	"iter"
	"strings"
)

// Opcode is a line of assembled code with its source location.
type Opcode struct {
	LineNo int      // Source line, 0 for disassembled code.
	Pc     uint16   // Address of the instruction word.
	Words  []string // Source words after expansion.
	Op     Op       // Decoded instruction.
}

// Program is an ordered list of opcodes loaded from address 0.
type Program struct {
	Opcodes []Opcode
}

type Debug struct {
	*Opcode
}

// Debug returns the opcode whose instruction word covers pc.
func (prog *Program) Debug(pc uint16) (dbg Debug) {
	for n, op := range prog.Opcodes {
		if pc == op.Pc || pc == op.Pc+1 {
			dbg = Debug{
				Opcode: &prog.Opcodes[n],
			}
			break
		}
	}

	return
}

// Binary returns the little-endian binary image of the program.
func (prog *Program) Binary() (bin []byte, err error) {
	bin = make([]byte, 0, len(prog.Opcodes)*2)
	for pc, op := range prog.Ops() {
		var word uint16
		word, err = op.Encode()
		if err != nil {
			err = &ErrFault{Pc: pc, Err: err}
			bin = nil
			return
		}
		bin = binary.LittleEndian.AppendUint16(bin, word)
	}

	return
}

// Ops iterates over the instructions by address.
func (prog *Program) Ops() iter.Seq2[uint16, Op] {
	return func(yield func(pc uint16, op Op) bool) {
		for _, op := range prog.Opcodes {
			if !yield(op.Pc, op.Op) {
				return
			}
		}
	}
}

// Disassemble decodes a binary image into a Program.
func Disassemble(bin []byte) (prog *Program, err error) {
	if len(bin)%2 != 0 {
		err = ErrProgramOdd
		return
	}
	if len(bin) > 0x10000 {
		err = ErrProgramSize
		return
	}

	prog = &Program{}
	for n := 0; n < len(bin); n += 2 {
		word := binary.LittleEndian.Uint16(bin[n:])
		var op Op
		op, err = Decode(word)
		if err != nil {
			err = &ErrFault{Pc: uint16(n), Word: word, Err: err}
			prog = nil
			return
		}
		prog.Opcodes = append(prog.Opcodes, Opcode{
			Pc:    uint16(n),
			Words: strings.Fields(op.String()),
			Op:    op,
		})
	}

	return
}

// Listing writes one line per opcode: address, binary word and source.
func (prog *Program) Listing(out io.Writer) (err error) {
	for _, op := range prog.Opcodes {
		word, _ := op.Op.Encode()
		_, err = fmt.Fprintf(out, "%04x: %04x  %v\n", op.Pc, word, op.Op)
		if err != nil {
			return
		}
	}
	return
}
