package cpu

import (
	"errors"
	"fmt"
)

// CodeOp is the 8-bit operation selector in the low byte of an instruction.
type CodeOp int

//go:generate go tool stringer -linecomment -type=CodeOp
const (
	OP_NOP          = CodeOp(0) // Nop
	OP_PUSH         = CodeOp(1) // Push
	OP_POP_REGISTER = CodeOp(2) // PopRegister
	OP_ADD_STACK    = CodeOp(3) // AddStack
	OP_ADD_REGISTER = CodeOp(4) // AddRegister
	OP_SIGNAL       = CodeOp(5) // Signal
)

// OP_COUNT is the number of defined operations.
const OP_COUNT = 6

// Valid returns true if the operation is defined.
func (code CodeOp) Valid() bool {
	return code >= 0 && code < OP_COUNT
}

// Arity returns the number of assembler arguments the operation takes.
func (code CodeOp) Arity() int {
	switch code {
	case OP_PUSH, OP_POP_REGISTER, OP_SIGNAL:
		return 1
	case OP_ADD_REGISTER:
		return 2
	}
	return 0
}

// Op is a decoded instruction.
//
// Value holds the Push immediate or the Signal code. PopRegister uses Reg[0],
// AddRegister uses Reg[0] as the destination and Reg[1] as the source.
type Op struct {
	Code  CodeOp
	Value uint16
	Reg   [2]Register
}

// MakeNop creates a no-op.
func MakeNop() Op {
	return Op{Code: OP_NOP}
}

// MakePush creates a stack push. Only the low 8 bits of value are encodable.
func MakePush(value uint16) Op {
	return Op{Code: OP_PUSH, Value: value}
}

// MakePopRegister creates a pop into a register.
func MakePopRegister(reg Register) Op {
	return Op{Code: OP_POP_REGISTER, Reg: [2]Register{reg, 0}}
}

// MakeAddStack replaces the top two stack words with their sum.
func MakeAddStack() Op {
	return Op{Code: OP_ADD_STACK}
}

// MakeAddRegister creates 'dst += src'.
func MakeAddRegister(dst, src Register) Op {
	return Op{Code: OP_ADD_REGISTER, Reg: [2]Register{dst, src}}
}

// MakeSignal creates a software trap.
func MakeSignal(code uint8) Op {
	return Op{Code: OP_SIGNAL, Value: uint16(code)}
}

// Signal returns the trap code of a Signal instruction.
func (op Op) Signal() uint8 {
	return uint8(op.Value)
}

// encodeArg places an 8-bit operand in the high byte.
func encodeArg(arg uint16) uint16 {
	return (arg & 0xff) << 8
}

// encodeArgs places two 4-bit operands in bits 8-11 and 12-15.
func encodeArgs(arg1, arg2 uint16) uint16 {
	return (arg1&0x0f)<<8 | (arg2&0x0f)<<12
}

// decodeArg returns the high byte operand.
func decodeArg(word uint16) uint8 {
	return uint8(word >> 8)
}

// decodeArgs returns the two nibble operands.
func decodeArgs(word uint16) (arg1, arg2 uint8) {
	arg1 = uint8((word >> 8) & 0xf)
	arg2 = uint8((word >> 12) & 0xf)
	return
}

// Encode packs the instruction into its binary word.
func (op Op) Encode() (word uint16, err error) {
	switch op.Code {
	case OP_NOP, OP_ADD_STACK:
		word = uint16(op.Code)
	case OP_PUSH, OP_SIGNAL:
		word = uint16(op.Code) | encodeArg(op.Value)
	case OP_POP_REGISTER:
		if !op.Reg[0].Valid() {
			err = &ErrArgument{Mnemonic: op.Code.String(), Arg: op.Reg[0].String(), Err: ErrRegisterInvalid}
			return
		}
		word = uint16(op.Code) | encodeArg(uint16(op.Reg[0]))
	case OP_ADD_REGISTER:
		for _, reg := range op.Reg {
			if !reg.Valid() {
				err = &ErrArgument{Mnemonic: op.Code.String(), Arg: reg.String(), Err: ErrRegisterInvalid}
				return
			}
		}
		word = uint16(op.Code) | encodeArgs(uint16(op.Reg[0]), uint16(op.Reg[1]))
	default:
		err = &ErrArgument{Mnemonic: op.Code.String(), Err: ErrOpcodeInvalid}
	}

	return
}

// Decode unpacks a binary instruction word.
func Decode(word uint16) (op Op, err error) {
	code := CodeOp(word & 0xff)

	switch code {
	case OP_NOP, OP_ADD_STACK:
		op = Op{Code: code}
	case OP_PUSH, OP_SIGNAL:
		op = Op{Code: code, Value: uint16(decodeArg(word))}
	case OP_POP_REGISTER:
		var reg Register
		reg, err = RegisterOf(decodeArg(word))
		if err != nil {
			err = errors.Join(ErrOpcode(word), err)
			return
		}
		op = MakePopRegister(reg)
	case OP_ADD_REGISTER:
		arg1, arg2 := decodeArgs(word)
		var dst, src Register
		dst, err = RegisterOf(arg1)
		if err != nil {
			err = errors.Join(ErrOpcode(word), err)
			return
		}
		src, err = RegisterOf(arg2)
		if err != nil {
			err = errors.Join(ErrOpcode(word), err)
			return
		}
		op = MakeAddRegister(dst, src)
	default:
		err = errors.Join(ErrOpcode(word), ErrOpcodeInvalid)
	}

	return
}

// String returns the assembly language form of the instruction.
func (op Op) String() (out string) {
	switch op.Code {
	case OP_PUSH:
		out = fmt.Sprintf("%v %d", op.Code, op.Value&0xff)
	case OP_SIGNAL:
		out = fmt.Sprintf("%v $%02X", op.Code, op.Signal())
	case OP_POP_REGISTER:
		out = fmt.Sprintf("%v %v", op.Code, op.Reg[0])
	case OP_ADD_REGISTER:
		out = fmt.Sprintf("%v %v %v", op.Code, op.Reg[0], op.Reg[1])
	default:
		out = op.Code.String()
	}

	return
}
