package cpu

import (
	"errors"

	"github.com/stackvm/svm/translate"
)

var f = translate.From

var (
	// Machine errors
	ErrHalted         = errors.New(f("machine halted"))
	ErrStackUnderflow = errors.New(f("stack underflow"))

	// Instruction decode errors
	ErrOpcodeInvalid   = errors.New(f("opcode invalid"))
	ErrRegisterInvalid = errors.New(f("register invalid"))

	// Assembler errors
	ErrOpcodeMissing   = errors.New(f("opcode missing"))
	ErrMnemonicUnknown = errors.New(f("mnemonic unknown"))
	ErrArgumentCount   = errors.New(f("wrong argument count"))
	ErrProgramSize     = errors.New(f("program too large"))
	ErrProgramOdd      = errors.New(f("program has an odd number of bytes"))
)

// ErrOpcode is an instruction word that could not be decoded.
type ErrOpcode uint16

func (eo ErrOpcode) Error() string {
	return f("bad instruction 0x%04x (opcode 0x%02x)", uint16(eo), uint16(eo)&0xff)
}

func (eo ErrOpcode) Is(err error) (ok bool) {
	_, ok = err.(ErrOpcode)
	return
}

// ErrMemoryFault is an access outside of the backing store.
type ErrMemoryFault uint16

func (em ErrMemoryFault) Error() string {
	return f("memory fault @ 0x%04x", uint16(em))
}

func (em ErrMemoryFault) Is(err error) (ok bool) {
	_, ok = err.(ErrMemoryFault)
	return
}

// ErrSignal is a Signal with no registered handler.
type ErrSignal uint8

func (es ErrSignal) Error() string {
	return f("signal 0x%02x has no handler", uint8(es))
}

func (es ErrSignal) Is(err error) (ok bool) {
	_, ok = err.(ErrSignal)
	return
}

// ErrFault locates a failing instruction.
type ErrFault struct {
	Pc   uint16
	Word uint16
	Err  error
}

func (err *ErrFault) Error() string {
	return f("pc 0x%04x [%04x] %v", err.Pc, err.Word, err.Err)
}

func (err *ErrFault) Unwrap() error {
	return err.Err
}

// ErrArgument names the mnemonic and argument that failed to assemble.
type ErrArgument struct {
	Mnemonic string
	Arg      string
	Err      error
}

func (err *ErrArgument) Error() string {
	if len(err.Arg) == 0 {
		return f("%v: %v", err.Mnemonic, err.Err)
	}
	return f("%v '%v': %v", err.Mnemonic, err.Arg, err.Err)
}

func (err *ErrArgument) Unwrap() error {
	return err.Err
}

type ErrSyntax struct {
	LineNo int
	Line   string
	Err    error
}

func (err ErrSyntax) Error() string {
	return f("line %d '%v' %v", err.LineNo, err.Line, err.Err)
}

func (err ErrSyntax) Unwrap() error {
	return err.Err
}

type ErrParseNumber string

func (err ErrParseNumber) Error() string {
	return f("'%v' is not a number", string(err))
}

type ErrParseExpression string

func (err ErrParseExpression) Error() string {
	return f("$(%v) is not a valid expression", string(err))
}
