package cpu

import (
	"strconv"
	"strings"
)

// mnemonicMap maps assembler mnemonics to operations.
var mnemonicMap = map[string]CodeOp{}

func init() {
	for code := range CodeOp(OP_COUNT) {
		mnemonicMap[code.String()] = code
	}
}

// parseNumber parses an 8-bit literal: '$' hexadecimal, '%' binary, or decimal.
func parseNumber(word string) (value uint8, err error) {
	digits, base := word, 10
	switch {
	case strings.HasPrefix(word, "$"):
		digits, base = word[1:], 16
	case strings.HasPrefix(word, "%"):
		digits, base = word[1:], 2
	}

	if len(digits) == 0 {
		err = ErrParseNumber(word)
		return
	}

	v64, err := strconv.ParseUint(digits, base, 8)
	if err != nil {
		err = ErrParseNumber(word)
		return
	}

	value = uint8(v64)
	return
}

// parseRegister accepts a register name or a numeric register index.
func parseRegister(word string) (reg Register, err error) {
	reg, err = ParseRegister(word)
	if err == nil {
		return
	}

	index, err := parseNumber(word)
	if err != nil {
		err = ErrRegisterInvalid
		return
	}

	return RegisterOf(index)
}

// ParseOp translates a single line of assembler text into an instruction.
// Words are separated by runs of whitespace.
func ParseOp(line string) (op Op, err error) {
	words := strings.Fields(line)
	if len(words) == 0 {
		err = ErrOpcodeMissing
		return
	}

	mnemonic, args := words[0], words[1:]

	code, ok := mnemonicMap[mnemonic]
	if !ok {
		err = &ErrArgument{Mnemonic: mnemonic, Err: ErrMnemonicUnknown}
		return
	}

	if len(args) != code.Arity() {
		err = &ErrArgument{Mnemonic: mnemonic, Arg: strings.Join(args, " "), Err: ErrArgumentCount}
		return
	}

	// argument error helper
	bad := func(arg string, e error) error {
		return &ErrArgument{Mnemonic: mnemonic, Arg: arg, Err: e}
	}

	switch code {
	case OP_NOP:
		op = MakeNop()
	case OP_ADD_STACK:
		op = MakeAddStack()
	case OP_PUSH:
		var value uint8
		value, err = parseNumber(args[0])
		if err != nil {
			err = bad(args[0], err)
			return
		}
		op = MakePush(uint16(value))
	case OP_SIGNAL:
		var value uint8
		value, err = parseNumber(args[0])
		if err != nil {
			err = bad(args[0], err)
			return
		}
		op = MakeSignal(value)
	case OP_POP_REGISTER:
		var reg Register
		reg, err = parseRegister(args[0])
		if err != nil {
			err = bad(args[0], err)
			return
		}
		op = MakePopRegister(reg)
	case OP_ADD_REGISTER:
		var regs [2]Register
		for n, arg := range args {
			regs[n], err = parseRegister(arg)
			if err != nil {
				err = bad(arg, err)
				return
			}
		}
		op = MakeAddRegister(regs[0], regs[1])
	}

	return
}
