package cpu

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseOp(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		line string
		op   Op
	}){
		{"Nop", MakeNop()},
		{"Push 10", MakePush(10)},
		{"Push $0A", MakePush(10)},
		{"Push $ff", MakePush(255)},
		{"Push %1010", MakePush(10)},
		{"Push 0", MakePush(0)},
		{"  Push   10  ", MakePush(10)},
		{"Push\t10", MakePush(10)},
		{"PopRegister A", MakePopRegister(REG_A)},
		{"PopRegister Flags", MakePopRegister(REG_FLAGS)},
		{"PopRegister 4", MakePopRegister(REG_SP)},
		{"PopRegister $7", MakePopRegister(REG_FLAGS)},
		{"AddStack", MakeAddStack()},
		{"AddRegister A B", MakeAddRegister(REG_A, REG_B)},
		{"AddRegister BP  PC", MakeAddRegister(REG_BP, REG_PC)},
		{"Signal $F0", MakeSignal(0xf0)},
		{"Signal 240", MakeSignal(0xf0)},
		{"Signal %11110000", MakeSignal(0xf0)},
	}

	for _, entry := range table {
		op, err := ParseOp(entry.line)
		assert.NoError(err, entry.line)
		assert.Equal(entry.op, op, entry.line)
	}
}

func TestParseOp_Errors(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		line string
		err  error
	}){
		{"", ErrOpcodeMissing},
		{"   ", ErrOpcodeMissing},
		{"Jump 10", ErrMnemonicUnknown},
		{"push 10", ErrMnemonicUnknown},
		{"Push", ErrArgumentCount},
		{"Push 1 2", ErrArgumentCount},
		{"AddStack 1", ErrArgumentCount},
		{"AddRegister A", ErrArgumentCount},
		{"Signal", ErrArgumentCount},
		{"PopRegister 8", ErrRegisterInvalid},
		{"PopRegister X", ErrRegisterInvalid},
		{"AddRegister A Q", ErrRegisterInvalid},
		{"AddRegister 9 A", ErrRegisterInvalid},
	}

	for _, entry := range table {
		_, err := ParseOp(entry.line)
		assert.ErrorIs(err, entry.err, entry.line)
	}
}

func TestParseOp_Number(t *testing.T) {
	assert := assert.New(t)

	for _, word := range []string{"$", "%", "256", "$100", "%102", "$GG", "-1", "ten"} {
		_, err := ParseOp("Push " + word)

		var pn ErrParseNumber
		assert.True(errors.As(err, &pn), word)
		assert.Equal(ErrParseNumber(word), pn)

		var arg *ErrArgument
		assert.True(errors.As(err, &arg), word)
		assert.Equal("Push", arg.Mnemonic)
		assert.Equal(word, arg.Arg)
	}
}

func TestParseOp_ErrorNamesToken(t *testing.T) {
	assert := assert.New(t)

	_, err := ParseOp("Frobnicate A")
	assert.ErrorContains(err, "Frobnicate")

	_, err = ParseOp("AddRegister A Zed")
	assert.ErrorContains(err, "Zed")
}

func TestParseOp_StringRoundTrip(t *testing.T) {
	assert := assert.New(t)

	ops := []Op{
		MakeNop(),
		MakePush(0x7f),
		MakePopRegister(REG_M),
		MakeAddStack(),
		MakeAddRegister(REG_C, REG_BP),
		MakeSignal(0x01),
	}

	for _, op := range ops {
		parsed, err := ParseOp(op.String())
		assert.NoError(err, op.String())
		assert.Equal(op, parsed)
	}
}
