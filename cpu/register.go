package cpu

// Register identifies one of the machine registers.
type Register int

//go:generate go tool stringer -linecomment -type=Register
const (
	REG_A     = Register(0) // A
	REG_B     = Register(1) // B
	REG_C     = Register(2) // C
	REG_M     = Register(3) // M
	REG_SP    = Register(4) // SP
	REG_PC    = Register(5) // PC
	REG_BP    = Register(6) // BP
	REG_FLAGS = Register(7) // Flags
)

// REGISTER_COUNT is the size of the register file.
const REGISTER_COUNT = 8

// registerMap maps register names to registers.
var registerMap = map[string]Register{}

func init() {
	for reg := range Register(REGISTER_COUNT) {
		registerMap[reg.String()] = reg
	}
}

// Valid returns true if the register is part of the register file.
func (reg Register) Valid() bool {
	return reg >= 0 && reg < REGISTER_COUNT
}

// RegisterOf converts a register index, as found in an instruction word.
func RegisterOf(index uint8) (reg Register, err error) {
	reg = Register(index)
	if !reg.Valid() {
		reg = 0
		err = ErrRegisterInvalid
	}
	return
}

// ParseRegister looks up a register by its symbolic name.
func ParseRegister(name string) (reg Register, err error) {
	reg, ok := registerMap[name]
	if !ok {
		err = ErrRegisterInvalid
	}
	return
}
