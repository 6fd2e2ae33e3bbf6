package script

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/stackvm/svm/cpu"
	"github.com/stackvm/svm/memory"
)

func loadMachine(t *testing.T, text string, src string) (m *cpu.Machine, out *strings.Builder) {
	assert := assert.New(t)

	out = &strings.Builder{}
	s, err := Load("test.star", src, out)
	assert.NoError(err)
	if err != nil {
		t.Fatal(err)
	}

	prog, err := cpu.Assemble(text)
	assert.NoError(err)
	bin, err := prog.Binary()
	assert.NoError(err)

	m = cpu.NewMachine(memory.NewLinear(256))
	assert.NoError(m.Load(0, bin))
	m.SetRegister(cpu.REG_SP, 128)
	s.Install(m)

	return
}

func run(m *cpu.Machine) (err error) {
	for !m.Halt {
		err = m.Step()
		if err != nil {
			return
		}
	}
	return
}

func TestLoad(t *testing.T) {
	assert := assert.New(t)

	s, err := Load("test.star", `
def nothing(vm):
    pass

signal(0x10, nothing)
signal(3, nothing)
`, nil)
	assert.NoError(err)
	assert.Equal([]uint8{3, 0x10}, s.Codes())
	assert.Equal("test.star", s.Name)
}

func TestLoad_Errors(t *testing.T) {
	assert := assert.New(t)

	table := []struct {
		src string
		err error
	}{
		{"signal(256, lambda vm: None)", ErrSignalCode},
		{"signal(-1, lambda vm: None)", ErrSignalCode},
		{"signal(1, 2)", ErrNotCallable},
		{"signal(1)", nil},
		{"def broken(:", nil},
		{"undefined_name(1)", nil},
	}

	for _, entry := range table {
		s, err := Load("bad.star", entry.src, nil)
		assert.Error(err, entry.src)
		assert.Nil(s, entry.src)
		if entry.err != nil {
			assert.ErrorIs(err, entry.err, entry.src)
		}
	}
}

func TestScript_PushPop(t *testing.T) {
	assert := assert.New(t)

	m, _ := loadMachine(t, `
Push 5
Signal $10
PopRegister A
Signal $FF
`, `
def double(vm):
    vm.push(vm.pop() * 2)

def stop(vm):
    vm.halt()

signal(0x10, double)
signal(0xff, stop)
`)

	assert.NoError(run(m))
	assert.Equal(uint16(10), m.GetRegister(cpu.REG_A))
	assert.Equal(uint16(128), m.GetRegister(cpu.REG_SP))
}

func TestScript_Registers(t *testing.T) {
	assert := assert.New(t)

	m, out := loadMachine(t, `
Signal $01
Signal $02
`, `
def setup(vm):
    vm.set("B", 0x1234)
    vm.set(REG_C, vm.get(REG_B) + 1)
    print(vm.get("B"), vm.get(2), vm.get("PC"))

def stop(vm):
    print("ticks", vm.ticks)
    vm.set("Flags", -1)
    vm.halt()

signal(1, setup)
signal(2, stop)
`)

	assert.NoError(run(m))
	assert.Equal(uint16(0x1234), m.GetRegister(cpu.REG_B))
	assert.Equal(uint16(0x1235), m.GetRegister(cpu.REG_C))
	assert.Equal(uint16(0xffff), m.GetRegister(cpu.REG_FLAGS))
	assert.Equal("4660 4661 2\nticks 1\n", out.String())
}

func TestScript_Memory(t *testing.T) {
	assert := assert.New(t)

	m, _ := loadMachine(t, `
Signal $01
`, `
def poke(vm):
    vm.write(200, vm.read(0) + 1)
    vm.halt()

signal(1, poke)
`)

	assert.NoError(run(m))
	word, ok := memory.ReadWord(m.Memory, 200)
	assert.True(ok)
	assert.Equal(uint16(0x0106), word)
}

func TestScript_Errors(t *testing.T) {
	assert := assert.New(t)

	table := []struct {
		src string
		err error
	}{
		{"signal(1, lambda vm: vm.set(REG_SP, 0) or vm.pop())", cpu.ErrStackUnderflow},
		{"signal(1, lambda vm: vm.read(255))", cpu.ErrMemoryFault(255)},
		{"signal(1, lambda vm: vm.write(256, 0))", nil},
		{"signal(1, lambda vm: vm.get(8))", cpu.ErrRegisterInvalid},
		{"signal(1, lambda vm: vm.get(1.5))", ErrRegisterValue},
		{"signal(1, lambda vm: vm.get(\"Q\"))", nil},
		{"signal(1, lambda vm: vm.nothing())", nil},
		{"signal(1, lambda vm: [][1])", nil},
	}

	for _, entry := range table {
		s, err := Load("fault.star", entry.src, nil)
		assert.NoError(err, entry.src)
		if err != nil {
			continue
		}

		m := cpu.NewMachine(memory.NewLinear(256))
		assert.NoError(m.Load(0, []byte{0x05, 0x01}))
		m.SetRegister(cpu.REG_SP, 128)
		s.Install(m)

		err = m.Step()
		assert.Error(err, entry.src)

		var eh *ErrHandler
		assert.True(errors.As(err, &eh), entry.src)
		if eh != nil {
			assert.Equal(uint8(1), eh.Code)
			assert.Equal("fault.star", eh.Name)
		}

		if entry.err != nil {
			assert.ErrorIs(err, entry.err, entry.src)
		}
	}
}

func TestScript_Replace(t *testing.T) {
	assert := assert.New(t)

	m := cpu.NewMachine(memory.NewLinear(256))
	m.DefineHandler(1, cpu.HandlerFunc(func(m *cpu.Machine) error {
		return errors.New("host handler")
	}))

	s, err := Load("replace.star", "signal(1, lambda vm: vm.halt())", nil)
	assert.NoError(err)
	s.Install(m)

	assert.NoError(m.Load(0, []byte{0x05, 0x01}))
	assert.NoError(m.Step())
	assert.True(m.Halt)
}
