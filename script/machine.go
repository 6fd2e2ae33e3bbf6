package script

import (
	"go.starlark.net/starlark"

	"github.com/stackvm/svm/cpu"
	"github.com/stackvm/svm/memory"
)

// Machine is the Starlark view of a cpu.Machine.
type Machine struct {
	m *cpu.Machine
}

var _ starlark.HasAttrs = (*Machine)(nil)

var machineMethods = map[string]func(m *cpu.Machine, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error){
	"get":   machineGet,
	"set":   machineSet,
	"push":  machinePush,
	"pop":   machinePop,
	"read":  machineRead,
	"write": machineWrite,
	"halt":  machineHalt,
}

func (vm *Machine) String() string        { return "<vm>" }
func (vm *Machine) Type() string          { return "vm" }
func (vm *Machine) Freeze()               {}
func (vm *Machine) Truth() starlark.Bool  { return starlark.True }
func (vm *Machine) Hash() (uint32, error) { return 0, ErrUnhashable }

func (vm *Machine) Attr(name string) (value starlark.Value, err error) {
	if name == "ticks" {
		value = starlark.MakeInt(vm.m.Ticks)
		return
	}

	method, ok := machineMethods[name]
	if !ok {
		return
	}

	value = starlark.NewBuiltin(name, func(_ *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		return method(vm.m, fn, args, kwargs)
	})
	return
}

func (vm *Machine) AttrNames() []string {
	return []string{"get", "halt", "pop", "push", "read", "set", "ticks", "write"}
}

// register converts a register name or index.
func register(value starlark.Value) (reg cpu.Register, err error) {
	switch v := value.(type) {
	case starlark.String:
		reg, err = cpu.ParseRegister(string(v))
	case starlark.Int:
		var index uint8
		err = starlark.AsInt(v, &index)
		if err != nil {
			return
		}
		reg, err = cpu.RegisterOf(index)
	default:
		err = ErrRegisterValue
	}
	return
}

func machineGet(m *cpu.Machine, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (value starlark.Value, err error) {
	var arg starlark.Value
	err = starlark.UnpackPositionalArgs(fn.Name(), args, kwargs, 1, &arg)
	if err != nil {
		return
	}

	reg, err := register(arg)
	if err != nil {
		return
	}

	value = starlark.MakeInt(int(m.GetRegister(reg)))
	return
}

func machineSet(m *cpu.Machine, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (value starlark.Value, err error) {
	var arg starlark.Value
	var word int
	err = starlark.UnpackPositionalArgs(fn.Name(), args, kwargs, 2, &arg, &word)
	if err != nil {
		return
	}

	reg, err := register(arg)
	if err != nil {
		return
	}

	m.SetRegister(reg, uint16(word))
	value = starlark.None
	return
}

func machinePush(m *cpu.Machine, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (value starlark.Value, err error) {
	var word int
	err = starlark.UnpackPositionalArgs(fn.Name(), args, kwargs, 1, &word)
	if err != nil {
		return
	}

	err = m.Push(uint16(word))
	if err != nil {
		return
	}

	value = starlark.None
	return
}

func machinePop(m *cpu.Machine, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (value starlark.Value, err error) {
	err = starlark.UnpackPositionalArgs(fn.Name(), args, kwargs, 0)
	if err != nil {
		return
	}

	word, err := m.Pop()
	if err != nil {
		return
	}

	value = starlark.MakeInt(int(word))
	return
}

func machineRead(m *cpu.Machine, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (value starlark.Value, err error) {
	var addr uint16
	err = starlark.UnpackPositionalArgs(fn.Name(), args, kwargs, 1, &addr)
	if err != nil {
		return
	}

	word, ok := memory.ReadWord(m.Memory, addr)
	if !ok {
		err = cpu.ErrMemoryFault(addr)
		return
	}

	value = starlark.MakeInt(int(word))
	return
}

func machineWrite(m *cpu.Machine, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (value starlark.Value, err error) {
	var addr uint16
	var word int
	err = starlark.UnpackPositionalArgs(fn.Name(), args, kwargs, 2, &addr, &word)
	if err != nil {
		return
	}

	if !memory.WriteWord(m.Memory, addr, uint16(word)) {
		err = cpu.ErrMemoryFault(addr)
		return
	}

	value = starlark.None
	return
}

func machineHalt(m *cpu.Machine, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (value starlark.Value, err error) {
	err = starlark.UnpackPositionalArgs(fn.Name(), args, kwargs, 0)
	if err != nil {
		return
	}

	m.Halt = true
	value = starlark.None
	return
}
