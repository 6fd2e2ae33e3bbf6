// Package script defines svm signal handlers in Starlark.
//
// A script registers handlers with the signal builtin:
//
//	def double(vm):
//	    vm.push(vm.pop() * 2)
//
//	signal(0x10, double)
//
// Each handler is called with a vm value whose methods act on the machine
// that raised the signal.
package script

import (
	"io"
	"log"
	"maps"
	"slices"
	"strconv"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/stackvm/svm/cpu"
)

// Script is a loaded set of Starlark signal handlers.
type Script struct {
	Verbose bool      // If set, logs handler invocations.
	Name    string    // File name, for error messages.
	Out     io.Writer // Destination of print().

	handler map[uint8]starlark.Callable
}

func (s *Script) thread() *starlark.Thread {
	return &starlark.Thread{
		Name: s.Name,
		Print: func(_ *starlark.Thread, msg string) {
			io.WriteString(s.Out, msg+"\n")
		},
	}
}

// Load executes the Starlark source src, collecting its handlers.
// src may be a string, []byte or io.Reader; out receives print() output
// and may be nil.
func Load(name string, src any, out io.Writer) (s *Script, err error) {
	if out == nil {
		out = io.Discard
	}

	s = &Script{
		Name:    name,
		Out:     out,
		handler: map[uint8]starlark.Callable{},
	}

	predeclared := starlark.StringDict{
		"signal": starlark.NewBuiltin("signal", s.builtinSignal),
	}
	for key, value := range cpu.Defines() {
		v64, perr := strconv.ParseInt(value, 10, 64)
		if perr != nil {
			continue
		}
		predeclared[key] = starlark.MakeInt64(v64)
	}

	opts := syntax.FileOptions{}
	_, err = starlark.ExecFileOptions(&opts, s.thread(), name, src, predeclared)
	if err != nil {
		s = nil
		return
	}

	return
}

func (s *Script) builtinSignal(thread *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (value starlark.Value, err error) {
	var code int
	var handler starlark.Value
	err = starlark.UnpackPositionalArgs(fn.Name(), args, kwargs, 2, &code, &handler)
	if err != nil {
		return
	}

	if code < 0 || code > 0xff {
		err = ErrSignalCode
		return
	}

	callable, ok := handler.(starlark.Callable)
	if !ok {
		err = ErrNotCallable
		return
	}

	s.handler[uint8(code)] = callable
	value = starlark.None
	return
}

// Codes returns the sorted list of signal codes the script handles.
func (s *Script) Codes() []uint8 {
	return slices.Sorted(maps.Keys(s.handler))
}

// Install defines the script's handlers on m, replacing any existing ones.
func (s *Script) Install(m *cpu.Machine) {
	for code, fn := range s.handler {
		m.DefineHandler(code, &handler{script: s, code: code, fn: fn})
	}
}

type handler struct {
	script *Script
	code   uint8
	fn     starlark.Callable
}

func (h *handler) Signal(m *cpu.Machine) (err error) {
	if h.script.Verbose {
		log.Printf("script: signal 0x%02x -> %v", h.code, h.fn.Name())
	}

	_, err = starlark.Call(h.script.thread(), h.fn, starlark.Tuple{&Machine{m: m}}, nil)
	if err != nil {
		err = &ErrHandler{Name: h.script.Name, Code: h.code, Err: err}
	}

	return
}
