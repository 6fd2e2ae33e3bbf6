package script

import (
	"errors"

	"github.com/stackvm/svm/translate"
)

var f = translate.From

var (
	ErrSignalCode    = errors.New(f("signal code out of range"))
	ErrNotCallable   = errors.New(f("signal handler is not callable"))
	ErrRegisterValue = errors.New(f("register must be a name or an index"))
	ErrUnhashable    = errors.New(f("vm is not hashable"))
)

// ErrHandler is a failure inside a scripted signal handler.
type ErrHandler struct {
	Name string
	Code uint8
	Err  error
}

func (err *ErrHandler) Error() string {
	return f("%v: signal 0x%02x: %v", err.Name, err.Code, err.Err)
}

func (err *ErrHandler) Unwrap() error {
	return err.Err
}
