package emulator

import (
	"errors"

	"github.com/stackvm/svm/translate"
)

var f = translate.From

var (
	ErrTickLimit       = errors.New(f("tick limit reached"))
	ErrSnapshotSize    = errors.New(f("snapshot does not fit in memory"))
	ErrSnapshotInvalid = errors.New(f("snapshot is not valid"))
)

// ErrRuntime indicates the location of a runtime error.
type ErrRuntime struct {
	Pc     uint16
	LineNo int
	Err    error
}

func (err *ErrRuntime) Error() string {
	if err.LineNo == 0 {
		return f("pc 0x%04x %v", err.Pc, err.Err)
	}
	return f("line %d pc 0x%04x %v", err.LineNo, err.Pc, err.Err)
}

func (err *ErrRuntime) Unwrap() error {
	return err.Err
}
