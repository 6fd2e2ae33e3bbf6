package io

import (
	"errors"
	"io"
	"iter"
)

// Tape provides sequential byte I/O over an io.Reader and io.Writer.
type Tape struct {
	Input  io.Reader
	Output io.Writer

	Received int // Bytes read from Input.
	Sent     int // Bytes written to Output.
}

var _ Channel = (*Tape)(nil)

// Rewind is not possible on a tape; only the counters are reset.
func (tc *Tape) Rewind() {
	tc.Received = 0
	tc.Sent = 0
}

// maxEmptyReads bounds the reads returning no data and no error before the
// input is treated as exhausted.
const maxEmptyReads = 100

// Receive returns an iterator that yields bytes from the input stream until
// it is exhausted.
func (tc *Tape) Receive() iter.Seq[byte] {
	return func(yield func(value byte) bool) {
		if tc.Input == nil {
			return
		}
		for empty := 0; empty < maxEmptyReads; {
			var one [1]byte
			n, err := tc.Input.Read(one[:])
			if n == 1 {
				empty = 0
				tc.Received++
				if !yield(one[0]) {
					return
				}
				continue
			}
			if err != nil {
				return
			}
			empty++
		}
	}
}

// Next reads a single byte, returning ok == false at end of input.
func (tc *Tape) Next() (value byte, ok bool) {
	for value = range tc.Receive() {
		return value, true
	}
	return
}

// Send writes a byte to the output stream.
func (tc *Tape) Send(value byte) (err error) {
	if tc.Output == nil {
		err = ErrChannelClosed
		return
	}

	_, err = tc.Output.Write([]byte{value})
	if err != nil {
		err = errors.Join(ErrChannelClosed, err)
		return
	}

	tc.Sent++
	return
}
