package io

import (
	"bytes"
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type failWriter struct{}

func (failWriter) Write(p []byte) (int, error) {
	return 0, errors.New("disk on fire")
}

type stallReader struct {
	reads int
}

func (sr *stallReader) Read(p []byte) (int, error) {
	sr.reads++
	return 0, nil
}

func TestTape_ReceiveStalled(t *testing.T) {
	assert := assert.New(t)

	input := &stallReader{}
	tape := &Tape{Input: input}

	value, ok := tape.Next()
	assert.False(ok)
	assert.Equal(byte(0), value)
	assert.Equal(maxEmptyReads, input.reads)
	assert.Equal(0, tape.Received)
}

func TestTape_Receive(t *testing.T) {
	assert := assert.New(t)

	tape := &Tape{Input: strings.NewReader("svm")}

	assert.Equal([]byte("svm"), slices.Collect(tape.Receive()))
	assert.Equal(3, tape.Received)

	// Exhausted input yields nothing more.
	assert.Empty(slices.Collect(tape.Receive()))
}

func TestTape_Next(t *testing.T) {
	assert := assert.New(t)

	tape := &Tape{Input: bytes.NewReader([]byte{0x01, 0xff})}

	value, ok := tape.Next()
	assert.True(ok)
	assert.Equal(byte(0x01), value)

	value, ok = tape.Next()
	assert.True(ok)
	assert.Equal(byte(0xff), value)

	_, ok = tape.Next()
	assert.False(ok)
	assert.Equal(2, tape.Received)
}

func TestTape_NoInput(t *testing.T) {
	assert := assert.New(t)

	tape := &Tape{}
	_, ok := tape.Next()
	assert.False(ok)
}

func TestTape_Send(t *testing.T) {
	assert := assert.New(t)

	output := &bytes.Buffer{}
	tape := &Tape{Output: output}

	for _, value := range []byte("ok\n") {
		assert.NoError(tape.Send(value))
	}
	assert.Equal("ok\n", output.String())
	assert.Equal(3, tape.Sent)

	tape.Rewind()
	assert.Equal(0, tape.Sent)
	assert.Equal(0, tape.Received)
}

func TestTape_SendErrors(t *testing.T) {
	assert := assert.New(t)

	tape := &Tape{}
	assert.ErrorIs(tape.Send('x'), ErrChannelClosed)

	tape.Output = failWriter{}
	err := tape.Send('x')
	assert.ErrorIs(err, ErrChannelClosed)
	assert.ErrorContains(err, "disk on fire")
	assert.Equal(0, tape.Sent)
}
