package io

import (
	"errors"

	"github.com/stackvm/svm/translate"
)

var f = translate.From

var (
	// Channel errors
	ErrChannelClosed = errors.New(f("channel not connected"))
)
