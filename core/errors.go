package core

import "errors"

// Configuration errors. The acquisition path itself has none: a stalled
// conversion hangs the loop.
var (
	ErrNoChannels           = errors.New("channel table is empty")
	ErrTooManyChannels      = errors.New("channel table exceeds transmit buffer slots")
	ErrInvalidChannel       = errors.New("channel id does not fit the mux-select bits")
	ErrBufferTooSmall       = errors.New("transmit buffer too small for channel table")
	ErrUnsupportedPrescaler = errors.New("unsupported timer prescaler")
	ErrCompareOutOfRange    = errors.New("compare threshold does not fit 8 bits")
	ErrInvalidWindow        = errors.New("moving average window must be positive")
	ErrInvalidResolution    = errors.New("ADC resolution must be 1..16 bits")
)
