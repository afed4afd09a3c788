// Package client reads the sensor from the bus master side. It works with
// anything implementing tinygo.org/x/drivers.I2C: machine.I2C on a TinyGo
// bridge board, or the simulator's bus in tests.
package client

import (
	"errors"

	"powersensor/protocol"

	"tinygo.org/x/drivers"
)

// DefaultAddress is the sensor's 7-bit address.
const DefaultAddress = 0x04

var errFrameLen = errors.New("client: frame length must be even and non-zero")

// Reader polls the sensor's transmit buffer.
type Reader struct {
	bus  drivers.I2C
	addr uint16
	buf  []byte
}

// New returns a Reader fetching frameLen bytes per Read from addr.
func New(bus drivers.I2C, addr uint16, frameLen int) (*Reader, error) {
	if frameLen <= 0 || frameLen%2 != 0 {
		return nil, errFrameLen
	}
	return &Reader{
		bus:  bus,
		addr: addr,
		buf:  make([]byte, frameLen),
	}, nil
}

// Read issues a zero-byte write followed by a frame read and decodes the
// slots.
func (r *Reader) Read() ([]uint16, error) {
	if err := r.bus.Tx(r.addr, []byte{}, nil); err != nil {
		return nil, err
	}
	if err := r.bus.Tx(r.addr, nil, r.buf); err != nil {
		return nil, err
	}
	return protocol.DecodeFrame(r.buf)
}
