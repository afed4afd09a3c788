//go:build !wasm

package serial

import (
	"fmt"
	"io"
	"sync/atomic"
	"time"

	"github.com/tarm/serial"
)

// NativePort wraps the tarm/serial implementation
type NativePort struct {
	port   Port
	cfg    *Config
	closed atomic.Bool
}

// Open opens a native serial port
func Open(cfg *Config) (Port, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if cfg.Device == "" {
		return nil, fmt.Errorf("no serial device configured")
	}

	serialConfig := &serial.Config{
		Name:        cfg.Device,
		Baud:        cfg.Baud,
		ReadTimeout: time.Duration(cfg.ReadTimeout) * time.Millisecond,
	}

	port, err := serial.OpenPort(serialConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to open serial port %s: %w", cfg.Device, err)
	}

	return newNativePort(port, cfg), nil
}

func newNativePort(port Port, cfg *Config) *NativePort {
	return &NativePort{
		port: port,
		cfg:  cfg,
	}
}

// Read reads data from the serial port. tarm/serial reports a read
// timeout with no data as (0, io.EOF); Read retries those until data
// arrives or the port is closed.
func (p *NativePort) Read(b []byte) (int, error) {
	for {
		n, err := p.port.Read(b)
		if n > 0 || err != io.EOF {
			return n, err
		}
		if p.closed.Load() {
			return 0, io.EOF
		}
	}
}

// Write writes data to the serial port
func (p *NativePort) Write(b []byte) (int, error) {
	return p.port.Write(b)
}

// Close closes the serial port
func (p *NativePort) Close() error {
	if p.closed.Swap(true) {
		return nil
	}
	if p.port != nil {
		return p.port.Close()
	}
	return nil
}

// Flush discards bytes the bridge sent before we started reading, so the
// first line parsed is a whole one.
func (p *NativePort) Flush() error {
	return p.port.Flush()
}
