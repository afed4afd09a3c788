//go:build rp2040

package rp2040

import (
	"device/rp"
	"errors"
	"machine"
	"runtime/volatile"
	"unsafe"

	"powersensor/core"
)

// Slice control/status bits and divider layout.
const (
	csrEN        = 1 << 0
	csrPhCorrect = 1 << 1
	csrAInv      = 1 << 2
	csrBInv      = 1 << 3

	divIntPos = 4
	divIntMax = 255
)

// pwmSlice overlays one slice's register block.
type pwmSlice struct {
	CSR volatile.Register32
	DIV volatile.Register32
	CTR volatile.Register32
	CC  volatile.Register32
	TOP volatile.Register32
}

func getSlice(n uint8) *pwmSlice {
	const sliceSize = 0x14
	return (*pwmSlice)(unsafe.Pointer(uintptr(unsafe.Pointer(rp.PWM)) + uintptr(n)*sliceSize))
}

// PWMDriver implements core.PWMDriver on one PWM slice channel.
// GPIO N drives slice (N>>1)&7, channel A when N is even and B when odd.
type PWMDriver struct {
	slice   *pwmSlice
	chanB   bool
	compare uint16
}

// NewPWMDriver creates an unconfigured driver
func NewPWMDriver() *PWMDriver {
	return &PWMDriver{}
}

// Configure sets up the slice in phase-correct or fast mode with the given
// top. The divider tops out at 255, so the counter runs faster than the
// requested prescaler when it cannot be matched; the duty ratio holds.
func (d *PWMDriver) Configure(cfg core.PWMConfig) error {
	if cfg.Top == 0 {
		return errors.New("pwm: top must be non-zero")
	}
	pin := uint32(cfg.Pin)
	d.slice = getSlice(uint8((pin >> 1) & 0x7))
	d.chanB = pin&1 == 1

	machine.Pin(pin).Configure(machine.PinConfig{Mode: machine.PinPWM})

	counterHz := uint32(core.TimerFreq) / uint32(cfg.Prescaler)
	div := machine.CPUFrequency() / counterHz
	if div == 0 {
		div = 1
	}
	if div > divIntMax {
		div = divIntMax
	}

	d.slice.CSR.Set(0)
	d.slice.CTR.Set(0)
	d.slice.CC.Set(0)
	d.slice.DIV.Set(div << divIntPos)
	d.slice.TOP.Set(uint32(cfg.Top))

	csr := uint32(csrEN)
	if cfg.Mode == core.PWMPhaseCorrect {
		csr |= csrPhCorrect
	}
	if cfg.Output == core.PWMSetUpClearDown {
		if d.chanB {
			csr |= csrBInv
		} else {
			csr |= csrAInv
		}
	}
	d.slice.CSR.Set(csr)
	return nil
}

// SetCompare writes the channel's counter-compare value. The slice
// double-buffers it until the counter wraps.
func (d *PWMDriver) SetCompare(value uint16) {
	d.compare = value
	if d.slice == nil {
		return
	}
	if d.chanB {
		d.slice.CC.ReplaceBits(uint32(value), 0xFFFF, 16)
		return
	}
	d.slice.CC.ReplaceBits(uint32(value), 0xFFFF, 0)
}

func (d *PWMDriver) Compare() uint16 {
	return d.compare
}
