//go:build rp2040

package rp2040

import (
	"machine"

	"powersensor/core"
)

// GPIODriver implements core.GPIODriver with machine.Pin. Pin numbers are
// GPIO numbers.
type GPIODriver struct {
	configured map[core.GPIOPin]machine.Pin
}

// NewGPIODriver creates a new RP2040 GPIO driver
func NewGPIODriver() *GPIODriver {
	return &GPIODriver{
		configured: make(map[core.GPIOPin]machine.Pin),
	}
}

// ConfigureOutput configures a pin as a digital output driven low
func (d *GPIODriver) ConfigureOutput(pin core.GPIOPin) error {
	if _, ok := d.configured[pin]; ok {
		return nil
	}
	p := machine.Pin(pin)
	p.Configure(machine.PinConfig{Mode: machine.PinOutput})
	p.Low()
	d.configured[pin] = p
	return nil
}

func (d *GPIODriver) SetPin(pin core.GPIOPin, value bool) {
	machine.Pin(pin).Set(value)
}

// TogglePin inverts the pin. It is called from the sample timer interrupt,
// so it skips the configured map.
func (d *GPIODriver) TogglePin(pin core.GPIOPin) {
	p := machine.Pin(pin)
	p.Set(!p.Get())
}

func (d *GPIODriver) GetPin(pin core.GPIOPin) bool {
	return machine.Pin(pin).Get()
}
