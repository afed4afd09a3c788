//go:build rp2040

// Package rp2040 runs the sensor firmware on an RP2040: register-level
// ADC, alarm-driven sample timer, phase-correct PWM and an I2C target
// responder, registered as core drivers.
package rp2040

import (
	"machine"
	"runtime"

	"github.com/jangala-dev/tinygo-uartx/uartx"

	"powersensor/core"
)

// Pins is the board wiring on a Pico-class board. The I2C responder uses
// I2C0 on its default pins (GP4/GP5); the debug UART is UART1 (GP8/GP9).
var Pins = core.BoardPins{
	ISRDebug:  core.GPIOPin(machine.GPIO14),
	LoopDebug: core.GPIOPin(machine.GPIO15),
	Compare:   core.GPIOPin(machine.GPIO16),
	MotorPWM:  core.GPIOPin(machine.GPIO17),
}

var debugUART = uartx.UART1

// InitDebugUART routes core debug output to UART1 at 115200.
func InitDebugUART() {
	err := debugUART.Configure(uartx.UARTConfig{
		BaudRate: 115200,
		TX:       uartx.UART1_TX_PIN,
		RX:       uartx.UART1_RX_PIN,
	})
	if err != nil {
		return
	}
	core.SetDebugWriter(func(s string) {
		_, _ = debugUART.Write([]byte(s))
		_, _ = debugUART.Write([]byte("\r\n"))
	})
	core.SetDebugEnabled(true)
}

// Init registers the RP2040 drivers with core and returns them as a
// peripheral set for core.Build.
func Init(inputs map[core.ADCChannelID]uint8) core.Peripherals {
	InitClock()

	core.SetADCDriver(NewADCDriver(inputs))
	core.SetGPIODriver(NewGPIODriver())
	core.SetPWMDriver(NewPWMDriver())
	core.SetI2CTargetDriver(NewResponder(machine.I2C0, machine.I2C0_SDA_PIN, machine.I2C0_SCL_PIN))

	return core.Peripherals{
		ADC:    core.MustADC(),
		GPIO:   core.MustGPIO(),
		PWM:    core.MustPWM(),
		Target: core.MustI2CTarget(),
		Pins:   Pins,
		// The responder runs as a goroutine.
		Relax: runtime.Gosched,
	}
}

// Adapt returns v with the RP2040 converter's resolution and 3.3V
// reference.
func Adapt(v core.Variant) core.Variant {
	v.ADC.Resolution = ADCResolution
	v.ADC.Reference = 3300
	return v
}
