package sim

import (
	"powersensor/core"
)

// Debug pins of the sensor boards (PB0, PB1) and the comparator output.
const (
	PinISRDebug  core.GPIOPin = 8
	PinLoopDebug core.GPIOPin = 9
	PinCompare   core.GPIOPin = 10
	PinMotorPWM  core.GPIOPin = 5 // OC1B on PA5
)

// Pins is the simulated boards' pin map.
var Pins = core.BoardPins{
	ISRDebug:  PinISRDebug,
	LoopDebug: PinLoopDebug,
	Compare:   PinCompare,
	MotorPWM:  PinMotorPWM,
}

// Firmware is one variant's firmware booted on a simulated Board.
type Firmware struct {
	*core.Firmware
	Board *Board
}

// Boot resets core's clock and timer list and brings up v on board (a
// fresh one when nil). The sample timer is armed on the core timer list,
// so compare matches fire as register accesses advance the clock.
func Boot(v core.Variant, board *Board) (*Firmware, error) {
	core.ResetTimers()
	core.SetClockSource(nil)
	core.SetTime(0)
	core.TimerInit()

	if board == nil {
		board = NewBoard()
	}
	fw, err := core.Build(v, core.Peripherals{
		ADC:    board,
		GPIO:   board,
		PWM:    board,
		Target: board,
		Pins:   Pins,
	})
	if err != nil {
		return nil, err
	}
	if fw.Scheduler != nil {
		fw.Scheduler.Arm(core.GetTime())
	}
	return &Firmware{Firmware: fw, Board: board}, nil
}
