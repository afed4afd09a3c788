// Package sim models the sensor boards' AVR peripherals on the host:
// converter status and result registers, output pins, timer1 PWM and the
// bus responder, all against core's virtual CPU clock.
//
// Every register access made by the main loop costs AccessTicks cycles and
// lets due timers fire, so compare-match interrupts and conversion
// completions interleave with the spin loops the way they would on the
// chip. The model shares core's global clock and timer list; run one Board
// at a time.
package sim

import (
	"errors"

	"powersensor/core"
)

// Converter timing: 13 ADC clocks per conversion at F_CPU/64.
const (
	DefaultConversionTicks = 13 * 64
	DefaultAccessTicks     = 4
)

// ErrNack is returned for a master transfer to an address nobody answers.
var ErrNack = errors.New("sim: address not acknowledged")

// Input produces the raw 10-bit level of an analog channel.
type Input func() uint16

// Board is one simulated sensor board.
type Board struct {
	ConversionTicks uint32
	AccessTicks     uint32

	// converter
	cfg         core.ADCConfig
	mux         core.ADCChannelID
	busy        bool
	convChannel core.ADCChannelID
	result      uint16
	latched     bool
	latchedHigh uint8
	unread      bool
	inputs      map[core.ADCChannelID]Input
	convTimer   core.Timer

	conversions int
	overwrites  int
	lost        int
	history     []core.ADCChannelID

	// port
	outputs map[core.GPIOPin]bool
	levels  map[core.GPIOPin]bool
	toggles map[core.GPIOPin]int

	// timer1
	pwmCfg        core.PWMConfig
	pwmConfigured bool
	compare       uint16

	// responder
	addr      core.I2CAddress
	tx        *core.TxBuffer
	listening bool
	reads     int
}

// NewBoard returns an idle board with every channel reading zero.
func NewBoard() *Board {
	return &Board{
		ConversionTicks: DefaultConversionTicks,
		AccessTicks:     DefaultAccessTicks,
		inputs:          make(map[core.ADCChannelID]Input),
		outputs:         make(map[core.GPIOPin]bool),
		levels:          make(map[core.GPIOPin]bool),
		toggles:         make(map[core.GPIOPin]int),
	}
}

// SetInput connects a signal source to a channel.
func (b *Board) SetInput(ch core.ADCChannelID, in Input) {
	b.inputs[ch] = in
}

// SetLevel ties a channel to a constant raw level.
func (b *Board) SetLevel(ch core.ADCChannelID, raw uint16) {
	b.inputs[ch] = func() uint16 { return raw }
}

// SetSequence feeds the given raw levels to a channel in order, repeating
// the last one once exhausted.
func (b *Board) SetSequence(ch core.ADCChannelID, raws ...uint16) {
	i := 0
	b.inputs[ch] = func() uint16 {
		if len(raws) == 0 {
			return 0
		}
		v := raws[i]
		if i < len(raws)-1 {
			i++
		}
		return v
	}
}

func (b *Board) access() {
	core.AdvanceTime(b.AccessTicks)
}

// --- core.ADCDriver ---

func (b *Board) Init(cfg core.ADCConfig) error {
	b.cfg = cfg
	return nil
}

func (b *Board) SelectChannel(ch core.ADCChannelID) {
	b.access()
	b.mux = ch & core.MaxADCChannelID
}

// StartConversion sets ADSC. Writing it while a conversion runs has no
// effect. It runs in interrupt context and never advances the clock.
func (b *Board) StartConversion() {
	if b.busy {
		return
	}
	if b.unread {
		b.overwrites++
	}
	b.busy = true
	b.convChannel = b.mux
	b.convTimer.WakeTime = core.GetTime() + b.ConversionTicks
	b.convTimer.Handler = b.conversionDone
	core.ScheduleTimer(&b.convTimer)
}

func (b *Board) conversionDone(t *core.Timer) uint8 {
	b.busy = false
	b.conversions++
	b.history = append(b.history, b.convChannel)

	// While ADCL has been read and ADCH not yet, the data registers are
	// locked and the new result is dropped.
	if b.latched {
		b.lost++
		return core.SF_DONE
	}
	var raw uint16
	if in, ok := b.inputs[b.convChannel]; ok {
		raw = in()
	}
	b.result = raw & 0x03FF
	b.unread = true
	return core.SF_DONE
}

func (b *Board) Busy() bool {
	b.access()
	return b.busy
}

func (b *Board) ReadLow() uint8 {
	b.access()
	b.latched = true
	b.latchedHigh = uint8(b.result >> 8)
	return uint8(b.result)
}

func (b *Board) ReadHigh() uint8 {
	b.access()
	if !b.latched {
		return uint8(b.result >> 8)
	}
	b.latched = false
	b.unread = false
	return b.latchedHigh
}

// ADCConfig returns the configuration passed to Init.
func (b *Board) ADCConfig() core.ADCConfig {
	return b.cfg
}

// Mux returns the channel the select bits currently point at.
func (b *Board) Mux() core.ADCChannelID {
	return b.mux
}

// Conversions returns how many conversions completed.
func (b *Board) Conversions() int {
	return b.conversions
}

// Overwrites counts conversions started while the previous result was
// still unread.
func (b *Board) Overwrites() int {
	return b.overwrites
}

// Lost counts results dropped because the result registers were locked.
func (b *Board) Lost() int {
	return b.lost
}

// History returns the channel of every completed conversion, in order.
func (b *Board) History() []core.ADCChannelID {
	return append([]core.ADCChannelID(nil), b.history...)
}

// --- core.GPIODriver ---

func (b *Board) ConfigureOutput(pin core.GPIOPin) error {
	b.outputs[pin] = true
	return nil
}

func (b *Board) SetPin(pin core.GPIOPin, value bool) {
	b.levels[pin] = value
}

func (b *Board) TogglePin(pin core.GPIOPin) {
	b.levels[pin] = !b.levels[pin]
	b.toggles[pin]++
}

func (b *Board) GetPin(pin core.GPIOPin) bool {
	return b.levels[pin]
}

// IsOutput reports whether pin was configured as an output.
func (b *Board) IsOutput(pin core.GPIOPin) bool {
	return b.outputs[pin]
}

// Toggles counts TogglePin calls on pin.
func (b *Board) Toggles(pin core.GPIOPin) int {
	return b.toggles[pin]
}
