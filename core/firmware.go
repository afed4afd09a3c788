package core

import "errors"

var errUnknownKind = errors.New("unknown variant kind")

// BoardPins are the board-level outputs a variant may drive. Unused pins
// are NoPin.
type BoardPins struct {
	ISRDebug  GPIOPin
	LoopDebug GPIOPin
	Compare   GPIOPin
	MotorPWM  GPIOPin
}

// Peripherals are the drivers a variant is built on. Drivers a variant
// does not use may be nil.
type Peripherals struct {
	ADC    ADCDriver
	GPIO   GPIODriver
	PWM    PWMDriver
	Target I2CTargetDriver
	Pins   BoardPins

	// Relax is passed to the multiplexer's spin loop.
	Relax func()
}

// Firmware is one variant brought up on a set of peripherals.
type Firmware struct {
	Variant Variant
	Tx      *TxBuffer

	Scheduler *SampleScheduler
	Mux       *Multiplexer
	Averager  *Averager
	Motor     *Motor
}

// Build initializes v's peripherals with interrupts masked and hands the
// transmit buffer to the bus responder. The sample scheduler is returned
// unarmed; the caller connects it to a compare-match source.
func Build(v Variant, p Peripherals) (*Firmware, error) {
	fw := &Firmware{Variant: v, Tx: NewTxBuffer(v.Slots())}

	isrPin, loopPin := NoPin, NoPin
	if v.Debug && p.GPIO != nil {
		isrPin, loopPin = p.Pins.ISRDebug, p.Pins.LoopDebug
	}

	err := Setup(func() error {
		switch v.Kind {
		case KindMultiplexed:
			for _, pin := range []GPIOPin{isrPin, loopPin} {
				if pin == NoPin {
					continue
				}
				if err := p.GPIO.ConfigureOutput(pin); err != nil {
					return err
				}
			}
			sched, err := NewSampleScheduler(v.Timer, p.ADC, p.GPIO, isrPin)
			if err != nil {
				return err
			}
			if err := p.ADC.Init(v.ADC); err != nil {
				return err
			}
			mux, err := NewMultiplexer(MultiplexerConfig{
				Channels:   v.Channels,
				Resolution: v.ADC.Resolution,
				DebugPin:   loopPin,
				Relax:      p.Relax,
			}, p.ADC, p.GPIO, fw.Tx)
			if err != nil {
				return err
			}
			fw.Scheduler, fw.Mux = sched, mux

		case KindAveraging:
			if err := p.ADC.Init(v.ADC); err != nil {
				return err
			}
			avg, err := NewAverager(AveragerConfig{
				Channel:           v.Channels[0],
				Resolution:        v.ADC.Resolution,
				Window:            v.Window,
				SamplesPerPublish: v.SamplesPerPublish,
				OutputPin:         p.Pins.Compare,
				Threshold:         v.Threshold,
			}, p.ADC, p.GPIO, fw.Tx)
			if err != nil {
				return err
			}
			fw.Averager = avg

		case KindPWM:
			// The responder comes up before the PWM timer on this board.
			if err := p.Target.Listen(v.Address, fw.Tx); err != nil {
				return err
			}
			motor, err := NewMotor(p.PWM, MotorPWMConfig(p.Pins.MotorPWM))
			if err != nil {
				return err
			}
			fw.Motor = motor
			return nil

		default:
			return errUnknownKind
		}
		return p.Target.Listen(v.Address, fw.Tx)
	})
	if err != nil {
		return nil, err
	}

	if fw.Motor != nil {
		fw.Motor.SetPWM(MotorStartupDuty)
	}
	DebugPrintln(v.Banner())
	return fw, nil
}

// Step runs one main-loop unit of work: a Poll of the multiplexer or one
// averaging cycle. It reports whether a value was published.
func (fw *Firmware) Step() bool {
	switch {
	case fw.Mux != nil:
		return fw.Mux.Poll()
	case fw.Averager != nil:
		fw.Averager.Cycle()
		return true
	}
	return false
}

// RunUntil steps the main loop until n values have been published.
func (fw *Firmware) RunUntil(n int) {
	for published := 0; published < n; {
		if fw.Step() {
			published++
		}
	}
}

// Run steps the main loop forever. Boards without an acquisition loop
// return immediately; their state lives in the peripherals.
func (fw *Firmware) Run() {
	if fw.Mux == nil && fw.Averager == nil {
		return
	}
	for {
		fw.Step()
	}
}
