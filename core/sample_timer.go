package core

// TimerConfig is timer0 in CTC (clear timer on compare match) mode.
// The counter runs at ClockHz/Prescaler and fires the compare-match
// interrupt every Compare+1 counts.
type TimerConfig struct {
	ClockHz   uint32
	Prescaler uint16
	Compare   uint8
}

// Prescalers the sample timer recognizes.
const (
	Prescaler64   = 64
	Prescaler1024 = 1024
)

// Validate checks the prescaler against the recognized options.
func (c TimerConfig) Validate() error {
	switch c.Prescaler {
	case Prescaler64, Prescaler1024:
		return nil
	}
	return ErrUnsupportedPrescaler
}

// PeriodTicks returns the compare-match period in CPU cycles.
func (c TimerConfig) PeriodTicks() uint32 {
	return uint32(c.Prescaler) * (uint32(c.Compare) + 1)
}

// RateHz returns the aggregate compare-match rate, truncated.
func (c TimerConfig) RateHz() uint32 {
	p := c.PeriodTicks()
	if p == 0 {
		return 0
	}
	return c.ClockHz / p
}

// ChannelRateHz is the per-channel sample rate when n channels share the
// converter round robin.
func (c TimerConfig) ChannelRateHz(n int) uint32 {
	if n <= 0 {
		return 0
	}
	return c.RateHz() / uint32(n)
}

// CompareFor derives the compare threshold giving rateHz compare matches
// per second at the given prescaler.
func CompareFor(clockHz uint32, prescaler uint16, rateHz uint32) (uint8, error) {
	if err := (TimerConfig{Prescaler: prescaler}).Validate(); err != nil {
		return 0, err
	}
	if rateHz == 0 {
		return 0, ErrCompareOutOfRange
	}
	counts := clockHz / uint32(prescaler) / rateHz
	if counts == 0 || counts > 256 {
		return 0, ErrCompareOutOfRange
	}
	return uint8(counts - 1), nil
}

// SampleScheduler triggers one conversion per timer period, independent of
// how long the acquisition loop takes to consume results.
//
// There is no queueing: if the loop has not harvested the previous result
// when the next compare match fires, the new conversion overwrites it.
type SampleScheduler struct {
	cfg      TimerConfig
	adc      ADCDriver
	gpio     GPIODriver
	debugPin GPIOPin

	timer Timer
}

// NewSampleScheduler validates cfg. debugPin may be NoPin; gpio may then
// be nil.
func NewSampleScheduler(cfg TimerConfig, adc ADCDriver, gpio GPIODriver, debugPin GPIOPin) (*SampleScheduler, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	s := &SampleScheduler{
		cfg:      cfg,
		adc:      adc,
		gpio:     gpio,
		debugPin: debugPin,
	}
	if gpio == nil {
		s.debugPin = NoPin
	}
	return s, nil
}

// Config returns the timer configuration.
func (s *SampleScheduler) Config() TimerConfig {
	return s.cfg
}

// OnCompareMatch is the compare-match interrupt body. It sets the start
// bit and, in debug builds, toggles the ISR debug pin. Nothing else.
func (s *SampleScheduler) OnCompareMatch() {
	s.adc.StartConversion()
	if s.debugPin != NoPin {
		s.gpio.TogglePin(s.debugPin)
	}
}

// Arm schedules compare matches on the core timer list, first at
// start + PeriodTicks and then every PeriodTicks. Targets with a hardware
// compare interrupt call OnCompareMatch from it instead.
func (s *SampleScheduler) Arm(start uint32) {
	CancelTimer(&s.timer)
	s.timer.WakeTime = start + s.cfg.PeriodTicks()
	s.timer.Handler = s.compareMatchEvent
	ScheduleTimer(&s.timer)
}

// Disarm removes the scheduled compare match.
func (s *SampleScheduler) Disarm() {
	CancelTimer(&s.timer)
}

func (s *SampleScheduler) compareMatchEvent(t *Timer) uint8 {
	s.OnCompareMatch()
	t.WakeTime += s.cfg.PeriodTicks()
	return SF_RESCHEDULE
}
