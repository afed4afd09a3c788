package core

// MotorPWMConfig is the motorboard's timer1 setup: phase correct, ICR1 top
// at 16-bit max, clk/64, OC1B cleared while up-counting and set while
// down-counting.
func MotorPWMConfig(pin GPIOPin) PWMConfig {
	return PWMConfig{
		Pin:       pin,
		Prescaler: Prescaler64,
		Top:       0xFFFF,
		Mode:      PWMPhaseCorrect,
		Output:    PWMClearUpSetDown,
	}
}

// MotorStartupDuty is the constant duty written once at boot.
const MotorStartupDuty = 0x00FF

// Motor holds the duty-cycle register of the motor output. SetPWM is the
// only mutator; there is no ramping or filtering.
type Motor struct {
	drv PWMDriver
	cfg PWMConfig
}

// NewMotor configures the PWM timer and writes a 0% duty cycle.
func NewMotor(drv PWMDriver, cfg PWMConfig) (*Motor, error) {
	if err := drv.Configure(cfg); err != nil {
		return nil, err
	}
	drv.SetCompare(0)
	return &Motor{drv: drv, cfg: cfg}, nil
}

// SetPWM writes the compare register directly.
func (m *Motor) SetPWM(value uint16) {
	m.drv.SetCompare(value)
	RecordTiming(EvtPWM, 0, GetTime(), uint32(value), uint32(m.cfg.Top))
}

// Duty returns the compare register.
func (m *Motor) Duty() uint16 {
	return m.drv.Compare()
}

// Config returns the timer configuration.
func (m *Motor) Config() PWMConfig {
	return m.cfg
}
