package core

// PWMMode selects the counter waveform.
type PWMMode uint8

const (
	// PWMPhaseCorrect counts up to Top then back down (timer1 mode 10).
	PWMPhaseCorrect PWMMode = iota
	// PWMFast counts up to Top and wraps.
	PWMFast
)

// PWMOutput selects the compare-output behaviour of the pin.
type PWMOutput uint8

const (
	// PWMClearUpSetDown clears the pin on compare match while up-counting
	// and sets it while down-counting (COM1B1).
	PWMClearUpSetDown PWMOutput = iota
	// PWMSetUpClearDown is the inverted polarity (COM1B1|COM1B0).
	PWMSetUpClearDown
)

// PWMConfig is the timer configuration of a PWM output.
type PWMConfig struct {
	Pin       GPIOPin
	Prescaler uint16
	Top       uint16
	Mode      PWMMode
	Output    PWMOutput
}

// PWMDriver is the abstract PWM interface that core code uses.
// Platform-specific implementations handle actual hardware control.
type PWMDriver interface {
	// Configure sets up the counter, top and output polarity.
	Configure(cfg PWMConfig) error

	// SetCompare writes the output-compare register.
	SetCompare(value uint16)

	// Compare reads back the output-compare register.
	Compare() uint16
}

// Global singleton used by core code.
var pwmDriver PWMDriver

// SetPWMDriver is called by target-specific code to register its driver.
func SetPWMDriver(d PWMDriver) {
	pwmDriver = d
}

// MustPWM returns the configured driver or panics if missing.
func MustPWM() PWMDriver {
	if pwmDriver == nil {
		panic("PWM driver not configured")
	}
	return pwmDriver
}
