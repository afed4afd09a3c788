package core

// ADCChannelID identifies a multiplexer input (the MUX0:5 select bits).
type ADCChannelID uint8

// MaxADCChannelID is the largest value the six mux-select bits can hold.
const MaxADCChannelID = 0x3F

// ADCValue is the reading as published by the firmware.
// Convention here: 16-bit value, even if the converter resolves 10 bits.
type ADCValue uint16

// ADCConfig is the high-level config the core cares about.
type ADCConfig struct {
	// Reference voltage in millivolts (1100 for the internal 1.1V bandgap).
	Reference uint32

	// Resolution in bits of the raw conversion result.
	Resolution uint8

	// Prescaler divides the CPU clock down to the converter clock.
	Prescaler uint8
}

// ADCDriver is the abstract ADC interface that core code uses.
// It mirrors the converter's registers rather than offering a one-shot
// read, because the acquisition loop synchronizes on the status bit.
type ADCDriver interface {
	// Init powers up and configures the ADC peripheral.
	Init(cfg ADCConfig) error

	// SelectChannel rewrites the mux-select bits. The conversion already
	// running is unaffected; the next started conversion samples ch.
	SelectChannel(ch ADCChannelID)

	// StartConversion sets the start bit. Called from interrupt context,
	// so implementations must be O(1) and allocation free.
	StartConversion()

	// Busy reports whether a conversion is in progress.
	Busy() bool

	// ReadLow returns the low result byte and latches the high byte.
	ReadLow() uint8

	// ReadHigh returns the latched high result byte.
	ReadHigh() uint8
}

// ReadResult reads the result registers low byte first, then high byte.
// Reading the low byte first latches the pair, so the order must not change.
func ReadResult(adc ADCDriver) uint16 {
	low := adc.ReadLow()
	high := adc.ReadHigh()
	return uint16(high)<<8 | uint16(low)
}

// Widen scales a raw conversion of the given resolution to 16 bits by a
// fixed left shift. A 10-bit result is multiplied by 64.
func Widen(raw uint16, bits uint8) ADCValue {
	if bits >= 16 {
		return ADCValue(raw)
	}
	return ADCValue(raw << (16 - bits))
}

// Convert performs a blocking single-shot conversion of ch.
// There is no timeout: a converter that never clears its busy bit hangs here.
func Convert(adc ADCDriver, ch ADCChannelID) uint16 {
	adc.SelectChannel(ch)
	adc.StartConversion()
	for adc.Busy() {
	}
	return ReadResult(adc)
}

// Global singleton used by core code.
var adcDriver ADCDriver

// SetADCDriver is called by target-specific code to register its driver.
func SetADCDriver(d ADCDriver) {
	adcDriver = d
}

// MustADC returns the configured driver or panics if missing.
func MustADC() ADCDriver {
	if adcDriver == nil {
		panic("ADC driver not configured")
	}
	return adcDriver
}
