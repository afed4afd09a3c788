package core

// I2CAddress is a 7-bit I2C device address.
type I2CAddress uint8

// SlaveAddress is the peripheral address shared by every board variant.
// On the wire it appears shifted left by one (0b00001000) with the r/w flag
// in the LSB.
const SlaveAddress I2CAddress = 0x04

// I2CTargetDriver is the bus responder the firmware hands its transmit
// buffer to. The responder answers every master read by streaming the
// buffer from offset 0; the core never calls it again after Listen.
type I2CTargetDriver interface {
	// Listen starts answering at addr. Must be called before interrupts
	// are enabled.
	Listen(addr I2CAddress, tx *TxBuffer) error
}

// Global singleton used by core code.
var i2cTarget I2CTargetDriver

// SetI2CTargetDriver is called by target-specific code to register its driver.
func SetI2CTargetDriver(d I2CTargetDriver) {
	i2cTarget = d
}

// MustI2CTarget returns the configured driver or panics if missing.
func MustI2CTarget() I2CTargetDriver {
	if i2cTarget == nil {
		panic("I2C target driver not configured")
	}
	return i2cTarget
}
