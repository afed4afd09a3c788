package client

import (
	"tinygo.org/x/drivers"
	"tinygo.org/x/drivers/ina260"
)

// Reference is an INA260 on the bridge's bus, read alongside the sensor so
// calibration runs have a known-good voltage and current.
type Reference struct {
	dev ina260.Device
}

// NewReference attaches to an INA260 at its default address.
func NewReference(bus drivers.I2C) *Reference {
	return &Reference{dev: ina260.New(bus)}
}

// Connected reports whether the INA260 answered with its device id.
func (r *Reference) Connected() bool {
	return r.dev.Connected()
}

// Voltage returns bus voltage in microvolts.
func (r *Reference) Voltage() int32 {
	return r.dev.Voltage()
}

// Current returns shunt current in microamps.
func (r *Reference) Current() int32 {
	return r.dev.Current()
}
