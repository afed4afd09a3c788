//go:build rp2040

package rp2040

import (
	"device/rp"
	"machine"
	"runtime/volatile"

	"powersensor/core"
)

// ADCResolution is the width of the RP2040 conversion result.
const ADCResolution = 12

// tempSensorInput is the AINSEL value of the on-die temperature sensor.
const tempSensorInput = 4

// SensorInputs maps the sensor boards' channel numbers onto AINSEL. The
// RP2040 has four external inputs: PA5 shares ADC3 with PA3 and PA7 reads
// the temperature sensor.
var SensorInputs = map[core.ADCChannelID]uint8{
	0: 0,
	1: 1,
	2: 2,
	3: 3,
	5: 3,
	7: tempSensorInput,
}

var adcPins = [4]machine.Pin{machine.ADC0, machine.ADC1, machine.ADC2, machine.ADC3}

// ADCDriver implements core.ADCDriver on the ADC control registers.
// READY low is the busy bit; RESULT is latched by ReadLow so the high
// byte read afterwards belongs to the same conversion.
//
// A conversion is over in about 2µs, shorter than a yield to the
// responder goroutine, so Busy also reports true once for every start
// the interrupt made since the last Busy call.
type ADCDriver struct {
	inputs  map[core.ADCChannelID]uint8
	high    uint8
	started volatile.Register8
}

// NewADCDriver constructs the driver but does not Init() it yet.
func NewADCDriver(inputs map[core.ADCChannelID]uint8) *ADCDriver {
	return &ADCDriver{inputs: inputs}
}

func (d *ADCDriver) Init(cfg core.ADCConfig) error {
	machine.InitADC()

	for _, ain := range d.inputs {
		if ain == tempSensorInput {
			rp.ADC.CS.SetBits(rp.ADC_CS_TS_EN)
			continue
		}
		adc := machine.ADC{Pin: adcPins[ain]}
		if err := adc.Configure(machine.ADCConfig{}); err != nil {
			return err
		}
	}

	for !rp.ADC.CS.HasBits(rp.ADC_CS_READY) {
	}
	return nil
}

func (d *ADCDriver) SelectChannel(ch core.ADCChannelID) {
	ain, ok := d.inputs[ch]
	if !ok {
		ain = uint8(ch) & 0x3
	}
	rp.ADC.CS.ReplaceBits(uint32(ain)<<rp.ADC_CS_AINSEL_Pos, rp.ADC_CS_AINSEL_Msk, 0)
}

// StartConversion is called from the sample timer interrupt.
func (d *ADCDriver) StartConversion() {
	rp.ADC.CS.SetBits(rp.ADC_CS_START_ONCE)
	d.started.Set(1)
}

func (d *ADCDriver) Busy() bool {
	if d.started.Get() != 0 {
		d.started.Set(0)
		return true
	}
	return !rp.ADC.CS.HasBits(rp.ADC_CS_READY)
}

func (d *ADCDriver) ReadLow() uint8 {
	v := rp.ADC.RESULT.Get()
	d.high = uint8(v >> 8)
	return uint8(v)
}

func (d *ADCDriver) ReadHigh() uint8 {
	return d.high
}
