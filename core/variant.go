package core

// VariantKind selects which main loop a board runs.
type VariantKind uint8

const (
	KindMultiplexed VariantKind = iota
	KindAveraging
	KindPWM
)

// Variant is the compile-time configuration of one board revision.
type Variant struct {
	Name     string
	Kind     VariantKind
	Channels []ADCChannelID
	Timer    TimerConfig
	ADC      ADCConfig
	Address  I2CAddress
	Debug    bool

	// Averaging boards only.
	Window            int
	SamplesPerPublish int
	Threshold         uint16
}

// Slots returns how many 16-bit slots the transmit buffer needs.
func (v Variant) Slots() int {
	if v.Kind == KindPWM {
		return 0
	}
	return len(v.Channels)
}

// The ADC runs from the 1.1V bandgap, clocked at F_CPU/64 (125kHz).
var sensorADC = ADCConfig{Reference: 1100, Resolution: 10, Prescaler: 64}

// The sensor timer constants claim "500Hz (100Hz per channel)" whether the
// board has 4 or 5 channels; they are kept as shipped.
var (
	PowerSensorV01 = Variant{
		Name:     "powersensor-v0.1",
		Kind:     KindMultiplexed,
		Channels: []ADCChannelID{0, 1, 2, 5},
		Timer:    TimerConfig{ClockHz: TimerFreq, Prescaler: Prescaler64, Compare: 250},
		ADC:      sensorADC,
		Address:  SlaveAddress,
	}

	PowerSensorV02 = Variant{
		Name:     "powersensor-v0.2",
		Kind:     KindMultiplexed,
		Channels: []ADCChannelID{0, 1, 2, 3, 7}, // PA0, PA1, PA2, PA3, PA7
		Timer:    TimerConfig{ClockHz: TimerFreq, Prescaler: Prescaler64, Compare: 250},
		ADC:      sensorADC,
		Address:  SlaveAddress,
	}

	// Compare 78 at clk/1024 was meant to be 100Hz per ADC.
	// TODO: scale the rate by the channel count once the board samples more than ADC3.
	PowerBoard = Variant{
		Name:              "powerboard",
		Kind:              KindAveraging,
		Channels:          []ADCChannelID{3},
		Timer:             TimerConfig{ClockHz: TimerFreq, Prescaler: Prescaler1024, Compare: 78},
		ADC:               sensorADC,
		Address:           SlaveAddress,
		Window:            16,
		SamplesPerPublish: 16,
		Threshold:         DefaultThreshold,
	}

	MotorBoard = Variant{
		Name:    "motorboard",
		Kind:    KindPWM,
		Address: SlaveAddress,
	}
)

// Variants lists every board revision.
func Variants() []Variant {
	return []Variant{PowerSensorV01, PowerSensorV02, PowerBoard, MotorBoard}
}

// LookupVariant finds a variant by name.
func LookupVariant(name string) (Variant, bool) {
	for _, v := range Variants() {
		if v.Name == name {
			return v, true
		}
	}
	return Variant{}, false
}

// Banner describes the variant in one line for the boot log.
func (v Variant) Banner() string {
	s := v.Name + " addr=" + hexByte(uint8(v.Address))
	if v.Kind == KindPWM {
		return s + " pwm"
	}
	s += " channels=" + itoa(len(v.Channels)) +
		" rate=" + utoa(v.Timer.RateHz()) + "Hz"
	if v.Kind == KindAveraging {
		s += " window=" + itoa(v.Window) + " threshold=" + utoa(uint32(v.Threshold))
	}
	return s
}
