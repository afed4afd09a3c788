package core

// MovingAverage is a 16-bit running estimate updated by exponential
// integration: avg += (sample - avg) / window. Division truncates toward
// zero, so the estimate stops moving once it is within window-1 of a
// constant input. It is never cleared; it simply converges again.
type MovingAverage struct {
	window int32
	avg    uint16
}

// NewMovingAverage returns an average with the given window, starting at 0.
func NewMovingAverage(window int) (*MovingAverage, error) {
	if window <= 0 {
		return nil, ErrInvalidWindow
	}
	return &MovingAverage{window: int32(window)}, nil
}

// Add integrates one sample and returns the new estimate.
func (a *MovingAverage) Add(sample uint16) uint16 {
	diff := int32(sample) - int32(a.avg)
	a.avg = uint16(int32(a.avg) + diff/a.window)
	return a.avg
}

// Value returns the current estimate.
func (a *MovingAverage) Value() uint16 {
	return a.avg
}

// Window returns the integration window.
func (a *MovingAverage) Window() int {
	return int(a.window)
}

// DefaultThreshold is the comparator trip point, half of full scale.
const DefaultThreshold = 32768

// Comparator drives a digital output from a published value: high when the
// value is strictly above Threshold, low otherwise.
type Comparator struct {
	gpio      GPIODriver
	pin       GPIOPin
	threshold uint16
	state     bool
}

// NewComparator configures pin as an output and drives it low.
func NewComparator(gpio GPIODriver, pin GPIOPin, threshold uint16) (*Comparator, error) {
	if err := gpio.ConfigureOutput(pin); err != nil {
		return nil, err
	}
	gpio.SetPin(pin, false)
	return &Comparator{gpio: gpio, pin: pin, threshold: threshold}, nil
}

// Update drives the output for v and returns the new pin state.
func (c *Comparator) Update(v uint16) bool {
	c.state = v > c.threshold
	c.gpio.SetPin(c.pin, c.state)
	return c.state
}

// State returns the last driven pin state.
func (c *Comparator) State() bool {
	return c.state
}

// AveragerConfig describes the single-channel averaging board.
type AveragerConfig struct {
	Channel           ADCChannelID
	Resolution        uint8
	Window            int
	SamplesPerPublish int
	OutputPin         GPIOPin
	Threshold         uint16
}

// Averager replaces the multiplexed loop with blocking single-shot
// conversions fed through a moving average. Each cycle publishes the
// estimate into slot 0 and drives the comparator output from it.
type Averager struct {
	cfg  AveragerConfig
	adc  ADCDriver
	tx   *TxBuffer
	avg  *MovingAverage
	comp *Comparator
}

// NewAverager validates cfg and configures the comparator output.
func NewAverager(cfg AveragerConfig, adc ADCDriver, gpio GPIODriver, tx *TxBuffer) (*Averager, error) {
	if cfg.Channel > MaxADCChannelID {
		return nil, ErrInvalidChannel
	}
	if cfg.Resolution == 0 || cfg.Resolution > 16 {
		return nil, ErrInvalidResolution
	}
	if tx == nil || tx.Slots() < 1 {
		return nil, ErrBufferTooSmall
	}
	if cfg.SamplesPerPublish <= 0 {
		cfg.SamplesPerPublish = 1
	}
	avg, err := NewMovingAverage(cfg.Window)
	if err != nil {
		return nil, err
	}
	comp, err := NewComparator(gpio, cfg.OutputPin, cfg.Threshold)
	if err != nil {
		return nil, err
	}
	return &Averager{cfg: cfg, adc: adc, tx: tx, avg: avg, comp: comp}, nil
}

// Cycle takes SamplesPerPublish conversions and publishes the estimate.
func (a *Averager) Cycle() ADCValue {
	for i := 0; i < a.cfg.SamplesPerPublish; i++ {
		raw := Convert(a.adc, a.cfg.Channel)
		a.avg.Add(uint16(Widen(raw, a.cfg.Resolution)))
	}
	value := ADCValue(a.avg.Value())
	a.tx.PutSample(0, value)
	a.comp.Update(uint16(value))
	RecordTiming(EvtAverage, 0, GetTime(), uint32(value), boolToU32(a.comp.State()))
	return value
}

// Average exposes the running estimate.
func (a *Averager) Average() *MovingAverage {
	return a.avg
}

// Comparator exposes the threshold output.
func (a *Averager) Comparator() *Comparator {
	return a.comp
}

// Run cycles forever.
func (a *Averager) Run() {
	for {
		a.Cycle()
	}
}

func boolToU32(b bool) uint32 {
	if b {
		return 1
	}
	return 0
}
