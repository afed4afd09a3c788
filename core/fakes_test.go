package core

// fakeADC is a converter driven by the test. StartConversion latches the
// selected channel; complete finishes the conversion. With instant set,
// conversions finish as soon as they start.
type fakeADC struct {
	cfg     ADCConfig
	mux     ADCChannelID
	conv    ADCChannelID
	busy    bool
	instant bool
	result  uint16
	high    uint8
	levels  map[ADCChannelID]uint16

	selects []ADCChannelID
	starts  int
	reads   []string
}

func newFakeADC() *fakeADC {
	return &fakeADC{levels: make(map[ADCChannelID]uint16)}
}

func (f *fakeADC) Init(cfg ADCConfig) error {
	f.cfg = cfg
	return nil
}

func (f *fakeADC) SelectChannel(ch ADCChannelID) {
	f.mux = ch
	f.selects = append(f.selects, ch)
}

func (f *fakeADC) StartConversion() {
	if f.busy {
		return
	}
	f.starts++
	f.conv = f.mux
	f.busy = true
	if f.instant {
		f.complete()
	}
}

func (f *fakeADC) complete() {
	f.busy = false
	f.result = f.levels[f.conv]
}

func (f *fakeADC) Busy() bool {
	return f.busy
}

func (f *fakeADC) ReadLow() uint8 {
	f.reads = append(f.reads, "low")
	f.high = uint8(f.result >> 8)
	return uint8(f.result)
}

func (f *fakeADC) ReadHigh() uint8 {
	f.reads = append(f.reads, "high")
	return f.high
}

type fakeGPIO struct {
	outputs map[GPIOPin]bool
	levels  map[GPIOPin]bool
	toggles map[GPIOPin]int
}

func newFakeGPIO() *fakeGPIO {
	return &fakeGPIO{
		outputs: make(map[GPIOPin]bool),
		levels:  make(map[GPIOPin]bool),
		toggles: make(map[GPIOPin]int),
	}
}

func (g *fakeGPIO) ConfigureOutput(pin GPIOPin) error {
	g.outputs[pin] = true
	return nil
}

func (g *fakeGPIO) SetPin(pin GPIOPin, value bool) {
	g.levels[pin] = value
}

func (g *fakeGPIO) TogglePin(pin GPIOPin) {
	g.levels[pin] = !g.levels[pin]
	g.toggles[pin]++
}

func (g *fakeGPIO) GetPin(pin GPIOPin) bool {
	return g.levels[pin]
}

type fakePWM struct {
	cfg     PWMConfig
	compare uint16
	writes  []uint16
}

func (p *fakePWM) Configure(cfg PWMConfig) error {
	p.cfg = cfg
	return nil
}

func (p *fakePWM) SetCompare(value uint16) {
	p.compare = value
	p.writes = append(p.writes, value)
}

func (p *fakePWM) Compare() uint16 {
	return p.compare
}

type fakeTarget struct {
	addr I2CAddress
	tx   *TxBuffer
}

func (t *fakeTarget) Listen(addr I2CAddress, tx *TxBuffer) error {
	t.addr = addr
	t.tx = tx
	return nil
}

// resetClock puts core's virtual clock and timer list back to boot state.
func resetClock() {
	ResetTimers()
	SetClockSource(nil)
	SetTime(0)
	TimerInit()
}
