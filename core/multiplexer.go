package core

// MaxChannels is the largest channel table a board carries.
const MaxChannels = 8

// MultiplexerConfig describes the round-robin acquisition.
type MultiplexerConfig struct {
	// Channels is the mux order. Slot k of the transmit buffer always
	// carries Channels[k].
	Channels []ADCChannelID

	// Resolution of the raw conversion, used to widen results to 16 bits.
	Resolution uint8

	// DebugPin toggles once per harvested conversion. NoPin disables it.
	DebugPin GPIOPin

	// Relax, if set, runs on every spin iteration. Targets with a
	// cooperative scheduler use it to let the bus responder run.
	Relax func()
}

// Multiplexer is the acquisition context: channel table, active index and
// transmit buffer, owned by the main loop. The compare-match interrupt
// only ever touches the converter's start bit.
type Multiplexer struct {
	channels []ADCChannelID
	index    int
	shift    uint8

	adc      ADCDriver
	tx       *TxBuffer
	gpio     GPIODriver
	debugPin GPIOPin
	relax    func()

	harvested uint32
}

// NewMultiplexer validates cfg and selects the first channel.
func NewMultiplexer(cfg MultiplexerConfig, adc ADCDriver, gpio GPIODriver, tx *TxBuffer) (*Multiplexer, error) {
	n := len(cfg.Channels)
	if n == 0 {
		return nil, ErrNoChannels
	}
	if n > MaxChannels {
		return nil, ErrTooManyChannels
	}
	for _, ch := range cfg.Channels {
		if ch > MaxADCChannelID {
			return nil, ErrInvalidChannel
		}
	}
	if tx == nil || tx.Slots() < n {
		return nil, ErrBufferTooSmall
	}
	if cfg.Resolution == 0 || cfg.Resolution > 16 {
		return nil, ErrInvalidResolution
	}

	m := &Multiplexer{
		channels: append([]ADCChannelID(nil), cfg.Channels...),
		shift:    16 - cfg.Resolution,
		adc:      adc,
		tx:       tx,
		gpio:     gpio,
		debugPin: cfg.DebugPin,
		relax:    cfg.Relax,
	}
	if gpio == nil {
		m.debugPin = NoPin
	}
	adc.SelectChannel(m.channels[0])
	return m, nil
}

// Channels returns a copy of the channel table.
func (m *Multiplexer) Channels() []ADCChannelID {
	return append([]ADCChannelID(nil), m.channels...)
}

// Index returns the active channel index.
func (m *Multiplexer) Index() int {
	return m.index
}

// Channel returns the active channel id.
func (m *Multiplexer) Channel() ADCChannelID {
	return m.channels[m.index]
}

// Harvested returns how many conversions the loop has published.
func (m *Multiplexer) Harvested() uint32 {
	return m.harvested
}

// Poll runs one iteration of the acquisition loop. It returns false
// without touching anything while a conversion is in progress. Otherwise
// it publishes the result for the active channel, advances to the next
// channel, arms the mux for it and spins until the scheduler starts the
// next conversion.
//
// Out of reset the converter is idle, so the first Poll publishes the
// power-on result register (zero) into slot 0 before any conversion ran.
func (m *Multiplexer) Poll() bool {
	if m.adc.Busy() {
		return false
	}
	if m.debugPin != NoPin {
		m.gpio.TogglePin(m.debugPin)
	}

	raw := ReadResult(m.adc)
	value := ADCValue(raw << m.shift)
	m.tx.PutSample(m.index, value)
	RecordTiming(EvtPublish, uint8(m.index), GetTime(), uint32(raw), uint32(value))
	m.harvested++

	if m.index < len(m.channels)-1 {
		m.index++
	} else {
		m.index = 0
	}
	m.adc.SelectChannel(m.channels[m.index])

	// Without this the status bit still reads idle and the next Poll
	// would publish the same result again.
	for !m.adc.Busy() {
		if m.relax != nil {
			m.relax()
		}
	}
	return true
}

// Run polls forever. It never returns; a converter that stops converting
// leaves it spinning.
func (m *Multiplexer) Run() {
	for {
		if !m.Poll() && m.relax != nil {
			m.relax()
		}
	}
}
