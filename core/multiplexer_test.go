package core

import (
	"testing"
)

// newTestMux returns a multiplexer whose spin loop starts the next
// conversion itself, standing in for the compare-match interrupt.
func newTestMux(t *testing.T, channels []ADCChannelID) (*Multiplexer, *fakeADC, *TxBuffer) {
	t.Helper()
	adc := newFakeADC()
	tx := NewTxBuffer(len(channels))
	mux, err := NewMultiplexer(MultiplexerConfig{
		Channels:   channels,
		Resolution: 10,
		DebugPin:   NoPin,
		Relax:      adc.StartConversion,
	}, adc, nil, tx)
	if err != nil {
		t.Fatalf("NewMultiplexer failed: %v", err)
	}
	return mux, adc, tx
}

func TestWiden(t *testing.T) {
	testCases := []struct {
		raw  uint16
		bits uint8
		want ADCValue
	}{
		{0, 10, 0},
		{1, 10, 64},
		{100, 10, 6400},
		{1023, 10, 65472},
		{4095, 12, 65520},
		{0xBEEF, 16, 0xBEEF},
	}

	for _, tc := range testCases {
		if got := Widen(tc.raw, tc.bits); got != tc.want {
			t.Errorf("Widen(%d, %d): expected %d, got %d", tc.raw, tc.bits, tc.want, got)
		}
	}
}

func TestReadResultLowByteFirst(t *testing.T) {
	adc := newFakeADC()
	adc.result = 0x03FF

	if got := ReadResult(adc); got != 0x03FF {
		t.Errorf("Expected 0x03FF, got 0x%04X", got)
	}
	if len(adc.reads) != 2 || adc.reads[0] != "low" || adc.reads[1] != "high" {
		t.Errorf("Expected low then high, got %v", adc.reads)
	}
}

func TestConvertBlocking(t *testing.T) {
	adc := newFakeADC()
	adc.instant = true
	adc.levels[3] = 512

	if got := Convert(adc, 3); got != 512 {
		t.Errorf("Expected 512, got %d", got)
	}
	if adc.starts != 1 {
		t.Errorf("Expected one conversion, got %d", adc.starts)
	}
}

func TestNewMultiplexerSelectsFirstChannel(t *testing.T) {
	mux, adc, _ := newTestMux(t, []ADCChannelID{0, 1, 2, 5})

	if adc.mux != 0 {
		t.Errorf("Expected mux on channel 0, got %d", adc.mux)
	}
	if mux.Index() != 0 || mux.Channel() != 0 {
		t.Errorf("Expected index 0 / channel 0, got %d / %d", mux.Index(), mux.Channel())
	}
	if adc.starts != 0 {
		t.Errorf("Construction must not start a conversion, got %d starts", adc.starts)
	}
}

func TestNewMultiplexerValidation(t *testing.T) {
	adc := newFakeADC()

	testCases := []struct {
		name string
		cfg  MultiplexerConfig
		tx   *TxBuffer
		want error
	}{
		{"empty", MultiplexerConfig{Resolution: 10}, NewTxBuffer(1), ErrNoChannels},
		{"too many", MultiplexerConfig{Channels: make([]ADCChannelID, 9), Resolution: 10}, NewTxBuffer(9), ErrTooManyChannels},
		{"bad channel", MultiplexerConfig{Channels: []ADCChannelID{0x40}, Resolution: 10}, NewTxBuffer(1), ErrInvalidChannel},
		{"small buffer", MultiplexerConfig{Channels: []ADCChannelID{0, 1}, Resolution: 10}, NewTxBuffer(1), ErrBufferTooSmall},
		{"nil buffer", MultiplexerConfig{Channels: []ADCChannelID{0}, Resolution: 10}, nil, ErrBufferTooSmall},
		{"resolution", MultiplexerConfig{Channels: []ADCChannelID{0}}, NewTxBuffer(1), ErrInvalidResolution},
	}

	for _, tc := range testCases {
		_, err := NewMultiplexer(tc.cfg, adc, nil, tc.tx)
		if err != tc.want {
			t.Errorf("%s: expected %v, got %v", tc.name, tc.want, err)
		}
	}
}

func TestPollStartupPublishesZero(t *testing.T) {
	mux, adc, tx := newTestMux(t, []ADCChannelID{0, 1, 2, 5})
	adc.levels[0] = 100

	if !mux.Poll() {
		t.Fatal("Expected the first Poll to publish")
	}
	if got := tx.Sample(0); got != 0 {
		t.Errorf("Expected power-on zero in slot 0, got %d", got)
	}
	if mux.Index() != 1 || adc.mux != 1 {
		t.Errorf("Expected index 1 and mux 1, got %d and %d", mux.Index(), adc.mux)
	}
	if !adc.busy || adc.conv != 1 {
		t.Errorf("Expected a conversion of channel 1 in progress")
	}
}

func TestPollBusyDoesNothing(t *testing.T) {
	mux, _, tx := newTestMux(t, []ADCChannelID{0, 1})
	mux.Poll()
	tx.PutSample(1, 0xABCD)

	if mux.Poll() {
		t.Error("Poll must not publish while a conversion is in progress")
	}
	if tx.Sample(1) != 0xABCD || mux.Index() != 1 {
		t.Error("Poll while busy modified state")
	}
	if mux.Harvested() != 1 {
		t.Errorf("Expected 1 harvested, got %d", mux.Harvested())
	}
}

func TestPollSlotsCarryTheirChannel(t *testing.T) {
	channels := []ADCChannelID{0, 1, 2, 5}
	mux, adc, tx := newTestMux(t, channels)
	adc.levels[0] = 100
	adc.levels[1] = 200
	adc.levels[2] = 300
	adc.levels[5] = 400

	mux.Poll()
	for i := 0; i < len(channels); i++ {
		adc.complete()
		if !mux.Poll() {
			t.Fatalf("Poll %d did not publish", i)
		}
	}

	want := []ADCValue{6400, 12800, 19200, 25600}
	for slot, w := range want {
		if got := tx.Sample(slot); got != w {
			t.Errorf("Slot %d: expected %d, got %d", slot, w, got)
		}
	}

	expectedBytes := []byte{0x00, 0x19, 0x00, 0x32, 0x00, 0x4B, 0x00, 0x64}
	for i, b := range expectedBytes {
		if tx.Bytes()[i] != b {
			t.Errorf("Byte %d: expected 0x%02X, got 0x%02X", i, b, tx.Bytes()[i])
		}
	}
}

func TestPollIndexWraps(t *testing.T) {
	mux, adc, _ := newTestMux(t, []ADCChannelID{0, 1, 2, 3, 7})

	var indices []int
	for i := 0; i < 11; i++ {
		mux.Poll()
		indices = append(indices, mux.Index())
		adc.complete()
	}

	want := []int{1, 2, 3, 4, 0, 1, 2, 3, 4, 0, 1}
	for i := range want {
		if indices[i] != want[i] {
			t.Fatalf("Index sequence: expected %v, got %v", want, indices)
		}
	}

	wantSel := []ADCChannelID{0, 1, 2, 3, 7, 0, 1}
	for i, ch := range wantSel {
		if adc.selects[i] != ch {
			t.Fatalf("Select sequence: expected prefix %v, got %v", wantSel, adc.selects)
		}
	}
}

func TestPollFullScale(t *testing.T) {
	mux, adc, tx := newTestMux(t, []ADCChannelID{0, 1})
	adc.levels[1] = 1023

	mux.Poll()
	adc.complete()
	mux.Poll()

	if got := tx.Sample(1); got != 65472 {
		t.Errorf("Expected 65472, got %d", got)
	}
}

func TestPollTogglesDebugPin(t *testing.T) {
	adc := newFakeADC()
	gpio := newFakeGPIO()
	tx := NewTxBuffer(2)
	mux, err := NewMultiplexer(MultiplexerConfig{
		Channels:   []ADCChannelID{0, 1},
		Resolution: 10,
		DebugPin:   9,
		Relax:      adc.StartConversion,
	}, adc, gpio, tx)
	if err != nil {
		t.Fatalf("NewMultiplexer failed: %v", err)
	}

	for i := 0; i < 6; i++ {
		mux.Poll()
		mux.Poll() // busy, no toggle
		adc.complete()
	}

	if gpio.toggles[9] != 6 {
		t.Errorf("Expected 6 toggles, got %d", gpio.toggles[9])
	}
}

func TestPollRecordsTiming(t *testing.T) {
	ClearTimingRing()
	mux, adc, _ := newTestMux(t, []ADCChannelID{0, 1})
	adc.levels[1] = 10

	mux.Poll()
	adc.complete()
	mux.Poll()

	events := TimingEvents()
	if len(events) != 2 {
		t.Fatalf("Expected 2 events, got %d", len(events))
	}
	last := events[1]
	if last.EventType != EvtPublish || last.Slot != 1 || last.Value1 != 10 || last.Value2 != 640 {
		t.Errorf("Unexpected event %+v", last)
	}
}
