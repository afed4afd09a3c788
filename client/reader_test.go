package client

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"powersensor/core"
	"powersensor/protocol"
	"powersensor/sim"
)

func TestNewRejectsFrameLength(t *testing.T) {
	for _, n := range []int{0, -2, 3} {
		_, err := New(nil, DefaultAddress, n)
		assert.Error(t, err, "frame length %d", n)
	}
}

func TestReaderAgainstSimulatedBoard(t *testing.T) {
	b := sim.NewBoard()
	b.SetLevel(0, 100)
	b.SetLevel(1, 200)
	b.SetLevel(2, 300)
	b.SetLevel(5, 400)
	fw, err := sim.Boot(core.PowerSensorV01, b)
	require.NoError(t, err)
	fw.RunUntil(1 + 2*4)

	r, err := New(sim.NewBus(b), DefaultAddress, protocol.FrameLen)
	require.NoError(t, err)

	vals, err := r.Read()
	require.NoError(t, err)
	// Four slots, then the idle bus.
	assert.Equal(t, []uint16{6400, 12800, 19200, 25600, 0xFFFF}, vals)
	assert.Equal(t, 1, b.MasterReads())
}

func TestReaderWrongAddress(t *testing.T) {
	fw, err := sim.Boot(core.PowerSensorV02, nil)
	require.NoError(t, err)

	r, err := New(sim.NewBus(fw.Board), 0x05, protocol.FrameLen)
	require.NoError(t, err)
	_, err = r.Read()
	assert.ErrorIs(t, err, sim.ErrNack)
}

type recordingBus struct {
	calls [][2]int
	err   error
}

func (b *recordingBus) Tx(addr uint16, w, r []byte) error {
	wl := -1
	if w != nil {
		wl = len(w)
	}
	b.calls = append(b.calls, [2]int{wl, len(r)})
	for i := range r {
		r[i] = byte(i)
	}
	return b.err
}

func TestReaderTransactionShape(t *testing.T) {
	bus := &recordingBus{}
	r, err := New(bus, DefaultAddress, 4)
	require.NoError(t, err)

	vals, err := r.Read()
	require.NoError(t, err)
	assert.Equal(t, []uint16{0x0100, 0x0302}, vals)
	assert.Equal(t, [][2]int{{0, 0}, {-1, 4}}, bus.calls, "zero-byte write, then the read")

	bus.err = errors.New("bus fault")
	_, err = r.Read()
	assert.EqualError(t, err, "bus fault")
}
