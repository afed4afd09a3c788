package sim

import (
	"powersensor/core"

	"tinygo.org/x/drivers"
)

// idleByte is what a master clocks in past the end of the buffer.
const idleByte = 0xFF

// --- core.I2CTargetDriver ---

func (b *Board) Listen(addr core.I2CAddress, tx *core.TxBuffer) error {
	b.addr = addr
	b.tx = tx
	b.listening = true
	return nil
}

// MasterWrite delivers a master write. The responder keeps no register
// pointer, so the payload is acknowledged and discarded.
func (b *Board) MasterWrite(addr uint16, data []byte) error {
	if !b.listening || addr != uint16(b.addr) {
		return ErrNack
	}
	return nil
}

// MasterRead answers a master read of len(p) bytes, streamed from buffer
// offset 0. It runs between main-loop register accesses, which is where
// the responder interrupt could preempt the loop on the chip.
func (b *Board) MasterRead(addr uint16, p []byte) error {
	if !b.listening || addr != uint16(b.addr) {
		return ErrNack
	}
	n := 0
	if b.tx != nil {
		n = b.tx.ReadAt(p, 0)
	}
	for i := n; i < len(p); i++ {
		p[i] = idleByte
	}
	b.reads++
	return nil
}

// MasterReads counts answered master reads.
func (b *Board) MasterReads() int {
	return b.reads
}

// Bus exposes a Board's responder to bus-master code through
// tinygo.org/x/drivers.I2C.
type Bus struct {
	board *Board
}

var _ drivers.I2C = (*Bus)(nil)

// NewBus wraps b.
func NewBus(b *Board) *Bus {
	return &Bus{board: b}
}

// Tx performs a write (w non-nil, possibly empty) followed by a read
// (r non-empty), as separate transfers to the same address.
func (s *Bus) Tx(addr uint16, w, r []byte) error {
	if w != nil || len(r) == 0 {
		if err := s.board.MasterWrite(addr, w); err != nil {
			return err
		}
	}
	if len(r) > 0 {
		return s.board.MasterRead(addr, r)
	}
	return nil
}
