package core

// TxBuffer is the transmit buffer shared with the bus responder.
//
// Slot k holds channel k's latest 16-bit reading at bytes [2k] (low) and
// [2k+1] (high). The acquisition loop is the only writer and the
// responder, running from its own interrupt, the only reader. There is no
// lock: a master read that lands between the two byte writes of PutSample
// sees a torn sample. The sample period is far longer than a bus
// transaction, so this is accepted rather than masked with interrupts off.
type TxBuffer struct {
	buf []byte
}

// NewTxBuffer allocates a buffer with room for slots 16-bit samples.
func NewTxBuffer(slots int) *TxBuffer {
	if slots < 0 {
		slots = 0
	}
	return &TxBuffer{buf: make([]byte, 2*slots)}
}

// Slots returns the number of 16-bit slots.
func (b *TxBuffer) Slots() int {
	return len(b.buf) / 2
}

// Len returns the buffer size in bytes.
func (b *TxBuffer) Len() int {
	return len(b.buf)
}

// PutSample writes v into slot, low byte then high byte. No other byte is
// touched.
func (b *TxBuffer) PutSample(slot int, v ADCValue) {
	b.buf[2*slot] = byte(v)
	b.buf[2*slot+1] = byte(v >> 8)
}

// Sample returns the value currently held in slot.
func (b *TxBuffer) Sample(slot int) ADCValue {
	return ADCValue(b.buf[2*slot]) | ADCValue(b.buf[2*slot+1])<<8
}

// ReadAt copies buffer bytes starting at off into p. It is what the
// responder streams on a master read (always from offset 0).
func (b *TxBuffer) ReadAt(p []byte, off int) int {
	if off < 0 || off >= len(b.buf) {
		return 0
	}
	return copy(p, b.buf[off:])
}

// Bytes exposes the backing array. Callers must treat it as read-only.
func (b *TxBuffer) Bytes() []byte {
	return b.buf
}
