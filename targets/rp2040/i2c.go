//go:build rp2040

package rp2040

import (
	"machine"

	"powersensor/core"
)

// Responder implements core.I2CTargetDriver with the I2C block in target
// mode. Every read request is answered with the transmit buffer from
// offset 0; writes are acknowledged and dropped.
type Responder struct {
	bus      *machine.I2C
	sda, scl machine.Pin

	tx *core.TxBuffer
	rx [8]byte
}

// NewResponder constructs the responder on bus; Listen brings it up.
func NewResponder(bus *machine.I2C, sda, scl machine.Pin) *Responder {
	return &Responder{bus: bus, sda: sda, scl: scl}
}

// Listen configures the bus in target mode at addr and starts serving in a
// goroutine.
func (r *Responder) Listen(addr core.I2CAddress, tx *core.TxBuffer) error {
	r.tx = tx
	err := r.bus.Configure(machine.I2CConfig{
		Mode: machine.I2CModeTarget,
		SDA:  r.sda,
		SCL:  r.scl,
	})
	if err != nil {
		return err
	}
	if err := r.bus.Listen(uint8(addr)); err != nil {
		return err
	}
	go r.serve()
	return nil
}

func (r *Responder) serve() {
	for {
		evt, _, err := r.bus.WaitForEvent(r.rx[:])
		if err != nil {
			core.DebugPrintln("i2c: " + err.Error())
			continue
		}
		switch evt {
		case machine.I2CRequest:
			if err := r.bus.Reply(r.tx.Bytes()); err != nil {
				core.DebugPrintln("i2c: reply: " + err.Error())
			}
		case machine.I2CReceive, machine.I2CFinish:
		}
	}
}
