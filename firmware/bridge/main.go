//go:build rp2040

// Command bridge polls the sensor over I2C and prints each frame as a text
// line on UART0, optionally followed by an INA260 reference voltage in
// millivolts:
//
//	tinygo flash -target pico -ldflags "-X main.reference=ina260" ./firmware/bridge
package main

import (
	"machine"
	"time"

	"github.com/jangala-dev/tinygo-uartx/uartx"

	"powersensor/client"
	"powersensor/protocol"
)

const pollInterval = 10 * time.Millisecond

var reference = ""

var uart = uartx.UART0

func main() {
	err := uart.Configure(uartx.UARTConfig{
		BaudRate: 115200,
		TX:       machine.UART0_TX_PIN,
		RX:       machine.UART0_RX_PIN,
	})
	if err != nil {
		halt()
	}

	bus := machine.I2C0
	err = bus.Configure(machine.I2CConfig{
		Frequency: 100 * machine.KHz,
		SDA:       machine.I2C0_SDA_PIN,
		SCL:       machine.I2C0_SCL_PIN,
	})
	if err != nil {
		halt()
	}

	reader, err := client.New(bus, client.DefaultAddress, protocol.FrameLen)
	if err != nil {
		halt()
	}

	var ref *client.Reference
	if reference == "ina260" {
		ref = client.NewReference(bus)
		if !ref.Connected() {
			_, _ = uart.Write([]byte("ina260 not found\r\n"))
			ref = nil
		}
	}

	line := make([]byte, 0, 64)
	vals := make([]uint16, 0, protocol.FrameLen/2+1)
	for {
		time.Sleep(pollInterval)

		slots, err := reader.Read()
		if err != nil {
			continue
		}
		vals = append(vals[:0], slots...)
		if ref != nil {
			vals = append(vals, millivolts(ref.Voltage()))
		}
		line = protocol.AppendLine(line[:0], vals)
		_, _ = uart.Write(line)
	}
}

func millivolts(uv int32) uint16 {
	if uv <= 0 {
		return 0
	}
	mv := uv / 1000
	if mv > 0xFFFF {
		return 0xFFFF
	}
	return uint16(mv)
}

func halt() {
	for {
		time.Sleep(time.Hour)
	}
}
