//go:build rp2040

// Command sensor is the board firmware. The variant is chosen at link
// time:
//
//	tinygo flash -target pico -ldflags "-X main.variant=powerboard" ./firmware/sensor
package main

import (
	"time"

	"powersensor/core"
	"powersensor/targets/rp2040"
)

var (
	variant = core.PowerSensorV02.Name
	debug   = ""
)

func main() {
	rp2040.InitDebugUART()

	v, ok := core.LookupVariant(variant)
	if !ok {
		halt("unknown variant " + variant)
	}
	v.Debug = debug != ""

	fw, err := core.Build(rp2040.Adapt(v), rp2040.Init(rp2040.SensorInputs))
	if err != nil {
		halt(err.Error())
	}
	if fw.Scheduler != nil {
		rp2040.StartSampleTimer(fw.Scheduler)
	}

	fw.Run()

	// Boards without an acquisition loop keep serving the bus.
	select {}
}

func halt(msg string) {
	for {
		core.DebugPrintln(msg)
		time.Sleep(time.Second)
	}
}
