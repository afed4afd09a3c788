package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"

	"powersensor/host/calib"
	"powersensor/host/config"
	"powersensor/host/monitor"
	"powersensor/host/serial"
)

var (
	configPath = flag.String("config", "powersensor.yaml", "Config file path")
	device     = flag.String("device", "", "Serial device path (overrides config)")
	list       = flag.Bool("list", false, "List serial ports and exit")
	raw        = flag.Bool("raw", false, "Print raw slot values instead of calibrated ones")
	calibrate  = flag.String("calibrate", "", "Fit calibration for the named channel against the reference column")
	samples    = flag.Int("samples", 500, "Lines to collect when calibrating")
	stepMV     = flag.Int("step-mv", 50, "Reference change (mV) that starts a new calibration step")
	save       = flag.Bool("save", false, "Write the fitted calibration back to the config file")
)

func main() {
	flag.Parse()

	if *list {
		ports, err := serial.Ports()
		if err != nil {
			log.Fatalf("Error: %v", err)
		}
		for _, p := range ports {
			fmt.Println(p)
		}
		return
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Error: %v", err)
	}
	if *device != "" {
		cfg.Serial.Port = *device
	}

	port, err := serial.Open(&serial.Config{
		Device:      cfg.Serial.Port,
		Baud:        cfg.Serial.Baud,
		ReadTimeout: cfg.Serial.ReadTimeoutMS,
	})
	if err != nil {
		log.Fatalf("Error: %v", err)
	}
	defer port.Close()
	if err := port.Flush(); err != nil {
		log.Printf("flush: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	mon := monitor.New(cfg.Lines(), 0)
	readings := mon.Run(ctx, port)

	if *calibrate != "" {
		if err := runCalibration(cfg, *calibrate, readings); err != nil {
			log.Fatalf("Error: %v", err)
		}
		return
	}

	for r := range readings {
		fmt.Println(format(r, *raw))
	}
	if n := mon.Malformed(); n > 0 {
		log.Printf("skipped %d malformed lines", n)
	}
}

func format(r monitor.Reading, raw bool) string {
	fields := make([]string, 0, len(r.Raw))
	if raw {
		for _, v := range r.Raw {
			fields = append(fields, fmt.Sprint(v))
		}
	} else {
		for _, v := range r.Values {
			fields = append(fields, fmt.Sprintf("%.4f", v))
		}
	}
	return strings.Join(fields, " ")
}

// runCalibration expects bridge lines carrying the sensor slots followed
// by the INA260 reference voltage in millivolts.
func runCalibration(cfg *config.Config, name string, readings <-chan monitor.Reading) error {
	slot := -1
	for i, ch := range cfg.Channels {
		if ch.Name == name {
			slot = i
		}
	}
	if slot < 0 {
		return fmt.Errorf("unknown channel %q", name)
	}

	var c calib.Collector
	lastMV := -1
	collected := 0
	for r := range readings {
		if len(r.Raw) < 2 || slot >= len(r.Raw)-1 {
			continue
		}
		mv := int(r.Raw[len(r.Raw)-1])
		if lastMV < 0 || abs(mv-lastMV) >= *stepMV {
			c.End()
			c.Begin(float32(mv) / 1000)
			lastMV = mv
		}
		c.Add(r.Raw[slot])
		collected++
		if collected >= *samples {
			break
		}
	}
	c.End()

	line, rms, err := calib.Fit(c.Points())
	if err != nil {
		return err
	}
	fmt.Printf("%s: slope=%g offset=%g rms=%g (%d steps)\n", name, line.Slope, line.Offset, rms, len(c.Points()))

	if !*save {
		return nil
	}
	if err := cfg.SetLine(name, line); err != nil {
		return err
	}
	return cfg.Save(*configPath)
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
