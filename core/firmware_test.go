package core

import (
	"strings"
	"testing"
)

func testPeripherals() (Peripherals, *fakeADC, *fakeGPIO, *fakePWM, *fakeTarget) {
	adc := newFakeADC()
	gpio := newFakeGPIO()
	pwm := &fakePWM{}
	target := &fakeTarget{}
	return Peripherals{
		ADC:    adc,
		GPIO:   gpio,
		PWM:    pwm,
		Target: target,
		Pins:   BoardPins{ISRDebug: 8, LoopDebug: 9, Compare: 10, MotorPWM: 5},
		Relax:  adc.StartConversion,
	}, adc, gpio, pwm, target
}

func TestBuildMultiplexed(t *testing.T) {
	p, adc, gpio, _, target := testPeripherals()
	v := PowerSensorV02
	v.Debug = true

	fw, err := Build(v, p)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if fw.Mux == nil || fw.Scheduler == nil || fw.Averager != nil || fw.Motor != nil {
		t.Fatalf("Unexpected firmware parts %+v", fw)
	}
	if fw.Tx.Slots() != 5 || target.tx != fw.Tx || target.addr != SlaveAddress {
		t.Error("Transmit buffer not handed to the responder")
	}
	if adc.cfg != v.ADC {
		t.Errorf("ADC not initialized: %+v", adc.cfg)
	}
	if !gpio.outputs[8] || !gpio.outputs[9] {
		t.Error("Debug pins not configured")
	}

	fw.Scheduler.OnCompareMatch()
	adc.complete()
	if !fw.Step() {
		t.Error("Expected Step to publish")
	}
}

func TestBuildWithoutDebugLeavesPinsAlone(t *testing.T) {
	p, _, gpio, _, _ := testPeripherals()

	fw, err := Build(PowerSensorV01, p)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	fw.Scheduler.OnCompareMatch()
	if len(gpio.outputs) != 0 || len(gpio.toggles) != 0 {
		t.Errorf("Release build touched pins: %v %v", gpio.outputs, gpio.toggles)
	}
}

func TestBuildAveraging(t *testing.T) {
	p, adc, gpio, _, target := testPeripherals()
	adc.instant = true
	adc.levels[3] = 1023

	fw, err := Build(PowerBoard, p)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if fw.Averager == nil || fw.Scheduler != nil {
		t.Fatal("Expected an averaging firmware without a sample scheduler")
	}
	if target.tx.Slots() != 1 || !gpio.outputs[10] {
		t.Error("Expected one slot and a configured comparator output")
	}

	fw.RunUntil(20)
	if fw.Tx.Sample(0) < 60000 || !gpio.levels[10] {
		t.Errorf("Expected a settled high estimate, got %d", fw.Tx.Sample(0))
	}
}

func TestBuildMotor(t *testing.T) {
	p, _, _, pwm, target := testPeripherals()

	fw, err := Build(MotorBoard, p)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if fw.Motor == nil || fw.Step() {
		t.Fatal("Expected a motor firmware with no acquisition loop")
	}
	if target.tx == nil || target.tx.Len() != 0 {
		t.Error("Expected the responder to hold an empty buffer")
	}
	if pwm.cfg.Pin != 5 || pwm.Compare() != MotorStartupDuty {
		t.Errorf("Expected startup duty 0x%04X on pin 5, got 0x%04X on %d", MotorStartupDuty, pwm.Compare(), pwm.cfg.Pin)
	}
	fw.Run()
}

func TestBuildUnknownKind(t *testing.T) {
	p, _, _, _, _ := testPeripherals()
	if _, err := Build(Variant{Name: "x", Kind: 9}, p); err != errUnknownKind {
		t.Errorf("Expected errUnknownKind, got %v", err)
	}
}

func TestBuildLogsBanner(t *testing.T) {
	var lines []string
	SetDebugWriter(func(s string) { lines = append(lines, s) })
	SetDebugEnabled(true)
	defer func() {
		SetDebugEnabled(false)
		SetDebugWriter(func(string) {})
	}()

	p, _, _, _, _ := testPeripherals()
	if _, err := Build(MotorBoard, p); err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if len(lines) != 1 || !strings.HasPrefix(lines[0], "motorboard") {
		t.Errorf("Expected banner, got %v", lines)
	}
}

func TestDumpTimingRing(t *testing.T) {
	ClearTimingRing()
	for i := 0; i < TimingRingSize+3; i++ {
		RecordTiming(EvtPWM, 0, uint32(i), uint32(i), 0)
	}
	events := TimingEvents()
	if len(events) != TimingRingSize {
		t.Fatalf("Expected %d events, got %d", TimingRingSize, len(events))
	}
	if events[0].Clock != 3 || events[len(events)-1].Clock != TimingRingSize+2 {
		t.Errorf("Expected oldest-first order, got first %d last %d", events[0].Clock, events[len(events)-1].Clock)
	}

	var out []string
	SetDebugWriter(func(s string) { out = append(out, s) })
	defer SetDebugWriter(func(string) {})
	DumpTimingRing()
	if len(out) != TimingRingSize+2 || !strings.Contains(out[1], "PWM") {
		t.Errorf("Unexpected dump %v", out)
	}
	ClearTimingRing()
}

func TestTimingCaptureSwitch(t *testing.T) {
	ClearTimingRing()
	SetTimingEnabled(false)
	RecordTiming(EvtPWM, 0, 1, 0, 0)
	if n := len(TimingEvents()); n != 0 {
		t.Errorf("Expected no events while capture is off, got %d", n)
	}

	SetTimingEnabled(true)
	RecordTiming(EvtPWM, 0, 2, 0, 0)
	if events := TimingEvents(); len(events) != 1 || events[0].Clock != 2 {
		t.Errorf("Expected one event at clock 2, got %v", events)
	}
	ClearTimingRing()
}
