//go:build rp2040

package rp2040

import (
	"device/rp"
	"runtime/interrupt"

	"powersensor/core"
)

// The RP2040 timer counts microseconds; core time is in sensor CPU cycles.
const ticksPerUS = core.TimerFreq / 1000000

// alarm1 drives the sample timer. The runtime keeps alarm 0.
const alarm1 = 1 << 1

var (
	sampleScheduler *core.SampleScheduler
	samplePeriodUS  uint32
	sampleNext      uint32
)

// HardwareTicks reads the low word of the microsecond timer scaled to core
// ticks.
func HardwareTicks() uint32 {
	return rp.TIMER.TIMERAWL.Get() * ticksPerUS
}

// InitClock makes the hardware timer core's time base.
func InitClock() {
	core.SetClockSource(HardwareTicks)
	core.TimerInit()
}

// StartSampleTimer runs s's compare match from alarm 1 every timer period.
// The alarm is re-armed from its previous deadline so the period does not
// drift with interrupt latency.
func StartSampleTimer(s *core.SampleScheduler) {
	sampleScheduler = s
	samplePeriodUS = s.Config().PeriodTicks() / ticksPerUS
	if samplePeriodUS == 0 {
		samplePeriodUS = 1
	}

	intr := interrupt.New(rp.IRQ_TIMER_IRQ_1, sampleTimerISR)
	rp.TIMER.INTE.SetBits(alarm1)
	sampleNext = rp.TIMER.TIMERAWL.Get() + samplePeriodUS
	rp.TIMER.ALARM1.Set(sampleNext)
	intr.Enable()
}

func sampleTimerISR(interrupt.Interrupt) {
	rp.TIMER.INTR.Set(alarm1)
	sampleNext += samplePeriodUS
	rp.TIMER.ALARM1.Set(sampleNext)
	sampleScheduler.OnCompareMatch()
}
