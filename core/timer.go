package core

import "sync/atomic"

// CPU clock of the sensor boards (internal RC oscillator, OSCCAL untouched).
const (
	TimerFreq = 8000000 // 8MHz
)

var (
	systemTicks uint32
	bootTime    uint32

	// clockSource, when set, replaces the simulated tick counter with a
	// hardware counter scaled to TimerFreq.
	clockSource func() uint32
)

// SetClockSource registers a hardware time base. nil restores the
// simulated counter.
func SetClockSource(fn func() uint32) {
	clockSource = fn
}

func getSystemTicks() uint32 {
	if clockSource != nil {
		return clockSource()
	}
	return atomic.LoadUint32(&systemTicks)
}

func setSystemTicks(ticks uint32) {
	atomic.StoreUint32(&systemTicks, ticks)
}

// GetTime returns the current system time in CPU cycles
func GetTime() uint32 {
	return getSystemTicks()
}

// SetTime sets the current system time (for testing/hardware integration)
func SetTime(ticks uint32) {
	setSystemTicks(ticks)
}

// AdvanceTime moves the clock forward by n cycles and runs every timer
// that became due. The host simulator calls it on each register access.
// The clock stops at each due timer's WakeTime before its handler runs, so
// a handler sees the time its event fired, not the end of the jump.
func AdvanceTime(n uint32) {
	now := getSystemTicks()
	target := now + n
	for {
		wake, ok := nextWakeTime()
		if !ok || wake > target {
			break
		}
		if wake > now {
			now = wake
			setSystemTicks(now)
		}
		ProcessTimers()
	}
	setSystemTicks(target)
	ProcessTimers()
}

// GetUptime returns cycles elapsed since TimerInit.
func GetUptime() uint32 {
	return GetTime() - bootTime
}

// TimerFromUS converts microseconds to timer ticks
func TimerFromUS(us uint32) uint32 {
	return us * (TimerFreq / 1000000)
}

// TimerToUS converts timer ticks to microseconds
func TimerToUS(ticks uint32) uint32 {
	return ticks / (TimerFreq / 1000000)
}

// TimerInit records the boot time.
func TimerInit() {
	bootTime = GetTime()
}

// ProcessTimers processes scheduled timers
func ProcessTimers() {
	currentTime = GetTime()
	TimerDispatch()
}
