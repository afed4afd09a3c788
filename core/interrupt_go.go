//go:build !tinygo

package core

// State is the saved interrupt mask. The host simulator delivers
// "interrupts" synchronously from AdvanceTime, so there is nothing to mask.
type State uintptr

func disableInterrupts() State {
	return 0
}

func restoreInterrupts(state State) {}
