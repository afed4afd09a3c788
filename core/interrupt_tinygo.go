//go:build tinygo

package core

import "runtime/interrupt"

// disableInterrupts masks interrupts and returns the previous state (cli).
func disableInterrupts() interrupt.State {
	return interrupt.Disable()
}

// restoreInterrupts restores the saved state (sei when it was enabled).
func restoreInterrupts(state interrupt.State) {
	interrupt.Restore(state)
}
