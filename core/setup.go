package core

// Setup runs fn with interrupts masked. Peripheral init (timer, converter,
// bus responder) must complete before the first compare match or bus
// event can fire.
func Setup(fn func() error) error {
	state := disableInterrupts()
	defer restoreInterrupts(state)
	return fn()
}
