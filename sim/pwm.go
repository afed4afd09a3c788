package sim

import (
	"errors"

	"powersensor/core"
)

var errPWMNotConfigured = errors.New("sim: timer1 not configured")

// --- core.PWMDriver ---

func (b *Board) Configure(cfg core.PWMConfig) error {
	if cfg.Top == 0 {
		return errors.New("sim: timer1 top must be non-zero")
	}
	b.pwmCfg = cfg
	b.pwmConfigured = true
	b.outputs[cfg.Pin] = true
	return nil
}

func (b *Board) SetCompare(value uint16) {
	b.compare = value
}

func (b *Board) Compare() uint16 {
	return b.compare
}

// PWMConfig returns the timer1 configuration.
func (b *Board) PWMConfig() core.PWMConfig {
	return b.pwmCfg
}

// OutputAt returns the OC1B level while the counter holds the given
// value. The pin is cleared on the compare match while counting up and set
// again on the match while counting down, so in either direction it is
// high exactly while counter < compare and the pulse is centred on BOTTOM.
func (b *Board) OutputAt(counter uint16) (bool, error) {
	if !b.pwmConfigured {
		return false, errPWMNotConfigured
	}
	level := counter < b.compare
	if b.pwmCfg.Output == core.PWMSetUpClearDown {
		level = !level
	}
	return level, nil
}

// DutyRatio is the fraction of a full phase-correct cycle the output
// spends high.
func (b *Board) DutyRatio() (float64, error) {
	if !b.pwmConfigured {
		return 0, errPWMNotConfigured
	}
	r := float64(b.compare) / float64(b.pwmCfg.Top)
	if r > 1 {
		r = 1
	}
	if b.pwmCfg.Output == core.PWMSetUpClearDown {
		r = 1 - r
	}
	return r, nil
}
