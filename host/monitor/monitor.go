// Package monitor turns the bridge's text output into readings.
package monitor

import (
	"bufio"
	"context"
	"io"
	"log"
	"sync"
	"time"

	"powersensor/host/calib"
	"powersensor/protocol"
)

// DefaultBufferSize is the default size of the readings channel.
const DefaultBufferSize = 100

// Reading is one bridge line: the raw slot values and, per configured
// channel, the calibrated value.
type Reading struct {
	Timestamp time.Time
	Raw       []uint16
	Values    []float32
}

// Monitor reads lines from the bridge and publishes Readings.
type Monitor struct {
	lines   []calib.Line
	bufSize int

	mu        sync.Mutex
	malformed int
	dropped   int
	now       func() time.Time
}

// New creates a monitor converting slot i with lines[i]. Slots beyond
// len(lines) are published raw only.
func New(lines []calib.Line, bufSize int) *Monitor {
	if bufSize <= 0 {
		bufSize = DefaultBufferSize
	}
	return &Monitor{
		lines:   append([]calib.Line(nil), lines...),
		bufSize: bufSize,
		now:     time.Now,
	}
}

// Run reads from r until EOF, a read error, or ctx is done. The returned
// channel is closed when reading stops. Malformed lines are counted and
// skipped; when the consumer falls behind, readings are dropped.
//
// A read blocked in r only notices ctx if r is an io.Closer: Run closes
// it when ctx is done. Any other reader keeps the goroutine alive until
// its next line or EOF.
func (m *Monitor) Run(ctx context.Context, r io.Reader) <-chan Reading {
	out := make(chan Reading, m.bufSize)

	go func() {
		defer close(out)

		if c, ok := r.(io.Closer); ok {
			stop := context.AfterFunc(ctx, func() { c.Close() })
			defer stop()
		}

		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			if ctx.Err() != nil {
				return
			}

			reading, ok := m.parse(scanner.Text())
			if !ok {
				continue
			}

			select {
			case out <- reading:
			case <-ctx.Done():
				return
			default:
				m.mu.Lock()
				m.dropped++
				m.mu.Unlock()
				log.Printf("monitor: output channel full, dropping reading")
			}
		}
		if err := scanner.Err(); err != nil && ctx.Err() == nil {
			log.Printf("monitor: read error: %v", err)
		}
	}()

	return out
}

func (m *Monitor) parse(line string) (Reading, bool) {
	raw, err := protocol.ParseLine(line)
	if err == protocol.ErrEmptyLine {
		return Reading{}, false
	}
	if err != nil {
		m.mu.Lock()
		m.malformed++
		m.mu.Unlock()
		return Reading{}, false
	}

	n := len(raw)
	if len(m.lines) < n {
		n = len(m.lines)
	}
	values := make([]float32, n)
	for i := 0; i < n; i++ {
		values[i] = m.lines[i].Apply(raw[i])
	}
	return Reading{Timestamp: m.now(), Raw: raw, Values: values}, true
}

// Malformed returns how many lines failed to parse.
func (m *Monitor) Malformed() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.malformed
}

// Dropped returns how many readings were discarded because the channel
// was full.
func (m *Monitor) Dropped() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.dropped
}
