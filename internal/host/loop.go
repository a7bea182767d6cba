package host

import (
	"context"
	"sync"
	"time"

	"github.com/vovakirdan/tui-volley/internal/core"
	"github.com/vovakirdan/tui-volley/internal/games/volley"
)

// Loop runs a Driver in real time. Input arrives on a channel and is applied
// at the next tick; the loop can only be interrupted between ticks.
type Loop struct {
	driver   *Driver
	tickRate int

	inputMu   sync.Mutex
	pending   []core.Intent
	serve     bool
	inputChan chan core.InputFrame

	done     chan struct{}
	doneOnce sync.Once
}

// NewLoop wraps a driver in a real-time loop.
func NewLoop(d *Driver, tickRate int) *Loop {
	if tickRate <= 0 {
		tickRate = core.DefaultConfig().TickRate
	}
	return &Loop{
		driver:    d,
		tickRate:  tickRate,
		pending:   make([]core.Intent, d.Humans()),
		inputChan: make(chan core.InputFrame, 64),
		done:      make(chan struct{}),
	}
}

// SendInput queues input for the next tick.
// Non-blocking, uses a buffered channel.
func (l *Loop) SendInput(in core.InputFrame) {
	select {
	case l.inputChan <- in:
	default:
		// Channel full, drop input
	}
}

// Run ticks until the match ends, ctx is cancelled or Stop is called.
// onTick runs after every tick with that tick's outcomes.
func (l *Loop) Run(ctx context.Context, onTick func(*Driver, []volley.Outcome)) error {
	defer l.Stop()

	ticker := time.NewTicker(time.Second / time.Duration(l.tickRate))
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			out := l.runTick()
			if onTick != nil {
				onTick(l.driver, out)
			}
			if l.driver.Done() || l.stopped() {
				return nil
			}

		case <-ctx.Done():
			return ctx.Err()

		case <-l.done:
			return nil
		}
	}
}

func (l *Loop) runTick() []volley.Outcome {
	l.drainInputs()

	l.inputMu.Lock()
	intents := append([]core.Intent(nil), l.pending...)
	serve := l.serve
	// Inputs are consumed by the tick
	clear(l.pending)
	l.serve = false
	l.inputMu.Unlock()

	return l.driver.Step(intents, serve)
}

func (l *Loop) drainInputs() {
	l.inputMu.Lock()
	defer l.inputMu.Unlock()

	for {
		select {
		case in := <-l.inputChan:
			for slot := range l.pending {
				l.pending[slot] = l.pending[slot].Merge(in.Intent(slot))
			}
			if in.Has(core.ActionServe) {
				l.serve = true
			}
		default:
			return
		}
	}
}

func (l *Loop) stopped() bool {
	select {
	case <-l.done:
		return true
	default:
		return false
	}
}

// Stop ends the loop.
func (l *Loop) Stop() {
	l.doneOnce.Do(func() {
		close(l.done)
	})
}
