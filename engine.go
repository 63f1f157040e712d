package sistosched

import (
	"context"
	"sync"
	"time"
)

type EngineState int

const (
	StateReady EngineState = iota
	StateRunning
	StatePaused
	StateDone
)

func (s EngineState) String() string {
	return enumName(s, "EngineState", "READY", "RUNNING", "PAUSED", "DONE")
}

// CycleFunc is called once per replayed cycle with the events starting at that cycle.
type CycleFunc[T Timed] func(cycle int, events []T)

// Engine replays a finished timeline cycle by cycle, from 0 to maxCycle inclusive.
// It never recomputes anything: the events are indexed once at construction.
// Pause, Reset and State may be called from any goroutine; stops are observed between steps,
// so a callback that has started always completes. Callbacks never overlap.
type Engine[T Timed] struct {
	mu       sync.Mutex
	stepMu   sync.Mutex
	byCycle  map[int][]T
	onCycle  CycleFunc[T]
	current  int
	maxCycle int
	state    EngineState
	resets   int
	// owner identifies the Run loop allowed to step; Run, Pause and Reset move it on
	owner int
}

func NewEngine[T Timed](events []T, maxCycle int, onCycle CycleFunc[T]) *Engine[T] {
	byCycle := make(map[int][]T)
	for _, e := range events {
		start, _ := e.Span()
		byCycle[start] = append(byCycle[start], e)
	}
	return &Engine[T]{
		byCycle:  byCycle,
		onCycle:  onCycle,
		maxCycle: max(maxCycle, 0),
		state:    StateReady,
	}
}

func (en *Engine[T]) Current() int {
	en.mu.Lock()
	defer en.mu.Unlock()
	return en.current
}

func (en *Engine[T]) MaxCycle() int {
	return en.maxCycle
}

func (en *Engine[T]) State() EngineState {
	en.mu.Lock()
	defer en.mu.Unlock()
	return en.state
}

// Step fires the callback for the current cycle and moves to the next one. It must not be
// called from the callback.
func (en *Engine[T]) Step() {
	en.step(-1)
}

// step runs one cycle. A Run loop passes its owner token and steps only while it still owns
// the replay; -1 steps unconditionally.
func (en *Engine[T]) step(owner int) bool {
	en.stepMu.Lock()
	defer en.stepMu.Unlock()

	en.mu.Lock()
	if owner >= 0 && !en.owns(owner) {
		en.mu.Unlock()
		return false
	}
	cycle, resets := en.current, en.resets
	evs := en.byCycle[cycle]
	en.mu.Unlock()

	if en.onCycle != nil {
		en.onCycle(cycle, evs)
	}

	en.mu.Lock()
	// a Reset while the callback ran wins over the increment
	if en.resets == resets {
		en.current += 1
		if en.current > en.maxCycle {
			en.state = StateDone
		}
	}
	en.mu.Unlock()
	return true
}

// Run steps until the last cycle, waiting delay between cycles. It returns early (and nil)
// when paused or reset, or with ctx.Err() when ctx is cancelled. Calling Run again resumes;
// a loop still waiting from an earlier Run then returns without stepping.
func (en *Engine[T]) Run(ctx context.Context, delay time.Duration) error {
	en.mu.Lock()
	if en.state == StateDone {
		en.mu.Unlock()
		return nil
	}
	en.state = StateRunning
	en.owner += 1
	owner := en.owner
	en.mu.Unlock()

	for {
		if err := ctx.Err(); err != nil {
			en.stop(owner)
			return err
		}
		if !en.step(owner) {
			return nil
		}

		if delay <= 0 || !en.shouldStep(owner) {
			continue
		}
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			en.stop(owner)
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// owns reports whether the loop holding owner may step. en.mu must be held.
func (en *Engine[T]) owns(owner int) bool {
	return en.owner == owner && en.state == StateRunning && en.current <= en.maxCycle
}

func (en *Engine[T]) shouldStep(owner int) bool {
	en.mu.Lock()
	defer en.mu.Unlock()
	return en.owns(owner)
}

// a cancelled run leaves the engine paused where it was, unless another Run took over
func (en *Engine[T]) stop(owner int) {
	en.mu.Lock()
	if en.owner == owner && en.state == StateRunning {
		en.state = StatePaused
	}
	en.mu.Unlock()
}

// Pause asks a running replay to stop at the next cycle boundary. It does nothing otherwise.
func (en *Engine[T]) Pause() {
	en.mu.Lock()
	if en.state == StateRunning {
		en.state = StatePaused
		en.owner += 1
	}
	en.mu.Unlock()
}

// Reset rewinds to cycle 0 and stops any running replay. The event index is kept.
func (en *Engine[T]) Reset() {
	en.mu.Lock()
	en.current = 0
	en.state = StateReady
	en.resets += 1
	en.owner += 1
	en.mu.Unlock()
}
