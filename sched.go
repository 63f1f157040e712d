package sistosched

import (
	"fmt"
	"slices"
	"sort"
)

// arrivals hands procs to a ready queue in arrival order.
// the input is copied and stable sorted, so equal arrival times keep their input order.
type arrivals struct {
	procs []Process
	i     int
}

func newArrivals(processes []Process) *arrivals {
	procs := slices.Clone(processes)
	sort.SliceStable(procs, func(i, j int) bool {
		return procs[i].AT < procs[j].AT
	})
	return &arrivals{procs: procs}
}

func (a *arrivals) pending() bool {
	return a.i < len(a.procs)
}

func (a *arrivals) next() int {
	return a.procs[a.i].AT
}

// moves every proc that has arrived by now into q.
// procs with nothing to run never enter the queue (they would only produce empty slices).
func (a *arrivals) admit(now int, q *Queue) {
	for a.pending() && a.procs[a.i].AT <= now {
		if ps := newProcState(a.procs[a.i]); !ps.done() {
			q.enq(ps)
		}
		a.i++
	}
}

// runs procs to completion one after the other, each time picking the first minimum of
// the ready queue according to less. jumps the clock when nothing is ready.
func runToCompletion(processes []Process, less func(a, b *procState) bool) []Event {
	arr := newArrivals(processes)
	ready := newQueue()
	timeline := make([]Event, 0, len(processes))
	current := 0

	for arr.pending() || ready.qlen() > 0 {
		arr.admit(current, ready)
		if ready.qlen() == 0 {
			current = arr.next()
			continue
		}
		p := ready.deqMin(less)
		start := current
		used, _ := p.runTillOutOrDone(p.remaining)
		current += used
		timeline = append(timeline, Event{PID: p.proc.PID, Start: start, End: current})
	}
	return timeline
}

func arrivedFirst(a, b *procState) bool {
	return false
}

func shorterBurst(a, b *procState) bool {
	return a.proc.BT < b.proc.BT
}

func higherPriority(a, b *procState) bool {
	return a.proc.Priority < b.proc.Priority
}

// on equal remaining time the proc that arrived last wins
func shorterRemaining(a, b *procState) bool {
	if a.remaining != b.remaining {
		return a.remaining < b.remaining
	}
	return a.proc.AT > b.proc.AT
}

// FIFO runs processes in arrival order, one event each.
func FIFO(processes []Process) []Event {
	return runToCompletion(processes, arrivedFirst)
}

// SJF is non-preemptive shortest job first. Ties go to ready queue order.
func SJF(processes []Process) []Event {
	return runToCompletion(processes, shorterBurst)
}

// PriorityNP is non-preemptive priority scheduling, lower value first. Ties go to ready queue order.
func PriorityNP(processes []Process) []Event {
	return runToCompletion(processes, higherPriority)
}

// SRT is preemptive shortest remaining time, decided one cycle at a time.
// Consecutive cycles of the same process are merged into a single event.
func SRT(processes []Process) []Event {
	arr := newArrivals(processes)
	ready := newQueue()
	timeline := make([]Event, 0, len(processes))
	current := 0

	var running *procState
	sliceStart := 0

	for arr.pending() || ready.qlen() > 0 {
		arr.admit(current, ready)
		if ready.qlen() == 0 {
			current = arr.next()
			continue
		}

		i := ready.minIndex(shorterRemaining)
		p := ready.at(i)
		if p != running {
			if running != nil {
				timeline = append(timeline, Event{PID: running.proc.PID, Start: sliceStart, End: current})
				if VERBOSE_SCHEDULER {
					fmt.Printf("srt: %v preempts %v at %d, ready %v\n", p, running, current, ready)
				}
			}
			sliceStart = current
			running = p
		}

		p.runTillOutOrDone(1)
		current += 1

		if p.done() {
			timeline = append(timeline, Event{PID: p.proc.PID, Start: sliceStart, End: current})
			ready.removeAt(i)
			running = nil
		}
	}
	return timeline
}

// RoundRobin gives each ready process up to quantum cycles per turn.
// Processes that arrive during a turn are queued ahead of the one that just ran.
// quantum must be at least 1; Schedule enforces that, called directly with less it returns nil.
func RoundRobin(processes []Process, quantum int) []Event {
	if quantum < 1 {
		return nil
	}
	arr := newArrivals(processes)
	ready := newQueue()
	timeline := make([]Event, 0, len(processes))
	current := 0

	for arr.pending() || ready.qlen() > 0 {
		arr.admit(current, ready)
		if ready.qlen() == 0 {
			current = arr.next()
			continue
		}

		p := ready.deq()
		start := current
		used, done := p.runTillOutOrDone(quantum)
		current += used
		timeline = append(timeline, Event{PID: p.proc.PID, Start: start, End: current})

		arr.admit(current, ready)
		if !done {
			ready.enq(p)
		}
		if VERBOSE_SCHEDULER {
			fmt.Printf("rr: ran %v [%d,%d), ready %v\n", p, start, current, ready)
		}
	}
	return timeline
}
