package sistosched

import (
	"fmt"
	"strconv"
	"strings"
)

// ------------------------------------------------------------------------------------------------
// INPUT RECORDS
// ------------------------------------------------------------------------------------------------

// Process is the caller's view of a process: what it asks the CPU for.
// Algorithms only ever read it.
type Process struct {
	PID      string
	BT       int // burst time
	AT       int // arrival time
	Priority int // 0..10, lower runs first
}

func (p Process) String() string {
	return p.PID + ": " +
		"bt " + strconv.Itoa(p.BT) +
		", at " + strconv.Itoa(p.AT) +
		", prio " + strconv.Itoa(p.Priority)
}

// Resource is something processes contend for. Counter is its concurrent capacity
// (1 behaves like a mutex).
type Resource struct {
	Name    string
	Counter int
}

func (r Resource) String() string {
	return r.Name + ": counter " + strconv.Itoa(r.Counter)
}

type ActionKind int

const (
	Read ActionKind = iota
	Write
)

func (k ActionKind) String() string {
	return enumName(k, "ActionKind", "READ", "WRITE")
}

// ParseActionKind is case-insensitive.
func ParseActionKind(s string) (ActionKind, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "READ":
		return Read, nil
	case "WRITE":
		return Write, nil
	}
	return 0, fmt.Errorf("unknown action %q (must be READ or WRITE)", s)
}

// Action is a request by a process to touch a resource at a given cycle.
type Action struct {
	PID      string
	Kind     ActionKind
	Resource string
	Cycle    int
}

func (a Action) String() string {
	return a.PID + " " + a.Kind.String() + " " + a.Resource + " @" + strconv.Itoa(a.Cycle)
}

// ------------------------------------------------------------------------------------------------
// SCHEDULER-SIDE PROC STATE
// ------------------------------------------------------------------------------------------------

// this is the scheduler's view of a process, ie what it tracks while the process is in a queue
type procState struct {
	proc      Process
	remaining int
}

func newProcState(p Process) *procState {
	return &procState{
		proc:      p,
		remaining: p.BT,
	}
}

func (ps *procState) String() string {
	return ps.proc.PID + " (rem " + strconv.Itoa(ps.remaining) + ")"
}

// runs the proc for up to toRun cycles or until it is done,
// returning how many cycles were actually used and whether the proc is done.
func (ps *procState) runTillOutOrDone(toRun int) (int, bool) {
	if ps.remaining <= toRun {
		used := ps.remaining
		ps.remaining = 0
		return used, true
	}
	ps.remaining -= toRun
	return toRun, false
}

func (ps *procState) done() bool {
	return ps.remaining <= 0
}
