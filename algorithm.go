package sistosched

import (
	"fmt"
	"strings"

	"github.com/markphelps/optional"
)

type Algorithm int

const (
	AlgFIFO Algorithm = iota
	AlgSJF
	AlgSRT
	AlgRoundRobin
	AlgPriority
)

// Algorithms lists every algorithm in display order.
var Algorithms = []Algorithm{AlgFIFO, AlgSJF, AlgSRT, AlgRoundRobin, AlgPriority}

func (a Algorithm) String() string {
	return enumName(a, "Algorithm", "FIFO", "SJF", "SRT", "Round Robin", "Priority")
}

// Short is the name used on the command line and in config files.
func (a Algorithm) Short() string {
	return enumName(a, "Algorithm", "fifo", "sjf", "srt", "rr", "priority")
}

func (a Algorithm) NeedsQuantum() bool {
	return a == AlgRoundRobin
}

// ParseAlgorithm is case-insensitive and accepts both the short and the long names.
func ParseAlgorithm(name string) (Algorithm, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "fifo", "fcfs":
		return AlgFIFO, nil
	case "sjf":
		return AlgSJF, nil
	case "srt":
		return AlgSRT, nil
	case "rr", "round robin", "round-robin", "roundrobin":
		return AlgRoundRobin, nil
	case "priority", "prio":
		return AlgPriority, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, name)
}

// ParseAlgorithms parses a list of names, failing on the first bad one.
func ParseAlgorithms(names []string) ([]Algorithm, error) {
	algs := make([]Algorithm, 0, len(names))
	for _, n := range names {
		a, err := ParseAlgorithm(n)
		if err != nil {
			return nil, err
		}
		algs = append(algs, a)
	}
	return algs, nil
}

// ScheduleFunc is the shape every algorithm is bound to.
type ScheduleFunc func(processes []Process, quantum optional.Int) []Event

var scheduleFuncs = map[Algorithm]ScheduleFunc{
	AlgFIFO: func(ps []Process, _ optional.Int) []Event { return FIFO(ps) },
	AlgSJF:  func(ps []Process, _ optional.Int) []Event { return SJF(ps) },
	AlgSRT:  func(ps []Process, _ optional.Int) []Event { return SRT(ps) },
	AlgRoundRobin: func(ps []Process, q optional.Int) []Event {
		return RoundRobin(ps, q.OrElse(0))
	},
	AlgPriority: func(ps []Process, _ optional.Int) []Event { return PriorityNP(ps) },
}

// Func returns the function bound to a.
func (a Algorithm) Func() (ScheduleFunc, error) {
	f, ok := scheduleFuncs[a]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownAlgorithm, int(a))
	}
	return f, nil
}

// CheckQuantum validates quantum for a without running anything.
func (a Algorithm) CheckQuantum(quantum optional.Int) error {
	if !a.NeedsQuantum() {
		return nil
	}
	q, err := quantum.Get()
	if err != nil {
		return fmt.Errorf("%w: %s needs a quantum", ErrInvalidQuantum, a)
	}
	if q < 1 {
		return fmt.Errorf("%w: %d (must be an integer >= 1)", ErrInvalidQuantum, q)
	}
	return nil
}

// Schedule runs alg over processes and returns the timeline and the last cycle it reaches.
// The quantum is only looked at for Round Robin, where it must be present and >= 1.
func Schedule(processes []Process, alg Algorithm, quantum optional.Int) ([]Event, int, error) {
	f, err := alg.Func()
	if err != nil {
		return nil, 0, err
	}
	if err := alg.CheckQuantum(quantum); err != nil {
		return nil, 0, err
	}
	events := f(processes, quantum)
	return events, MaxCycle(events), nil
}
