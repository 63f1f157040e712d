package sistosched

import (
	"fmt"
	"slices"

	"gonum.org/v1/gonum/stat"
)

type ProcMetrics struct {
	PID        string
	Waiting    int
	Turnaround int
	Finish     int // max end over the proc's events, 0 if it never ran
	Response   int // first start minus arrival
	Slices     int
}

func (pm ProcMetrics) String() string {
	return fmt.Sprintf("%s: WT=%d, TA=%d", pm.PID, pm.Waiting, pm.Turnaround)
}

// Metrics summarizes one scheduling timeline.
type Metrics struct {
	PerProcess    map[string]ProcMetrics
	Order         []string // pids in input order
	AvgWaiting    float64
	AvgTurnaround float64

	StdDevWaiting   float64
	AvgResponse     float64
	Makespan        int // last cycle any event reaches
	Busy            int
	Idle            int
	Utilization     float64 // busy / makespan
	ContextSwitches int
	Throughput      float64 // procs per cycle
}

// For returns the metrics of pid, if it is known.
func (m Metrics) For(pid string) (ProcMetrics, bool) {
	pm, ok := m.PerProcess[pid]
	return pm, ok
}

// ComputeMetrics derives waiting and turnaround time per process, and their means over every
// process given (procs that never ran count as 0/0). No processes gives zero averages.
func ComputeMetrics(events []Event, processes []Process) Metrics {
	evsByPid := make(map[string][]Event)
	for _, e := range events {
		evsByPid[e.PID] = append(evsByPid[e.PID], e)
	}

	m := Metrics{
		PerProcess: make(map[string]ProcMetrics, len(processes)),
		Order:      make([]string, 0, len(processes)),
	}
	waits := make([]float64, 0, len(processes))
	tas := make([]float64, 0, len(processes))
	responses := make([]float64, 0, len(processes))

	for _, p := range processes {
		pm := ProcMetrics{PID: p.PID}
		if evs := evsByPid[p.PID]; len(evs) > 0 {
			firstStart := evs[0].Start
			for _, e := range evs {
				pm.Finish = max(pm.Finish, e.End)
				firstStart = min(firstStart, e.Start)
			}
			pm.Turnaround = pm.Finish - p.AT
			pm.Waiting = pm.Turnaround - p.BT
			pm.Response = firstStart - p.AT
			pm.Slices = len(evs)
		}
		m.PerProcess[p.PID] = pm
		m.Order = append(m.Order, p.PID)
		waits = append(waits, float64(pm.Waiting))
		tas = append(tas, float64(pm.Turnaround))
		responses = append(responses, float64(pm.Response))
	}

	if n := len(processes); n > 0 {
		m.AvgWaiting = stat.Mean(waits, nil)
		m.AvgTurnaround = stat.Mean(tas, nil)
		m.AvgResponse = stat.Mean(responses, nil)
		m.StdDevWaiting = stat.PopStdDev(waits, nil)
	}

	m.Makespan = MaxCycle(events)
	m.Busy = sumOf(lengths(events))
	m.Idle = max(m.Makespan-m.Busy, 0)
	m.ContextSwitches = contextSwitches(events)
	if m.Makespan > 0 {
		m.Utilization = float64(m.Busy) / float64(m.Makespan)
		m.Throughput = float64(len(evsByPid)) / float64(m.Makespan)
	}
	return m
}

func lengths(events []Event) []int {
	out := make([]int, len(events))
	for i, e := range events {
		out[i] = e.Len()
	}
	return out
}

// number of times the cpu goes from one pid to a different one, in chronological order
func contextSwitches(events []Event) int {
	sorted := slices.Clone(events)
	slices.SortStableFunc(sorted, func(a, b Event) int {
		return a.Start - b.Start
	})
	n := 0
	for i := 1; i < len(sorted); i++ {
		if sorted[i].PID != sorted[i-1].PID {
			n += 1
		}
	}
	return n
}
