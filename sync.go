package sistosched

import (
	"fmt"
	"slices"
	"strings"
)

type Mode int

const (
	ModeMutex Mode = iota
	ModeSemaphore
)

var Modes = []Mode{ModeMutex, ModeSemaphore}

func (m Mode) String() string {
	return enumName(m, "Mode", "mutex", "semaphore")
}

func ParseMode(name string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "mutex":
		return ModeMutex, nil
	case "semaphore", "sem":
		return ModeSemaphore, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownMode, name)
}

// capacity of a resource in one cycle under mode m.
// unknown resources behave like a mutex.
func (m Mode) capacity(counters map[string]int, resource string) int {
	if m == ModeMutex {
		return 1
	}
	if c, ok := counters[resource]; ok {
		return c
	}
	return 1
}

// Synchronize decides, cycle by cycle, which actions get their resource.
// Within a cycle actions are grouped per resource (in order of first appearance) and the
// first capacity actions of each group, in list order, are ACCESED; the rest are WAITING.
// Nothing is retried: every action yields exactly one one-cycle event.
func Synchronize(resources []Resource, actions []Action, mode Mode) ([]ActionEvent, int) {
	counters := make(map[string]int, len(resources))
	for _, r := range resources {
		counters[r.Name] = r.Counter
	}

	byCycle := make(map[int][]Action)
	for _, a := range actions {
		byCycle[a.Cycle] = append(byCycle[a.Cycle], a)
	}
	cycles := make([]int, 0, len(byCycle))
	for c := range byCycle {
		cycles = append(cycles, c)
	}
	slices.Sort(cycles)

	events := make([]ActionEvent, 0, len(actions))
	for _, cycle := range cycles {
		groups, order := groupByResource(byCycle[cycle])
		for _, res := range order {
			capacity := mode.capacity(counters, res)
			for idx, a := range groups[res] {
				status := Waiting
				if idx < capacity {
					status = Accessed
				}
				events = append(events, ActionEvent{
					Event:    Event{PID: a.PID, Start: cycle, End: cycle + 1},
					Resource: res,
					Status:   status,
				})
			}
		}
	}
	return events, MaxCycle(events)
}

func groupByResource(actions []Action) (map[string][]Action, []string) {
	groups := make(map[string][]Action)
	order := make([]string, 0)
	for _, a := range actions {
		if _, seen := groups[a.Resource]; !seen {
			order = append(order, a.Resource)
		}
		groups[a.Resource] = append(groups[a.Resource], a)
	}
	return groups, order
}

// SyncSummary counts the outcomes of a synchronization run.
type SyncSummary struct {
	Accessed int
	Waiting  int
	// mean number of waiting actions over the cycles that had any action
	AvgWaitingPerCycle float64
	// per resource
	ByResource map[string]ResourceSummary
}

type ResourceSummary struct {
	Accessed int
	Waiting  int
}

func Summarize(events []ActionEvent) SyncSummary {
	s := SyncSummary{ByResource: make(map[string]ResourceSummary)}
	waitingAt := make(map[int]int)
	for _, e := range events {
		if _, ok := waitingAt[e.Start]; !ok {
			waitingAt[e.Start] = 0
		}
		rs := s.ByResource[e.Resource]
		if e.Status == Accessed {
			s.Accessed += 1
			rs.Accessed += 1
		} else {
			s.Waiting += 1
			rs.Waiting += 1
			waitingAt[e.Start] += 1
		}
		s.ByResource[e.Resource] = rs
	}
	perCycle := make([]int, 0, len(waitingAt))
	for _, n := range waitingAt {
		perCycle = append(perCycle, n)
	}
	s.AvgWaitingPerCycle = avg(perCycle)
	return s
}
